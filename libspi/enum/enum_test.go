package enum_test

import (
	"testing"

	"github.com/fine-structures/spi.SDK/libspi/enum"
	"github.com/fine-structures/spi.SDK/libspi/graph"
	"github.com/fine-structures/spi.SDK/spi"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var commutator = spi.Word{1, 2, -1, -2}

func TestEnumSubsets(t *testing.T) {
	core := graph.NewWhiteheadGraph(spi.Word{1, 2, 3, 1, -2}, 3)
	require.Equal(t, 5, core.EdgeCount())

	count := uint64(0)
	var last uint64
	err := enum.EnumSubsets(core, func(subset uint64, X *graph.Graph) bool {
		count++
		require.Greater(t, subset, last)
		last = subset

		edges := 0
		for i := 0; i < core.EdgeCount(); i++ {
			if subset&(1<<uint(i)) != 0 {
				edges++
			}
		}
		require.Equal(t, edges, X.EdgeCount())
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(31), count)
	assert.Equal(t, enum.CountSubsets(5), count)
	assert.Equal(t, uint64(0), enum.CountSubsets(0))

	// stopping early
	count = 0
	enum.EnumSubsets(core, func(uint64, *graph.Graph) bool {
		count++
		return count < 3
	})
	assert.Equal(t, uint64(3), count)
}

func TestBuildSubgraph(t *testing.T) {
	core := graph.NewWhiteheadGraph(commutator, 2)
	edges := core.Edges()

	// edges 0 and 2 of the edge order
	X := enum.BuildSubgraph(core, 0x5)
	require.Equal(t, 2, X.EdgeCount())
	want := []graph.Edge{edges[0], edges[2]}
	if diff := cmp.Diff(want, X.Edges()); diff != "" {
		t.Fatalf("edges mismatch (-want +got):\n%s", diff)
	}
	for _, v := range X.Vertices() {
		assert.Equal(t, v, X.Origin(v))
	}
	assert.Equal(t, []graph.VtxID{1, 2, -2}, X.Vertices())
}

func TestValidSubgraphs(t *testing.T) {
	core := graph.NewWhiteheadGraph(commutator, 2)
	valid, err := enum.ValidSubgraphs(core)
	require.NoError(t, err)
	require.Len(t, valid, 1)
	assert.Equal(t, 4, valid[0].EdgeCount())

	valid, err = enum.ValidSubgraphs(graph.NewWhiteheadGraph(spi.Word{1}, 1))
	require.NoError(t, err)
	assert.Empty(t, valid)

	// x1^2 x2^2: only the whole graph has minimum degree 2
	valid, err = enum.ValidSubgraphs(graph.NewWhiteheadGraph(spi.Word{1, 1, 2, 2}, 2))
	require.NoError(t, err)
	require.Len(t, valid, 1)
	assert.Equal(t, 4, valid[0].EdgeCount())
}

func TestTooManyEdges(t *testing.T) {
	word := make(spi.Word, spi.MaxSubsetEdges+1)
	for i := range word {
		word[i] = 1
	}
	core := graph.NewWhiteheadGraph(word, 1)

	_, err := enum.ValidSubgraphs(core)
	assert.ErrorIs(t, err, spi.ErrTooManyEdges)

	_, err = enum.StreamValidSubgraphs(core)
	assert.ErrorIs(t, err, spi.ErrTooManyEdges)
}

func TestSetPartitions(t *testing.T) {
	bell := []int{1, 1, 2, 5, 15, 52, 203}
	unfolding := []int{1, 0, 1, 1, 4, 11, 41}

	for k := 0; k < len(bell); k++ {
		items := make([]int, k)
		for i := range items {
			items[i] = i + 1
		}
		assert.Len(t, enum.SetPartitions(items), bell[k], "k=%d", k)

		parts := enum.UnfoldingPartitions(items)
		assert.Len(t, parts, unfolding[k], "k=%d", k)
		for _, part := range parts {
			n := 0
			for _, block := range part {
				assert.GreaterOrEqual(t, len(block), 2)
				n += len(block)
			}
			assert.Equal(t, k, n)
		}
	}

	want := [][][]int{
		{{1, 2, 3}},
		{{1, 2}, {3}},
		{{1, 3}, {2}},
		{{1}, {2, 3}},
		{{1}, {2}, {3}},
	}
	if diff := cmp.Diff(want, enum.SetPartitions([]int{1, 2, 3})); diff != "" {
		t.Fatalf("partition order mismatch (-want +got):\n%s", diff)
	}

	want = [][][]int{
		{{5, -1, 2, -7}},
		{{5, -1}, {2, -7}},
		{{5, 2}, {-1, -7}},
		{{5, -7}, {-1, 2}},
	}
	if diff := cmp.Diff(want, enum.UnfoldingPartitions([]int{5, -1, 2, -7})); diff != "" {
		t.Fatalf("unfolding partition order mismatch (-want +got):\n%s", diff)
	}
}

func TestUnfoldCycle(t *testing.T) {
	core := graph.NewWhiteheadGraph(commutator, 2)
	unfolded := enum.Unfold(core)
	require.Len(t, unfolded, 1)

	Y := unfolded[0]
	assert.Equal(t, []graph.VtxID{1, 2, 3, 4}, Y.Vertices())
	origins := []graph.VtxID{1, -1, 2, -2}
	for i, v := range Y.Vertices() {
		assert.Equal(t, origins[i], Y.Origin(v))
	}

	want := []graph.Edge{
		{Start: 1, End: 4, Pos: 3},
		{Start: 2, End: 3, Pos: 1},
		{Start: 3, End: 1, Pos: 4},
		{Start: 4, End: 2, Pos: 2},
	}
	if diff := cmp.Diff(want, Y.Edges()); diff != "" {
		t.Fatalf("unfolded edges mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, Y.IsBiconnected())
}

func TestUnfoldSplits(t *testing.T) {
	// x1^4: -1 emits positions 1..4 and 1 receives them, so each side has 4 unfolding partitions
	core := graph.NewWhiteheadGraph(spi.Word{1, 1, 1, 1}, 1)
	unfolded := enum.Unfold(core)
	require.Len(t, unfolded, 16)

	// first combination keeps both vertices whole
	first := unfolded[0]
	assert.Equal(t, 2, first.VertexCount())
	assert.Equal(t, 4, first.EdgeCount())

	// second splits only the last vertex (-1) into {1,2} {3,4}
	second := unfolded[1]
	require.Equal(t, 3, second.VertexCount())
	assert.Equal(t, graph.VtxID(1), second.Origin(1))
	assert.Equal(t, graph.VtxID(-1), second.Origin(2))
	assert.Equal(t, graph.VtxID(-1), second.Origin(3))
	assert.Equal(t, []graph.VtxID{1}, second.ArticulationPoints())

	for _, Y := range unfolded {
		assert.Equal(t, 4, Y.EdgeCount())
		assert.True(t, Y.HasMinimumDegree(2))
	}

	// a whole vertex facing a split one is a cut vertex, so survivors split both sides or neither
	filtered := enum.Filter(spi.NoOrigami, unfolded)
	assert.Equal(t, 1+3*3, len(filtered))
	for _, Y := range filtered {
		for _, comp := range Y.Components() {
			assert.True(t, comp.IsBiconnected())
		}
	}

	// the source/sink split is never balanced
	assert.Empty(t, enum.Filter(spi.Modulo(0), unfolded))
	assert.Len(t, enum.Filter(spi.Modulo(2), unfolded), 16)
}

func TestUnfoldAll(t *testing.T) {
	core := graph.NewWhiteheadGraph(commutator, 2)
	subgraphs, err := enum.ValidSubgraphs(core)
	require.NoError(t, err)

	filtered, numUnfolded := enum.UnfoldAll(spi.NoOrigami, subgraphs)
	assert.Equal(t, 1, numUnfolded)
	require.Len(t, filtered, 1)
	assert.Equal(t, 4, filtered[0].VertexCount())

	filtered, numUnfolded = enum.UnfoldAll(spi.Modulo(2), subgraphs)
	assert.Equal(t, 1, numUnfolded)
	require.Len(t, filtered, 1)
	assert.Same(t, subgraphs[0], filtered[0])
}

func TestStreams(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	core := graph.NewWhiteheadGraph(spi.Word{1, 1, 1, 1}, 1)
	subgraphs, err := enum.ValidSubgraphs(core)
	require.NoError(t, err)
	batch, _ := enum.UnfoldAll(spi.NoOrigami, subgraphs)

	stream, err := enum.StreamValidSubgraphs(core)
	require.NoError(t, err)
	streamed := enum.Graphs(enum.StreamUnfolded(spi.NoOrigami, stream))

	require.Equal(t, len(batch), len(streamed))
	for i := range batch {
		if diff := cmp.Diff(batch[i].Edges(), streamed[i].Edges()); diff != "" {
			t.Fatalf("graph %d mismatch (-batch +streamed):\n%s", i, diff)
		}
	}

	stream, err = enum.StreamValidSubgraphs(core)
	require.NoError(t, err)
	assert.Equal(t, len(subgraphs), stream.PullAll())
}
