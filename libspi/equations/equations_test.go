package equations_test

import (
	"testing"

	"github.com/fine-structures/spi.SDK/libspi/enum"
	"github.com/fine-structures/spi.SDK/libspi/equations"
	"github.com/fine-structures/spi.SDK/libspi/graph"
	"github.com/fine-structures/spi.SDK/spi"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filteredGraphs(t *testing.T, word spi.Word, rank int, inv spi.Invariant) []*graph.Graph {
	subgraphs, err := enum.ValidSubgraphs(graph.NewWhiteheadGraph(word, rank))
	require.NoError(t, err)
	filtered, _ := enum.UnfoldAll(inv, subgraphs)
	return filtered
}

func TestOppositePos(t *testing.T) {
	for n := 1; n <= 9; n++ {
		seen := make(map[int]bool)
		for p := -n; p <= n; p++ {
			if p == 0 {
				continue
			}
			q := equations.OppositePos(p, n)
			require.NotZero(t, q)
			require.True(t, q >= -n && q <= n, "n=%d p=%d q=%d", n, p, q)
			require.Equal(t, p, equations.OppositePos(q, n), "n=%d p=%d", n, p)
			require.False(t, seen[q])
			seen[q] = true
		}
	}

	assert.Equal(t, -4, equations.OppositePos(1, 4))
	assert.Equal(t, -2, equations.OppositePos(3, 4))
	assert.Equal(t, 1, equations.OppositePos(-4, 4))
	assert.Equal(t, 3, equations.OppositePos(-2, 4))
}

func TestPartition(t *testing.T) {
	P := equations.NewPartition([][]int{{3, -4}, {2, 1, -9}})
	assert.Equal(t, "{-9,1,2}{-4,3}", P.Key())

	same := equations.NewPartition([][]int{{-4, 3}, {-9, 2, 1}})
	assert.Equal(t, 0, equations.PartitionComparator(P, same))

	other := equations.NewPartition([][]int{{-4, 3}})
	assert.Less(t, equations.PartitionComparator(P, other), 0)
	assert.Greater(t, equations.PartitionComparator(other, P), 0)

	prefix := equations.NewPartition([][]int{{-9, 1, 2}})
	assert.Less(t, equations.PartitionComparator(prefix, P), 0)
	assert.Greater(t, equations.PartitionComparator(P, prefix), 0)

	// opposite of the opposite is the original
	for n := 9; n <= 12; n++ {
		assert.Equal(t, P.Key(), P.Opposite(n).Opposite(n).Key())
	}
}

func TestCommutatorEquations(t *testing.T) {
	graphs := filteredGraphs(t, spi.Word{1, 2, -1, -2}, 2, spi.NoOrigami)
	require.Len(t, graphs, 1)

	assert.Equal(t, []int{0}, equations.DegreeEquation(graphs))
	assert.Equal(t, []float64{1}, equations.Objective(graphs))

	parts := equations.VertexPartitions(graphs[0])
	keys := make([]string, len(parts))
	for i, P := range parts {
		keys[i] = P.Key()
	}
	if diff := cmp.Diff([]string{"{-4,3}", "{-2,1}", "{-1,4}", "{-3,2}"}, keys); diff != "" {
		t.Fatalf("partitions mismatch (-want +got):\n%s", diff)
	}

	tree := equations.GluingRestrictions(graphs)
	assert.Equal(t, 4, tree.Size())

	// {-4,3} <-> {-2,1} and {-3,2} <-> {-1,4}: both sides hold graph 0
	pairs := equations.GluingEquations(graphs, 4)
	want := []equations.Pair{
		{Left: []int{0}, Right: []int{0}},
		{Left: []int{0}, Right: []int{0}},
	}
	if diff := cmp.Diff(want, pairs); diff != "" {
		t.Fatalf("pairs mismatch (-want +got):\n%s", diff)
	}
}

func TestSquareEquations(t *testing.T) {
	graphs := filteredGraphs(t, spi.Word{1, 1}, 1, spi.NoOrigami)
	require.Len(t, graphs, 1)

	assert.Equal(t, []float64{0}, equations.Objective(graphs))

	// 1 receives {-1,-2}, whose opposite {1,2} is what -1 emits
	pairs := equations.GluingEquations(graphs, 2)
	require.Len(t, pairs, 1)
	assert.Equal(t, []int{0}, pairs[0].Left)
	assert.Equal(t, []int{0}, pairs[0].Right)
}

func TestUnpairedPartition(t *testing.T) {
	// a lone directed triangle on positions 1..3 of a longer word
	X := graph.NewGraph(nil)
	X.AddEdge(1, 2, 1)
	X.AddEdge(2, 3, 2)
	X.AddEdge(3, 1, 3)

	pairs := equations.GluingEquations([]*graph.Graph{X}, 5)
	for _, pair := range pairs {
		assert.Equal(t, []int{0}, pair.Left)
	}

	unpaired := 0
	for _, pair := range pairs {
		if len(pair.Right) == 0 {
			unpaired++
		}
	}
	assert.Positive(t, unpaired)
	assert.Equal(t, []int{0}, equations.DegreeEquation([]*graph.Graph{X}))
}
