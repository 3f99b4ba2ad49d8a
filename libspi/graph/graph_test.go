package graph_test

import (
	"strings"
	"testing"

	"github.com/fine-structures/spi.SDK/libspi/graph"
	"github.com/fine-structures/spi.SDK/spi"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cycle returns the directed cycle 1 -> 2 -> ... -> n -> 1 with edge i labeled i.
func cycle(n int) *graph.Graph {
	X := graph.NewGraph(nil)
	for i := 1; i <= n; i++ {
		X.AddEdge(graph.VtxID(i), graph.VtxID(i%n+1), i)
	}
	return X
}

func TestAddEdge(t *testing.T) {
	X := graph.NewGraph(nil)
	X.AddVertex(3)
	X.AddEdge(1, 2, 1)
	X.AddEdge(1, 2, 2)
	X.AddEdge(2, 1, -3)

	require.Equal(t, 3, X.VertexCount())
	require.Equal(t, 3, X.EdgeCount())
	assert.Equal(t, []graph.VtxID{3, 1, 2}, X.Vertices())
	assert.Equal(t, graph.VtxID(1), X.Origin(1))

	e, ok := X.EdgeAt(-3)
	require.True(t, ok)
	assert.Equal(t, graph.Edge{Start: 2, End: 1, Pos: -3}, e)

	_, ok = X.EdgeAt(7)
	assert.False(t, ok)

	assert.Panics(t, func() { X.AddEdge(1, 2, 0) })
	assert.Panics(t, func() { X.AddEdge(2, 3, 2) })
}

func TestNeighbors(t *testing.T) {
	X := graph.NewGraph(nil)
	X.AddEdge(1, 2, 1)
	X.AddEdge(3, 1, 2)
	X.AddEdge(1, 2, 3)
	X.AddEdge(1, 1, 4)

	assert.Equal(t, []graph.VtxID{2, 1}, X.OutNeighbors(1))
	assert.Equal(t, []graph.VtxID{3, 1}, X.InNeighbors(1))
	assert.Equal(t, []graph.VtxID{2, 3, 1}, X.Neighbors(1))

	in, out := X.Degrees(1)
	assert.Equal(t, 2, in)
	assert.Equal(t, 3, out)
	assert.Equal(t, 5, X.Degree(1))

	if diff := cmp.Diff([]int{1, 3, 4, -2, -4}, X.Positions(1)); diff != "" {
		t.Fatalf("positions mismatch (-want +got):\n%s", diff)
	}
}

func TestEdgesOrder(t *testing.T) {
	X := graph.NewGraph(nil)
	X.AddVertex(1)
	X.AddVertex(2)
	X.AddEdge(2, 1, 1)
	X.AddEdge(1, 2, 2)
	X.AddEdge(2, 2, 3)

	want := []graph.Edge{
		{Start: 1, End: 2, Pos: 2},
		{Start: 2, End: 1, Pos: 1},
		{Start: 2, End: 2, Pos: 3},
	}
	if diff := cmp.Diff(want, X.Edges()); diff != "" {
		t.Fatalf("edges mismatch (-want +got):\n%s", diff)
	}
}

func TestCopyDoesNotAlias(t *testing.T) {
	X := cycle(4)
	Y := graph.NewGraph(X)
	Y.RemoveVertex(1)
	Y.SetOrigin(2, 7)

	assert.Equal(t, 4, X.VertexCount())
	assert.Equal(t, 4, X.EdgeCount())
	assert.Equal(t, graph.VtxID(2), X.Origin(2))

	assert.Equal(t, 3, Y.VertexCount())
	assert.Equal(t, 2, Y.EdgeCount())
	assert.Equal(t, graph.VtxID(7), Y.Origin(2))

	_, ok := Y.EdgeAt(1)
	assert.False(t, ok)
	e, ok := Y.EdgeAt(3)
	require.True(t, ok)
	assert.Equal(t, graph.Edge{Start: 3, End: 4, Pos: 3}, e)
}

func TestRetainAndInduce(t *testing.T) {
	X := cycle(5)
	X.SetOrigin(3, 30)

	Y := X.InducedSubgraph([]graph.VtxID{4, 3, 2})
	assert.Equal(t, []graph.VtxID{2, 3, 4}, Y.Vertices())
	assert.Equal(t, 2, Y.EdgeCount())
	assert.Equal(t, graph.VtxID(30), Y.Origin(3))

	X.RetainVertices([]graph.VtxID{1, 2, 5})
	assert.Equal(t, []graph.VtxID{1, 2, 5}, X.Vertices())
	assert.Equal(t, 2, X.EdgeCount())
	assert.True(t, X.IsConnected())
}

func TestIncidenceAfterEdits(t *testing.T) {
	X := cycle(5)
	X.AddEdge(1, 1, 6)
	X.AddEdge(2, 1, -7)

	Y := graph.NewGraph(X)
	Y.AddEdge(1, 3, 8)

	assert.Equal(t, []int{1, 6, -5, -6, 7}, X.Positions(1))
	assert.Equal(t, []int{1, 6, 8, -5, -6, 7}, Y.Positions(1))

	X.RemoveVertex(2)
	assert.Equal(t, []int{6, -5, -6}, X.Positions(1))
	in, out := X.Degrees(1)
	assert.Equal(t, 2, in)
	assert.Equal(t, 1, out)
	assert.Empty(t, X.InNeighbors(3))
	assert.Equal(t, []graph.VtxID{4}, X.Neighbors(3))

	want := []graph.Edge{
		{Start: 1, End: 1, Pos: 6},
		{Start: 3, End: 4, Pos: 3},
		{Start: 4, End: 5, Pos: 4},
		{Start: 5, End: 1, Pos: 5},
	}
	if diff := cmp.Diff(want, X.Edges()); diff != "" {
		t.Fatalf("edges mismatch (-want +got):\n%s", diff)
	}

	// the copy keeps its own incidence
	assert.Equal(t, 3, Y.Degree(2))
}

func TestConnectivity(t *testing.T) {
	empty := graph.NewGraph(nil)
	assert.True(t, empty.IsConnected())
	assert.True(t, empty.IsBiconnected())
	assert.Empty(t, empty.Components())

	X := cycle(3)
	X.AddEdge(10, 11, 4)
	X.AddEdge(11, 10, 5)
	X.AddVertex(20)

	assert.False(t, X.IsConnected())
	assert.Equal(t, 3, X.NumComponents())

	comps := X.Components()
	require.Len(t, comps, 3)
	assert.Equal(t, []graph.VtxID{1, 2, 3}, comps[0].Vertices())
	assert.Equal(t, 3, comps[0].EdgeCount())
	assert.Equal(t, []graph.VtxID{10, 11}, comps[1].Vertices())
	assert.Equal(t, 2, comps[1].EdgeCount())
	assert.Equal(t, []graph.VtxID{20}, comps[2].Vertices())
	assert.Equal(t, 0, comps[2].EdgeCount())
}

func TestArticulationPoints(t *testing.T) {
	for n := 2; n <= 6; n++ {
		X := cycle(n)
		assert.Empty(t, X.ArticulationPoints(), "cycle %d", n)
		assert.True(t, X.IsBiconnected(), "cycle %d", n)
	}

	// Two triangles sharing vertex 3
	X := graph.NewGraph(nil)
	X.AddEdge(1, 2, 1)
	X.AddEdge(2, 3, 2)
	X.AddEdge(3, 1, 3)
	X.AddEdge(3, 4, 4)
	X.AddEdge(4, 5, 5)
	X.AddEdge(5, 3, 6)
	assert.Equal(t, []graph.VtxID{3}, X.ArticulationPoints())
	assert.False(t, X.IsBiconnected())
	assert.True(t, X.IsConnected())

	// Same thing but the walk starts at the shared vertex
	Y := graph.NewGraph(nil)
	Y.AddEdge(3, 1, 1)
	Y.AddEdge(1, 2, 2)
	Y.AddEdge(2, 3, 3)
	Y.AddEdge(3, 4, 4)
	Y.AddEdge(4, 5, 5)
	Y.AddEdge(5, 3, 6)
	assert.Equal(t, []graph.VtxID{3}, Y.ArticulationPoints())

	// A path has its inner vertices as cut vertices
	P := graph.NewGraph(nil)
	P.AddEdge(1, 2, 1)
	P.AddEdge(2, 3, 2)
	P.AddEdge(3, 4, 3)
	assert.Equal(t, []graph.VtxID{2, 3}, P.ArticulationPoints())
}

func TestWhiteheadGraph(t *testing.T) {
	words := []spi.Word{
		{1, 2, -1, -2},
		{1, 1, 2},
		{1, 2, 3, 1, -2},
		{2, 2, 2, -1, 2, 1},
	}
	for _, word := range words {
		rank := word.Rank()
		X := graph.NewWhiteheadGraph(word, rank)
		require.Equal(t, len(word), X.EdgeCount(), "word %v", word)
		require.Equal(t, 2*rank, X.VertexCount())

		// each vertex has degree equal to the occurrences of its letter and inverse letter
		for _, v := range X.Vertices() {
			count := 0
			for _, k := range word {
				if k == int(v) || k == -int(v) {
					count++
				}
			}
			assert.Equal(t, count, X.Degree(v), "word %v vtx %d", word, v)
		}
	}

	X := graph.NewWhiteheadGraph(spi.Word{1, 2, -1, -2}, 2)
	assert.Equal(t, []graph.VtxID{1, -1, 2, -2}, X.Vertices())
	e, ok := X.EdgeAt(1)
	require.True(t, ok)
	assert.Equal(t, graph.Edge{Start: -1, End: 2, Pos: 1}, e)
	e, _ = X.EdgeAt(4)
	assert.Equal(t, graph.Edge{Start: 2, End: 1, Pos: 4}, e)
	assert.True(t, X.IsBiconnected())
}

func TestPolicy(t *testing.T) {
	C := cycle(4)
	assert.True(t, graph.IsBasicValid(C))
	assert.True(t, graph.Accepts(spi.NoOrigami, C))
	assert.True(t, graph.Accepts(spi.Modulo(0), C))
	assert.True(t, graph.Accepts(spi.Modulo(3), C))

	// a single edge is never enough
	E := graph.NewGraph(nil)
	E.AddEdge(1, 1, 1)
	assert.False(t, graph.IsBasicValid(E))

	// two parallel edges 1 -> 2: degree 2 everywhere but unbalanced by 2
	P := graph.NewGraph(nil)
	P.AddEdge(1, 2, 1)
	P.AddEdge(1, 2, 2)
	assert.True(t, graph.Accepts(spi.NoOrigami, P))
	assert.False(t, graph.Accepts(spi.Modulo(0), P))
	assert.True(t, graph.Accepts(spi.Modulo(1), P))
	assert.True(t, graph.Accepts(spi.Modulo(2), P))
	assert.False(t, graph.Accepts(spi.Modulo(3), P))

	// two triangles sharing a vertex: balanced but has an articulation point
	B := graph.NewGraph(nil)
	B.AddEdge(1, 2, 1)
	B.AddEdge(2, 3, 2)
	B.AddEdge(3, 1, 3)
	B.AddEdge(3, 4, 4)
	B.AddEdge(4, 5, 5)
	B.AddEdge(5, 3, 6)
	assert.False(t, graph.Accepts(spi.NoOrigami, B))
	assert.True(t, graph.Accepts(spi.Modulo(0), B))

	// disconnected graphs are rejected as a whole but pass per component
	D := cycle(3)
	D.AddEdge(10, 11, 4)
	D.AddEdge(11, 10, 5)
	assert.False(t, graph.Accepts(spi.NoOrigami, D))
	assert.True(t, graph.AcceptsAllComponents(spi.NoOrigami, D))

	assert.Panics(t, func() { graph.Accepts(spi.Modulo(-1), C) })
}

func TestPrint(t *testing.T) {
	X := graph.NewWhiteheadGraph(spi.Word{1, 2, -1, -2}, 2)

	b := strings.Builder{}
	X.WriteAsString(&b, spi.PrintOpts{Graph: true, Matrix: true})
	assert.Equal(t,
		`v=4,e=4,"1:[-2#3] -1:[2#1] 2:[1#4] -2:[-1#2]","{{0,0,0,1},{0,0,1,0},{1,0,0,0},{0,1,0,0}}",`,
		b.String())
}
