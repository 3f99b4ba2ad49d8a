package graph

import (
	"github.com/fine-structures/spi.SDK/spi"
	"github.com/pkg/errors"
)

// Graph is a directed multigraph whose edges are labeled by word positions.
//
// Vertices and edges keep their insertion order, so every traversal over a Graph is deterministic.
// Each vertex also records the vertex of the graph it was derived from (its origin).
type Graph struct {
	vtx    []VtxID
	origin map[VtxID]VtxID
	edges  []Edge // insertion order
	byPos  map[int]int
	out    map[VtxID][]int // vertex -> indices of its outgoing edges, ascending
	in     map[VtxID][]int // vertex -> indices of its incoming edges, ascending
}

// NewGraph returns a new Graph, copying Xsrc if given.
//
// The returned Graph shares no storage with Xsrc.
func NewGraph(Xsrc *Graph) *Graph {
	X := &Graph{}
	X.Init(Xsrc)
	return X
}

func (X *Graph) Init(Xsrc *Graph) {
	X.vtx = X.vtx[:0]
	X.edges = X.edges[:0]
	X.origin = make(map[VtxID]VtxID)
	X.byPos = make(map[int]int)
	X.out = make(map[VtxID][]int)
	X.in = make(map[VtxID][]int)

	if Xsrc == nil {
		return
	}

	X.vtx = append(X.vtx, Xsrc.vtx...)
	X.edges = append(X.edges, Xsrc.edges...)
	for v, orig := range Xsrc.origin {
		X.origin[v] = orig
	}
	for pos, idx := range Xsrc.byPos {
		X.byPos[pos] = idx
	}
	for v, idx := range Xsrc.out {
		X.out[v] = append([]int(nil), idx...)
	}
	for v, idx := range Xsrc.in {
		X.in[v] = append([]int(nil), idx...)
	}
}

// MakeCopy implements spi.GraphState.
func (X *Graph) MakeCopy() spi.GraphState {
	return NewGraph(X)
}

func (X *Graph) VertexCount() int {
	return len(X.vtx)
}

func (X *Graph) EdgeCount() int {
	return len(X.edges)
}

// Vertices returns this graph's vertices in insertion order.
func (X *Graph) Vertices() []VtxID {
	return X.vtx
}

func (X *Graph) HasVertex(v VtxID) bool {
	_, exists := X.origin[v]
	return exists
}

// AddVertex adds v (whose origin is itself) if not already present.
func (X *Graph) AddVertex(v VtxID) {
	if X.HasVertex(v) {
		return
	}
	X.vtx = append(X.vtx, v)
	X.origin[v] = v
}

// AddVertexFrom adds v with the given origin.
func (X *Graph) AddVertexFrom(v, orig VtxID) {
	X.AddVertex(v)
	X.origin[v] = orig
}

// Origin returns the vertex v was derived from.
func (X *Graph) Origin(v VtxID) VtxID {
	orig, exists := X.origin[v]
	if !exists {
		panic(errors.Wrapf(ErrMissingVtx, "vertex %d", v))
	}
	return orig
}

func (X *Graph) SetOrigin(v, orig VtxID) {
	if !X.HasVertex(v) {
		panic(errors.Wrapf(ErrMissingVtx, "vertex %d", v))
	}
	X.origin[v] = orig
}

// AddEdge adds the edge start->end labeled pos, adding either vertex if absent.
//
// Panics if pos is 0 or is already in use.
func (X *Graph) AddEdge(start, end VtxID, pos int) {
	if pos == 0 {
		panic(ErrZeroPosition)
	}
	if _, exists := X.byPos[pos]; exists {
		panic(errors.Wrapf(ErrDuplicatePos, "pos %d", pos))
	}
	X.AddVertex(start)
	X.AddVertex(end)
	idx := len(X.edges)
	X.byPos[pos] = idx
	X.out[start] = append(X.out[start], idx)
	X.in[end] = append(X.in[end], idx)
	X.edges = append(X.edges, Edge{
		Start: start,
		End:   end,
		Pos:   pos,
	})
}

// EdgeAt returns the edge labeled pos, if present.
func (X *Graph) EdgeAt(pos int) (Edge, bool) {
	idx, exists := X.byPos[pos]
	if !exists {
		return Edge{}, false
	}
	return X.edges[idx], true
}

// Edges returns all edges ordered by start vertex (insertion order) and then by edge insertion order.
func (X *Graph) Edges() []Edge {
	edges := make([]Edge, 0, len(X.edges))
	for _, v := range X.vtx {
		for _, idx := range X.out[v] {
			edges = append(edges, X.edges[idx])
		}
	}
	return edges
}

// OutNeighbors returns the distinct ends of edges leaving v, in edge insertion order.
func (X *Graph) OutNeighbors(v VtxID) []VtxID {
	var nbrs []VtxID
	for _, idx := range X.out[v] {
		nbrs = appendUnique(nbrs, X.edges[idx].End)
	}
	return nbrs
}

// InNeighbors returns the distinct starts of edges entering v, in edge insertion order.
func (X *Graph) InNeighbors(v VtxID) []VtxID {
	var nbrs []VtxID
	for _, idx := range X.in[v] {
		nbrs = appendUnique(nbrs, X.edges[idx].Start)
	}
	return nbrs
}

// Neighbors returns the distinct vertices joined to v by an edge in either direction, in edge insertion order.
func (X *Graph) Neighbors(v VtxID) []VtxID {
	var nbrs []VtxID
	out, in := X.out[v], X.in[v]
	for len(out) > 0 || len(in) > 0 {
		var e Edge
		switch {
		case len(in) == 0 || (len(out) > 0 && out[0] < in[0]):
			e = X.edges[out[0]]
			out = out[1:]
		case len(out) == 0 || in[0] < out[0]:
			e = X.edges[in[0]]
			in = in[1:]
		default: // loop
			e = X.edges[out[0]]
			out, in = out[1:], in[1:]
		}
		if e.Start == v {
			nbrs = appendUnique(nbrs, e.End)
		} else {
			nbrs = appendUnique(nbrs, e.Start)
		}
	}
	return nbrs
}

// Degrees returns the in-degree and out-degree of v.  A loop counts once in each.
func (X *Graph) Degrees(v VtxID) (in, out int) {
	return len(X.in[v]), len(X.out[v])
}

// Degree returns the combined in + out arity of v.
func (X *Graph) Degree(v VtxID) int {
	in, out := X.Degrees(v)
	return in + out
}

// Positions returns the signed positions incident to v: +pos for each outgoing edge then -pos for each incoming edge.
func (X *Graph) Positions(v VtxID) []int {
	pos := make([]int, 0, len(X.out[v])+len(X.in[v]))
	for _, idx := range X.out[v] {
		pos = append(pos, X.edges[idx].Pos)
	}
	for _, idx := range X.in[v] {
		pos = append(pos, -X.edges[idx].Pos)
	}
	return pos
}

// HasMinimumDegree returns true if every vertex has a combined arity of at least k.
func (X *Graph) HasMinimumDegree(k int) bool {
	for _, v := range X.vtx {
		if X.Degree(v) < k {
			return false
		}
	}
	return true
}

// RetainVertices drops every vertex not in active along with every edge touching a dropped vertex.
func (X *Graph) RetainVertices(active []VtxID) {
	keep := make(map[VtxID]struct{}, len(active))
	for _, v := range active {
		keep[v] = struct{}{}
	}
	X.retain(func(v VtxID) bool {
		_, ok := keep[v]
		return ok
	})
}

// RemoveVertex removes v and every edge touching it.
func (X *Graph) RemoveVertex(v VtxID) {
	X.retain(func(u VtxID) bool {
		return u != v
	})
}

func (X *Graph) retain(keep func(v VtxID) bool) {
	vtx := X.vtx[:0]
	for _, v := range X.vtx {
		if keep(v) {
			vtx = append(vtx, v)
		} else {
			delete(X.origin, v)
		}
	}
	X.vtx = vtx

	edges := X.edges[:0]
	X.byPos = make(map[int]int, len(X.edges))
	X.out = make(map[VtxID][]int, len(X.vtx))
	X.in = make(map[VtxID][]int, len(X.vtx))
	for _, e := range X.edges {
		if keep(e.Start) && keep(e.End) {
			idx := len(edges)
			X.byPos[e.Pos] = idx
			X.out[e.Start] = append(X.out[e.Start], idx)
			X.in[e.End] = append(X.in[e.End], idx)
			edges = append(edges, e)
		}
	}
	X.edges = edges
}

// InducedSubgraph returns a new graph over the given vertices holding every edge of X joining two of them.
//
// Vertex order, edge order, and origins are carried over from X.
func (X *Graph) InducedSubgraph(vtx []VtxID) *Graph {
	sub := make(map[VtxID]struct{}, len(vtx))
	for _, v := range vtx {
		sub[v] = struct{}{}
	}

	Y := NewGraph(nil)
	for _, v := range X.vtx {
		if _, ok := sub[v]; ok {
			Y.AddVertexFrom(v, X.origin[v])
		}
	}
	for _, e := range X.edges {
		_, okA := sub[e.Start]
		_, okB := sub[e.End]
		if okA && okB {
			Y.AddEdge(e.Start, e.End, e.Pos)
		}
	}
	return Y
}

func appendUnique(list []VtxID, v VtxID) []VtxID {
	for _, u := range list {
		if u == v {
			return list
		}
	}
	return append(list, v)
}
