package enum

import (
	"github.com/fine-structures/spi.SDK/libspi/graph"
	"github.com/fine-structures/spi.SDK/spi"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// vtxChoices holds the unfolding partitions of the signed positions at one vertex.
type vtxChoices struct {
	vtx   graph.VtxID
	parts [][][]int
}

// Unfold returns every unfolding of X.
//
// At each vertex (in vertex order), the signed positions (+pos outgoing, -pos incoming) are split into blocks
// of 2 or more.  Each combination of per-vertex splits (the first vertex varying slowest) yields one graph where
// each block becomes a new vertex (numbered from 1, in vertex then block order) whose origin is the split vertex.
// The block holding +pos becomes the start of edge pos and the block holding -pos its end.
//
// Edge positions of X are assumed to be positive.
func Unfold(X *graph.Graph) []*graph.Graph {
	var unfolded []*graph.Graph
	UnfoldEach(X, func(Y *graph.Graph) bool {
		unfolded = append(unfolded, Y)
		return true
	})
	return unfolded
}

// UnfoldEach calls visit with each unfolding of X (see Unfold) until visit returns false.
func UnfoldEach(X *graph.Graph, visit func(Y *graph.Graph) bool) {
	vtx := X.Vertices()
	choices := make([]vtxChoices, len(vtx))
	for i, v := range vtx {
		choices[i] = vtxChoices{
			vtx:   v,
			parts: UnfoldingPartitions(X.Positions(v)),
		}
		if len(choices[i].parts) == 0 {
			return
		}
	}

	edges := X.Edges()
	pick := make([]int, len(choices))
	for {
		if !visit(buildUnfolded(choices, pick, edges)) {
			return
		}

		// advance the last vertex fastest
		i := len(pick) - 1
		for ; i >= 0; i-- {
			pick[i]++
			if pick[i] < len(choices[i].parts) {
				break
			}
			pick[i] = 0
		}
		if i < 0 {
			return
		}
	}
}

func buildUnfolded(choices []vtxChoices, pick []int, edges []graph.Edge) *graph.Graph {
	Y := graph.NewGraph(nil)
	src := make(map[int]graph.VtxID, len(edges))
	dst := make(map[int]graph.VtxID, len(edges))

	nextID := graph.VtxID(0)
	for i, ch := range choices {
		for _, block := range ch.parts[pick[i]] {
			if len(block) < 2 {
				panic(errors.Wrapf(graph.ErrSingletonBlock, "vertex %d block %v", ch.vtx, block))
			}
			nextID++
			Y.AddVertexFrom(nextID, ch.vtx)
			for _, p := range block {
				if p > 0 {
					src[p] = nextID
				} else {
					dst[-p] = nextID
				}
			}
		}
	}

	for _, e := range edges {
		Y.AddEdge(src[e.Pos], dst[e.Pos], e.Pos)
	}
	return Y
}

// Filter returns the graphs whose every connected component is accepted for the given invariant.
func Filter(inv spi.Invariant, graphs []*graph.Graph) []*graph.Graph {
	var kept []*graph.Graph
	for _, X := range graphs {
		if graph.AcceptsAllComponents(inv, X) {
			kept = append(kept, X)
		}
	}
	return kept
}

// UnfoldAll unfolds each subgraph and keeps the unfoldings accepted by Filter, returning them along with
// the number of unfoldings considered.
//
// Spi_m does not unfold: its subgraphs are filtered as is.
func UnfoldAll(inv spi.Invariant, subgraphs []*graph.Graph) (filtered []*graph.Graph, numUnfolded int) {
	if !inv.Unfolds() {
		filtered = Filter(inv, subgraphs)
		return filtered, len(subgraphs)
	}

	for _, X := range subgraphs {
		UnfoldEach(X, func(Y *graph.Graph) bool {
			numUnfolded++
			if graph.AcceptsAllComponents(inv, Y) {
				filtered = append(filtered, Y)
			}
			return true
		})
	}

	klog.V(2).Infof("unfolded %d subgraphs into %d graphs, %d accepted for %v", len(subgraphs), numUnfolded, len(filtered), inv)
	return filtered, numUnfolded
}
