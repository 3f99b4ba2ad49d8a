package enum

import (
	"github.com/fine-structures/spi.SDK/libspi/graph"
	"github.com/fine-structures/spi.SDK/spi"
	"github.com/pkg/errors"
)

// CountSubsets returns the number of nonempty edge subsets of a graph with the given edge count.
func CountSubsets(numEdges int) uint64 {
	if numEdges <= 0 {
		return 0
	}
	return (uint64(1) << uint(numEdges)) - 1
}

// EnumSubsets calls visit with each nonempty edge subset of core, in increasing subset index order,
// until visit returns false.
//
// Bit i of a subset index selects edge i of core.Edges().  Each X handed to visit is a new graph
// spanning exactly the selected edges and owned by the callee.
func EnumSubsets(core *graph.Graph, visit func(subset uint64, X *graph.Graph) bool) error {
	edges := core.Edges()
	if len(edges) > spi.MaxSubsetEdges {
		return errors.Wrapf(spi.ErrTooManyEdges, "%d edges", len(edges))
	}

	total := CountSubsets(len(edges))
	for subset := uint64(1); subset <= total; subset++ {
		X := buildSubgraph(core, edges, subset)
		if !visit(subset, X) {
			break
		}
	}
	return nil
}

// BuildSubgraph returns the sub-multigraph of core spanning exactly the edges selected by subset.
//
// Vertices not touched by a selected edge are dropped.  Vertex order and origins are carried over from core.
func BuildSubgraph(core *graph.Graph, subset uint64) *graph.Graph {
	return buildSubgraph(core, core.Edges(), subset)
}

func buildSubgraph(core *graph.Graph, edges []graph.Edge, subset uint64) *graph.Graph {
	touched := make(map[graph.VtxID]struct{}, 2*len(edges))
	for i, e := range edges {
		if subset&(uint64(1)<<uint(i)) != 0 {
			touched[e.Start] = struct{}{}
			touched[e.End] = struct{}{}
		}
	}

	X := graph.NewGraph(nil)
	for _, v := range core.Vertices() {
		if _, ok := touched[v]; ok {
			X.AddVertexFrom(v, core.Origin(v))
		}
	}
	for i, e := range edges {
		if subset&(uint64(1)<<uint(i)) != 0 {
			X.AddEdge(e.Start, e.End, e.Pos)
		}
	}
	return X
}

// ValidSubgraphs returns every edge subset of core that has enough edges and minimum degree 2.
func ValidSubgraphs(core *graph.Graph) ([]*graph.Graph, error) {
	var valid []*graph.Graph
	err := EnumSubsets(core, func(_ uint64, X *graph.Graph) bool {
		if graph.IsBasicValid(X) {
			valid = append(valid, X)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return valid, nil
}
