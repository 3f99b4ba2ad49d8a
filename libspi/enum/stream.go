package enum

import (
	"github.com/fine-structures/spi.SDK/libspi/graph"
	"github.com/fine-structures/spi.SDK/spi"
	"github.com/pkg/errors"
)

// StreamValidSubgraphs streams the valid subgraphs of core (see ValidSubgraphs) in subset order.
func StreamValidSubgraphs(core *graph.Graph) (*spi.GraphStream, error) {
	if core.EdgeCount() > spi.MaxSubsetEdges {
		return nil, errors.Wrapf(spi.ErrTooManyEdges, "%d edges", core.EdgeCount())
	}

	next := &spi.GraphStream{
		Outlet: make(chan spi.GraphState, 1),
	}

	go func() {
		EnumSubsets(core, func(_ uint64, X *graph.Graph) bool {
			if graph.IsBasicValid(X) {
				next.Outlet <- X
			}
			return true
		})
		next.Close()
	}()

	return next, nil
}

// StreamUnfolded unfolds each graph arriving on the given stream and passes on those accepted for inv.
//
// Spi_m graphs are not unfolded, only filtered.
func StreamUnfolded(inv spi.Invariant, stream *spi.GraphStream) *spi.GraphStream {
	next := &spi.GraphStream{
		Outlet: make(chan spi.GraphState, 1),
	}

	go func() {
		for Xi := range stream.Outlet {
			X := Xi.(*graph.Graph)
			if !inv.Unfolds() {
				if graph.AcceptsAllComponents(inv, X) {
					next.Outlet <- X
				}
				continue
			}
			UnfoldEach(X, func(Y *graph.Graph) bool {
				if graph.AcceptsAllComponents(inv, Y) {
					next.Outlet <- Y
				}
				return true
			})
		}
		next.Close()
	}()

	return next
}

// Graphs drains the given stream into a slice of graphs.
func Graphs(stream *spi.GraphStream) []*graph.Graph {
	var graphs []*graph.Graph
	for X := range stream.Outlet {
		graphs = append(graphs, X.(*graph.Graph))
	}
	return graphs
}
