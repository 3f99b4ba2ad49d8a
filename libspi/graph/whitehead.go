package graph

import (
	"github.com/fine-structures/spi.SDK/spi"
)

// NewWhiteheadGraph returns the core Whitehead graph of a cyclically reduced word over the free group of the given rank.
//
// Vertices are 1, -1, 2, -2, ... r, -r.  For the letter k at (1-based) position i followed by the letter l
// (wrapping around to the first letter), the edge -k -> l is labeled i.
func NewWhiteheadGraph(word spi.Word, rank int) *Graph {
	X := NewGraph(nil)
	for k := 1; k <= rank; k++ {
		X.AddVertex(VtxID(k))
		X.AddVertex(VtxID(-k))
	}

	N := len(word)
	for i, k := range word {
		l := word[(i+1)%N]
		X.AddEdge(VtxID(-k), VtxID(l), i+1)
	}
	return X
}
