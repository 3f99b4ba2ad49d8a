package graph

import (
	"errors"
)

// VtxID identifies a vertex.  In a Whitehead graph, +k and -k denote generator k and its inverse.
type VtxID int

// Edge is a directed edge labeled by the (1-based) word position that produced it.
//
// Within a graph, a position labels at most one edge.
type Edge struct {
	Start VtxID
	End   VtxID
	Pos   int
}

// IsLoop returns true if this edge starts and ends at the same vertex.
func (e Edge) IsLoop() bool {
	return e.Start == e.End
}

var (
	ErrZeroPosition   = errors.New("edge position must be nonzero")
	ErrDuplicatePos   = errors.New("edge position already in use")
	ErrMissingVtx     = errors.New("vertex not present")
	ErrSingletonBlock = errors.New("unfolding block carries fewer than 2 incidences")
)
