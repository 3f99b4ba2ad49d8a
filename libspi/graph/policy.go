package graph

import (
	"github.com/fine-structures/spi.SDK/spi"
	"github.com/pkg/errors"
)

// MinEdges is the number of edges a candidate graph needs to be considered at all.
const MinEdges = 2

// IsBasicValid is the invariant-independent half of validity: enough edges and every vertex of degree 2 or more.
func IsBasicValid(X *Graph) bool {
	return X.EdgeCount() >= MinEdges && X.HasMinimumDegree(2)
}

// Accepts returns true if the given graph (or graph component) is valid for the given invariant.
//
// Every invariant requires basic validity and connectivity.  NoOrigami also requires biconnectivity and
// Spi_m requires (in - out) = 0 mod m at every vertex (m = 0 demands in = out).
//
// Accepts never alters X and panics if inv carries a negative modulus.
func Accepts(inv spi.Invariant, X *Graph) bool {
	if !IsBasicValid(X) || !X.IsConnected() {
		return false
	}

	switch inv.Kind {
	case spi.KindSpi:
		return true
	case spi.KindNoOrigami:
		return len(X.ArticulationPoints()) == 0
	case spi.KindSpiModulo:
		m := inv.Modulus
		if m < 0 {
			panic(errors.Wrapf(spi.ErrNegativeModulus, "got m=%d", m))
		}
		return isBalanced(X, m)
	}

	panic(errors.Wrapf(spi.ErrBadInvariantKind, "kind %d", inv.Kind))
}

func isBalanced(X *Graph, m int) bool {
	for _, v := range X.vtx {
		in, out := X.Degrees(v)
		d := in - out
		if m == 0 {
			if d != 0 {
				return false
			}
		} else if d%m != 0 {
			return false
		}
	}
	return true
}

// AcceptsAllComponents returns true if every connected component of X is accepted for the given invariant.
func AcceptsAllComponents(inv spi.Invariant, X *Graph) bool {
	for _, comp := range X.Components() {
		if !Accepts(inv, comp) {
			return false
		}
	}
	return true
}
