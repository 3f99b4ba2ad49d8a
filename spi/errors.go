package spi

import "errors"

// Errors
var (
	ErrUnsupportedInvariant = errors.New("calculation not supported for this invariant")
	ErrNegativeModulus      = errors.New("modulus must be >= 0")
	ErrBadInvariantKind     = errors.New("unknown invariant kind")
	ErrBadRank              = errors.New("bad free group rank")
	ErrBadWord              = errors.New("bad word")
	ErrTooManyEdges         = errors.New("too many edges to enumerate edge subsets")
	ErrNoGraphs             = errors.New("no graphs survived filtering")
	ErrNotOptimal           = errors.New("linear program did not reach optimality")
	ErrBadCatalogParam      = errors.New("bad catalog param")
	ErrCatalogReadOnly      = errors.New("catalog is read-only")
	ErrUnmarshal            = errors.New("unmarshal failed")
	ErrNilGraph             = errors.New("nil graph")
)
