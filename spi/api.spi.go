package spi

import (
	"io"
	"time"
)

const (

	// MaxSubsetEdges is the max number of edges whose subsets can be enumerated (subset indices are a uint64 bitmask).
	MaxSubsetEdges = 62

	// InfiniteValue is the sentinel value reported when an invariant is infinite or could not be computed.
	InfiniteValue = -1.0
)

// Word is a free group word: a sequence of nonzero generator indices where -k denotes the inverse of generator k.
//
// Words handed to the pipeline are assumed to be cyclically reduced.
type Word []int

// InvariantKind selects which stable invariant is computed.
type InvariantKind int32

const (
	KindSpi       InvariantKind = 0 // stable primitivity rank (currently not supported)
	KindSpiModulo InvariantKind = 1 // Spi_m: degree balance required modulo m
	KindNoOrigami InvariantKind = 2 // Spi with biconnected (origami-free) components
)

// Invariant is the invariant selector: a kind plus its payload (the modulus for KindSpiModulo).
//
// An Invariant is a read-only value and may be shared freely across validity checks.
type Invariant struct {
	Kind    InvariantKind
	Modulus int
}

// NoOrigami is the no-origami invariant selector.
var NoOrigami = Invariant{Kind: KindNoOrigami}

// Modulo returns the Spi_m invariant selector for the given modulus.
func Modulo(m int) Invariant {
	return Invariant{Kind: KindSpiModulo, Modulus: m}
}

// GraphState is a graph that can travel through a GraphStream.
type GraphState interface {
	VertexCount() int
	EdgeCount() int

	WriteAsString(out io.Writer, opts PrintOpts)

	// Returns a new copy of this instance.
	MakeCopy() GraphState
}

// Result is the outcome of one invariant calculation.
type Result struct {
	Word      Word
	Rank      int
	Invariant Invariant

	Value    float64 // InfiniteValue if Infinite is set
	Infinite bool    // set if there were no surviving graphs or the LP had no optimum

	MinimalWord Word // shortest word in the Type II automorphism orbit (if requested)

	NumSubgraphs int // valid subgraphs of the core Whitehead graph
	NumUnfolded  int // graphs emitted by vertex unfolding
	NumFiltered  int // graphs accepted by the invariant policy
	NumRows      int // gluing equations handed to the LP

	Support []GraphState // filtered graphs carrying nonzero solution weight (if requested)
	Weights []float64    // solution weight of each Support graph

	Elapsed time.Duration
	Cached  bool // set if this Result was read from a Catalog
}

// Key returns the catalog key identifying the calculation this Result answers.
func (res *Result) Key() ResultKey {
	return ResultKey{
		Word:      res.Word,
		Rank:      res.Rank,
		Invariant: res.Invariant,
	}
}

// ResultKey identifies a calculation: a word, the rank of the free group it lives in, and the invariant.
type ResultKey struct {
	Word      Word
	Rank      int
	Invariant Invariant
}

// OnResultHit is used to return Results meeting a set of selection criteria.
type OnResultHit chan<- *Result

// CatalogContext is a container for open / active Catalog instances.
type CatalogContext interface {

	// Attaches the given Catalog to this context.
	AttachCatalog(cat Catalog)

	// Detaches the given Catalog from this context.
	DetachCatalog(cat Catalog)

	// Closes all open catalogs to be closed then closes.
	Close()

	// Signals when Close() completed and all open Catalogs have been closed
	Done() <-chan struct{}
}

// CatalogOpts specifies params for opening a Catalog
type CatalogOpts struct {
	DbPathName string // omit for in-memory db
	ReadOnly   bool   // open in read-only mode
}

// Catalog wraps a database of computed invariants.
type Catalog interface {

	// Tries to add the given result to this catalog.
	// If true is returned, no result for res.Key() existed and res was added.
	TryAddResult(res *Result) bool

	// Lookup returns the stored result for the given key, if present.
	Lookup(key ResultKey) (*Result, bool)

	// Returns true if this catalog was opened for read-only access.
	IsReadOnly() bool

	// NumResults returns the number of results stored in this catalog.
	NumResults() int64

	// Select fires the given callback with each stored Result that meets the selection criteria.
	Select(sel ResultSelector, onHit OnResultHit)

	Close() error
}

// ResultSelector is an operator that either selects a given Result or not.
type ResultSelector struct {
	Invariant  Invariant
	Rank       int  // 0 selects any rank
	MinLength  int  // min word length
	MaxLength  int  // max word length (0 denotes no limit)
	FiniteOnly bool // only select finite results
}

// PrintOpts specifies what is printed when printing a graph
type PrintOpts struct {
	Label  string // Prefix label
	Graph  bool   // If set, prints the adjacency list of the graph
	Matrix bool   // if set, prints the adjacency matrix of the graph
	Origin bool   // if set, prints the original vertex of each vertex
}

// DefaultPrintOpts{}
var DefaultPrintOpts = PrintOpts{
	Graph: true,
}

// Config holds the settings of a calculation or statistics run.
type Config struct {
	Rank      int    `mapstructure:"rank" yaml:"rank"`
	Invariant string `mapstructure:"invariant" yaml:"invariant"`
	Modulus   int    `mapstructure:"modulus" yaml:"modulus"`
	Catalog   string `mapstructure:"catalog" yaml:"catalog"`
	Minimize  bool   `mapstructure:"minimize" yaml:"minimize"`

	Stats StatsConfig `mapstructure:"stats" yaml:"stats"`
}

// StatsConfig holds the settings of a statistics sweep.
type StatsConfig struct {
	MinLength int   `mapstructure:"min_length" yaml:"min_length"`
	MaxLength int   `mapstructure:"max_length" yaml:"max_length"`
	Samples   int   `mapstructure:"samples" yaml:"samples"`
	Seed      int64 `mapstructure:"seed" yaml:"seed"`
	Workers   int   `mapstructure:"workers" yaml:"workers"`
}

// DefaultConfig is used for any setting not otherwise specified.
var DefaultConfig = Config{
	Rank:      2,
	Invariant: "no-origami",
	Stats: StatsConfig{
		MinLength: 2,
		MaxLength: 6,
		Samples:   10,
		Seed:      1,
		Workers:   1,
	},
}
