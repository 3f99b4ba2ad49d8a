package pipeline

import (
	"time"

	"github.com/fine-structures/spi.SDK/libspi/automorph"
	"github.com/fine-structures/spi.SDK/libspi/enum"
	"github.com/fine-structures/spi.SDK/libspi/equations"
	"github.com/fine-structures/spi.SDK/libspi/graph"
	"github.com/fine-structures/spi.SDK/libspi/lpbridge"
	"github.com/fine-structures/spi.SDK/spi"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// Opts adjusts how Calculate runs.  The zero value is a plain calculation.
type Opts struct {
	Minimize    bool            // also find the minimal word in the Type II orbit of the word
	KeepSupport bool            // keep the filtered graphs carrying nonzero weight
	Stream      bool            // run enumeration and unfolding as a channel pipeline (NumUnfolded is not counted)
	Solver      lpbridge.Solver // nil selects lpbridge.NewSimplexSolver()
	Catalog     spi.Catalog     // if set, results are looked up before (unless KeepSupport) and stored after calculating
}

// Calculate computes the given invariant of a cyclically reduced word over the free group of the given rank.
//
// Unsupported invariants and bad input return an error before any enumeration.  A calculation that finds no
// surviving graphs or no LP optimum is not an error: the Result is marked Infinite.
func Calculate(word spi.Word, rank int, inv spi.Invariant, opts Opts) (*spi.Result, error) {
	if err := inv.Validate(); err != nil {
		return nil, err
	}
	if err := word.Validate(rank); err != nil {
		return nil, err
	}

	key := spi.ResultKey{
		Word:      word,
		Rank:      rank,
		Invariant: inv,
	}
	// support graphs are not stored, so a calculation that wants them always runs
	if opts.Catalog != nil && !opts.KeepSupport {
		if res, found := opts.Catalog.Lookup(key); found {
			res.Cached = true
			if opts.Minimize && res.MinimalWord == nil {
				res.MinimalWord = automorph.MinimalWord(word, rank)
			}
			return res, nil
		}
	}

	start := time.Now()
	res := &spi.Result{
		Word:      append(spi.Word(nil), word...),
		Rank:      rank,
		Invariant: inv,
	}
	if opts.Minimize {
		res.MinimalWord = automorph.MinimalWord(word, rank)
	}

	filtered, err := filteredGraphs(res, opts)
	if err != nil {
		return nil, err
	}

	if len(filtered) == 0 {
		markInfinite(res)
	} else {
		degree := equations.DegreeEquation(filtered)
		pairs := equations.GluingEquations(filtered, len(word))
		problem := lpbridge.BuildProblem(equations.Objective(filtered), pairs, degree)
		res.NumRows = problem.NumRows()

		solver := opts.Solver
		if solver == nil {
			solver = lpbridge.NewSimplexSolver()
		}
		sol, err := lpbridge.SolveWith(solver, problem)
		switch {
		case err == nil:
			res.Value = sol.Value
			if opts.KeepSupport {
				for _, i := range sol.Support() {
					res.Support = append(res.Support, filtered[i])
					res.Weights = append(res.Weights, sol.X[i])
				}
			}
		case errors.Is(err, spi.ErrNotOptimal), errors.Is(err, spi.ErrNoGraphs):
			klog.V(1).Infof("%v (%v): %v", word, inv, err)
			markInfinite(res)
		default:
			return nil, err
		}
	}

	res.Elapsed = time.Since(start)
	klog.V(2).Infof("%v (%v): value=%v subgraphs=%d unfolded=%d filtered=%d rows=%d in %v",
		word, inv, res.Value, res.NumSubgraphs, res.NumUnfolded, res.NumFiltered, res.NumRows, res.Elapsed)

	if opts.Catalog != nil && !opts.Catalog.IsReadOnly() {
		opts.Catalog.TryAddResult(res)
	}
	return res, nil
}

func markInfinite(res *spi.Result) {
	res.Infinite = true
	res.Value = spi.InfiniteValue
}

// filteredGraphs runs the Whitehead graph through subgraph enumeration, unfolding, and filtering.
func filteredGraphs(res *spi.Result, opts Opts) ([]*graph.Graph, error) {
	core := graph.NewWhiteheadGraph(res.Word, res.Rank)

	if opts.Stream {
		subgraphs, err := enum.StreamValidSubgraphs(core)
		if err != nil {
			return nil, err
		}
		counted := subgraphs.Select(func(spi.GraphState) bool {
			res.NumSubgraphs++
			return true
		})
		filtered := enum.Graphs(enum.StreamUnfolded(res.Invariant, counted))
		res.NumFiltered = len(filtered)
		return filtered, nil
	}

	subgraphs, err := enum.ValidSubgraphs(core)
	if err != nil {
		return nil, err
	}
	klog.V(2).Infof("%v: %d valid subgraphs of %d edges", res.Word, len(subgraphs), core.EdgeCount())

	filtered, numUnfolded := enum.UnfoldAll(res.Invariant, subgraphs)
	res.NumSubgraphs = len(subgraphs)
	res.NumUnfolded = numUnfolded
	res.NumFiltered = len(filtered)
	return filtered, nil
}
