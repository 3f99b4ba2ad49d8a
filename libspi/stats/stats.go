// Package stats samples random cyclically reduced words and summarizes their invariants per word length.
package stats

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/fine-structures/spi.SDK/libspi/automorph"
	"github.com/fine-structures/spi.SDK/libspi/catalog"
	"github.com/fine-structures/spi.SDK/libspi/pipeline"
	"github.com/fine-structures/spi.SDK/spi"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"golang.org/x/sync/errgroup"
)

// Opts specifies a sweep over random words of each length in [MinLength, MaxLength].
type Opts struct {
	Rank      int
	Invariant spi.Invariant
	MinLength int
	MaxLength int
	Samples   int   // words per length
	Seed      int64 // seeds the word generator so a sweep can be repeated
	Workers   int   // words calculated at once; < 1 means 1
	Calc      pipeline.Opts
}

// OptsFromConfig returns the sweep described by the given config.
func OptsFromConfig(cfg spi.Config) (Opts, error) {
	inv, err := spi.ParseInvariant(cfg.Invariant, cfg.Modulus)
	if err != nil {
		return Opts{}, err
	}
	return Opts{
		Rank:      cfg.Rank,
		Invariant: inv,
		MinLength: cfg.Stats.MinLength,
		MaxLength: cfg.Stats.MaxLength,
		Samples:   cfg.Stats.Samples,
		Seed:      cfg.Stats.Seed,
		Workers:   cfg.Stats.Workers,
		Calc: pipeline.Opts{
			Minimize: cfg.Minimize,
		},
	}, nil
}

// LengthStats summarizes the samples of one word length.
type LengthStats struct {
	Length   int           `yaml:"length"`
	Samples  int           `yaml:"samples"`
	Finite   int           `yaml:"finite"`
	Infinite int           `yaml:"infinite"`
	Mean     float64       `yaml:"mean"`
	StdDev   float64       `yaml:"stddev"`
	Min      float64       `yaml:"min"`
	Max      float64       `yaml:"max"`
	Distinct int           `yaml:"distinct_minimal_words"`
	Elapsed  time.Duration `yaml:"elapsed"`
}

// RandomReducedWord returns a uniformly drawn cyclically reduced word of the given length over the free group of the given rank.
//
// No letter is followed by its inverse, including the last letter wrapping around to the first.
func RandomReducedWord(rng *rand.Rand, length, rank int) spi.Word {
	w := make(spi.Word, 0, length)
	prev := 0
	for i := 0; i < length; i++ {
		var k int
		for {
			k = 1 + rng.Intn(2*rank)
			if k > rank {
				k = rank - k
			}
			if k == -prev {
				continue
			}
			if i > 0 && i == length-1 && k == -w[0] {
				continue
			}
			break
		}
		w = append(w, k)
		prev = k
	}
	return w
}

func (opts *Opts) validate() error {
	if opts.Rank < 1 {
		return errors.Wrapf(spi.ErrBadRank, "rank %d", opts.Rank)
	}
	if opts.MinLength < 1 || opts.MaxLength < opts.MinLength {
		return errors.Errorf("bad length range [%d, %d]", opts.MinLength, opts.MaxLength)
	}
	if opts.Samples < 1 {
		return errors.Errorf("bad sample count %d", opts.Samples)
	}
	return opts.Invariant.Validate()
}

// Sweep calculates opts.Samples random words for each length, calling onLength (if given) as each length completes.
//
// Words are drawn in order from a generator seeded with opts.Seed, so a sweep is repeatable regardless of opts.Workers.
func Sweep(ctx context.Context, opts Opts, onLength func(*LengthStats)) ([]*LengthStats, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	var all []*LengthStats

	for L := opts.MinLength; L <= opts.MaxLength; L++ {
		words := make([]spi.Word, opts.Samples)
		for i := range words {
			words[i] = RandomReducedWord(rng, L, opts.Rank)
		}

		st, err := sweepLength(ctx, opts, L, words)
		if err != nil {
			return all, err
		}
		klog.V(1).Infof("length %d: mean=%.4f stddev=%.4f finite=%d infinite=%d in %v",
			L, st.Mean, st.StdDev, st.Finite, st.Infinite, st.Elapsed)

		all = append(all, st)
		if onLength != nil {
			onLength(st)
		}
	}
	return all, nil
}

func sweepLength(ctx context.Context, opts Opts, L int, words []spi.Word) (*LengthStats, error) {
	start := time.Now()

	minimal := catalog.NewWordSet()
	defer minimal.Close()

	results := make([]*spi.Result, len(words))

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for i, w := range words {
		i, w := i, w
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			res, err := pipeline.Calculate(w, opts.Rank, opts.Invariant, opts.Calc)
			if err != nil {
				return errors.Wrapf(err, "word %v", w)
			}
			results[i] = res

			mw := res.MinimalWord
			if mw == nil {
				mw = automorph.MinimalWord(w, opts.Rank)
			}
			minimal.TryAdd(automorph.LeastRotation(mw))
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	st := Summarize(L, results)
	st.Distinct = minimal.Len()
	st.Elapsed = time.Since(start)
	return st, nil
}

// Summarize returns the mean, population standard deviation, and range of the finite values in results.
func Summarize(L int, results []*spi.Result) *LengthStats {
	st := &LengthStats{
		Length:  L,
		Samples: len(results),
	}

	sum, sqSum := 0.0, 0.0
	for _, res := range results {
		if res.Infinite {
			st.Infinite++
			continue
		}
		v := res.Value
		if st.Finite == 0 || v < st.Min {
			st.Min = v
		}
		if st.Finite == 0 || v > st.Max {
			st.Max = v
		}
		st.Finite++
		sum += v
		sqSum += v * v
	}

	if st.Finite > 0 {
		n := float64(st.Finite)
		st.Mean = sum / n
		if variance := sqSum/n - st.Mean*st.Mean; variance > 0 {
			st.StdDev = math.Sqrt(variance)
		}
	}
	return st
}
