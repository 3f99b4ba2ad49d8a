package spi

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Validate returns an error if this Invariant cannot be computed.
func (inv Invariant) Validate() error {
	switch inv.Kind {
	case KindSpi:
		return ErrUnsupportedInvariant
	case KindSpiModulo:
		if inv.Modulus < 0 {
			return errors.Wrapf(ErrNegativeModulus, "got m=%d", inv.Modulus)
		}
	case KindNoOrigami:
	default:
		return errors.Wrapf(ErrBadInvariantKind, "kind %d", inv.Kind)
	}
	return nil
}

// Unfolds returns true if candidate subgraphs are unfolded before being filtered for this invariant.
//
// Spi_m is evaluated directly on the valid subgraphs of the core Whitehead graph.
func (inv Invariant) Unfolds() bool {
	return inv.Kind != KindSpiModulo
}

func (inv Invariant) String() string {
	switch inv.Kind {
	case KindSpi:
		return "spi"
	case KindSpiModulo:
		return fmt.Sprintf("spi-mod-%d", inv.Modulus)
	case KindNoOrigami:
		return "no-origami"
	}
	return fmt.Sprintf("kind-%d", inv.Kind)
}

// ParseInvariant reads an invariant name ("spi", "modulo" / "spi-m", "no-origami", or the numeric kind 0..2).
// The modulus applies only to the modulo kind.
func ParseInvariant(name string, modulus int) (Invariant, error) {
	var kind InvariantKind
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "spi", "0":
		kind = KindSpi
	case "modulo", "mod", "spi-m", "spi_m", "1":
		kind = KindSpiModulo
	case "no-origami", "noorigami", "no_origami", "2":
		kind = KindNoOrigami
	default:
		return Invariant{}, errors.Wrapf(ErrBadInvariantKind, "%q", name)
	}
	inv := Invariant{Kind: kind}
	if kind == KindSpiModulo {
		inv.Modulus = modulus
	}
	return inv, nil
}

// Rank returns the smallest free group rank containing every letter of this word.
func (w Word) Rank() int {
	r := 0
	for _, k := range w {
		if k < 0 {
			k = -k
		}
		if k > r {
			r = k
		}
	}
	return r
}

// Validate checks that every letter is a nonzero generator of the free group of the given rank.
func (w Word) Validate(rank int) error {
	if rank < 1 {
		return errors.Wrapf(ErrBadRank, "rank %d", rank)
	}
	for i, k := range w {
		if k == 0 {
			return errors.Wrapf(ErrBadWord, "letter %d is 0", i+1)
		}
		if k > rank || k < -rank {
			return errors.Wrapf(ErrBadRank, "letter %d (%d) exceeds rank %d", i+1, k, rank)
		}
	}
	return nil
}

// IsCyclicallyReduced returns true if no letter is followed by its inverse, including across the wrap.
func (w Word) IsCyclicallyReduced() bool {
	N := len(w)
	for i, k := range w {
		if w[(i+1)%N] == -k {
			return false
		}
	}
	return true
}

func (w Word) String() string {
	b := strings.Builder{}
	for i, k := range w {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(k))
	}
	return b.String()
}

// Rat returns the value of this Result as a fraction, or nil if the value is infinite.
func (res *Result) Rat() *big.Rat {
	if res.Infinite {
		return nil
	}
	return ApproxRat(res.Value, 1e-9, 1<<20)
}

// ApproxRat returns the continued fraction convergent of x that is within tol of x, with a denominator of at most maxDen.
func ApproxRat(x float64, tol float64, maxDen int64) *big.Rat {
	sign := int64(1)
	if x < 0 {
		sign = -1
		x = -x
	}

	h0, h1 := int64(1), int64(0)
	k0, k1 := int64(0), int64(1)
	rem := x
	for {
		a := math.Floor(rem)
		if a > math.MaxInt32 {
			break
		}
		ai := int64(a)
		h := ai*h0 + h1
		k := ai*k0 + k1
		if k > maxDen {
			break
		}
		h0, h1 = h, h0
		k0, k1 = k, k0

		if math.Abs(float64(h0)/float64(k0)-x) <= tol {
			break
		}
		frac := rem - a
		if frac < 1e-15 {
			break
		}
		rem = 1 / frac
	}
	if k0 == 0 {
		return big.NewRat(sign*int64(math.Round(x)), 1)
	}
	return big.NewRat(sign*h0, k0)
}

func NewCatalogContext() CatalogContext {
	ctx := &catalogContext{
		openCatalogs: make(map[Catalog]struct{}),
		closing:      make(chan struct{}),
		closed:       make(chan struct{}),
	}
	ctx.openCount.Add(1)
	go func() {
		<-ctx.Closing()
		ctx.openCount.Done()
		ctx.openCount.Wait()
		close(ctx.closed)
	}()
	return ctx
}

type catalogContext struct {
	mu           sync.Mutex
	openCount    sync.WaitGroup
	openCatalogs map[Catalog]struct{}
	closing      chan struct{}
	closed       chan struct{}
	closeOnce    sync.Once
}

func (ctx *catalogContext) AttachCatalog(cat Catalog) {
	ctx.openCount.Add(1)
	ctx.mu.Lock()
	ctx.openCatalogs[cat] = struct{}{}
	ctx.mu.Unlock()
}

func (ctx *catalogContext) DetachCatalog(cat Catalog) {
	ctx.mu.Lock()
	if _, exists := ctx.openCatalogs[cat]; exists {
		delete(ctx.openCatalogs, cat)
		ctx.openCount.Done()
	}
	ctx.mu.Unlock()
}

func (ctx *catalogContext) Closing() <-chan struct{} {
	return ctx.closing
}

func (ctx *catalogContext) Done() <-chan struct{} {
	return ctx.closed
}

func (ctx *catalogContext) Close() {
	ctx.closeOnce.Do(func() {
		close(ctx.closing)
		ctx.mu.Lock()
		for cat := range ctx.openCatalogs {
			go cat.Close()
		}
		ctx.mu.Unlock()
	})
}
