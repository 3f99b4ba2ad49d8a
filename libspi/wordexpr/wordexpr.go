// Package wordexpr reads free group words written as letters, indexed generators, or signed integers.
//
//	a b A B          a=1, b=2, .. z=26 and upper case for inverses
//	x1^2 X2          x<n> is generator n and X<n> its inverse
//	1 2 -1 -2        signed generator indices
//	[a,b]^2 (ab)^-1  commutators, grouping, and integer powers
//
// Forms may be mixed freely.
package wordexpr

import (
	"strconv"
	"strings"

	"github.com/fine-structures/spi.SDK/libspi/automorph"
	"github.com/fine-structures/spi.SDK/spi"
	"github.com/pkg/errors"
)

// MaxPower limits the exponent of a single term.
const MaxPower = 1 << 12

// Parse reads the given word expression and returns the freely reduced word it denotes.
func Parse(expr string) (spi.Word, error) {
	ast, err := sParseWordExpr.ParseString("", expr)
	if err != nil {
		return nil, errors.Wrap(spi.ErrBadWord, err.Error())
	}
	w, err := ast.Word()
	if err != nil {
		return nil, err
	}
	return automorph.FreeReduce(w), nil
}

// MustParse is like Parse but panics if expr cannot be parsed.
func MustParse(expr string) spi.Word {
	w, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return w
}

// Word expands this expression without reducing it.
func (expr *Expr) Word() (spi.Word, error) {
	var w spi.Word
	for _, term := range expr.Terms {
		tw, err := term.Word()
		if err != nil {
			return nil, err
		}
		w = append(w, tw...)
	}
	return w, nil
}

func (term *Term) Word() (spi.Word, error) {
	base, err := term.Factor.Word()
	if err != nil {
		return nil, err
	}
	if term.Power == nil {
		return base, nil
	}

	pow := *term.Power
	if pow < 0 {
		base = automorph.Invert(base)
		pow = -pow
	}
	if pow > MaxPower {
		return nil, errors.Wrapf(spi.ErrBadWord, "power %d exceeds %d", pow, MaxPower)
	}
	w := make(spi.Word, 0, pow*len(base))
	for i := 0; i < pow; i++ {
		w = append(w, base...)
	}
	return w, nil
}

func (f *Factor) Word() (spi.Word, error) {
	switch {
	case f.Gen != nil:
		k, err := strconv.Atoi((*f.Gen)[1:])
		if err != nil || k == 0 {
			return nil, errors.Wrapf(spi.ErrBadWord, "bad generator %q", *f.Gen)
		}
		if (*f.Gen)[0] == 'X' {
			k = -k
		}
		return spi.Word{k}, nil

	case f.Index != nil:
		if *f.Index == 0 {
			return nil, errors.Wrap(spi.ErrBadWord, "generator index 0")
		}
		return spi.Word{*f.Index}, nil

	case f.Letter != nil:
		c := (*f.Letter)[0]
		if c >= 'a' && c <= 'z' {
			return spi.Word{int(c-'a') + 1}, nil
		}
		return spi.Word{-(int(c-'A') + 1)}, nil

	case f.Group != nil:
		return f.Group.Word()

	case f.Commutator != nil:
		u, err := f.Commutator.Left.Word()
		if err != nil {
			return nil, err
		}
		v, err := f.Commutator.Right.Word()
		if err != nil {
			return nil, err
		}
		w := make(spi.Word, 0, 2*(len(u)+len(v)))
		w = append(w, u...)
		w = append(w, v...)
		w = append(w, automorph.Invert(u)...)
		w = append(w, automorph.Invert(v)...)
		return w, nil
	}
	return nil, nil
}

// Format writes w using letters when every generator is within a..z, otherwise as signed integers.
func Format(w spi.Word) string {
	if w.Rank() > 26 {
		return w.String()
	}
	b := strings.Builder{}
	b.Grow(len(w))
	for _, k := range w {
		if k > 0 {
			b.WriteByte(byte('a' + k - 1))
		} else {
			b.WriteByte(byte('A' - k - 1))
		}
	}
	return b.String()
}
