// Package automorph implements the Type II Whitehead automorphisms of a free group and the search for the
// shortest word in a word's orbit under them.
package automorph

import (
	"github.com/fine-structures/spi.SDK/spi"
)

// Automorphism maps each generator k in 1..r to Images[k].  Images[0] is unused.
type Automorphism struct {
	Images []spi.Word
}

// Rank returns the number of generators this Automorphism acts on.
func (phi *Automorphism) Rank() int {
	return len(phi.Images) - 1
}

// GenerateTypeII returns the r * 3^(r-1) Type II automorphisms of the free group of rank r.
//
// For each base generator a, every other generator b maps to one of b, b a, or b a^-1 while a is fixed.
// Automorphisms are ordered by a, then by the base-3 choice mask (where the lowest digit is for the first b).
func GenerateTypeII(r int) []Automorphism {
	var autos []Automorphism

	total := 1
	for i := 1; i < r; i++ {
		total *= 3
	}

	for a := 1; a <= r; a++ {
		for mask := 0; mask < total; mask++ {
			phi := Automorphism{
				Images: make([]spi.Word, r+1),
			}
			phi.Images[a] = spi.Word{a}

			digits := mask
			for b := 1; b <= r; b++ {
				if b == a {
					continue
				}
				switch digits % 3 {
				case 0:
					phi.Images[b] = spi.Word{b}
				case 1:
					phi.Images[b] = spi.Word{b, a}
				case 2:
					phi.Images[b] = spi.Word{b, -a}
				}
				digits /= 3
			}
			autos = append(autos, phi)
		}
	}
	return autos
}

// Apply returns the freely reduced image of w under phi.  Letters outside phi's rank are dropped.
func (phi *Automorphism) Apply(w spi.Word) spi.Word {
	r := phi.Rank()
	out := make(spi.Word, 0, 2*len(w))
	for _, k := range w {
		switch {
		case k > 0 && k <= r:
			out = append(out, phi.Images[k]...)
		case k < 0 && -k <= r:
			out = append(out, Invert(phi.Images[-k])...)
		}
	}
	return FreeReduce(out)
}

// Invert returns the inverse of w.
func Invert(w spi.Word) spi.Word {
	inv := make(spi.Word, len(w))
	for i, k := range w {
		inv[len(w)-1-i] = -k
	}
	return inv
}

// FreeReduce returns w with every adjacent x x^-1 pair cancelled.
func FreeReduce(w spi.Word) spi.Word {
	out := make(spi.Word, 0, len(w))
	for _, k := range w {
		if n := len(out); n > 0 && out[n-1] == -k {
			out = out[:n-1]
		} else {
			out = append(out, k)
		}
	}
	return out
}

// CyclicallyReduce returns the free reduction of w with matching letters also cancelled across the wrap.
func CyclicallyReduce(w spi.Word) spi.Word {
	out := FreeReduce(w)
	i, j := 0, len(out)-1
	for i < j && out[i] == -out[j] {
		i++
		j--
	}
	return append(spi.Word(nil), out[i:j+1]...)
}

// IsMinimal returns true if no automorphism in autos shortens the cyclic reduction of w.
func IsMinimal(w spi.Word, autos []Automorphism) bool {
	cur := CyclicallyReduce(w)
	for i := range autos {
		if len(CyclicallyReduce(autos[i].Apply(cur))) < len(cur) {
			return false
		}
	}
	return true
}

// MinimalWord returns a shortest cyclically reduced word reachable from w by repeatedly applying the Type II
// automorphism (of rank r) that shortens it most.
func MinimalWord(w spi.Word, r int) spi.Word {
	autos := GenerateTypeII(r)

	cur := CyclicallyReduce(w)
	for {
		best := cur
		for i := range autos {
			next := CyclicallyReduce(autos[i].Apply(cur))
			if len(next) < len(best) {
				best = next
			}
		}
		if len(best) == len(cur) {
			return cur
		}
		cur = best
	}
}

// LeastRotation returns the lexicographically least cyclic rotation of w (comparing letters as ints).
//
// Two words are rotations of each other iff their least rotations are equal.
func LeastRotation(w spi.Word) spi.Word {
	N := len(w)
	best := 0
	for i := 1; i < N; i++ {
		for j := 0; j < N; j++ {
			a, b := w[(i+j)%N], w[(best+j)%N]
			if a != b {
				if a < b {
					best = i
				}
				break
			}
		}
	}
	out := make(spi.Word, 0, N)
	out = append(out, w[best:]...)
	return append(out, w[:best]...)
}
