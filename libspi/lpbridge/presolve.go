package lpbridge

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// presolveTol is the magnitude below which an eliminated coefficient is taken as zero.
const presolveTol = 1e-9

var (
	errInconsistent = errors.New("equality constraints are inconsistent")
	errUnbounded    = errors.New("objective is unbounded on an unconstrained variable")
)

// reduced is a Problem restricted to a linearly independent subset of its rows and to the variables
// those rows constrain.
type reduced struct {
	p    *Problem
	rows []int
	cols []int
	rhs  []float64
}

// presolve drops dependent rows (failing on inconsistent ones) and removes unconstrained variables, which are
// fixed at 0 unless they would make the objective unbounded.
func presolve(p *Problem) (*reduced, error) {
	n := p.NumVars()
	red := &reduced{
		p: p,
	}

	type echelonRow struct {
		coeffs []float64 // n coefficients followed by the rhs
		pivot  int
	}
	var basis []echelonRow

	for i, row := range p.Rows {
		r := make([]float64, n+1)
		copy(r, row)
		r[n] = p.RHS[i]

		for _, e := range basis {
			if f := r[e.pivot]; f != 0 {
				for j := range r {
					r[j] -= f * e.coeffs[j]
				}
			}
		}

		pivot := -1
		best := presolveTol
		for j := 0; j < n; j++ {
			if mag := math.Abs(r[j]); mag > best {
				best = mag
				pivot = j
			}
		}
		if pivot < 0 {
			if math.Abs(r[n]) > presolveTol {
				return nil, errors.Wrapf(errInconsistent, "row %d", i)
			}
			continue
		}

		scale := r[pivot]
		for j := range r {
			r[j] /= scale
		}
		basis = append(basis, echelonRow{r, pivot})
		red.rows = append(red.rows, i)
		red.rhs = append(red.rhs, p.RHS[i])
	}

	for j := 0; j < n; j++ {
		constrained := false
		for _, i := range red.rows {
			if p.Rows[i][j] != 0 {
				constrained = true
				break
			}
		}
		if constrained {
			red.cols = append(red.cols, j)
		} else if p.Objective[j] > 0 {
			return nil, errors.Wrapf(errUnbounded, "variable %d", j)
		}
	}

	return red, nil
}

// costs returns the minimization costs of the kept variables.
func (red *reduced) costs() []float64 {
	c := make([]float64, len(red.cols))
	for k, j := range red.cols {
		c[k] = -red.p.Objective[j]
	}
	return c
}

func (red *reduced) matrix() *mat.Dense {
	m, n := len(red.rows), len(red.cols)
	data := make([]float64, 0, m*n)
	for _, i := range red.rows {
		row := red.p.Rows[i]
		for _, j := range red.cols {
			data = append(data, row[j])
		}
	}
	return mat.NewDense(m, n, data)
}
