package lpbridge

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// SupportTol is the magnitude above which a solution weight counts as nonzero.
const SupportTol = 1e-9

// Solver minimizes c·x subject to A x = b, x >= 0.
//
// A has full row rank, no zero rows or columns, and no more rows than columns.
type Solver interface {
	Minimize(c []float64, A mat.Matrix, b []float64) (opt float64, x []float64, err error)
}

// Problem is a linear program in equality form: maximize Objective·x subject to Rows[i]·x = RHS[i], x >= 0.
type Problem struct {
	Objective []float64
	Rows      [][]float64
	RHS       []float64
}

func (p *Problem) NumVars() int {
	return len(p.Objective)
}

func (p *Problem) NumRows() int {
	return len(p.Rows)
}

// Solution is an optimal point of a Problem.
type Solution struct {
	Value float64
	X     []float64
}

// Support returns the indices of the variables with nonzero weight.
func (sol *Solution) Support() []int {
	var idx []int
	for i, xi := range sol.X {
		if math.Abs(xi) > SupportTol {
			idx = append(idx, i)
		}
	}
	return idx
}
