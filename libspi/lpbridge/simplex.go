package lpbridge

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// SimplexSolver is the default Solver, backed by gonum's simplex implementation.
type SimplexSolver struct {
	Tol float64
}

func NewSimplexSolver() *SimplexSolver {
	return &SimplexSolver{
		Tol: 1e-10,
	}
}

func (s *SimplexSolver) Minimize(c []float64, A mat.Matrix, b []float64) (float64, []float64, error) {
	return lp.Simplex(c, A, b, s.Tol, nil)
}
