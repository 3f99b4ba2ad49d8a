package lpbridge

import (
	"github.com/fine-structures/spi.SDK/libspi/equations"
	"github.com/fine-structures/spi.SDK/spi"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// BuildProblem forms the linear program over one variable per graph:
//
//	maximize objective·x  subject to  sum(x[Left]) - sum(x[Right]) = 0 for each pair,  sum(x[degree]) = 1,  x >= 0
//
// An index on both sides of a pair cancels and rows left empty are dropped.
func BuildProblem(objective []float64, pairs []equations.Pair, degree []int) *Problem {
	n := len(objective)
	p := &Problem{
		Objective: objective,
	}

	for _, pair := range pairs {
		row := make([]float64, n)
		for _, i := range pair.Left {
			row[i] += 1
		}
		for _, i := range pair.Right {
			row[i] -= 1
		}
		if isZero(row) {
			continue
		}
		p.Rows = append(p.Rows, row)
		p.RHS = append(p.RHS, 0)
	}

	row := make([]float64, n)
	for _, i := range degree {
		row[i] = 1
	}
	p.Rows = append(p.Rows, row)
	p.RHS = append(p.RHS, 1)

	return p
}

func isZero(row []float64) bool {
	for _, v := range row {
		if v != 0 {
			return false
		}
	}
	return true
}

// Solve maximizes the given program with the default Solver.
func Solve(objective []float64, pairs []equations.Pair, degree []int) (*Solution, error) {
	return SolveWith(NewSimplexSolver(), BuildProblem(objective, pairs, degree))
}

// SolveWith maximizes the given program with the given Solver.
//
// Returns spi.ErrNoGraphs if there are no variables and spi.ErrNotOptimal if no optimum was reached.
func SolveWith(s Solver, p *Problem) (*Solution, error) {
	if p.NumVars() == 0 {
		return nil, spi.ErrNoGraphs
	}

	red, err := presolve(p)
	if err != nil {
		return nil, errors.Wrap(spi.ErrNotOptimal, err.Error())
	}

	klog.V(2).Infof("lp: %d x %d reduced to %d x %d", p.NumRows(), p.NumVars(), len(red.rows), len(red.cols))

	_, xr, err := s.Minimize(red.costs(), red.matrix(), red.rhs)
	if err != nil {
		return nil, errors.Wrap(spi.ErrNotOptimal, err.Error())
	}

	sol := &Solution{
		X: make([]float64, p.NumVars()),
	}
	for k, j := range red.cols {
		sol.X[j] = xr[k]
	}
	for j, cj := range p.Objective {
		sol.Value += cj * sol.X[j]
	}
	return sol, nil
}
