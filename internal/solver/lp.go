package solver

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// simplexTol is the pivot tolerance handed to lp.Simplex.
const simplexTol = 1e-10

// Constraint is a single linear inequality: Coeffs . x <= Bound.
type Constraint struct {
	Coeffs []float64
	Bound  float64
}

// Problem is a linear maximization over box-bounded variables.
type Problem struct {
	// Objective holds the coefficient of each variable in the function
	// being maximized.
	Objective []float64

	// Constraints are the linear inequalities, all of the form
	// Coeffs . x <= Bound.
	Constraints []Constraint

	// UpperBounds caps each variable; the lower bound is always zero.
	UpperBounds []float64
}

// Solution is the optimum found for a Problem.
type Solution struct {
	// X holds the optimal value of each variable.
	X []float64

	// Objective is the maximized objective value at X.
	Objective float64
}

// ErrInfeasible reports that no point satisfies the constraints.
var ErrInfeasible = errors.New("linear program is infeasible")

// ErrUnbounded reports that the objective can grow without limit.
var ErrUnbounded = errors.New("linear program is unbounded")

// Solve finds the maximum of the problem's objective, or an error when the
// program is malformed, infeasible, or unbounded.
func (p Problem) Solve() (Solution, error) {
	n := len(p.Objective)
	if n == 0 {
		return Solution{}, fmt.Errorf("problem has no variables")
	}
	if len(p.UpperBounds) != n {
		return Solution{}, fmt.Errorf("got %d upper bounds for %d variables", len(p.UpperBounds), n)
	}
	for i, ub := range p.UpperBounds {
		if ub < 0 {
			return Solution{}, fmt.Errorf("upper bound %d is negative: %g", i, ub)
		}
	}
	m := len(p.Constraints)
	for i, c := range p.Constraints {
		if len(c.Coeffs) != n {
			return Solution{}, fmt.Errorf("constraint %d has %d coefficients for %d variables", i, len(c.Coeffs), n)
		}
	}

	// Standard form: one slack per inequality, one per upper bound.
	// Columns: [x_0..x_{n-1}, s_0..s_{m-1}, t_0..t_{n-1}].
	//
	// Each inequality row is equilibrated to order 1 before the solve.
	// Dollar-scale coefficients sitting in the same tableau as unit box
	// bounds drive the basis matrix toward singularity; dividing a row
	// and its bound by the row's largest coefficient leaves the feasible
	// region, and therefore the optimal x, unchanged.
	cols := n + m + n
	rows := m + n
	a := mat.NewDense(rows, cols, nil)
	b := make([]float64, rows)
	for i, c := range p.Constraints {
		scale := rowScale(c.Coeffs)
		for j, coef := range c.Coeffs {
			a.Set(i, j, coef/scale)
		}
		a.Set(i, n+i, 1)
		b[i] = c.Bound / scale
	}
	for j := 0; j < n; j++ {
		a.Set(m+j, j, 1)
		a.Set(m+j, n+m+j, 1)
		b[m+j] = p.UpperBounds[j]
	}

	// lp.Simplex minimizes, so negate the objective. The objective is
	// equilibrated the same way and the optimum un-scaled afterwards.
	objScale := rowScale(p.Objective)
	c := make([]float64, cols)
	for j, coef := range p.Objective {
		c[j] = -coef / objScale
	}

	optF, optX, err := lp.Simplex(c, a, b, simplexTol, nil)
	if err != nil {
		switch {
		case errors.Is(err, lp.ErrInfeasible):
			return Solution{}, fmt.Errorf("%w: %v", ErrInfeasible, err)
		case errors.Is(err, lp.ErrUnbounded):
			return Solution{}, fmt.Errorf("%w: %v", ErrUnbounded, err)
		default:
			return Solution{}, fmt.Errorf("simplex solve: %w", err)
		}
	}

	x := make([]float64, n)
	copy(x, optX[:n])
	return Solution{X: x, Objective: -optF * objScale}, nil
}

// rowScale returns the largest coefficient magnitude of a row, or 1 for
// an all-zero row.
func rowScale(coeffs []float64) float64 {
	var scale float64
	for _, coef := range coeffs {
		if v := math.Abs(coef); v > scale {
			scale = v
		}
	}
	if scale == 0 {
		return 1
	}
	return scale
}
