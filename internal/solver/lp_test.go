package solver

import (
	"errors"
	"math"
	"testing"
)

func TestSolveMaximizesWithinConstraints(t *testing.T) {
	// maximize 3x + 2y, s.t. x + y <= 1.5, 0 <= x, y <= 1.
	// Optimum: x = 1, y = 0.5, objective 4.
	p := Problem{
		Objective: []float64{3, 2},
		Constraints: []Constraint{
			{Coeffs: []float64{1, 1}, Bound: 1.5},
		},
		UpperBounds: []float64{1, 1},
	}
	sol, err := p.Solve()
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if math.Abs(sol.Objective-4) > 1e-8 {
		t.Errorf("objective = %v, want 4", sol.Objective)
	}
	if math.Abs(sol.X[0]-1) > 1e-8 || math.Abs(sol.X[1]-0.5) > 1e-8 {
		t.Errorf("X = %v, want [1 0.5]", sol.X)
	}
}

func TestSolveSlackConstraints(t *testing.T) {
	// Constraints are loose; every variable rides its upper bound.
	p := Problem{
		Objective: []float64{1, 1, 1},
		Constraints: []Constraint{
			{Coeffs: []float64{1, 1, 1}, Bound: 100},
		},
		UpperBounds: []float64{1, 1, 1},
	}
	sol, err := p.Solve()
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if math.Abs(sol.Objective-3) > 1e-8 {
		t.Errorf("objective = %v, want 3", sol.Objective)
	}
	for i, x := range sol.X {
		if math.Abs(x-1) > 1e-8 {
			t.Errorf("X[%d] = %v, want 1", i, x)
		}
	}
}

func TestSolveDollarScaleCoefficients(t *testing.T) {
	// Coefficients at capital-budget scale (1e8-1e9) share the tableau
	// with unit box bounds; without row equilibration the basis matrix
	// is near-singular and the solve fails.
	p := Problem{
		Objective: []float64{180e6, 88e6, 90e6, 150e6},
		Constraints: []Constraint{
			{Coeffs: []float64{650e6, 220e6, 450e6, 300e6}, Bound: 900e6},
		},
		UpperBounds: []float64{1, 1, 1, 1},
	}
	sol, err := p.Solve()
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	// Fractional knapsack: fund by value density (150/300 > 88/220 >
	// 180/650 > 90/450) until the budget runs out.
	want := []float64{380.0 / 650, 1, 0, 1}
	for i, x := range sol.X {
		if math.Abs(x-want[i]) > 1e-6 {
			t.Errorf("X[%d] = %v, want %v", i, x, want[i])
		}
	}
	wantObj := 150e6 + 88e6 + 180e6*380/650
	if math.Abs(sol.Objective-wantObj) > 1 {
		t.Errorf("objective = %v, want %v", sol.Objective, wantObj)
	}
}

func TestSolveInfeasible(t *testing.T) {
	// x <= -1 contradicts x >= 0.
	p := Problem{
		Objective: []float64{1},
		Constraints: []Constraint{
			{Coeffs: []float64{1}, Bound: -1},
		},
		UpperBounds: []float64{1},
	}
	_, err := p.Solve()
	if !errors.Is(err, ErrInfeasible) {
		t.Fatalf("Solve() error = %v, want ErrInfeasible", err)
	}
}

func TestSolveRejectsMalformedProblems(t *testing.T) {
	tests := []struct {
		name string
		p    Problem
	}{
		{
			name: "no variables",
			p:    Problem{},
		},
		{
			name: "upper bound count mismatch",
			p: Problem{
				Objective:   []float64{1, 2},
				UpperBounds: []float64{1},
			},
		},
		{
			name: "negative upper bound",
			p: Problem{
				Objective:   []float64{1},
				UpperBounds: []float64{-1},
			},
		},
		{
			name: "constraint width mismatch",
			p: Problem{
				Objective:   []float64{1, 2},
				UpperBounds: []float64{1, 1},
				Constraints: []Constraint{{Coeffs: []float64{1}, Bound: 1}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.p.Solve(); err == nil {
				t.Error("Solve() succeeded, want error")
			}
		})
	}
}
