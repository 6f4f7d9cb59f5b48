// Package solver wraps gonum's simplex method behind a small
// maximization interface for bounded linear programs.
//
// The planning engine states its portfolio problem in the natural form
//
//	maximize  objective . x
//	s.t.      constraint_i . x <= bound_i   for each constraint
//	          0 <= x_j <= upper_j           for each variable
//
// Solve converts that into the standard equality form required by
// lp.Simplex by appending one slack variable per inequality and one per
// variable upper bound, then maps the solution back onto the original
// variables. The solve is synchronous and deterministic; callers treat an
// infeasible program as a normal business outcome, not a bug.
package solver
