package planner

import (
	"fmt"

	"github.com/fabworks/capacity-planner/internal/dataset"
	"github.com/fabworks/capacity-planner/internal/solver"
)

// OptimizationStatus reports the outcome of a portfolio solve.
type OptimizationStatus string

const (
	StatusOptimal OptimizationStatus = "Optimal"
	StatusFailed  OptimizationStatus = "Failed"
)

// ProjectAllocation is the optimizer's decision for one candidate
// project. The source record is never mutated; derived fields live here.
type ProjectAllocation struct {
	Project dataset.CapExProjectRecord

	// Fraction is the continuous allocation in [0, 1].
	Fraction float64

	// AllocatedInvestmentUSD and AllocatedNPVUSD scale the project figures
	// by Fraction.
	AllocatedInvestmentUSD float64
	AllocatedNPVUSD        float64

	// Selected is the binary invest/skip decision obtained by thresholding
	// Fraction. It is an approximation of the continuous optimum.
	Selected bool
}

// OptimizationResult summarizes a portfolio solve. When Status is
// StatusFailed only Status and Message are populated and the allocation
// table is nil; infeasibility is a normal business outcome (budget too
// small), not a program bug.
type OptimizationResult struct {
	Status  OptimizationStatus
	Message string

	TotalNPVUSD        float64
	TotalInvestmentUSD float64
	BudgetUtilizedPct  float64

	ProjectsSelected int
	SelectedProjects []string

	// AvgIRRPercent is the mean IRR across selected projects.
	AvgIRRPercent float64

	// IsApproximate flags that the binary selection was derived by
	// rounding a continuous relaxation and may exceed the stated budget
	// by a bounded margin.
	IsApproximate bool
}

// OptimizePortfolio allocates the capital budget across candidate
// projects to maximize total NPV, subject to the budget and a
// risk-adjusted budget constraint that penalizes concentration in
// high-risk projects. Decision variables are continuous fractions in
// [0, 1]; the binary selection is a thresholded approximation.
func (m *Model) OptimizePortfolio(projects []dataset.CapExProjectRecord, budgetUSD float64) (OptimizationResult, []ProjectAllocation, error) {
	if len(projects) == 0 {
		return OptimizationResult{}, nil, &DataError{Table: "capex projects", Detail: "table is empty"}
	}
	if budgetUSD <= 0 {
		return OptimizationResult{}, nil, fmt.Errorf("budget must be positive, got %.2f", budgetUSD)
	}

	n := len(projects)
	npv := make([]float64, n)
	investment := make([]float64, n)
	riskAdjusted := make([]float64, n)
	upper := make([]float64, n)
	for i, p := range projects {
		weight, ok := m.cfg.RiskWeights[p.RiskLevel]
		if !ok {
			return OptimizationResult{}, nil, &DataError{
				Table:  "risk weights",
				Detail: fmt.Sprintf("project %s has unknown risk level %q", p.ProjectID, p.RiskLevel),
			}
		}
		npv[i] = p.NPVUSD
		investment[i] = p.InvestmentUSD
		riskAdjusted[i] = p.InvestmentUSD * weight
		upper[i] = 1
	}

	problem := solver.Problem{
		Objective: npv,
		Constraints: []solver.Constraint{
			{Coeffs: investment, Bound: budgetUSD},
			{Coeffs: riskAdjusted, Bound: budgetUSD * m.cfg.RiskBudgetSlack},
		},
		UpperBounds: upper,
	}
	solution, err := problem.Solve()
	if err != nil {
		m.log.Info("portfolio optimization failed", "projects", n, "budgetUSD", budgetUSD, "reason", err.Error())
		return OptimizationResult{Status: StatusFailed, Message: err.Error()}, nil, nil
	}

	allocations := make([]ProjectAllocation, n)
	result := OptimizationResult{
		Status:        StatusOptimal,
		TotalNPVUSD:   solution.Objective,
		IsApproximate: true,
	}
	var irrSum float64
	for i, p := range projects {
		fraction := solution.X[i]
		alloc := ProjectAllocation{
			Project:                p,
			Fraction:               fraction,
			AllocatedInvestmentUSD: p.InvestmentUSD * fraction,
			AllocatedNPVUSD:        p.NPVUSD * fraction,
			Selected:               fraction > m.cfg.SelectionThreshold,
		}
		allocations[i] = alloc
		result.TotalInvestmentUSD += alloc.AllocatedInvestmentUSD
		if alloc.Selected {
			result.ProjectsSelected++
			result.SelectedProjects = append(result.SelectedProjects, p.ProjectName)
			irrSum += p.IRRPercent
		}
	}
	result.BudgetUtilizedPct = result.TotalInvestmentUSD / budgetUSD * 100
	if result.ProjectsSelected > 0 {
		result.AvgIRRPercent = irrSum / float64(result.ProjectsSelected)
	}

	m.log.V(1).Info("portfolio optimization complete",
		"projects", n,
		"selected", result.ProjectsSelected,
		"totalNPVUSD", result.TotalNPVUSD,
		"budgetUtilizedPct", result.BudgetUtilizedPct)
	return result, allocations, nil
}
