package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabworks/capacity-planner/internal/dataset"
)

func testProjects() []dataset.CapExProjectRecord {
	return []dataset.CapExProjectRecord{
		{ProjectID: "CPX1000", ProjectName: "EUV_Litho_Expansion", InvestmentUSD: 650e6, NPVUSD: 180e6, IRRPercent: 22.3, RiskLevel: dataset.RiskMedium},
		{ProjectID: "CPX1001", ProjectName: "Cleanroom_Bay_Expansion", InvestmentUSD: 220e6, NPVUSD: 55e6, IRRPercent: 17.3, RiskLevel: dataset.RiskLow},
		{ProjectID: "CPX1002", ProjectName: "High_NA_EUV_Tools", InvestmentUSD: 450e6, NPVUSD: 95e6, IRRPercent: 21.8, RiskLevel: dataset.RiskHigh},
	}
}

func TestOptimizePortfolioSelectsAllWithinBudget(t *testing.T) {
	m := newTestModel(t, testDataset())
	projects := testProjects()

	// Total investment 1.32B fits a 2B budget: everything is funded.
	result, allocations, err := m.OptimizePortfolio(projects, 2e9)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, result.Status)
	require.Len(t, allocations, len(projects))

	var wantNPV float64
	for i, alloc := range allocations {
		assert.InDelta(t, 1.0, alloc.Fraction, 1e-6, "project %s", alloc.Project.ProjectID)
		assert.True(t, alloc.Selected)
		wantNPV += projects[i].NPVUSD
	}
	assert.InDelta(t, wantNPV, result.TotalNPVUSD, 1)
	assert.InDelta(t, 1.32e9, result.TotalInvestmentUSD, 1)
	assert.Equal(t, 3, result.ProjectsSelected)
	assert.InDelta(t, (22.3+17.3+21.8)/3, result.AvgIRRPercent, 1e-9)
	assert.True(t, result.IsApproximate)
}

func TestOptimizePortfolioRespectsBudget(t *testing.T) {
	m := newTestModel(t, testDataset())
	budget := 700e6

	result, allocations, err := m.OptimizePortfolio(testProjects(), budget)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, result.Status)

	// The continuous allocation never exceeds the budget; only the binary
	// rounding is exempt from this bound.
	var invested float64
	for _, alloc := range allocations {
		assert.GreaterOrEqual(t, alloc.Fraction, -1e-9)
		assert.LessOrEqual(t, alloc.Fraction, 1+1e-9)
		invested += alloc.AllocatedInvestmentUSD
	}
	assert.LessOrEqual(t, invested, budget*(1+1e-9))
	assert.InDelta(t, invested, result.TotalInvestmentUSD, 1e-6)
	assert.LessOrEqual(t, result.BudgetUtilizedPct, 100+1e-6)
}

func TestOptimizePortfolioRiskConstraintBinds(t *testing.T) {
	m := newTestModel(t, testDataset())
	projects := []dataset.CapExProjectRecord{
		{ProjectID: "CPX1003", ProjectName: "AI_Accelerator_Line", InvestmentUSD: 100e6, NPVUSD: 40e6, IRRPercent: 25, RiskLevel: dataset.RiskHigh},
	}

	// Budget covers the investment, but the risk-adjusted constraint
	// (1.6 weight against 1.2x headroom) caps the allocation at 0.75.
	result, allocations, err := m.OptimizePortfolio(projects, 100e6)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, result.Status)
	require.Len(t, allocations, 1)

	assert.InDelta(t, 0.75, allocations[0].Fraction, 1e-6)
	assert.InDelta(t, 75e6, allocations[0].AllocatedInvestmentUSD, 1)
	assert.InDelta(t, 30e6, result.TotalNPVUSD, 1)
	// Still selected: the fraction clears the 0.5 threshold.
	assert.True(t, allocations[0].Selected)
	assert.Equal(t, 1, result.ProjectsSelected)
}

func TestOptimizePortfolioPrefersHigherNPV(t *testing.T) {
	m := newTestModel(t, testDataset())
	projects := []dataset.CapExProjectRecord{
		{ProjectID: "CPX1004", ProjectName: "Metrology_Suite", InvestmentUSD: 500e6, NPVUSD: 60e6, IRRPercent: 15, RiskLevel: dataset.RiskLow},
		{ProjectID: "CPX1005", ProjectName: "Advanced_Packaging", InvestmentUSD: 500e6, NPVUSD: 140e6, IRRPercent: 24, RiskLevel: dataset.RiskLow},
	}

	// Budget funds only one project; the optimizer takes the higher NPV.
	result, allocations, err := m.OptimizePortfolio(projects, 500e6)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, result.Status)

	assert.InDelta(t, 0.0, allocations[0].Fraction, 1e-6)
	assert.InDelta(t, 1.0, allocations[1].Fraction, 1e-6)
	assert.Equal(t, []string{"Advanced_Packaging"}, result.SelectedProjects)
	assert.InDelta(t, 140e6, result.TotalNPVUSD, 1)
	assert.InDelta(t, 100, result.BudgetUtilizedPct, 1e-6)
}

func TestOptimizePortfolioDollarScale(t *testing.T) {
	// Investments at real CapEx magnitudes must solve cleanly; a budget
	// that funds only part of the portfolio forces a fractional split.
	m := newTestModel(t, testDataset())
	projects := []dataset.CapExProjectRecord{
		{ProjectID: "CPX1010", ProjectName: "EUV_Cluster_B", InvestmentUSD: 650e6, NPVUSD: 180e6, IRRPercent: 22, RiskLevel: dataset.RiskLow},
		{ProjectID: "CPX1011", ProjectName: "Wet_Bench_Refresh", InvestmentUSD: 220e6, NPVUSD: 88e6, IRRPercent: 19, RiskLevel: dataset.RiskLow},
		{ProjectID: "CPX1012", ProjectName: "Implant_Line_Upgrade", InvestmentUSD: 450e6, NPVUSD: 90e6, IRRPercent: 14, RiskLevel: dataset.RiskLow},
		{ProjectID: "CPX1013", ProjectName: "Metrology_Refresh", InvestmentUSD: 300e6, NPVUSD: 150e6, IRRPercent: 26, RiskLevel: dataset.RiskLow},
	}

	result, allocations, err := m.OptimizePortfolio(projects, 900e6)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, result.Status)
	require.Len(t, allocations, 4)

	// Highest NPV per dollar first: Metrology_Refresh and
	// Wet_Bench_Refresh fully, then EUV_Cluster_B on the remainder.
	want := []float64{380.0 / 650, 1, 0, 1}
	for i, alloc := range allocations {
		assert.InDelta(t, want[i], alloc.Fraction, 1e-6, "project %s", alloc.Project.ProjectID)
	}
	assert.InDelta(t, 900e6, result.TotalInvestmentUSD, 1)
	assert.InDelta(t, 150e6+88e6+180e6*380/650, result.TotalNPVUSD, 1)
	assert.InDelta(t, 100, result.BudgetUtilizedPct, 1e-6)
	assert.Equal(t, 3, result.ProjectsSelected)
}

func TestOptimizePortfolioInputErrors(t *testing.T) {
	m := newTestModel(t, testDataset())

	_, _, err := m.OptimizePortfolio(nil, 1e9)
	var dataErr *DataError
	assert.ErrorAs(t, err, &dataErr)

	_, _, err = m.OptimizePortfolio(testProjects(), 0)
	assert.Error(t, err)

	projects := testProjects()
	projects[0].RiskLevel = "Extreme"
	_, _, err = m.OptimizePortfolio(projects, 1e9)
	require.ErrorAs(t, err, &dataErr)
	assert.Equal(t, "risk weights", dataErr.Table)
}
