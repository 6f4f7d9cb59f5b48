package planner

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabworks/capacity-planner/internal/config"
	"github.com/fabworks/capacity-planner/internal/dataset"
)

func TestSimulateRiskReproducible(t *testing.T) {
	m := newTestModel(t, testDataset())

	// 5000 trials spans multiple seed chunks.
	first, firstTrials, err := m.SimulateRisk(5000, 4, 42)
	require.NoError(t, err)
	second, secondTrials, err := m.SimulateRisk(5000, 4, 42)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstTrials, secondTrials)

	// A different seed draws a different sample.
	third, _, err := m.SimulateRisk(5000, 4, 43)
	require.NoError(t, err)
	assert.NotEqual(t, first.MeanShortfallWPW, third.MeanShortfallWPW)
}

func TestSimulateRiskConverges(t *testing.T) {
	// Demand near the capacity baseline keeps shortfall mass well away
	// from zero, so the mean estimate converges cleanly. A fivefold
	// increase in trials must not move the estimates materially: within
	// 1% relative on the mean shortfall and half a point on the
	// probability estimates.
	data := testDataset()
	data.Forecast = []dataset.ForecastRecord{
		{Quarter: day("2024-06-30"), Product: "HPC_GPU_5nm", DemandWafers: 90000 * 13},
	}
	m := newTestModel(t, data)

	small, _, err := m.SimulateRisk(50000, 4, 5)
	require.NoError(t, err)
	large, _, err := m.SimulateRisk(250000, 4, 5)
	require.NoError(t, err)

	assert.InEpsilon(t, large.MeanShortfallWPW, small.MeanShortfallWPW, 0.01)
	assert.InDelta(t, large.ServiceLevel, small.ServiceLevel, 0.005)
	assert.InDelta(t, large.ShortfallProbability, small.ShortfallProbability, 0.005)
}

func TestSimulateRiskTrialInvariants(t *testing.T) {
	m := newTestModel(t, testDataset())
	mc := config.Default().MonteCarlo

	metrics, trials, err := m.SimulateRisk(3000, 4, 7)
	require.NoError(t, err)
	require.Len(t, trials, 3000)

	for _, trial := range trials {
		assert.GreaterOrEqual(t, trial.Yield, mc.YieldFloor)
		assert.LessOrEqual(t, trial.Yield, mc.YieldCeiling)
		assert.Greater(t, trial.Availability, 0.0)
		assert.LessOrEqual(t, trial.Availability, 1.0)
		assert.LessOrEqual(t, trial.Utilization, 1.0)
		assert.GreaterOrEqual(t, trial.ShortfallWPW, 0.0)
		assert.GreaterOrEqual(t, trial.SurplusWPW, 0.0)
		// A trial is either short or has surplus, never both.
		assert.False(t, trial.ShortfallWPW > 0 && trial.SurplusWPW > 0)
	}

	assert.InDelta(t, 1.0, metrics.ShortfallProbability+metrics.ServiceLevel, 1e-12)
	assert.Equal(t, 3000, metrics.Trials)
	assert.Equal(t, 4, metrics.HorizonQuarters)
	assert.Equal(t, uint64(7), metrics.Seed)
	assert.InDelta(t, 11000*7, metrics.BaselineCapacityWPW, 1e-9)
	assert.InDelta(t, 650000.0/13, metrics.MeanDemandWPW, 1e-9)
	assert.LessOrEqual(t, metrics.P95ShortfallWPW, metrics.P99ShortfallWPW)
}

func TestSimulateRiskServiceLevelExtremes(t *testing.T) {
	// Demand far below any plausible capacity draw: no trial falls short.
	data := testDataset()
	data.Forecast = []dataset.ForecastRecord{
		{Quarter: day("2024-06-30"), Product: "IoT_7nm", DemandWafers: 13},
	}
	m := newTestModel(t, data)
	metrics, _, err := m.SimulateRisk(2000, 4, 11)
	require.NoError(t, err)
	assert.Equal(t, 1.0, metrics.ServiceLevel)
	assert.Zero(t, metrics.ShortfallProbability)
	assert.Zero(t, metrics.MeanShortfallWPW)

	// Demand far above any plausible capacity draw: every trial is short.
	data = testDataset()
	data.Forecast = []dataset.ForecastRecord{
		{Quarter: day("2024-06-30"), Product: "HPC_GPU_5nm", DemandWafers: 1e12},
	}
	m = newTestModel(t, data)
	metrics, _, err = m.SimulateRisk(2000, 4, 11)
	require.NoError(t, err)
	assert.Equal(t, 1.0, metrics.ShortfallProbability)
	assert.Zero(t, metrics.ServiceLevel)
	assert.Greater(t, metrics.MeanShortfallWPW, 0.0)
	assert.Equal(t, 1.0, metrics.MeanUtilization)
}

func TestSimulateRiskDefaultTrials(t *testing.T) {
	cfg := config.Default()
	cfg.MonteCarlo.DefaultTrials = 500
	m, err := NewModel(testDataset(), cfg, logr.Discard())
	require.NoError(t, err)

	metrics, trials, err := m.SimulateRisk(0, 4, 1)
	require.NoError(t, err)
	assert.Equal(t, 500, metrics.Trials)
	assert.Len(t, trials, 500)
}

func TestSimulateRiskInputErrors(t *testing.T) {
	data := testDataset()
	data.Operations = nil
	m := newTestModel(t, data)
	_, _, err := m.SimulateRisk(100, 4, 1)
	var dataErr *DataError
	assert.ErrorAs(t, err, &dataErr)

	data = testDataset()
	for i := range data.Operations {
		data.Operations[i].OutputWafers = 0
	}
	m = newTestModel(t, data)
	_, _, err = m.SimulateRisk(100, 4, 1)
	var numErr *NumericError
	assert.ErrorAs(t, err, &numErr)
}
