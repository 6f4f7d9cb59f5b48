package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabworks/capacity-planner/internal/dataset"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 168.0, cfg.HoursPerWeek)
	assert.Equal(t, 13.0, cfg.WeeksPerQuarter)
	assert.Len(t, cfg.Scenarios, 4)
}

func TestTotalProcessSteps(t *testing.T) {
	cfg := Default()
	// Sum of the default table: the declared step count for a full wafer.
	assert.Equal(t, 390.0, cfg.TotalProcessSteps())
}

func TestStepsFor(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 65.0, cfg.StepsFor("Etch_Plasma"))
	assert.Equal(t, cfg.DefaultProcessSteps, cfg.StepsFor("Bonding_Hybrid"))
}

func TestLoadOverridesDefaults(t *testing.T) {
	doc := []byte(`
stepNormalization: 12
bottleneckThreshold: 0.85
scenarios:
  - name: Flat
    demandGrowth: 0.0
    assumedYield: 0.90
`)
	cfg, err := Load(doc)
	require.NoError(t, err)
	assert.Equal(t, 12.0, cfg.StepNormalization)
	assert.Equal(t, 0.85, cfg.BottleneckThreshold)
	require.Len(t, cfg.Scenarios, 1)
	assert.Equal(t, "Flat", cfg.Scenarios[0].Name)
	// Untouched keys keep their defaults.
	assert.Equal(t, 168.0, cfg.HoursPerWeek)
}

func TestLoadEmptyYieldsDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PlanningConfig)
	}{
		{"zero hours per week", func(c *PlanningConfig) { c.HoursPerWeek = 0 }},
		{"zero weeks per quarter", func(c *PlanningConfig) { c.WeeksPerQuarter = 0 }},
		{"empty step table", func(c *PlanningConfig) { c.ProcessSteps = nil }},
		{"negative step weight", func(c *PlanningConfig) { c.ProcessSteps["CMP"] = -5 }},
		{"zero default steps", func(c *PlanningConfig) { c.DefaultProcessSteps = 0 }},
		{"zero normalization", func(c *PlanningConfig) { c.StepNormalization = 0 }},
		{"threshold above one", func(c *PlanningConfig) { c.BottleneckThreshold = 1.5 }},
		{"missing risk weight", func(c *PlanningConfig) { delete(c.RiskWeights, dataset.RiskHigh) }},
		{"risk weight below one", func(c *PlanningConfig) { c.RiskWeights[dataset.RiskLow] = 0.5 }},
		{"slack below one", func(c *PlanningConfig) { c.RiskBudgetSlack = 0.9 }},
		{"selection threshold at one", func(c *PlanningConfig) { c.SelectionThreshold = 1 }},
		{"zero trials", func(c *PlanningConfig) { c.MonteCarlo.DefaultTrials = 0 }},
		{"zero demand volatility", func(c *PlanningConfig) { c.MonteCarlo.DemandVolatility = 0 }},
		{"inverted yield clamp", func(c *PlanningConfig) { c.MonteCarlo.YieldFloor = 0.99 }},
		{"yield mean outside clamp", func(c *PlanningConfig) { c.MonteCarlo.YieldMean = 0.5 }},
		{"zero beta shape", func(c *PlanningConfig) { c.MonteCarlo.AvailabilityAlpha = 0 }},
		{"zero cycle sigma", func(c *PlanningConfig) { c.MonteCarlo.CycleTimeSigma = 0 }},
		{"unnamed scenario", func(c *PlanningConfig) { c.Scenarios[0].Name = "" }},
		{"duplicate scenario", func(c *PlanningConfig) { c.Scenarios[1].Name = c.Scenarios[0].Name }},
		{"scenario yield above one", func(c *PlanningConfig) { c.Scenarios[0].AssumedYield = 1.2 }},
		{"scenario growth below minus one", func(c *PlanningConfig) { c.Scenarios[0].DemandGrowth = -1.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
