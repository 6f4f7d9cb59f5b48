package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/fabworks/capacity-planner/internal/dataset"
)

// ScenarioSpec is one named what-if scenario: a demand growth rate applied
// to the current demand baseline and the line yield assumed for it.
type ScenarioSpec struct {
	Name         string  `yaml:"name" json:"name"`
	DemandGrowth float64 `yaml:"demandGrowth" json:"demandGrowth"`
	AssumedYield float64 `yaml:"assumedYield" json:"assumedYield"`
}

// MonteCarloConfig parameterizes the stochastic factors drawn per
// simulation trial.
type MonteCarloConfig struct {
	// DefaultTrials is the trial count used when the caller passes zero.
	DefaultTrials int `yaml:"defaultTrials" json:"defaultTrials"`

	// DemandVolatility is the standard deviation of the demand multiplier
	// (normal, mean 1.0).
	DemandVolatility float64 `yaml:"demandVolatility" json:"demandVolatility"`

	// Yield factor: normal with the given mean and standard deviation,
	// clamped to [YieldFloor, YieldCeiling].
	YieldMean    float64 `yaml:"yieldMean" json:"yieldMean"`
	YieldStdDev  float64 `yaml:"yieldStdDev" json:"yieldStdDev"`
	YieldFloor   float64 `yaml:"yieldFloor" json:"yieldFloor"`
	YieldCeiling float64 `yaml:"yieldCeiling" json:"yieldCeiling"`

	// Availability factor: beta distribution shape parameters. The default
	// (9, 1) skews draws toward high uptime.
	AvailabilityAlpha float64 `yaml:"availabilityAlpha" json:"availabilityAlpha"`
	AvailabilityBeta  float64 `yaml:"availabilityBeta" json:"availabilityBeta"`

	// CycleTimeSigma is the scale of the log-normal cycle-time multiplier
	// (location 0). The reciprocal of each draw scales throughput.
	CycleTimeSigma float64 `yaml:"cycleTimeSigma" json:"cycleTimeSigma"`
}

// PlanningConfig carries all engine parameters for one planning run.
type PlanningConfig struct {
	// HoursPerWeek is the operating hours assumed per week (24/7 fab).
	HoursPerWeek float64 `yaml:"hoursPerWeek" json:"hoursPerWeek"`

	// WeeksPerQuarter converts quarterly forecast demand to weekly demand.
	WeeksPerQuarter float64 `yaml:"weeksPerQuarter" json:"weeksPerQuarter"`

	// ProcessSteps maps tool type to the number of process steps a wafer
	// visits on that tool type during a full flow.
	ProcessSteps map[string]float64 `yaml:"processSteps" json:"processSteps"`

	// DefaultProcessSteps is the weight assigned to a tool type absent
	// from ProcessSteps. Applied deterministically, never per call.
	DefaultProcessSteps float64 `yaml:"defaultProcessSteps" json:"defaultProcessSteps"`

	// StepNormalization divides the per-tool-type step count when deriving
	// required weekly visits from a target output. The value is carried as
	// configuration pending confirmation from process engineering.
	StepNormalization float64 `yaml:"stepNormalization" json:"stepNormalization"`

	// BottleneckThreshold is the utilization-at-target above which a tool
	// type is flagged as a constraint.
	BottleneckThreshold float64 `yaml:"bottleneckThreshold" json:"bottleneckThreshold"`

	// RiskWeights scales project investment in the risk-adjusted budget
	// constraint of the portfolio optimizer.
	RiskWeights map[dataset.RiskLevel]float64 `yaml:"riskWeights" json:"riskWeights"`

	// RiskBudgetSlack is the multiplier applied to the budget in the
	// risk-adjusted constraint (1.20 allows 20% more in risk-weighted terms).
	RiskBudgetSlack float64 `yaml:"riskBudgetSlack" json:"riskBudgetSlack"`

	// SelectionThreshold converts a continuous allocation fraction into a
	// binary invest/skip decision.
	SelectionThreshold float64 `yaml:"selectionThreshold" json:"selectionThreshold"`

	MonteCarlo MonteCarloConfig `yaml:"monteCarlo" json:"monteCarlo"`

	// Scenarios is the ordered what-if scenario table.
	Scenarios []ScenarioSpec `yaml:"scenarios" json:"scenarios"`
}

// Default returns the standard planning assumptions for the fab.
func Default() PlanningConfig {
	return PlanningConfig{
		HoursPerWeek:    168,
		WeeksPerQuarter: 13,
		ProcessSteps: map[string]float64{
			"Lithography_EUV":   25,
			"Lithography_DUV":   40,
			"Etch_Plasma":       65,
			"Deposition_CVD":    45,
			"Deposition_PVD":    20,
			"CMP":               25,
			"Metrology_SEM":     80,
			"Metrology_Optical": 40,
			"Ion_Implant":       15,
			"Wet_Process":       35,
		},
		DefaultProcessSteps: 50,
		StepNormalization:   10,
		BottleneckThreshold: 0.90,
		RiskWeights: map[dataset.RiskLevel]float64{
			dataset.RiskLow:    1.0,
			dataset.RiskMedium: 1.3,
			dataset.RiskHigh:   1.6,
		},
		RiskBudgetSlack:    1.20,
		SelectionThreshold: 0.5,
		MonteCarlo: MonteCarloConfig{
			DefaultTrials:     10000,
			DemandVolatility:  0.15,
			YieldMean:         0.92,
			YieldStdDev:       0.05,
			YieldFloor:        0.75,
			YieldCeiling:      0.98,
			AvailabilityAlpha: 9,
			AvailabilityBeta:  1,
			CycleTimeSigma:    0.15,
		},
		Scenarios: []ScenarioSpec{
			{Name: "Conservative", DemandGrowth: 0.05, AssumedYield: 0.88},
			{Name: "Base Case", DemandGrowth: 0.12, AssumedYield: 0.91},
			{Name: "Aggressive", DemandGrowth: 0.22, AssumedYield: 0.93},
			{Name: "Stretch", DemandGrowth: 0.35, AssumedYield: 0.95},
		},
	}
}

// Load parses a YAML document over the default configuration and validates
// the result. An empty document yields the defaults.
func Load(data []byte) (PlanningConfig, error) {
	cfg := Default()
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return PlanningConfig{}, fmt.Errorf("parsing planning config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return PlanningConfig{}, err
	}
	return cfg, nil
}

// StepsFor returns the process-step weight for a tool type, falling back
// to DefaultProcessSteps when the type is not in the table.
func (c *PlanningConfig) StepsFor(toolType string) float64 {
	if steps, ok := c.ProcessSteps[toolType]; ok {
		return steps
	}
	return c.DefaultProcessSteps
}

// TotalProcessSteps is the declared total step count for a complete wafer,
// summed over the configured table.
func (c *PlanningConfig) TotalProcessSteps() float64 {
	var total float64
	for _, steps := range c.ProcessSteps {
		total += steps
	}
	return total
}

// Validate checks for invalid configuration values.
func (c *PlanningConfig) Validate() error {
	if c.HoursPerWeek <= 0 {
		return fmt.Errorf("hoursPerWeek must be positive, got %.1f", c.HoursPerWeek)
	}
	if c.WeeksPerQuarter <= 0 {
		return fmt.Errorf("weeksPerQuarter must be positive, got %.1f", c.WeeksPerQuarter)
	}
	if len(c.ProcessSteps) == 0 {
		return fmt.Errorf("processSteps table must not be empty")
	}
	for toolType, steps := range c.ProcessSteps {
		if steps <= 0 {
			return fmt.Errorf("processSteps[%s] must be positive, got %.1f", toolType, steps)
		}
	}
	if c.DefaultProcessSteps <= 0 {
		return fmt.Errorf("defaultProcessSteps must be positive, got %.1f", c.DefaultProcessSteps)
	}
	if c.StepNormalization <= 0 {
		return fmt.Errorf("stepNormalization must be positive, got %.1f", c.StepNormalization)
	}
	if c.BottleneckThreshold <= 0 || c.BottleneckThreshold > 1 {
		return fmt.Errorf("bottleneckThreshold must be in (0, 1], got %.2f", c.BottleneckThreshold)
	}
	for _, level := range []dataset.RiskLevel{dataset.RiskLow, dataset.RiskMedium, dataset.RiskHigh} {
		w, ok := c.RiskWeights[level]
		if !ok {
			return fmt.Errorf("riskWeights missing entry for level %q", level)
		}
		if w < 1 {
			return fmt.Errorf("riskWeights[%s] must be >= 1, got %.2f", level, w)
		}
	}
	if c.RiskBudgetSlack < 1 {
		return fmt.Errorf("riskBudgetSlack must be >= 1, got %.2f", c.RiskBudgetSlack)
	}
	if c.SelectionThreshold <= 0 || c.SelectionThreshold >= 1 {
		return fmt.Errorf("selectionThreshold must be in (0, 1), got %.2f", c.SelectionThreshold)
	}
	if err := c.MonteCarlo.Validate(); err != nil {
		return fmt.Errorf("monteCarlo: %w", err)
	}
	seen := make(map[string]struct{}, len(c.Scenarios))
	for _, s := range c.Scenarios {
		if s.Name == "" {
			return fmt.Errorf("scenario with empty name")
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("duplicate scenario %q", s.Name)
		}
		seen[s.Name] = struct{}{}
		if s.DemandGrowth < -1 {
			return fmt.Errorf("scenario %q: demandGrowth must be >= -1, got %.2f", s.Name, s.DemandGrowth)
		}
		if s.AssumedYield <= 0 || s.AssumedYield > 1 {
			return fmt.Errorf("scenario %q: assumedYield must be in (0, 1], got %.2f", s.Name, s.AssumedYield)
		}
	}
	return nil
}

// Validate checks the Monte Carlo distribution parameters.
func (m *MonteCarloConfig) Validate() error {
	if m.DefaultTrials <= 0 {
		return fmt.Errorf("defaultTrials must be positive, got %d", m.DefaultTrials)
	}
	if m.DemandVolatility <= 0 {
		return fmt.Errorf("demandVolatility must be positive, got %.3f", m.DemandVolatility)
	}
	if m.YieldStdDev <= 0 {
		return fmt.Errorf("yieldStdDev must be positive, got %.3f", m.YieldStdDev)
	}
	if m.YieldFloor <= 0 || m.YieldCeiling > 1 || m.YieldFloor >= m.YieldCeiling {
		return fmt.Errorf("yield clamp [%.2f, %.2f] is not a valid range", m.YieldFloor, m.YieldCeiling)
	}
	if m.YieldMean < m.YieldFloor || m.YieldMean > m.YieldCeiling {
		return fmt.Errorf("yieldMean %.2f outside clamp [%.2f, %.2f]", m.YieldMean, m.YieldFloor, m.YieldCeiling)
	}
	if m.AvailabilityAlpha <= 0 || m.AvailabilityBeta <= 0 {
		return fmt.Errorf("availability beta shape parameters must be positive, got (%.1f, %.1f)",
			m.AvailabilityAlpha, m.AvailabilityBeta)
	}
	if m.CycleTimeSigma <= 0 {
		return fmt.Errorf("cycleTimeSigma must be positive, got %.3f", m.CycleTimeSigma)
	}
	return nil
}
