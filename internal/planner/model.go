package planner

import (
	"fmt"

	"github.com/go-logr/logr"

	"github.com/fabworks/capacity-planner/internal/config"
	"github.com/fabworks/capacity-planner/internal/dataset"
)

// Model is the capacity planning engine for one loaded dataset. All
// analysis methods are side-effect-free and recompute the capacity
// baseline per call, so they can run concurrently.
type Model struct {
	data *dataset.Dataset
	cfg  config.PlanningConfig
	log  logr.Logger
}

// NewModel creates a planning model over the given dataset.
func NewModel(data *dataset.Dataset, cfg config.PlanningConfig, log logr.Logger) (*Model, error) {
	if data == nil {
		return nil, fmt.Errorf("dataset cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid planning config: %w", err)
	}
	return &Model{data: data, cfg: cfg, log: log}, nil
}

// CapacityRow is the theoretical capacity aggregate for one tool type.
type CapacityRow struct {
	ToolType string

	// ToolCount is the number of installed tools of this type.
	ToolCount int

	// TotalThroughputWPH is the summed rated throughput of the type.
	TotalThroughputWPH float64

	// MeanUtilizationTarget is the mean planned utilization across the
	// type's tools.
	MeanUtilizationTarget float64

	// EffectiveWPW is throughput x operating hours per week x mean
	// utilization target.
	EffectiveWPW float64
}

// TheoreticalCapacity computes the per-tool-type capacity baseline shared
// by the bottleneck, risk, and scenario analyses. An empty equipment table
// yields an empty result; downstream consumers guard their divisions.
func (m *Model) TheoreticalCapacity() []CapacityRow {
	rows := make([]CapacityRow, 0, len(m.cfg.ProcessSteps))
	for _, toolType := range m.data.ToolTypes() {
		tools := m.data.EquipmentByType(toolType)
		var throughput, targetSum float64
		for _, tool := range tools {
			throughput += tool.ThroughputWPH
			targetSum += tool.UtilizationTarget
		}
		meanTarget := targetSum / float64(len(tools))
		rows = append(rows, CapacityRow{
			ToolType:              toolType,
			ToolCount:             len(tools),
			TotalThroughputWPH:    throughput,
			MeanUtilizationTarget: meanTarget,
			EffectiveWPW:          throughput * m.cfg.HoursPerWeek * meanTarget,
		})
	}
	return rows
}

// currentWeeklyCapacity is the fab-wide output baseline: the latest day's
// total good wafer output across all tools, scaled to a week.
func (m *Model) currentWeeklyCapacity() (float64, error) {
	latest, ok := m.data.LatestOperationsDate()
	if !ok {
		return 0, &DataError{Table: "operations", Detail: "table is empty"}
	}
	var daily float64
	for _, op := range m.data.OperationsOn(latest) {
		daily += op.OutputWafers
	}
	return daily * 7, nil
}

// currentWeeklyDemand is the demand baseline: the latest quarter's total
// forecast demand across products, converted to weekly terms.
func (m *Model) currentWeeklyDemand() (float64, error) {
	latest, ok := m.data.LatestForecastQuarter()
	if !ok {
		return 0, &DataError{Table: "forecast", Detail: "table is empty"}
	}
	var quarterly float64
	for _, f := range m.data.ForecastIn(latest) {
		quarterly += f.DemandWafers
	}
	return quarterly / m.cfg.WeeksPerQuarter, nil
}
