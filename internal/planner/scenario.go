package planner

import "math"

// ScenarioRow is the deterministic projection for one named scenario.
type ScenarioRow struct {
	Scenario string

	DemandGrowthRate float64
	AssumedYield     float64

	// ProjectedDemandWPW is current demand grown by the scenario rate.
	ProjectedDemandWPW float64

	// EffectiveCapacityWPW is current capacity degraded to the assumed
	// yield.
	EffectiveCapacityWPW float64

	// CapacityGapWPW is demand minus capacity; negative means headroom.
	CapacityGapWPW float64

	// Utilization is min(demand/capacity, 1.0).
	Utilization float64

	// CapacitySufficient is true when the gap is zero or negative.
	CapacitySufficient bool

	// AdditionalCapacityNeededPct is the shortfall as a percentage of
	// effective capacity, zero when sufficient.
	AdditionalCapacityNeededPct float64
}

// Scenarios projects the configured growth/yield scenarios against the
// current capacity and demand baselines. Fully deterministic: identical
// inputs always produce identical rows, in configured table order.
func (m *Model) Scenarios() ([]ScenarioRow, error) {
	currentCapacity, err := m.currentWeeklyCapacity()
	if err != nil {
		return nil, err
	}
	currentDemand, err := m.currentWeeklyDemand()
	if err != nil {
		return nil, err
	}

	rows := make([]ScenarioRow, 0, len(m.cfg.Scenarios))
	for _, spec := range m.cfg.Scenarios {
		capacity := currentCapacity * spec.AssumedYield
		if capacity == 0 {
			return nil, &NumericError{
				Quantity: "effective capacity",
				Detail:   "scenario " + spec.Name,
			}
		}
		demand := currentDemand * (1 + spec.DemandGrowth)
		gap := demand - capacity

		rows = append(rows, ScenarioRow{
			Scenario:                    spec.Name,
			DemandGrowthRate:            spec.DemandGrowth,
			AssumedYield:                spec.AssumedYield,
			ProjectedDemandWPW:          demand,
			EffectiveCapacityWPW:        capacity,
			CapacityGapWPW:              gap,
			Utilization:                 math.Min(demand/capacity, 1.0),
			CapacitySufficient:          gap <= 0,
			AdditionalCapacityNeededPct: math.Max(0, gap/capacity*100),
		})
	}

	m.log.V(1).Info("scenario analysis complete",
		"scenarios", len(rows),
		"currentCapacityWPW", currentCapacity,
		"currentDemandWPW", currentDemand)
	return rows, nil
}
