package planner

import (
	"fmt"
	"math"
	"sort"
)

// BottleneckRow is the Theory-of-Constraints assessment of one tool type
// against a target weekly output.
type BottleneckRow struct {
	ToolType           string
	ToolCount          int
	TotalThroughputWPH float64

	// ProcessSteps is the number of times a wafer visits this tool type
	// during a complete flow.
	ProcessSteps float64

	// ProcessFraction is this type's share of the total step count.
	ProcessFraction float64

	EffectiveCapacityWPW float64

	// UtilizationAtTarget is the load ratio at the target output, clamped
	// to 1.0 for reporting.
	UtilizationAtTarget float64

	// RawUtilization is the unclamped load ratio; it drives the ranking,
	// the severity, and the capacity gap.
	RawUtilization float64

	// MaxSupportableWPW is the fab output this tool type alone could
	// sustain.
	MaxSupportableWPW float64

	// IsBottleneck marks tool types loaded beyond the configured
	// threshold.
	IsBottleneck bool

	// ConstraintSeverity is the raw load ratio when flagged, else zero.
	ConstraintSeverity float64

	// CapacityGapWPW is the weekly visit volume this type cannot service.
	CapacityGapWPW float64
}

// Bottlenecks ranks tool types by constraint severity against the target
// weekly output. The top row is the binding constraint: overall fab
// throughput cannot exceed what the most-constrained tool type sustains.
func (m *Model) Bottlenecks(targetOutputWPW float64) ([]BottleneckRow, error) {
	if targetOutputWPW <= 0 {
		return nil, fmt.Errorf("target output must be positive, got %.1f", targetOutputWPW)
	}
	capacity := m.TheoreticalCapacity()
	if len(capacity) == 0 {
		return nil, &DataError{Table: "equipment", Detail: "table is empty"}
	}

	totalSteps := m.cfg.TotalProcessSteps()
	rows := make([]BottleneckRow, 0, len(capacity))
	for _, base := range capacity {
		if base.EffectiveWPW == 0 {
			return nil, &NumericError{
				Quantity: "effective capacity",
				Detail:   fmt.Sprintf("tool type %s", base.ToolType),
			}
		}
		steps := m.cfg.StepsFor(base.ToolType)

		// Weekly visits this tool type must service to hit the target.
		visitsWPW := targetOutputWPW * (steps / m.cfg.StepNormalization)
		raw := visitsWPW / base.EffectiveWPW

		row := BottleneckRow{
			ToolType:             base.ToolType,
			ToolCount:            base.ToolCount,
			TotalThroughputWPH:   base.TotalThroughputWPH,
			ProcessSteps:         steps,
			ProcessFraction:      steps / totalSteps,
			EffectiveCapacityWPW: base.EffectiveWPW,
			UtilizationAtTarget:  math.Min(raw, 1.0),
			RawUtilization:       raw,
			MaxSupportableWPW:    base.EffectiveWPW / (steps / m.cfg.StepNormalization),
			IsBottleneck:         raw > m.cfg.BottleneckThreshold,
			CapacityGapWPW:       math.Max(0, visitsWPW-base.EffectiveWPW),
		}
		if row.IsBottleneck {
			row.ConstraintSeverity = raw
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].RawUtilization != rows[j].RawUtilization {
			return rows[i].RawUtilization > rows[j].RawUtilization
		}
		return rows[i].ToolType < rows[j].ToolType
	})

	m.log.V(1).Info("bottleneck analysis complete",
		"targetOutputWPW", targetOutputWPW,
		"toolTypes", len(rows),
		"bindingConstraint", rows[0].ToolType,
		"bindingUtilization", rows[0].RawUtilization)
	return rows, nil
}
