package planner

import (
	"fmt"
	"sort"

	"github.com/go-logr/logr"

	"github.com/fabworks/capacity-planner/internal/dataset"
)

// ReliabilityModel computes MTBF and availability-impact metrics per tool
// type. It is independent of the capacity baseline and only reads the
// equipment and operations tables.
type ReliabilityModel struct {
	data *dataset.Dataset
	log  logr.Logger
}

// NewReliabilityModel creates a reliability model over the given dataset.
func NewReliabilityModel(data *dataset.Dataset, log logr.Logger) (*ReliabilityModel, error) {
	if data == nil {
		return nil, fmt.Errorf("dataset cannot be nil")
	}
	return &ReliabilityModel{data: data, log: log}, nil
}

// ReliabilityRow is the failure profile of one tool type.
type ReliabilityRow struct {
	ToolType string

	// TotalFailures is the number of days with recorded unplanned
	// downtime.
	TotalFailures int

	TotalDowntimeHours float64
	MeanDowntimeHours  float64

	// ActualMTBFHours is total operating hours divided by failure count.
	ActualMTBFHours float64

	// TheoreticalMTBFHours is the vendor specification, averaged across
	// the type's installed tools.
	TheoreticalMTBFHours float64

	// MTBFPerformancePct is actual over theoretical, as a percentage.
	MTBFPerformancePct float64

	// AvailabilityImpactPct is downtime as a percentage of operating
	// hours.
	AvailabilityImpactPct float64
}

// MTBFAnalysis computes per-tool-type reliability metrics, worst
// offenders first. Tool types with no recorded downtime are omitted, not
// zero-filled: absence means "no recorded failures", not "perfect
// reliability".
func (r *ReliabilityModel) MTBFAnalysis() ([]ReliabilityRow, error) {
	if len(r.data.Equipment) == 0 {
		return nil, &DataError{Table: "equipment", Detail: "table is empty"}
	}

	type tally struct {
		failures       int
		downtimeHours  float64
		operatingHours float64
	}
	tallies := make(map[string]*tally)
	for _, op := range r.data.Operations {
		t := tallies[op.ToolType]
		if t == nil {
			t = &tally{}
			tallies[op.ToolType] = t
		}
		t.operatingHours += op.OperatingHours
		if op.UnplannedDowntimeHours > 0 {
			t.failures++
			t.downtimeHours += op.UnplannedDowntimeHours
		}
	}

	known := make(map[string]struct{})
	for _, toolType := range r.data.ToolTypes() {
		known[toolType] = struct{}{}
	}
	for toolType, t := range tallies {
		if _, ok := known[toolType]; !ok && t.failures > 0 {
			return nil, &DataError{
				Table:  "equipment",
				Detail: fmt.Sprintf("operations reference tool type %s with no equipment record", toolType),
			}
		}
	}

	rows := make([]ReliabilityRow, 0, len(tallies))
	for _, toolType := range r.data.ToolTypes() {
		t := tallies[toolType]
		if t == nil || t.failures == 0 {
			continue
		}
		if t.operatingHours == 0 {
			return nil, &NumericError{
				Quantity: "operating hours",
				Detail:   fmt.Sprintf("tool type %s has %d failures", toolType, t.failures),
			}
		}
		theoretical := r.theoreticalMTBF(toolType)
		if theoretical == 0 {
			return nil, &NumericError{
				Quantity: "theoretical MTBF",
				Detail:   fmt.Sprintf("tool type %s", toolType),
			}
		}
		actual := t.operatingHours / float64(t.failures)

		rows = append(rows, ReliabilityRow{
			ToolType:              toolType,
			TotalFailures:         t.failures,
			TotalDowntimeHours:    t.downtimeHours,
			MeanDowntimeHours:     t.downtimeHours / float64(t.failures),
			ActualMTBFHours:       actual,
			TheoreticalMTBFHours:  theoretical,
			MTBFPerformancePct:    actual / theoretical * 100,
			AvailabilityImpactPct: t.downtimeHours / t.operatingHours * 100,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].AvailabilityImpactPct != rows[j].AvailabilityImpactPct {
			return rows[i].AvailabilityImpactPct > rows[j].AvailabilityImpactPct
		}
		return rows[i].ToolType < rows[j].ToolType
	})

	r.log.V(1).Info("reliability analysis complete", "toolTypes", len(rows))
	return rows, nil
}

// theoreticalMTBF averages the vendor MTBF spec across the type's tools.
func (r *ReliabilityModel) theoreticalMTBF(toolType string) float64 {
	tools := r.data.EquipmentByType(toolType)
	if len(tools) == 0 {
		return 0
	}
	var sum float64
	for _, tool := range tools {
		sum += tool.MTBFHours
	}
	return sum / float64(len(tools))
}
