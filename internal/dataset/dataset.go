package dataset

import (
	"sort"
	"time"
)

// Dataset bundles the input tables for one planning run.
type Dataset struct {
	Equipment  []EquipmentRecord
	Operations []OperationRecord
	Forecast   []ForecastRecord
	Projects   []CapExProjectRecord
}

// ToolTypes returns the distinct tool types present in the equipment
// table, sorted for deterministic iteration.
func (d *Dataset) ToolTypes() []string {
	seen := make(map[string]struct{})
	for _, e := range d.Equipment {
		seen[e.ToolType] = struct{}{}
	}
	types := make([]string, 0, len(seen))
	for t := range seen {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// EquipmentByType returns all equipment rows of the given tool type.
func (d *Dataset) EquipmentByType(toolType string) []EquipmentRecord {
	var rows []EquipmentRecord
	for _, e := range d.Equipment {
		if e.ToolType == toolType {
			rows = append(rows, e)
		}
	}
	return rows
}

// LatestOperationsDate returns the most recent date in the operations
// table. ok is false when the table is empty.
func (d *Dataset) LatestOperationsDate() (latest time.Time, ok bool) {
	for _, op := range d.Operations {
		if !ok || op.Date.After(latest) {
			latest = op.Date
			ok = true
		}
	}
	return latest, ok
}

// OperationsOn returns the operations rows recorded on the given date.
func (d *Dataset) OperationsOn(date time.Time) []OperationRecord {
	var rows []OperationRecord
	for _, op := range d.Operations {
		if op.Date.Equal(date) {
			rows = append(rows, op)
		}
	}
	return rows
}

// LatestForecastQuarter returns the most recent quarter in the forecast
// table. ok is false when the table is empty.
func (d *Dataset) LatestForecastQuarter() (latest time.Time, ok bool) {
	for _, f := range d.Forecast {
		if !ok || f.Quarter.After(latest) {
			latest = f.Quarter
			ok = true
		}
	}
	return latest, ok
}

// ForecastIn returns the forecast rows for the given quarter, one per
// product.
func (d *Dataset) ForecastIn(quarter time.Time) []ForecastRecord {
	var rows []ForecastRecord
	for _, f := range d.Forecast {
		if f.Quarter.Equal(quarter) {
			rows = append(rows, f)
		}
	}
	return rows
}

// CountByStatus tallies the equipment fleet by lifecycle status.
func (d *Dataset) CountByStatus() map[ToolStatus]int {
	counts := make(map[ToolStatus]int)
	for _, e := range d.Equipment {
		counts[e.Status]++
	}
	return counts
}

// FleetValueUSD is the total acquisition cost of the fleet.
func (d *Dataset) FleetValueUSD() float64 {
	var total float64
	for _, e := range d.Equipment {
		total += e.CostUSD
	}
	return total
}
