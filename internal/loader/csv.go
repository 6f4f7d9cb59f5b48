package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fabworks/capacity-planner/internal/dataset"
)

// Canonical export file names within a data directory.
const (
	EquipmentFile  = "equipment_master.csv"
	OperationsFile = "fab_operations.csv"
	ForecastFile   = "demand_forecast.csv"
	CapExFile      = "capex_projects.csv"
)

const dateLayout = "2006-01-02"

// LoadDataset reads the four canonical CSV exports from dir.
func LoadDataset(dir string) (*dataset.Dataset, error) {
	var ds dataset.Dataset

	err := withFile(filepath.Join(dir, EquipmentFile), func(r io.Reader) error {
		var err error
		ds.Equipment, err = LoadEquipment(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	err = withFile(filepath.Join(dir, OperationsFile), func(r io.Reader) error {
		var err error
		ds.Operations, err = LoadOperations(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	err = withFile(filepath.Join(dir, ForecastFile), func(r io.Reader) error {
		var err error
		ds.Forecast, err = LoadForecast(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	err = withFile(filepath.Join(dir, CapExFile), func(r io.Reader) error {
		var err error
		ds.Projects, err = LoadCapExProjects(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &ds, nil
}

func withFile(path string, fn func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := fn(f); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}

// row is one CSV record with column access by header name.
type row struct {
	index map[string]int
	n     int
	cells []string
}

func (r *row) str(col string) (string, error) {
	i, ok := r.index[col]
	if !ok {
		return "", fmt.Errorf("row %d: missing column %q", r.n, col)
	}
	return strings.TrimSpace(r.cells[i]), nil
}

func (r *row) float(col string) (float64, error) {
	s, err := r.str(col)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("row %d: column %q: %w", r.n, col, err)
	}
	return v, nil
}

func (r *row) date(col string) (time.Time, error) {
	s, err := r.str(col)
	if err != nil {
		return time.Time{}, err
	}
	// Pandas exports may carry a time component.
	if i := strings.IndexByte(s, ' '); i > 0 {
		s = s[:i]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("row %d: column %q: %w", r.n, col, err)
	}
	return t, nil
}

func (r *row) boolean(col string) (bool, error) {
	s, err := r.str(col)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(s) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	default:
		return false, fmt.Errorf("row %d: column %q: invalid boolean %q", r.n, col, s)
	}
}

// forEachRow streams headered CSV records through fn.
func forEachRow(r io.Reader, fn func(*row) error) error {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return fmt.Errorf("empty CSV input")
	}
	if err != nil {
		return err
	}
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(col)] = i
	}

	for n := 1; ; n++ {
		cells, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(&row{index: index, n: n, cells: cells}); err != nil {
			return err
		}
	}
}

// LoadEquipment parses the equipment master export.
func LoadEquipment(r io.Reader) ([]dataset.EquipmentRecord, error) {
	var records []dataset.EquipmentRecord
	err := forEachRow(r, func(row *row) error {
		var rec dataset.EquipmentRecord
		var err error
		if rec.ToolID, err = row.str("tool_id"); err != nil {
			return err
		}
		if rec.ToolType, err = row.str("tool_type"); err != nil {
			return err
		}
		if rec.CostUSD, err = row.float("cost_usd"); err != nil {
			return err
		}
		if rec.ThroughputWPH, err = row.float("throughput_wph"); err != nil {
			return err
		}
		if rec.UtilizationTarget, err = row.float("utilization_target"); err != nil {
			return err
		}
		if rec.MTBFHours, err = row.float("mtbf_hours"); err != nil {
			return err
		}
		if rec.InstallDate, err = row.date("install_date"); err != nil {
			return err
		}
		if rec.AgeYears, err = row.float("age_years"); err != nil {
			return err
		}
		status, err := row.str("status")
		if err != nil {
			return err
		}
		if rec.Status, err = dataset.ParseToolStatus(status); err != nil {
			return fmt.Errorf("row %d: %w", row.n, err)
		}
		if rec.IsCritical, err = row.boolean("is_critical"); err != nil {
			return err
		}
		if rec.Vendor, err = row.str("vendor"); err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// LoadOperations parses the daily fab operations export.
func LoadOperations(r io.Reader) ([]dataset.OperationRecord, error) {
	var records []dataset.OperationRecord
	err := forEachRow(r, func(row *row) error {
		var rec dataset.OperationRecord
		var err error
		if rec.Date, err = row.date("date"); err != nil {
			return err
		}
		if rec.ToolID, err = row.str("tool_id"); err != nil {
			return err
		}
		if rec.ToolType, err = row.str("tool_type"); err != nil {
			return err
		}
		if rec.UtilizationRate, err = row.float("utilization_rate"); err != nil {
			return err
		}
		if rec.Availability, err = row.float("availability"); err != nil {
			return err
		}
		if rec.PerformanceEfficiency, err = row.float("performance_efficiency"); err != nil {
			return err
		}
		if rec.QualityRate, err = row.float("quality_rate"); err != nil {
			return err
		}
		if rec.OEE, err = row.float("oee"); err != nil {
			return err
		}
		if rec.OutputWafers, err = row.float("output_wafers"); err != nil {
			return err
		}
		if rec.OperatingHours, err = row.float("operating_hours"); err != nil {
			return err
		}
		if rec.UnplannedDowntimeHours, err = row.float("unplanned_downtime_hours"); err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// LoadForecast parses the quarterly demand forecast export.
func LoadForecast(r io.Reader) ([]dataset.ForecastRecord, error) {
	var records []dataset.ForecastRecord
	err := forEachRow(r, func(row *row) error {
		var rec dataset.ForecastRecord
		var err error
		if rec.Quarter, err = row.date("quarter"); err != nil {
			return err
		}
		if rec.Product, err = row.str("product"); err != nil {
			return err
		}
		if rec.DemandWafers, err = row.float("demand_wafers"); err != nil {
			return err
		}
		if rec.RevenueMillions, err = row.float("revenue_millions"); err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// LoadCapExProjects parses the capital project portfolio export.
func LoadCapExProjects(r io.Reader) ([]dataset.CapExProjectRecord, error) {
	var records []dataset.CapExProjectRecord
	err := forEachRow(r, func(row *row) error {
		var rec dataset.CapExProjectRecord
		var err error
		if rec.ProjectID, err = row.str("project_id"); err != nil {
			return err
		}
		if rec.ProjectName, err = row.str("project_name"); err != nil {
			return err
		}
		if rec.InvestmentUSD, err = row.float("investment_usd"); err != nil {
			return err
		}
		if rec.NPVUSD, err = row.float("npv_usd"); err != nil {
			return err
		}
		if rec.IRRPercent, err = row.float("irr_percent"); err != nil {
			return err
		}
		risk, err := row.str("risk_level")
		if err != nil {
			return err
		}
		if rec.RiskLevel, err = dataset.ParseRiskLevel(risk); err != nil {
			return fmt.Errorf("row %d: %w", row.n, err)
		}
		if rec.Status, err = row.str("status"); err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
