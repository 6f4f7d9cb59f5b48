package dataset

import (
	"fmt"
	"time"
)

// ToolStatus is the lifecycle state of an installed tool.
type ToolStatus string

const (
	StatusActive      ToolStatus = "Active"
	StatusMaintenance ToolStatus = "Maintenance"
	StatusUpgrade     ToolStatus = "Upgrade"
)

// ParseToolStatus converts a raw status string into a ToolStatus.
func ParseToolStatus(s string) (ToolStatus, error) {
	switch ToolStatus(s) {
	case StatusActive, StatusMaintenance, StatusUpgrade:
		return ToolStatus(s), nil
	default:
		return "", fmt.Errorf("unknown tool status %q", s)
	}
}

// RiskLevel classifies the execution risk of a capital project.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// ParseRiskLevel converts a raw risk string into a RiskLevel.
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch RiskLevel(s) {
	case RiskLow, RiskMedium, RiskHigh:
		return RiskLevel(s), nil
	default:
		return "", fmt.Errorf("unknown risk level %q", s)
	}
}

// EquipmentRecord is master data for a single installed tool.
type EquipmentRecord struct {
	// ToolID uniquely identifies the physical tool, e.g. "LIT1042".
	ToolID string

	// ToolType is the capacity aggregation key, e.g. "Lithography_EUV".
	ToolType string

	// CostUSD is the acquisition cost of the tool.
	CostUSD float64

	// ThroughputWPH is the rated throughput in wafers per hour.
	ThroughputWPH float64

	// UtilizationTarget is the planned utilization fraction in [0, 1].
	UtilizationTarget float64

	// MTBFHours is the vendor-specified mean time between failures.
	MTBFHours float64

	// InstallDate is when the tool entered service.
	InstallDate time.Time

	// AgeYears is the fleet age of the tool at load time.
	AgeYears float64

	// Status is the current lifecycle state.
	Status ToolStatus

	// IsCritical marks tools on the critical process path.
	IsCritical bool

	// Vendor is the equipment manufacturer.
	Vendor string
}

// OperationRecord is one day of telemetry for one tool.
type OperationRecord struct {
	Date     time.Time
	ToolID   string
	ToolType string

	// UtilizationRate is the realized utilization fraction for the day.
	UtilizationRate float64

	// OEE components. OEE = Availability x PerformanceEfficiency x QualityRate.
	Availability          float64
	PerformanceEfficiency float64
	QualityRate           float64
	OEE                   float64

	// OutputWafers is the good wafer output for the day.
	OutputWafers float64

	// OperatingHours is the productive time for the day.
	OperatingHours float64

	// UnplannedDowntimeHours is time lost to unscheduled failures.
	UnplannedDowntimeHours float64
}

// ForecastRecord is the demand outlook for one product in one quarter.
type ForecastRecord struct {
	Quarter         time.Time
	Product         string
	DemandWafers    float64
	RevenueMillions float64
}

// CapExProjectRecord is a candidate capital investment project.
type CapExProjectRecord struct {
	ProjectID     string
	ProjectName   string
	InvestmentUSD float64
	NPVUSD        float64
	IRRPercent    float64
	RiskLevel     RiskLevel
	Status        string
}
