// Package report renders planning results as human-readable text.
//
// The engine returns typed rows; this package turns them into the
// executive summary and per-analysis tables printed by the CLI. It only
// reads engine outputs, never recomputes them.
package report

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fabworks/capacity-planner/internal/dataset"
	"github.com/fabworks/capacity-planner/internal/planner"
)

const rule = "================================================================================"

// Results aggregates the analysis outputs feeding the executive summary.
// Nil sections are skipped.
type Results struct {
	Bottlenecks  []planner.BottleneckRow
	Risk         *planner.RiskMetrics
	Optimization *planner.OptimizationResult
	Allocations  []planner.ProjectAllocation
	Scenarios    []planner.ScenarioRow
	Reliability  []planner.ReliabilityRow
}

// ExecutiveSummary renders the fleet status and analysis highlights.
func ExecutiveSummary(data *dataset.Dataset, results Results, now time.Time) string {
	var b strings.Builder
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "FAB CAPACITY MANAGEMENT - EXECUTIVE SUMMARY")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Generated : %s\n\n", now.Format("2006-01-02 15:04:05"))

	writeFleetStatus(&b, data)

	if len(results.Bottlenecks) > 0 {
		top := results.Bottlenecks[0]
		fmt.Fprintln(&b, "\nBOTTLENECK ANALYSIS")
		fmt.Fprintf(&b, "  Binding Constraint : %s (%.1f%% loaded)\n", top.ToolType, top.RawUtilization*100)
		var flagged int
		for _, row := range results.Bottlenecks {
			if row.IsBottleneck {
				flagged++
			}
		}
		fmt.Fprintf(&b, "  Constrained Types  : %d of %d\n", flagged, len(results.Bottlenecks))
	}

	if results.Risk != nil {
		r := results.Risk
		fmt.Fprintln(&b, "\nCAPACITY RISK (MONTE CARLO)")
		fmt.Fprintf(&b, "  Trials             : %d\n", r.Trials)
		fmt.Fprintf(&b, "  Horizon            : %d quarters\n", r.HorizonQuarters)
		fmt.Fprintf(&b, "  Service Level      : %.1f%%\n", r.ServiceLevel*100)
		fmt.Fprintf(&b, "  Mean Shortfall     : %.0f WPW\n", r.MeanShortfallWPW)
		fmt.Fprintf(&b, "  P95 Shortfall      : %.0f WPW\n", r.P95ShortfallWPW)
	}

	if results.Optimization != nil {
		o := results.Optimization
		fmt.Fprintln(&b, "\nCAPEX PORTFOLIO")
		if o.Status == planner.StatusOptimal {
			fmt.Fprintf(&b, "  Projects Selected  : %d\n", o.ProjectsSelected)
			fmt.Fprintf(&b, "  Total NPV          : $%.2fB\n", o.TotalNPVUSD/1e9)
			fmt.Fprintf(&b, "  Budget Utilized    : %.1f%%\n", o.BudgetUtilizedPct)
			if o.IsApproximate {
				fmt.Fprintln(&b, "  Note               : selection rounded from a continuous relaxation")
			}
		} else {
			fmt.Fprintf(&b, "  Status             : %s (%s)\n", o.Status, o.Message)
		}
	}

	if len(results.Scenarios) > 0 {
		var insufficient int
		for _, s := range results.Scenarios {
			if !s.CapacitySufficient {
				insufficient++
			}
		}
		fmt.Fprintln(&b, "\nSCENARIO OUTLOOK")
		fmt.Fprintf(&b, "  Scenarios Analyzed : %d\n", len(results.Scenarios))
		fmt.Fprintf(&b, "  Capacity Short In  : %d scenario(s)\n", insufficient)
	}

	if len(results.Reliability) > 0 {
		worst := results.Reliability[0]
		fmt.Fprintln(&b, "\nRELIABILITY")
		fmt.Fprintf(&b, "  Tool Types Analyzed: %d\n", len(results.Reliability))
		fmt.Fprintf(&b, "  Worst Offender     : %s (%.2f%% availability impact)\n",
			worst.ToolType, worst.AvailabilityImpactPct)
	}

	fmt.Fprintln(&b, "\n"+rule)
	return b.String()
}

func writeFleetStatus(b *strings.Builder, data *dataset.Dataset) {
	counts := data.CountByStatus()
	fmt.Fprintln(b, "FLEET STATUS")
	fmt.Fprintf(b, "  Total Tools        : %d\n", len(data.Equipment))
	fmt.Fprintf(b, "  Active             : %d\n", counts[dataset.StatusActive])
	fmt.Fprintf(b, "  In Maintenance     : %d\n", counts[dataset.StatusMaintenance])
	fmt.Fprintf(b, "  In Upgrade         : %d\n", counts[dataset.StatusUpgrade])
	fmt.Fprintf(b, "  Asset Value        : $%.2fB\n", data.FleetValueUSD()/1e9)
}

// FormatBottlenecks renders the constraint ranking as a table.
func FormatBottlenecks(rows []planner.BottleneckRow) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TOOL TYPE\tTOOLS\tSTEPS\tCAPACITY WPW\tUTIL@TARGET\tBOTTLENECK\tGAP WPW")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%d\t%.0f\t%.0f\t%.1f%%\t%v\t%.0f\n",
			r.ToolType, r.ToolCount, r.ProcessSteps, r.EffectiveCapacityWPW,
			r.UtilizationAtTarget*100, r.IsBottleneck, r.CapacityGapWPW)
	}
	w.Flush()
	return b.String()
}

// FormatRisk renders the simulation metrics.
func FormatRisk(m planner.RiskMetrics) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Baseline Capacity\t%.0f WPW\n", m.BaselineCapacityWPW)
	fmt.Fprintf(w, "Mean Demand\t%.0f WPW\n", m.MeanDemandWPW)
	fmt.Fprintf(w, "Mean Shortfall\t%.0f WPW\n", m.MeanShortfallWPW)
	fmt.Fprintf(w, "Median Shortfall\t%.0f WPW\n", m.MedianShortfallWPW)
	fmt.Fprintf(w, "P95 Shortfall\t%.0f WPW\n", m.P95ShortfallWPW)
	fmt.Fprintf(w, "P99 Shortfall\t%.0f WPW\n", m.P99ShortfallWPW)
	fmt.Fprintf(w, "P(Shortfall > 0)\t%.2f%%\n", m.ShortfallProbability*100)
	fmt.Fprintf(w, "Service Level\t%.2f%%\n", m.ServiceLevel*100)
	fmt.Fprintf(w, "Mean Utilization\t%.2f%%\n", m.MeanUtilization*100)
	fmt.Fprintf(w, "P95 Utilization\t%.2f%%\n", m.P95Utilization*100)
	fmt.Fprintf(w, "Capacity at Risk (P95)\t%.0f WPW\n", m.CapacityAtRiskP95)
	fmt.Fprintf(w, "Demand at Risk (P95)\t%.0f WPW\n", m.DemandAtRiskP95)
	fmt.Fprintf(w, "Trials\t%d\n", m.Trials)
	fmt.Fprintf(w, "Horizon\t%d quarters\n", m.HorizonQuarters)
	w.Flush()
	return b.String()
}

// FormatOptimization renders the portfolio decision.
func FormatOptimization(result planner.OptimizationResult, allocations []planner.ProjectAllocation) string {
	var b strings.Builder
	if result.Status != planner.StatusOptimal {
		fmt.Fprintf(&b, "Optimization %s: %s\n", result.Status, result.Message)
		return b.String()
	}
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PROJECT\tRISK\tINVESTMENT\tNPV\tFRACTION\tSELECTED")
	for _, a := range allocations {
		fmt.Fprintf(w, "%s\t%s\t$%.0fM\t$%.0fM\t%.2f\t%v\n",
			a.Project.ProjectName, a.Project.RiskLevel,
			a.Project.InvestmentUSD/1e6, a.Project.NPVUSD/1e6, a.Fraction, a.Selected)
	}
	w.Flush()
	fmt.Fprintf(&b, "\nTotal NPV: $%.2fB  Investment: $%.2fB  Budget Utilized: %.1f%%  Avg IRR: %.1f%%\n",
		result.TotalNPVUSD/1e9, result.TotalInvestmentUSD/1e9, result.BudgetUtilizedPct, result.AvgIRRPercent)
	if result.IsApproximate {
		fmt.Fprintln(&b, "Selection rounded from a continuous relaxation; totals may exceed budget by a bounded margin.")
	}
	return b.String()
}

// FormatScenarios renders the what-if projection table.
func FormatScenarios(rows []planner.ScenarioRow) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCENARIO\tGROWTH\tYIELD\tDEMAND WPW\tCAPACITY WPW\tGAP WPW\tSUFFICIENT\tADDL NEEDED")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%.0f%%\t%.0f%%\t%.0f\t%.0f\t%.0f\t%v\t%.1f%%\n",
			r.Scenario, r.DemandGrowthRate*100, r.AssumedYield*100,
			r.ProjectedDemandWPW, r.EffectiveCapacityWPW, r.CapacityGapWPW,
			r.CapacitySufficient, r.AdditionalCapacityNeededPct)
	}
	w.Flush()
	return b.String()
}

// FormatReliability renders the MTBF table, worst offenders first.
func FormatReliability(rows []planner.ReliabilityRow) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TOOL TYPE\tFAILURES\tDOWNTIME H\tMTBF ACTUAL\tMTBF SPEC\tMTBF PERF\tAVAIL IMPACT")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%d\t%.1f\t%.1f\t%.0f\t%.1f%%\t%.2f%%\n",
			r.ToolType, r.TotalFailures, r.TotalDowntimeHours,
			r.ActualMTBFHours, r.TheoreticalMTBFHours,
			r.MTBFPerformancePct, r.AvailabilityImpactPct)
	}
	w.Flush()
	return b.String()
}
