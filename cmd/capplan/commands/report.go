package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fabworks/capacity-planner/internal/planner"
	"github.com/fabworks/capacity-planner/internal/report"
)

func newReportCommand() *cobra.Command {
	var (
		target  float64
		trials  int
		horizon int
		seed    uint64
		budget  float64
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run every analysis and print the executive summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv()
			if err != nil {
				return err
			}
			target = env.settingFloat(cmd, "target", "defaults.targetWPW", target)
			trials = env.settingInt(cmd, "trials", "defaults.trials", trials)
			horizon = env.settingInt(cmd, "horizon", "defaults.horizonQuarters", horizon)
			budget = env.settingFloat(cmd, "budget", "defaults.budgetUSD", budget)

			model, err := env.model()
			if err != nil {
				return err
			}

			var results report.Results
			if results.Bottlenecks, err = model.Bottlenecks(target); err != nil {
				return err
			}
			metrics, _, err := model.SimulateRisk(trials, horizon, seed)
			if err != nil {
				return err
			}
			results.Risk = &metrics

			optResult, allocations, err := model.OptimizePortfolio(env.data.Projects, budget)
			if err != nil {
				return err
			}
			results.Optimization = &optResult
			results.Allocations = allocations

			if results.Scenarios, err = model.Scenarios(); err != nil {
				return err
			}

			reliability, err := planner.NewReliabilityModel(env.data, env.log)
			if err != nil {
				return err
			}
			if results.Reliability, err = reliability.MTBFAnalysis(); err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), report.ExecutiveSummary(env.data, results, time.Now()))
			return nil
		},
	}

	cmd.Flags().Float64VarP(&target, "target", "t", 18000, "target weekly wafer output (WPW)")
	cmd.Flags().IntVarP(&trials, "trials", "n", 0, "simulation trial count (0 = configured default)")
	cmd.Flags().IntVar(&horizon, "horizon", 4, "forecast horizon in quarters")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "pseudo-random seed for reproducible runs")
	cmd.Flags().Float64VarP(&budget, "budget", "b", 1.5e9, "total budget constraint in USD")
	return cmd
}
