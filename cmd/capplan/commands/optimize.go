package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fabworks/capacity-planner/internal/report"
)

func newOptimizeCommand() *cobra.Command {
	var budget float64

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Allocate the CapEx budget across projects to maximize NPV",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv()
			if err != nil {
				return err
			}
			budget = env.settingFloat(cmd, "budget", "defaults.budgetUSD", budget)

			model, err := env.model()
			if err != nil {
				return err
			}
			result, allocations, err := model.OptimizePortfolio(env.data.Projects, budget)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), report.FormatOptimization(result, allocations))
			return nil
		},
	}

	cmd.Flags().Float64VarP(&budget, "budget", "b", 1.5e9, "total budget constraint in USD")
	return cmd
}
