package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fabworks/capacity-planner/internal/report"
)

func newRiskCommand() *cobra.Command {
	var (
		trials  int
		horizon int
		seed    uint64
	)

	cmd := &cobra.Command{
		Use:   "risk",
		Short: "Estimate demand/capacity shortfall risk via Monte Carlo simulation",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv()
			if err != nil {
				return err
			}
			trials = env.settingInt(cmd, "trials", "defaults.trials", trials)
			horizon = env.settingInt(cmd, "horizon", "defaults.horizonQuarters", horizon)

			model, err := env.model()
			if err != nil {
				return err
			}
			metrics, _, err := model.SimulateRisk(trials, horizon, seed)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), report.FormatRisk(metrics))
			return nil
		},
	}

	cmd.Flags().IntVarP(&trials, "trials", "n", 0, "simulation trial count (0 = configured default)")
	cmd.Flags().IntVar(&horizon, "horizon", 4, "forecast horizon in quarters")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "pseudo-random seed for reproducible runs")
	return cmd
}
