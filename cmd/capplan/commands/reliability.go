package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fabworks/capacity-planner/internal/planner"
	"github.com/fabworks/capacity-planner/internal/report"
)

func newReliabilityCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reliability",
		Short: "Compute MTBF and availability-impact metrics per tool type",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv()
			if err != nil {
				return err
			}
			model, err := planner.NewReliabilityModel(env.data, env.log)
			if err != nil {
				return err
			}
			rows, err := model.MTBFAnalysis()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), report.FormatReliability(rows))
			return nil
		},
	}
}
