package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fabworks/capacity-planner/internal/report"
)

func newBottleneckCommand() *cobra.Command {
	var target float64

	cmd := &cobra.Command{
		Use:   "bottleneck",
		Short: "Rank tool types by constraint severity against a target output",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv()
			if err != nil {
				return err
			}
			target = env.settingFloat(cmd, "target", "defaults.targetWPW", target)

			model, err := env.model()
			if err != nil {
				return err
			}
			rows, err := model.Bottlenecks(target)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), report.FormatBottlenecks(rows))
			return nil
		},
	}

	cmd.Flags().Float64VarP(&target, "target", "t", 18000, "target weekly wafer output (WPW)")
	return cmd
}
