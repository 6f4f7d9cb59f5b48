package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fabworks/capacity-planner/internal/report"
)

func newScenariosCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "Project capacity gaps under the configured what-if scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv()
			if err != nil {
				return err
			}
			model, err := env.model()
			if err != nil {
				return err
			}
			rows, err := model.Scenarios()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), report.FormatScenarios(rows))
			return nil
		},
	}
}
