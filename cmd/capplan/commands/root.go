// Package commands wires the capplan CLI: flag parsing, configuration
// loading, and one subcommand per analysis.
package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/fabworks/capacity-planner/internal/config"
	"github.com/fabworks/capacity-planner/internal/dataset"
	"github.com/fabworks/capacity-planner/internal/loader"
	"github.com/fabworks/capacity-planner/internal/logging"
	"github.com/fabworks/capacity-planner/internal/planner"
)

var (
	// Global flags
	configPath string
	dataDir    string
	verbosity  int
	devLogging bool
)

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return newRootCommand().ExecuteContext(ctx)
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "capplan",
		Short: "Capacity planning analytics for a semiconductor fab",
		Long: `capplan analyzes fab equipment, operations telemetry, and demand
forecasts to produce bottleneck diagnostics, Monte Carlo shortfall risk,
an optimal CapEx portfolio, what-if scenarios, and MTBF reliability
metrics.`,
		SilenceUsage: true,
	}

	// Accept underscores in flag names so they match the settings keys.
	rootCmd.PersistentFlags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "settings file (default ./capplan.yaml)")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "", "directory holding the CSV exports")
	rootCmd.PersistentFlags().IntVarP(&verbosity, "verbosity", "v", 0, "log verbosity")
	rootCmd.PersistentFlags().BoolVar(&devLogging, "dev-logging", false, "human-readable log output")

	rootCmd.AddCommand(newBottleneckCommand())
	rootCmd.AddCommand(newRiskCommand())
	rootCmd.AddCommand(newOptimizeCommand())
	rootCmd.AddCommand(newScenariosCommand())
	rootCmd.AddCommand(newReliabilityCommand())
	rootCmd.AddCommand(newReportCommand())

	return rootCmd
}

// runtimeEnv is the loaded environment shared by all subcommands.
type runtimeEnv struct {
	settings *viper.Viper
	cfg      config.PlanningConfig
	data     *dataset.Dataset
	log      logr.Logger
}

// loadEnv builds the logger, reads the settings and planning
// configuration, and loads the dataset.
//
// Settings come from a viper-managed file (capplan.yaml by default) with
// CAPPLAN_* environment overrides. The planning parameters themselves
// live in a separate YAML document referenced by the planningConfig key,
// parsed by the config package so the engine owns its own schema.
func loadEnv() (*runtimeEnv, error) {
	log, err := logging.New(logging.Options{Development: devLogging, Verbosity: verbosity})
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	v := viper.New()
	v.SetDefault("dataDir", "data/raw")
	v.SetEnvPrefix("CAPPLAN")
	v.AutomaticEnv()
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading settings %s: %w", configPath, err)
		}
	} else {
		v.SetConfigName("capplan")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading settings: %w", err)
			}
		}
	}

	cfg := config.Default()
	if path := v.GetString("planningConfig"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading planning config: %w", err)
		}
		if cfg, err = config.Load(raw); err != nil {
			return nil, err
		}
		log.V(1).Info("loaded planning config", "path", path)
	}

	dir := dataDir
	if dir == "" {
		dir = v.GetString("dataDir")
	}
	data, err := loader.LoadDataset(dir)
	if err != nil {
		return nil, fmt.Errorf("loading dataset from %s: %w", dir, err)
	}
	log.V(1).Info("dataset loaded",
		"equipment", len(data.Equipment),
		"operations", len(data.Operations),
		"forecast", len(data.Forecast),
		"projects", len(data.Projects))

	return &runtimeEnv{settings: v, cfg: cfg, data: data, log: log}, nil
}

func (e *runtimeEnv) model() (*planner.Model, error) {
	return planner.NewModel(e.data, e.cfg, e.log)
}

// settingFloat returns the flag value unless the flag was left at its
// default and the settings file provides one.
func (e *runtimeEnv) settingFloat(cmd *cobra.Command, flag, key string, current float64) float64 {
	if !cmd.Flags().Changed(flag) && e.settings.IsSet(key) {
		return e.settings.GetFloat64(key)
	}
	return current
}

// settingInt is the integer counterpart of settingFloat.
func (e *runtimeEnv) settingInt(cmd *cobra.Command, flag, key string, current int) int {
	if !cmd.Flags().Changed(flag) && e.settings.IsSet(key) {
		return e.settings.GetInt(key)
	}
	return current
}
