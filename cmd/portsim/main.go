// Command portsim projects investment portfolios under economic scenarios and derives
// sustainable withdrawal rates.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/portsim/portfolio-simulator/internal/calculation"
	"github.com/portsim/portfolio-simulator/internal/config"
	"github.com/portsim/portfolio-simulator/internal/domain"
	"github.com/portsim/portfolio-simulator/internal/storage"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries the resolved settings shared by every subcommand.
type app struct {
	env    config.Env
	out    io.Writer
	errOut io.Writer
	logger calculation.Logger
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut, logger: calculation.NopLogger{}}

	root := &cobra.Command{
		Use:          "portsim",
		Short:        "Portfolio projection and withdrawal-rate calculator",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.resolve(cmd)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.String("config", "", "YAML configuration file (env PORTSIM_CONFIG)")
	flags.String("db", "", "SQLite database path (env PORTSIM_DB_PATH)")
	flags.Bool("debug", false, "log each projected year to stderr (env PORTSIM_DEBUG)")

	root.AddCommand(
		newSimulateCmd(a),
		newWithdrawalCmd(a),
		newPresetsCmd(a),
		newExampleConfigCmd(a),
		newDataCmd(a),
	)
	return root
}

// resolve reads the environment and lets explicitly set flags override it.
func (a *app) resolve(cmd *cobra.Command) error {
	e, err := config.LoadEnv()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("config") {
		e.Config, _ = flags.GetString("config")
	}
	if flags.Changed("db") {
		e.DBPath, _ = flags.GetString("db")
	}
	if flags.Changed("debug") {
		e.Debug, _ = flags.GetBool("debug")
	}
	a.env = e
	if e.Debug {
		a.logger = calculation.NewWriterLogger(a.errOut, true)
	}
	return nil
}

// loadConfiguration returns the configuration file when one is set, otherwise whatever the
// database holds, otherwise the built-in presets and example portfolios.
func (a *app) loadConfiguration(cmd *cobra.Command) (*domain.Configuration, error) {
	parser := config.NewInputParser()
	if a.env.Config != "" {
		a.logger.Debugf("loading configuration from %s", a.env.Config)
		return parser.LoadFromFile(a.env.Config)
	}

	if _, err := os.Stat(a.env.DBPath); err == nil {
		store, err := storage.OpenSQLite(a.env.DBPath)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		snap, err := store.Load(cmd.Context())
		if err != nil {
			return nil, err
		}
		if len(snap.Portfolios) > 0 && len(snap.Scenarios) > 0 {
			a.logger.Debugf("loaded %d portfolios and %d scenarios from %s", len(snap.Portfolios), len(snap.Scenarios), a.env.DBPath)
			cfg := &domain.Configuration{
				Portfolios:      snap.Portfolios,
				Scenarios:       snap.Scenarios,
				DefaultScenario: snap.DefaultScenario,
				Simulation:      domain.SimulationSettings{HorizonYears: a.env.Horizon},
			}
			if err := parser.ValidateConfiguration(cfg); err != nil {
				return nil, fmt.Errorf("stored data: %w", err)
			}
			return cfg, nil
		}
	}

	a.logger.Debugf("no configuration given, using presets")
	cfg := parser.CreateExampleConfiguration()
	cfg.Simulation.HorizonYears = a.env.Horizon
	return cfg, nil
}

func (a *app) openStore() (*storage.SQLiteStore, error) {
	a.logger.Debugf("opening %s", a.env.DBPath)
	return storage.OpenSQLite(a.env.DBPath)
}
