package main

import (
	"fmt"

	"github.com/portsim/portfolio-simulator/internal/calculation"
	"github.com/portsim/portfolio-simulator/internal/domain"
	"github.com/portsim/portfolio-simulator/internal/output"
	"github.com/spf13/cobra"
)

func newSimulateCmd(a *app) *cobra.Command {
	var (
		scenarioName string
		portfolioIDs []string
		years        int
		startYear    int
		format       string
		outputDir    string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Project portfolios year by year under one scenario",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfiguration(cmd)
			if err != nil {
				return err
			}
			scenario, err := cfg.FindScenario(scenarioName)
			if err != nil {
				return err
			}
			portfolios, err := selectPortfolios(cfg, portfolioIDs, a.env.Currency)
			if err != nil {
				return err
			}

			horizon := cfg.Simulation.HorizonYears
			if cmd.Flags().Changed("years") {
				horizon = years
			}
			engine := calculation.NewEngine()
			if cfg.Simulation.StartYear > 0 {
				engine.StartYear = cfg.Simulation.StartYear
			}
			if cmd.Flags().Changed("start-year") {
				engine.StartYear = startYear
			}
			engine.SetLogger(a.logger)
			engine.Debug = a.env.Debug

			a.logger.Infof("simulating %d portfolio(s) under %s for %d years", len(portfolios), scenario.Name, horizon)
			comparison, err := engine.Compare(cmd.Context(), portfolios, scenario, horizon)
			if err != nil {
				return err
			}
			if cfg.Simulation.SoftCap != nil {
				for i := range comparison.Withdrawals {
					wc, err := calculation.WithdrawalRate(scenario, &portfolios[i], cfg.Simulation.SoftCap)
					if err != nil {
						return err
					}
					comparison.Withdrawals[i] = *wc
				}
			}

			if !cmd.Flags().Changed("format") {
				format = a.env.Format
			}
			return a.emit(comparison, format, outputDir)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&scenarioName, "scenario", "s", "", "scenario name (default: the configured default)")
	flags.StringSliceVarP(&portfolioIDs, "portfolio", "p", nil, "portfolio id or name, repeatable (default: all)")
	flags.IntVarP(&years, "years", "y", calculation.DefaultHorizonYears, "projection horizon in years")
	flags.IntVar(&startYear, "start-year", 0, "first projected calendar year (default: current year)")
	flags.StringVarP(&format, "format", "f", "console", "output format: "+fmt.Sprint(output.AvailableFormatterNames()))
	flags.StringVarP(&outputDir, "output-dir", "o", "", "write the report to a timestamped file in this directory")
	return cmd
}

// selectPortfolios resolves ids or names in the order given; no keys selects every portfolio.
func selectPortfolios(cfg *domain.Configuration, keys []string, currency string) ([]domain.Portfolio, error) {
	var selected []domain.Portfolio
	if len(keys) == 0 {
		selected = append(selected, cfg.Portfolios...)
	}
	for _, key := range keys {
		p, err := cfg.FindPortfolio(key)
		if err != nil {
			return nil, err
		}
		selected = append(selected, *p)
	}
	for i := range selected {
		if selected[i].Currency == "" {
			selected[i].Currency = currency
		}
	}
	return selected, nil
}

// emit writes a report file when dir is set and prints to stdout otherwise.
func (a *app) emit(comparison *domain.Comparison, format, dir string) error {
	if dir != "" {
		paths, err := output.GenerateReport(comparison, format, dir)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintf(a.out, "Report written to %s\n", p)
		}
		return nil
	}

	f := output.GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("%w: %q (use --output-dir for multi-file formats)", output.ErrUnsupportedFormat, format)
	}
	data, err := f.Format(comparison)
	if err != nil {
		return err
	}
	if f.Name() == "markdown" {
		rendered, err := output.RenderTerminal(data)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(a.out, rendered)
		return err
	}
	_, err = a.out.Write(data)
	return err
}
