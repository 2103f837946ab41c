package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/portsim/portfolio-simulator/internal/calculation"
	"github.com/portsim/portfolio-simulator/internal/domain"
	"github.com/portsim/portfolio-simulator/internal/output"
	"github.com/spf13/cobra"
)

func newWithdrawalCmd(a *app) *cobra.Command {
	var (
		scenarioName string
		portfolioID  string
		softCap      float64
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "withdrawal",
		Short: "Sustainable withdrawal rate per scenario",
		Long: "Derives the annual withdrawal rate implied by each scenario's expected returns over the\n" +
			"growth and cashflow buckets of a portfolio, or of the reference allocation when none is given.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfiguration(cmd)
			if err != nil {
				return err
			}

			scenarios := cfg.Scenarios
			if scenarioName != "" {
				s, err := cfg.FindScenario(scenarioName)
				if err != nil {
					return err
				}
				scenarios = []domain.Scenario{*s}
			}

			var portfolio *domain.Portfolio
			if portfolioID != "" {
				if portfolio, err = cfg.FindPortfolio(portfolioID); err != nil {
					return err
				}
			}

			limit := cfg.Simulation.SoftCap
			if cmd.Flags().Changed("soft-cap") {
				capValue, err := domain.RateFromFloat("soft_cap", softCap)
				if err != nil {
					return err
				}
				limit = &capValue
			}

			rates, err := calculation.WithdrawalRates(scenarios, portfolio, limit)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(rates)
			}
			return writeRates(a, rates)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&scenarioName, "scenario", "s", "", "only this scenario (default: all)")
	flags.StringVarP(&portfolioID, "portfolio", "p", "", "portfolio id or name (default: reference allocation)")
	flags.Float64Var(&softCap, "soft-cap", 0, "upper bound for the rate, as a fraction (0.05 = 5%)")
	flags.BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func writeRates(a *app, rates []domain.WithdrawalCalculation) error {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "SCENARIO\tRATE\tRAW\tRETURN\tTRIM\tNOTE\t")
	for _, r := range rates {
		note := ""
		switch {
		case r.FloorApplied:
			note = "floored"
		case r.SoftCapApplied:
			note = "capped"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n", r.Scenario,
			output.FormatRate(r.Rate), output.FormatRate(r.RawRate),
			output.FormatRate(r.WeightedReturn), output.FormatRate(r.WeightedTrimRate), note)
	}
	return tw.Flush()
}
