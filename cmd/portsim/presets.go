package main

import (
	"fmt"

	"github.com/portsim/portfolio-simulator/internal/calculation"
	"github.com/portsim/portfolio-simulator/internal/config"
	"github.com/portsim/portfolio-simulator/internal/output"
	"github.com/spf13/cobra"
)

func newPresetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the built-in scenarios and their assumptions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, s := range config.Presets() {
				marker := ""
				if s.IsDefault {
					marker = " (default)"
				}
				fmt.Fprintf(a.out, "%s%s\n", s.Name, marker)
				for _, line := range s.Assumptions() {
					fmt.Fprintf(a.out, "  %s\n", line)
				}
				wc, err := calculation.WithdrawalRate(&s, nil, nil)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "  Reference withdrawal rate: %s\n\n", output.FormatRate(wc.Rate))
			}
			return nil
		},
	}
}

func newExampleConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "example-config [file]",
		Short: "Write an example YAML configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "example_config.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			cfg := config.NewInputParser().CreateExampleConfiguration()
			if err := output.SaveConfiguration(cfg, path); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Example configuration written to %s\n", path)
			return nil
		},
	}
}
