package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/portsim/portfolio-simulator/internal/config"
	"github.com/portsim/portfolio-simulator/internal/storage"
	"github.com/spf13/cobra"
)

func newDataCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Manage portfolios and scenarios stored in the database",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "save",
			Short: "Store the portfolios and scenarios of the configuration",
			RunE: func(cmd *cobra.Command, _ []string) error {
				parser := config.NewInputParser()
				cfg := parser.CreateExampleConfiguration()
				if a.env.Config != "" {
					loaded, err := parser.LoadFromFile(a.env.Config)
					if err != nil {
						return err
					}
					cfg = loaded
				}
				store, err := a.openStore()
				if err != nil {
					return err
				}
				defer store.Close()
				snap := &storage.Snapshot{Portfolios: cfg.Portfolios, Scenarios: cfg.Scenarios, DefaultScenario: cfg.DefaultScenario}
				if err := store.Save(cmd.Context(), snap); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Saved %d portfolios and %d scenarios to %s\n", len(snap.Portfolios), len(snap.Scenarios), a.env.DBPath)
				return nil
			},
		},
		&cobra.Command{
			Use:   "load",
			Short: "Print the stored data as JSON",
			RunE: func(cmd *cobra.Command, _ []string) error {
				store, err := a.openStore()
				if err != nil {
					return err
				}
				defer store.Close()
				snap, err := store.Load(cmd.Context())
				if err != nil {
					return err
				}
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			},
		},
		&cobra.Command{
			Use:   "import <file.json>",
			Short: "Import a JSON export, accepting camelCase or snake_case keys",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				raw, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}
				store, err := a.openStore()
				if err != nil {
					return err
				}
				defer store.Close()
				snap, err := storage.ImportJSON(cmd.Context(), store, raw)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Imported %d portfolios and %d scenarios\n", len(snap.Portfolios), len(snap.Scenarios))
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Delete every stored portfolio and scenario",
			RunE: func(cmd *cobra.Command, _ []string) error {
				store, err := a.openStore()
				if err != nil {
					return err
				}
				defer store.Close()
				if err := store.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(a.out, "Stored data cleared")
				return nil
			},
		},
	)
	return cmd
}
