package main

import (
	"fmt"

	"github.com/jonathan/agrimrv-lite/internal/db"
	"github.com/jonathan/agrimrv-lite/internal/observability"
	"github.com/jonathan/agrimrv-lite/internal/proofs"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print farmer and proof status counts",
	Long:  "Prints the dashboard counts and the latest proofs, read from PostgreSQL when DATABASE_URL is set and from the built-in records otherwise.",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var source proofs.Source
	if cfg.UseDatabase() {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()
		source = database
	} else {
		fixtures, err := proofs.NewFixtureSource()
		if err != nil {
			return fmt.Errorf("failed to load fixtures: %w", err)
		}
		source = fixtures
	}

	dashboard, err := proofs.LoadDashboardView(ctx, source)
	if err != nil {
		return err
	}
	history, err := proofs.LoadProofsView(ctx, source)
	if err != nil {
		return err
	}

	p := observability.NewPrinter(cmd.OutOrStdout())
	p.PrintCounts("FARMERS", dashboard.FarmerCounts)
	p.PrintCounts("PROOFS", dashboard.ProofCounts)
	p.PrintProofs(history)
	return nil
}
