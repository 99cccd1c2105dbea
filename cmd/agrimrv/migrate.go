package main

import (
	"errors"
	"fmt"

	"github.com/jonathan/agrimrv-lite/internal/db"
	"github.com/jonathan/agrimrv-lite/internal/proofs"
	"github.com/spf13/cobra"
)

var migrateSeed bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long:  "Creates the PostgreSQL tables and, unless --seed=false, loads the built-in farmer and proof records. Requires DATABASE_URL.",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateSeed, "seed", true, "Insert the built-in sample records")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if !cfg.UseDatabase() {
		return errors.New("DATABASE_URL environment variable is required")
	}

	ctx := cmd.Context()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Schema applied")

	if !migrateSeed {
		return nil
	}

	fixtures, err := proofs.NewFixtureSource()
	if err != nil {
		return fmt.Errorf("failed to load fixtures: %w", err)
	}
	n, err := database.Seed(ctx, fixtures)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d new records\n", n)
	return nil
}
