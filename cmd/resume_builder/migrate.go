package main

import (
	"fmt"

	"github.com/jonathan/resume-builder/internal/db"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded database schema",
	Long:  "Applies the embedded migrations in order. Statements are idempotent, so re-running is safe.",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().String("db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL)")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	if settings.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable or --db-url is required")
	}

	database, err := db.Connect(cmd.Context(), settings.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.Migrate(cmd.Context()); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info().Msg("database schema is up to date")
	return nil
}
