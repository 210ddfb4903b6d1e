package main

import (
	"fmt"

	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the resume, rendering, export and writing-assistant endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "Port to listen on (defaults to PORT or 8080)")
	serveCmd.Flags().String("db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL)")
	serveCmd.Flags().String("api-key", "", "Gemini API key (defaults to GEMINI_API_KEY)")
	serveCmd.Flags().String("model", "", "Gemini model for content generation (defaults to GEMINI_MODEL)")
	serveCmd.Flags().String("chrome-path", "", "Chrome/Chromium binary for PDF export (defaults to CHROME_PATH)")
	rootCmd.AddCommand(serveCmd)
}

// serverConfig maps the merged settings onto the server's configuration.
func serverConfig() (server.Config, error) {
	if settings.DatabaseURL == "" {
		return server.Config{}, fmt.Errorf("DATABASE_URL environment variable or --db-url is required")
	}
	return server.Config{
		Port:        settings.Port,
		DatabaseURL: settings.DatabaseURL,
		APIKey:      settings.APIKey,
		Model:       settings.Model,
		ChromePath:  settings.ChromePath,
		Archive: export.ArchiveConfig{
			Bucket:    settings.ExportBucket,
			Endpoint:  settings.ExportEndpoint,
			Region:    settings.ExportRegion,
			AccessKey: settings.ExportAccessKey,
			SecretKey: settings.ExportSecretKey,
		},
	}, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := serverConfig()
	if err != nil {
		return err
	}

	srv, err := server.New(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(cmd.Context())
}
