package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migration is a named schema change applied in filename order.
type Migration struct {
	Name string
	SQL  string
}

// Migrations returns the embedded migrations sorted by name.
func Migrations() ([]Migration, error) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}

	migrations := make([]Migration, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		data, err := migrationFiles.ReadFile("migrations/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", e.Name(), err)
		}
		migrations = append(migrations, Migration{
			Name: strings.TrimSuffix(e.Name(), ".sql"),
			SQL:  string(data),
		})
	}
	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Name < migrations[j].Name })
	return migrations, nil
}

// Migrate applies every embedded migration. Statements are idempotent, so running it
// against an up-to-date database is a no-op.
func (db *DB) Migrate(ctx context.Context) error {
	migrations, err := Migrations()
	if err != nil {
		return err
	}

	log.Info().Int("count", len(migrations)).Msg("Starting database migrations")
	for _, m := range migrations {
		if _, err := db.pool.Exec(ctx, m.SQL); err != nil {
			log.Error().Err(err).Str("name", m.Name).Msg("Migration failed")
			return fmt.Errorf("failed to apply migration %s: %w", m.Name, err)
		}
		log.Info().Str("name", m.Name).Msg("Migration completed")
	}
	return nil
}
