// Package dbschema runs the service's Postgres migrations at startup,
// grounded on the pack's tuskbot example (internal/storage/sqlite/db.go),
// which drives goose off an embedded migration filesystem rather than a
// separately-shipped migrations directory. Adapted from sqlite to the
// postgres dialect for this service's actual database.
package dbschema

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate brings db's schema up to the latest embedded migration.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
