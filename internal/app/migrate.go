package app

import (
	"database/sql"
	"fmt"

	goose "github.com/pressly/goose/v3"

	migrations "github.com/guttosm/etmarket/db"
	"github.com/guttosm/etmarket/internal/logger"
)

// migrateUp is an indirection for unit testing.
var migrateUp = func(db *sql.DB) error {
	return goose.Up(db, migrations.MigrationsDir)
}

// Migrate applies every pending schema migration embedded in the binary.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := migrateUp(db); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	logger.L().Info().Msg("migrations applied")
	return nil
}
