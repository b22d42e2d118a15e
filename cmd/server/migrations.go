package main

import (
	"database/sql"
	"fmt"
	"io"

	"github.com/pressly/goose/v3"

	"github.com/Pr0gger1/bank-api/migrations"
)

// runMigrations executes the requested goose command against the
// embedded migration files.
func runMigrations(db *sql.DB, command string, out io.Writer) error {
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	switch command {
	case "up":
		if err := goose.Up(db, "."); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
	case "down":
		if err := goose.Down(db, "."); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
	case "status":
		if err := goose.Status(db, "."); err != nil {
			return fmt.Errorf("failed to report migration status: %w", err)
		}
	case "version":
		version, err := goose.GetDBVersion(db)
		if err != nil {
			return fmt.Errorf("failed to read migration version: %w", err)
		}
		fmt.Fprintf(out, "migration version: %d\n", version)
	default:
		return fmt.Errorf("unknown migration command %q (expected up, down, status or version)", command)
	}

	return nil
}
