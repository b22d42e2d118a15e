// Package main implements the entry point for the bank-api server,
// which manages stored-value bank cards, funds transfers between them,
// and the session credential lifecycle.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run migrations: up, down, status or version")
	flag.Parse()

	if err := run(context.Background(), *migrateCmd); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

// run loads configuration, wires the application and either executes a
// migration command or starts the HTTP server.
func run(ctx context.Context, migrateCmd string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	db, err := setupAppDatabase(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if migrateCmd != "" {
		defer func() {
			if err := db.Close(); err != nil {
				logger.Error("Error closing database connection", "error", err)
			}
		}()
		return runMigrations(db, migrateCmd, os.Stdout)
	}

	app, err := newApplication(cfg, logger, db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
