package main

import (
	"fmt"
	"log/slog"

	"github.com/Pr0gger1/bank-api/internal/config"
)

// loadAppConfig loads the application configuration from environment
// variables or the optional config file.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Log basic configuration details after successful loading
	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	if cfg.Database.URL != "" {
		slog.Debug("Database configuration", "url_present", true)
	}
	if cfg.Auth.AccessTokenSecret != "" {
		slog.Debug("Auth configuration", "secrets_present", true)
	}

	return cfg, nil
}
