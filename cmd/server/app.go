package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Pr0gger1/bank-api/internal/config"
	"github.com/Pr0gger1/bank-api/internal/platform/postgres"
	"github.com/Pr0gger1/bank-api/internal/service"
	"github.com/Pr0gger1/bank-api/internal/service/auth"
	"github.com/Pr0gger1/bank-api/internal/store"
	"github.com/Pr0gger1/bank-api/internal/task"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core resources
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore  store.UserStore
	cardStore  store.CardStore
	tokenStore store.RefreshTokenStore

	// Services
	jwtService      auth.JWTService
	blacklist       *auth.TokenBlacklist
	authService     *auth.AuthService
	cardService     *service.CardService
	transferService *service.TransferService
	userService     *service.UserService

	// Background jobs
	tokenCleanup *task.TokenCleanup
}

// newApplication creates a new application instance with all
// dependencies initialized. It accepts core dependencies like
// configuration, logger, and database connection that must be
// established before application initialization.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"access_token_lifetime_minutes", cfg.Auth.AccessTokenLifetimeMinutes,
		"refresh_token_lifetime_minutes", cfg.Auth.RefreshTokenLifetimeMinutes)

	// Initialize stores
	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.cardStore = postgres.NewPostgresCardStore(db, logger)
	app.tokenStore = postgres.NewPostgresRefreshTokenStore(db, logger)

	// The blacklist only needs to hold a token until the token itself
	// expires.
	accessLifetime := time.Duration(cfg.Auth.AccessTokenLifetimeMinutes) * time.Minute
	app.blacklist = auth.NewTokenBlacklist(accessLifetime)

	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	app.authService = auth.NewAuthService(
		app.userStore,
		app.tokenStore,
		app.jwtService,
		hasher,
		hasher,
		app.blacklist,
	)

	app.cardService = service.NewCardService(
		app.cardStore,
		app.userStore,
		logger,
		cfg.Card.DefaultValidityYears,
	)
	app.transferService = service.NewTransferService(app.cardStore, db, logger)
	app.userService = service.NewUserService(app.userStore, logger)

	app.tokenCleanup = task.NewTokenCleanup(app.tokenStore, logger, cfg.Auth.TokenCleanupSchedule)
	if err := app.tokenCleanup.Start(); err != nil {
		return nil, fmt.Errorf("failed to start token cleanup job: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.tokenCleanup != nil {
		app.tokenCleanup.Stop()
	}

	if app.blacklist != nil {
		app.blacklist.Close()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
