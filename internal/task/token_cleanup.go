// Package task contains scheduled background jobs.
package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Pr0gger1/bank-api/internal/store"
)

// TokenCleanup periodically deletes refresh-token rows whose expiration
// date has passed. Expired tokens are already rejected lazily on use;
// this job only bounds table growth.
type TokenCleanup struct {
	tokenStore store.RefreshTokenStore
	logger     *slog.Logger
	schedule   string
	cron       *cron.Cron
	timeFunc   func() time.Time
}

// NewTokenCleanup creates a TokenCleanup running on the given cron
// schedule (standard five-field spec or a descriptor like "@hourly").
func NewTokenCleanup(tokenStore store.RefreshTokenStore, logger *slog.Logger, schedule string) *TokenCleanup {
	if tokenStore == nil {
		panic("tokenStore cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &TokenCleanup{
		tokenStore: tokenStore,
		logger:     logger.With(slog.String("component", "token_cleanup")),
		schedule:   schedule,
		cron:       cron.New(),
		timeFunc:   time.Now,
	}
}

// Start registers the job and begins the scheduler. Returns an error if
// the schedule expression is invalid.
func (t *TokenCleanup) Start() error {
	if _, err := t.cron.AddFunc(t.schedule, func() {
		t.Run(context.Background())
	}); err != nil {
		return fmt.Errorf("invalid cleanup schedule %q: %w", t.schedule, err)
	}
	t.cron.Start()
	t.logger.Info("token cleanup scheduled", slog.String("schedule", t.schedule))
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (t *TokenCleanup) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
}

// Run executes a single cleanup pass. Exposed so the job can be invoked
// directly at startup or from tests.
func (t *TokenCleanup) Run(ctx context.Context) {
	deleted, err := t.tokenStore.DeleteExpired(ctx, t.timeFunc())
	if err != nil {
		t.logger.ErrorContext(ctx, "token cleanup failed", slog.String("error", err.Error()))
		return
	}
	if deleted > 0 {
		t.logger.InfoContext(ctx, "expired refresh tokens removed", slog.Int64("deleted", deleted))
	}
}
