package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Pr0gger1/bank-api/internal/domain"
	"github.com/Pr0gger1/bank-api/internal/platform/logger"
	"github.com/Pr0gger1/bank-api/internal/store"
)

// PostgresRefreshTokenStore implements the store.RefreshTokenStore
// interface using a PostgreSQL database as the storage backend.
type PostgresRefreshTokenStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresRefreshTokenStore creates a new PostgreSQL implementation of
// the RefreshTokenStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresRefreshTokenStore(db store.DBTX, logger *slog.Logger) *PostgresRefreshTokenStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresRefreshTokenStore{
		db:     db,
		logger: logger.With(slog.String("component", "refresh_token_store")),
	}
}

// Ensure PostgresRefreshTokenStore implements store.RefreshTokenStore interface
var _ store.RefreshTokenStore = (*PostgresRefreshTokenStore)(nil)

// WithTx implements store.RefreshTokenStore.WithTx
func (s *PostgresRefreshTokenStore) WithTx(tx *sql.Tx) store.RefreshTokenStore {
	return &PostgresRefreshTokenStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.RefreshTokenStore.Create
func (s *PostgresRefreshTokenStore) Create(ctx context.Context, token *domain.RefreshToken) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := token.Validate(); err != nil {
		log.Warn("refresh token validation failed during create",
			slog.String("error", err.Error()),
			slog.String("token_id", token.ID.String()))
		return err
	}

	query := `
		INSERT INTO refresh_tokens (id, token, user_id, expiration_date, revoked, expired, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		token.ID,
		token.Token,
		token.UserID,
		token.ExpirationDate,
		token.Revoked,
		token.Expired,
		token.CreatedAt,
	)

	if err != nil {
		log.Error("failed to create refresh token",
			slog.String("error", err.Error()),
			slog.String("token_id", token.ID.String()))
		return MapError(err)
	}

	log.Debug("refresh token created",
		slog.String("token_id", token.ID.String()),
		slog.String("user_id", token.UserID.String()))
	return nil
}

// GetByToken implements store.RefreshTokenStore.GetByToken
func (s *PostgresRefreshTokenStore) GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, token, user_id, expiration_date, revoked, expired, created_at
		FROM refresh_tokens
		WHERE token = $1
	`

	var rt domain.RefreshToken
	err := s.db.QueryRowContext(ctx, query, token).Scan(
		&rt.ID,
		&rt.Token,
		&rt.UserID,
		&rt.ExpirationDate,
		&rt.Revoked,
		&rt.Expired,
		&rt.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTokenNotFound
		}
		log.Error("failed to get refresh token", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return &rt, nil
}

// Consume implements store.RefreshTokenStore.Consume
// The single DELETE makes consumption atomic: of two racing calls only
// one observes an affected row, the other gets ErrTokenNotFound.
func (s *PostgresRefreshTokenStore) Consume(ctx context.Context, token string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, "DELETE FROM refresh_tokens WHERE token = $1", token)
	if err != nil {
		log.Error("failed to consume refresh token", slog.String("error", err.Error()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrTokenNotFound)
}

// DeleteByID implements store.RefreshTokenStore.DeleteByID
func (s *PostgresRefreshTokenStore) DeleteByID(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, "DELETE FROM refresh_tokens WHERE id = $1", id)
	if err != nil {
		log.Error("failed to delete refresh token",
			slog.String("error", err.Error()),
			slog.String("token_id", id.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrTokenNotFound)
}

// DeleteByUser implements store.RefreshTokenStore.DeleteByUser
func (s *PostgresRefreshTokenStore) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx, "DELETE FROM refresh_tokens WHERE user_id = $1", userID)
	if err != nil {
		log.Error("failed to delete refresh tokens for user",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return MapError(err)
	}

	return nil
}

// DeleteExpired implements store.RefreshTokenStore.DeleteExpired
func (s *PostgresRefreshTokenStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		"DELETE FROM refresh_tokens WHERE expiration_date < $1",
		before,
	)
	if err != nil {
		log.Error("failed to delete expired refresh tokens",
			slog.String("error", err.Error()))
		return 0, MapError(err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, MapError(err)
	}

	return removed, nil
}

// MarkRevoked implements store.RefreshTokenStore.MarkRevoked
func (s *PostgresRefreshTokenStore) MarkRevoked(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE refresh_tokens
		SET revoked = TRUE, expired = TRUE
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to mark refresh token revoked",
			slog.String("error", err.Error()),
			slog.String("token_id", id.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrTokenNotFound)
}
