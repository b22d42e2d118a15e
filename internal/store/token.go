package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/Pr0gger1/bank-api/internal/domain"
)

// RefreshTokenStore defines the interface for refresh token persistence.
type RefreshTokenStore interface {
	// Create saves a new refresh token record.
	// Returns validation errors from the domain RefreshToken if data is invalid.
	Create(ctx context.Context, token *domain.RefreshToken) error

	// GetByToken retrieves a refresh token record by its opaque token value.
	// Returns ErrTokenNotFound if no such record exists.
	GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error)

	// Consume atomically deletes the record with the given token value.
	// Exactly one of any set of concurrent Consume calls for the same
	// token succeeds; the rest receive ErrTokenNotFound.
	Consume(ctx context.Context, token string) error

	// DeleteByID removes a refresh token record by its ID.
	// Returns ErrTokenNotFound if no such record exists.
	DeleteByID(ctx context.Context, id uuid.UUID) error

	// DeleteByUser removes all refresh token records belonging to a user.
	DeleteByUser(ctx context.Context, userID uuid.UUID) error

	// DeleteExpired removes all records whose expiration date is before
	// the given instant and returns the number of rows removed.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)

	// MarkRevoked flags the record as revoked and expired.
	// Returns ErrTokenNotFound if no such record exists.
	MarkRevoked(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new RefreshTokenStore instance that uses the
	// provided transaction.
	WithTx(tx *sql.Tx) RefreshTokenStore
}
