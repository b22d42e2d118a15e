package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Refresh-token validation errors
var (
	ErrTokenIDEmpty      = errors.New("refresh token ID cannot be empty")
	ErrTokenValueEmpty   = errors.New("refresh token value cannot be empty")
	ErrTokenUserEmpty    = errors.New("refresh token user ID cannot be empty")
	ErrTokenNoExpiration = errors.New("refresh token expiration date cannot be zero")
)

// RefreshToken is a persisted, revocable session credential. One row is
// created per login or rotation and deleted when the token is consumed,
// revoked or detected to be past its expiration date.
type RefreshToken struct {
	ID             uuid.UUID `json:"id"`
	Token          string    `json:"-"`
	UserID         uuid.UUID `json:"user_id"`
	ExpirationDate time.Time `json:"expiration_date"`
	Revoked        bool      `json:"revoked"`
	Expired        bool      `json:"expired"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewRefreshToken creates a persisted refresh token record for the given
// user. Returns an error if validation fails.
func NewRefreshToken(userID uuid.UUID, token string, expirationDate time.Time) (*RefreshToken, error) {
	rt := &RefreshToken{
		ID:             uuid.New(),
		Token:          token,
		UserID:         userID,
		ExpirationDate: expirationDate,
		CreatedAt:      time.Now().UTC(),
	}

	if err := rt.Validate(); err != nil {
		return nil, err
	}

	return rt, nil
}

// Validate checks if the RefreshToken has valid data.
func (t *RefreshToken) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTokenIDEmpty
	}

	if t.Token == "" {
		return ErrTokenValueEmpty
	}

	if t.UserID == uuid.Nil {
		return ErrTokenUserEmpty
	}

	if t.ExpirationDate.IsZero() {
		return ErrTokenNoExpiration
	}

	return nil
}

// IsExpired reports whether the token's expiration date has passed at
// the given instant.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return t.ExpirationDate.Before(now)
}
