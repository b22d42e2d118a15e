package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Pr0gger1/bank-api/internal/domain"
)

// JWTService defines operations for managing JWT authentication tokens.
// Access and refresh tokens are signed with distinct keys; a token of one
// kind never validates as the other.
type JWTService interface {
	// GenerateAccessToken creates a signed JWT access token for the user.
	// Returns the token string or an error if token generation fails.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, error)

	// ValidateAccessToken validates the provided access token string and
	// extracts the claims. Returns an error if validation fails
	// (expired, invalid signature, wrong type, etc.).
	ValidateAccessToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateRefreshToken creates a signed JWT refresh token for the user.
	// Refresh tokens have a longer lifetime and are used to obtain new
	// access tokens.
	GenerateRefreshToken(ctx context.Context, user *domain.User) (string, error)

	// ValidateRefreshToken validates the provided refresh token string and
	// extracts the claims.
	ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error)

	// AccessTokenLifetime returns the configured access token TTL. The
	// blacklist keeps logged-out tokens for exactly this long.
	AccessTokenLifetime() time.Duration

	// RefreshTokenLifetime returns the configured refresh token TTL.
	RefreshTokenLifetime() time.Duration
}

// Claims represents the verified claims of a bank-api JWT.
// All fields are re-derived from the signed payload; unsigned input is
// never trusted.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	// Email is the user's email address at issue time.
	Email string `json:"email,omitempty"`

	// Role is the user's authorization role at issue time.
	Role domain.Role `json:"role,omitempty"`

	// TokenType indicates the purpose of the token ("access" or "refresh").
	// Used to prevent token misuse across different contexts.
	TokenType string `json:"type,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
