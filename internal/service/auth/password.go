package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes plaintext passwords for storage.
type PasswordHasher interface {
	// HashPassword generates a hash from a plaintext password.
	HashPassword(ctx context.Context, password string) (string, error)
}

// PasswordVerifier checks a plaintext password against a stored hash.
type PasswordVerifier interface {
	// ComparePassword returns nil when the password matches the hash and
	// an error otherwise.
	ComparePassword(ctx context.Context, hashedPassword, password string) error
}

// BcryptHasher implements PasswordHasher and PasswordVerifier using the
// bcrypt algorithm.
type BcryptHasher struct {
	cost int
}

var _ PasswordHasher = (*BcryptHasher)(nil)
var _ PasswordVerifier = (*BcryptHasher)(nil)

// NewBcryptHasher creates a BcryptHasher with the given cost. A cost
// outside the bcrypt range falls back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// HashPassword implements PasswordHasher.HashPassword
func (h *BcryptHasher) HashPassword(ctx context.Context, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// ComparePassword implements PasswordVerifier.ComparePassword
func (h *BcryptHasher) ComparePassword(ctx context.Context, hashedPassword, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
