package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/Pr0gger1/bank-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store. The user must already carry
	// a hashed password.
	// Returns ErrEmailExists if the email is already taken and validation
	// errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// ExistsByEmail reports whether a user with the given email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Update modifies an existing user's details. The caller must provide
	// a complete user object including HashedPassword.
	// Returns ErrUserNotFound if the user does not exist and
	// ErrEmailExists when updating to an email that is already taken.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user from the store by their ID.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// List retrieves all users, newest first.
	List(ctx context.Context, page, size int) (*Page[*domain.User], error)

	// SearchByFirstName retrieves users whose first name contains the
	// given substring.
	SearchByFirstName(ctx context.Context, firstName string, page, size int) (*Page[*domain.User], error)

	// SearchByName retrieves users whose first name contains firstName or
	// whose last name contains lastName.
	SearchByName(ctx context.Context, firstName, lastName string, page, size int) (*Page[*domain.User], error)

	// WithTx returns a new UserStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) UserStore
}
