package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Pr0gger1/bank-api/internal/domain"
)

// CardStore defines the interface for card data persistence.
type CardStore interface {
	// Create saves a new card to the store.
	// Returns ErrCardNumberExists if the number is already taken and
	// validation errors from the domain Card if data is invalid.
	Create(ctx context.Context, card *domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// GetForUpdate retrieves a card by ID, locking the row for the
	// duration of the surrounding transaction. Outside a transaction it
	// behaves like GetByID.
	// Returns ErrCardNotFound if the card does not exist.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// UpdateBalance sets the card's balance.
	// Returns ErrCardNotFound if the card does not exist.
	UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error

	// UpdateStatus sets the card's status.
	// Returns ErrCardNotFound if the card does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CardStatus) error

	// Delete removes a card from the store by its ID. This operation is
	// permanent and cannot be undone.
	// Returns ErrCardNotFound if the card does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByNumber reports whether a card with the given number exists.
	ExistsByNumber(ctx context.Context, number string) (bool, error)

	// ListByOwner retrieves the cards owned by the given user, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, page, size int) (*Page[*domain.Card], error)

	// ListAll retrieves all cards, newest first.
	ListAll(ctx context.Context, page, size int) (*Page[*domain.Card], error)

	// SearchByLastFour retrieves cards whose number ends with the given
	// four digits.
	SearchByLastFour(ctx context.Context, lastFour string, page, size int) (*Page[*domain.Card], error)

	// SearchByOwnerFirstName retrieves cards whose owner's first name
	// contains the given substring.
	SearchByOwnerFirstName(ctx context.Context, firstName string, page, size int) (*Page[*domain.Card], error)

	// SearchByOwnerName retrieves cards whose owner's first name contains
	// firstName or whose last name contains lastName.
	SearchByOwnerName(ctx context.Context, firstName, lastName string, page, size int) (*Page[*domain.Card], error)

	// WithTx returns a new CardStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) CardStore
}
