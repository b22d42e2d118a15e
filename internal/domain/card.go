package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardOwnerEmpty is returned when a card's owner ID is empty or nil.
	ErrCardOwnerEmpty = errors.New("card owner ID cannot be empty")

	// ErrCardNumberInvalid is returned when a card number is not 16 digits
	// or starts with a zero.
	ErrCardNumberInvalid = errors.New("card number must be 16 digits and must not start with zero")

	// ErrCardBalanceNegative is returned when a card balance is below zero.
	ErrCardBalanceNegative = errors.New("card balance must be positive or zero")

	// ErrCardStatusInvalid is returned when a card status is not a known value.
	ErrCardStatusInvalid = errors.New("invalid card status")
)

// CardStatus represents the lifecycle status of a bank card.
type CardStatus string

const (
	// CardStatusActive marks a card that can participate in transfers.
	CardStatusActive CardStatus = "ACTIVE"

	// CardStatusBlocked marks a card that is excluded from transfers
	// until it is activated again.
	CardStatusBlocked CardStatus = "BLOCKED"
)

// IsValid reports whether the status is one of the known values.
func (s CardStatus) IsValid() bool {
	return s == CardStatusActive || s == CardStatusBlocked
}

// CardNumberLength is the exact number of digits in a card number.
const CardNumberLength = 16

// Card represents a stored-value bank card. The raw number is never
// serialized; external views receive the masked form via MaskNumber.
type Card struct {
	ID         uuid.UUID       `json:"id"`
	Number     string          `json:"-"`
	Balance    decimal.Decimal `json:"balance"`
	OwnerID    uuid.UUID       `json:"owner_id"`
	Status     CardStatus      `json:"status"`
	ExpiryDate time.Time       `json:"expiry_date"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// NewCard creates a new Card for the given owner with a zero balance,
// ACTIVE status and an expiry date validityYears from now.
// Returns an error if validation fails.
func NewCard(ownerID uuid.UUID, number string, validityYears int) (*Card, error) {
	now := time.Now().UTC()

	card := &Card{
		ID:         uuid.New(),
		Number:     number,
		Balance:    decimal.Zero,
		OwnerID:    ownerID,
		Status:     CardStatusActive,
		ExpiryDate: now.AddDate(validityYears, 0, 0),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.OwnerID == uuid.Nil {
		return ErrCardOwnerEmpty
	}

	if !validCardNumber(c.Number) {
		return ErrCardNumberInvalid
	}

	if c.Balance.IsNegative() {
		return ErrCardBalanceNegative
	}

	if !c.Status.IsValid() {
		return ErrCardStatusInvalid
	}

	return nil
}

// MaskNumber renders the card number for external consumption with only
// the last four digits visible, e.g. "**** **** 1234".
func MaskNumber(number string) string {
	if len(number) < 4 {
		return strings.Repeat("*", len(number))
	}

	var b strings.Builder
	for i := 0; i < 2; i++ {
		b.WriteString("****")
		b.WriteString(" ")
	}
	b.WriteString(number[len(number)-4:])

	return b.String()
}

// LastFour returns the last four digits of a card number.
func LastFour(number string) string {
	if len(number) < 4 {
		return number
	}
	return number[len(number)-4:]
}

func validCardNumber(number string) bool {
	if len(number) != CardNumberLength {
		return false
	}

	if number[0] < '1' || number[0] > '9' {
		return false
	}

	for _, r := range number {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
