package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/google/uuid"

	"github.com/Pr0gger1/bank-api/internal/domain"
	"github.com/Pr0gger1/bank-api/internal/store"
)

// maxNumberAttempts bounds the retry loop for card number generation.
// Collisions on a 16-digit space are vanishingly rare, so hitting the
// bound indicates a store problem rather than bad luck.
const maxNumberAttempts = 10

// CardService implements the card lifecycle: creation with unique number
// generation, status transitions, deletion, and search.
type CardService struct {
	cardStore     store.CardStore
	userStore     store.UserStore
	logger        *slog.Logger
	validityYears int
	numberFunc    func() (string, error) // Injectable for testing
}

// NewCardService creates a CardService. validityYears is the default card
// validity applied when the caller does not supply one.
func NewCardService(
	cardStore store.CardStore,
	userStore store.UserStore,
	logger *slog.Logger,
	validityYears int,
) *CardService {
	if cardStore == nil {
		panic("cardStore cannot be nil")
	}
	if userStore == nil {
		panic("userStore cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if validityYears <= 0 {
		validityYears = 1
	}
	return &CardService{
		cardStore:     cardStore,
		userStore:     userStore,
		logger:        logger.With(slog.String("component", "card_service")),
		validityYears: validityYears,
		numberFunc:    generateCardNumber,
	}
}

// CreateCard creates a new card for the given owner with a zero balance
// and a freshly generated unique number. validityYears <= 0 selects the
// configured default.
func (s *CardService) CreateCard(ctx context.Context, ownerID uuid.UUID, validityYears int) (*domain.Card, error) {
	if _, err := s.userStore.GetByID(ctx, ownerID); err != nil {
		return nil, fmt.Errorf("failed to look up card owner: %w", err)
	}

	if validityYears <= 0 {
		validityYears = s.validityYears
	}

	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		number, err := s.numberFunc()
		if err != nil {
			return nil, fmt.Errorf("failed to generate card number: %w", err)
		}

		exists, err := s.cardStore.ExistsByNumber(ctx, number)
		if err != nil {
			return nil, fmt.Errorf("failed to check card number uniqueness: %w", err)
		}
		if exists {
			continue
		}

		card, err := domain.NewCard(ownerID, number, validityYears)
		if err != nil {
			return nil, err
		}

		err = s.cardStore.Create(ctx, card)
		if err == nil {
			s.logger.InfoContext(ctx, "card created",
				slog.String("card_id", card.ID.String()),
				slog.String("owner_id", ownerID.String()))
			return card, nil
		}
		if store.IsDuplicateError(err) {
			// Lost a race on the unique index, try a new number.
			continue
		}
		return nil, fmt.Errorf("failed to create card: %w", err)
	}

	return nil, ErrCardNumberExhausted
}

// BlockCard transitions a card to BLOCKED. Blocking an already blocked
// card is a no-op.
func (s *CardService) BlockCard(ctx context.Context, id uuid.UUID) error {
	return s.setStatus(ctx, id, domain.CardStatusBlocked)
}

// ActivateCard transitions a card to ACTIVE. Activating an already
// active card is a no-op.
func (s *CardService) ActivateCard(ctx context.Context, id uuid.UUID) error {
	return s.setStatus(ctx, id, domain.CardStatusActive)
}

func (s *CardService) setStatus(ctx context.Context, id uuid.UUID, status domain.CardStatus) error {
	card, err := s.cardStore.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if card.Status == status {
		return nil
	}
	if err := s.cardStore.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("failed to update card status: %w", err)
	}
	s.logger.InfoContext(ctx, "card status changed",
		slog.String("card_id", id.String()),
		slog.String("status", string(status)))
	return nil
}

// DeleteCard permanently removes a card.
func (s *CardService) DeleteCard(ctx context.Context, id uuid.UUID) error {
	if err := s.cardStore.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "card deleted", slog.String("card_id", id.String()))
	return nil
}

// GetCard retrieves a card. Non-admin callers may only access their own
// cards; ErrNotOwned is returned otherwise.
func (s *CardService) GetCard(ctx context.Context, caller *domain.User, id uuid.UUID) (*domain.Card, error) {
	card, err := s.cardStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && card.OwnerID != caller.ID {
		return nil, ErrNotOwned
	}
	return card, nil
}

// GetBalance retrieves a card for its balance view, with the same
// ownership rule as GetCard.
func (s *CardService) GetBalance(ctx context.Context, caller *domain.User, id uuid.UUID) (*domain.Card, error) {
	return s.GetCard(ctx, caller, id)
}

// SearchCards classifies the query string and dispatches to the matching
// search predicate:
//   - exactly four digits: match the last four digits of the card number
//   - two space-separated tokens: match owner first name OR last name
//   - one token: match owner first name substring
//   - empty: the caller's own cards for regular users, all cards for admins
//
// Non-empty searches are not re-scoped by ownership.
func (s *CardService) SearchCards(
	ctx context.Context,
	caller *domain.User,
	query string,
	page, size int,
) (*store.Page[*domain.Card], error) {
	query = strings.TrimSpace(query)

	if query == "" {
		if caller.IsAdmin() {
			return s.cardStore.ListAll(ctx, page, size)
		}
		return s.cardStore.ListByOwner(ctx, caller.ID, page, size)
	}

	if isLastFourQuery(query) {
		return s.cardStore.SearchByLastFour(ctx, query, page, size)
	}

	tokens := strings.Fields(query)
	if len(tokens) == 2 {
		return s.cardStore.SearchByOwnerName(ctx, tokens[0], tokens[1], page, size)
	}

	return s.cardStore.SearchByOwnerFirstName(ctx, query, page, size)
}

func isLastFourQuery(query string) bool {
	if len(query) != 4 {
		return false
	}
	for _, r := range query {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// generateCardNumber produces a random 16-digit card number whose first
// digit is never zero.
func generateCardNumber() (string, error) {
	var b strings.Builder
	b.Grow(domain.CardNumberLength)

	first, err := rand.Int(rand.Reader, big.NewInt(9))
	if err != nil {
		return "", err
	}
	b.WriteByte(byte('1' + first.Int64()))

	for i := 1; i < domain.CardNumberLength; i++ {
		digit, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + digit.Int64()))
	}

	return b.String(), nil
}
