package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Pr0gger1/bank-api/internal/domain"
	"github.com/Pr0gger1/bank-api/internal/store"
)

// accountLocks linearizes transfers touching the same accounts. Locks are
// always acquired in ascending UUID order so two opposite-direction
// transfers cannot deadlock.
type accountLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (l *accountLocks) lockFor(id uuid.UUID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}

// acquire locks both accounts in ascending UUID order and returns a
// release function that unlocks them in reverse order.
func (l *accountLocks) acquire(a, b uuid.UUID) func() {
	first, second := orderUUIDs(a, b)
	firstLock := l.lockFor(first)
	secondLock := l.lockFor(second)

	firstLock.Lock()
	secondLock.Lock()
	return func() {
		secondLock.Unlock()
		firstLock.Unlock()
	}
}

func orderUUIDs(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if bytes.Compare(a[:], b[:]) <= 0 {
		return a, b
	}
	return b, a
}

// TransferService implements atomic funds transfers between cards.
//
// Two layers of protection keep concurrent transfers from overdrawing an
// account: per-account in-process locks acquired in a fixed global order,
// and a database transaction that re-reads both rows under SELECT ... FOR
// UPDATE before mutating them. Both balance updates commit together or
// not at all.
type TransferService struct {
	cardStore store.CardStore
	logger    *slog.Logger
	locks     *accountLocks
	runInTx   func(ctx context.Context, fn store.TxFn) error
}

// NewTransferService creates a TransferService backed by the given
// database handle.
func NewTransferService(cardStore store.CardStore, db *sql.DB, logger *slog.Logger) *TransferService {
	if cardStore == nil {
		panic("cardStore cannot be nil")
	}
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &TransferService{
		cardStore: cardStore,
		logger:    logger.With(slog.String("component", "transfer_service")),
		locks:     newAccountLocks(),
		runInTx: func(ctx context.Context, fn store.TxFn) error {
			return store.RunInTransaction(ctx, db, fn)
		},
	}
}

// newTestTransferService creates a TransferService whose transaction
// runner invokes the function directly against the store, for tests with
// in-memory fakes.
func newTestTransferService(cardStore store.CardStore, logger *slog.Logger) *TransferService {
	return &TransferService{
		cardStore: cardStore,
		logger:    logger,
		locks:     newAccountLocks(),
		runInTx: func(ctx context.Context, fn store.TxFn) error {
			return fn(ctx, nil)
		},
	}
}

// Transfer atomically moves amount from the sender card to the recipient
// card. The caller must own the sender card. Preconditions are checked in
// a fixed order, each producing a distinct error:
//
//  1. sender and recipient differ
//  2. sender exists and is owned by the caller
//  3. recipient exists
//  4. amount is positive
//  5. sender is ACTIVE
//  6. recipient is ACTIVE
//  7. sender balance covers the amount
func (s *TransferService) Transfer(
	ctx context.Context,
	caller *domain.User,
	senderID, recipientID uuid.UUID,
	amount decimal.Decimal,
) error {
	if senderID == recipientID {
		return ErrSameCard
	}

	release := s.locks.acquire(senderID, recipientID)
	defer release()

	err := s.runInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.cardStore
		if tx != nil {
			txStore = s.cardStore.WithTx(tx)
		}
		return s.executeTransfer(ctx, txStore, caller, senderID, recipientID, amount)
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "transfer completed",
		slog.String("sender_id", senderID.String()),
		slog.String("recipient_id", recipientID.String()),
		slog.String("amount", amount.String()))
	return nil
}

func (s *TransferService) executeTransfer(
	ctx context.Context,
	txStore store.CardStore,
	caller *domain.User,
	senderID, recipientID uuid.UUID,
	amount decimal.Decimal,
) error {
	// Row locks follow the same ascending-UUID order as the in-process
	// locks. Existence errors are classified afterwards so the caller
	// always learns about the sender first.
	firstID, secondID := orderUUIDs(senderID, recipientID)

	cards := make(map[uuid.UUID]*domain.Card, 2)
	for _, id := range []uuid.UUID{firstID, secondID} {
		card, err := txStore.GetForUpdate(ctx, id)
		if err != nil {
			if store.IsNotFoundError(err) {
				continue
			}
			return NewTransferError("lookup", "failed to load card", err)
		}
		cards[id] = card
	}

	sender, ok := cards[senderID]
	if !ok {
		return fmt.Errorf("sender: %w", store.ErrCardNotFound)
	}
	if sender.OwnerID != caller.ID {
		return ErrNotOwned
	}

	recipient, ok := cards[recipientID]
	if !ok {
		return fmt.Errorf("recipient: %w", store.ErrCardNotFound)
	}

	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	if sender.Status != domain.CardStatusActive {
		return ErrSenderInactive
	}
	if recipient.Status != domain.CardStatusActive {
		return ErrRecipientInactive
	}

	if sender.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}

	newSenderBalance := sender.Balance.Sub(amount)
	newRecipientBalance := recipient.Balance.Add(amount)

	if err := txStore.UpdateBalance(ctx, senderID, newSenderBalance); err != nil {
		return NewTransferError("debit", "failed to update sender balance", err)
	}
	if err := txStore.UpdateBalance(ctx, recipientID, newRecipientBalance); err != nil {
		return NewTransferError("credit", "failed to update recipient balance", err)
	}

	return nil
}

// IsTransferPreconditionError reports whether err is one of the expected
// transfer precondition failures rather than an internal error.
func IsTransferPreconditionError(err error) bool {
	return errors.Is(err, ErrSameCard) ||
		errors.Is(err, ErrNotOwned) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrSenderInactive) ||
		errors.Is(err, ErrRecipientInactive) ||
		errors.Is(err, ErrInsufficientFunds) ||
		store.IsNotFoundError(err)
}
