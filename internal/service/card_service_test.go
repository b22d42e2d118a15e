package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pr0gger1/bank-api/internal/domain"
	"github.com/Pr0gger1/bank-api/internal/store"
)

// fakeUserStore implements the parts of store.UserStore the card service
// touches; the rest satisfy the interface.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User

	searchCalls []string
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (s *fakeUserStore) put(user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
}

func (s *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	s.put(user)
	return nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *fakeUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.GetByEmail(ctx, email)
	if errors.Is(err, store.ErrUserNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *fakeUserStore) Update(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *fakeUserStore) recordSearch(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchCalls = append(s.searchCalls, name)
}

func (s *fakeUserStore) List(ctx context.Context, page, size int) (*store.Page[*domain.User], error) {
	s.recordSearch("List")
	return &store.Page[*domain.User]{Page: page, Size: size}, nil
}

func (s *fakeUserStore) SearchByFirstName(ctx context.Context, firstName string, page, size int) (*store.Page[*domain.User], error) {
	s.recordSearch("SearchByFirstName")
	return &store.Page[*domain.User]{Page: page, Size: size}, nil
}

func (s *fakeUserStore) SearchByName(ctx context.Context, firstName, lastName string, page, size int) (*store.Page[*domain.User], error) {
	s.recordSearch("SearchByName")
	return &store.Page[*domain.User]{Page: page, Size: size}, nil
}

func (s *fakeUserStore) WithTx(tx *sql.Tx) store.UserStore { return s }

func newTestCardService(t *testing.T) (*CardService, *fakeCardStore, *fakeUserStore) {
	t.Helper()
	cardStore := newFakeCardStore()
	userStore := newFakeUserStore()
	svc := NewCardService(cardStore, userStore, testLogger(), 4)
	return svc, cardStore, userStore
}

func TestCreateCard(t *testing.T) {
	t.Parallel()

	t.Run("creates active card with generated number", func(t *testing.T) {
		t.Parallel()
		svc, _, userStore := newTestCardService(t)

		owner := &domain.User{ID: uuid.New(), Role: domain.RoleUser}
		userStore.put(owner)

		card, err := svc.CreateCard(context.Background(), owner.ID, 0)
		require.NoError(t, err)

		assert.Equal(t, owner.ID, card.OwnerID)
		assert.Equal(t, domain.CardStatusActive, card.Status)
		assert.True(t, card.Balance.IsZero())
		assert.Len(t, card.Number, domain.CardNumberLength)
		assert.NotEqual(t, byte('0'), card.Number[0])
		for _, r := range card.Number {
			assert.True(t, r >= '0' && r <= '9', "digit %c", r)
		}
	})

	t.Run("unknown owner", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newTestCardService(t)

		_, err := svc.CreateCard(context.Background(), uuid.New(), 0)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("retries on number collision", func(t *testing.T) {
		t.Parallel()
		svc, cardStore, userStore := newTestCardService(t)

		owner := &domain.User{ID: uuid.New(), Role: domain.RoleUser}
		userStore.put(owner)

		taken := newCard(t, owner.ID, "4000111122223333", 0)
		cardStore.put(taken)

		numbers := []string{"4000111122223333", "5000111122223333"}
		var calls int
		svc.numberFunc = func() (string, error) {
			number := numbers[calls]
			calls++
			return number, nil
		}

		card, err := svc.CreateCard(context.Background(), owner.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, "5000111122223333", card.Number)
		assert.Equal(t, 2, calls)
	})

	t.Run("gives up after exhausting attempts", func(t *testing.T) {
		t.Parallel()
		svc, cardStore, userStore := newTestCardService(t)

		owner := &domain.User{ID: uuid.New(), Role: domain.RoleUser}
		userStore.put(owner)

		taken := newCard(t, owner.ID, "4000111122223333", 0)
		cardStore.put(taken)

		var calls int
		svc.numberFunc = func() (string, error) {
			calls++
			return "4000111122223333", nil
		}

		_, err := svc.CreateCard(context.Background(), owner.ID, 0)
		assert.ErrorIs(t, err, ErrCardNumberExhausted)
		assert.Equal(t, maxNumberAttempts, calls)
	})
}

func TestCardStatusTransitions(t *testing.T) {
	t.Parallel()
	svc, cardStore, _ := newTestCardService(t)

	card := newCard(t, uuid.New(), "4000111122223333", 0)
	cardStore.put(card)

	require.NoError(t, svc.BlockCard(context.Background(), card.ID))
	blocked, err := cardStore.GetByID(context.Background(), card.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CardStatusBlocked, blocked.Status)

	// Repeating the transition is a no-op, not an error.
	require.NoError(t, svc.BlockCard(context.Background(), card.ID))

	require.NoError(t, svc.ActivateCard(context.Background(), card.ID))
	active, err := cardStore.GetByID(context.Background(), card.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CardStatusActive, active.Status)

	require.NoError(t, svc.ActivateCard(context.Background(), card.ID))

	err = svc.BlockCard(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrCardNotFound)
}

func TestGetCardOwnership(t *testing.T) {
	t.Parallel()
	svc, cardStore, _ := newTestCardService(t)

	owner := &domain.User{ID: uuid.New(), Role: domain.RoleUser}
	card := newCard(t, owner.ID, "4000111122223333", 0)
	cardStore.put(card)

	got, err := svc.GetCard(context.Background(), owner, card.ID)
	require.NoError(t, err)
	assert.Equal(t, card.ID, got.ID)

	stranger := &domain.User{ID: uuid.New(), Role: domain.RoleUser}
	_, err = svc.GetCard(context.Background(), stranger, card.ID)
	assert.ErrorIs(t, err, ErrNotOwned)

	admin := &domain.User{ID: uuid.New(), Role: domain.RoleAdmin}
	got, err = svc.GetCard(context.Background(), admin, card.ID)
	require.NoError(t, err)
	assert.Equal(t, card.ID, got.ID)

	_, err = svc.GetCard(context.Background(), owner, uuid.New())
	assert.ErrorIs(t, err, store.ErrCardNotFound)
}

func TestSearchCardsClassification(t *testing.T) {
	t.Parallel()

	user := &domain.User{ID: uuid.New(), Role: domain.RoleUser}
	admin := &domain.User{ID: uuid.New(), Role: domain.RoleAdmin}

	tests := []struct {
		name   string
		caller *domain.User
		query  string
		want   string
	}{
		{name: "empty query as user lists own cards", caller: user, query: "", want: "ListByOwner"},
		{name: "blank query as user lists own cards", caller: user, query: "   ", want: "ListByOwner"},
		{name: "empty query as admin lists all cards", caller: admin, query: "", want: "ListAll"},
		{name: "four digits match last four", caller: user, query: "1234", want: "SearchByLastFour"},
		{name: "two tokens match full name", caller: user, query: "Ivan Petrov", want: "SearchByOwnerName"},
		{name: "one token matches first name", caller: user, query: "Ivan", want: "SearchByOwnerFirstName"},
		{name: "four non-digit chars match first name", caller: user, query: "Anna", want: "SearchByOwnerFirstName"},
		{name: "three digits match first name", caller: user, query: "123", want: "SearchByOwnerFirstName"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc, cardStore, _ := newTestCardService(t)

			_, err := svc.SearchCards(context.Background(), tc.caller, tc.query, 0, 20)
			require.NoError(t, err)
			require.Len(t, cardStore.searchCalls, 1)
			assert.Equal(t, tc.want, cardStore.searchCalls[0])
		})
	}
}

func TestGenerateCardNumber(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		number, err := generateCardNumber()
		require.NoError(t, err)
		require.Len(t, number, domain.CardNumberLength)
		assert.True(t, number[0] >= '1' && number[0] <= '9', "first digit %c", number[0])
		for _, r := range number {
			require.True(t, r >= '0' && r <= '9', "digit %c in %s", r, number)
		}
		seen[number] = true
	}
	// A birthday collision in 100 draws from a 16-digit space would be
	// astonishing.
	assert.Len(t, seen, 100)
}
