package auth

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pr0gger1/bank-api/internal/domain"
	"github.com/Pr0gger1/bank-api/internal/store"
)

// fakeUserStore is an in-memory UserStore for service tests.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (s *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *fakeUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.GetByEmail(ctx, email)
	if err != nil {
		return false, nil
	}
	return true, nil
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

func (s *fakeUserStore) List(ctx context.Context, page, size int) (*store.Page[*domain.User], error) {
	return &store.Page[*domain.User]{Page: page, Size: size}, nil
}

func (s *fakeUserStore) SearchByFirstName(ctx context.Context, firstName string, page, size int) (*store.Page[*domain.User], error) {
	return &store.Page[*domain.User]{Page: page, Size: size}, nil
}

func (s *fakeUserStore) SearchByName(ctx context.Context, firstName, lastName string, page, size int) (*store.Page[*domain.User], error) {
	return &store.Page[*domain.User]{Page: page, Size: size}, nil
}

func (s *fakeUserStore) WithTx(tx *sql.Tx) store.UserStore { return s }

// fakeTokenStore is an in-memory RefreshTokenStore with atomic Consume
// semantics.
type fakeTokenStore struct {
	mu     sync.Mutex
	tokens map[string]*domain.RefreshToken
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]*domain.RefreshToken)}
}

func (s *fakeTokenStore) Create(ctx context.Context, token *domain.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token.Token] = token
	return nil
}

func (s *fakeTokenStore) GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.tokens[token]
	if !ok {
		return nil, store.ErrTokenNotFound
	}
	return record, nil
}

func (s *fakeTokenStore) Consume(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tokens[token]; !ok {
		return store.ErrTokenNotFound
	}
	delete(s.tokens, token)
	return nil
}

func (s *fakeTokenStore) DeleteByID(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, record := range s.tokens {
		if record.ID == id {
			delete(s.tokens, key)
			return nil
		}
	}
	return store.ErrTokenNotFound
}

func (s *fakeTokenStore) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, record := range s.tokens {
		if record.UserID == userID {
			delete(s.tokens, key)
		}
	}
	return nil
}

func (s *fakeTokenStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted int64
	for key, record := range s.tokens {
		if record.ExpirationDate.Before(before) {
			delete(s.tokens, key)
			deleted++
		}
	}
	return deleted, nil
}

func (s *fakeTokenStore) MarkRevoked(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range s.tokens {
		if record.ID == id {
			record.Revoked = true
			record.Expired = true
			return nil
		}
	}
	return store.ErrTokenNotFound
}

func (s *fakeTokenStore) WithTx(tx *sql.Tx) store.RefreshTokenStore { return s }

func newTestAuthService(t *testing.T) (*AuthService, *fakeUserStore, *fakeTokenStore) {
	t.Helper()

	userStore := newFakeUserStore()
	tokenStore := newFakeTokenStore()
	jwtService := NewTestJWTService(
		testAccessSecret, testRefreshSecret, 15*time.Minute, 24*time.Hour, time.Now)
	blacklist := newTestTokenBlacklist(15*time.Minute, time.Now)
	hasher := NewBcryptHasher(4) // Minimum cost keeps the suite fast

	svc := NewAuthService(userStore, tokenStore, jwtService, hasher, hasher, blacklist)
	return svc, userStore, tokenStore
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("registers and logs in", func(t *testing.T) {
		t.Parallel()
		svc, userStore, tokenStore := newTestAuthService(t)
		ctx := context.Background()

		user, pair, err := svc.Register(ctx, "ivan@example.com", "password123", "Ivan", "Petrov", "")
		require.NoError(t, err)
		require.NotNil(t, pair)

		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		assert.Empty(t, user.Password)
		assert.NotEmpty(t, user.HashedPassword)

		stored, err := userStore.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleUser, stored.Role)

		// Refresh token pair is persisted
		record, err := tokenStore.GetByToken(ctx, pair.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, record.UserID)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newTestAuthService(t)
		ctx := context.Background()

		_, _, err := svc.Register(ctx, "ivan@example.com", "password123", "Ivan", "Petrov", "")
		require.NoError(t, err)

		_, _, err = svc.Register(ctx, "ivan@example.com", "password456", "Petr", "Ivanov", "")
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "ivan@example.com", "password123", "Ivan", "Petrov", "")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		pair, err := svc.Login(ctx, "ivan@example.com", "password123")
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "ivan@example.com", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email is indistinguishable", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	t.Run("rotates the token pair", func(t *testing.T) {
		t.Parallel()
		svc, _, tokenStore := newTestAuthService(t)
		ctx := context.Background()

		_, pair, err := svc.Register(ctx, "ivan@example.com", "password123", "Ivan", "Petrov", "")
		require.NoError(t, err)

		rotated, err := svc.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)
		assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

		// The consumed token is gone; the new one is persisted
		_, err = tokenStore.GetByToken(ctx, pair.RefreshToken)
		assert.ErrorIs(t, err, store.ErrTokenNotFound)
		_, err = tokenStore.GetByToken(ctx, rotated.RefreshToken)
		assert.NoError(t, err)
	})

	t.Run("consumed token cannot be reused", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newTestAuthService(t)
		ctx := context.Background()

		_, pair, err := svc.Register(ctx, "ivan@example.com", "password123", "Ivan", "Petrov", "")
		require.NoError(t, err)

		_, err = svc.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)

		_, err = svc.Refresh(ctx, pair.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("unknown token rejected", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newTestAuthService(t)
		ctx := context.Background()

		user, _, err := svc.Register(ctx, "ivan@example.com", "password123", "Ivan", "Petrov", "")
		require.NoError(t, err)

		// A well-formed token that was never persisted
		jwtService := NewTestJWTService(
			testAccessSecret, testRefreshSecret, 15*time.Minute, 24*time.Hour, time.Now)
		stray, err := jwtService.GenerateRefreshToken(ctx, user)
		require.NoError(t, err)

		_, err = svc.Refresh(ctx, stray)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("expired record is dropped and rejected", func(t *testing.T) {
		t.Parallel()
		svc, _, tokenStore := newTestAuthService(t)
		ctx := context.Background()

		_, pair, err := svc.Register(ctx, "ivan@example.com", "password123", "Ivan", "Petrov", "")
		require.NoError(t, err)

		// Backdate the persisted record past its expiry
		record, err := tokenStore.GetByToken(ctx, pair.RefreshToken)
		require.NoError(t, err)
		record.ExpirationDate = time.Now().Add(-time.Hour)

		_, err = svc.Refresh(ctx, pair.RefreshToken)
		assert.ErrorIs(t, err, ErrExpiredRefreshToken)

		_, err = tokenStore.GetByToken(ctx, pair.RefreshToken)
		assert.ErrorIs(t, err, store.ErrTokenNotFound)
	})

	t.Run("concurrent refreshes yield exactly one winner", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newTestAuthService(t)
		ctx := context.Background()

		_, pair, err := svc.Register(ctx, "ivan@example.com", "password123", "Ivan", "Petrov", "")
		require.NoError(t, err)

		const racers = 8
		results := make(chan error, racers)

		var start sync.WaitGroup
		start.Add(1)
		for i := 0; i < racers; i++ {
			go func() {
				start.Wait()
				_, err := svc.Refresh(ctx, pair.RefreshToken)
				results <- err
			}()
		}
		start.Done()

		var successes int
		for i := 0; i < racers; i++ {
			if err := <-results; err == nil {
				successes++
			} else {
				assert.ErrorIs(t, err, ErrInvalidRefreshToken)
			}
		}
		assert.Equal(t, 1, successes)
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()

	svc, _, tokenStore := newTestAuthService(t)
	ctx := context.Background()

	_, pair, err := svc.Register(ctx, "ivan@example.com", "password123", "Ivan", "Petrov", "")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.AccessToken, pair.RefreshToken))

	// Access token is blacklisted for the remainder of its lifetime
	assert.True(t, svc.IsAccessTokenRevoked(pair.AccessToken))

	// Refresh token is revoked and can no longer rotate
	record, err := tokenStore.GetByToken(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.True(t, record.Revoked)

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}
