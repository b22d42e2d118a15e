package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pr0gger1/bank-api/internal/domain"
	"github.com/Pr0gger1/bank-api/internal/store"
)

func storedUser(t *testing.T, email string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(email, "correct-horse", "Ivan", "Petrov", "")
	require.NoError(t, err)
	user.Password = ""
	user.HashedPassword = "$2a$10$fakehashfakehashfakehash"
	return user
}

func TestUpdateUser(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) (*UserService, *fakeUserStore, *domain.User) {
		t.Helper()
		userStore := newFakeUserStore()
		user := storedUser(t, "ivan@example.com")
		userStore.put(user)
		svc := NewUserService(userStore, testLogger())
		return svc, userStore, user
	}

	t.Run("updates provided fields only", func(t *testing.T) {
		t.Parallel()
		svc, userStore, user := setup(t)

		updated, err := svc.UpdateUser(context.Background(), user.ID, "", "Pyotr", "", "Ivanovich")
		require.NoError(t, err)

		assert.Equal(t, "Pyotr", updated.FirstName)
		assert.Equal(t, "Petrov", updated.LastName)
		assert.Equal(t, "Ivanovich", updated.Patronymic)
		assert.Equal(t, "ivan@example.com", updated.Email)

		stored, err := userStore.GetByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Pyotr", stored.FirstName)
	})

	t.Run("changes email when available", func(t *testing.T) {
		t.Parallel()
		svc, _, user := setup(t)

		updated, err := svc.UpdateUser(context.Background(), user.ID, "new@example.com", "", "", "")
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", updated.Email)
	})

	t.Run("rejects taken email", func(t *testing.T) {
		t.Parallel()
		svc, userStore, user := setup(t)
		userStore.put(storedUser(t, "taken@example.com"))

		_, err := svc.UpdateUser(context.Background(), user.ID, "taken@example.com", "", "", "")
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("same email is not a collision", func(t *testing.T) {
		t.Parallel()
		svc, _, user := setup(t)

		updated, err := svc.UpdateUser(context.Background(), user.ID, "ivan@example.com", "", "", "")
		require.NoError(t, err)
		assert.Equal(t, "ivan@example.com", updated.Email)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		t.Parallel()
		svc, _, user := setup(t)

		_, err := svc.UpdateUser(context.Background(), user.ID, "not-an-email", "", "", "")
		assert.ErrorIs(t, err, domain.ErrInvalidEmail)
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := setup(t)

		_, err := svc.UpdateUser(context.Background(), uuid.New(), "", "Pyotr", "", "")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestListUsersClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{name: "empty query lists everyone", query: "", want: "List"},
		{name: "two tokens match full name", query: "Ivan Petrov", want: "SearchByName"},
		{name: "one token matches first name", query: "Ivan", want: "SearchByFirstName"},
		{name: "three tokens fall back to first name", query: "Ivan Petrovich Petrov", want: "SearchByFirstName"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			userStore := newFakeUserStore()
			svc := NewUserService(userStore, testLogger())

			_, err := svc.ListUsers(context.Background(), tc.query, 0, 20)
			require.NoError(t, err)
			require.Len(t, userStore.searchCalls, 1)
			assert.Equal(t, tc.want, userStore.searchCalls[0])
		})
	}
}

func TestDeleteUser(t *testing.T) {
	t.Parallel()
	userStore := newFakeUserStore()
	user := storedUser(t, "ivan@example.com")
	userStore.put(user)
	svc := NewUserService(userStore, testLogger())

	require.NoError(t, svc.DeleteUser(context.Background(), user.ID))

	_, err := svc.GetUser(context.Background(), user.ID)
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	err = svc.DeleteUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}
