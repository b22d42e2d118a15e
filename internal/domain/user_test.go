package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("creates user with USER role", func(t *testing.T) {
		t.Parallel()
		user, err := NewUser("ivan@example.com", "password123", "Ivan", "Petrov", "Sergeevich")
		require.NoError(t, err)

		assert.Equal(t, RoleUser, user.Role)
		assert.False(t, user.IsAdmin())
		assert.True(t, user.HasRole(RoleUser))
	})

	tests := []struct {
		name      string
		email     string
		password  string
		firstName string
		lastName  string
		wantErr   error
	}{
		{
			name:      "invalid email",
			email:     "not-an-email",
			password:  "password123",
			firstName: "Ivan",
			lastName:  "Petrov",
			wantErr:   ErrInvalidEmail,
		},
		{
			name:      "short password",
			email:     "ivan@example.com",
			password:  "short",
			firstName: "Ivan",
			lastName:  "Petrov",
			wantErr:   ErrPasswordTooShort,
		},
		{
			name:      "missing first name",
			email:     "ivan@example.com",
			password:  "password123",
			firstName: "",
			lastName:  "Petrov",
			wantErr:   ErrEmptyFirstName,
		},
		{
			name:      "missing last name",
			email:     "ivan@example.com",
			password:  "password123",
			firstName: "Ivan",
			lastName:  "",
			wantErr:   ErrEmptyLastName,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewUser(tt.email, tt.password, tt.firstName, tt.lastName, "")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUserValidateStoredUser(t *testing.T) {
	t.Parallel()

	user, err := NewUser("ivan@example.com", "password123", "Ivan", "Petrov", "")
	require.NoError(t, err)

	// A user loaded from the store has only the hash.
	user.Password = ""
	user.HashedPassword = "$2a$10$abcdefghijklmnopqrstuv"
	assert.NoError(t, user.Validate())

	user.HashedPassword = ""
	assert.ErrorIs(t, user.Validate(), ErrEmptyPassword)
}
