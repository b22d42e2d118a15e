package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/Pr0gger1/bank-api/internal/domain"
	"github.com/Pr0gger1/bank-api/internal/store"
)

// UserService implements the user directory: lookup, listing with name
// search, profile updates, and deletion. Authorization (admin-only
// access) is enforced at the API edge.
type UserService struct {
	userStore store.UserStore
	logger    *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(userStore store.UserStore, logger *slog.Logger) *UserService {
	if userStore == nil {
		panic("userStore cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &UserService{
		userStore: userStore,
		logger:    logger.With(slog.String("component", "user_service")),
	}
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userStore.GetByID(ctx, id)
}

// GetUserByEmail retrieves a user by email address.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.userStore.GetByEmail(ctx, email)
}

// ListUsers lists users, optionally filtered by a name query using the
// same classification as card search minus the last-four form: two
// space-separated tokens match first OR last name, a single token matches
// the first name as a substring.
func (s *UserService) ListUsers(ctx context.Context, query string, page, size int) (*store.Page[*domain.User], error) {
	query = strings.TrimSpace(query)

	if query == "" {
		return s.userStore.List(ctx, page, size)
	}

	tokens := strings.Fields(query)
	if len(tokens) == 2 {
		return s.userStore.SearchByName(ctx, tokens[0], tokens[1], page, size)
	}

	return s.userStore.SearchByFirstName(ctx, query, page, size)
}

// UpdateUser updates a user's profile fields. The role is immutable
// through this path and email changes must not collide with an existing
// account.
func (s *UserService) UpdateUser(
	ctx context.Context,
	id uuid.UUID,
	email, firstName, lastName, patronymic string,
) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if email != "" && email != user.Email {
		exists, err := s.userStore.ExistsByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email availability: %w", err)
		}
		if exists {
			return nil, store.ErrEmailExists
		}
		user.Email = email
	}
	if firstName != "" {
		user.FirstName = firstName
	}
	if lastName != "" {
		user.LastName = lastName
	}
	if patronymic != "" {
		user.Patronymic = patronymic
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.userStore.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user updated", slog.String("user_id", id.String()))
	return user, nil
}

// DeleteUser permanently removes a user. Owned cards are removed by the
// store's cascade rule.
func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.userStore.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "user deleted", slog.String("user_id", id.String()))
	return nil
}
