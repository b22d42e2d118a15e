package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Pr0gger1/bank-api/internal/domain"
	"github.com/Pr0gger1/bank-api/internal/store"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email      string `json:"email"      validate:"required,email"`
	Password   string `json:"password"   validate:"required,min=8,max=72"`
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name"  validate:"required"`
	Patronymic string `json:"patronymic"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id,omitempty"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"access_token"`

	// RefreshToken is the token used to obtain new access tokens
	RefreshToken string `json:"refresh_token"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutRequest defines the payload for the logout endpoint. The access
// token itself comes from the Authorization header.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// CreateCardRequest defines the payload for card creation. ValidityYears
// of zero selects the configured default.
type CreateCardRequest struct {
	OwnerID       uuid.UUID `json:"owner_id"       validate:"required"`
	ValidityYears int       `json:"validity_years" validate:"gte=0,lte=20"`
}

// TransferRequest defines the payload for a funds transfer between two
// cards. Amount positivity is checked by the transfer engine so the
// failure carries the proper error classification.
type TransferRequest struct {
	SenderCardID    uuid.UUID       `json:"sender_card_id"    validate:"required"`
	RecipientCardID uuid.UUID       `json:"recipient_card_id" validate:"required"`
	Amount          decimal.Decimal `json:"amount"`
}

// UpdateUserRequest defines the payload for updating a user profile.
// Empty fields are left unchanged; the role is not updatable.
type UpdateUserRequest struct {
	Email      string `json:"email" validate:"omitempty,email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Patronymic string `json:"patronymic"`
}

// CardResponse is the external view of a card. The number is always the
// masked form.
type CardResponse struct {
	ID         uuid.UUID       `json:"id"`
	Number     string          `json:"number"`
	Balance    decimal.Decimal `json:"balance"`
	OwnerID    uuid.UUID       `json:"owner_id"`
	Status     string          `json:"status"`
	ExpiryDate time.Time       `json:"expiry_date"`
	CreatedAt  time.Time       `json:"created_at"`
}

// NewCardResponse builds the external view of a card.
func NewCardResponse(card *domain.Card) CardResponse {
	return CardResponse{
		ID:         card.ID,
		Number:     domain.MaskNumber(card.Number),
		Balance:    card.Balance,
		OwnerID:    card.OwnerID,
		Status:     string(card.Status),
		ExpiryDate: card.ExpiryDate,
		CreatedAt:  card.CreatedAt,
	}
}

// BalanceResponse is the balance view of a single card.
type BalanceResponse struct {
	CardID  uuid.UUID       `json:"card_id"`
	Number  string          `json:"number"`
	Balance decimal.Decimal `json:"balance"`
}

// UserResponse is the external view of a user.
type UserResponse struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Patronymic string    `json:"patronymic,omitempty"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewUserResponse builds the external view of a user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Patronymic: user.Patronymic,
		Role:       string(user.Role),
		CreatedAt:  user.CreatedAt,
	}
}

// PageResponse is the paginated envelope for list endpoints.
type PageResponse[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"total_count"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
}

// NewPageResponse maps a store page into its external view.
func NewPageResponse[S, T any](page *store.Page[S], mapItem func(S) T) PageResponse[T] {
	items := make([]T, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, mapItem(item))
	}
	return PageResponse[T]{
		Items:      items,
		TotalCount: page.TotalCount,
		Page:       page.Page,
		Size:       page.Size,
	}
}
