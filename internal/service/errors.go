package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// These errors represent expected conditions that callers check for with
// errors.Is(). The API layer maps them to HTTP status codes.
var (
	// ErrNotOwned indicates a resource is owned by a different user than the
	// one making the request. API layer maps this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrSameCard indicates a transfer where sender and recipient are the
	// same card. API layer maps this to HTTP 400 Bad Request.
	ErrSameCard = errors.New("cannot transfer to the same card")

	// ErrInvalidAmount indicates a transfer amount that is zero or negative.
	ErrInvalidAmount = errors.New("transfer amount must be positive")

	// ErrSenderInactive indicates a transfer from a card that is not ACTIVE.
	ErrSenderInactive = errors.New("sender card is not active")

	// ErrRecipientInactive indicates a transfer to a card that is not ACTIVE.
	ErrRecipientInactive = errors.New("recipient card is not active")

	// ErrInsufficientFunds indicates the sender's balance does not cover the
	// transfer amount.
	ErrInsufficientFunds = errors.New("not enough money on card balance")

	// ErrCardNumberExhausted indicates card number generation kept colliding
	// with existing numbers and gave up.
	ErrCardNumberExhausted = errors.New("could not generate a unique card number")

	// ErrRoleImmutable indicates an attempt to change a user's role through
	// the profile update path.
	ErrRoleImmutable = errors.New("user role cannot be changed")
)

// TransferError wraps an unexpected failure during a funds transfer with
// the IDs involved, for diagnostics. Expected precondition failures use
// the sentinel errors above instead.
type TransferError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for TransferError.
func (e *TransferError) Error() string {
	if e.Err != nil {
		return "transfer " + e.Operation + " failed: " + e.Message + ": " + e.Err.Error()
	}
	return "transfer " + e.Operation + " failed: " + e.Message
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TransferError) Unwrap() error {
	return e.Err
}

// NewTransferError creates a new TransferError.
func NewTransferError(operation, message string, err error) *TransferError {
	return &TransferError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
