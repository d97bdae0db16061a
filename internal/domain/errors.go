package domain

import "errors"

// Sentinel errors distinguishing the caller-visible failure kinds.
// The HTTP adapter maps these onto status codes (404, 409); anything
// else surfaces as an internal error.
var (
	// ErrAccountNotFound signals that an account does not exist or is not
	// owned by the requesting user. The two cases are deliberately not
	// distinguished.
	ErrAccountNotFound = errors.New("account not found")

	// ErrDuplicateName signals a unique-name violation among an owner's
	// accounts.
	ErrDuplicateName = errors.New("an account with this name already exists")
)

// ValidationError represents a rejected request: malformed parameters or an
// inconsistent value/cash-flow/gain-loss triple. The message is safe to show
// to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with the given message
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// IsValidation reports whether err is (or wraps) a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
