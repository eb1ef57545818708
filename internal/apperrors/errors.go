// Package apperrors holds the caller-facing error taxonomy shared by
// the catalog, stock, issuance and replenishment packages. Services
// return these; ErrorHandler maps them to HTTP status codes.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound: a referenced item, movement, order or employee does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict: a uniqueness or referential rule would be violated
	// (duplicate catalog tuple, deleting an item that still has stock).
	ErrConflict = errors.New("conflict")

	// ErrInsufficientStock: a reserve would drive a bucket negative.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidState: a state-machine transition is not permitted.
	ErrInvalidState = errors.New("invalid state transition")
)

// ValidationError marks malformed input. It wraps nothing; the message
// is safe to show to the caller.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError with a formatted message.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
