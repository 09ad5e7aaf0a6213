// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateName is returned when a flashcard set name collides with an
	// existing set under case-insensitive comparison.
	ErrDuplicateName = errors.New("a set with this name already exists")

	// ErrInsufficientFunds is returned when the coin balance is below the price
	// of a purchase, feed or revive.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAlreadyOwned is returned when re-purchasing an owned item or pet.
	ErrAlreadyOwned = errors.New("item already owned")

	// ErrNotOwned is returned when equipping or consuming an item the user
	// does not own.
	ErrNotOwned = errors.New("item not owned")

	// ErrNotAlive is returned when feeding a pet whose death time has passed.
	// The caller should offer a revive instead.
	ErrNotAlive = errors.New("pet is not alive")

	// ErrPetAlive is returned when reviving a pet that is still alive.
	ErrPetAlive = errors.New("pet is still alive")

	// ErrIndexOutOfRange is returned by card operations with an index outside
	// the current bounds of the set.
	ErrIndexOutOfRange = errors.New("card index out of range")

	// ErrNotFound is returned when an operation references an unknown id.
	ErrNotFound = errors.New("not found")

	// Entity-specific "not found" errors
	ErrSetNotFound     = fmt.Errorf("%w: flashcard set", ErrNotFound)
	ErrItemNotFound    = fmt.Errorf("%w: catalog item", ErrNotFound)
	ErrPetNotFound     = fmt.Errorf("%w: pet", ErrNotFound)
	ErrSessionNotFound = fmt.Errorf("%w: quiz session", ErrNotFound)
	ErrPlayNotFound    = fmt.Errorf("%w: game play", ErrNotFound)
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for the given field.
// A nil err defaults to ErrValidation so callers can always match it with errors.Is.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
