package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested key does not exist in the store.
	ErrNotFound = errors.New("entity not found")

	// ErrConflict is returned when a commit observed a version other than the
	// one its transaction read. The transaction may be retried.
	ErrConflict = errors.New("version conflict")

	// ErrDuplicate is returned when an insert hits an existing unique key.
	// KV backends translate it to ErrConflict.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when a value violates a backend constraint.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrReadOnly is returned when a write is attempted inside Store.View.
	ErrReadOnly = errors.New("read-only transaction")

	// ErrCorruptValue is returned when a persisted value cannot be decoded.
	ErrCorruptValue = errors.New("corrupt value")
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflictError checks if the error is a retryable version conflict.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrDuplicate)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The key or backend involved (e.g., "flashquest-coins", "sqlite")
	Operation string // The operation that failed (e.g., "get", "commit")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
