package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/flashquest/internal/domain"
	"github.com/phrazzld/flashquest/internal/domain/quiz"
	"github.com/phrazzld/flashquest/internal/importer"
)

// ServiceError is a custom error type for unexpected service failures.
type ServiceError struct {
	Service   string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, operation, message string, err error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// IsExpected reports whether err is a business outcome the caller should
// present to the user rather than an internal failure.
func IsExpected(err error) bool {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return true
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrDuplicateName),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrAlreadyOwned),
		errors.Is(err, domain.ErrNotOwned),
		errors.Is(err, domain.ErrNotAlive),
		errors.Is(err, domain.ErrPetAlive),
		errors.Is(err, domain.ErrIndexOutOfRange),
		errors.Is(err, quiz.ErrWrongMode),
		errors.Is(err, quiz.ErrNotRevealed),
		errors.Is(err, quiz.ErrSessionOver),
		errors.Is(err, importer.ErrUnsupportedFormat),
		errors.Is(err, importer.ErrNoRows):
		return true
	default:
		return false
	}
}

// wrap passes expected errors through untouched and wraps everything else.
func wrap(service, operation string, err error) error {
	if err == nil || IsExpected(err) {
		return err
	}
	return NewServiceError(service, operation, "unexpected error", err)
}
