package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/flashquest/internal/api/shared"
	"github.com/phrazzld/flashquest/internal/domain"
	"github.com/phrazzld/flashquest/internal/domain/quiz"
	"github.com/phrazzld/flashquest/internal/importer"
	"github.com/phrazzld/flashquest/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var maxBytesErr *http.MaxBytesError
	var validationErr *domain.ValidationError

	switch {
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge

	// Checked before ValidationError, which wraps it
	case errors.Is(err, quiz.ErrEmptySet):
		return http.StatusUnprocessableEntity

	// Bad request errors
	case errors.As(err, &validationErr),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Not found errors
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrIndexOutOfRange):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, domain.ErrDuplicateName),
		errors.Is(err, domain.ErrAlreadyOwned):
		return http.StatusConflict

	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusPaymentRequired

	// Requests that are well formed but not allowed in the current state
	case errors.Is(err, domain.ErrNotOwned),
		errors.Is(err, domain.ErrNotAlive),
		errors.Is(err, domain.ErrPetAlive),
		errors.Is(err, quiz.ErrWrongMode),
		errors.Is(err, quiz.ErrNotRevealed),
		errors.Is(err, quiz.ErrSessionOver),
		errors.Is(err, importer.ErrNoRows):
		return http.StatusUnprocessableEntity

	case errors.Is(err, importer.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType

	// Retries against a contended store were exhausted
	case errors.Is(err, store.ErrConflict):
		return http.StatusServiceUnavailable

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var maxBytesErr *http.MaxBytesError
	var validationErr *domain.ValidationError

	switch {
	case errors.As(err, &maxBytesErr):
		return "Request body too large"

	case errors.Is(err, quiz.ErrEmptySet):
		return "Cannot start a quiz on an empty set"

	// Validation messages are written for users and carry no internal detail
	case errors.As(err, &validationErr):
		return capitalize(validationErr.Error())

	case errors.Is(err, domain.ErrSetNotFound):
		return "Flashcard set not found"
	case errors.Is(err, domain.ErrItemNotFound):
		return "Item not found"
	case errors.Is(err, domain.ErrPetNotFound):
		return "Pet not adopted"
	case errors.Is(err, domain.ErrSessionNotFound):
		return "Quiz session not found"
	case errors.Is(err, domain.ErrPlayNotFound):
		return "Game play not found"
	case errors.Is(err, domain.ErrIndexOutOfRange):
		return "Card not found"
	case errors.Is(err, domain.ErrNotFound):
		return "Not found"

	case errors.Is(err, domain.ErrDuplicateName):
		return "A set with this name already exists"
	case errors.Is(err, domain.ErrAlreadyOwned):
		return "Already owned"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "Not enough coins"
	case errors.Is(err, domain.ErrNotOwned):
		return "Not owned"
	case errors.Is(err, domain.ErrNotAlive):
		return "Pet is not alive, revive it first"
	case errors.Is(err, domain.ErrPetAlive):
		return "Pet is still alive"

	case errors.Is(err, quiz.ErrWrongMode):
		return "Not available in this quiz mode"
	case errors.Is(err, quiz.ErrNotRevealed):
		return "Reveal the answer before grading"
	case errors.Is(err, quiz.ErrSessionOver):
		return "Quiz is finished"

	case errors.Is(err, importer.ErrUnsupportedFormat):
		return "Unsupported file format, upload a .csv or .xlsx file"
	case errors.Is(err, importer.ErrNoRows):
		return "The file contains no question/answer rows"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"
	case errors.Is(err, store.ErrConflict):
		return "Busy, please try again"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the status and safe message for err. A non-empty
// fallback replaces the generic message of unexpected 500 errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// HandleDecodeError reports a body that could not be decoded as JSON.
func HandleDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
}

// HandleValidationError reports a request body that failed struct validation.
func HandleValidationError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
}

// SanitizeValidationError turns validator output into a short message naming
// the first offending field.
func SanitizeValidationError(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Sprintf("Invalid %s: %s", strings.ToLower(fe.Field()), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "gt", "gte":
		return "must be positive"
	default:
		return "validation failed"
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
