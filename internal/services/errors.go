package services

import (
	"errors"

	apperrors "github.com/alktbihd/mentalhealth/internal/errors"
	"github.com/alktbihd/mentalhealth/internal/repositories"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// ErrNoAnswers rejects scoring requests with an empty answer list. The
	// score formula divides by the answer count, so empty input is refused
	// instead of producing an undefined result.
	ErrNoAnswers = errors.New("no answers provided")

	// ErrStoreUnavailable mirrors the repository sentinel so callers can
	// classify persistence failures without importing the repository package.
	ErrStoreUnavailable = repositories.ErrStoreUnavailable

	// ErrUpstreamService marks a remote dependency failure (quote API). It is
	// never surfaced to HTTP callers; the quote service substitutes fallback
	// data instead.
	ErrUpstreamService = errors.New("upstream service failure")
)

// Use shared validation errors from the errors package.
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// NewValidationError creates a new validation error using the shared type.
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// ===== ERROR CLASSIFIERS =====

// IsValidation checks if the error represents a validation failure.
func IsValidation(err error) bool {
	if errors.Is(err, ErrNoAnswers) {
		return true
	}
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *ValidationError
	return errors.As(err, &single)
}

// IsStoreUnavailable checks if the error means the store cannot be reached.
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
