package api

import (
	"errors"
	"net/http"

	"github.com/avelow/recite-api/internal/domain"
	"github.com/avelow/recite-api/internal/service"
	"github.com/avelow/recite-api/internal/service/auth"
	"github.com/avelow/recite-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes so handlers
// never leak internal error types to clients. Unknown errors, including
// data-integrity failures, map to 500: those are server problems the client
// cannot fix.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Not-owned maps to 404, not 403: the response must not confirm that
	// someone else's resource exists.
	case errors.Is(err, service.ErrNotOwned),
		store.IsNotFoundError(err):
		return http.StatusNotFound

	case errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict

	case errors.Is(err, service.ErrSessionComplete),
		errors.Is(err, service.ErrSessionConflict):
		return http.StatusConflict

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidPassword):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-facing message for err.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return "An unexpected error occurred"

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"

	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, service.ErrEmailTaken):
		return "Email already registered"

	case errors.Is(err, service.ErrNotOwned),
		errors.Is(err, store.ErrSessionNotFound):
		return "Session not found"

	case errors.Is(err, service.ErrSessionComplete):
		return "Session is already complete"

	case errors.Is(err, service.ErrSessionConflict):
		return "Session was updated by another request"

	case errors.Is(err, store.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, store.ErrExerciseNotFound):
		return "Exercise not found"

	case store.IsNotFoundError(err):
		return "Not found"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}
