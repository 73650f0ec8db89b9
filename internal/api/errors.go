package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/fiszki/internal/api/shared"
	"github.com/phrazzld/fiszki/internal/domain"
	"github.com/phrazzld/fiszki/internal/service/auth"
	"github.com/phrazzld/fiszki/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized

	case errors.Is(err, domain.ErrNotOwner):
		return http.StatusForbidden

	case errors.Is(err, domain.ErrSetNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrLoginTaken),
		errors.Is(err, store.ErrConcurrencyConflict):
		return http.StatusConflict

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrCardIndex),
		errors.Is(err, domain.ErrNoCards):
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrNothingDue):
		return http.StatusNoContent

	case errors.Is(err, store.ErrStorageUnavailable):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err that never
// includes internal error text.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var fieldErr *domain.ValidationError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &validationErrs):
		return SanitizeValidationError(validationErrs)
	case errors.As(err, &fieldErr):
		return fieldErr.Error()

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "Invalid login or password"

	case errors.Is(err, domain.ErrNotOwner):
		return "You do not own this set"
	case errors.Is(err, domain.ErrSetNotFound):
		return "Set not found"
	case errors.Is(err, domain.ErrLoginTaken):
		return "Login already taken"
	case errors.Is(err, store.ErrConcurrencyConflict):
		return "The data was changed by another request, please retry"
	case errors.Is(err, domain.ErrCardIndex):
		return "Card index out of range"
	case errors.Is(err, domain.ErrNoCards):
		return "Set has no cards to study"
	case errors.Is(err, domain.ErrNothingDue):
		return "No cards need review"

	case errors.Is(err, store.ErrStorageUnavailable):
		return "Storage is temporarily unavailable"
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns request validation failures into a message
// naming the first offending field.
func SanitizeValidationError(errs validator.ValidationErrors) string {
	if len(errs) == 0 {
		return "Validation error"
	}
	fe := errs[0]
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte":
		return "too short or too small"
	case "max", "lte":
		return "too long or too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the mapped status and safe message for err and logs
// the redacted detail.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
}
