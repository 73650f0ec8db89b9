package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/fiszki/internal/api/shared"
	"github.com/phrazzld/fiszki/internal/domain"
)

// requireLogin returns the authenticated login or writes 401.
func requireLogin(w http.ResponseWriter, r *http.Request) (string, bool) {
	login, ok := shared.GetLogin(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return "", false
	}
	return login, true
}

// requireLoginAndSetID returns the login and the {id} path parameter, or
// writes an error response.
func requireLoginAndSetID(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	login, ok := requireLogin(w, r)
	if !ok {
		return "", "", false
	}
	id := chi.URLParam(r, "id")
	if id == "" {
		HandleAPIError(w, r, domain.NewValidationError("id", "is required", nil))
		return "", "", false
	}
	return login, id, true
}

// decodeAndValidate reads the JSON body into v and validates it, writing 400
// on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := shared.DecodeJSON(w, r, v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		HandleAPIError(w, r, err)
		return false
	}
	return true
}
