package api

import (
	"context"
	"net/http"

	"github.com/phrazzld/fiszki/internal/api/shared"
	"github.com/phrazzld/fiszki/internal/domain"
	"github.com/phrazzld/fiszki/internal/service"
)

// SetService is what the set handlers need for set management.
type SetService interface {
	Create(ctx context.Context, owner, name string, cards []domain.CardInput) (*domain.CardSet, error)
	List(ctx context.Context, owner string) ([]domain.CardSet, error)
	Update(ctx context.Context, owner, id, name string, cards []domain.CardInput) (*domain.CardSet, error)
	Delete(ctx context.Context, owner, id string) error
}

// DashboardService builds the read-only views.
type DashboardService interface {
	Dashboard(ctx context.Context, owner string) (*service.Dashboard, error)
	Profile(ctx context.Context, owner string) (*service.Profile, error)
	SetDetails(ctx context.Context, owner, setID string) (*service.SetDetails, error)
}

// SetHandler handles card set management and the dashboard views.
type SetHandler struct {
	sets  SetService
	views DashboardService
}

// NewSetHandler creates a SetHandler.
func NewSetHandler(sets SetService, views DashboardService) *SetHandler {
	return &SetHandler{sets: sets, views: views}
}

// List handles GET /api/sets.
func (h *SetHandler) List(w http.ResponseWriter, r *http.Request) {
	login, ok := requireLogin(w, r)
	if !ok {
		return
	}
	sets, err := h.sets.List(r.Context(), login)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if sets == nil {
		sets = []domain.CardSet{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, SetListResponse{Sets: sets})
}

// Create handles POST /api/sets.
func (h *SetHandler) Create(w http.ResponseWriter, r *http.Request) {
	login, ok := requireLogin(w, r)
	if !ok {
		return
	}
	var req SetRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	set, err := h.sets.Create(r.Context(), login, req.Name, req.inputs())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/sets/"+set.ID)
	shared.RespondWithJSON(w, r, http.StatusCreated, set)
}

// Get handles GET /api/sets/{id}.
func (h *SetHandler) Get(w http.ResponseWriter, r *http.Request) {
	login, id, ok := requireLoginAndSetID(w, r)
	if !ok {
		return
	}
	details, err := h.views.SetDetails(r.Context(), login, id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, details)
}

// Update handles PUT /api/sets/{id}.
func (h *SetHandler) Update(w http.ResponseWriter, r *http.Request) {
	login, id, ok := requireLoginAndSetID(w, r)
	if !ok {
		return
	}
	var req SetRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	set, err := h.sets.Update(r.Context(), login, id, req.Name, req.inputs())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, set)
}

// Delete handles DELETE /api/sets/{id}.
func (h *SetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	login, id, ok := requireLoginAndSetID(w, r)
	if !ok {
		return
	}
	if err := h.sets.Delete(r.Context(), login, id); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Dashboard handles GET /api/dashboard.
func (h *SetHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	login, ok := requireLogin(w, r)
	if !ok {
		return
	}
	d, err := h.views.Dashboard(r.Context(), login)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, d)
}

// Profile handles GET /api/profile.
func (h *SetHandler) Profile(w http.ResponseWriter, r *http.Request) {
	login, ok := requireLogin(w, r)
	if !ok {
		return
	}
	p, err := h.views.Profile(r.Context(), login)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, p)
}
