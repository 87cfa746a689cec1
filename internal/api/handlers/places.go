package handlers

import (
	"net/http"
	"place-map-service/internal/services"

	"github.com/go-chi/chi/v5"
)

type PlaceHandler struct {
	Details *services.DetailService
}

// Get returns the detail panel for a place. Lookup failures are part of the
// panel, so the response is 200 either way.
func (h *PlaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	panel := h.Details.Load(r.Context(), chi.URLParam(r, "id"))
	writeJSON(w, r, http.StatusOK, panel)
}
