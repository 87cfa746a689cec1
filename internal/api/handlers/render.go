package handlers

import (
	"net/http"
	"place-map-service/internal/api/dto"
	"place-map-service/internal/domain"
	"place-map-service/internal/services"
)

type RenderHandler struct {
	Renderer *services.MapRenderer
}

func (h *RenderHandler) Render(w http.ResponseWriter, r *http.Request) {
	var req dto.RenderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, r, http.StatusOK, h.Renderer.Render(r.Context(), req.Previous, req.Records))
}

func (h *RenderHandler) Coordinates(w http.ResponseWriter, r *http.Request) {
	var rec domain.PlaceRecord
	if err := decodeJSON(w, r, &rec); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	c, format, ok := services.ResolveCoordinatesFormat(rec)
	res := dto.CoordinatesResponse{Found: ok, Format: string(format)}
	if ok {
		res.Coordinates = &c
	}

	writeJSON(w, r, http.StatusOK, res)
}
