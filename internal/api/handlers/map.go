package handlers

import (
	"net/http"
	"place-map-service/internal/api/dto"
	"place-map-service/internal/domain"
	"place-map-service/internal/services"
)

type MapHandler struct {
	Defaults domain.MapDefaults
	Options  services.RenderOptions
}

// Config tells the browser where to start and how to animate.
func (h *MapHandler) Config(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, dto.MapConfigResponse{
		Center:             h.Defaults.Center,
		Zoom:               h.Defaults.Zoom,
		FocusZoom:          h.Options.FocusZoom,
		Padding:            h.Options.Padding,
		FlyDurationSeconds: h.Options.FlyDuration.Seconds(),
		PopupDelayMs:       h.Options.PopupDelay.Milliseconds(),
	})
}
