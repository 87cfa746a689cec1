package handlers

import (
	"net/http"
	"place-map-service/internal/services"
)

// Health provides a minimal liveness check endpoint.
func Health(w http.ResponseWriter, r *http.Request) {
	res := map[string]string{"status": "ok"}
	writeJSON(w, r, http.StatusOK, res)
}

type StatusHandler struct {
	Monitor *services.HealthMonitor
}

// Status returns the last known backend status without contacting the backend.
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.Monitor.Status())
}
