package domain

import "time"

// Backend /api/health payload.
type HealthInfo struct {
	Status      string `json:"status,omitempty"`
	PlacesCount int    `json:"places_count"`
}

type BackendStatus struct {
	Online      bool      `json:"online"`
	PlacesCount int       `json:"places_count"`
	Message     string    `json:"message"`
	CheckedAt   time.Time `json:"checked_at"`
}
