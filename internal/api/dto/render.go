package dto

import (
	"place-map-service/internal/domain"
)

type RenderRequest struct {
	Records []domain.PlaceRecord `json:"records"`
	// Markers currently shown by the caller; only their count is used.
	Previous domain.MarkerSet `json:"previous,omitempty"`
}

type CoordinatesResponse struct {
	Found       bool                `json:"found"`
	Format      string              `json:"format,omitempty"`
	Coordinates *domain.Coordinates `json:"coordinates,omitempty"`
}

type MapConfigResponse struct {
	Center             domain.Coordinates `json:"center"`
	Zoom               int                `json:"zoom"`
	FocusZoom          int                `json:"focus_zoom"`
	Padding            [2]int             `json:"padding"`
	FlyDurationSeconds float64            `json:"fly_duration_seconds"`
	PopupDelayMs       int64              `json:"popup_delay_ms"`
}
