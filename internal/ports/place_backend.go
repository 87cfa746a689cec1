package ports

import (
	"context"
	"errors"
	"fmt"
	"place-map-service/internal/domain"
)

// Contract for the external place/chat backend.
type PlaceBackend interface {
	// Return the backend health summary.
	Health(ctx context.Context) (domain.HealthInfo, error)
	// Return a single place by its identifier.
	GetPlace(ctx context.Context, id string) (domain.PlaceRecord, error)
	// Relay a chat message for a session.
	SendMessage(ctx context.Context, sessionID, message string) (domain.ChatReply, error)
	// Drop the backend conversation state of a session.
	ResetSession(ctx context.Context, sessionID string) error
}

// Optional extension of PlaceBackend that supports full-text search.
type PlaceSearcher interface {
	PlaceBackend
	SearchPlaces(ctx context.Context, query string, limit int) (domain.SearchResult, error)
}

var ErrSearchUnsupported = errors.New("backend does not support search")

// Non-2xx answer from the backend.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// Extract the HTTP status carried by err, if any.
func StatusCode(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code, true
	}
	return 0, false
}
