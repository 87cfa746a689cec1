package ports

import (
	"context"
	"place-map-service/internal/domain"
)

// Delivers events to connected browsers.
type EventPublisher interface {
	Publish(ctx context.Context, ev domain.Event) error
}
