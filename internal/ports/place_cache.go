package ports

import (
	"context"
	"place-map-service/internal/domain"
)

// Port: persistent cache of place records keyed by place id.
type PlaceCache interface {
	// Return the cached record. ok is false on a miss or an expired entry.
	Get(ctx context.Context, id string) (rec domain.PlaceRecord, ok bool, err error)
	// Store records keyed by their id.
	PutMany(ctx context.Context, records map[string]domain.PlaceRecord) error
}
