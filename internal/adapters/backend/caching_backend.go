package backend

import (
	"context"
	"fmt"
	"place-map-service/internal/domain"
	"place-map-service/internal/platform/logging"
	"place-map-service/internal/ports"
	"time"

	"golang.org/x/sync/singleflight"
)

const defaultSharedFetchTimeout = 15 * time.Second

// CachingBackend serves places from a PlaceCache and collapses concurrent
// lookups of the same id into one backend call. Cache failures are logged
// and never fail a request.
//
// The shared backend call is not bound to any single caller: each caller
// stops waiting when its own context ends while the fetch keeps going for
// the others, up to FetchTimeout.
type CachingBackend struct {
	ports.PlaceBackend
	cache ports.PlaceCache
	group singleflight.Group

	FetchTimeout time.Duration
}

func NewCachingBackend(inner ports.PlaceBackend, cache ports.PlaceCache) *CachingBackend {
	return &CachingBackend{PlaceBackend: inner, cache: cache, FetchTimeout: defaultSharedFetchTimeout}
}

func (c *CachingBackend) GetPlace(ctx context.Context, id string) (domain.PlaceRecord, error) {
	logger := logging.GetFromContext(ctx)

	if rec, ok, err := c.cache.Get(ctx, id); err != nil {
		logger.Warn().Err(err).Str("id", id).Msg("place cache read failed")
	} else if ok {
		return rec, nil
	}

	ch := c.group.DoChan(id, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout())
		defer cancel()

		rec, err := c.PlaceBackend.GetPlace(fetchCtx, id)
		if err != nil {
			return nil, err
		}
		if err := c.cache.PutMany(fetchCtx, map[string]domain.PlaceRecord{id: rec}); err != nil {
			logger.Warn().Err(err).Str("id", id).Msg("place cache write failed")
		}
		return rec, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			logger.Debug().Str("id", id).Msg("place fetch shared")
		}
		return res.Val.(domain.PlaceRecord), nil
	}
}

func (c *CachingBackend) fetchTimeout() time.Duration {
	if c.FetchTimeout <= 0 {
		return defaultSharedFetchTimeout
	}
	return c.FetchTimeout
}

// SearchPlaces delegates to the wrapped backend and caches every returned place.
func (c *CachingBackend) SearchPlaces(ctx context.Context, query string, limit int) (domain.SearchResult, error) {
	searcher, ok := c.PlaceBackend.(ports.PlaceSearcher)
	if !ok {
		return domain.SearchResult{}, ports.ErrSearchUnsupported
	}

	res, err := searcher.SearchPlaces(ctx, query, limit)
	if err != nil {
		return domain.SearchResult{}, err
	}

	batch := make(map[string]domain.PlaceRecord, len(res.Places))
	for _, p := range res.Places {
		if id := p.ID(); id != "" {
			batch[id] = p
		}
	}
	if err := c.cache.PutMany(ctx, batch); err != nil {
		logger := logging.GetFromContext(ctx)
		logger.Warn().Err(fmt.Errorf("cache search results: %w", err)).Msg("place cache write failed")
	}

	return res, nil
}
