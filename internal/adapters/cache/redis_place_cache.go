package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"place-map-service/internal/domain"
	"place-map-service/internal/platform/obs"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "place:"

// RedisPlaceCache keeps place records as JSON strings; expiry is left to redis.
type RedisPlaceCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisPlaceCache(client *redis.Client, ttl time.Duration) *RedisPlaceCache {
	return &RedisPlaceCache{Client: client, TTL: ttl}
}

func (r *RedisPlaceCache) Get(ctx context.Context, id string) (_ domain.PlaceRecord, _ bool, err error) {
	defer obs.Time(ctx, "place.cache.redis.Get")(&err)

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false, nil
	}

	payload, err := r.Client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get place cache: redis get %q: %w", id, err)
	}

	var rec domain.PlaceRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, false, fmt.Errorf("get place cache: decode payload: %w", err)
	}
	return rec, true, nil
}

func (r *RedisPlaceCache) PutMany(ctx context.Context, records map[string]domain.PlaceRecord) (err error) {
	defer obs.Time(ctx, "place.cache.redis.PutMany")(&err)

	if len(records) == 0 {
		return nil
	}

	pipe := r.Client.TxPipeline()
	for id, rec := range records {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("insert place cache: empty place id")
		}

		payload, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("insert place cache id=%q: encode: %w", id, err)
		}
		pipe.Set(ctx, redisKeyPrefix+id, payload, r.TTL)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert place cache: redis exec: %w", err)
	}
	return nil
}
