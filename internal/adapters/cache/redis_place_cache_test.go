package cache

import (
	"context"
	"os"
	"place-map-service/internal/domain"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/matryer/is"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisPlaceCacheRoundTrip(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	_, client := newTestRedis(t)
	c := NewRedisPlaceCache(client, 0)

	err := c.PutMany(ctx, map[string]domain.PlaceRecord{
		"K1": {"dp_id": "K1", "nazev": "Kino Luna"},
		"K2": {"dp_id": "K2", "nazev": "Kino Sféra"},
	})
	is.NoErr(err)

	got, ok, err := c.Get(ctx, "K2")
	is.NoErr(err)
	is.True(ok)
	is.Equal(got.Name(), "Kino Sféra")

	_, ok, err = c.Get(ctx, "K3")
	is.NoErr(err)
	is.True(!ok)
}

func TestRedisPlaceCacheExpires(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	mr, client := newTestRedis(t)
	c := NewRedisPlaceCache(client, time.Minute)

	is.NoErr(c.PutMany(ctx, map[string]domain.PlaceRecord{"W1": {"dp_id": "W1"}}))
	is.True(mr.Exists(redisKeyPrefix + "W1"))

	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, "W1")
	is.NoErr(err)
	is.True(!ok)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
