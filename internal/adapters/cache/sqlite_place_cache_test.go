package cache

import (
	"context"
	"database/sql"
	"place-map-service/internal/adapters/repositories"
	"place-map-service/internal/domain"
	"place-map-service/internal/platform/db"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.OpenSqlite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := repositories.InitSchema(conn); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return conn
}

func TestSqlitePlaceCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewSqlitePlaceCache(newTestDB(t), 0)

	rec := domain.PlaceRecord{"dp_id": "H1", "nazev": "Hrad Kost", "souradnice": []any{15.13, 50.49}}
	if err := c.PutMany(ctx, map[string]domain.PlaceRecord{"H1": rec}); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := c.Get(ctx, "H1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatalf("expected hit")
	}
	if got.Name() != "Hrad Kost" {
		t.Fatalf("name = %q, want %q", got.Name(), "Hrad Kost")
	}
}

func TestSqlitePlaceCacheMiss(t *testing.T) {
	c := NewSqlitePlaceCache(newTestDB(t), 0)

	_, ok, err := c.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatalf("expected miss")
	}
}

func TestSqlitePlaceCacheExpires(t *testing.T) {
	ctx := context.Background()
	c := NewSqlitePlaceCache(newTestDB(t), time.Hour)

	start := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return start }

	if err := c.PutMany(ctx, map[string]domain.PlaceRecord{"P1": {"dp_id": "P1"}}); err != nil {
		t.Fatalf("put: %v", err)
	}

	c.now = func() time.Time { return start.Add(30 * time.Minute) }
	if _, ok, _ := c.Get(ctx, "P1"); !ok {
		t.Fatalf("expected hit before ttl")
	}

	c.now = func() time.Time { return start.Add(2 * time.Hour) }
	if _, ok, _ := c.Get(ctx, "P1"); ok {
		t.Fatalf("expected miss after ttl")
	}
}

func TestSqlitePlaceCacheRejectsEmptyID(t *testing.T) {
	c := NewSqlitePlaceCache(newTestDB(t), 0)

	err := c.PutMany(context.Background(), map[string]domain.PlaceRecord{" ": {}})
	if err == nil {
		t.Fatalf("expected error for empty id")
	}
}

func TestSeedFromJSONFillsCache(t *testing.T) {
	ctx := context.Background()
	c := NewSqlitePlaceCache(newTestDB(t), 0)

	path := t.TempDir() + "/places.json"
	writeFile(t, path, `[{"dp_id":"A","nazev":"Alfa"},{"id":7,"nazev":"Sedm"}]`)

	n, err := repositories.SeedFromJSON(ctx, c, path)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n != 2 {
		t.Fatalf("seeded %d, want 2", n)
	}

	got, ok, err := c.Get(ctx, "7")
	if err != nil || !ok {
		t.Fatalf("get seeded id 7: ok=%v err=%v", ok, err)
	}
	if got.Name() != "Sedm" {
		t.Fatalf("name = %q, want %q", got.Name(), "Sedm")
	}
}
