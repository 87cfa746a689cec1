package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"place-map-service/internal/domain"
	"place-map-service/internal/ports"
	"strings"
)

// Initialize the place cache schema. The statements are valid for both
// SQLite and postgres.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createPlaceCacheQuery := `
	CREATE TABLE IF NOT EXISTS place_cache (
        place_id TEXT PRIMARY KEY,
        payload TEXT NOT NULL,
        fetched_at BIGINT NOT NULL
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_place_cache_fetched_at
    ON place_cache(fetched_at);
	`

	statements := []string{
		createPlaceCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Warm the place cache from a JSON file holding an array of place records
// (the backend's export format). Returns the number of records stored.
func SeedFromJSON(ctx context.Context, cache ports.PlaceCache, jsonPath string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed places: read %q: %w", jsonPath, err)
	}

	var data []domain.PlaceRecord
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed places: parse json: %w", err)
	}

	rows := make(map[string]domain.PlaceRecord, len(data))
	for i, rec := range data {
		id := strings.TrimSpace(rec.ID())
		if id == "" {
			return 0, fmt.Errorf("seed places: item at index %d: dp_id cannot be empty", i+1)
		}
		rows[id] = rec
	}

	if err := cache.PutMany(ctx, rows); err != nil {
		return 0, fmt.Errorf("seed places: %w", err)
	}

	return len(rows), nil
}
