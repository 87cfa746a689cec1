package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"place-map-service/internal/domain"
	"place-map-service/internal/platform/obs"
	"strings"
	"time"
)

// SQLPlaceCache is a postgres-backed cache mapping place ids to records.
type SQLPlaceCache struct {
	DB  *sql.DB
	TTL time.Duration
	now func() time.Time
}

func NewSQLPlaceCache(db *sql.DB, ttl time.Duration) *SQLPlaceCache {
	return &SQLPlaceCache{DB: db, TTL: ttl, now: time.Now}
}

// Fetch the cached record for id.
func (s *SQLPlaceCache) Get(ctx context.Context, id string) (_ domain.PlaceRecord, _ bool, err error) {
	defer obs.Time(ctx, "place.cache.sql.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("place cache: db is nil")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false, nil
	}

	var payload string
	var fetchedAt int64
	err = s.DB.QueryRowContext(ctx, `
	SELECT payload, fetched_at
    FROM place_cache
    WHERE place_id = $1;
	`, id).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get place cache: query place_cache table: %w", err)
	}

	return decodeEntry(payload, fetchedAt, s.TTL, s.now())
}

// Store id -> record mappings in the cache.
func (s *SQLPlaceCache) PutMany(ctx context.Context, records map[string]domain.PlaceRecord) (err error) {
	defer obs.Time(ctx, "place.cache.sql.PutMany")(&err)

	if s.DB == nil {
		return errors.New("place cache: db is nil")
	}

	if len(records) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert place cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO place_cache (place_id, payload, fetched_at)
    VALUES ($1, $2, $3)
	ON CONFLICT (place_id) DO UPDATE
	SET payload = EXCLUDED.payload,
		fetched_at = EXCLUDED.fetched_at;
	`)
	if err != nil {
		return fmt.Errorf("insert place cache: db prepare: %w", err)
	}
	defer stmt.Close()

	fetchedAt := s.now().Unix()
	for id, rec := range records {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("insert place cache: empty place id")
		}

		payload, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("insert place cache id=%q: encode: %w", id, err)
		}

		if _, err := stmt.ExecContext(ctx, id, string(payload), fetchedAt); err != nil {
			return fmt.Errorf("insert place cache id=%q: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert place cache commit: %w", err)
	}

	return nil
}
