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

// SQLite backed cache mapping place ids to backend records.
// Entries older than TTL are treated as misses; a zero TTL never expires.
type SqlitePlaceCache struct {
	DB  *sql.DB
	TTL time.Duration
	now func() time.Time
}

func NewSqlitePlaceCache(db *sql.DB, ttl time.Duration) *SqlitePlaceCache {
	return &SqlitePlaceCache{DB: db, TTL: ttl, now: time.Now}
}

// Fetch the cached record for id.
func (s *SqlitePlaceCache) Get(ctx context.Context, id string) (_ domain.PlaceRecord, _ bool, err error) {
	defer obs.Time(ctx, "place.cache.sqlite.Get")(&err)

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
	SELECT
        payload,
        fetched_at
    FROM place_cache
    WHERE place_id = ?;
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
func (s *SqlitePlaceCache) PutMany(ctx context.Context, records map[string]domain.PlaceRecord) (err error) {
	defer obs.Time(ctx, "place.cache.sqlite.PutMany")(&err)

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
	INSERT OR REPLACE INTO place_cache (
        place_id,
        payload,
        fetched_at
    )
    VALUES (?, ?, ?);
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

func decodeEntry(payload string, fetchedAt int64, ttl time.Duration, now time.Time) (domain.PlaceRecord, bool, error) {
	if ttl > 0 && now.Sub(time.Unix(fetchedAt, 0)) > ttl {
		return nil, false, nil
	}

	var rec domain.PlaceRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return nil, false, fmt.Errorf("get place cache: decode payload: %w", err)
	}
	return rec, true, nil
}
