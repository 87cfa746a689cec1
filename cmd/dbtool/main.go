package main

import (
	"context"
	"database/sql"
	"place-map-service/internal/adapters/cache"
	"place-map-service/internal/adapters/repositories"
	"place-map-service/internal/config"
	"place-map-service/internal/platform/db"
	"place-map-service/internal/platform/logging"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
)

// dbtool prepares the postgres place cache: it creates the schema and,
// when PLACE_SEED_PATH is set, loads a place export into it.
func main() {
	envErr := config.Load()

	ctx, logger := logging.NewLogger(context.Background(), "place-map-dbtool", "dev", config.Get("LOG_LEVEL", "info"))
	if envErr != nil {
		logger.Warn().Err(envErr).Msg("could not load .env, using environment variables")
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		logger.Fatal().Msg("DATABASE_URL is required")
	}

	conn, err := db.Open(databaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("open database")
	}
	defer conn.Close()

	seedPath := config.Get("PLACE_SEED_PATH", "")
	if err := initAndSeed(ctx, logger, conn, seedPath); err != nil {
		logger.Fatal().Err(err).Msg("dbtool failed")
	}
}

func initAndSeed(ctx context.Context, logger zerolog.Logger, conn *sql.DB, seedPath string) error {
	logger.Info().Msg("initializing database schema")
	if err := repositories.InitSchema(conn); err != nil {
		return err
	}
	logger.Info().Msg("schema ready")

	if seedPath == "" {
		return nil
	}

	logger.Info().Str("path", seedPath).Msg("seeding place cache")
	n, err := repositories.SeedFromJSON(ctx, cache.NewSQLPlaceCache(conn, 0), seedPath)
	if err != nil {
		return err
	}
	logger.Info().Int("places", n).Msg("seeding complete")

	return nil
}
