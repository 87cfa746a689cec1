package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"place-map-service/internal/adapters/backend"
	"place-map-service/internal/adapters/cache"
	"place-map-service/internal/adapters/commands"
	"place-map-service/internal/adapters/events"
	"place-map-service/internal/adapters/repositories"
	"place-map-service/internal/api"
	"place-map-service/internal/config"
	"place-map-service/internal/domain"
	"place-map-service/internal/platform/db"
	"place-map-service/internal/platform/graceful"
	"place-map-service/internal/platform/logging"
	"place-map-service/internal/platform/tracing"
	"place-map-service/internal/ports"
	"place-map-service/internal/services"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

const (
	serviceName    = "place-map-service"
	backendTimeout = 30 * time.Second
)

var serviceVersion = "dev"

// main is the application composition root.
// It wires concrete adapters (backend HTTP, caches, command sources, SSE)
// behind ports and starts the HTTP server and background workers.
func main() {
	envErr := config.Load()

	ctx, logger := logging.NewLogger(context.Background(), serviceName, serviceVersion, config.Get("LOG_LEVEL", "info"))
	if envErr != nil {
		logger.Warn().Err(envErr).Msg("could not load .env, using environment variables")
	}

	settings, err := config.FromEnv()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, cancel := graceful.Context(ctx)
	defer cancel()

	if err := run(ctx, logger, settings); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, logger zerolog.Logger, s config.Settings) error {
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	fileCfg, err := config.LoadFile(s.ConfigFile)
	if err != nil {
		return err
	}

	cleanup, err := tracing.Init(ctx, logger, s.OtelEndpoint, serviceName, serviceVersion)
	if err != nil {
		return err
	}
	defer cleanup()

	httpBackend, err := backend.NewHTTPBackend(s.BackendURL, backendTimeout)
	if err != nil {
		return err
	}

	placeBackend, closeCache, err := withPlaceCache(ctx, logger, httpBackend, s)
	if err != nil {
		return err
	}
	defer closeCache()

	renderOpts, mapDefaults, err := mapSettings(fileCfg)
	if err != nil {
		return err
	}
	commandInterval, err := config.Duration(fileCfg.Polling.Commands, 2*time.Second)
	if err != nil {
		return fmt.Errorf("polling.commands: %w", err)
	}
	healthInterval, err := config.Duration(fileCfg.Polling.Health, 30*time.Second)
	if err != nil {
		return fmt.Errorf("polling.health: %w", err)
	}
	idleTimeout, err := config.Duration(fileCfg.Chat.IdleTimeout, 30*time.Minute)
	if err != nil {
		return fmt.Errorf("chat.idleTimeout: %w", err)
	}
	sweepInterval, err := config.Duration(fileCfg.Chat.SweepInterval, time.Minute)
	if err != nil {
		return fmt.Errorf("chat.sweepInterval: %w", err)
	}

	publisher := events.NewSSEPublisher()

	renderer := services.NewMapRenderer(renderOpts)
	details := services.NewDetailService(placeBackend)
	chat := services.NewChatService(placeBackend, renderer, details, publisher, services.ChatOptions{
		MessagesPerMinute: fileCfg.Chat.MessagesPerMinute,
		Burst:             fileCfg.Chat.Burst,
		IdleTimeout:       idleTimeout,
		SweepInterval:     sweepInterval,
	})
	health := services.NewHealthMonitor(placeBackend, publisher, healthInterval)

	watcherOpts, closeCommands, err := commandOptions(s, commandInterval)
	if err != nil {
		return err
	}
	defer closeCommands()
	watcher := services.NewCommandWatcher(details, renderer, publisher, watcherOpts)

	var workers sync.WaitGroup
	workers.Add(3)
	go func() { defer workers.Done(); health.Run(ctx) }()
	go func() { defer workers.Done(); watcher.Run(ctx) }()
	go func() { defer workers.Done(); chat.Run(ctx) }()

	router := api.NewRouter(api.Deps{
		ServiceName:    serviceName,
		AllowedOrigins: s.AllowedOrigins,
		Logger:         logger,
		Chat:           chat,
		Details:        details,
		Renderer:       renderer,
		Health:         health,
		Events:         publisher,
		Map:            mapDefaults,
	})

	srv := &http.Server{
		Addr:              ":" + s.Port,
		Handler:           router,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Str("backend", s.BackendURL).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Event streams stay open until the publisher closes them.
	publisher.Shutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("http shutdown")
	}

	stop()
	workers.Wait()
	chat.Wait()
	logger.Info().Msg("shutdown complete")
	return nil
}

// withPlaceCache wraps the backend with the configured place cache and
// optionally warms it from a seed file.
func withPlaceCache(ctx context.Context, logger zerolog.Logger, b *backend.HTTPBackend, s config.Settings) (ports.PlaceBackend, func(), error) {
	noop := func() {}

	var placeCache ports.PlaceCache
	closeFn := noop

	switch s.PlaceCache {
	case config.CacheNone:
		return b, noop, nil
	case config.CacheSqlite:
		conn, err := db.OpenSqlite(s.DBPath)
		if err != nil {
			return nil, noop, err
		}
		if err := repositories.InitSchema(conn); err != nil {
			conn.Close()
			return nil, noop, err
		}
		placeCache = cache.NewSqlitePlaceCache(conn, s.PlaceCacheTTL)
		closeFn = closer(conn)
	case config.CachePostgres:
		conn, err := db.Open(s.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		placeCache = cache.NewSQLPlaceCache(conn, s.PlaceCacheTTL)
		closeFn = closer(conn)
	case config.CacheRedis:
		client := redis.NewClient(&redis.Options{Addr: s.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, noop, fmt.Errorf("connect redis %s: %w", s.RedisAddr, err)
		}
		placeCache = cache.NewRedisPlaceCache(client, s.PlaceCacheTTL)
		closeFn = func() { _ = client.Close() }
	}

	if s.PlaceSeedPath != "" {
		n, err := repositories.SeedFromJSON(ctx, placeCache, s.PlaceSeedPath)
		if err != nil {
			closeFn()
			return nil, noop, err
		}
		logger.Info().Int("places", n).Str("cache", s.PlaceCache).Msg("place cache seeded")
	}

	logger.Info().Str("cache", s.PlaceCache).Dur("ttl", s.PlaceCacheTTL).Msg("place cache enabled")
	return backend.NewCachingBackend(b, placeCache), closeFn, nil
}

func closer(conn *sql.DB) func() {
	return func() { _ = conn.Close() }
}

func commandOptions(s config.Settings, interval time.Duration) (services.CommandWatcherOptions, func(), error) {
	opts := services.CommandWatcherOptions{Interval: interval}
	noop := func() {}

	switch s.CommandSource {
	case config.CommandsFile:
		opts.Source = commands.NewFileSource(s.CommandFile)
	case config.CommandsHTTP:
		opts.Source = commands.NewHTTPSource(s.CommandURL, 5*time.Second)
	case config.CommandsS3:
		src, err := commands.NewS3Source(s.CommandBucket, s.CommandObject)
		if err != nil {
			return opts, noop, err
		}
		opts.Source = src
	case config.CommandsKafka:
		stream := commands.NewKafkaStream(s.KafkaBroker, s.KafkaTopic, s.KafkaGroupID)
		opts.Stream = stream
		return opts, func() { _ = stream.Close() }, nil
	}

	return opts, noop, nil
}

func mapSettings(f config.FileConfig) (services.RenderOptions, domain.MapDefaults, error) {
	defaults := domain.MapDefaults{
		Center: domain.Coordinates{Lat: 50.2099, Lon: 15.8325},
		Zoom:   11,
	}
	if len(f.Map.Center) == 2 {
		defaults.Center = domain.Coordinates{Lat: f.Map.Center[0], Lon: f.Map.Center[1]}
		if !defaults.Center.Valid() {
			return services.RenderOptions{}, defaults, fmt.Errorf("map.center %v is out of range", f.Map.Center)
		}
	}
	if f.Map.Zoom > 0 {
		defaults.Zoom = f.Map.Zoom
	}

	opts := services.RenderOptions{FocusZoom: f.Map.FocusZoom}
	if len(f.Map.Padding) == 2 {
		opts.Padding = [2]int{f.Map.Padding[0], f.Map.Padding[1]}
	}

	var err error
	if opts.FlyDuration, err = config.Duration(f.Map.FlyDuration, 0); err != nil {
		return opts, defaults, fmt.Errorf("map.flyDuration: %w", err)
	}
	if opts.PopupDelay, err = config.Duration(f.Map.PopupDelay, 0); err != nil {
		return opts, defaults, fmt.Errorf("map.popupDelay: %w", err)
	}

	return opts, defaults, nil
}
