package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	CacheNone     = "none"
	CacheSqlite   = "sqlite"
	CachePostgres = "postgres"
	CacheRedis    = "redis"

	CommandsNone  = "none"
	CommandsFile  = "file"
	CommandsHTTP  = "http"
	CommandsS3    = "s3"
	CommandsKafka = "kafka"
)

// Process settings read from the environment.
type Settings struct {
	Port           string
	BackendURL     string
	AllowedOrigins []string
	ConfigFile     string
	OtelEndpoint   string

	PlaceCache    string
	DBPath        string
	DatabaseURL   string
	RedisAddr     string
	PlaceCacheTTL time.Duration
	PlaceSeedPath string

	CommandSource string
	CommandFile   string
	CommandURL    string
	CommandBucket string
	CommandObject string
	KafkaBroker   string
	KafkaTopic    string
	KafkaGroupID  string
}

func FromEnv() (Settings, error) {
	s := Settings{
		Port:           Get("PORT", "8080"),
		BackendURL:     strings.TrimRight(Get("BACKEND_URL", "http://localhost:5000"), "/"),
		AllowedOrigins: GetList("ALLOWED_ORIGINS", "*"),
		ConfigFile:     Get("CONFIG_FILE", ""),
		OtelEndpoint:   Get("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		PlaceCache:    strings.ToLower(Get("PLACE_CACHE", CacheNone)),
		DBPath:        Get("DB_PATH", "data/places.db"),
		DatabaseURL:   Get("DATABASE_URL", ""),
		RedisAddr:     Get("REDIS_ADDR", "localhost:6379"),
		PlaceSeedPath: Get("PLACE_SEED_PATH", ""),

		CommandSource: strings.ToLower(Get("COMMAND_SOURCE", CommandsNone)),
		CommandFile:   Get("COMMAND_FILE", "chatbot_command.json"),
		CommandURL:    Get("COMMAND_URL", ""),
		CommandBucket: Get("COMMAND_BUCKET", "chatbot"),
		CommandObject: Get("COMMAND_OBJECT", "chatbot_command.json"),
		KafkaBroker:   Get("KAFKA_BROKER", "localhost:9092"),
		KafkaTopic:    Get("KAFKA_TOPIC", "chatbot-commands"),
		KafkaGroupID:  Get("KAFKA_GROUP_ID", "place-map-service"),
	}

	ttl, err := GetDuration("PLACE_CACHE_TTL", 24*time.Hour)
	if err != nil {
		return Settings{}, err
	}
	s.PlaceCacheTTL = ttl

	switch s.PlaceCache {
	case CacheNone, CacheSqlite, CacheRedis:
	case CachePostgres:
		if s.DatabaseURL == "" {
			return Settings{}, fmt.Errorf("config: DATABASE_URL is required for PLACE_CACHE=%s", s.PlaceCache)
		}
	default:
		return Settings{}, fmt.Errorf("config: unknown PLACE_CACHE %q", s.PlaceCache)
	}

	switch s.CommandSource {
	case CommandsNone, CommandsFile, CommandsS3, CommandsKafka:
	case CommandsHTTP:
		if s.CommandURL == "" {
			return Settings{}, fmt.Errorf("config: COMMAND_URL is required for COMMAND_SOURCE=%s", s.CommandSource)
		}
	default:
		return Settings{}, fmt.Errorf("config: unknown COMMAND_SOURCE %q", s.CommandSource)
	}

	return s, nil
}
