package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type StorageBackend string

const (
	StoragePostgres StorageBackend = "postgres"
	StorageRedis    StorageBackend = "redis"
	StorageMemory   StorageBackend = "memory"
)

type Config struct {
	AppEnv   string
	LogLevel string
	HTTPPort int

	CatalogURL     string
	CatalogTimeout time.Duration

	StorageBackend StorageBackend
	DatabaseURL    string
	RedisAddr      string

	SessionIdleTimeout time.Duration
	SessionSweepEvery  time.Duration

	OTLPEndpoint string
}

func Load() (Config, error) {
	cfg := Config{
		AppEnv:         getEnv("APP_ENV", "dev"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		HTTPPort:       getEnvInt("HTTP_PORT", 8080),
		CatalogURL:     getEnv("CATALOG_URL", "http://localhost:3333"),
		CatalogTimeout: getEnvDuration("CATALOG_TIMEOUT", 5*time.Second),
		StorageBackend: StorageBackend(getEnv("STORAGE_BACKEND", string(StorageMemory))),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		OTLPEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),

		SessionIdleTimeout: getEnvDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute),
		SessionSweepEvery:  getEnvDuration("SESSION_SWEEP_INTERVAL", time.Minute),
	}

	switch cfg.StorageBackend {
	case StorageMemory, StorageRedis:
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required for storage backend %s", cfg.StorageBackend)
		}
	default:
		return Config{}, fmt.Errorf("storage backend[%s] is not supported", cfg.StorageBackend)
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}

	return d
}
