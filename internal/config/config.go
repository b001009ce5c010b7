package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the whole application configuration.
type Config struct {
	Port string

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     int

	JWTSecret string

	GoEnv string // dev/prod

	// Scheduler cadence. DailySyncInterval of 0 disables the second job.
	SyncInterval      time.Duration
	DailySyncInterval time.Duration

	// Upper bound for concurrent per-product syncs during a bulk run.
	SyncConcurrency int

	// Webhook verification secrets. Empty disables the check for that
	// channel.
	ShopifyWebhookSecret string
	MercadoLibreSecret   string
	TiendaNubeToken      string

	// Simulated latency for the mock channel adapters.
	AdapterLatency time.Duration
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	pgPort, err := mustAtoi("POSTGRES_PORT")
	if err != nil {
		return Config{}, err
	}

	syncInterval, err := durationOr("SYNC_INTERVAL", 15*time.Minute)
	if err != nil {
		return Config{}, err
	}
	dailyInterval, err := durationOr("DAILY_SYNC_INTERVAL", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	adapterLatency, err := durationOr("ADAPTER_LATENCY", 0)
	if err != nil {
		return Config{}, err
	}
	syncConcurrency, err := intOr("SYNC_CONCURRENCY", 4)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: os.Getenv("PORT"),

		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresPort:     pgPort,

		JWTSecret: os.Getenv("JWT_SECRET"),

		GoEnv: os.Getenv("GO_ENV"),

		SyncInterval:      syncInterval,
		DailySyncInterval: dailyInterval,
		SyncConcurrency:   syncConcurrency,

		ShopifyWebhookSecret: os.Getenv("SHOPIFY_WEBHOOK_SECRET"),
		MercadoLibreSecret:   os.Getenv("ML_SECRET_KEY"),
		TiendaNubeToken:      os.Getenv("TIENDANUBE_ACCESS_TOKEN"),

		AdapterLatency: adapterLatency,
	}

	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.PostgresUser == "" {
		return Config{}, fmt.Errorf("POSTGRES_USER is required")
	}
	if cfg.PostgresPassword == "" {
		return Config{}, fmt.Errorf("POSTGRES_PASSWORD is required")
	}
	if cfg.PostgresDB == "" {
		return Config{}, fmt.Errorf("POSTGRES_DB is required")
	}
	if cfg.PostgresHost == "" {
		return Config{}, fmt.Errorf("POSTGRES_HOST is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.GoEnv == "" {
		return Config{}, fmt.Errorf("GO_ENV is required")
	}
	if cfg.SyncConcurrency < 1 {
		return Config{}, fmt.Errorf("SYNC_CONCURRENCY must be >= 1")
	}

	return cfg, nil
}

func mustAtoi(key string) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func intOr(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func durationOr(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like 15m: %w", key, err)
	}
	return d, nil
}
