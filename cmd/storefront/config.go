package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	backendMemory   = "memory"
	backendRedis    = "redis"
	backendSQLite   = "sqlite"
	backendPostgres = "postgres"
)

type Config struct {
	Port            string
	StoreBackend    string
	RedisAddr       string
	RedisTTL        time.Duration
	SQLitePath      string
	PostgresURL     string
	KafkaBrokers    []string
	CheckoutLogPath string

	PaymentKey      string
	PaymentSecret   string
	NavigationDelay time.Duration
	FlashTTL        time.Duration

	ServiceName     string
	OTLPEndpoint    string
	Environment     string
	SampleRatio     float64
	LogLevel        slog.Level
	ShutdownTimeout time.Duration
}

func loadConfig() (Config, error) {
	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		StoreBackend:    strings.ToLower(getEnv("STORE_BACKEND", backendMemory)),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		SQLitePath:      getEnv("SQLITE_PATH", "storefront.db"),
		PostgresURL:     os.Getenv("POSTGRES_URL"),
		KafkaBrokers:    splitList(os.Getenv("KAFKA_BROKERS")),
		CheckoutLogPath: os.Getenv("CHECKOUT_LOG_PATH"),
		PaymentKey:      getEnv("RAZORPAY_KEY_ID", "rzp_test_hkQ8kyfqkMQNiq"),
		PaymentSecret:   getEnv("PAYMENT_SECRET", "storefront-dev-secret"),
		ServiceName:     getEnv("OTEL_SERVICE_NAME", "storefront"),
		OTLPEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		Environment:     getEnv("ENVIRONMENT", "development"),
	}

	var err error
	if cfg.RedisTTL, err = getDuration("REDIS_TTL", 30*24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.NavigationDelay, err = getDuration("NAVIGATION_DELAY", 2*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.FlashTTL, err = getDuration("FLASH_TTL", 5*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if v := os.Getenv("OTEL_TRACES_SAMPLER_ARG"); v != "" {
		ratio, err := strconv.ParseFloat(v, 64)
		if err != nil || ratio < 0 || ratio > 1 {
			return Config{}, fmt.Errorf("OTEL_TRACES_SAMPLER_ARG: want a ratio in [0,1], got %q", v)
		}
		cfg.SampleRatio = ratio
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	switch cfg.StoreBackend {
	case backendMemory, backendRedis, backendSQLite:
	case backendPostgres:
		if cfg.PostgresURL == "" {
			return Config{}, fmt.Errorf("POSTGRES_URL is required for the %s backend", backendPostgres)
		}
	default:
		return Config{}, fmt.Errorf("STORE_BACKEND: unknown backend %q", cfg.StoreBackend)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
