package main

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "STORE_BACKEND", "POSTGRES_URL", "KAFKA_BROKERS", "NAVIGATION_DELAY",
		"FLASH_TTL", "LOG_LEVEL", "RAZORPAY_KEY_ID", "CHECKOUT_LOG_PATH",
	} {
		t.Setenv(key, "")
	}

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, backendMemory, cfg.StoreBackend)
	assert.Equal(t, "rzp_test_hkQ8kyfqkMQNiq", cfg.PaymentKey)
	assert.Equal(t, 2*time.Second, cfg.NavigationDelay)
	assert.Equal(t, 5*time.Second, cfg.FlashTTL)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Empty(t, cfg.CheckoutLogPath)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STORE_BACKEND", "Postgres")
	t.Setenv("POSTGRES_URL", "postgres://localhost/storefront")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("NAVIGATION_DELAY", "500ms")
	t.Setenv("FLASH_TTL", "10s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.25")

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, backendPostgres, cfg.StoreBackend)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 500*time.Millisecond, cfg.NavigationDelay)
	assert.Equal(t, 10*time.Second, cfg.FlashTTL)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.InDelta(t, 0.25, cfg.SampleRatio, 1e-9)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "unknown backend",
			env:  map[string]string{"STORE_BACKEND": "mongo"},
			want: `STORE_BACKEND: unknown backend "mongo"`,
		},
		{
			name: "postgres without url",
			env:  map[string]string{"STORE_BACKEND": "postgres", "POSTGRES_URL": ""},
			want: "POSTGRES_URL is required for the postgres backend",
		},
		{
			name: "bad duration",
			env:  map[string]string{"STORE_BACKEND": "", "NAVIGATION_DELAY": "soon"},
			want: "NAVIGATION_DELAY",
		},
		{
			name: "bad log level",
			env:  map[string]string{"STORE_BACKEND": "", "NAVIGATION_DELAY": "", "LOG_LEVEL": "loud"},
			want: "LOG_LEVEL",
		},
		{
			name: "sample ratio out of range",
			env:  map[string]string{"STORE_BACKEND": "", "OTEL_TRACES_SAMPLER_ARG": "2"},
			want: "OTEL_TRACES_SAMPLER_ARG",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := loadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestOpenKV_Memory(t *testing.T) {
	kv, closeKV, err := openKV(t.Context(), Config{StoreBackend: backendMemory})
	require.NoError(t, err)
	require.NoError(t, closeKV())

	require.NoError(t, kv.Set(t.Context(), "k", []byte("v")))
	got, err := kv.Get(t.Context(), "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestOpenKV_SQLite(t *testing.T) {
	kv, closeKV, err := openKV(t.Context(), Config{StoreBackend: backendSQLite, SQLitePath: t.TempDir() + "/kv.db"})
	require.NoError(t, err)
	defer func() { _ = closeKV() }()

	require.NoError(t, kv.Set(t.Context(), "k", []byte("v")))
	got, err := kv.Get(t.Context(), "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}
