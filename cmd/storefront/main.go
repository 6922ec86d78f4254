package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jcmexdev/ecommerce-storefront/internal/coordinator"
	sagasqlite "github.com/jcmexdev/ecommerce-storefront/internal/coordinator/sagalog/sqlite"
	"github.com/jcmexdev/ecommerce-storefront/internal/messaging"
	"github.com/jcmexdev/ecommerce-storefront/internal/pkg/cache"
	"github.com/jcmexdev/ecommerce-storefront/internal/pkg/telemetry"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/ports"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/infra/httpx"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/infra/payment"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/infra/store"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/infra/view"
)

const serviceVersion = "1.0.0"

func main() {
	cfg, err := loadConfig()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	telemetry.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("storefront stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config) error {
	if cfg.OTLPEndpoint != "" {
		shutdown, err := telemetry.SetupTracer(ctx, telemetry.TracerConfig{
			ServiceName: cfg.ServiceName,
			Endpoint:    cfg.OTLPEndpoint,
			Environment: cfg.Environment,
			SampleRatio: cfg.SampleRatio,
		})
		if err != nil {
			return err
		}
		defer shutdownWithin(cfg.ShutdownTimeout, "tracer", shutdown)
	}

	metrics, shutdownMetrics, err := telemetry.InitMeterProvider(cfg.ServiceName, serviceVersion)
	if err != nil {
		return fmt.Errorf("telemetry: meter provider: %w", err)
	}
	defer shutdownWithin(cfg.ShutdownTimeout, "meter provider", shutdownMetrics)

	kv, closeKV, err := openKV(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeKV(); err != nil {
			slog.Error("failed to close store", "backend", cfg.StoreBackend, "error", err)
		}
	}()

	var (
		opts    []coordinator.Option
		sagaLog *sagasqlite.Repository
	)
	if cfg.CheckoutLogPath != "" {
		sagaLog, err = sagasqlite.Open(cfg.CheckoutLogPath)
		if err != nil {
			return fmt.Errorf("open checkout log: %w", err)
		}
		defer func() { _ = sagaLog.Close() }()
		opts = append(opts, coordinator.WithSagaLog(sagaLog))
	}
	if len(cfg.KafkaBrokers) > 0 {
		producer := messaging.NewProducer(cfg.KafkaBrokers, messaging.TopicOrderPlaced)
		defer func() { _ = producer.Close() }()
		opts = append(opts, coordinator.WithPublisher(producer))
	}

	checkoutCfg := coordinator.DefaultConfig()
	checkoutCfg.Key = cfg.PaymentKey
	checkoutCfg.NavigationDelay = cfg.NavigationDelay

	widget := payment.NewWidget(cfg.PaymentSecret)
	checkout := coordinator.NewCheckout(checkoutCfg, widget, opts...)

	renderer, err := view.NewRenderer()
	if err != nil {
		return err
	}

	handler := httpx.NewHandler(kv, checkout, widget, renderer, cfg.FlashTTL)
	if sagaLog != nil {
		handler.WithCheckoutLog(sagaLog)
	}
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpx.NewRouter(handler, metrics),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("storefront listening",
			"addr", srv.Addr,
			"store", cfg.StoreBackend,
			"kafka", len(cfg.KafkaBrokers) > 0,
			"checkout_log", cfg.CheckoutLogPath != "",
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openKV opens the configured backend. Remote and disk backends sit behind a
// circuit breaker.
func openKV(ctx context.Context, cfg Config) (ports.KV, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StoreBackend {
	case backendRedis:
		kv := store.NewRedis(cache.NewRedisCache(cfg.RedisAddr, cfg.ServiceName), cfg.RedisTTL)
		return store.NewBreaker(kv, store.BreakerSettings{Name: "kv-redis"}), noop, nil
	case backendSQLite:
		kv, err := store.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store.NewBreaker(kv, store.BreakerSettings{Name: "kv-sqlite"}), kv.Close, nil
	case backendPostgres:
		kv, err := store.OpenPostgres(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		return store.NewBreaker(kv, store.BreakerSettings{Name: "kv-postgres"}), kv.Close, nil
	default:
		return store.NewMemory(), noop, nil
	}
}

func shutdownWithin(timeout time.Duration, name string, shutdown telemetry.ShutdownFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		slog.Error("shutdown error", "component", name, "error", err)
	}
}
