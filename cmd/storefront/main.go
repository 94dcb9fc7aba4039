package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront-cart/internal/cart"
	"github.com/nikolayk812/storefront-cart/internal/catalog"
	"github.com/nikolayk812/storefront-cart/internal/config"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/httpapi"
	"github.com/nikolayk812/storefront-cart/internal/logging"
	"github.com/nikolayk812/storefront-cart/internal/notify"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"github.com/nikolayk812/storefront-cart/internal/repository"
	"github.com/nikolayk812/storefront-cart/internal/session"
	"github.com/nikolayk812/storefront-cart/internal/telemetry"
	"github.com/sirupsen/logrus"
)

const version = "v1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config.Load: %v\n", err)
		os.Exit(1)
	}

	log := logging.New("storefront", cfg.AppEnv, cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("storefront stopped")
	}
}

func run(cfg config.Config, log *logrus.Entry) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.InitTracerProvider(ctx, "storefront", version, cfg.OTLPEndpoint, os.Stderr)
	if err != nil {
		return fmt.Errorf("telemetry.InitTracerProvider: %w", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.WithError(err).Warn("tracer provider shutdown failed")
		}
	}()

	snapshots, closeStore, err := openSnapshotStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("openSnapshotStore: %w", err)
	}
	defer closeStore()
	log.WithField("backend", cfg.StorageBackend).Info("snapshot store ready")

	catalogClient, err := catalog.NewClient(cfg.CatalogURL, cfg.CatalogTimeout)
	if err != nil {
		return fmt.Errorf("catalog.NewClient: %w", err)
	}

	registry := session.NewRegistry(func(ctx context.Context, sessionID string) (*cart.Store, error) {
		store, err := cart.New(ctx, sessionID, catalogClient, snapshots, cart.WithLogger(log))
		if err != nil {
			return nil, err
		}

		store.Subscribe(func(c domain.Cart) {
			log.WithFields(logrus.Fields{
				"owner_id":     sessionID,
				"line_items":   len(c.Items),
				"total_amount": c.TotalAmount(),
			}).Debug("cart changed")
		})

		return store, nil
	})

	go registry.Run(ctx, cfg.SessionSweepEvery, cfg.SessionIdleTimeout)

	reporter := notify.NewReporter(notify.NewLogSink(log))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           httpapi.NewStorefrontRouter(registry, reporter, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return serve(ctx, srv, log)
}

func openSnapshotStore(ctx context.Context, cfg config.Config) (port.SnapshotStore, func(), error) {
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("pgxpool.New: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("pool.Ping: %w", err)
		}
		return repository.NewSnapshot(pool), pool.Close, nil

	case config.StorageRedis:
		client := repository.NewRedisClient(cfg.RedisAddr)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("client.Ping: %w", err)
		}
		return repository.NewRedisSnapshot(client), func() { _ = client.Close() }, nil

	default:
		return repository.NewMemorySnapshot(), func() {}, nil
	}
}

func serve(ctx context.Context, srv *http.Server, log *logrus.Entry) error {
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("srv.ListenAndServe: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("srv.Shutdown: %w", err)
	}

	return nil
}
