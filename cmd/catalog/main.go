package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront-cart/internal/config"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/httpapi"
	"github.com/nikolayk812/storefront-cart/internal/logging"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"github.com/nikolayk812/storefront-cart/internal/repository"
	"github.com/nikolayk812/storefront-cart/internal/telemetry"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/currency"
)

const version = "v1.0.0"

type seedProduct struct {
	product domain.Product
	stock   int
}

var demoCatalog = []seedProduct{
	{product: demoProduct(1, "Tênis de Caminhada Leve Confortável", "179.90"), stock: 3},
	{product: demoProduct(2, "Tênis VR Caminhada Confortável Detalhes Couro Masculino", "139.90"), stock: 5},
	{product: demoProduct(3, "Tênis Adidas Duramo Lite 2.0", "219.90"), stock: 2},
	{product: demoProduct(5, "Tênis VR Caminhada Confortável Detalhes Couro Masculino", "139.90"), stock: 5},
	{product: demoProduct(6, "Tênis Adidas Duramo Lite 2.0", "219.90"), stock: 10},
	{product: demoProduct(4, "Tênis de Caminhada Leve Confortável", "179.90"), stock: 1},
}

func demoProduct(id int64, title, price string) domain.Product {
	return domain.Product{
		ID:    id,
		Title: title,
		Price: domain.Money{Amount: decimal.RequireFromString(price), Currency: currency.BRL},
		Image: fmt.Sprintf("https://images.example.com/products/%d.jpg", id),
	}
}

func main() {
	seed := flag.Bool("seed", false, "upsert the demo catalog before serving")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config.Load: %v\n", err)
		os.Exit(1)
	}

	log := logging.New("catalog", cfg.AppEnv, cfg.LogLevel)

	if err := run(cfg, *seed, log); err != nil {
		log.WithError(err).Fatal("catalog stopped")
	}
}

func run(cfg config.Config, seed bool, log *logrus.Entry) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.InitTracerProvider(ctx, "catalog", version, cfg.OTLPEndpoint, os.Stderr)
	if err != nil {
		return fmt.Errorf("telemetry.InitTracerProvider: %w", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.WithError(err).Warn("tracer provider shutdown failed")
		}
	}()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("pgxpool.New: %w", err)
	}
	defer pool.Close()

	repo := repository.NewCatalog(pool)

	if seed {
		if err := seedCatalog(ctx, repo); err != nil {
			return fmt.Errorf("seedCatalog: %w", err)
		}
		log.WithField("products", len(demoCatalog)).Info("catalog seeded")
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           httpapi.NewCatalogRouter(repo, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func seedCatalog(ctx context.Context, repo port.CatalogRepository) error {
	for _, p := range demoCatalog {
		if err := repo.UpsertProduct(ctx, p.product, p.stock); err != nil {
			return fmt.Errorf("repo.UpsertProduct[%d]: %w", p.product.ID, err)
		}
	}

	return nil
}
