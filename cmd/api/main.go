package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pet-feeding-ranking/internal/adapters/logstore/rest"
	mem "pet-feeding-ranking/internal/adapters/storage/memory"
	pg "pet-feeding-ranking/internal/adapters/storage/postgres"
	"pet-feeding-ranking/internal/adapters/storage/sqlite"
	"pet-feeding-ranking/internal/domain/feedinglogs"
	"pet-feeding-ranking/internal/domain/ranking"
	"pet-feeding-ranking/internal/middleware"
	"pet-feeding-ranking/internal/platform/config"
	"pet-feeding-ranking/internal/platform/logger"
	"pet-feeding-ranking/internal/platform/metrics"
	"pet-feeding-ranking/internal/router"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// @title Pet Feeding Ranking API
// @version 1.0
// @description Leaderboards de productos de alimentación (confianza, popularidad y combinado) calculados sobre los feeding logs visibles.
// @BasePath /
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Validate ya chequeó nivel y formato
	level, _ := logger.ParseLevel(cfg.LogLevel)
	format, _ := logger.ParseFormat(cfg.LogFormat)
	log := logger.New(logger.Options{
		Level:  level,
		Format: format,
		App:    cfg.AppName,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svc := ranking.NewService(source, ranking.Options{
		SnapshotMaxAge: cfg.SnapshotMaxAge,
		LoadTimeout:    cfg.StoreTimeout,
		Logger:         log.With(map[string]any{"component": "ranking"}),
		Metrics:        metrics.NewCollector(reg),
	})

	refresher := ranking.NewRefresher(svc, cfg.RefreshInterval, log)
	if err := refresher.Start(ctx); err != nil {
		return err
	}
	defer refresher.Stop()

	rl := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		PerMinute: cfg.RateLimitPerMinute,
	}, log)
	defer rl.Stop()

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: router.NewRouter(router.Options{
			Ranking:     svc,
			Logger:      log,
			Gatherer:    reg,
			RateLimiter: rl,
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{
			"addr":      srv.Addr,
			"log_store": cfg.LogStore,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStore arma el Log Store según LOG_STORE. El seed solo aplica a stores con escritura.
func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (feedinglogs.Source, func(), error) {
	noop := func() {}

	switch cfg.LogStore {
	case config.StoreREST:
		c, err := rest.NewClient(rest.Config{
			BaseURL: cfg.StoreURL,
			APIKey:  cfg.StoreAPIKey,
			Timeout: cfg.StoreTimeout,
			MaxRows: cfg.StoreMaxRows,
		})
		if err != nil {
			return nil, noop, err
		}
		if cfg.SeedFile != "" {
			log.Warn("seed file ignored: rest log store is read-only", map[string]any{"seed_file": cfg.SeedFile})
		}
		return c, noop, nil

	case config.StorePostgres:
		if cfg.DBMigrate {
			if err := pg.RunMigrations(cfg.DatabaseDSN); err != nil {
				return nil, noop, err
			}
			log.Info("migrations applied", nil)
		}
		db, err := pg.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, noop, fmt.Errorf("open postgres: %w", err)
		}
		store := pg.NewFeedingLogsRepo(db)
		return seeded(ctx, store, cfg, log, closer(db, log))

	case config.StoreSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, noop, fmt.Errorf("open sqlite: %w", err)
		}
		store := sqlite.NewFeedingLogsRepo(db)
		return seeded(ctx, store, cfg, log, closer(db, log))

	default:
		return seeded(ctx, mem.NewFeedingLogsRepo(), cfg, log, noop)
	}
}

func seeded(ctx context.Context, store feedinglogs.Store, cfg *config.Config, log logger.Logger, closeFn func()) (feedinglogs.Source, func(), error) {
	if cfg.SeedFile == "" {
		return store, closeFn, nil
	}

	f, err := os.Open(cfg.SeedFile)
	if err != nil {
		closeFn()
		return nil, func() {}, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	n, err := feedinglogs.LoadSeed(ctx, store, f)
	if err != nil {
		closeFn()
		return nil, func() {}, err
	}
	log.Info("seed loaded", map[string]any{"seed_file": cfg.SeedFile, "created": n})
	return store, closeFn, nil
}

func closer(db *sql.DB, log logger.Logger) func() {
	return func() {
		if err := db.Close(); err != nil {
			log.Warn("close database", map[string]any{"error": err.Error()})
		}
	}
}
