package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/nikhilbhutani/tubefilter/internal/api"
	"github.com/nikhilbhutani/tubefilter/internal/api/handlers"
	"github.com/nikhilbhutani/tubefilter/internal/audit"
	"github.com/nikhilbhutani/tubefilter/internal/config"
	"github.com/nikhilbhutani/tubefilter/internal/database"
	"github.com/nikhilbhutani/tubefilter/internal/filter"
	"github.com/nikhilbhutani/tubefilter/internal/metrics"
	"github.com/nikhilbhutani/tubefilter/internal/queue"
	"github.com/nikhilbhutani/tubefilter/internal/store"
	"github.com/nikhilbhutani/tubefilter/internal/webhook"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	checks := map[string]handlers.Check{}

	// Database connection (required for the postgres backend, optional otherwise)
	var db *pgxpool.Pool
	if cfg.Database.URL != "" {
		db, err = database.NewPool(ctx, cfg.Database)
		if err != nil {
			if cfg.Store.Backend == config.BackendPostgres {
				slog.Error("database unavailable", "error", err)
				os.Exit(1)
			}
			slog.Warn("database unavailable, running without audit log", "error", err)
			db = nil
		} else {
			defer db.Close()
			if err := database.RunMigrations(ctx, db, cfg.Database.MigrationsPath); err != nil {
				slog.Error("migrations failed", "error", err)
				os.Exit(1)
			}
			checks["database"] = db.Ping
		}
	}

	// Redis connection (required for the redis backend and queued events)
	var rdb *redis.Client
	if cfg.Store.Backend == config.BackendRedis || cfg.Worker.QueueEvents {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Warn("redis unavailable", "error", err)
		}
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	st, err := openStore(cfg, db, rdb)
	if err != nil {
		slog.Error("failed to open filter store", "error", err, "backend", cfg.Store.Backend)
		os.Exit(1)
	}
	defer st.Close()
	checks["store"] = func(ctx context.Context) error {
		_, err := st.Load(ctx)
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	svc := filter.NewService(st, m)
	deps := api.Deps{Filter: svc, Metrics: m, Checks: checks}

	if db != nil {
		auditSvc := audit.NewService(db)
		svc.AddListener(auditSvc)
		deps.Audit = auditSvc
	}

	switch {
	case cfg.Worker.QueueEvents:
		qc := queue.NewClient(cfg.Redis)
		defer qc.Close()
		svc.AddListener(qc)
		slog.Info("config changes queued for worker delivery")
	case len(cfg.Webhook.URLs) > 0:
		dispatcher := webhook.NewDispatcher(cfg.Webhook.URLs, cfg.Webhook.Secret)
		dispatcher.Start(ctx)
		svc.AddListener(dispatcher)
		slog.Info("config changes delivered in-process", "webhooks", len(cfg.Webhook.URLs))
	}

	router := api.NewRouter(cfg, deps)
	router.Start(ctx)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("starting API server", "addr", cfg.Addr(), "store", cfg.Store.Backend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}

func openStore(cfg *config.Config, db *pgxpool.Pool, rdb *redis.Client) (store.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendFile:
		return store.NewFileStore(cfg.Store.FilePath), nil
	case config.BackendSQLite:
		return store.OpenSQLiteStore(cfg.Store.SQLitePath)
	case config.BackendPostgres:
		if db == nil {
			return nil, fmt.Errorf("postgres backend requires DATABASE_URL")
		}
		return store.NewPostgresStore(db), nil
	case config.BackendRedis:
		return store.NewRedisStore(rdb, cfg.Store.RedisKey), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}
