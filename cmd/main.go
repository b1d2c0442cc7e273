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

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	httpadapter "podops/internal/adapter/http"
	"podops/internal/adapter/memory"
	natsadapter "podops/internal/adapter/nats"
	"podops/internal/adapter/postgres"
	"podops/internal/adapter/rediscache"
	"podops/internal/adapter/usecase"
	"podops/internal/config"
	"podops/internal/core/port"
	"podops/internal/db"
	"podops/internal/metrics"
)

// main is the entry point of the podops stage-engine service. It loads
// configuration, optionally runs database migrations, initializes the
// database pool, repositories and the stage engine, then starts the HTTP
// server. On receiving a termination signal it gracefully shuts down.
func main() {
	exitCode := 1
	defer func() {
		if r := recover(); r != nil {
			panic(r)
		} else {
			os.Exit(exitCode)
		}
	}()

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	var logger *slog.Logger
	{
		// Initialise structured logger based on configuration.
		var handler slog.Handler
		level := cfg.Log.SlogLevel()
		switch cfg.Log.SlogFormat() {
		case "json":
			handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		default:
			handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		}
		logger = slog.New(handler)
	}

	// Optionally run migrations if configured. We use the Psql sub-config.
	if cfg.Psql.RunMigrations {
		if err = db.Migrate(cfg.Psql.Addr.String()); err != nil {
			logger.Error("migration error", slog.Any("error", err))
		} else {
			logger.Info("migrations applied successfully")
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.Psql)
	if err != nil {
		logger.Error("database connection error", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	// Idempotency cache: Redis when configured, process-local otherwise.
	var cache port.IdempotencyCache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		cache = rediscache.NewIdempotencyCache(rdb)
		logger.Info("using redis idempotency cache", slog.String("addr", cfg.Redis.Addr))
	} else {
		memCache := memory.NewIdempotencyCache()
		go memCache.Janitor(ctx, 10*time.Minute)
		cache = memCache
		logger.Info("using in-memory idempotency cache")
	}

	// Notification publisher: NATS when configured, logging otherwise.
	var publisher port.EventPublisher
	if cfg.NATS.URL != "" {
		conn, err := nats.Connect(cfg.NATS.URL, nats.Name(cfg.NATS.Name))
		if err != nil {
			logger.Error("nats connection error", slog.Any("error", err))
			os.Exit(1)
		}
		defer conn.Drain()
		publisher = natsadapter.NewPublisher(conn, logger)
		logger.Info("publishing notifications to nats", slog.String("url", cfg.NATS.URL))
	} else {
		publisher = memory.NewLogPublisher(logger)
	}

	registry := prometheus.NewRegistry()
	campaigns := postgres.NewCampaignRepository(pool)
	engine := usecase.NewStageEngine(usecase.Deps{
		Campaigns: campaigns,
		Settings:  postgres.NewSettingsRepository(pool),
		Schedules: postgres.NewScheduleRepository(pool),
		Orders:    postgres.NewOrderRepository(pool),
		Inventory: postgres.NewInventoryService(pool),
		Approvals: postgres.NewApprovalService(pool),
		Conflicts: postgres.NewConflictChecker(pool),
		Contracts: postgres.NewContractService(pool),
		Billing:   postgres.NewBillingService(pool),
		Cache:     cache,
		Publisher: publisher,
		Metrics:   metrics.NewPrometheus(registry),
		Logger:    logger,
	})

	handler := httpadapter.NewHandler(engine, campaigns, logger)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.Handle("/", handler.Router())
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler: mux,
	}

	go func() {
		logger.Info("server listening", slog.Int("port", int(cfg.HTTP.Port)))
		if err = srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	value := <-quit
	exitCode = 128 + int(value.(syscall.Signal))

	ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	} else {
		logger.Info("server gracefully stopped")
	}
}
