package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yoe-esports/analytics-api/internal/analytics"
	"github.com/yoe-esports/analytics-api/internal/config"
	"github.com/yoe-esports/analytics-api/internal/grid"
	"github.com/yoe-esports/analytics-api/internal/handlers"
	"github.com/yoe-esports/analytics-api/internal/ingest"
	"github.com/yoe-esports/analytics-api/internal/store"
	"github.com/yoe-esports/analytics-api/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	var logger *zap.Logger
	if cfg.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Postgres
	pg, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatalw("Failed to create postgres pool", "error", err)
	}
	defer pg.Close()
	if err := pg.Ping(ctx); err != nil {
		log.Fatalw("Failed to ping postgres", "error", err)
	}

	// ClickHouse
	chOpts, err := clickhouse.ParseDSN(cfg.ClickHouseURL)
	if err != nil {
		log.Fatalw("Invalid clickhouse URL", "error", err)
	}
	ch, err := clickhouse.Open(chOpts)
	if err != nil {
		log.Fatalw("Failed to open clickhouse", "error", err)
	}
	defer ch.Close()
	if err := ch.Ping(ctx); err != nil {
		log.Fatalw("Failed to ping clickhouse", "error", err)
	}

	// Redis
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalw("Invalid redis URL", "error", err)
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalw("Failed to ping redis", "error", err)
	}

	// Storage and migrations
	pgStore := store.NewPostgres(pg, logger)
	if err := pgStore.Migrate(ctx); err != nil {
		log.Fatalw("Postgres migration failed", "error", err)
	}
	features := store.NewClickHouseFeatures(ch, logger)
	if err := features.Migrate(ctx); err != nil {
		log.Fatalw("ClickHouse migration failed", "error", err)
	}

	// Provider client with cached long-window fetches
	gridClient := grid.NewClient(grid.Config{
		BaseURL:   cfg.GridBaseURL,
		APIKey:    cfg.GridAPIKey,
		Timeout:   cfg.GridTimeout,
		RetryWait: cfg.GridRetryWait,
		Logger:    logger,
	})
	perf := grid.NewCachedPerformance(gridClient, rdb, cfg.PerformanceCacheTTL, logger)

	pipeline := analytics.NewPipeline(analytics.PipelineConfig{
		Features:    features,
		Insights:    pgStore,
		History:     pgStore,
		Performance: perf,
		Window:      cfg.PerformanceWindow,
		Logger:      logger,
	})

	normalizer := ingest.NewNormalizer(pgStore, pgStore, pgStore, gridClient, logger)

	pool := worker.NewPool(worker.PoolConfig{
		WorkerCount: cfg.WorkerCount,
		QueueSize:   cfg.QueueSize,
		Loader:      pgStore,
		Pipeline:    pipeline,
		Logger:      logger,
	})
	pool.Start(ctx)

	h := handlers.New(handlers.Config{
		WorkerPool: pool,
		Ingestor:   normalizer,
		Matches:    pgStore,
		Insights:   pgStore,
		Postgres:   pg,
		ClickHouse: ch,
		Redis:      rdb,
		Logger:     logger,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h.Routes(cfg.AllowedOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("API listening", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("Server failed", "error", err)
		}
	}()

	// Graceful shutdown: stop accepting requests, then drain the pool.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Server shutdown failed", "error", err)
	}
	pool.Stop()
	log.Info("Shutdown complete")
}
