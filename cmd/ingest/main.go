// Command ingest pulls one provider match into storage and runs the
// analysis pipeline over it synchronously. Useful for backfills and
// for debugging a single match without the API in the loop.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yoe-esports/analytics-api/internal/analytics"
	"github.com/yoe-esports/analytics-api/internal/config"
	"github.com/yoe-esports/analytics-api/internal/grid"
	"github.com/yoe-esports/analytics-api/internal/ingest"
	"github.com/yoe-esports/analytics-api/internal/store"
)

func main() {
	matchID := flag.String("match", "", "provider match id to ingest")
	skipAnalysis := flag.Bool("skip-analysis", false, "ingest only, do not run the pipeline")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall deadline")
	flag.Parse()

	if *matchID == "" {
		fmt.Fprintln(os.Stderr, "usage: ingest -match <provider match id>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pg, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatalw("Failed to create postgres pool", "error", err)
	}
	defer pg.Close()

	chOpts, err := clickhouse.ParseDSN(cfg.ClickHouseURL)
	if err != nil {
		log.Fatalw("Invalid clickhouse URL", "error", err)
	}
	ch, err := clickhouse.Open(chOpts)
	if err != nil {
		log.Fatalw("Failed to open clickhouse", "error", err)
	}
	defer ch.Close()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalw("Invalid redis URL", "error", err)
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()

	pgStore := store.NewPostgres(pg, logger)
	if err := pgStore.Migrate(ctx); err != nil {
		log.Fatalw("Postgres migration failed", "error", err)
	}
	features := store.NewClickHouseFeatures(ch, logger)
	if err := features.Migrate(ctx); err != nil {
		log.Fatalw("ClickHouse migration failed", "error", err)
	}

	gridClient := grid.NewClient(grid.Config{
		BaseURL:   cfg.GridBaseURL,
		APIKey:    cfg.GridAPIKey,
		Timeout:   cfg.GridTimeout,
		RetryWait: cfg.GridRetryWait,
		Logger:    logger,
	})

	normalizer := ingest.NewNormalizer(pgStore, pgStore, pgStore, gridClient, logger)
	match, created, err := normalizer.IngestMatch(ctx, *matchID)
	if err != nil {
		log.Fatalw("Ingestion failed", "provider_id", *matchID, "error", err)
	}
	log.Infow("Match ingested", "match", match.ID, "created", created)

	if *skipAnalysis {
		return
	}

	perf := grid.NewCachedPerformance(gridClient, rdb, cfg.PerformanceCacheTTL, logger)
	pipeline := analytics.NewPipeline(analytics.PipelineConfig{
		Features:    features,
		Insights:    pgStore,
		History:     pgStore,
		Performance: perf,
		Window:      cfg.PerformanceWindow,
		Logger:      logger,
	})

	snap, err := pgStore.LoadSnapshot(ctx, match.ID)
	if err != nil {
		log.Fatalw("Snapshot load failed", "match", match.ID, "error", err)
	}
	res, err := pipeline.AnalyzeMatch(ctx, snap)
	if err != nil {
		log.Fatalw("Analysis failed", "match", match.ID, "error", err)
	}
	log.Infow("Analysis complete", "features", len(res.Features), "insights", len(res.Insights))
}
