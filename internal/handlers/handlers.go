package handlers

import (
	"context"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yoe-esports/analytics-api/internal/models"
	"github.com/yoe-esports/analytics-api/internal/store"
)

// MaxBodySize limits the size of request bodies to 1MB
const MaxBodySize = 1048576

// Ingestor pulls one provider match into relational storage.
type Ingestor interface {
	IngestMatch(ctx context.Context, providerMatchID string) (*models.Match, bool, error)
}

// AnalysisQueue is the async analysis worker pool.
type AnalysisQueue interface {
	Enqueue(matchID uuid.UUID) bool
	QueueDepth() int
}

type Config struct {
	WorkerPool AnalysisQueue
	Ingestor   Ingestor
	Matches    store.MatchStore
	Insights   store.InsightStore
	Postgres   *pgxpool.Pool
	ClickHouse driver.Conn
	Redis      *redis.Client
	Logger     *zap.Logger
}

type Handler struct {
	pool      AnalysisQueue
	ingestor  Ingestor
	matches   store.MatchStore
	insights  store.InsightStore
	pg        *pgxpool.Pool
	ch        driver.Conn
	redis     *redis.Client
	logger    *zap.SugaredLogger
	validator *validator.Validate
}

func New(cfg Config) *Handler {
	return &Handler{
		pool:      cfg.WorkerPool,
		ingestor:  cfg.Ingestor,
		matches:   cfg.Matches,
		insights:  cfg.Insights,
		pg:        cfg.Postgres,
		ch:        cfg.ClickHouse,
		redis:     cfg.Redis,
		logger:    cfg.Logger.Sugar(),
		validator: validator.New(),
	}
}
