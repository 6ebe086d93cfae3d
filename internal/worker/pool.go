// Package worker runs match analyses asynchronously. Each job is one
// full pipeline run over one match; runs share no mutable state, so
// concurrency lives entirely here, not inside the pipeline.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/yoe-esports/analytics-api/internal/analytics"
	"github.com/yoe-esports/analytics-api/internal/models"
)

// Prometheus metrics
var (
	analysesQueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yoe_analyses_queued_total",
		Help: "Total number of match analyses enqueued",
	})

	analysesCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yoe_analyses_completed_total",
		Help: "Total number of match analyses completed",
	})

	analysesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yoe_analyses_failed_total",
		Help: "Total number of match analyses that failed",
	})

	analysesLoadShed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yoe_analyses_load_shed_total",
		Help: "Total number of analyses dropped because the queue was full",
	})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "yoe_analysis_queue_depth",
		Help: "Current depth of the analysis queue",
	})

	analysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "yoe_analysis_duration_seconds",
		Help:    "Duration of one full pipeline run",
		Buckets: prometheus.DefBuckets,
	})
)

// SnapshotLoader resolves a match id to a fully loaded snapshot.
type SnapshotLoader interface {
	LoadSnapshot(ctx context.Context, matchID uuid.UUID) (*models.MatchSnapshot, error)
}

// Analyzer is the pipeline entry point the pool drives.
type Analyzer interface {
	AnalyzeMatch(ctx context.Context, snap *models.MatchSnapshot) (*analytics.Result, error)
}

// PoolConfig configures the analysis pool
type PoolConfig struct {
	WorkerCount int
	QueueSize   int
	Loader      SnapshotLoader
	Pipeline    Analyzer
	Logger      *zap.Logger
}

// Pool manages a pool of workers for async match analysis
type Pool struct {
	config   PoolConfig
	jobQueue chan uuid.UUID
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *zap.SugaredLogger
}

// NewPool creates a new analysis pool
func NewPool(cfg PoolConfig) *Pool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}

	return &Pool{
		config:   cfg,
		jobQueue: make(chan uuid.UUID, cfg.QueueSize),
		logger:   cfg.Logger.Sugar(),
	}
}

// Start launches the worker goroutines
func (p *Pool) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	p.logger.Infow("Analysis pool started",
		"workers", p.config.WorkerCount,
		"queueSize", p.config.QueueSize,
	)
}

// Stop drains queued analyses and shuts the workers down.
func (p *Pool) Stop() {
	p.logger.Info("Stopping analysis pool...")
	close(p.jobQueue)
	p.wg.Wait()
	p.cancel()
	p.logger.Info("Analysis pool stopped")
}

// Enqueue schedules a match for analysis. Returns false when the
// queue is full; the caller decides whether to retry.
func (p *Pool) Enqueue(matchID uuid.UUID) bool {
	// Protect against sending on closed channel
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warnw("Failed to enqueue analysis (pool stopped)", "error", r)
		}
	}()

	select {
	case p.jobQueue <- matchID:
		analysesQueued.Inc()
		queueDepth.Set(float64(len(p.jobQueue)))
		return true
	default:
		analysesLoadShed.Inc()
		return false
	}
}

// QueueDepth returns current queue size
func (p *Pool) QueueDepth() int {
	return len(p.jobQueue)
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for matchID := range p.jobQueue {
		queueDepth.Set(float64(len(p.jobQueue)))
		start := time.Now()

		if err := p.analyze(matchID); err != nil {
			analysesFailed.Inc()
			p.logger.Errorw("Match analysis failed", "worker", id, "match", matchID, "error", err)
			continue
		}

		analysesCompleted.Inc()
		analysisDuration.Observe(time.Since(start).Seconds())
	}
}

func (p *Pool) analyze(matchID uuid.UUID) error {
	snap, err := p.config.Loader.LoadSnapshot(p.ctx, matchID)
	if err != nil {
		return err
	}
	_, err = p.config.Pipeline.AnalyzeMatch(p.ctx, snap)
	return err
}
