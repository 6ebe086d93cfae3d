package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yoe-esports/analytics-api/internal/analytics"
	"github.com/yoe-esports/analytics-api/internal/models"
)

type mockLoader struct {
	mu     sync.Mutex
	loaded []uuid.UUID
	err    error
}

func (m *mockLoader) LoadSnapshot(ctx context.Context, matchID uuid.UUID) (*models.MatchSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.loaded = append(m.loaded, matchID)
	return &models.MatchSnapshot{Match: models.Match{ID: matchID, Duration: 1800}}, nil
}

type mockAnalyzer struct {
	mu       sync.Mutex
	analyzed []uuid.UUID
	err      error
}

func (m *mockAnalyzer) AnalyzeMatch(ctx context.Context, snap *models.MatchSnapshot) (*analytics.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.analyzed = append(m.analyzed, snap.Match.ID)
	return &analytics.Result{}, nil
}

func TestPool_ProcessesQueuedAnalyses(t *testing.T) {
	loader := &mockLoader{}
	analyzer := &mockAnalyzer{}
	pool := NewPool(PoolConfig{
		WorkerCount: 2,
		QueueSize:   16,
		Loader:      loader,
		Pipeline:    analyzer,
		Logger:      zap.NewNop(),
	})
	pool.Start(context.Background())

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for _, id := range ids {
		if !pool.Enqueue(id) {
			t.Fatalf("enqueue %s failed", id)
		}
	}
	pool.Stop()

	analyzer.mu.Lock()
	defer analyzer.mu.Unlock()
	if len(analyzer.analyzed) != len(ids) {
		t.Errorf("analyzed = %d, want %d", len(analyzer.analyzed), len(ids))
	}
}

func TestPool_LoadShedsWhenFull(t *testing.T) {
	// No workers started, so the queue never drains.
	pool := NewPool(PoolConfig{
		WorkerCount: 1,
		QueueSize:   1,
		Loader:      &mockLoader{},
		Pipeline:    &mockAnalyzer{},
		Logger:      zap.NewNop(),
	})

	if !pool.Enqueue(uuid.New()) {
		t.Fatal("first enqueue should fit")
	}
	if pool.Enqueue(uuid.New()) {
		t.Error("second enqueue should shed load")
	}
	if pool.QueueDepth() != 1 {
		t.Errorf("queue depth = %d, want 1", pool.QueueDepth())
	}
}

func TestPool_AnalysisErrorDoesNotStopWorkers(t *testing.T) {
	loader := &mockLoader{}
	analyzer := &mockAnalyzer{err: errors.New("pipeline failed")}
	pool := NewPool(PoolConfig{
		WorkerCount: 1,
		QueueSize:   8,
		Loader:      loader,
		Pipeline:    analyzer,
		Logger:      zap.NewNop(),
	})
	pool.Start(context.Background())

	pool.Enqueue(uuid.New())
	// Let the failing job churn, then verify a later job still loads.
	time.Sleep(20 * time.Millisecond)
	analyzer.mu.Lock()
	analyzer.err = nil
	analyzer.mu.Unlock()

	id := uuid.New()
	pool.Enqueue(id)
	pool.Stop()

	analyzer.mu.Lock()
	defer analyzer.mu.Unlock()
	if len(analyzer.analyzed) != 1 || analyzer.analyzed[0] != id {
		t.Errorf("analyzed = %v, want only %s", analyzer.analyzed, id)
	}
}

func TestPool_EnqueueAfterStop(t *testing.T) {
	pool := NewPool(PoolConfig{
		WorkerCount: 1,
		QueueSize:   4,
		Loader:      &mockLoader{},
		Pipeline:    &mockAnalyzer{},
		Logger:      zap.NewNop(),
	})
	pool.Start(context.Background())
	pool.Stop()

	if pool.Enqueue(uuid.New()) {
		t.Error("enqueue after stop should fail")
	}
}
