package handlers

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yoe-esports/analytics-api/internal/models"
)

// mockQueue
type mockQueue struct {
	enqueued []uuid.UUID
	full     bool
}

func (m *mockQueue) Enqueue(matchID uuid.UUID) bool {
	if m.full {
		return false
	}
	m.enqueued = append(m.enqueued, matchID)
	return true
}

func (m *mockQueue) QueueDepth() int {
	return len(m.enqueued)
}

// mockIngestor
type mockIngestor struct {
	IngestMatchFunc func(ctx context.Context, providerMatchID string) (*models.Match, bool, error)
}

func (m *mockIngestor) IngestMatch(ctx context.Context, providerMatchID string) (*models.Match, bool, error) {
	if m.IngestMatchFunc != nil {
		return m.IngestMatchFunc(ctx, providerMatchID)
	}
	return &models.Match{ID: uuid.New(), ProviderMatchID: providerMatchID}, true, nil
}

// mockMatchStore
type mockMatchStore struct {
	matches map[uuid.UUID]*models.Match
	err     error
}

func (m *mockMatchStore) GetMatch(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.matches[id], nil
}

func (m *mockMatchStore) GetMatchByProviderID(ctx context.Context, providerID string) (*models.Match, error) {
	return nil, nil
}

func (m *mockMatchStore) CreateMatch(ctx context.Context, match *models.Match) error {
	return fmt.Errorf("not implemented")
}

func (m *mockMatchStore) LoadSnapshot(ctx context.Context, matchID uuid.UUID) (*models.MatchSnapshot, error) {
	return nil, fmt.Errorf("not implemented")
}

// mockInsightStore
type mockInsightStore struct {
	insights map[uuid.UUID][]models.Insight
	err      error
}

func (m *mockInsightStore) InsertInsight(ctx context.Context, in *models.Insight) error {
	return fmt.Errorf("not implemented")
}

func (m *mockInsightStore) ListInsights(ctx context.Context, matchID uuid.UUID) ([]models.Insight, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.insights[matchID], nil
}

func (m *mockInsightStore) UpdateDraftWinProbability(ctx context.Context, draftID uuid.UUID, probability float64) error {
	return fmt.Errorf("not implemented")
}
