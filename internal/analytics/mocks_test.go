package analytics

import (
	"context"

	"github.com/google/uuid"

	"github.com/yoe-esports/analytics-api/internal/models"
)

// mockHistoryStore
type mockHistoryStore struct {
	PlayerHistoryFunc func(ctx context.Context, playerID, excludeMatch uuid.UUID, limit int) ([]models.PlayerHistoryRow, error)
	TeamHistoryFunc   func(ctx context.Context, teamID, excludeMatch uuid.UUID, limit int) ([]models.TeamHistoryRow, error)
}

func (m *mockHistoryStore) PlayerHistory(ctx context.Context, playerID, excludeMatch uuid.UUID, limit int) ([]models.PlayerHistoryRow, error) {
	if m.PlayerHistoryFunc != nil {
		return m.PlayerHistoryFunc(ctx, playerID, excludeMatch, limit)
	}
	return nil, nil
}

func (m *mockHistoryStore) TeamHistory(ctx context.Context, teamID, excludeMatch uuid.UUID, limit int) ([]models.TeamHistoryRow, error) {
	if m.TeamHistoryFunc != nil {
		return m.TeamHistoryFunc(ctx, teamID, excludeMatch, limit)
	}
	return nil, nil
}

// mockFeatureStore
type mockFeatureStore struct {
	inserted []models.ExtractedFeature
	err      error
}

func (m *mockFeatureStore) InsertFeatures(ctx context.Context, features []models.ExtractedFeature) error {
	if m.err != nil {
		return m.err
	}
	m.inserted = append(m.inserted, features...)
	return nil
}

// mockInsightStore
type mockInsightStore struct {
	inserted    []models.Insight
	probUpdates map[uuid.UUID]float64
	insertErr   error
	updateErr   error
}

func (m *mockInsightStore) InsertInsight(ctx context.Context, in *models.Insight) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, *in)
	return nil
}

func (m *mockInsightStore) ListInsights(ctx context.Context, matchID uuid.UUID) ([]models.Insight, error) {
	return m.inserted, nil
}

func (m *mockInsightStore) UpdateDraftWinProbability(ctx context.Context, draftID uuid.UUID, probability float64) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if m.probUpdates == nil {
		m.probUpdates = map[uuid.UUID]float64{}
	}
	m.probUpdates[draftID] = probability
	return nil
}

// mockPerformanceFetcher
type mockPerformanceFetcher struct {
	TeamPerformanceFunc func(ctx context.Context, teamID, timeWindow string) (*models.TeamPerformanceWindow, error)
}

func (m *mockPerformanceFetcher) TeamPerformance(ctx context.Context, teamID, timeWindow string) (*models.TeamPerformanceWindow, error) {
	if m.TeamPerformanceFunc != nil {
		return m.TeamPerformanceFunc(ctx, teamID, timeWindow)
	}
	return nil, nil
}
