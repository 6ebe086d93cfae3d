package analytics

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/yoe-esports/analytics-api/internal/models"
)

func newTestPipeline(features *mockFeatureStore, insights *mockInsightStore, history *mockHistoryStore, perf *mockPerformanceFetcher) *Pipeline {
	return NewPipeline(PipelineConfig{
		Features:    features,
		Insights:    insights,
		History:     history,
		Performance: perf,
		Logger:      zap.NewNop(),
	})
}

func TestAnalyzeMatch_NilSnapshot(t *testing.T) {
	p := newTestPipeline(&mockFeatureStore{}, &mockInsightStore{}, &mockHistoryStore{}, &mockPerformanceFetcher{})
	if _, err := p.AnalyzeMatch(context.Background(), nil); err == nil {
		t.Error("expected error for nil snapshot")
	}
}

func TestAnalyzeMatch_NonPositiveDuration(t *testing.T) {
	p := newTestPipeline(&mockFeatureStore{}, &mockInsightStore{}, &mockHistoryStore{}, &mockPerformanceFetcher{})
	snap := testSnapshot()
	snap.Match.Duration = 0

	if _, err := p.AnalyzeMatch(context.Background(), snap); err == nil {
		t.Error("expected error for zero duration")
	}
}

func TestAnalyzeMatch_FullRun(t *testing.T) {
	features := &mockFeatureStore{}
	insights := &mockInsightStore{}
	perf := &mockPerformanceFetcher{
		TeamPerformanceFunc: func(ctx context.Context, teamID, timeWindow string) (*models.TeamPerformanceWindow, error) {
			return &models.TeamPerformanceWindow{AvgKills: 15, AvgDeaths: 10, WinPercentage: 60, CurrentStreak: 4, MaxStreak: 8}, nil
		},
	}
	p := newTestPipeline(features, insights, &mockHistoryStore{}, perf)
	snap := testSnapshot()

	res, err := p.AnalyzeMatch(context.Background(), snap)
	if err != nil {
		t.Fatalf("AnalyzeMatch failed: %v", err)
	}

	// Per-match features: 2 players x2, 2 teams x3, 1 draft comfort,
	// plus 2 teams x2 long-window features.
	if len(res.Features) != 15 {
		t.Errorf("features = %d, want 15", len(res.Features))
	}
	if len(features.inserted) != len(res.Features) {
		t.Errorf("persisted features = %d, want %d", len(features.inserted), len(res.Features))
	}

	// MVP + draft win prob + 2 coach feedback + 1 draft assistant +
	// 2 team trends + summary.
	if len(res.Insights) != 8 {
		t.Errorf("insights = %d, want 8", len(res.Insights))
	}
	if len(insights.inserted) != len(res.Insights) {
		t.Errorf("persisted insights = %d, want %d", len(insights.inserted), len(res.Insights))
	}

	// Draft win probability written back to both the store and the
	// snapshot.
	d := snap.Drafts[0]
	if d.WinProbability == nil {
		t.Fatal("draft win probability not set on snapshot")
	}
	if got := insights.probUpdates[d.ID]; got != *d.WinProbability {
		t.Errorf("persisted probability = %v, want %v", got, *d.WinProbability)
	}
}

func TestAnalyzeMatch_RerunAppends(t *testing.T) {
	features := &mockFeatureStore{}
	insights := &mockInsightStore{}
	p := newTestPipeline(features, insights, &mockHistoryStore{}, &mockPerformanceFetcher{})
	snap := testSnapshot()

	if _, err := p.AnalyzeMatch(context.Background(), snap); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	firstFeatures := len(features.inserted)
	firstInsights := len(insights.inserted)

	if _, err := p.AnalyzeMatch(context.Background(), snap); err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if len(features.inserted) != 2*firstFeatures {
		t.Errorf("features after rerun = %d, want %d (append, not upsert)", len(features.inserted), 2*firstFeatures)
	}
	if len(insights.inserted) != 2*firstInsights {
		t.Errorf("insights after rerun = %d, want %d (append, not upsert)", len(insights.inserted), 2*firstInsights)
	}
}

func TestAnalyzeMatch_FeatureStoreFailureIsolated(t *testing.T) {
	features := &mockFeatureStore{err: errors.New("clickhouse down")}
	insights := &mockInsightStore{}
	p := newTestPipeline(features, insights, &mockHistoryStore{}, &mockPerformanceFetcher{})
	snap := testSnapshot()

	res, err := p.AnalyzeMatch(context.Background(), snap)
	if err != nil {
		t.Fatalf("AnalyzeMatch failed: %v", err)
	}
	if len(res.Features) == 0 {
		t.Error("result features dropped on store failure")
	}
	if len(insights.inserted) == 0 {
		t.Error("insight generation suppressed by feature store failure")
	}
}

func TestAnalyzeMatch_PerformanceFetchFailureIsolated(t *testing.T) {
	features := &mockFeatureStore{}
	insights := &mockInsightStore{}
	perf := &mockPerformanceFetcher{
		TeamPerformanceFunc: func(ctx context.Context, teamID, timeWindow string) (*models.TeamPerformanceWindow, error) {
			return nil, errors.New("provider down")
		},
	}
	p := newTestPipeline(features, insights, &mockHistoryStore{}, perf)
	snap := testSnapshot()

	res, err := p.AnalyzeMatch(context.Background(), snap)
	if err != nil {
		t.Fatalf("AnalyzeMatch failed: %v", err)
	}
	for _, in := range res.Insights {
		if in.Confidence == 0.88 {
			t.Error("team trend emitted despite fetch failure")
		}
	}
	// The rest of the pipeline still ran.
	if len(res.Insights) == 0 {
		t.Error("no insights produced")
	}
}

func TestAnalyzeMatch_WriteBackFailureDoesNotAbort(t *testing.T) {
	features := &mockFeatureStore{}
	insights := &mockInsightStore{updateErr: errors.New("write denied")}
	p := newTestPipeline(features, insights, &mockHistoryStore{}, &mockPerformanceFetcher{})
	snap := testSnapshot()

	res, err := p.AnalyzeMatch(context.Background(), snap)
	if err != nil {
		t.Fatalf("AnalyzeMatch failed: %v", err)
	}
	if snap.Drafts[0].WinProbability == nil {
		t.Error("snapshot probability not set when write-back fails")
	}
	if len(res.Insights) == 0 {
		t.Error("pipeline aborted on write-back failure")
	}
}
