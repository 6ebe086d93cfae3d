package analytics

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/yoe-esports/analytics-api/internal/grid"
	"github.com/yoe-esports/analytics-api/internal/models"
	"github.com/yoe-esports/analytics-api/internal/store"
)

// PipelineConfig wires the pipeline's collaborators.
type PipelineConfig struct {
	Features    store.FeatureStore
	Insights    store.InsightStore
	History     store.HistoryStore
	Performance grid.PerformanceFetcher
	Window      string
	Logger      *zap.Logger
}

// Pipeline runs one full analysis over a loaded match snapshot:
// feature extraction, draft scoring, categorized insight generation
// and long-window team trends. One invocation processes exactly one
// match to completion; callers wanting concurrency run independent
// invocations.
type Pipeline struct {
	features store.FeatureStore
	insights store.InsightStore
	gen      *Generator
	perf     grid.PerformanceFetcher
	window   string
	logger   *zap.SugaredLogger
}

func NewPipeline(cfg PipelineConfig) *Pipeline {
	if cfg.Window == "" {
		cfg.Window = grid.DefaultWindow
	}
	return &Pipeline{
		features: cfg.Features,
		insights: cfg.Insights,
		gen:      NewGenerator(cfg.History, cfg.Logger),
		perf:     cfg.Performance,
		window:   cfg.Window,
		logger:   cfg.Logger.Sugar(),
	}
}

// Result is everything one pipeline run computed. Rows are appended to
// storage as stages complete; a later stage's failure never rolls back
// earlier writes.
type Result struct {
	Features []models.ExtractedFeature
	Insights []models.Insight
}

// AnalyzeMatch accepts only a resolved snapshot; identifier resolution
// belongs to the caller. Stages run sequentially and each isolates its
// own failures, so partial upstream data produces a partial Result,
// not an error.
func (p *Pipeline) AnalyzeMatch(ctx context.Context, snap *models.MatchSnapshot) (*Result, error) {
	if snap == nil {
		return nil, fmt.Errorf("nil match snapshot")
	}
	if snap.Match.Duration <= 0 {
		return nil, fmt.Errorf("match %s has non-positive duration %d", snap.Match.ID, snap.Match.Duration)
	}

	log := p.logger.With("match", snap.Match.ID)
	log.Infow("Analyzing match", "provider_id", snap.Match.ProviderMatchID)

	res := &Result{}

	// 1. Feature extraction (+ MVP insight).
	features, insights := ExtractFeatures(snap)
	p.recordFeatures(ctx, res, features)
	p.recordInsights(ctx, res, insights)

	// 2. Draft win probability, written back into the draft rows.
	p.scoreDrafts(ctx, res, snap)

	// 3-5. Categorized insight generation.
	p.recordInsights(ctx, res, p.gen.AssistantCoach(ctx, snap))
	p.recordInsights(ctx, res, CoachFeedback(snap))
	p.recordInsights(ctx, res, p.gen.ScoutingReports(ctx, snap))
	p.recordInsights(ctx, res, DraftAssistant(snap))

	// 6. Long-window team performance.
	p.teamTrends(ctx, res, snap)

	// 7. Match narrative.
	if summary, ok := MatchSummary(snap); ok {
		p.recordInsights(ctx, res, []models.Insight{summary})
	}

	log.Infow("Analysis complete", "features", len(res.Features), "insights", len(res.Insights))
	return res, nil
}

// scoreDrafts computes and persists each draft's win probability and
// emits the legacy Draft-category insight. The write-back is the only
// mutation the pipeline performs on ingested entities.
func (p *Pipeline) scoreDrafts(ctx context.Context, res *Result, snap *models.MatchSnapshot) {
	for i := range snap.Drafts {
		d := &snap.Drafts[i]
		prob := DraftWinProbability(d.Picks)
		d.WinProbability = &prob

		if err := p.insights.UpdateDraftWinProbability(ctx, d.ID, prob); err != nil {
			p.logger.Warnw("Draft win probability write-back failed", "draft", d.ID, "error", err)
		}

		matchID := snap.Match.ID
		p.recordInsights(ctx, res, []models.Insight{
			NewInsight(&matchID, TemplateDraftWinProb, InsightContext{
				Team:           snap.TeamName(d.TeamID),
				WinProbability: prob,
			}),
		})
	}
}

// teamTrends fetches long-window aggregates per team. A team the
// provider has no data for is skipped silently; a fetch error is
// logged and only excludes that team.
func (p *Pipeline) teamTrends(ctx context.Context, res *Result, snap *models.MatchSnapshot) {
	seen := map[string]bool{}
	for _, ts := range snap.TeamStats {
		teamName := snap.TeamName(ts.TeamID)
		if seen[teamName] {
			continue
		}
		seen[teamName] = true

		perf, err := p.perf.TeamPerformance(ctx, teamName, p.window)
		if err != nil {
			p.logger.Warnw("Team performance fetch failed", "team", teamName, "error", err)
			continue
		}
		if perf == nil {
			continue
		}

		scores := ScoreTeamPerformance(*perf)
		p.recordInsights(ctx, res, []models.Insight{TeamTrend(snap.Match.ID, teamName, scores)})
		p.recordFeatures(ctx, res, []models.ExtractedFeature{
			{
				EntityID:    teamName,
				EntityType:  models.EntityTeam,
				FeatureName: models.FeatureAggressionIndex,
				Value:       scores.AggressionIndex,
			},
			{
				EntityID:    teamName,
				EntityType:  models.EntityTeam,
				FeatureName: models.FeatureConsistencyScore,
				Value:       scores.ConsistencyScore,
			},
		})
	}
}

func (p *Pipeline) recordFeatures(ctx context.Context, res *Result, features []models.ExtractedFeature) {
	if len(features) == 0 {
		return
	}
	res.Features = append(res.Features, features...)
	if err := p.features.InsertFeatures(ctx, features); err != nil {
		p.logger.Errorw("Feature insert failed", "count", len(features), "error", err)
	}
}

func (p *Pipeline) recordInsights(ctx context.Context, res *Result, insights []models.Insight) {
	for i := range insights {
		res.Insights = append(res.Insights, insights[i])
		if err := p.insights.InsertInsight(ctx, &insights[i]); err != nil {
			p.logger.Errorw("Insight insert failed", "category", insights[i].Category, "error", err)
		}
	}
}
