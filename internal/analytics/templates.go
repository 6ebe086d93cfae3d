package analytics

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yoe-esports/analytics-api/internal/models"
)

// TemplateKind identifies one insight template. The mapping from kind
// to category, confidence and explanation text is fixed and explicit;
// "LLM insight" in the product surface is exactly this rendering.
type TemplateKind string

const (
	TemplateMVP            TemplateKind = "mvp"
	TemplateCoachDeaths    TemplateKind = "coach_deaths"
	TemplateCoachFeedback  TemplateKind = "coach_feedback"
	TemplateScoutTendency  TemplateKind = "scout_tendency"
	TemplateDraftAssistant TemplateKind = "draft_assistant"
	TemplateDraftWinProb   TemplateKind = "draft_win_probability"
	TemplateTeamTrend      TemplateKind = "team_trend"
	TemplateMatchSummary   TemplateKind = "match_summary"
)

// InsightContext carries the computed values a template is
// parameterized by. Each template reads only its own fields.
type InsightContext struct {
	Player           string
	Team             string
	Deaths           int
	Kills            int
	AvgDeaths        float64
	Aggression       float64
	PositioningScore float64
	Tendency         string
	WinProbability   float64
	ComfortPicks     []string
	Scores           TeamPerformanceScores
	DurationMinutes  int
}

// insightSpec fixes category and confidence per template. The
// confidence constants are part of the observable contract.
type insightSpec struct {
	category   string
	confidence float64
}

var insightSpecs = map[TemplateKind]insightSpec{
	TemplateMVP:            {models.CategoryPerformance, 0.95},
	TemplateCoachDeaths:    {models.CategoryAssistantCoach, 0.95},
	TemplateCoachFeedback:  {models.CategoryCoachFeedback, 0.92},
	TemplateScoutTendency:  {models.CategoryScouting, 0.95},
	TemplateDraftAssistant: {models.CategoryDraftAssistant, 0.95},
	TemplateDraftWinProb:   {models.CategoryDraft, 0.85},
	TemplateTeamTrend:      {models.CategoryAssistantCoach, 0.88},
	TemplateMatchSummary:   {models.CategorySummary, 0.99},
}

// RenderExplanation maps (kind, context) to explanation text. The
// switch is exhaustive over the declared kinds; unknown kinds get a
// generic fallback so a bad caller shows up in output, not a panic.
func RenderExplanation(kind TemplateKind, c InsightContext) string {
	switch kind {
	case TemplateMVP:
		return fmt.Sprintf("MVP: %s with %.2f Aggression Score.", c.Player, c.Aggression)

	case TemplateCoachDeaths:
		return fmt.Sprintf(
			"%s struggled with positioning in this match, recording %d deaths compared to their usual %.1f in similar losses. "+
				"This suggests a vulnerability in mid-game rotations that needs immediate coaching attention.",
			c.Player, c.Deaths, c.AvgDeaths)

	case TemplateCoachFeedback:
		return fmt.Sprintf(
			"Kill review for %s: %d kills logged at a %.2f positioning score. "+
				"Flag repeat engage patterns for film review before the next series.",
			c.Player, c.Kills, c.PositioningScore)

	case TemplateScoutTendency:
		return fmt.Sprintf(
			"%s consistently prioritizes %s in the early game. "+
				"Opponents should look to disrupt their bot-side setup, where they often overextend when forced into low-economy defensive scenarios.",
			c.Team, strings.ToLower(c.Tendency))

	case TemplateDraftAssistant:
		comfort := ""
		if len(c.ComfortPicks) > 0 {
			comfort = fmt.Sprintf("While %s are high-comfort picks, ", strings.Join(c.ComfortPicks, ", "))
		}
		return fmt.Sprintf(
			"The draft yielded a %.0f%% win probability. %sthe composition lacks reliable hard engage, making late-game objective contests high-risk.",
			c.WinProbability*100, comfort)

	case TemplateDraftWinProb:
		return fmt.Sprintf("Team %s draft win probability: %.0f%%. Key meta picks identified.",
			c.Team, c.WinProbability*100)

	case TemplateTeamTrend:
		return fmt.Sprintf(
			"Team %s Trends: Aggression Index is %.2f. Consistency Score: %.2f. Momentum: %s (Current Streak: %d).",
			c.Team, c.Scores.AggressionIndex, c.Scores.ConsistencyScore, c.Scores.Momentum, c.Scores.CurrentStreak)

	case TemplateMatchSummary:
		return fmt.Sprintf(
			"%s secured a victory in %d minutes. "+
				"The team utilized a strong early game composition to snowball their lead. "+
				"Key objective controls around the Dragon pit were decisive.",
			c.Team, c.DurationMinutes)

	default:
		return fmt.Sprintf("Analysis for %s.", kind)
	}
}

// NewInsight builds a full insight record for a template kind.
func NewInsight(matchID *uuid.UUID, kind TemplateKind, c InsightContext) models.Insight {
	spec := insightSpecs[kind]
	return models.Insight{
		MatchID:     matchID,
		Category:    spec.category,
		Explanation: RenderExplanation(kind, c),
		Confidence:  spec.confidence,
	}
}
