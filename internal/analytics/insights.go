package analytics

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yoe-esports/analytics-api/internal/models"
	"github.com/yoe-esports/analytics-api/internal/store"
)

// Historical windows used by the insight generators.
const (
	coachHistoryWindow = 10
	scoutHistoryWindow = 5
)

// Generator produces the categorized insights that need historical
// context. Purely snapshot-local insight builders live as free
// functions below.
type Generator struct {
	history store.HistoryStore
	logger  *zap.SugaredLogger
}

func NewGenerator(history store.HistoryStore, logger *zap.Logger) *Generator {
	return &Generator{history: history, logger: logger.Sugar()}
}

// AssistantCoach flags players whose deaths in the current match
// exceed their mean deaths across recent historical losses. Errors are
// isolated per player so one bad record cannot suppress the rest.
func (g *Generator) AssistantCoach(ctx context.Context, snap *models.MatchSnapshot) []models.Insight {
	var insights []models.Insight
	matchID := snap.Match.ID

	for _, ps := range snap.PlayerStats {
		player, ok := snap.Players[ps.PlayerID]
		if !ok || player.TeamID == nil {
			continue
		}

		history, err := g.history.PlayerHistory(ctx, ps.PlayerID, matchID, coachHistoryWindow)
		if err != nil {
			g.logger.Warnw("Assistant coach history lookup failed",
				"player", player.Identifier, "error", err)
			continue
		}
		if len(history) == 0 {
			continue
		}

		lossDeaths := 0
		losses := 0
		for _, h := range history {
			if h.WinnerID != nil && *h.WinnerID != *player.TeamID {
				lossDeaths += h.Deaths
				losses++
			}
		}
		if losses == 0 {
			continue
		}

		avgDeathsInLosses := float64(lossDeaths) / float64(losses)
		if float64(ps.Deaths) > avgDeathsInLosses {
			insights = append(insights, NewInsight(&matchID, TemplateCoachDeaths, InsightContext{
				Player:    player.Identifier,
				Deaths:    ps.Deaths,
				AvgDeaths: avgDeathsInLosses,
			}))
		}
	}
	return insights
}

// ScoutingReports classifies each team's recent objective tendency
// from its five most recent other matches. Teams without prior matches
// are skipped.
func (g *Generator) ScoutingReports(ctx context.Context, snap *models.MatchSnapshot) []models.Insight {
	var insights []models.Insight
	matchID := snap.Match.ID

	for _, ts := range snap.TeamStats {
		history, err := g.history.TeamHistory(ctx, ts.TeamID, matchID, scoutHistoryWindow)
		if err != nil {
			g.logger.Warnw("Scouting history lookup failed",
				"team", snap.TeamName(ts.TeamID), "error", err)
			continue
		}
		if len(history) == 0 {
			continue
		}

		totalDragons := 0
		for _, h := range history {
			totalDragons += h.Dragons
		}
		avgDragons := float64(totalDragons) / float64(len(history))

		tendency := "Early Game Aggression"
		if avgDragons > 3 {
			tendency = "Heavy Objective Focus"
		}

		insights = append(insights, NewInsight(&matchID, TemplateScoutTendency, InsightContext{
			Team:     snap.TeamName(ts.TeamID),
			Tendency: tendency,
		}))
	}
	return insights
}

// comfortPickThreshold: a pick counts as comfort when any player on
// the drafting team has played the champion more than this often.
const comfortPickThreshold = 5

// DraftAssistant cites each draft's (already scored) win probability
// and its comfort picks. The comfort-pick list may be empty.
func DraftAssistant(snap *models.MatchSnapshot) []models.Insight {
	var insights []models.Insight
	matchID := snap.Match.ID

	for _, d := range snap.Drafts {
		var comfortPicks []string
		for _, pick := range d.Picks {
			if entry, ok := poolEntryForTeam(snap, d.TeamID, pick); ok && entry.Frequency > comfortPickThreshold {
				comfortPicks = append(comfortPicks, pick)
			}
		}

		winProb := 0.0
		if d.WinProbability != nil {
			winProb = *d.WinProbability
		}

		insights = append(insights, NewInsight(&matchID, TemplateDraftAssistant, InsightContext{
			Team:           snap.TeamName(d.TeamID),
			WinProbability: winProb,
			ComfortPicks:   comfortPicks,
		}))
	}
	return insights
}

// CoachFeedback emits a per-player kill/positioning review note.
func CoachFeedback(snap *models.MatchSnapshot) []models.Insight {
	var insights []models.Insight
	matchID := snap.Match.ID

	for _, ps := range snap.PlayerStats {
		insights = append(insights, NewInsight(&matchID, TemplateCoachFeedback, InsightContext{
			Player:           snap.PlayerIdentifier(ps.PlayerID),
			Kills:            ps.Kills,
			PositioningScore: ps.PositioningScore,
		}))
	}
	return insights
}

// TeamTrend summarizes long-window performance scores for one team.
func TeamTrend(matchID uuid.UUID, teamName string, scores TeamPerformanceScores) models.Insight {
	return NewInsight(&matchID, TemplateTeamTrend, InsightContext{
		Team:   teamName,
		Scores: scores,
	})
}

// MatchSummary builds the match narrative. A match without a recorded
// winner has no story to tell and returns (zero, false).
func MatchSummary(snap *models.MatchSnapshot) (models.Insight, bool) {
	if snap.Match.WinnerID == nil {
		return models.Insight{}, false
	}
	matchID := snap.Match.ID
	return NewInsight(&matchID, TemplateMatchSummary, InsightContext{
		Team:            snap.TeamName(*snap.Match.WinnerID),
		DurationMinutes: snap.Match.Duration / 60,
	}), true
}
