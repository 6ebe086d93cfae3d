package analytics

import "github.com/yoe-esports/analytics-api/internal/models"

// metaPicks is the fixed allow-list of picks the draft model rewards.
var metaPicks = map[string]bool{
	"Hwei":   true,
	"Azir":   true,
	"Ksante": true,
}

// DraftWinProbability is a deterministic heuristic, not a model: base
// 0.5 plus 0.05 per meta pick, capped at 0.99.
func DraftWinProbability(picks []string) float64 {
	prob := 0.5
	for _, pick := range picks {
		if metaPicks[pick] {
			prob += 0.05
		}
	}
	if prob > 0.99 {
		prob = 0.99
	}
	return prob
}

// Momentum labels.
const (
	MomentumHigh   = "High"
	MomentumStable = "Stable"
)

// TeamPerformanceScores are derived from the provider's long-window
// aggregates for one team.
type TeamPerformanceScores struct {
	AggressionIndex  float64
	ConsistencyScore float64
	Momentum         string
	CurrentStreak    int
}

// ScoreTeamPerformance computes the long-window scores. Division-by-
// zero candidates (deaths, max streak) are floored to 1.
func ScoreTeamPerformance(w models.TeamPerformanceWindow) TeamPerformanceScores {
	avgDeaths := w.AvgDeaths
	if avgDeaths < 1 {
		avgDeaths = 1
	}
	maxStreak := w.MaxStreak
	if maxStreak < 1 {
		maxStreak = 1
	}

	momentum := MomentumStable
	if w.CurrentStreak >= 3 {
		momentum = MomentumHigh
	}

	return TeamPerformanceScores{
		AggressionIndex:  w.AvgKills / avgDeaths,
		ConsistencyScore: w.WinPercentage * (1 + float64(w.CurrentStreak)/float64(maxStreak)),
		Momentum:         momentum,
		CurrentStreak:    w.CurrentStreak,
	}
}
