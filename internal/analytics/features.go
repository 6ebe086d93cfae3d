// Package analytics is the match analysis pipeline: feature
// extraction, heuristic scoring and categorized insight generation
// over a loaded match snapshot.
package analytics

import (
	"math"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"

	"github.com/yoe-esports/analytics-api/internal/models"
)

// ExtractFeatures runs the per-match feature families over the
// snapshot. All families are pure over the loaded state and run
// unconditionally; missing inputs yield no rows rather than errors.
// Alongside the feature rows it returns the Performance MVP insight,
// when a player-stats set exists to select one from.
func ExtractFeatures(snap *models.MatchSnapshot) ([]models.ExtractedFeature, []models.Insight) {
	var features []models.ExtractedFeature
	var insights []models.Insight

	features = append(features, playerFeatures(snap)...)
	if mvp, ok := selectMVP(snap); ok {
		insights = append(insights, mvp)
	}
	features = append(features, teamDiscipline(snap)...)
	features = append(features, earlyGameDominance(snap)...)
	features = append(features, clutchFactor(snap)...)
	features = append(features, draftComfort(snap)...)

	return features, insights
}

// AggressionScore is (kills + assists) per minute of game time.
func AggressionScore(kills, assists, durationSeconds int) float64 {
	return float64(kills+assists) / (float64(durationSeconds) / 60)
}

// GoldEfficiency is gold per creep score. A zero creep score is
// floored to 1 to avoid division by zero, not to mean one unit of CS.
func GoldEfficiency(goldEarned, cs int) float64 {
	if cs < 1 {
		cs = 1
	}
	return float64(goldEarned) / float64(cs)
}

func playerFeatures(snap *models.MatchSnapshot) []models.ExtractedFeature {
	if len(snap.PlayerStats) == 0 {
		return nil
	}

	features := make([]models.ExtractedFeature, 0, len(snap.PlayerStats)*2)
	for _, ps := range snap.PlayerStats {
		ign := snap.PlayerIdentifier(ps.PlayerID)
		features = append(features,
			models.ExtractedFeature{
				EntityID:    ign,
				EntityType:  models.EntityPlayer,
				FeatureName: models.FeatureAggressionScore,
				Value:       AggressionScore(ps.Kills, ps.Assists, snap.Match.Duration),
			},
			models.ExtractedFeature{
				EntityID:    ign,
				EntityType:  models.EntityPlayer,
				FeatureName: models.FeatureGoldEfficiency,
				Value:       GoldEfficiency(ps.GoldEarned, ps.CS),
			},
		)
	}
	return features
}

// selectMVP picks the player with the highest aggression score. An
// empty player-stats set skips MVP selection entirely; that is the
// only suppressed condition.
func selectMVP(snap *models.MatchSnapshot) (models.Insight, bool) {
	if len(snap.PlayerStats) == 0 {
		return models.Insight{}, false
	}

	best := snap.PlayerStats[0]
	bestScore := AggressionScore(best.Kills, best.Assists, snap.Match.Duration)
	for _, ps := range snap.PlayerStats[1:] {
		if score := AggressionScore(ps.Kills, ps.Assists, snap.Match.Duration); score > bestScore {
			best, bestScore = ps, score
		}
	}

	matchID := snap.Match.ID
	return NewInsight(&matchID, TemplateMVP, InsightContext{
		Player:     snap.PlayerIdentifier(best.PlayerID),
		Aggression: bestScore,
	}), true
}

// teamDiscipline scores how evenly deaths were distributed. The
// variance is computed over the whole match's player set, not filtered
// per team, and the same value is attributed to every team with a
// team-stats row. That dataset-wide attribution matches the observed
// behavior of the system this replicates.
func teamDiscipline(snap *models.MatchSnapshot) []models.ExtractedFeature {
	if len(snap.TeamStats) == 0 {
		return nil
	}

	deaths := make(stats.Float64Data, 0, len(snap.PlayerStats))
	for _, ps := range snap.PlayerStats {
		deaths = append(deaths, float64(ps.Deaths))
	}
	variance, err := stats.PopulationVariance(deaths)
	if err != nil || math.IsNaN(variance) {
		variance = 0
	}
	score := 1 / (1 + variance)

	features := make([]models.ExtractedFeature, 0, len(snap.TeamStats))
	for _, ts := range snap.TeamStats {
		features = append(features, models.ExtractedFeature{
			EntityID:    snap.TeamName(ts.TeamID),
			EntityType:  models.EntityTeam,
			FeatureName: models.FeatureTeamDiscipline,
			Value:       score,
		})
	}
	return features
}

func earlyGameDominance(snap *models.MatchSnapshot) []models.ExtractedFeature {
	features := make([]models.ExtractedFeature, 0, len(snap.TeamStats))
	for _, ts := range snap.TeamStats {
		value := float64(ts.GoldDiff15) / 5000
		value = math.Max(-1, math.Min(1, value))
		features = append(features, models.ExtractedFeature{
			EntityID:    snap.TeamName(ts.TeamID),
			EntityType:  models.EntityTeam,
			FeatureName: models.FeatureEarlyGameDom,
			Value:       value,
		})
	}
	return features
}

// clutchFactor is a piecewise heuristic: 0.9 for a comeback win from a
// 15-minute gold deficit, 0.2 for a loss after holding a lead, 0.5
// baseline otherwise. No other value is ever produced.
func clutchFactor(snap *models.MatchSnapshot) []models.ExtractedFeature {
	features := make([]models.ExtractedFeature, 0, len(snap.TeamStats))
	for _, ts := range snap.TeamStats {
		won := snap.Match.WinnerID != nil && *snap.Match.WinnerID == ts.TeamID
		lost := snap.Match.WinnerID != nil && *snap.Match.WinnerID != ts.TeamID

		value := 0.5
		switch {
		case won && ts.GoldDiff15 < 0:
			value = 0.9
		case lost && ts.GoldDiff15 > 0:
			value = 0.2
		}
		features = append(features, models.ExtractedFeature{
			EntityID:    snap.TeamName(ts.TeamID),
			EntityType:  models.EntityTeam,
			FeatureName: models.FeatureClutchFactor,
			Value:       value,
		})
	}
	return features
}

// draftComfort averages per-pick comfort contributions. A pick played
// by someone on the drafting team contributes min(1, freq*winrate/20);
// unknown picks contribute 0. The divisor is floored at 1 so a draft
// with no picks scores 0 instead of dividing by zero.
func draftComfort(snap *models.MatchSnapshot) []models.ExtractedFeature {
	features := make([]models.ExtractedFeature, 0, len(snap.Drafts))
	for _, d := range snap.Drafts {
		total := 0.0
		for _, pick := range d.Picks {
			if entry, ok := poolEntryForTeam(snap, d.TeamID, pick); ok {
				total += math.Min(1, float64(entry.Frequency)*entry.WinRate/20)
			}
		}
		divisor := float64(len(d.Picks))
		if divisor < 1 {
			divisor = 1
		}
		features = append(features, models.ExtractedFeature{
			EntityID:    snap.TeamName(d.TeamID),
			EntityType:  models.EntityTeam,
			FeatureName: models.FeatureDraftComfort,
			Value:       total / divisor,
		})
	}
	return features
}

// poolEntryForTeam finds a champion-pool entry for any player on the
// given team.
func poolEntryForTeam(snap *models.MatchSnapshot, teamID uuid.UUID, champion string) (models.ChampionPoolEntry, bool) {
	for _, e := range snap.Pools {
		if e.Champion != champion {
			continue
		}
		p, ok := snap.Players[e.PlayerID]
		if ok && p.TeamID != nil && *p.TeamID == teamID {
			return e, true
		}
	}
	return models.ChampionPoolEntry{}, false
}
