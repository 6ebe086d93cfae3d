package models

import (
	"time"

	"github.com/google/uuid"
)

// Entity kinds for extracted features.
const (
	EntityPlayer = "Player"
	EntityTeam   = "Team"
	EntityMatch  = "Match"
)

// Feature names emitted by the pipeline.
const (
	FeatureAggressionScore  = "aggression_score"
	FeatureGoldEfficiency   = "gold_efficiency"
	FeatureTeamDiscipline   = "team_discipline"
	FeatureEarlyGameDom     = "early_game_dominance"
	FeatureClutchFactor     = "clutch_factor"
	FeatureDraftComfort     = "draft_comfort"
	FeatureAggressionIndex  = "aggression_index"
	FeatureConsistencyScore = "consistency_score"
)

// ExtractedFeature is an append-only fact row. Multiple rows may exist
// for the same (entity, feature) across runs; there is no upsert.
type ExtractedFeature struct {
	EntityID    string    `json:"entity_id"`
	EntityType  string    `json:"entity_type"`
	FeatureName string    `json:"feature_name"`
	Value       float64   `json:"value"`
	CreatedAt   time.Time `json:"created_at"`
}

// Insight categories.
const (
	CategoryPerformance    = "Performance"
	CategorySummary        = "Summary"
	CategoryDraft          = "Draft"
	CategoryAssistantCoach = "Assistant Coach"
	CategoryScouting       = "Scouting Reports"
	CategoryDraftAssistant = "Draft Assistant"
	CategoryCoachFeedback  = "Coach Feedback"
)

// Insight is append-only; re-running the pipeline on the same match
// appends rather than replaces.
type Insight struct {
	ID          uuid.UUID  `json:"id"`
	MatchID     *uuid.UUID `json:"match_id,omitempty"`
	Category    string     `json:"category"`
	Explanation string     `json:"explanation"`
	Confidence  float64    `json:"confidence"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TeamPerformanceWindow is the long-window aggregate returned by the
// stats provider for one team (e.g. LAST_6_MONTHS).
type TeamPerformanceWindow struct {
	AvgKills      float64 `json:"avg_kills"`
	AvgDeaths     float64 `json:"avg_deaths"`
	WinPercentage float64 `json:"win_percentage"`
	CurrentStreak int     `json:"current_streak"`
	MaxStreak     int     `json:"max_streak"`
}

// MatchSnapshot is the fully loaded, immutable state of one match that
// the pipeline stages operate on. The caller owns it for the duration
// of a single analysis run.
type MatchSnapshot struct {
	Match       Match
	Teams       map[uuid.UUID]Team
	Players     map[uuid.UUID]Player
	PlayerStats []PlayerMatchStats
	TeamStats   []TeamMatchStats
	Drafts      []Draft
	Pools       []ChampionPoolEntry
}

// TeamName resolves a team id to its name, falling back to the raw id
// when the team is not part of the snapshot.
func (s *MatchSnapshot) TeamName(id uuid.UUID) string {
	if t, ok := s.Teams[id]; ok {
		return t.Name
	}
	return id.String()
}

// PlayerIdentifier resolves a player id to its in-game name.
func (s *MatchSnapshot) PlayerIdentifier(id uuid.UUID) string {
	if p, ok := s.Players[id]; ok {
		return p.Identifier
	}
	return id.String()
}

// PlayerHistoryRow is one historical player-stats row joined with its
// match outcome, used by the Assistant Coach generator.
type PlayerHistoryRow struct {
	MatchID  uuid.UUID
	Date     time.Time
	Deaths   int
	WinnerID *uuid.UUID
}

// TeamHistoryRow is one historical team-stats row from a recent match,
// used by the Scouting Reports generator.
type TeamHistoryRow struct {
	MatchID uuid.UUID
	Date    time.Time
	Dragons int
}
