package analytics

import (
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/yoe-esports/analytics-api/internal/models"
)

// testSnapshot builds a two-team snapshot: Alpha won in 30 minutes
// after trailing at 15, Beta threw a lead.
func testSnapshot() *models.MatchSnapshot {
	alphaID := uuid.New()
	betaID := uuid.New()
	p1 := uuid.New()
	p2 := uuid.New()
	matchID := uuid.New()

	return &models.MatchSnapshot{
		Match: models.Match{
			ID:       matchID,
			Duration: 1800,
			WinnerID: &alphaID,
		},
		Teams: map[uuid.UUID]models.Team{
			alphaID: {ID: alphaID, Name: "Alpha"},
			betaID:  {ID: betaID, Name: "Beta"},
		},
		Players: map[uuid.UUID]models.Player{
			p1: {ID: p1, Identifier: "Striker", TeamID: &alphaID},
			p2: {ID: p2, Identifier: "Anchor", TeamID: &betaID},
		},
		PlayerStats: []models.PlayerMatchStats{
			{MatchID: matchID, PlayerID: p1, Kills: 5, Assists: 10, Deaths: 2, CS: 250, GoldEarned: 12500, PositioningScore: 0.85},
			{MatchID: matchID, PlayerID: p2, Kills: 2, Assists: 4, Deaths: 6, CS: 0, GoldEarned: 8000, PositioningScore: 0.85},
		},
		TeamStats: []models.TeamMatchStats{
			{MatchID: matchID, TeamID: alphaID, Dragons: 3, GoldDiff15: -1200},
			{MatchID: matchID, TeamID: betaID, Dragons: 1, GoldDiff15: 1200},
		},
		Drafts: []models.Draft{
			{ID: uuid.New(), MatchID: matchID, TeamID: alphaID, Picks: []string{"Azir", "Hwei"}},
		},
		Pools: []models.ChampionPoolEntry{
			{PlayerID: p1, Champion: "Azir", Frequency: 10, WinRate: 60},
		},
	}
}

func TestAggressionScore(t *testing.T) {
	tests := []struct {
		name     string
		kills    int
		assists  int
		duration int
		want     float64
	}{
		{"baseline", 5, 10, 1800, 0.5},
		{"no participation", 0, 0, 1800, 0},
		{"short stomp", 10, 5, 900, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AggressionScore(tt.kills, tt.assists, tt.duration)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("AggressionScore = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGoldEfficiency_ZeroCSFloor(t *testing.T) {
	if got := GoldEfficiency(8000, 0); got != 8000 {
		t.Errorf("GoldEfficiency with zero CS = %v, want 8000", got)
	}
	if got := GoldEfficiency(10000, 200); got != 50 {
		t.Errorf("GoldEfficiency = %v, want 50", got)
	}
}

func TestExtractFeatures_EmptyPlayerStats(t *testing.T) {
	snap := testSnapshot()
	snap.PlayerStats = nil

	features, insights := ExtractFeatures(snap)

	for _, f := range features {
		if f.EntityType == models.EntityPlayer {
			t.Errorf("unexpected player feature %s for %s", f.FeatureName, f.EntityID)
		}
	}
	for _, in := range insights {
		if in.Category == models.CategoryPerformance {
			t.Error("MVP insight emitted without player stats")
		}
	}
}

func TestExtractFeatures_MVP(t *testing.T) {
	snap := testSnapshot()

	_, insights := ExtractFeatures(snap)

	if len(insights) != 1 {
		t.Fatalf("insights = %d, want 1", len(insights))
	}
	mvp := insights[0]
	if mvp.Category != models.CategoryPerformance {
		t.Errorf("category = %q, want %q", mvp.Category, models.CategoryPerformance)
	}
	if mvp.Confidence != 0.95 {
		t.Errorf("confidence = %v, want 0.95", mvp.Confidence)
	}
	want := "MVP: Striker with 0.50 Aggression Score."
	if mvp.Explanation != want {
		t.Errorf("explanation = %q, want %q", mvp.Explanation, want)
	}
}

func TestTeamDiscipline_UniformDeaths(t *testing.T) {
	snap := testSnapshot()
	for i := range snap.PlayerStats {
		snap.PlayerStats[i].Deaths = 3
	}

	features, _ := ExtractFeatures(snap)

	count := 0
	for _, f := range features {
		if f.FeatureName != models.FeatureTeamDiscipline {
			continue
		}
		count++
		if f.Value != 1 {
			t.Errorf("discipline for %s = %v, want 1 (zero variance)", f.EntityID, f.Value)
		}
	}
	if count != 2 {
		t.Errorf("discipline rows = %d, want one per team", count)
	}
}

func TestEarlyGameDominance_Clamped(t *testing.T) {
	tests := []struct {
		name     string
		goldDiff int
		want     float64
	}{
		{"clamped high", 6000, 1},
		{"clamped low", -7000, -1},
		{"proportional", 2500, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := testSnapshot()
			snap.TeamStats = snap.TeamStats[:1]
			snap.TeamStats[0].GoldDiff15 = tt.goldDiff

			features, _ := ExtractFeatures(snap)
			got, ok := findFeature(features, models.FeatureEarlyGameDom, "Alpha")
			if !ok {
				t.Fatal("early_game_dominance row missing")
			}
			if got != tt.want {
				t.Errorf("dominance = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClutchFactor(t *testing.T) {
	snap := testSnapshot()

	features, _ := ExtractFeatures(snap)

	// Alpha won from a deficit, Beta lost holding a lead.
	if got, _ := findFeature(features, models.FeatureClutchFactor, "Alpha"); got != 0.9 {
		t.Errorf("comeback clutch = %v, want 0.9", got)
	}
	if got, _ := findFeature(features, models.FeatureClutchFactor, "Beta"); got != 0.2 {
		t.Errorf("thrown-lead clutch = %v, want 0.2", got)
	}
}

func TestClutchFactor_NoWinner(t *testing.T) {
	snap := testSnapshot()
	snap.Match.WinnerID = nil

	features, _ := ExtractFeatures(snap)

	for _, name := range []string{"Alpha", "Beta"} {
		if got, _ := findFeature(features, models.FeatureClutchFactor, name); got != 0.5 {
			t.Errorf("clutch for %s without winner = %v, want 0.5", name, got)
		}
	}
}

func TestDraftComfort(t *testing.T) {
	snap := testSnapshot()

	features, _ := ExtractFeatures(snap)

	// Azir: min(1, 10*60/20) = 1; Hwei unknown contributes 0. Mean 0.5.
	got, ok := findFeature(features, models.FeatureDraftComfort, "Alpha")
	if !ok {
		t.Fatal("draft_comfort row missing")
	}
	if got != 0.5 {
		t.Errorf("draft comfort = %v, want 0.5", got)
	}
}

func TestDraftComfort_NoPicks(t *testing.T) {
	snap := testSnapshot()
	snap.Drafts[0].Picks = nil

	features, _ := ExtractFeatures(snap)

	got, ok := findFeature(features, models.FeatureDraftComfort, "Alpha")
	if !ok {
		t.Fatal("draft_comfort row missing")
	}
	if got != 0 {
		t.Errorf("draft comfort with no picks = %v, want 0", got)
	}
}

func findFeature(features []models.ExtractedFeature, name, entity string) (float64, bool) {
	for _, f := range features {
		if f.FeatureName == name && f.EntityID == entity {
			return f.Value, true
		}
	}
	return 0, false
}
