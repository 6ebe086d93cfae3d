package models

import (
	"encoding/json"
	"testing"
)

func TestFlexUnmarshal_AllStrings(t *testing.T) {
	input := `[{"playerId": "p-101", "kills": "7", "deaths": "2.000", "assists": "11", "cs": "284", "gold": "14230", "champion": "Azir"}]`

	var stats []RawPlayerStats
	err := json.Unmarshal([]byte(input), &stats)
	if err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(stats))
	}

	s := stats[0]
	if s.PlayerID != "p-101" {
		t.Errorf("PlayerID = %q, want p-101", s.PlayerID)
	}
	if s.Kills != 7 {
		t.Errorf("Kills = %d, want 7", s.Kills)
	}
	if s.Deaths != 2 {
		t.Errorf("Deaths = %d, want 2", s.Deaths)
	}
	if s.Gold != 14230 {
		t.Errorf("Gold = %d, want 14230", s.Gold)
	}
	if s.Champion != "Azir" {
		t.Errorf("Champion = %q, want Azir", s.Champion)
	}
}

func TestFlexUnmarshal_NativeTypes(t *testing.T) {
	input := `[{"playerId": "p-102", "kills": 3, "deaths": 5, "assists": 9, "cs": 212, "gold": 9800}]`

	var stats []RawPlayerStats
	err := json.Unmarshal([]byte(input), &stats)
	if err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	s := stats[0]
	if s.Kills != 3 {
		t.Errorf("Kills = %d, want 3", s.Kills)
	}
	if s.CS != 212 {
		t.Errorf("CS = %d, want 212", s.CS)
	}
}

func TestFlexUnmarshal_SeriesContextStringDuration(t *testing.T) {
	input := `{"id": "series-9", "startTime": "2025-03-01T18:00:00Z", "duration": "2145", "patch": "25.05"}`

	var sc SeriesContext
	if err := json.Unmarshal([]byte(input), &sc); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if sc.Duration != 2145 {
		t.Errorf("Duration = %d, want 2145", sc.Duration)
	}
	if sc.Patch != "25.05" {
		t.Errorf("Patch = %q, want 25.05", sc.Patch)
	}
}
