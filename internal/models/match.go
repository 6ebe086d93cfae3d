package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is a player's position on the Rift.
type Role string

const (
	RoleTop     Role = "Top"
	RoleJungle  Role = "Jungle"
	RoleMid     Role = "Mid"
	RoleBot     Role = "Bot"
	RoleSupport Role = "Support"
	RoleUnknown Role = "Unknown"
)

// ParseRole maps a provider role string onto the Role enum, defaulting
// to RoleUnknown for anything unrecognised.
func ParseRole(s string) Role {
	switch s {
	case "Top", "top", "TOP":
		return RoleTop
	case "Jungle", "jungle", "JUNGLE":
		return RoleJungle
	case "Mid", "mid", "MID":
		return RoleMid
	case "Bot", "bot", "BOT", "Adc", "ADC":
		return RoleBot
	case "Support", "support", "SUPPORT":
		return RoleSupport
	default:
		return RoleUnknown
	}
}

// Team is keyed by name; region/league default to "Unknown" when the
// provider omits them.
type Team struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Region string    `json:"region"`
	League string    `json:"league"`
}

// Player identifier is the in-game name. TeamID is a back-reference only
// and may change when a player is reassigned.
type Player struct {
	ID         uuid.UUID  `json:"id"`
	Identifier string     `json:"identifier"`
	Role       Role       `json:"role"`
	TeamID     *uuid.UUID `json:"team_id,omitempty"`
}

// Match is the root entity of one analysis run. Duration is in seconds
// and must be positive for any match that reaches scoring.
type Match struct {
	ID              uuid.UUID  `json:"id"`
	ProviderMatchID string     `json:"provider_match_id"`
	Date            time.Time  `json:"date"`
	Patch           string     `json:"patch"`
	Duration        int        `json:"duration"`
	WinnerID        *uuid.UUID `json:"winner_id,omitempty"`
	Tournament      string     `json:"tournament"`
	Format          string     `json:"format"`
	GameTitle       string     `json:"game_title"`
}

// PlayerMatchStats is unique per (match, player).
type PlayerMatchStats struct {
	MatchID          uuid.UUID `json:"match_id"`
	PlayerID         uuid.UUID `json:"player_id"`
	Kills            int       `json:"kills"`
	Deaths           int       `json:"deaths"`
	Assists          int       `json:"assists"`
	CS               int       `json:"cs"`
	GoldEarned       int       `json:"gold_earned"`
	PositioningScore float64   `json:"positioning_score"`
}

// TeamMatchStats is unique per (match, team).
type TeamMatchStats struct {
	MatchID    uuid.UUID `json:"match_id"`
	TeamID     uuid.UUID `json:"team_id"`
	Barons     int       `json:"barons"`
	Dragons    int       `json:"dragons"`
	Towers     int       `json:"towers"`
	GoldDiff15 int       `json:"gold_diff_15"`
}

// Draft holds one team's picks and bans for a match. WinProbability is
// nil until the scoring stage writes it back.
type Draft struct {
	ID             uuid.UUID `json:"id"`
	MatchID        uuid.UUID `json:"match_id"`
	TeamID         uuid.UUID `json:"team_id"`
	Bans           []string  `json:"bans"`
	Picks          []string  `json:"picks"`
	WinProbability *float64  `json:"win_probability,omitempty"`
}

// ChampionPoolEntry is unique per (player, champion).
type ChampionPoolEntry struct {
	PlayerID  uuid.UUID `json:"player_id"`
	Champion  string    `json:"champion"`
	Frequency int       `json:"frequency"`
	WinRate   float64   `json:"win_rate"`
}
