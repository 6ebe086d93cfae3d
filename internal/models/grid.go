package models

// Raw payloads returned by the GRID stats provider. The ingest
// normalizer maps these onto the canonical entities; optional fields
// may be empty and are backfilled with documented defaults.

// SeriesContext is the tournament/series framing of a match.
type SeriesContext struct {
	SeriesID   string              `json:"id"`
	StartTime  string              `json:"startTime"`
	Patch      string              `json:"patch"`
	Duration   int                 `json:"duration"`
	Format     string              `json:"format"`
	Tournament string              `json:"tournament"`
	GameTitle  string              `json:"title"`
	WinnerID   string              `json:"winner"`
	Teams      []SeriesTeamContext `json:"teams"`
}

// SeriesTeamContext is one participant team with its roster.
type SeriesTeamContext struct {
	ID      string              `json:"id"`
	Name    string              `json:"name"`
	Region  string              `json:"region"`
	Players []SeriesPlayerEntry `json:"players"`
}

// SeriesPlayerEntry is a roster slot keyed by the provider player id.
type SeriesPlayerEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// MatchStatsPayload carries per-player and per-team raw stats plus the
// draft, keyed by provider ids.
type MatchStatsPayload struct {
	MatchID     string                  `json:"matchId"`
	PlayerStats []RawPlayerStats        `json:"playerStats"`
	TeamStats   []RawTeamStats          `json:"teamStats"`
	Draft       map[string]DraftPayload `json:"draft"`
}

type RawPlayerStats struct {
	PlayerID string `json:"playerId"`
	Kills    int    `json:"kills"`
	Deaths   int    `json:"deaths"`
	Assists  int    `json:"assists"`
	CS       int    `json:"cs"`
	Gold     int    `json:"gold"`
	// Champion is optional; when present it seeds the player's
	// champion pool.
	Champion string `json:"champion,omitempty"`
}

type RawTeamStats struct {
	TeamID       string `json:"teamId"`
	Barons       int    `json:"barons"`
	Dragons      int    `json:"dragons"`
	Towers       int    `json:"towers"`
	GoldDiffAt15 int    `json:"goldDiffAt15"`
}

// DraftPayload is one team's picks and bans in draft order.
type DraftPayload struct {
	Picks []string `json:"picks"`
	Bans  []string `json:"bans"`
}
