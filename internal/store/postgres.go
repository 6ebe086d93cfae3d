package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/yoe-esports/analytics-api/internal/models"
)

// Postgres implements MatchStore, RosterStore, StatsStore, InsightStore
// and HistoryStore on top of a pgx pool.
type Postgres struct {
	pg     PgPool
	logger *zap.SugaredLogger
}

func NewPostgres(pg PgPool, logger *zap.Logger) *Postgres {
	return &Postgres{pg: pg, logger: logger.Sugar()}
}

const schema = `
CREATE TABLE IF NOT EXISTS teams (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	region TEXT NOT NULL DEFAULT 'Unknown',
	league TEXT NOT NULL DEFAULT 'Unknown'
);

CREATE TABLE IF NOT EXISTS players (
	id UUID PRIMARY KEY,
	identifier TEXT NOT NULL UNIQUE,
	role TEXT NOT NULL DEFAULT 'Unknown',
	team_id UUID REFERENCES teams(id)
);

CREATE TABLE IF NOT EXISTS matches (
	id UUID PRIMARY KEY,
	provider_match_id TEXT NOT NULL UNIQUE,
	date TIMESTAMPTZ NOT NULL,
	patch TEXT NOT NULL DEFAULT '',
	duration INT NOT NULL,
	winner_id UUID REFERENCES teams(id),
	tournament TEXT NOT NULL DEFAULT 'Unknown',
	format TEXT NOT NULL DEFAULT '',
	game_title TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS player_match_stats (
	match_id UUID NOT NULL REFERENCES matches(id),
	player_id UUID NOT NULL REFERENCES players(id),
	kills INT NOT NULL DEFAULT 0,
	deaths INT NOT NULL DEFAULT 0,
	assists INT NOT NULL DEFAULT 0,
	cs INT NOT NULL DEFAULT 0,
	gold_earned INT NOT NULL DEFAULT 0,
	positioning_score DOUBLE PRECISION NOT NULL DEFAULT 0,
	PRIMARY KEY (match_id, player_id)
);

CREATE TABLE IF NOT EXISTS team_match_stats (
	match_id UUID NOT NULL REFERENCES matches(id),
	team_id UUID NOT NULL REFERENCES teams(id),
	barons INT NOT NULL DEFAULT 0,
	dragons INT NOT NULL DEFAULT 0,
	towers INT NOT NULL DEFAULT 0,
	gold_diff_15 INT NOT NULL DEFAULT 0,
	PRIMARY KEY (match_id, team_id)
);

CREATE TABLE IF NOT EXISTS drafts (
	id UUID PRIMARY KEY,
	match_id UUID NOT NULL REFERENCES matches(id),
	team_id UUID NOT NULL REFERENCES teams(id),
	bans TEXT[] NOT NULL DEFAULT '{}',
	picks TEXT[] NOT NULL DEFAULT '{}',
	win_probability DOUBLE PRECISION,
	UNIQUE (match_id, team_id)
);

CREATE TABLE IF NOT EXISTS champion_pools (
	player_id UUID NOT NULL REFERENCES players(id),
	champion TEXT NOT NULL,
	frequency INT NOT NULL DEFAULT 0,
	win_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
	PRIMARY KEY (player_id, champion)
);

CREATE TABLE IF NOT EXISTS insights (
	id UUID PRIMARY KEY,
	match_id UUID REFERENCES matches(id),
	category TEXT NOT NULL,
	explanation TEXT NOT NULL,
	confidence DOUBLE PRECISION NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_player_match_stats_player ON player_match_stats(player_id);
CREATE INDEX IF NOT EXISTS idx_team_match_stats_team ON team_match_stats(team_id);
CREATE INDEX IF NOT EXISTS idx_insights_match ON insights(match_id);
`

// Migrate creates the relational schema if it does not exist.
func (s *Postgres) Migrate(ctx context.Context) error {
	if _, err := s.pg.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply postgres schema: %w", err)
	}
	s.logger.Info("Postgres schema ensured")
	return nil
}

// GetMatch fetches a match by id, returning (nil, nil) when no row
// exists.
func (s *Postgres) GetMatch(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	m, err := s.scanMatch(s.pg.QueryRow(ctx, `
		SELECT id, provider_match_id, date, patch, duration, winner_id, tournament, format, game_title
		FROM matches WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

// GetMatchByProviderID fetches a match by its provider key. A missing
// match returns (nil, nil) so ingestion can distinguish "new" from a
// genuine query failure.
func (s *Postgres) GetMatchByProviderID(ctx context.Context, providerID string) (*models.Match, error) {
	m, err := s.scanMatch(s.pg.QueryRow(ctx, `
		SELECT id, provider_match_id, date, patch, duration, winner_id, tournament, format, game_title
		FROM matches WHERE provider_match_id = $1`, providerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

func (s *Postgres) scanMatch(row pgx.Row) (*models.Match, error) {
	var m models.Match
	if err := row.Scan(&m.ID, &m.ProviderMatchID, &m.Date, &m.Patch, &m.Duration,
		&m.WinnerID, &m.Tournament, &m.Format, &m.GameTitle); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Postgres) CreateMatch(ctx context.Context, m *models.Match) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	_, err := s.pg.Exec(ctx, `
		INSERT INTO matches (id, provider_match_id, date, patch, duration, winner_id, tournament, format, game_title)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.ID, m.ProviderMatchID, m.Date, m.Patch, m.Duration, m.WinnerID, m.Tournament, m.Format, m.GameTitle)
	if err != nil {
		return fmt.Errorf("insert match: %w", err)
	}
	return nil
}

// GetOrCreateTeam looks a team up by name and creates it when missing.
// Region/league defaults are only applied on create; existing rows are
// never overwritten.
func (s *Postgres) GetOrCreateTeam(ctx context.Context, name, region, league string) (*models.Team, error) {
	var t models.Team
	err := s.pg.QueryRow(ctx, `SELECT id, name, region, league FROM teams WHERE name = $1`, name).
		Scan(&t.ID, &t.Name, &t.Region, &t.League)
	if err == nil {
		return &t, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("lookup team %q: %w", name, err)
	}

	t = models.Team{ID: uuid.New(), Name: name, Region: region, League: league}
	if t.Region == "" {
		t.Region = "Unknown"
	}
	if t.League == "" {
		t.League = "Unknown"
	}
	// Concurrent creates race on the unique name; fall back to the
	// existing row when the insert conflicts.
	_, err = s.pg.Exec(ctx, `
		INSERT INTO teams (id, name, region, league) VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO NOTHING`,
		t.ID, t.Name, t.Region, t.League)
	if err != nil {
		return nil, fmt.Errorf("insert team %q: %w", name, err)
	}
	if err := s.pg.QueryRow(ctx, `SELECT id, name, region, league FROM teams WHERE name = $1`, name).
		Scan(&t.ID, &t.Name, &t.Region, &t.League); err != nil {
		return nil, fmt.Errorf("reload team %q: %w", name, err)
	}
	return &t, nil
}

func (s *Postgres) GetOrCreatePlayer(ctx context.Context, identifier string, role models.Role, teamID *uuid.UUID) (*models.Player, error) {
	var p models.Player
	err := s.pg.QueryRow(ctx, `SELECT id, identifier, role, team_id FROM players WHERE identifier = $1`, identifier).
		Scan(&p.ID, &p.Identifier, &p.Role, &p.TeamID)
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("lookup player %q: %w", identifier, err)
	}

	p = models.Player{ID: uuid.New(), Identifier: identifier, Role: role, TeamID: teamID}
	_, err = s.pg.Exec(ctx, `
		INSERT INTO players (id, identifier, role, team_id) VALUES ($1, $2, $3, $4)
		ON CONFLICT (identifier) DO NOTHING`,
		p.ID, p.Identifier, p.Role, p.TeamID)
	if err != nil {
		return nil, fmt.Errorf("insert player %q: %w", identifier, err)
	}
	if err := s.pg.QueryRow(ctx, `SELECT id, identifier, role, team_id FROM players WHERE identifier = $1`, identifier).
		Scan(&p.ID, &p.Identifier, &p.Role, &p.TeamID); err != nil {
		return nil, fmt.Errorf("reload player %q: %w", identifier, err)
	}
	return &p, nil
}

func (s *Postgres) GetOrCreatePoolEntry(ctx context.Context, playerID uuid.UUID, champion string, frequency int, winRate float64) (*models.ChampionPoolEntry, error) {
	e := models.ChampionPoolEntry{PlayerID: playerID, Champion: champion, Frequency: frequency, WinRate: winRate}
	_, err := s.pg.Exec(ctx, `
		INSERT INTO champion_pools (player_id, champion, frequency, win_rate) VALUES ($1, $2, $3, $4)
		ON CONFLICT (player_id, champion) DO NOTHING`,
		playerID, champion, frequency, winRate)
	if err != nil {
		return nil, fmt.Errorf("insert pool entry %s/%s: %w", playerID, champion, err)
	}
	if err := s.pg.QueryRow(ctx, `
		SELECT player_id, champion, frequency, win_rate FROM champion_pools
		WHERE player_id = $1 AND champion = $2`, playerID, champion).
		Scan(&e.PlayerID, &e.Champion, &e.Frequency, &e.WinRate); err != nil {
		return nil, fmt.Errorf("reload pool entry %s/%s: %w", playerID, champion, err)
	}
	return &e, nil
}

func (s *Postgres) InsertPlayerStats(ctx context.Context, st *models.PlayerMatchStats) error {
	_, err := s.pg.Exec(ctx, `
		INSERT INTO player_match_stats (match_id, player_id, kills, deaths, assists, cs, gold_earned, positioning_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		st.MatchID, st.PlayerID, st.Kills, st.Deaths, st.Assists, st.CS, st.GoldEarned, st.PositioningScore)
	if err != nil {
		return fmt.Errorf("insert player stats: %w", err)
	}
	return nil
}

func (s *Postgres) InsertTeamStats(ctx context.Context, st *models.TeamMatchStats) error {
	_, err := s.pg.Exec(ctx, `
		INSERT INTO team_match_stats (match_id, team_id, barons, dragons, towers, gold_diff_15)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		st.MatchID, st.TeamID, st.Barons, st.Dragons, st.Towers, st.GoldDiff15)
	if err != nil {
		return fmt.Errorf("insert team stats: %w", err)
	}
	return nil
}

func (s *Postgres) InsertDraft(ctx context.Context, d *models.Draft) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	_, err := s.pg.Exec(ctx, `
		INSERT INTO drafts (id, match_id, team_id, bans, picks, win_probability)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		d.ID, d.MatchID, d.TeamID, d.Bans, d.Picks, d.WinProbability)
	if err != nil {
		return fmt.Errorf("insert draft: %w", err)
	}
	return nil
}

func (s *Postgres) InsertInsight(ctx context.Context, in *models.Insight) error {
	if in.ID == uuid.Nil {
		in.ID = uuid.New()
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now().UTC()
	}
	_, err := s.pg.Exec(ctx, `
		INSERT INTO insights (id, match_id, category, explanation, confidence, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		in.ID, in.MatchID, in.Category, in.Explanation, in.Confidence, in.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert insight: %w", err)
	}
	return nil
}

func (s *Postgres) ListInsights(ctx context.Context, matchID uuid.UUID) ([]models.Insight, error) {
	rows, err := s.pg.Query(ctx, `
		SELECT id, match_id, category, explanation, confidence, created_at
		FROM insights WHERE match_id = $1 ORDER BY created_at ASC, id ASC`, matchID)
	if err != nil {
		return nil, fmt.Errorf("list insights: %w", err)
	}
	defer rows.Close()

	insights := []models.Insight{}
	for rows.Next() {
		var in models.Insight
		if err := rows.Scan(&in.ID, &in.MatchID, &in.Category, &in.Explanation, &in.Confidence, &in.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan insight: %w", err)
		}
		insights = append(insights, in)
	}
	return insights, rows.Err()
}

// UpdateDraftWinProbability is the only mutation the pipeline performs
// on ingested entities.
func (s *Postgres) UpdateDraftWinProbability(ctx context.Context, draftID uuid.UUID, probability float64) error {
	tag, err := s.pg.Exec(ctx, `UPDATE drafts SET win_probability = $2 WHERE id = $1`, draftID, probability)
	if err != nil {
		return fmt.Errorf("update draft win probability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("draft %s not found", draftID)
	}
	return nil
}

func (s *Postgres) PlayerHistory(ctx context.Context, playerID, excludeMatch uuid.UUID, limit int) ([]models.PlayerHistoryRow, error) {
	rows, err := s.pg.Query(ctx, `
		SELECT ps.match_id, m.date, ps.deaths, m.winner_id
		FROM player_match_stats ps
		JOIN matches m ON m.id = ps.match_id
		WHERE ps.player_id = $1 AND m.winner_id IS NOT NULL AND m.id <> $2
		ORDER BY m.date DESC
		LIMIT $3`, playerID, excludeMatch, limit)
	if err != nil {
		return nil, fmt.Errorf("player history: %w", err)
	}
	defer rows.Close()

	var history []models.PlayerHistoryRow
	for rows.Next() {
		var h models.PlayerHistoryRow
		if err := rows.Scan(&h.MatchID, &h.Date, &h.Deaths, &h.WinnerID); err != nil {
			return nil, fmt.Errorf("scan player history: %w", err)
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

func (s *Postgres) TeamHistory(ctx context.Context, teamID, excludeMatch uuid.UUID, limit int) ([]models.TeamHistoryRow, error) {
	rows, err := s.pg.Query(ctx, `
		SELECT ts.match_id, m.date, ts.dragons
		FROM team_match_stats ts
		JOIN matches m ON m.id = ts.match_id
		WHERE ts.team_id = $1 AND m.id <> $2
		ORDER BY m.date DESC
		LIMIT $3`, teamID, excludeMatch, limit)
	if err != nil {
		return nil, fmt.Errorf("team history: %w", err)
	}
	defer rows.Close()

	var history []models.TeamHistoryRow
	for rows.Next() {
		var h models.TeamHistoryRow
		if err := rows.Scan(&h.MatchID, &h.Date, &h.Dragons); err != nil {
			return nil, fmt.Errorf("scan team history: %w", err)
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

// LoadSnapshot loads a match with all associated rows the pipeline
// needs: player/team stats, drafts, rosters and champion pools for the
// participating teams.
func (s *Postgres) LoadSnapshot(ctx context.Context, matchID uuid.UUID) (*models.MatchSnapshot, error) {
	match, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("load match %s: %w", matchID, err)
	}
	if match == nil {
		return nil, fmt.Errorf("match %s not found", matchID)
	}

	snap := &models.MatchSnapshot{
		Match:   *match,
		Teams:   map[uuid.UUID]models.Team{},
		Players: map[uuid.UUID]models.Player{},
	}

	if err := s.loadTeamSide(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadPlayerSide(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadDrafts(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadPools(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *Postgres) loadTeamSide(ctx context.Context, snap *models.MatchSnapshot) error {
	rows, err := s.pg.Query(ctx, `
		SELECT ts.match_id, ts.team_id, ts.barons, ts.dragons, ts.towers, ts.gold_diff_15,
		       t.id, t.name, t.region, t.league
		FROM team_match_stats ts
		JOIN teams t ON t.id = ts.team_id
		WHERE ts.match_id = $1`, snap.Match.ID)
	if err != nil {
		return fmt.Errorf("load team stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ts models.TeamMatchStats
		var t models.Team
		if err := rows.Scan(&ts.MatchID, &ts.TeamID, &ts.Barons, &ts.Dragons, &ts.Towers, &ts.GoldDiff15,
			&t.ID, &t.Name, &t.Region, &t.League); err != nil {
			return fmt.Errorf("scan team stats: %w", err)
		}
		snap.TeamStats = append(snap.TeamStats, ts)
		snap.Teams[t.ID] = t
	}
	return rows.Err()
}

func (s *Postgres) loadPlayerSide(ctx context.Context, snap *models.MatchSnapshot) error {
	rows, err := s.pg.Query(ctx, `
		SELECT ps.match_id, ps.player_id, ps.kills, ps.deaths, ps.assists, ps.cs, ps.gold_earned, ps.positioning_score,
		       p.id, p.identifier, p.role, p.team_id
		FROM player_match_stats ps
		JOIN players p ON p.id = ps.player_id
		WHERE ps.match_id = $1`, snap.Match.ID)
	if err != nil {
		return fmt.Errorf("load player stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ps models.PlayerMatchStats
		var p models.Player
		if err := rows.Scan(&ps.MatchID, &ps.PlayerID, &ps.Kills, &ps.Deaths, &ps.Assists, &ps.CS, &ps.GoldEarned, &ps.PositioningScore,
			&p.ID, &p.Identifier, &p.Role, &p.TeamID); err != nil {
			return fmt.Errorf("scan player stats: %w", err)
		}
		snap.PlayerStats = append(snap.PlayerStats, ps)
		snap.Players[p.ID] = p
	}
	return rows.Err()
}

func (s *Postgres) loadDrafts(ctx context.Context, snap *models.MatchSnapshot) error {
	rows, err := s.pg.Query(ctx, `
		SELECT id, match_id, team_id, bans, picks, win_probability
		FROM drafts WHERE match_id = $1`, snap.Match.ID)
	if err != nil {
		return fmt.Errorf("load drafts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d models.Draft
		if err := rows.Scan(&d.ID, &d.MatchID, &d.TeamID, &d.Bans, &d.Picks, &d.WinProbability); err != nil {
			return fmt.Errorf("scan draft: %w", err)
		}
		snap.Drafts = append(snap.Drafts, d)
	}
	return rows.Err()
}

func (s *Postgres) loadPools(ctx context.Context, snap *models.MatchSnapshot) error {
	// Pools cover every player rostered on a participating team, not
	// just those with stats in this match, so the roster rows come
	// along for team resolution.
	rows, err := s.pg.Query(ctx, `
		SELECT cp.player_id, cp.champion, cp.frequency, cp.win_rate,
		       p.id, p.identifier, p.role, p.team_id
		FROM champion_pools cp
		JOIN players p ON p.id = cp.player_id
		WHERE p.team_id IN (SELECT team_id FROM team_match_stats WHERE match_id = $1)`, snap.Match.ID)
	if err != nil {
		return fmt.Errorf("load champion pools: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e models.ChampionPoolEntry
		var p models.Player
		if err := rows.Scan(&e.PlayerID, &e.Champion, &e.Frequency, &e.WinRate,
			&p.ID, &p.Identifier, &p.Role, &p.TeamID); err != nil {
			return fmt.Errorf("scan champion pool: %w", err)
		}
		snap.Pools = append(snap.Pools, e)
		if _, ok := snap.Players[p.ID]; !ok {
			snap.Players[p.ID] = p
		}
	}
	return rows.Err()
}
