// Package ingest maps raw provider payloads onto the canonical
// relational entities. It is a thin normalization layer; all derived
// analytics happen downstream in the pipeline.
package ingest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yoe-esports/analytics-api/internal/models"
	"github.com/yoe-esports/analytics-api/internal/store"
)

// Defaults applied when the provider omits optional context fields.
const (
	defaultRegion     = "Unknown"
	defaultTournament = "Unknown"
	defaultLeague     = "Pro League"

	// Placeholder until positional event data is wired up.
	defaultPositioningScore = 0.85
)

// Fetcher is the provider contract ingestion depends on.
type Fetcher interface {
	SeriesContext(ctx context.Context, seriesID string) (*models.SeriesContext, error)
	MatchStats(ctx context.Context, matchID string) (*models.MatchStatsPayload, error)
}

// Normalizer ingests one provider match into relational storage.
type Normalizer struct {
	matches store.MatchStore
	roster  store.RosterStore
	stats   store.StatsStore
	fetcher Fetcher
	logger  *zap.SugaredLogger
}

func NewNormalizer(matches store.MatchStore, roster store.RosterStore, stats store.StatsStore, fetcher Fetcher, logger *zap.Logger) *Normalizer {
	return &Normalizer{
		matches: matches,
		roster:  roster,
		stats:   stats,
		fetcher: fetcher,
		logger:  logger.Sugar(),
	}
}

// IngestMatch fetches, normalizes and persists one match. Re-ingesting
// a known provider match id is a no-op returning the existing match
// with created=false. Fetch failures surface to the caller; ingestion
// synthesizes no fallback data.
func (n *Normalizer) IngestMatch(ctx context.Context, providerMatchID string) (*models.Match, bool, error) {
	existing, err := n.matches.GetMatchByProviderID(ctx, providerMatchID)
	if err != nil {
		return nil, false, fmt.Errorf("lookup match %s: %w", providerMatchID, err)
	}
	if existing != nil {
		n.logger.Infow("Match already ingested, skipping", "provider_id", providerMatchID)
		return existing, false, nil
	}

	// Series context and match stats are independent fetches.
	var series *models.SeriesContext
	var matchStats *models.MatchStatsPayload

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		series, err = n.fetcher.SeriesContext(gctx, providerMatchID)
		return err
	})
	g.Go(func() error {
		var err error
		matchStats, err = n.fetcher.MatchStats(gctx, providerMatchID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, false, fmt.Errorf("fetch match %s: %w", providerMatchID, err)
	}

	teamsByProviderID, err := n.ensureTeams(ctx, series)
	if err != nil {
		return nil, false, err
	}

	match, err := n.createMatch(ctx, providerMatchID, series, teamsByProviderID)
	if err != nil {
		return nil, false, err
	}

	playersByProviderID, err := n.ensureRosters(ctx, series, teamsByProviderID)
	if err != nil {
		return nil, false, err
	}

	if err := n.insertPlayerStats(ctx, match, matchStats, playersByProviderID); err != nil {
		return nil, false, err
	}
	if err := n.insertTeamStats(ctx, match, matchStats, teamsByProviderID); err != nil {
		return nil, false, err
	}
	if err := n.insertDrafts(ctx, match, matchStats, teamsByProviderID); err != nil {
		return nil, false, err
	}

	n.logger.Infow("Match ingested", "provider_id", providerMatchID, "match", match.ID)
	return match, true, nil
}

func (n *Normalizer) ensureTeams(ctx context.Context, series *models.SeriesContext) (map[string]*models.Team, error) {
	teams := make(map[string]*models.Team, len(series.Teams))
	for _, tc := range series.Teams {
		team, err := n.roster.GetOrCreateTeam(ctx, tc.Name, orDefault(tc.Region, defaultRegion), defaultLeague)
		if err != nil {
			return nil, fmt.Errorf("ensure team %q: %w", tc.Name, err)
		}
		teams[tc.ID] = team
	}
	return teams, nil
}

func (n *Normalizer) createMatch(ctx context.Context, providerMatchID string, series *models.SeriesContext, teams map[string]*models.Team) (*models.Match, error) {
	date, err := time.Parse(time.RFC3339, series.StartTime)
	if err != nil {
		n.logger.Warnw("Unparseable start time, falling back to now",
			"provider_id", providerMatchID, "start_time", series.StartTime)
		date = time.Now().UTC()
	}

	match := &models.Match{
		ProviderMatchID: providerMatchID,
		Date:            date,
		Patch:           series.Patch,
		Duration:        series.Duration,
		Tournament:      orDefault(series.Tournament, defaultTournament),
		Format:          series.Format,
		GameTitle:       series.GameTitle,
	}
	if winner, ok := teams[series.WinnerID]; ok {
		match.WinnerID = &winner.ID
	}

	if err := n.matches.CreateMatch(ctx, match); err != nil {
		return nil, fmt.Errorf("create match %s: %w", providerMatchID, err)
	}
	return match, nil
}

func (n *Normalizer) ensureRosters(ctx context.Context, series *models.SeriesContext, teams map[string]*models.Team) (map[string]*models.Player, error) {
	players := map[string]*models.Player{}
	for _, tc := range series.Teams {
		team, ok := teams[tc.ID]
		if !ok {
			continue
		}
		for _, pe := range tc.Players {
			player, err := n.roster.GetOrCreatePlayer(ctx, pe.Name, models.ParseRole(pe.Role), &team.ID)
			if err != nil {
				return nil, fmt.Errorf("ensure player %q: %w", pe.Name, err)
			}
			players[pe.ID] = player
		}
	}
	return players, nil
}

func (n *Normalizer) insertPlayerStats(ctx context.Context, match *models.Match, payload *models.MatchStatsPayload, players map[string]*models.Player) error {
	for _, raw := range payload.PlayerStats {
		player, ok := players[raw.PlayerID]
		if !ok {
			// Stats for someone outside the fetched rosters; the row
			// cannot be attributed, so it is dropped with a log line.
			n.logger.Warnw("Player stats without roster entry", "provider_player_id", raw.PlayerID)
			continue
		}
		err := n.stats.InsertPlayerStats(ctx, &models.PlayerMatchStats{
			MatchID:          match.ID,
			PlayerID:         player.ID,
			Kills:            raw.Kills,
			Deaths:           raw.Deaths,
			Assists:          raw.Assists,
			CS:               raw.CS,
			GoldEarned:       raw.Gold,
			PositioningScore: defaultPositioningScore,
		})
		if err != nil {
			return fmt.Errorf("insert stats for %q: %w", player.Identifier, err)
		}
		if raw.Champion != "" {
			if _, err := n.roster.GetOrCreatePoolEntry(ctx, player.ID, raw.Champion, 1, 0); err != nil {
				n.logger.Warnw("Champion pool seed failed",
					"player", player.Identifier, "champion", raw.Champion, "error", err)
			}
		}
	}
	return nil
}

func (n *Normalizer) insertTeamStats(ctx context.Context, match *models.Match, payload *models.MatchStatsPayload, teams map[string]*models.Team) error {
	for _, raw := range payload.TeamStats {
		team, ok := teams[raw.TeamID]
		if !ok {
			n.logger.Warnw("Team stats without series team", "provider_team_id", raw.TeamID)
			continue
		}
		err := n.stats.InsertTeamStats(ctx, &models.TeamMatchStats{
			MatchID:    match.ID,
			TeamID:     team.ID,
			Barons:     raw.Barons,
			Dragons:    raw.Dragons,
			Towers:     raw.Towers,
			GoldDiff15: raw.GoldDiffAt15,
		})
		if err != nil {
			return fmt.Errorf("insert team stats for %q: %w", team.Name, err)
		}
	}
	return nil
}

func (n *Normalizer) insertDrafts(ctx context.Context, match *models.Match, payload *models.MatchStatsPayload, teams map[string]*models.Team) error {
	for providerTeamID, draft := range payload.Draft {
		team, ok := teams[providerTeamID]
		if !ok {
			n.logger.Warnw("Draft without series team", "provider_team_id", providerTeamID)
			continue
		}
		err := n.stats.InsertDraft(ctx, &models.Draft{
			MatchID: match.ID,
			TeamID:  team.ID,
			Bans:    draft.Bans,
			Picks:   draft.Picks,
		})
		if err != nil {
			return fmt.Errorf("insert draft for %q: %w", team.Name, err)
		}
	}
	return nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
