package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yoe-esports/analytics-api/internal/models"
)

// mockMatchStore
type mockMatchStore struct {
	existing map[string]*models.Match
	created  []*models.Match
}

func (m *mockMatchStore) GetMatch(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	for _, match := range m.created {
		if match.ID == id {
			return match, nil
		}
	}
	return nil, nil
}

func (m *mockMatchStore) GetMatchByProviderID(ctx context.Context, providerID string) (*models.Match, error) {
	if match, ok := m.existing[providerID]; ok {
		return match, nil
	}
	return nil, nil
}

func (m *mockMatchStore) CreateMatch(ctx context.Context, match *models.Match) error {
	match.ID = uuid.New()
	m.created = append(m.created, match)
	if m.existing == nil {
		m.existing = map[string]*models.Match{}
	}
	m.existing[match.ProviderMatchID] = match
	return nil
}

func (m *mockMatchStore) LoadSnapshot(ctx context.Context, matchID uuid.UUID) (*models.MatchSnapshot, error) {
	return nil, fmt.Errorf("not implemented")
}

// mockRosterStore
type mockRosterStore struct {
	teams   map[string]*models.Team
	players map[string]*models.Player
	pools   []models.ChampionPoolEntry
}

func (m *mockRosterStore) GetOrCreateTeam(ctx context.Context, name, region, league string) (*models.Team, error) {
	if m.teams == nil {
		m.teams = map[string]*models.Team{}
	}
	if team, ok := m.teams[name]; ok {
		return team, nil
	}
	team := &models.Team{ID: uuid.New(), Name: name, Region: region, League: league}
	m.teams[name] = team
	return team, nil
}

func (m *mockRosterStore) GetOrCreatePlayer(ctx context.Context, identifier string, role models.Role, teamID *uuid.UUID) (*models.Player, error) {
	if m.players == nil {
		m.players = map[string]*models.Player{}
	}
	if player, ok := m.players[identifier]; ok {
		return player, nil
	}
	player := &models.Player{ID: uuid.New(), Identifier: identifier, Role: role, TeamID: teamID}
	m.players[identifier] = player
	return player, nil
}

func (m *mockRosterStore) GetOrCreatePoolEntry(ctx context.Context, playerID uuid.UUID, champion string, frequency int, winRate float64) (*models.ChampionPoolEntry, error) {
	entry := models.ChampionPoolEntry{PlayerID: playerID, Champion: champion, Frequency: frequency, WinRate: winRate}
	m.pools = append(m.pools, entry)
	return &entry, nil
}

// mockStatsStore
type mockStatsStore struct {
	playerStats []models.PlayerMatchStats
	teamStats   []models.TeamMatchStats
	drafts      []models.Draft
}

func (m *mockStatsStore) InsertPlayerStats(ctx context.Context, s *models.PlayerMatchStats) error {
	m.playerStats = append(m.playerStats, *s)
	return nil
}

func (m *mockStatsStore) InsertTeamStats(ctx context.Context, s *models.TeamMatchStats) error {
	m.teamStats = append(m.teamStats, *s)
	return nil
}

func (m *mockStatsStore) InsertDraft(ctx context.Context, d *models.Draft) error {
	m.drafts = append(m.drafts, *d)
	return nil
}

// mockFetcher
type mockFetcher struct {
	SeriesContextFunc func(ctx context.Context, seriesID string) (*models.SeriesContext, error)
	MatchStatsFunc    func(ctx context.Context, matchID string) (*models.MatchStatsPayload, error)
}

func (m *mockFetcher) SeriesContext(ctx context.Context, seriesID string) (*models.SeriesContext, error) {
	if m.SeriesContextFunc != nil {
		return m.SeriesContextFunc(ctx, seriesID)
	}
	return nil, fmt.Errorf("no series context")
}

func (m *mockFetcher) MatchStats(ctx context.Context, matchID string) (*models.MatchStatsPayload, error) {
	if m.MatchStatsFunc != nil {
		return m.MatchStatsFunc(ctx, matchID)
	}
	return nil, fmt.Errorf("no match stats")
}
