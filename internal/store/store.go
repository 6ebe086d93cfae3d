// Package store is the persistence boundary for the analytics pipeline.
// Relational entities live in Postgres; extracted features are an
// append-only fact table in ClickHouse.
package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yoe-esports/analytics-api/internal/models"
)

// PgPool defines the interface for the PostgreSQL connection pool.
type PgPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// MatchStore resolves and creates match aggregates.
type MatchStore interface {
	GetMatch(ctx context.Context, id uuid.UUID) (*models.Match, error)
	GetMatchByProviderID(ctx context.Context, providerID string) (*models.Match, error)
	CreateMatch(ctx context.Context, m *models.Match) error
	LoadSnapshot(ctx context.Context, matchID uuid.UUID) (*models.MatchSnapshot, error)
}

// RosterStore provides get-or-create by natural key: team by name,
// player by identifier, champion-pool entry by (player, champion).
type RosterStore interface {
	GetOrCreateTeam(ctx context.Context, name, region, league string) (*models.Team, error)
	GetOrCreatePlayer(ctx context.Context, identifier string, role models.Role, teamID *uuid.UUID) (*models.Player, error)
	GetOrCreatePoolEntry(ctx context.Context, playerID uuid.UUID, champion string, frequency int, winRate float64) (*models.ChampionPoolEntry, error)
}

// StatsStore writes the per-match child rows created during ingestion.
type StatsStore interface {
	InsertPlayerStats(ctx context.Context, s *models.PlayerMatchStats) error
	InsertTeamStats(ctx context.Context, s *models.TeamMatchStats) error
	InsertDraft(ctx context.Context, d *models.Draft) error
}

// InsightStore is the append-only insight sink plus the single
// sanctioned mutation: the draft win-probability write-back.
type InsightStore interface {
	InsertInsight(ctx context.Context, in *models.Insight) error
	ListInsights(ctx context.Context, matchID uuid.UUID) ([]models.Insight, error)
	UpdateDraftWinProbability(ctx context.Context, draftID uuid.UUID, probability float64) error
}

// HistoryStore serves the historical-window queries consumed by the
// insight generators.
type HistoryStore interface {
	// PlayerHistory returns the player's most recent rows from matches
	// with a known winner, excluding excludeMatch, newest first.
	PlayerHistory(ctx context.Context, playerID, excludeMatch uuid.UUID, limit int) ([]models.PlayerHistoryRow, error)
	// TeamHistory returns the team's most recent rows from other
	// matches regardless of result, newest first.
	TeamHistory(ctx context.Context, teamID, excludeMatch uuid.UUID, limit int) ([]models.TeamHistoryRow, error)
}

// FeatureStore appends extracted feature facts. No dedup is performed;
// re-running a pipeline appends a second set of rows.
type FeatureStore interface {
	InsertFeatures(ctx context.Context, features []models.ExtractedFeature) error
}
