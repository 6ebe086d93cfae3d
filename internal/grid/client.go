// Package grid is the client for the external GRID stats provider.
// The analytics pipeline never talks to the provider directly; it goes
// through the narrow fetch interfaces implemented here.
package grid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/yoe-esports/analytics-api/internal/models"
)

const teamPerformanceQuery = `
query TeamPerformance($teamId: ID!, $timeWindow: String!) {
  teamStatistics(teamId: $teamId, filter: { timeWindow: $timeWindow }) {
    series {
      kills { avg }
      deaths { avg }
    }
    game {
      wins {
        percentage
        streak { max current }
      }
    }
  }
}`

// DefaultWindow is the long-window label used for team trend analysis.
const DefaultWindow = "LAST_6_MONTHS"

type Config struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	RetryWait time.Duration
	Logger    *zap.Logger
}

// Client talks HTTP to the provider. A 429 response is treated as
// transient: the client pauses and retries exactly once; every other
// failure surfaces to the caller.
type Client struct {
	baseURL   string
	apiKey    string
	http      *http.Client
	retryWait time.Duration
	logger    *zap.SugaredLogger
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RetryWait <= 0 {
		cfg.RetryWait = 2 * time.Second
	}
	return &Client{
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		http:      &http.Client{Timeout: cfg.Timeout},
		retryWait: cfg.RetryWait,
		logger:    cfg.Logger.Sugar(),
	}
}

// SeriesContext fetches the series/tournament framing of a match.
func (c *Client) SeriesContext(ctx context.Context, seriesID string) (*models.SeriesContext, error) {
	var out models.SeriesContext
	if err := c.getJSON(ctx, "/central/series/"+seriesID, &out); err != nil {
		return nil, fmt.Errorf("fetch series context %s: %w", seriesID, err)
	}
	return &out, nil
}

// MatchStats fetches per-player and per-team raw stats plus drafts.
func (c *Client) MatchStats(ctx context.Context, matchID string) (*models.MatchStatsPayload, error) {
	var out models.MatchStatsPayload
	if err := c.getJSON(ctx, "/stats/match/"+matchID, &out); err != nil {
		return nil, fmt.Errorf("fetch match stats %s: %w", matchID, err)
	}
	return &out, nil
}

// teamStatisticsResponse mirrors the provider's GraphQL envelope.
type teamStatisticsResponse struct {
	Data struct {
		TeamStatistics *struct {
			Series struct {
				Kills  struct{ Avg float64 }
				Deaths struct{ Avg float64 }
			}
			Game struct {
				Wins struct {
					Percentage float64
					Streak     struct {
						Max     int
						Current int
					}
				}
			}
		} `json:"teamStatistics"`
	} `json:"data"`
}

// TeamPerformance fetches long-window aggregates for one team. Teams
// the provider has no data for return (nil, nil); that is not an
// error, the team is simply excluded from long-window scoring.
func (c *Client) TeamPerformance(ctx context.Context, teamID, timeWindow string) (*models.TeamPerformanceWindow, error) {
	if timeWindow == "" {
		timeWindow = DefaultWindow
	}
	body := map[string]any{
		"query": teamPerformanceQuery,
		"variables": map[string]string{
			"teamId":     teamID,
			"timeWindow": timeWindow,
		},
	}

	var out teamStatisticsResponse
	if err := c.postJSON(ctx, "/stats/graphql", body, &out); err != nil {
		return nil, fmt.Errorf("fetch team performance %s: %w", teamID, err)
	}
	stats := out.Data.TeamStatistics
	if stats == nil {
		return nil, nil
	}
	return &models.TeamPerformanceWindow{
		AvgKills:      stats.Series.Kills.Avg,
		AvgDeaths:     stats.Series.Deaths.Avg,
		WinPercentage: stats.Game.Wins.Percentage,
		CurrentStreak: stats.Game.Wins.Streak.Current,
		MaxStreak:     stats.Game.Wins.Streak.Max,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, payload, out)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	retried := false
	for {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return err
		}
		req.Header.Set("x-api-key", c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}

		if resp.StatusCode == http.StatusTooManyRequests && !retried {
			wait := c.retryWait
			if ra := resp.Header.Get("Retry-After"); ra != "" {
				if secs, err := strconv.Atoi(ra); err == nil && secs > 0 {
					wait = time.Duration(secs) * time.Second
				}
			}
			resp.Body.Close()
			c.logger.Warnw("Provider rate limited, retrying once", "path", path, "wait", wait)
			retried = true
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			continue
		}

		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return fmt.Errorf("provider returned %d: %s", resp.StatusCode, string(raw))
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode provider response: %w", err)
		}
		return nil
	}
}
