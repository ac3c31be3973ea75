package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/zackcline/fantasy-baseball-tracker/internal/config"
	"github.com/zackcline/fantasy-baseball-tracker/internal/metrics"
	"github.com/zackcline/fantasy-baseball-tracker/internal/models"
	"github.com/zackcline/fantasy-baseball-tracker/internal/retry"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// mlbSportID selects Major League Baseball on the schedule endpoint
const mlbSportID = "1"

// Config configures the MLB Stats API client
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit int
	Burst     int
	Retry     retry.Policy
	LeagueIDs []int
	Season    int
}

// ConfigFrom builds a client configuration from application config
func ConfigFrom(cfg *config.Config) (Config, error) {
	leagueIDs, err := cfg.ParsedLeagueIDs()
	if err != nil {
		return Config{}, err
	}
	return Config{
		BaseURL:   cfg.StatsAPIBaseURL,
		Timeout:   cfg.StatsAPITimeout,
		RateLimit: cfg.StatsAPIRateLimit,
		Burst:     cfg.StatsAPIBurstLimit,
		Retry:     retry.Policy{Attempts: cfg.RetryAttempts, Delay: cfg.RetryDelay},
		LeagueIDs: leagueIDs,
		Season:    cfg.SeasonYear,
	}, nil
}

// Client is the MLB Stats API client
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	retry      retry.Policy
	leagueIDs  string
	season     int
}

// NewClient creates a new MLB Stats API client
func NewClient(cfg Config) *Client {
	ids := make([]string, len(cfg.LeagueIDs))
	for i, id := range cfg.LeagueIDs {
		ids[i] = strconv.Itoa(id)
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		limiter:   rate.NewLimiter(limit, burst),
		retry:     cfg.Retry,
		leagueIDs: strings.Join(ids, ","),
		season:    cfg.Season,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// get performs a GET request with rate limiting, retrying transient failures
func (c *Client) get(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	var body []byte
	err := retry.Do(ctx, c.retry, endpoint, func(ctx context.Context) error {
		b, err := c.do(ctx, endpoint, params)
		if err != nil {
			if IsTransient(err) {
				return err
			}
			return retry.Permanent(err)
		}
		body = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// do performs a single request attempt
func (c *Client) do(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "fantasy-baseball-tracker/1.0")

	if len(params) > 0 {
		q := req.URL.Query()
		for key, value := range params {
			q.Add(key, value)
		}
		req.URL.RawQuery = q.Encode()
	}

	log.Debug().
		Str("url", req.URL.String()).
		Str("method", req.Method).
		Msg("Making API request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordAPICall(endpoint, "network_error", time.Since(start).Seconds())
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &TransientError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	metrics.RecordAPICall(endpoint, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())
	if err != nil {
		return nil, &TransientError{Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		log.Debug().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Int("size", len(body)).
			Msg("API request successful")
		return body, nil

	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, &TransientError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s: %s", endpoint, truncate(body)),
		}

	default:
		return nil, fmt.Errorf("API returned status %d for %s: %s", resp.StatusCode, endpoint, truncate(body))
	}
}

// FetchSchedule returns every game scheduled on date.
// A day without games is an empty slice, not an error.
func (c *Client) FetchSchedule(ctx context.Context, date time.Time) ([]models.GameResult, error) {
	day := date.Format(config.DateLayout)
	body, err := c.get(ctx, "schedule", map[string]string{
		"sportId": mlbSportID,
		"date":    day,
	})
	if err != nil {
		return nil, err
	}

	var resp models.ScheduleResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: schedule %s: %v", models.ErrMalformedResponse, day, err)
	}
	if resp.Dates == nil {
		return nil, fmt.Errorf("%w: schedule %s: missing dates", models.ErrMalformedResponse, day)
	}

	var games []models.GameResult
	for _, d := range resp.Dates {
		for i := range d.Games {
			g, err := d.Games[i].ToGameResult()
			if err != nil {
				return nil, fmt.Errorf("%w: schedule %s: %v", models.ErrMalformedResponse, day, err)
			}
			games = append(games, *g)
		}
	}

	log.Debug().
		Str("date", day).
		Int("games", len(games)).
		Msg("Fetched schedule")

	return games, nil
}

// FetchStandings returns the cumulative regular-season record of every team as of date
func (c *Client) FetchStandings(ctx context.Context, date time.Time) ([]models.ExternalTeamRecord, error) {
	day := date.Format(config.DateLayout)
	body, err := c.get(ctx, "standings", map[string]string{
		"leagueId":       c.leagueIDs,
		"season":         strconv.Itoa(c.season),
		"date":           day,
		"standingsTypes": "regularSeason",
	})
	if err != nil {
		return nil, err
	}

	var resp models.StandingsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: standings %s: %v", models.ErrMalformedResponse, day, err)
	}
	if resp.Records == nil {
		return nil, fmt.Errorf("%w: standings %s: missing records", models.ErrMalformedResponse, day)
	}

	var records []models.ExternalTeamRecord
	for _, division := range resp.Records {
		for i := range division.TeamRecords {
			r, err := division.TeamRecords[i].ToExternalTeamRecord()
			if err != nil {
				return nil, fmt.Errorf("%w: standings %s: %v", models.ErrMalformedResponse, day, err)
			}
			records = append(records, *r)
		}
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("standings %s: %w", day, models.ErrNoRecords)
	}

	log.Debug().
		Str("date", day).
		Int("teams", len(records)).
		Msg("Fetched standings")

	return records, nil
}

func truncate(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
