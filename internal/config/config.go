package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// DateLayout is the calendar date format used for every configured date and snapshot label
const DateLayout = "2006-01-02"

// Config holds all application configuration
type Config struct {
	// MLB Stats API
	StatsAPIBaseURL    string        `envconfig:"STATSAPI_BASE_URL" default:"https://statsapi.mlb.com/api/v1"`
	StatsAPITimeout    time.Duration `envconfig:"STATSAPI_TIMEOUT" default:"30s"`
	StatsAPIRateLimit  int           `envconfig:"STATSAPI_RATE_LIMIT" default:"5"`
	StatsAPIBurstLimit int           `envconfig:"STATSAPI_BURST_LIMIT" default:"5"`
	LeagueIDs          string        `envconfig:"LEAGUE_IDS" default:"103,104"`

	// Retry (fixed count, fixed delay)
	RetryAttempts int           `envconfig:"RETRY_ATTEMPTS" default:"3"`
	RetryDelay    time.Duration `envconfig:"RETRY_DELAY" default:"2s"`

	// Season
	SeasonYear         int    `envconfig:"SEASON_YEAR" default:"2025"`
	SeasonStart        string `envconfig:"SEASON_START" default:"2025-03-18"`
	BackfillEnd        string `envconfig:"BACKFILL_END" default:"2025-04-12"`
	ValidateSampleDate string `envconfig:"VALIDATE_SAMPLE_DATE" default:"2025-04-01"`
	BackfillMode       string `envconfig:"BACKFILL_MODE" default:"replay"`

	// League
	DataDir    string `envconfig:"DATA_DIR" default:"."`
	RosterFile string `envconfig:"ROSTER_FILE" default:""`

	// Validation thresholds
	DailyIncreaseThreshold int `envconfig:"DAILY_INCREASE_THRESHOLD" default:"2"`
	SeasonGames            int `envconfig:"SEASON_GAMES" default:"162"`

	// Database (optional snapshot mirror)
	DatabaseURL string `envconfig:"DATABASE_URL" default:""`

	// Redis (optional schedule cache)
	RedisEnabled     bool          `envconfig:"REDIS_ENABLED" default:"false"`
	RedisHost        string        `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort        int           `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword    string        `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB          int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTLSchedule time.Duration `envconfig:"CACHE_TTL_SCHEDULE" default:"720h"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Scheduler
	EnableScheduler   bool   `envconfig:"ENABLE_SCHEDULER" default:"true"`
	UpdateCron        string `envconfig:"UPDATE_CRON" default:"0 * * * *"`
	DailySnapshotCron string `envconfig:"DAILY_SNAPSHOT_CRON" default:"30 6 * * *"`
	WeeklyCron        string `envconfig:"WEEKLY_CRON" default:"0 7 * * 1"`
	InitialUpdate     bool   `envconfig:"INITIAL_UPDATE" default:"true"`

	// Monitoring
	EnableMetrics  bool   `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort    int    `envconfig:"METRICS_PORT" default:"9090"`
	PushgatewayURL string `envconfig:"PUSHGATEWAY_URL" default:""`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if present
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	start, err := time.Parse(DateLayout, c.SeasonStart)
	if err != nil {
		return fmt.Errorf("SEASON_START must be YYYY-MM-DD: %w", err)
	}

	end, err := time.Parse(DateLayout, c.BackfillEnd)
	if err != nil {
		return fmt.Errorf("BACKFILL_END must be YYYY-MM-DD: %w", err)
	}
	if end.Before(start) {
		return fmt.Errorf("BACKFILL_END %s is before SEASON_START %s", c.BackfillEnd, c.SeasonStart)
	}

	if _, err := time.Parse(DateLayout, c.ValidateSampleDate); err != nil {
		return fmt.Errorf("VALIDATE_SAMPLE_DATE must be YYYY-MM-DD: %w", err)
	}

	if c.BackfillMode != "replay" && c.BackfillMode != "cumulative" {
		return fmt.Errorf("BACKFILL_MODE must be replay or cumulative, got %q", c.BackfillMode)
	}

	if c.RetryAttempts < 1 {
		return fmt.Errorf("RETRY_ATTEMPTS must be at least 1")
	}

	if c.StatsAPIRateLimit < 1 || c.StatsAPIBurstLimit < 1 {
		return fmt.Errorf("STATSAPI_RATE_LIMIT and STATSAPI_BURST_LIMIT must be positive")
	}

	if c.DailyIncreaseThreshold < 1 || c.SeasonGames < 1 {
		return fmt.Errorf("DAILY_INCREASE_THRESHOLD and SEASON_GAMES must be positive")
	}

	if _, err := c.ParsedLeagueIDs(); err != nil {
		return err
	}

	return nil
}

// SeasonStartDate returns the parsed first day of the regular season (UTC midnight)
func (c *Config) SeasonStartDate() time.Time {
	t, _ := time.Parse(DateLayout, c.SeasonStart)
	return t
}

// BackfillEndDate returns the parsed last date of the backfill range (UTC midnight)
func (c *Config) BackfillEndDate() time.Time {
	t, _ := time.Parse(DateLayout, c.BackfillEnd)
	return t
}

// SampleDate returns the parsed validation spot-check date
func (c *Config) SampleDate() time.Time {
	t, _ := time.Parse(DateLayout, c.ValidateSampleDate)
	return t
}

// ParsedLeagueIDs splits LEAGUE_IDS into integers
func (c *Config) ParsedLeagueIDs() ([]int, error) {
	var ids []int
	for _, part := range strings.Split(c.LeagueIDs, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("LEAGUE_IDS contains non-numeric id %q", part)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("LEAGUE_IDS must list at least one league")
	}
	return ids, nil
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MustLoad loads configuration or exits on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
