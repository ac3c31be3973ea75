// Package app wires configuration, the Stats API client, caches and stores into the
// standings operations shared by the CLI and the worker.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/zackcline/fantasy-baseball-tracker/internal/cache"
	"github.com/zackcline/fantasy-baseball-tracker/internal/client"
	"github.com/zackcline/fantasy-baseball-tracker/internal/config"
	"github.com/zackcline/fantasy-baseball-tracker/internal/league"
	"github.com/zackcline/fantasy-baseball-tracker/internal/repository"
	"github.com/zackcline/fantasy-baseball-tracker/internal/standings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// App holds the long-lived components of one process
type App struct {
	Config  *config.Config
	League  *league.League
	Service *standings.Service
	Store   *repository.Store
	RunID   string

	// Optional backends, nil when disabled or unreachable
	DB        *repository.Database
	Redis     *cache.RedisCache
	Publisher *cache.StandingsPublisher

	closers []func()
	now     func() time.Time
}

// New assembles an App from ready-made components
func New(cfg *config.Config, lg *league.League, svc *standings.Service, store *repository.Store) *App {
	return &App{
		Config:  cfg,
		League:  lg,
		Service: svc,
		Store:   store,
		now:     time.Now,
	}
}

// Build connects everything configured in cfg.
// Redis and Postgres are optional: a connection failure is logged and the run continues on files alone.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	runID := uuid.NewString()

	lg, err := league.Load(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load league: %w", err)
	}

	clientCfg, err := client.ConfigFrom(cfg)
	if err != nil {
		return nil, err
	}
	api := client.NewClient(clientCfg)

	a := &App{
		Config: cfg,
		League: lg,
		RunID:  runID,
		now:    time.Now,
	}

	var scheduleStore cache.Store = cache.NewMemoryStore()
	if cfg.RedisEnabled {
		rc, err := cache.NewRedisCache(cache.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Warn().Err(err).Msg("Failed to connect to Redis - continuing with in-process cache")
		} else {
			log.Info().Str("addr", cfg.RedisAddr()).Msg("Redis cache connected")
			a.Redis = rc
			a.closers = append(a.closers, func() { _ = rc.Close() })
			scheduleStore = rc
			a.Publisher = cache.NewStandingsPublisher(rc.Client())
		}
	}

	schedule := cache.NewCachedSchedule(api, scheduleStore, cfg.CacheTTLSchedule)
	a.Service = standings.NewService(lg, api, schedule)

	a.Store = repository.NewStore(repository.NewFileStore(cfg.DataDir, cfg.SeasonYear), runID)

	if cfg.DatabaseURL != "" {
		db, err := repository.NewDatabase(ctx, cfg.DatabaseURL)
		if err == nil {
			err = db.Snapshots.EnsureSchema(ctx)
			if err != nil {
				db.Close()
			}
		}
		if err != nil {
			log.Warn().Err(err).Msg("Database unavailable - snapshots will not be mirrored")
		} else {
			a.DB = db
			a.closers = append(a.closers, db.Close)
			a.Store.AddMirror("postgres", db.Snapshots)
		}
	}

	if a.Publisher != nil {
		a.Store.AddMirror("redis", a.Publisher)
	}

	log.Info().
		Str("run_id", runID).
		Int("players", len(lg.Roster)).
		Str("season_start", cfg.SeasonStart).
		Str("data_dir", cfg.DataDir).
		Bool("redis", a.Redis != nil).
		Bool("postgres", a.DB != nil).
		Msg("Application initialized")

	return a, nil
}

// Close releases optional backends in reverse order of acquisition
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Today returns the current UTC calendar date
func (a *App) Today() time.Time {
	return league.Day(a.now().UTC())
}
