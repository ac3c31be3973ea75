// Package league holds the immutable reference data every standings run shares:
// who owns which teams, how the data source names those teams, and when the season began.
// It is built once per process and passed by pointer.
package league

import (
	"fmt"

	"github.com/zackcline/fantasy-baseball-tracker/internal/config"

	"github.com/rs/zerolog/log"
)

// League bundles roster, resolver and season
type League struct {
	Roster   Roster
	Resolver *Resolver
	Season   Season
}

// New validates the roster against the resolver and returns the league
func New(roster Roster, resolver *Resolver, season Season) (*League, error) {
	if err := roster.Validate(resolver); err != nil {
		return nil, fmt.Errorf("invalid roster: %w", err)
	}
	return &League{
		Roster:   roster.clone(),
		Resolver: resolver,
		Season:   season,
	}, nil
}

// Load builds the league from configuration, reading ROSTER_FILE when set
func Load(cfg *config.Config) (*League, error) {
	roster := DefaultRoster()
	if cfg.RosterFile != "" {
		loaded, err := LoadRoster(cfg.RosterFile)
		if err != nil {
			return nil, err
		}
		roster = loaded
		log.Info().
			Str("file", cfg.RosterFile).
			Int("players", len(roster)).
			Msg("Roster loaded from file")
	}

	return New(roster, DefaultResolver(), NewSeason(cfg.SeasonYear, cfg.SeasonStartDate()))
}
