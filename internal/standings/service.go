package standings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zackcline/fantasy-baseball-tracker/internal/config"
	"github.com/zackcline/fantasy-baseball-tracker/internal/league"
	"github.com/zackcline/fantasy-baseball-tracker/internal/metrics"
	"github.com/zackcline/fantasy-baseball-tracker/internal/models"

	"github.com/rs/zerolog/log"
)

// Mode names the acquisition strategy that produced a result
type Mode string

const (
	ModeCumulative Mode = "cumulative"
	ModeReplay     Mode = "replay"
)

// ScheduleSource returns every game scheduled on one calendar date
type ScheduleSource interface {
	FetchSchedule(ctx context.Context, date time.Time) ([]models.GameResult, error)
}

// StandingsSource returns cumulative team records as of a date.
// It reports models.ErrNoRecords for an empty payload and models.ErrMalformedResponse
// for one it cannot read.
type StandingsSource interface {
	FetchStandings(ctx context.Context, date time.Time) ([]models.ExternalTeamRecord, error)
}

// Result is one aggregation outcome
type Result struct {
	Date      time.Time
	Mode      Mode
	Standings []models.PlayerStanding

	// FallbackReason is set when a cumulative request was answered by replay
	FallbackReason string

	GamesCounted int
	Unmapped     map[string]int
}

// Label returns the result date as YYYY-MM-DD
func (r *Result) Label() string {
	return r.Date.Format(config.DateLayout)
}

// Service aggregates standings for a league from the injected sources
type Service struct {
	league    *league.League
	standings StandingsSource
	schedule  ScheduleSource
}

// NewService creates a service. standings may be nil, in which case Cumulative always replays.
func NewService(lg *league.League, standings StandingsSource, schedule ScheduleSource) *Service {
	return &Service{
		league:    lg,
		standings: standings,
		schedule:  schedule,
	}
}

// League returns the league the service scores
func (s *Service) League() *league.League {
	return s.league
}

// Cumulative aggregates from the source's pre-summed records as of date.
// An empty or malformed payload, or one where no team resolves, falls back to replay
// for the same date. Any other error is returned.
func (s *Service) Cumulative(ctx context.Context, date time.Time) (*Result, error) {
	date = league.Day(date)

	if s.standings == nil {
		return s.fallback(ctx, date, "no_source")
	}

	records, err := s.standings.FetchStandings(ctx, date)
	switch {
	case errors.Is(err, models.ErrNoRecords):
		return s.fallback(ctx, date, "empty")
	case errors.Is(err, models.ErrMalformedResponse):
		log.Warn().Err(err).Str("date", date.Format(config.DateLayout)).Msg("Malformed standings response")
		return s.fallback(ctx, date, "malformed")
	case err != nil:
		metrics.RecordAggregation(string(ModeCumulative), "error")
		return nil, fmt.Errorf("failed to fetch standings for %s: %w", date.Format(config.DateLayout), err)
	}

	tally := NewTally(s.league.Resolver)
	for _, r := range records {
		tally.AddRecord(r)
	}
	if tally.Len() == 0 {
		return s.fallback(ctx, date, "unresolved")
	}

	return s.finish(date, ModeCumulative, tally), nil
}

// Replay aggregates by walking the schedule from season start through date, inclusive.
// A date before season start yields all-zero standings without any fetch.
func (s *Service) Replay(ctx context.Context, date time.Time) (*Result, error) {
	date = league.Day(date)
	tally := NewTally(s.league.Resolver)

	if !date.Before(s.league.Season.Start) {
		for _, day := range s.league.Season.Dates(date) {
			games, err := s.schedule.FetchSchedule(ctx, day)
			if err != nil {
				metrics.RecordAggregation(string(ModeReplay), "error")
				return nil, fmt.Errorf("failed to fetch schedule for %s: %w", day.Format(config.DateLayout), err)
			}
			for i := range games {
				tally.AddGame(&games[i])
			}
		}
	}

	metrics.RecordGamesCounted(tally.GamesCounted())
	return s.finish(date, ModeReplay, tally), nil
}

func (s *Service) fallback(ctx context.Context, date time.Time, reason string) (*Result, error) {
	log.Info().
		Str("date", date.Format(config.DateLayout)).
		Str("reason", reason).
		Msg("No usable cumulative records, replaying schedule")
	metrics.RecordFallback(reason)

	result, err := s.Replay(ctx, date)
	if err != nil {
		return nil, err
	}
	result.FallbackReason = reason
	return result, nil
}

func (s *Service) finish(date time.Time, mode Mode, tally *Tally) *Result {
	unmapped := tally.Unmapped()
	if len(unmapped) > 0 {
		total := 0
		for _, n := range unmapped {
			total += n
		}
		metrics.RecordUnmapped(total)
		log.Debug().
			Interface("unmapped", unmapped).
			Str("date", date.Format(config.DateLayout)).
			Msg("Dropped unmapped team names")
	}

	metrics.RecordAggregation(string(mode), "success")

	return &Result{
		Date:         date,
		Mode:         mode,
		Standings:    Compute(s.league.Roster, tally.Records()),
		GamesCounted: tally.GamesCounted(),
		Unmapped:     unmapped,
	}
}
