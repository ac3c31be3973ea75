// Package validate cross-checks daily snapshot files against the checkpoint baseline.
// It only reads; nothing it finds changes a file.
package validate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zackcline/fantasy-baseball-tracker/internal/config"
	"github.com/zackcline/fantasy-baseball-tracker/internal/league"
	"github.com/zackcline/fantasy-baseball-tracker/internal/metrics"
	"github.com/zackcline/fantasy-baseball-tracker/internal/models"
	"github.com/zackcline/fantasy-baseball-tracker/internal/repository"
)

// Snapshots is the read side of the snapshot store
type Snapshots interface {
	LoadCheckpoint(ctx context.Context) ([]models.PlayerStanding, error)
	LoadDaily(ctx context.Context, date time.Time) ([]models.PlayerStanding, error)
}

// Options configures a validation run
type Options struct {
	Start      time.Time
	End        time.Time
	SampleDate time.Time

	// DailyIncreaseThreshold is the most games one team is expected to add in a day
	DailyIncreaseThreshold int
	// SeasonGames caps a team's games for the whole season
	SeasonGames int
}

// Record is a wins/losses pair
type Record struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

func (r Record) String() string {
	return fmt.Sprintf("%dW-%dL", r.Wins, r.Losses)
}

// Games returns wins plus losses
func (r Record) Games() int {
	return r.Wins + r.Losses
}

// PlayerCheck compares one player's baseline with the daily files
type PlayerCheck struct {
	Name     string `json:"name"`
	Expected Record `json:"expected"`

	// SumOfIncrements adds each day's gain over the previous file
	SumOfIncrements Record `json:"sum_of_increments"`
	// FinalDay is the player's record in the last daily file in range
	FinalDay Record `json:"final_day"`

	SumMatch   bool `json:"sum_match"`
	FinalMatch bool `json:"final_match"`
}

// Match reports whether both comparisons agree with the baseline
func (p PlayerCheck) Match() bool {
	return p.SumMatch && p.FinalMatch
}

// WarningKind classifies a bounds or consistency warning
type WarningKind string

const (
	WarnMissingFile   WarningKind = "missing_file"
	WarnDailyIncrease WarningKind = "daily_increase"
	WarnCeiling       WarningKind = "season_ceiling"
	WarnRegression    WarningKind = "regression"
	WarnUnknownPlayer WarningKind = "unknown_player"
	WarnMissingPlayer WarningKind = "missing_player"
)

// Warning is a diagnostic that does not fail validation
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Date    time.Time   `json:"date"`
	Player  string      `json:"player,omitempty"`
	Message string      `json:"message"`
}

// SampleDay is the spot-check snapshot
type SampleDay struct {
	Date      time.Time               `json:"date"`
	Standings []models.PlayerStanding `json:"standings"`
}

// Report is the outcome of a validation run
type Report struct {
	Start          time.Time     `json:"start"`
	End            time.Time     `json:"end"`
	FilesProcessed int           `json:"files_processed"`
	FinalDate      time.Time     `json:"final_date"`
	Missing        []time.Time   `json:"missing"`
	Players        []PlayerCheck `json:"players"`
	Warnings       []Warning     `json:"warnings"`
	Sample         *SampleDay    `json:"sample,omitempty"`
}

// Mismatches counts players whose totals disagree with the baseline
func (r *Report) Mismatches() int {
	n := 0
	for _, p := range r.Players {
		if !p.Match() {
			n++
		}
	}
	return n
}

// OK reports whether every player matched
func (r *Report) OK() bool {
	return r.Mismatches() == 0
}

// ErrNoBaseline is returned when the checkpoint file is missing
var ErrNoBaseline = errors.New("no baseline standings")

// Validator checks daily snapshots for a league
type Validator struct {
	league    *league.League
	snapshots Snapshots
}

// New creates a validator
func New(lg *league.League, snapshots Snapshots) *Validator {
	return &Validator{league: lg, snapshots: snapshots}
}

// Run compares the baseline against the daily files between opts.Start and opts.End
func (v *Validator) Run(ctx context.Context, opts Options) (*Report, error) {
	baseline, err := v.snapshots.LoadCheckpoint(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrNoBaseline, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load baseline: %w", err)
	}

	report := &Report{
		Start:    league.Day(opts.Start),
		End:      league.Day(opts.End),
		Missing:  []time.Time{},
		Players:  []PlayerCheck{},
		Warnings: []Warning{},
	}

	expected := make(map[string]Record, len(baseline))
	for _, s := range baseline {
		expected[s.Name] = Record{Wins: s.Wins, Losses: s.Losses}
	}

	sums := make(map[string]Record, len(baseline))
	previous := make(map[string]Record, len(baseline))
	var final map[string]Record
	var lastDate time.Time

	for _, date := range league.Dates(opts.Start, opts.End) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		standings, err := v.snapshots.LoadDaily(ctx, date)
		if errors.Is(err, repository.ErrNotFound) {
			report.Missing = append(report.Missing, date)
			report.warn(WarnMissingFile, date, "", fmt.Sprintf("Missing file: standings-%s.json", date.Format(config.DateLayout)))
			continue
		}
		if err != nil {
			return nil, err
		}
		report.FilesProcessed++

		// days covered by this file's increment
		gap := v.league.Season.DaysElapsed(date) + 1
		if !lastDate.IsZero() {
			gap = int(date.Sub(lastDate).Hours() / 24)
		}
		if gap < 1 {
			gap = 1
		}

		current := make(map[string]Record, len(standings))
		for _, s := range standings {
			rec := Record{Wins: s.Wins, Losses: s.Losses}
			current[s.Name] = rec

			if _, known := expected[s.Name]; !known {
				report.warn(WarnUnknownPlayer, date, s.Name, fmt.Sprintf("%s is not in the baseline", s.Name))
				continue
			}

			prev := previous[s.Name]
			dw, dl := rec.Wins-prev.Wins, rec.Losses-prev.Losses
			if dw < 0 || dl < 0 {
				report.warn(WarnRegression, date, s.Name,
					fmt.Sprintf("%s went from %s to %s", s.Name, prev, rec))
			}
			inc := Record{Wins: max(dw, 0), Losses: max(dl, 0)}
			sum := sums[s.Name]
			sums[s.Name] = Record{Wins: sum.Wins + inc.Wins, Losses: sum.Losses + inc.Losses}

			teams := v.teamsOwned(s.Name)
			if limit := opts.DailyIncreaseThreshold * teams * gap; inc.Games() > limit {
				report.warn(WarnDailyIncrease, date, s.Name,
					fmt.Sprintf("%s added %d games over %d day(s), limit %d", s.Name, inc.Games(), gap, limit))
			}
			if ceiling := v.ceiling(date, teams, opts); rec.Games() > ceiling {
				report.warn(WarnCeiling, date, s.Name,
					fmt.Sprintf("%s has %d games, season-to-date ceiling %d", s.Name, rec.Games(), ceiling))
			}
		}

		for name := range expected {
			if _, ok := current[name]; !ok {
				report.warn(WarnMissingPlayer, date, name, fmt.Sprintf("%s is missing from the file", name))
				// carry the last known record so the next file's increment stays honest
				current[name] = previous[name]
			}
		}

		previous = current
		final = current
		lastDate = date
	}

	report.FinalDate = lastDate
	for _, s := range baseline {
		check := PlayerCheck{
			Name:            s.Name,
			Expected:        expected[s.Name],
			SumOfIncrements: sums[s.Name],
			FinalDay:        final[s.Name],
		}
		check.SumMatch = check.SumOfIncrements == check.Expected
		check.FinalMatch = check.FinalDay == check.Expected
		report.Players = append(report.Players, check)
	}

	if !opts.SampleDate.IsZero() {
		if sample, err := v.snapshots.LoadDaily(ctx, opts.SampleDate); err == nil {
			report.Sample = &SampleDay{Date: league.Day(opts.SampleDate), Standings: sample}
		}
	}

	metrics.UpdateValidationStats(report.Mismatches(), len(report.Warnings))
	return report, nil
}

// ceiling is the most games a player's teams could have played by date
func (v *Validator) ceiling(date time.Time, teams int, opts Options) int {
	days := v.league.Season.DaysElapsed(date) + 1
	if days < 1 {
		days = 1
	}
	perTeam := min(opts.SeasonGames, days*opts.DailyIncreaseThreshold)
	return teams * perTeam
}

func (v *Validator) teamsOwned(name string) int {
	if p, ok := v.league.Roster.Player(name); ok {
		return len(p.Teams)
	}
	most := 1
	for _, p := range v.league.Roster {
		most = max(most, len(p.Teams))
	}
	return most
}

func (r *Report) warn(kind WarningKind, date time.Time, player, msg string) {
	r.Warnings = append(r.Warnings, Warning{Kind: kind, Date: date, Player: player, Message: msg})
}
