// Package backfill writes one daily snapshot per date across a range.
package backfill

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zackcline/fantasy-baseball-tracker/internal/config"
	"github.com/zackcline/fantasy-baseball-tracker/internal/league"
	"github.com/zackcline/fantasy-baseball-tracker/internal/metrics"
	"github.com/zackcline/fantasy-baseball-tracker/internal/models"
	"github.com/zackcline/fantasy-baseball-tracker/internal/standings"
)

// Aggregator produces standings for a date
type Aggregator interface {
	Cumulative(ctx context.Context, date time.Time) (*standings.Result, error)
	Replay(ctx context.Context, date time.Time) (*standings.Result, error)
}

// DailyWriter persists one date's snapshot
type DailyWriter interface {
	SaveDaily(ctx context.Context, date time.Time, standings []models.PlayerStanding) error
}

// Spec describes a backfill job
type Spec struct {
	Start time.Time
	End   time.Time
	Mode  standings.Mode
}

// SkippedDate is a date whose snapshot was not written
type SkippedDate struct {
	Date time.Time
	Err  error
}

// Summary is the outcome of a backfill run
type Summary struct {
	Written  []time.Time
	Skipped  []SkippedDate
	Duration time.Duration
}

// Total returns the number of dates attempted
func (s *Summary) Total() int {
	return len(s.Written) + len(s.Skipped)
}

// ErrNothingWritten is returned when every date in a non-empty range failed
var ErrNothingWritten = errors.New("backfill wrote no snapshots")

// Runner executes backfill specs
type Runner struct {
	agg   Aggregator
	store DailyWriter
}

// NewRunner constructs a runner
func NewRunner(agg Aggregator, store DailyWriter) *Runner {
	return &Runner{agg: agg, store: store}
}

// Run aggregates and writes each date in the job range, reporting progress via the Reporter if provided.
// A failing date is skipped and the range continues. Each date's totals cover every game
// from season start through that date.
func (r *Runner) Run(ctx context.Context, spec Spec, reporter Reporter) (*Summary, error) {
	if reporter == nil {
		reporter = nopReporter{}
	}

	started := time.Now()
	summary := &Summary{}
	dates := league.Dates(spec.Start, spec.End)
	reporter.OnJobStart(spec, len(dates))

	for idx, date := range dates {
		if err := ctx.Err(); err != nil {
			summary.Duration = time.Since(started)
			return summary, err
		}

		reporter.OnDateStart(date, idx, len(dates))

		result, err := r.aggregate(ctx, spec.Mode, date)
		if err == nil {
			err = r.store.SaveDaily(ctx, date, result.Standings)
		}
		if err != nil {
			if ctx.Err() != nil {
				summary.Duration = time.Since(started)
				return summary, ctx.Err()
			}
			metrics.RecordBackfillSkip()
			summary.Skipped = append(summary.Skipped, SkippedDate{Date: date, Err: err})
			reporter.OnDateSkipped(date, err)
			continue
		}

		summary.Written = append(summary.Written, date)
		reporter.OnDateWritten(date, result)
	}

	summary.Duration = time.Since(started)
	reporter.OnJobComplete(summary)

	if len(dates) > 0 && len(summary.Written) == 0 {
		return summary, fmt.Errorf("%s to %s: %w",
			spec.Start.Format(config.DateLayout), spec.End.Format(config.DateLayout), ErrNothingWritten)
	}
	return summary, nil
}

func (r *Runner) aggregate(ctx context.Context, mode standings.Mode, date time.Time) (*standings.Result, error) {
	if mode == standings.ModeCumulative {
		return r.agg.Cumulative(ctx, date)
	}
	return r.agg.Replay(ctx, date)
}
