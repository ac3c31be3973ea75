package app

import (
	"context"
	"time"

	"github.com/zackcline/fantasy-baseball-tracker/internal/backfill"
	"github.com/zackcline/fantasy-baseball-tracker/internal/config"
	"github.com/zackcline/fantasy-baseball-tracker/internal/metrics"
	"github.com/zackcline/fantasy-baseball-tracker/internal/standings"
	"github.com/zackcline/fantasy-baseball-tracker/internal/validate"

	"github.com/rs/zerolog/log"
)

// Update aggregates today's cumulative standings and overwrites the checkpoint
func (a *App) Update(ctx context.Context) (*standings.Result, error) {
	var result *standings.Result
	err := a.track("update", func() error {
		var err error
		result, err = a.Service.Cumulative(ctx, a.Today())
		if err != nil {
			return err
		}
		if err := a.Store.SaveCheckpoint(ctx, result.Standings); err != nil {
			return err
		}

		logResult("Standings updated", result)
		return nil
	})
	return result, err
}

// DailySnapshot writes the daily file for the previous UTC day, whose games are complete
func (a *App) DailySnapshot(ctx context.Context) (*standings.Result, error) {
	var result *standings.Result
	err := a.track("snapshot", func() error {
		date := a.Today().AddDate(0, 0, -1)

		var err error
		result, err = a.Service.Cumulative(ctx, date)
		if err != nil {
			return err
		}
		if err := a.Store.SaveDaily(ctx, date, result.Standings); err != nil {
			return err
		}

		logResult("Daily standings saved", result)
		return nil
	})
	return result, err
}

// Weekly writes the weekly file for the current season week and refreshes the checkpoint
func (a *App) Weekly(ctx context.Context) (*standings.Result, int, error) {
	var (
		result *standings.Result
		week   int
	)
	err := a.track("weekly", func() error {
		today := a.Today()
		week = a.League.Season.WeekNumber(today)

		var err error
		result, err = a.Service.Cumulative(ctx, today)
		if err != nil {
			return err
		}
		if err := a.Store.SaveWeekly(ctx, week, result.Standings); err != nil {
			return err
		}
		if err := a.Store.SaveCheckpoint(ctx, result.Standings); err != nil {
			return err
		}

		log.Info().
			Int("season", a.League.Season.Year).
			Int("week", week).
			Str("mode", string(result.Mode)).
			Msg("Weekly standings saved")
		return nil
	})
	return result, week, err
}

// Backfill writes one daily snapshot per date from season start through the configured end
func (a *App) Backfill(ctx context.Context) (*backfill.Summary, error) {
	var summary *backfill.Summary
	err := a.track("backfill", func() error {
		runner := backfill.NewRunner(a.Service, a.Store)

		var err error
		summary, err = runner.Run(ctx, backfill.Spec{
			Start: a.Config.SeasonStartDate(),
			End:   a.Config.BackfillEndDate(),
			Mode:  standings.Mode(a.Config.BackfillMode),
		}, backfill.LogReporter{})
		return err
	})
	return summary, err
}

// Validate cross-checks the daily files against the checkpoint
func (a *App) Validate(ctx context.Context) (*validate.Report, error) {
	var report *validate.Report
	err := a.track("validate", func() error {
		var err error
		report, err = validate.New(a.League, a.Store).Run(ctx, validate.Options{
			Start:                  a.Config.SeasonStartDate(),
			End:                    a.Config.BackfillEndDate(),
			SampleDate:             a.Config.SampleDate(),
			DailyIncreaseThreshold: a.Config.DailyIncreaseThreshold,
			SeasonGames:            a.Config.SeasonGames,
		})
		if err != nil {
			return err
		}

		report.Log()
		return nil
	})
	return report, err
}

// track times an operation and records its outcome
func (a *App) track(op string, fn func() error) error {
	start := time.Now()
	err := fn()

	status := "success"
	if err != nil {
		status = "error"
		metrics.RecordError("app", op)
	}
	metrics.RecordOperation(op, status, time.Since(start).Seconds())

	return err
}

func logResult(msg string, result *standings.Result) {
	event := log.Info().
		Str("date", result.Date.Format(config.DateLayout)).
		Str("mode", string(result.Mode))
	if result.FallbackReason != "" {
		event = event.Str("fallback", result.FallbackReason)
	}
	if len(result.Standings) > 0 {
		leader := result.Standings[0]
		event = event.
			Str("leader", leader.Name).
			Str("record", leader.Record())
	}
	event.Msg(msg)
}
