package backfill

import (
	"time"

	"github.com/zackcline/fantasy-baseball-tracker/internal/config"
	"github.com/zackcline/fantasy-baseball-tracker/internal/standings"

	"github.com/rs/zerolog/log"
)

// Reporter receives progress callbacks from a Runner
type Reporter interface {
	OnJobStart(spec Spec, total int)
	OnDateStart(date time.Time, idx, total int)
	OnDateWritten(date time.Time, result *standings.Result)
	OnDateSkipped(date time.Time, err error)
	OnJobComplete(summary *Summary)
}

type nopReporter struct{}

func (nopReporter) OnJobStart(Spec, int) {}
func (nopReporter) OnDateStart(time.Time, int, int) {}
func (nopReporter) OnDateWritten(time.Time, *standings.Result) {}
func (nopReporter) OnDateSkipped(time.Time, error) {}
func (nopReporter) OnJobComplete(*Summary) {}

// LogReporter logs progress with zerolog
type LogReporter struct{}

// OnJobStart implements Reporter
func (LogReporter) OnJobStart(spec Spec, total int) {
	log.Info().
		Str("start", spec.Start.Format(config.DateLayout)).
		Str("end", spec.End.Format(config.DateLayout)).
		Str("mode", string(spec.Mode)).
		Int("dates", total).
		Msg("Starting backfill")
}

// OnDateStart implements Reporter
func (LogReporter) OnDateStart(date time.Time, idx, total int) {
	log.Debug().
		Str("date", date.Format(config.DateLayout)).
		Int("index", idx+1).
		Int("total", total).
		Msg("Processing date")
}

// OnDateWritten implements Reporter
func (LogReporter) OnDateWritten(date time.Time, result *standings.Result) {
	event := log.Info().
		Str("date", date.Format(config.DateLayout)).
		Str("mode", string(result.Mode))
	if result.Mode == standings.ModeReplay {
		event = event.Int("games", result.GamesCounted)
	}
	event.Msg("Saved daily standings")
}

// OnDateSkipped implements Reporter
func (LogReporter) OnDateSkipped(date time.Time, err error) {
	log.Error().
		Err(err).
		Str("date", date.Format(config.DateLayout)).
		Msg("Skipping date")
}

// OnJobComplete implements Reporter
func (LogReporter) OnJobComplete(summary *Summary) {
	log.Info().
		Int("written", len(summary.Written)).
		Int("skipped", len(summary.Skipped)).
		Dur("duration", summary.Duration).
		Msg("Backfill completed")
}
