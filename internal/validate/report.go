package validate

import (
	"fmt"
	"io"

	"github.com/zackcline/fantasy-baseball-tracker/internal/config"

	"github.com/rs/zerolog/log"
)

// Print writes the human-readable report
func (r *Report) Print(w io.Writer) {
	fmt.Fprintf(w, "Processed %d files (%s to %s)\n",
		r.FilesProcessed, r.Start.Format(config.DateLayout), r.End.Format(config.DateLayout))
	if !r.FinalDate.IsZero() && !r.FinalDate.Equal(r.End) {
		fmt.Fprintf(w, "Last daily file: %s\n", r.FinalDate.Format(config.DateLayout))
	}

	for _, p := range r.Players {
		fmt.Fprintf(w, "%s:\n", p.Name)
		fmt.Fprintf(w, "  Expected (previousStandings.json): %s\n", p.Expected)
		fmt.Fprintf(w, "  Sum of daily increments: %s %s\n", p.SumOfIncrements, verdict(p.SumMatch))
		fmt.Fprintf(w, "  Final day: %s %s\n", p.FinalDay, verdict(p.FinalMatch))
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(w, "\nWarnings (%d):\n", len(r.Warnings))
		for _, warning := range r.Warnings {
			fmt.Fprintf(w, "  [%s] %s %s\n", warning.Kind, warning.Date.Format(config.DateLayout), warning.Message)
		}
	}

	if r.Sample != nil {
		fmt.Fprintf(w, "\nSample day (%s):\n", r.Sample.Date.Format(config.DateLayout))
		for _, s := range r.Sample.Standings {
			fmt.Fprintf(w, "%s: %s, Rank %d\n", s.Name, s.Record(), s.Rank)
		}
	}
}

// Log emits a one-line summary plus one line per mismatch
func (r *Report) Log() {
	for _, p := range r.Players {
		if p.Match() {
			continue
		}
		log.Warn().
			Str("player", p.Name).
			Str("expected", p.Expected.String()).
			Str("sum_of_increments", p.SumOfIncrements.String()).
			Str("final_day", p.FinalDay.String()).
			Msg("Validation mismatch")
	}

	log.Info().
		Int("files", r.FilesProcessed).
		Int("missing", len(r.Missing)).
		Int("mismatches", r.Mismatches()).
		Int("warnings", len(r.Warnings)).
		Msg("Validation completed")
}

func verdict(ok bool) string {
	if ok {
		return "Match"
	}
	return "MISMATCH"
}
