package commands

import (
	"context"
	"fmt"

	"github.com/zackcline/fantasy-baseball-tracker/internal/app"
	"github.com/zackcline/fantasy-baseball-tracker/internal/config"

	"github.com/spf13/cobra"
)

// backfillCmd represents the backfill command
var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Write a daily standings file for every date from season start",
	Long: `Writes DailyStandings/standings-<YYYY-MM-DD>.json for each date from SEASON_START
through BACKFILL_END. A date that fails is skipped and the range continues.
BACKFILL_MODE selects replay (walk the schedule) or cumulative (as-of-date records).

Example:
  SEASON_START=2025-03-18 BACKFILL_END=2025-04-12 go run ./cmd/standings backfill`,
	Args: cobra.NoArgs,
	RunE: runBackfill,
}

func init() {
	rootCmd.AddCommand(backfillCmd)
}

func runBackfill(cmd *cobra.Command, args []string) error {
	return withApp(cmd, "backfill", func(ctx context.Context, a *app.App) error {
		summary, err := a.Backfill(ctx)
		if summary != nil {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Backfill complete: %d written, %d skipped\n", len(summary.Written), len(summary.Skipped))
			for _, s := range summary.Skipped {
				fmt.Fprintf(out, "  skipped %s: %v\n", s.Date.Format(config.DateLayout), s.Err)
			}
		}
		return err
	})
}
