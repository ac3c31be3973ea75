package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/zackcline/fantasy-baseball-tracker/internal/app"

	"github.com/spf13/cobra"
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Compute today's standings and overwrite previousStandings.json",
	Long: `Computes current standings from the MLB season records, prints them as JSON
and overwrites the previousStandings.json checkpoint.

Example:
  go run ./cmd/standings update`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
}

// snapshotCmd represents the snapshot command
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Write yesterday's daily standings file",
	Long: `Writes DailyStandings/standings-<YYYY-MM-DD>.json for the previous UTC day.

Example:
  go run ./cmd/standings snapshot`,
	Args: cobra.NoArgs,
	RunE: runSnapshot,
}

// weeklyCmd represents the weekly command
var weeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Write this week's standings file and refresh the checkpoint",
	Long: `Writes standings-<season>-week<N>.json for the current season week and
overwrites previousStandings.json with the same standings.

Example:
  go run ./cmd/standings weekly`,
	Args: cobra.NoArgs,
	RunE: runWeekly,
}

func init() {
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(weeklyCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	return withApp(cmd, "update", func(ctx context.Context, a *app.App) error {
		result, err := a.Update(ctx)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(result.Standings, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	})
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	return withApp(cmd, "snapshot", func(ctx context.Context, a *app.App) error {
		result, err := a.DailySnapshot(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", a.Store.Files().DailyPath(result.Date))
		return nil
	})
}

func runWeekly(cmd *cobra.Command, args []string) error {
	return withApp(cmd, "weekly", func(ctx context.Context, a *app.App) error {
		_, week, err := a.Weekly(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", a.Store.Files().WeeklyPath(week))
		return nil
	})
}
