package commands

import (
	"context"

	"github.com/zackcline/fantasy-baseball-tracker/internal/app"

	"github.com/spf13/cobra"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Cross-check the daily files against previousStandings.json",
	Long: `Reads every daily file from SEASON_START through BACKFILL_END, compares the
accumulated and final-day records with previousStandings.json and prints a report.
Mismatches are reported only; no file is changed and the exit code stays 0.

Example:
  go run ./cmd/standings validate`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	return withApp(cmd, "validate", func(ctx context.Context, a *app.App) error {
		report, err := a.Validate(ctx)
		if err != nil {
			return err
		}
		report.Print(cmd.OutOrStdout())
		return nil
	})
}
