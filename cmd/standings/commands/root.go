package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zackcline/fantasy-baseball-tracker/internal/app"
	"github.com/zackcline/fantasy-baseball-tracker/internal/config"
	"github.com/zackcline/fantasy-baseball-tracker/internal/metrics"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "standings",
	Short: "Fantasy MLB standings tracker",
	Long: `Fantasy MLB standings tracker

Aggregates MLB team records into fantasy player standings and writes JSON snapshots.
Every command is configured through the environment (or a .env file); none take flags.

Examples:
  go run ./cmd/standings update
  go run ./cmd/standings backfill
  go run ./cmd/standings validate`,
	SilenceUsage: true,
}

// Execute runs the CLI until the command finishes or SIGINT/SIGTERM arrives
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

// withApp loads configuration, builds the application and runs fn against it.
// Metrics gathered during the run are pushed once fn returns.
func withApp(cmd *cobra.Command, job string, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogger(cfg)

	ctx := cmd.Context()
	a, err := app.Build(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize")
		return err
	}
	defer a.Close()

	log.Logger = log.With().Str("run_id", a.RunID).Logger()

	runErr := fn(ctx, a)
	if runErr != nil {
		log.Error().Err(runErr).Str("command", job).Msg("Command failed")
	}

	if err := metrics.Push(cfg.PushgatewayURL, "standings_"+job); err != nil {
		log.Warn().Err(err).Msg("Metrics push failed")
	}

	if runErr != nil {
		return fmt.Errorf("%s: %w", job, runErr)
	}
	return nil
}

// setupLogger configures the zerolog logger. Logs go to stderr so stdout carries only command output.
func setupLogger(cfg *config.Config) {
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}

	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && cfg.LogLevel != "" {
		level = parsed
	}
	zerolog.SetGlobalLevel(level)
}
