package main

import (
	"context"

	"github.com/zackcline/fantasy-baseball-tracker/internal/api"
	"github.com/zackcline/fantasy-baseball-tracker/internal/app"
	"github.com/zackcline/fantasy-baseball-tracker/internal/scheduler"
)

// jobs maps the configured cron schedules to application operations
func jobs(a *app.App) []scheduler.Job {
	return []scheduler.Job{
		{
			Name:     "update",
			Schedule: a.Config.UpdateCron,
			Run: func(ctx context.Context) error {
				_, err := a.Update(ctx)
				return err
			},
		},
		{
			Name:     "snapshot",
			Schedule: a.Config.DailySnapshotCron,
			Run: func(ctx context.Context) error {
				_, err := a.DailySnapshot(ctx)
				return err
			},
		},
		{
			Name:     "weekly",
			Schedule: a.Config.WeeklyCron,
			Run: func(ctx context.Context) error {
				_, _, err := a.Weekly(ctx)
				return err
			},
		},
	}
}

// handler exposes the saved files, the mirrors behind them and the health of every connected backend
func handler(a *app.App, sched *scheduler.Scheduler) *api.Handler {
	h := api.NewHandler(a.Store.Files())
	if a.DB != nil {
		h.AddCheck("postgres", a.DB.Health)
		h.SetArchive(a.DB.Snapshots)
	}
	if a.Redis != nil {
		h.AddCheck("redis", a.Redis.HealthCheck)
	}
	if a.Publisher != nil {
		h.SetLatest(a.Publisher)
	}
	h.SetJobs(sched.Entries)
	return h
}
