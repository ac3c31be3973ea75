package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zackcline/fantasy-baseball-tracker/internal/metrics"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Job is a named task run on a cron schedule
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) error
}

// Scheduler runs standings jobs on cron schedules (UTC).
// Jobs never overlap: the hourly update and the weekly save both rewrite the checkpoint,
// so a job that fires while another is running waits for it.
type Scheduler struct {
	cron    *cron.Cron
	jobs    []Job
	entries map[string]cron.EntryID
	mu      sync.Mutex
}

// NewScheduler creates a new scheduler instance
func NewScheduler(jobs ...Job) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		jobs:    jobs,
		entries: make(map[string]cron.EntryID, len(jobs)),
	}
}

// Start registers every job and starts the cron loop
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	for _, job := range s.jobs {
		job := job
		id, err := s.cron.AddFunc(job.Schedule, func() { _ = s.run(ctx, job) })
		if err != nil {
			return fmt.Errorf("failed to schedule %s: %w", job.Name, err)
		}
		s.entries[job.Name] = id
		log.Info().
			Str("job", job.Name).
			Str("schedule", job.Schedule).
			Msg("Job scheduled")
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")

	if s.cron != nil {
		<-s.cron.Stop().Done()
	}

	log.Info().Msg("Scheduler stopped")
}

// RunNow runs the named job immediately, outside its schedule
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	for _, job := range s.jobs {
		if job.Name == name {
			return s.run(ctx, job)
		}
	}
	return fmt.Errorf("unknown job %q", name)
}

// Entries returns the next run time of every job, keyed by name
func (s *Scheduler) Entries() map[string]time.Time {
	out := make(map[string]time.Time, len(s.entries))
	for name, id := range s.entries {
		out[name] = s.cron.Entry(id).Next
	}
	return out
}

func (s *Scheduler) run(ctx context.Context, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	log.Info().Str("job", job.Name).Msg("Running scheduled job")

	err := job.Run(ctx)
	duration := time.Since(start)

	if err != nil {
		metrics.RecordError("scheduler", job.Name)
		log.Error().
			Err(err).
			Str("job", job.Name).
			Dur("duration", duration).
			Msg("Scheduled job failed")
		return err
	}

	log.Info().
		Str("job", job.Name).
		Dur("duration", duration).
		Msg("Scheduled job completed")
	return nil
}
