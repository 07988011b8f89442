// Package schedule runs periodic regeneration jobs.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"

	"git.home.luguber.info/inful/buster/internal/logfields"
)

// Task is one scheduled unit of work.
type Task func(ctx context.Context) error

// Scheduler wraps a gocron scheduler. Jobs run once immediately and then on
// their interval; a run still in progress delays the next one instead of
// overlapping it.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// New creates a stopped scheduler.
func New() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Scheduler{scheduler: s}, nil
}

// Every registers task under name and returns the job ID.
func (s *Scheduler) Every(interval time.Duration, name string, task Task) (string, error) {
	if interval <= 0 {
		return "", fmt.Errorf("interval must be positive, got %s", interval)
	}
	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func(ctx context.Context) error {
			start := time.Now()
			slog.Info("Scheduled run started", logfields.Name(name))
			err := task(ctx)
			slog.Info("Scheduled run finished", logfields.Name(name),
				logfields.DurationMS(float64(time.Since(start).Milliseconds())))
			return err
		}),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithEventListeners(
			gocron.AfterJobRunsWithError(func(_ uuid.UUID, jobName string, err error) {
				slog.Error("Scheduled run failed", logfields.Name(jobName), logfields.Error(err))
			}),
		),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create %s job: %w", name, err)
	}
	return job.ID().String(), nil
}

// Run starts the scheduler and blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	slog.Info("Starting scheduler")
	s.scheduler.Start()
	<-ctx.Done()
	slog.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}
