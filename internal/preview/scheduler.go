package preview

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler wraps a gocron scheduler for the periodic full resync.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler creates a new scheduler instance.
func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Scheduler{scheduler: s}, nil
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	s.scheduler.Start()
}

// Stop shuts down the scheduler and waits for running jobs.
func (s *Scheduler) Stop() error {
	return s.scheduler.Shutdown()
}

// ScheduleResync runs resync every interval. Runs never overlap. It returns
// the job ID.
func (s *Scheduler) ScheduleResync(ctx context.Context, interval time.Duration, resync func(context.Context)) (string, error) {
	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			slog.Debug("Running scheduled resync")
			resync(ctx)
		}),
		gocron.WithName("preview-resync"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create resync job: %w", err)
	}
	return job.ID().String(), nil
}
