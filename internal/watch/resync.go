package watch

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Resyncer periodically requests a full regeneration.
type Resyncer struct {
	scheduler gocron.Scheduler
}

// NewResyncer schedules fn every interval. The job does not run until Start.
func NewResyncer(interval time.Duration, fn func()) (*Resyncer, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(fn),
		gocron.WithName("vault-resync"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to create resync job: %w", err)
	}
	return &Resyncer{scheduler: s}, nil
}

// Start begins the schedule.
func (r *Resyncer) Start() {
	slog.Info("Starting periodic resync")
	r.scheduler.Start()
}

// Stop shuts the scheduler down.
func (r *Resyncer) Stop() error {
	return r.scheduler.Shutdown()
}
