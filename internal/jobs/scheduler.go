package jobs

import (
	"context"
	"time"

	"gotransit/internal/config"
	"gotransit/internal/services"
	"gotransit/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler drives the cleanup sweeps on their configured cron specs. Each
// sweep is a single bulk delete, so overlapping or retried runs are safe.
type Scheduler struct {
	cron    *cron.Cron
	cleanup services.CleanupService
	config  *config.JobsConfig
	logger  *logger.Logger
}

func NewScheduler(cleanup services.CleanupService, cfg *config.JobsConfig, log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		cleanup: cleanup,
		config:  cfg,
		logger:  log,
	}
}

func (s *Scheduler) Start() error {
	if !s.config.Enabled {
		s.logger.Info("Cleanup jobs disabled")
		return nil
	}

	jobs := []struct {
		spec string
		name string
		run  func(ctx context.Context) (int64, error)
	}{
		{s.config.DeletedUsersSpec, "confirmed_deletions", s.cleanup.SweepConfirmedDeletions},
		{s.config.UnverifiedUsersSpec, "unverified_users", s.cleanup.SweepUnverifiedUsers},
		{s.config.UnverifiedRidesSpec, "unverified_rides", s.cleanup.SweepUnverifiedRides},
	}

	for _, job := range jobs {
		run := job.run
		if _, err := s.cron.AddFunc(job.spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			// Results and errors are logged by the sweep itself.
			_, _ = run(ctx)
		}); err != nil {
			return err
		}
		s.logger.WithFields(map[string]interface{}{
			"sweep": job.name,
			"spec":  job.spec,
		}).Info("Cleanup sweep scheduled")
	}

	s.cron.Start()
	return nil
}

// Stop waits for any running sweep to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
