package services

import (
	"context"
	"time"

	"gotransit/internal/repositories/interfaces"
	"gotransit/pkg/logger"
)

// CleanupService runs the scheduled sweeps. Each sweep is a single bulk
// filter-delete, so retries and overlapping runs are harmless.
type CleanupService interface {
	SweepConfirmedDeletions(ctx context.Context) (int64, error)
	SweepUnverifiedUsers(ctx context.Context) (int64, error)
	SweepUnverifiedRides(ctx context.Context) (int64, error)
}

type cleanupService struct {
	userRepo       interfaces.UserRepository
	rideRepo       interfaces.RideRepository
	maxOTPAttempts int
	maxOTPResends  int
	verifyWindow   time.Duration
	logger         *logger.Logger
	now            func() time.Time
}

func NewCleanupService(
	userRepo interfaces.UserRepository,
	rideRepo interfaces.RideRepository,
	maxOTPAttempts int,
	maxOTPResends int,
	verifyWindow time.Duration,
	logger *logger.Logger,
) CleanupService {
	return &cleanupService{
		userRepo:       userRepo,
		rideRepo:       rideRepo,
		maxOTPAttempts: maxOTPAttempts,
		maxOTPResends:  maxOTPResends,
		verifyWindow:   verifyWindow,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *cleanupService) SweepConfirmedDeletions(ctx context.Context) (int64, error) {
	deleted, err := s.userRepo.DeleteConfirmed(ctx)
	s.logger.LogSweepResult("confirmed_deletions", deleted, err)
	return deleted, err
}

func (s *cleanupService) SweepUnverifiedUsers(ctx context.Context) (int64, error) {
	deleted, err := s.userRepo.DeleteUnverifiedExhausted(ctx, s.maxOTPAttempts, s.maxOTPResends)
	s.logger.LogSweepResult("unverified_users", deleted, err)
	return deleted, err
}

func (s *cleanupService) SweepUnverifiedRides(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.verifyWindow)
	deleted, err := s.rideRepo.DeleteUnverifiedBefore(ctx, cutoff)
	s.logger.LogSweepResult("unverified_rides", deleted, err)
	return deleted, err
}
