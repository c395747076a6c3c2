package services

import (
	"context"
	"testing"
	"time"

	"gotransit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newCleanupFixture() (*cleanupService, *fakeUserRepo, *fakeRideRepo) {
	userRepo := newFakeUserRepo()
	rideRepo := newFakeRideRepo()
	svc := NewCleanupService(userRepo, rideRepo, 5, 3, 5*time.Minute, newTestLogger()).(*cleanupService)
	return svc, userRepo, rideRepo
}

func TestSweepConfirmedDeletions(t *testing.T) {
	svc, userRepo, _ := newCleanupFixture()

	keep := &models.User{Name: "Keep", Email: "keep@example.com", Phone: "+15550000001"}
	gone := &models.User{Name: "Gone", Email: "gone@example.com", Phone: "+15550000002", DeleteConfirmation: true}
	require.NoError(t, userRepo.Create(context.Background(), keep))
	require.NoError(t, userRepo.Create(context.Background(), gone))

	deleted, err := svc.SweepConfirmedDeletions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.Contains(t, userRepo.users, keep.ID)
	assert.NotContains(t, userRepo.users, gone.ID)
}

func TestSweepUnverifiedUsersThreshold(t *testing.T) {
	svc, userRepo, _ := newCleanupFixture()

	atLimit := &models.User{Name: "AtLimit", Email: "at@example.com", Phone: "+15550000003", OTPAttempts: 5}
	below := &models.User{Name: "Below", Email: "below@example.com", Phone: "+15550000004", OTPAttempts: 4}
	resends := &models.User{Name: "Resends", Email: "resends@example.com", Phone: "+15550000005", OTPResendAttempts: 4}
	verified := &models.User{Name: "Verified", Email: "ok@example.com", Phone: "+15550000006", OTPAttempts: 5, IsVerified: true}
	require.NoError(t, userRepo.Create(context.Background(), atLimit))
	require.NoError(t, userRepo.Create(context.Background(), below))
	require.NoError(t, userRepo.Create(context.Background(), resends))
	require.NoError(t, userRepo.Create(context.Background(), verified))

	deleted, err := svc.SweepUnverifiedUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.NotContains(t, userRepo.users, atLimit.ID)
	assert.NotContains(t, userRepo.users, resends.ID)
	assert.Contains(t, userRepo.users, below.ID)
	assert.Contains(t, userRepo.users, verified.ID)
}

func TestSweepUnverifiedRides(t *testing.T) {
	svc, _, rideRepo := newCleanupFixture()

	old := &models.Ride{
		Passenger:     primitive.NewObjectID(),
		Bus:           primitive.NewObjectID(),
		StartStop:     "A",
		EndStop:       "B",
		PaymentMethod: models.PaymentMethodCash,
		Status:        models.RideStatusOngoing,
		CreatedAt:     time.Now().Add(-10 * time.Minute),
	}
	fresh := &models.Ride{
		Passenger:     primitive.NewObjectID(),
		Bus:           primitive.NewObjectID(),
		StartStop:     "A",
		EndStop:       "B",
		PaymentMethod: models.PaymentMethodCash,
		Status:        models.RideStatusOngoing,
		CreatedAt:     time.Now().Add(-time.Minute),
	}
	oldVerified := &models.Ride{
		Passenger:     primitive.NewObjectID(),
		Bus:           primitive.NewObjectID(),
		StartStop:     "A",
		EndStop:       "B",
		PaymentMethod: models.PaymentMethodCash,
		Status:        models.RideStatusOngoing,
		Verified:      true,
		CreatedAt:     time.Now().Add(-time.Hour),
	}
	require.NoError(t, rideRepo.Create(context.Background(), old))
	require.NoError(t, rideRepo.Create(context.Background(), fresh))
	require.NoError(t, rideRepo.Create(context.Background(), oldVerified))

	deleted, err := svc.SweepUnverifiedRides(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.NotContains(t, rideRepo.rides, old.ID)
	assert.Contains(t, rideRepo.rides, fresh.ID)
	assert.Contains(t, rideRepo.rides, oldVerified.ID)
}

func TestSweepsAreIdempotent(t *testing.T) {
	svc, userRepo, _ := newCleanupFixture()

	gone := &models.User{Name: "Gone", Email: "gone2@example.com", Phone: "+15550000007", DeleteConfirmation: true}
	require.NoError(t, userRepo.Create(context.Background(), gone))

	deleted, err := svc.SweepConfirmedDeletions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	deleted, err = svc.SweepConfirmedDeletions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
}
