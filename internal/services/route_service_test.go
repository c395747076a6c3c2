package services

import (
	"context"
	"testing"

	"gotransit/internal/models"
	"gotransit/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouteFixture() (RouteService, *fakeRouteRepo, *fakeBusRepo) {
	routeRepo := newFakeRouteRepo()
	busRepo := newFakeBusRepo()
	svc := NewRouteService(routeRepo, busRepo, newTestLogger())
	return svc, routeRepo, busRepo
}

func validStops() []StopInput {
	return []StopInput{
		{Name: "A", Longitude: 77.59, Latitude: 12.97, Distance: 0, TravelTime: 0},
		{Name: "B", Longitude: 77.64, Latitude: 12.99, Distance: 5, TravelTime: 10},
		{Name: "C", Longitude: 77.70, Latitude: 13.02, Distance: 12, TravelTime: 25},
	}
}

func TestCreateRouteAssignsStopOrder(t *testing.T) {
	svc, _, _ := newRouteFixture()

	route, err := svc.Create(context.Background(), models.UserRoleAdmin, &CreateRouteRequest{
		RouteName: "R1",
		Stops:     validStops(),
	})
	require.NoError(t, err)

	require.Len(t, route.Stops, 3)
	for i, stop := range route.Stops {
		assert.Equal(t, i, stop.Order)
	}
}

func TestCreateRouteRequiresAdmin(t *testing.T) {
	svc, _, _ := newRouteFixture()

	_, err := svc.Create(context.Background(), models.UserRolePassenger, &CreateRouteRequest{
		RouteName: "R1",
		Stops:     validStops(),
	})
	require.Error(t, err)
	assert.Equal(t, utils.CodeForbidden, utils.AsAppError(err).Code)
}

func TestCreateRouteTooFewStops(t *testing.T) {
	svc, _, _ := newRouteFixture()

	_, err := svc.Create(context.Background(), models.UserRoleAdmin, &CreateRouteRequest{
		RouteName: "R1",
		Stops:     validStops()[:1],
	})
	require.Error(t, err)
	assert.Equal(t, utils.CodeValidation, utils.AsAppError(err).Code)
}

func TestCreateRouteDecreasingDistance(t *testing.T) {
	svc, _, _ := newRouteFixture()

	stops := validStops()
	stops[2].Distance = 3

	_, err := svc.Create(context.Background(), models.UserRoleAdmin, &CreateRouteRequest{
		RouteName: "R1",
		Stops:     stops,
	})
	require.Error(t, err)
	assert.Equal(t, utils.CodeValidation, utils.AsAppError(err).Code)
}

func TestCreateRouteDecreasingTravelTime(t *testing.T) {
	svc, _, _ := newRouteFixture()

	stops := validStops()
	stops[2].TravelTime = 5

	_, err := svc.Create(context.Background(), models.UserRoleAdmin, &CreateRouteRequest{
		RouteName: "R1",
		Stops:     stops,
	})
	require.Error(t, err)
	assert.Equal(t, utils.CodeValidation, utils.AsAppError(err).Code)
}

func TestCreateRouteDuplicateStopName(t *testing.T) {
	svc, _, _ := newRouteFixture()

	stops := validStops()
	stops[2].Name = "A"

	_, err := svc.Create(context.Background(), models.UserRoleAdmin, &CreateRouteRequest{
		RouteName: "R1",
		Stops:     stops,
	})
	require.Error(t, err)
	assert.Equal(t, utils.CodeValidation, utils.AsAppError(err).Code)
}

func TestCreateRouteInvalidCoordinates(t *testing.T) {
	svc, _, _ := newRouteFixture()

	stops := validStops()
	stops[1].Longitude = 500

	_, err := svc.Create(context.Background(), models.UserRoleAdmin, &CreateRouteRequest{
		RouteName: "R1",
		Stops:     stops,
	})
	require.Error(t, err)
	assert.Equal(t, utils.CodeValidation, utils.AsAppError(err).Code)
}

func TestCreateRouteAcceptsCoordinatePairs(t *testing.T) {
	svc, _, _ := newRouteFixture()

	route, err := svc.Create(context.Background(), models.UserRoleAdmin, &CreateRouteRequest{
		RouteName: "R2",
		Stops: []StopInput{
			{Name: "A", Location: []float64{77.59, 12.97}, Distance: 0, TravelTime: 0},
			{Name: "B", Location: []float64{77.64, 12.99}, Distance: 5, TravelTime: 10},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 77.64, route.Stops[1].Location.Coordinates[0])
}

func TestCreateRouteDuplicateName(t *testing.T) {
	svc, _, _ := newRouteFixture()

	_, err := svc.Create(context.Background(), models.UserRoleAdmin, &CreateRouteRequest{
		RouteName: "R1",
		Stops:     validStops(),
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), models.UserRoleAdmin, &CreateRouteRequest{
		RouteName: "R1",
		Stops:     validStops(),
	})
	require.Error(t, err)
	assert.Equal(t, utils.CodeConflict, utils.AsAppError(err).Code)
}

func TestDeleteRouteWithBuses(t *testing.T) {
	svc, _, busRepo := newRouteFixture()

	route, err := svc.Create(context.Background(), models.UserRoleAdmin, &CreateRouteRequest{
		RouteName: "R1",
		Stops:     validStops(),
	})
	require.NoError(t, err)

	bus := &models.Bus{
		BusNumber:       "BUS-1",
		Route:           route.ID,
		Capacity:        30,
		CurrentLocation: models.NewPoint(0, 0),
	}
	require.NoError(t, busRepo.Create(context.Background(), bus))

	err = svc.Delete(context.Background(), models.UserRoleAdmin, route.ID)
	require.Error(t, err)
	assert.Equal(t, utils.CodeConflict, utils.AsAppError(err).Code)

	require.NoError(t, busRepo.Delete(context.Background(), bus.ID))
	require.NoError(t, svc.Delete(context.Background(), models.UserRoleAdmin, route.ID))
}
