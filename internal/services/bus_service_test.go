package services

import (
	"context"
	"testing"

	"gotransit/internal/models"
	"gotransit/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newBusFixture(t *testing.T) (BusService, *fakeBusRepo, *fakeRouteRepo, *fakeDriverRepo, *models.Route) {
	t.Helper()

	busRepo := newFakeBusRepo()
	routeRepo := newFakeRouteRepo()
	driverRepo := newFakeDriverRepo()

	route := &models.Route{
		RouteName: "R1",
		Stops: []models.Stop{
			{Name: "A", Location: models.NewPoint(0, 0), Distance: 0, TravelTime: 0, Order: 0},
			{Name: "B", Location: models.NewPoint(1, 1), Distance: 5, TravelTime: 10, Order: 1},
			{Name: "C", Location: models.NewPoint(2, 2), Distance: 12, TravelTime: 25, Order: 2},
		},
	}
	require.NoError(t, routeRepo.Create(context.Background(), route))

	svc := NewBusService(busRepo, routeRepo, driverRepo, newTestLogger())
	return svc, busRepo, routeRepo, driverRepo, route
}

func TestCreateBus(t *testing.T) {
	svc, _, _, _, route := newBusFixture(t)

	bus, err := svc.Create(context.Background(), models.UserRoleAdmin, &CreateBusRequest{
		BusNumber: "BUS-1",
		Route:     route.ID.Hex(),
		Capacity:  40,
		Longitude: 77.59,
		Latitude:  12.97,
	})
	require.NoError(t, err)

	assert.Equal(t, 40, bus.AvailableCapacity)
	assert.Equal(t, models.BusStatusActive, bus.Status)
}

func TestCreateBusUnknownRoute(t *testing.T) {
	svc, _, _, _, _ := newBusFixture(t)

	_, err := svc.Create(context.Background(), models.UserRoleAdmin, &CreateBusRequest{
		BusNumber: "BUS-1",
		Route:     primitive.NewObjectID().Hex(),
		Capacity:  40,
		Longitude: 77.59,
		Latitude:  12.97,
	})
	require.Error(t, err)
	assert.Equal(t, utils.CodeNotFound, utils.AsAppError(err).Code)
}

func TestCreateBusDuplicateNumber(t *testing.T) {
	svc, _, _, _, route := newBusFixture(t)

	request := &CreateBusRequest{
		BusNumber: "BUS-1",
		Route:     route.ID.Hex(),
		Capacity:  40,
		Longitude: 77.59,
		Latitude:  12.97,
	}
	_, err := svc.Create(context.Background(), models.UserRoleAdmin, request)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), models.UserRoleAdmin, request)
	require.Error(t, err)
	assert.Equal(t, utils.CodeConflict, utils.AsAppError(err).Code)
}

func seedAssignedBus(t *testing.T, busRepo *fakeBusRepo, driverRepo *fakeDriverRepo, route *models.Route) (*models.Bus, *models.Driver) {
	t.Helper()

	driver := &models.Driver{
		UserID:        primitive.NewObjectID(),
		LicenseNumber: "DL-1",
		Status:        models.DriverStatusOnDuty,
	}
	require.NoError(t, driverRepo.Create(context.Background(), driver))

	bus := &models.Bus{
		BusNumber:       "BUS-9",
		Route:           route.ID,
		Capacity:        30,
		CurrentLocation: models.NewPoint(0, 0),
		Status:          models.BusStatusActive,
		AssignedDriver:  &driver.ID,
	}
	require.NoError(t, busRepo.Create(context.Background(), bus))

	driver.AssignedBus = &bus.ID
	return bus, driver
}

func TestUpdateBusLocationRequiresAssignedDriver(t *testing.T) {
	svc, busRepo, _, driverRepo, route := newBusFixture(t)
	bus, driver := seedAssignedBus(t, busRepo, driverRepo, route)

	// The assigned driver succeeds.
	updated, err := svc.UpdateLocation(context.Background(), driver.UserID, bus.ID, &UpdateBusLocationRequest{
		Longitude: 77.60,
		Latitude:  12.98,
	})
	require.NoError(t, err)
	assert.Equal(t, 77.60, updated.CurrentLocation.Coordinates[0])

	// A different driver is rejected.
	other := &models.Driver{
		UserID:        primitive.NewObjectID(),
		LicenseNumber: "DL-2",
		Status:        models.DriverStatusAvailable,
	}
	require.NoError(t, driverRepo.Create(context.Background(), other))

	_, err = svc.UpdateLocation(context.Background(), other.UserID, bus.ID, &UpdateBusLocationRequest{
		Longitude: 77.61,
		Latitude:  12.99,
	})
	require.Error(t, err)
	assert.Equal(t, utils.CodeForbidden, utils.AsAppError(err).Code)
}

func TestUpdateBusLocationRefreshesArrivals(t *testing.T) {
	svc, busRepo, _, driverRepo, route := newBusFixture(t)
	bus, driver := seedAssignedBus(t, busRepo, driverRepo, route)

	order := 1
	updated, err := svc.UpdateLocation(context.Background(), driver.UserID, bus.ID, &UpdateBusLocationRequest{
		Longitude:        77.64,
		Latitude:         12.99,
		CurrentStopOrder: &order,
	})
	require.NoError(t, err)

	// Only the stop ahead of B gets an estimate.
	require.Len(t, updated.EstimatedArrivals, 1)
	assert.Equal(t, "C", updated.EstimatedArrivals[0].StopName)
}

func TestUpdateBusLocationFromFirstStop(t *testing.T) {
	svc, busRepo, _, driverRepo, route := newBusFixture(t)
	bus, driver := seedAssignedBus(t, busRepo, driverRepo, route)

	// A fresh bus sits at the first stop, whose order is zero.
	assert.Equal(t, 0, bus.CurrentStopOrder)

	order := 0
	updated, err := svc.UpdateLocation(context.Background(), driver.UserID, bus.ID, &UpdateBusLocationRequest{
		Longitude:        77.59,
		Latitude:         12.97,
		CurrentStopOrder: &order,
	})
	require.NoError(t, err)

	require.Len(t, updated.EstimatedArrivals, 2)
	assert.Equal(t, "B", updated.EstimatedArrivals[0].StopName)
	assert.Equal(t, "C", updated.EstimatedArrivals[1].StopName)
}

func TestListBusesByRoute(t *testing.T) {
	svc, busRepo, routeRepo, _, route := newBusFixture(t)

	other := &models.Route{
		RouteName: "R2",
		Stops: []models.Stop{
			{Name: "X", Location: models.NewPoint(3, 3), Distance: 0, TravelTime: 0, Order: 0},
			{Name: "Y", Location: models.NewPoint(4, 4), Distance: 8, TravelTime: 15, Order: 1},
		},
	}
	require.NoError(t, routeRepo.Create(context.Background(), other))

	onRoute := &models.Bus{BusNumber: "BUS-3", Route: route.ID, Capacity: 40, Status: models.BusStatusActive}
	offRoute := &models.Bus{BusNumber: "BUS-4", Route: other.ID, Capacity: 40, Status: models.BusStatusActive}
	require.NoError(t, busRepo.Create(context.Background(), onRoute))
	require.NoError(t, busRepo.Create(context.Background(), offRoute))

	buses, err := svc.ListByRoute(context.Background(), route.ID)
	require.NoError(t, err)
	require.Len(t, buses, 1)
	assert.Equal(t, "BUS-3", buses[0].BusNumber)

	_, err = svc.ListByRoute(context.Background(), primitive.NewObjectID())
	require.Error(t, err)
	assert.Equal(t, utils.CodeNotFound, utils.AsAppError(err).Code)
}

func TestUpdateBusSeatsBounds(t *testing.T) {
	svc, busRepo, _, driverRepo, route := newBusFixture(t)
	bus, driver := seedAssignedBus(t, busRepo, driverRepo, route)

	updated, err := svc.UpdateSeats(context.Background(), driver.UserID, bus.ID, 12)
	require.NoError(t, err)
	assert.Equal(t, 12, updated.AvailableCapacity)

	_, err = svc.UpdateSeats(context.Background(), driver.UserID, bus.ID, bus.Capacity+1)
	require.Error(t, err)
	assert.Equal(t, utils.CodeValidation, utils.AsAppError(err).Code)

	_, err = svc.UpdateSeats(context.Background(), driver.UserID, bus.ID, -1)
	require.Error(t, err)
	assert.Equal(t, utils.CodeValidation, utils.AsAppError(err).Code)
}

func TestDeleteBusWithAssignedDriver(t *testing.T) {
	svc, busRepo, _, driverRepo, route := newBusFixture(t)
	bus, _ := seedAssignedBus(t, busRepo, driverRepo, route)

	err := svc.Delete(context.Background(), models.UserRoleAdmin, bus.ID)
	require.Error(t, err)
	assert.Equal(t, utils.CodeConflict, utils.AsAppError(err).Code)
}

func TestUpdateBusCapacityClampsAvailable(t *testing.T) {
	svc, busRepo, _, _, route := newBusFixture(t)

	bus := &models.Bus{
		BusNumber:         "BUS-2",
		Route:             route.ID,
		Capacity:          30,
		AvailableCapacity: 30,
		CurrentLocation:   models.NewPoint(0, 0),
		Status:            models.BusStatusActive,
	}
	require.NoError(t, busRepo.Create(context.Background(), bus))

	capacity := 20
	updated, err := svc.Update(context.Background(), models.UserRoleAdmin, bus.ID, &UpdateBusRequest{
		Capacity: &capacity,
	})
	require.NoError(t, err)
	assert.Equal(t, 20, updated.Capacity)
	assert.Equal(t, 20, updated.AvailableCapacity)
}
