package services

import (
	"context"
	"time"

	"gotransit/internal/models"
	"gotransit/internal/repositories/interfaces"
	"gotransit/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestLogger() *logger.Logger {
	log, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Format: "text", Output: "stdout"})
	if err != nil {
		panic(err)
	}
	return log
}

// fakeTx runs the function directly; the in-memory fakes have no sessions.
type fakeTx struct{}

func (fakeTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email || existing.Phone == user.Phone {
			return interfaces.ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = time.Now()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (r *fakeUserRepo) GetByPhone(_ context.Context, phone string) (*models.User, error) {
	for _, user := range r.users {
		if user.Phone == phone {
			return user, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	user, ok := r.users[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	for key, value := range updates {
		switch key {
		case "otp":
			if value == nil {
				user.OTP = nil
			} else {
				user.OTP = value.(*models.OTP)
			}
		case "otp_attempts":
			user.OTPAttempts = value.(int)
		case "otp_resend_attempts":
			user.OTPResendAttempts = value.(int)
		case "is_verified":
			user.IsVerified = value.(bool)
		case "refresh_token":
			user.RefreshToken = value.(string)
		case "password":
			user.Password = value.(string)
		case "avatar":
			user.Avatar = value.(string)
		case "current_location":
			user.CurrentLocation = value.(*models.Location)
		case "delete_confirmation":
			user.DeleteConfirmation = value.(bool)
		}
	}
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.users[id]; !ok {
		return interfaces.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) DebitWallet(_ context.Context, id primitive.ObjectID, amount float64) error {
	user, ok := r.users[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	if user.WalletBalance < amount {
		return interfaces.ErrInsufficientFunds
	}
	user.WalletBalance -= amount
	return nil
}

func (r *fakeUserRepo) DeleteConfirmed(_ context.Context) (int64, error) {
	var deleted int64
	for id, user := range r.users {
		if user.DeleteConfirmation {
			delete(r.users, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeUserRepo) DeleteUnverifiedExhausted(_ context.Context, maxAttempts, maxResends int) (int64, error) {
	var deleted int64
	for id, user := range r.users {
		if !user.IsVerified && (user.OTPAttempts >= maxAttempts || user.OTPResendAttempts >= maxResends+1) {
			delete(r.users, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakeDriverRepo struct {
	drivers map[primitive.ObjectID]*models.Driver
}

func newFakeDriverRepo() *fakeDriverRepo {
	return &fakeDriverRepo{drivers: make(map[primitive.ObjectID]*models.Driver)}
}

func (r *fakeDriverRepo) Create(_ context.Context, driver *models.Driver) error {
	for _, existing := range r.drivers {
		if existing.LicenseNumber == driver.LicenseNumber || existing.UserID == driver.UserID {
			return interfaces.ErrDuplicate
		}
	}
	if driver.ID.IsZero() {
		driver.ID = primitive.NewObjectID()
	}
	r.drivers[driver.ID] = driver
	return nil
}

func (r *fakeDriverRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Driver, error) {
	driver, ok := r.drivers[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return driver, nil
}

func (r *fakeDriverRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) (*models.Driver, error) {
	for _, driver := range r.drivers {
		if driver.UserID == userID {
			return driver, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (r *fakeDriverRepo) GetByLicense(_ context.Context, licenseNumber string) (*models.Driver, error) {
	for _, driver := range r.drivers {
		if driver.LicenseNumber == licenseNumber {
			return driver, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (r *fakeDriverRepo) List(_ context.Context, filter *interfaces.DriverFilter) ([]*models.Driver, error) {
	var result []*models.Driver
	for _, driver := range r.drivers {
		if filter != nil {
			if filter.Status != "" && driver.Status != filter.Status {
				continue
			}
			if filter.MinExperience != nil && driver.Experience < *filter.MinExperience {
				continue
			}
			if filter.MaxExperience != nil && driver.Experience > *filter.MaxExperience {
				continue
			}
		}
		result = append(result, driver)
	}
	return result, nil
}

func (r *fakeDriverRepo) Update(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	driver, ok := r.drivers[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	for key, value := range updates {
		switch key {
		case "assigned_bus":
			if value == nil {
				driver.AssignedBus = nil
			} else {
				busID := value.(primitive.ObjectID)
				driver.AssignedBus = &busID
			}
		case "status":
			driver.Status = value.(models.DriverStatus)
		case "ratings":
			driver.Ratings = value.([]models.DriverRating)
		case "average_rating":
			driver.AverageRating = value.(float64)
		case "license_number":
			driver.LicenseNumber = value.(string)
		case "experience":
			driver.Experience = value.(int)
		}
	}
	return nil
}

func (r *fakeDriverRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.drivers[id]; !ok {
		return interfaces.ErrNotFound
	}
	delete(r.drivers, id)
	return nil
}

type fakeBusRepo struct {
	buses map[primitive.ObjectID]*models.Bus
}

func newFakeBusRepo() *fakeBusRepo {
	return &fakeBusRepo{buses: make(map[primitive.ObjectID]*models.Bus)}
}

func (r *fakeBusRepo) Create(_ context.Context, bus *models.Bus) error {
	for _, existing := range r.buses {
		if existing.BusNumber == bus.BusNumber {
			return interfaces.ErrDuplicate
		}
	}
	if bus.ID.IsZero() {
		bus.ID = primitive.NewObjectID()
	}
	r.buses[bus.ID] = bus
	return nil
}

func (r *fakeBusRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Bus, error) {
	bus, ok := r.buses[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return bus, nil
}

func (r *fakeBusRepo) GetByNumber(_ context.Context, busNumber string) (*models.Bus, error) {
	for _, bus := range r.buses {
		if bus.BusNumber == busNumber {
			return bus, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (r *fakeBusRepo) List(_ context.Context, filter *interfaces.BusFilter) ([]*models.Bus, error) {
	var result []*models.Bus
	for _, bus := range r.buses {
		if filter != nil {
			if filter.Status != "" && bus.Status != filter.Status {
				continue
			}
			if filter.Route != nil && bus.Route != *filter.Route {
				continue
			}
		}
		result = append(result, bus)
	}
	return result, nil
}

func (r *fakeBusRepo) ListByRoute(_ context.Context, routeID primitive.ObjectID) ([]*models.Bus, error) {
	var result []*models.Bus
	for _, bus := range r.buses {
		if bus.Route == routeID {
			result = append(result, bus)
		}
	}
	return result, nil
}

func (r *fakeBusRepo) Update(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	bus, ok := r.buses[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	for key, value := range updates {
		switch key {
		case "assigned_driver":
			if value == nil {
				bus.AssignedDriver = nil
			} else {
				driverID := value.(primitive.ObjectID)
				bus.AssignedDriver = &driverID
			}
		case "bus_number":
			bus.BusNumber = value.(string)
		case "route":
			bus.Route = value.(primitive.ObjectID)
		case "capacity":
			bus.Capacity = value.(int)
		case "available_capacity":
			bus.AvailableCapacity = value.(int)
		case "status":
			bus.Status = value.(models.BusStatus)
		case "current_location":
			bus.CurrentLocation = value.(*models.Location)
		case "current_stop_order":
			bus.CurrentStopOrder = value.(int)
		case "estimated_arrivals":
			bus.EstimatedArrivals = value.([]models.EstimatedArrival)
		}
	}
	return nil
}

func (r *fakeBusRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.buses[id]; !ok {
		return interfaces.ErrNotFound
	}
	delete(r.buses, id)
	return nil
}

type fakeRouteRepo struct {
	routes map[primitive.ObjectID]*models.Route
}

func newFakeRouteRepo() *fakeRouteRepo {
	return &fakeRouteRepo{routes: make(map[primitive.ObjectID]*models.Route)}
}

func (r *fakeRouteRepo) Create(_ context.Context, route *models.Route) error {
	for _, existing := range r.routes {
		if existing.RouteName == route.RouteName {
			return interfaces.ErrDuplicate
		}
	}
	if route.ID.IsZero() {
		route.ID = primitive.NewObjectID()
	}
	r.routes[route.ID] = route
	return nil
}

func (r *fakeRouteRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Route, error) {
	route, ok := r.routes[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return route, nil
}

func (r *fakeRouteRepo) GetByName(_ context.Context, routeName string) (*models.Route, error) {
	for _, route := range r.routes {
		if route.RouteName == routeName {
			return route, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (r *fakeRouteRepo) List(_ context.Context) ([]*models.Route, error) {
	var result []*models.Route
	for _, route := range r.routes {
		result = append(result, route)
	}
	return result, nil
}

func (r *fakeRouteRepo) FindByStops(_ context.Context, stopNames ...string) (*models.Route, error) {
	for _, route := range r.routes {
		if route.HasStops(stopNames...) {
			return route, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (r *fakeRouteRepo) Update(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	route, ok := r.routes[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	for key, value := range updates {
		switch key {
		case "route_name":
			route.RouteName = value.(string)
		case "stops":
			route.Stops = value.([]models.Stop)
		}
	}
	return nil
}

func (r *fakeRouteRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.routes[id]; !ok {
		return interfaces.ErrNotFound
	}
	delete(r.routes, id)
	return nil
}

type fakeRideRepo struct {
	rides map[primitive.ObjectID]*models.Ride
}

func newFakeRideRepo() *fakeRideRepo {
	return &fakeRideRepo{rides: make(map[primitive.ObjectID]*models.Ride)}
}

func (r *fakeRideRepo) Create(_ context.Context, ride *models.Ride) error {
	// Mirrors the partial unique index on (passenger, ongoing).
	for _, existing := range r.rides {
		if existing.Passenger == ride.Passenger && existing.IsOngoing() {
			return interfaces.ErrDuplicate
		}
	}
	if ride.ID.IsZero() {
		ride.ID = primitive.NewObjectID()
	}
	if ride.CreatedAt.IsZero() {
		ride.CreatedAt = time.Now()
	}
	r.rides[ride.ID] = ride
	return nil
}

func (r *fakeRideRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Ride, error) {
	ride, ok := r.rides[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return ride, nil
}

func (r *fakeRideRepo) GetOngoingByPassenger(_ context.Context, passengerID primitive.ObjectID) (*models.Ride, error) {
	for _, ride := range r.rides {
		if ride.Passenger == passengerID && ride.IsOngoing() {
			return ride, nil
		}
	}
	return nil, nil
}

func (r *fakeRideRepo) Update(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	ride, ok := r.rides[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	for key, value := range updates {
		switch key {
		case "verified":
			ride.Verified = value.(bool)
		case "status":
			ride.Status = value.(models.RideStatus)
		case "start_stop":
			ride.StartStop = value.(string)
		case "end_stop":
			ride.EndStop = value.(string)
		case "fare":
			ride.Fare = value.(float64)
		case "estimated_time":
			ride.EstimatedTime = value.(float64)
		}
	}
	return nil
}

func (r *fakeRideRepo) DeleteCanceled(_ context.Context) (int64, error) {
	var deleted int64
	for id, ride := range r.rides {
		if ride.Status == models.RideStatusCanceled {
			delete(r.rides, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeRideRepo) DeleteUnverifiedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	for id, ride := range r.rides {
		if !ride.Verified && ride.CreatedAt.Before(cutoff) {
			delete(r.rides, id)
			deleted++
		}
	}
	return deleted, nil
}
