package rides

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/tasafe/tasafe-api/pkg/common"
)

// MockRepository implements RepositoryInterface for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, ride *Ride) error {
	args := m.Called(ctx, ride)
	return args.Error(0)
}

func (m *MockRepository) List(ctx context.Context, filters ListFilters, now time.Time) ([]Ride, error) {
	args := m.Called(ctx, filters, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Ride), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Ride, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Ride), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, id uuid.UUID, patch *UpdateRideRequest) (*Ride, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Ride), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) ListByDriver(ctx context.Context, driverID uuid.UUID) ([]Ride, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Ride), args.Error(1)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func intPtr(v int) *int { return &v }

// ========================================
// CREATE TESTS
// ========================================

func TestCreate_Success(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		req  CreateRideRequest
	}{
		{
			name: "car ride with seats",
			req: CreateRideRequest{
				Type:           TypeCar,
				Origin:         "Campus",
				Destination:    "Downtown",
				MeetingPoint:   "Main gate",
				DepartureTime:  now.Add(2 * time.Hour),
				AvailableSeats: intPtr(3),
			},
		},
		{
			name: "group ride without seats",
			req: CreateRideRequest{
				Type:          TypeGroup,
				Origin:        "Library",
				Destination:   "Bus terminal",
				MeetingPoint:  "Library entrance",
				DepartureTime: now.Add(30 * time.Minute),
			},
		},
		{
			name: "shared uber",
			req: CreateRideRequest{
				Type:           TypeSharedUber,
				Origin:         "Campus",
				Destination:    "Airport",
				MeetingPoint:   "Parking lot B",
				DepartureTime:  now.Add(24 * time.Hour),
				AvailableSeats: intPtr(2),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			svc := NewService(mockRepo)
			svc.WithNow(fixedClock(now))
			ctx := context.Background()
			driverID := uuid.New()

			mockRepo.On("Create", ctx, mock.AnythingOfType("*rides.Ride")).Return(nil)

			ride, err := svc.Create(ctx, driverID, &tt.req)

			assert.NoError(t, err)
			assert.NotNil(t, ride)
			assert.NotEqual(t, uuid.Nil, ride.ID)
			assert.Equal(t, driverID, ride.DriverID)
			assert.Equal(t, StatusActive, ride.Status)
			assert.Equal(t, tt.req.Type, ride.Type)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestCreate_GroupWithSeats(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo)
	svc.WithNow(fixedClock(now))

	req := &CreateRideRequest{
		Type:           TypeGroup,
		Origin:         "Campus",
		Destination:    "Downtown",
		MeetingPoint:   "Main gate",
		DepartureTime:  now.Add(time.Hour),
		AvailableSeats: intPtr(4),
	}

	ride, err := svc.Create(context.Background(), uuid.New(), req)

	assert.Error(t, err)
	assert.Nil(t, ride)

	appErr, ok := common.AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, common.KindValidation, appErr.Kind)
	assert.Equal(t, common.ReasonSeatsNotAllowedForGroup, appErr.Reason)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestCreate_SeatsRequired(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		seats *int
	}{
		{"missing seats", nil},
		{"zero seats", intPtr(0)},
		{"negative seats", intPtr(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			svc := NewService(mockRepo)
			svc.WithNow(fixedClock(now))

			req := &CreateRideRequest{
				Type:           TypeCar,
				Origin:         "Campus",
				Destination:    "Downtown",
				MeetingPoint:   "Main gate",
				DepartureTime:  now.Add(time.Hour),
				AvailableSeats: tt.seats,
			}

			ride, err := svc.Create(context.Background(), uuid.New(), req)

			assert.Error(t, err)
			assert.Nil(t, ride)

			appErr, ok := common.AsAppError(err)
			assert.True(t, ok)
			assert.Equal(t, common.ReasonSeatsRequired, appErr.Reason)
			mockRepo.AssertNotCalled(t, "Create")
		})
	}
}

func TestCreate_PastDeparture(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		departure time.Time
	}{
		{"in the past", now.Add(-time.Hour)},
		{"exactly now", now},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			svc := NewService(mockRepo)
			svc.WithNow(fixedClock(now))

			req := &CreateRideRequest{
				Type:           TypeCar,
				Origin:         "Campus",
				Destination:    "Downtown",
				MeetingPoint:   "Main gate",
				DepartureTime:  tt.departure,
				AvailableSeats: intPtr(2),
			}

			ride, err := svc.Create(context.Background(), uuid.New(), req)

			assert.Error(t, err)
			assert.Nil(t, ride)

			appErr, ok := common.AsAppError(err)
			assert.True(t, ok)
			assert.Equal(t, common.ReasonPastDeparture, appErr.Reason)
			mockRepo.AssertNotCalled(t, "Create")
		})
	}
}

func TestCreate_RepositoryError(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo)
	svc.WithNow(fixedClock(now))
	ctx := context.Background()

	expectedErr := errors.New("database connection failed")
	mockRepo.On("Create", ctx, mock.AnythingOfType("*rides.Ride")).Return(expectedErr)

	req := &CreateRideRequest{
		Type:           TypeCar,
		Origin:         "Campus",
		Destination:    "Downtown",
		MeetingPoint:   "Main gate",
		DepartureTime:  now.Add(time.Hour),
		AvailableSeats: intPtr(2),
	}

	ride, err := svc.Create(ctx, uuid.New(), req)

	assert.Error(t, err)
	assert.Equal(t, expectedErr, err)
	assert.Nil(t, ride)
	mockRepo.AssertExpectations(t)
}

// ========================================
// LIST TESTS
// ========================================

func TestList_Success(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo)
	svc.WithNow(fixedClock(now))
	ctx := context.Background()

	mockRides := []Ride{
		{ID: uuid.New(), Type: TypeCar, Status: StatusActive, AcceptedRequests: 2},
		{ID: uuid.New(), Type: TypeGroup, Status: StatusActive},
	}

	mockRepo.On("List", ctx, ListFilters{}, now).Return(mockRides, nil)

	rides, err := svc.List(ctx, ListFilters{})

	assert.NoError(t, err)
	assert.Len(t, rides, 2)
	assert.Equal(t, 2, rides[0].AcceptedRequests)
	mockRepo.AssertExpectations(t)
}

func TestList_WithFilters(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo)
	svc.WithNow(fixedClock(now))
	ctx := context.Background()

	rideType := TypeCar
	destination := "downtown"
	date := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	filters := ListFilters{Type: &rideType, Destination: &destination, Date: &date}

	mockRepo.On("List", ctx, filters, now).
		Return([]Ride{{ID: uuid.New(), Type: TypeCar}}, nil)

	rides, err := svc.List(ctx, filters)

	assert.NoError(t, err)
	assert.Len(t, rides, 1)
	mockRepo.AssertExpectations(t)
}

func TestList_EmptyResult(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo)
	svc.WithNow(fixedClock(now))
	ctx := context.Background()

	mockRepo.On("List", ctx, ListFilters{}, now).Return(nil, nil)

	rides, err := svc.List(ctx, ListFilters{})

	assert.NoError(t, err)
	assert.NotNil(t, rides)
	assert.Len(t, rides, 0)
	mockRepo.AssertExpectations(t)
}

// ========================================
// GET BY ID TESTS
// ========================================

func TestGetByID_Success(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo)
	ctx := context.Background()
	rideID := uuid.New()

	mockRide := &Ride{
		ID:     rideID,
		Type:   TypeCar,
		Status: StatusActive,
		Requests: []RequestInfo{
			{ID: uuid.New(), Status: "PENDING"},
		},
	}

	mockRepo.On("GetByID", ctx, rideID).Return(mockRide, nil)

	ride, err := svc.GetByID(ctx, rideID)

	assert.NoError(t, err)
	assert.Equal(t, rideID, ride.ID)
	assert.Len(t, ride.Requests, 1)
	mockRepo.AssertExpectations(t)
}

func TestGetByID_NotFound(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo)
	ctx := context.Background()
	rideID := uuid.New()

	mockRepo.On("GetByID", ctx, rideID).Return(nil, pgx.ErrNoRows)

	ride, err := svc.GetByID(ctx, rideID)

	assert.Error(t, err)
	assert.Nil(t, ride)

	appErr, ok := common.AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, common.KindNotFound, appErr.Kind)
	mockRepo.AssertExpectations(t)
}

// ========================================
// UPDATE TESTS
// ========================================

func TestUpdate_Success(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo)
	ctx := context.Background()

	driverID := uuid.New()
	rideID := uuid.New()
	newStatus := StatusCancelled
	patch := &UpdateRideRequest{Status: &newStatus}

	existing := &Ride{ID: rideID, DriverID: driverID, Status: StatusActive}
	updated := &Ride{ID: rideID, DriverID: driverID, Status: StatusCancelled}

	mockRepo.On("GetByID", ctx, rideID).Return(existing, nil)
	mockRepo.On("Update", ctx, rideID, patch).Return(updated, nil)

	ride, err := svc.Update(ctx, rideID, driverID, patch)

	assert.NoError(t, err)
	assert.Equal(t, StatusCancelled, ride.Status)
	mockRepo.AssertExpectations(t)
}

func TestUpdate_NotOwner(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo)
	ctx := context.Background()

	rideID := uuid.New()
	existing := &Ride{ID: rideID, DriverID: uuid.New(), Status: StatusActive}

	mockRepo.On("GetByID", ctx, rideID).Return(existing, nil)

	origin := "Elsewhere"
	ride, err := svc.Update(ctx, rideID, uuid.New(), &UpdateRideRequest{Origin: &origin})

	assert.Error(t, err)
	assert.Nil(t, ride)

	appErr, ok := common.AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, common.KindForbidden, appErr.Kind)
	mockRepo.AssertNotCalled(t, "Update")
}

func TestUpdate_NotFound(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo)
	ctx := context.Background()
	rideID := uuid.New()

	mockRepo.On("GetByID", ctx, rideID).Return(nil, pgx.ErrNoRows)

	ride, err := svc.Update(ctx, rideID, uuid.New(), &UpdateRideRequest{})

	assert.Error(t, err)
	assert.Nil(t, ride)

	appErr, ok := common.AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, common.KindNotFound, appErr.Kind)
	mockRepo.AssertExpectations(t)
}

// ========================================
// DELETE TESTS
// ========================================

func TestDelete_Success(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo)
	ctx := context.Background()

	driverID := uuid.New()
	rideID := uuid.New()

	mockRepo.On("GetByID", ctx, rideID).Return(&Ride{ID: rideID, DriverID: driverID}, nil)
	mockRepo.On("Delete", ctx, rideID).Return(nil)

	err := svc.Delete(ctx, rideID, driverID)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestDelete_NotOwner(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo)
	ctx := context.Background()
	rideID := uuid.New()

	mockRepo.On("GetByID", ctx, rideID).Return(&Ride{ID: rideID, DriverID: uuid.New()}, nil)

	err := svc.Delete(ctx, rideID, uuid.New())

	assert.Error(t, err)

	appErr, ok := common.AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, common.KindForbidden, appErr.Kind)
	mockRepo.AssertNotCalled(t, "Delete")
}

func TestDelete_NotFound(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo)
	ctx := context.Background()
	rideID := uuid.New()

	mockRepo.On("GetByID", ctx, rideID).Return(nil, pgx.ErrNoRows)

	err := svc.Delete(ctx, rideID, uuid.New())

	assert.Error(t, err)

	appErr, ok := common.AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, common.KindNotFound, appErr.Kind)
	mockRepo.AssertExpectations(t)
}

// ========================================
// LIST BY DRIVER TESTS
// ========================================

func TestListByDriver_Success(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo)
	ctx := context.Background()
	driverID := uuid.New()

	mockRides := []Ride{
		{ID: uuid.New(), DriverID: driverID, Status: StatusCompleted},
		{ID: uuid.New(), DriverID: driverID, Status: StatusActive},
	}

	mockRepo.On("ListByDriver", ctx, driverID).Return(mockRides, nil)

	rides, err := svc.ListByDriver(ctx, driverID)

	assert.NoError(t, err)
	assert.Len(t, rides, 2)
	mockRepo.AssertExpectations(t)
}

func TestListByDriver_Empty(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo)
	ctx := context.Background()
	driverID := uuid.New()

	mockRepo.On("ListByDriver", ctx, driverID).Return(nil, nil)

	rides, err := svc.ListByDriver(ctx, driverID)

	assert.NoError(t, err)
	assert.NotNil(t, rides)
	assert.Len(t, rides, 0)
	mockRepo.AssertExpectations(t)
}
