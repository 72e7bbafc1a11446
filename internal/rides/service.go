package rides

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tasafe/tasafe-api/pkg/common"
)

// Service owns the ride lifecycle: creation validity, ownership checks
// and status transitions. Capacity is advisory (see DESIGN.md): accepted
// request counts are reported but never enforced against available_seats.
type Service struct {
	repo RepositoryInterface
	now  func() time.Time
}

// NewService creates a new ride service
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithNow overrides the service clock, for tests
func (s *Service) WithNow(now func() time.Time) {
	s.now = now
}

// Create validates and posts a new ride owned by driverID.
// GROUP rides must not carry a seat count; every other type must.
// Departure has to be strictly in the future.
func (s *Service) Create(ctx context.Context, driverID uuid.UUID, req *CreateRideRequest) (*Ride, error) {
	if req.Type == TypeGroup && req.AvailableSeats != nil {
		return nil, common.NewValidationError(common.ReasonSeatsNotAllowedForGroup,
			"GROUP rides must not have a seat limit")
	}

	if req.Type != TypeGroup && (req.AvailableSeats == nil || *req.AvailableSeats < 1) {
		return nil, common.NewValidationError(common.ReasonSeatsRequired,
			"available seats is required for this ride type")
	}

	if !req.DepartureTime.After(s.now()) {
		return nil, common.NewValidationError(common.ReasonPastDeparture,
			"departure time must be in the future")
	}

	ride := &Ride{
		ID:             uuid.New(),
		DriverID:       driverID,
		Type:           req.Type,
		Origin:         req.Origin,
		Destination:    req.Destination,
		MeetingPoint:   req.MeetingPoint,
		DepartureTime:  req.DepartureTime,
		AvailableSeats: req.AvailableSeats,
		Status:         StatusActive,
		Description:    req.Description,
	}

	if err := s.repo.Create(ctx, ride); err != nil {
		return nil, err
	}

	return ride, nil
}

// List returns upcoming ACTIVE rides matching the filters, soonest first,
// each annotated with its ACCEPTED request count.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Ride, error) {
	result, err := s.repo.List(ctx, filters, s.now())
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = []Ride{}
	}
	return result, nil
}

// GetByID returns the full ride including driver summary and requests
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Ride, error) {
	ride, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("ride not found", err)
		}
		return nil, err
	}
	return ride, nil
}

// Update applies a partial update. Only the driver may edit their ride.
// The GROUP/seats pairing is not re-checked here; creation is the only
// gate (preserved behavior).
func (s *Service) Update(ctx context.Context, id, actorID uuid.UUID, patch *UpdateRideRequest) (*Ride, error) {
	ride, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("ride not found", err)
		}
		return nil, err
	}

	if ride.DriverID != actorID {
		return nil, common.NewForbiddenError("you don't have permission to edit this ride")
	}

	return s.repo.Update(ctx, id, patch)
}

// Delete removes a ride and, by cascade, all its requests. Only the
// driver may remove their ride.
func (s *Service) Delete(ctx context.Context, id, actorID uuid.UUID) error {
	ride, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.NewNotFoundError("ride not found", err)
		}
		return err
	}

	if ride.DriverID != actorID {
		return common.NewForbiddenError("you don't have permission to delete this ride")
	}

	return s.repo.Delete(ctx, id)
}

// ListByDriver returns all rides owned by driverID, newest departure
// first, annotated with ACCEPTED request counts.
func (s *Service) ListByDriver(ctx context.Context, driverID uuid.UUID) ([]Ride, error) {
	result, err := s.repo.ListByDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = []Ride{}
	}
	return result, nil
}
