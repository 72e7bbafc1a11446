package requests

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tasafe/tasafe-api/pkg/common"
	"github.com/tasafe/tasafe-api/pkg/models"
)

const uniqueViolation = "23505"

// Service owns the join request lifecycle. The one-request-per-rider
// rule is enforced by the database unique constraint, and decisions are
// guarded by a conditional status transition, so concurrent callers
// cannot double-book a request.
type Service struct {
	repo     RepositoryInterface
	notifier Notifier
}

// NewService creates a new ride request service
func NewService(repo RepositoryInterface, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// Create asks to join a ride. Drivers cannot request their own ride,
// the ride must still be ACTIVE, and a rider gets one request per ride.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *CreateRequestRequest) (*RideRequest, error) {
	meta, err := s.repo.GetRideMeta(ctx, req.RideID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("ride not found", err)
		}
		return nil, err
	}

	if meta.DriverID == userID {
		return nil, common.NewValidationError(common.ReasonSelfRequest,
			"you cannot request to join your own ride")
	}

	if meta.Status != "ACTIVE" {
		return nil, common.NewValidationError(common.ReasonRideNotActive,
			"this ride is no longer accepting requests")
	}

	request := &RideRequest{
		ID:      uuid.New(),
		RideID:  req.RideID,
		UserID:  userID,
		Message: req.Message,
		Status:  StatusPending,
	}

	if err := s.repo.Insert(ctx, request); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.NewConflictError(common.ReasonDuplicateRequest,
				"you already requested to join this ride")
		}
		return nil, err
	}

	// Re-read to attach the ride and requester summaries
	created, err := s.repo.GetByID(ctx, request.ID)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, meta.DriverID, models.NotificationRideRequest,
		"New ride request",
		fmt.Sprintf("Someone asked to join your ride to %s", meta.Destination))

	return created, nil
}

// GetMyRequests returns the user's own requests, newest first
func (s *Service) GetMyRequests(ctx context.Context, userID uuid.UUID) ([]RideRequest, error) {
	result, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = []RideRequest{}
	}
	return result, nil
}

// Accept approves a pending request. Only the ride's driver may accept,
// and a request that was already decided stays decided.
func (s *Service) Accept(ctx context.Context, requestID, actorID uuid.UUID) (*RideRequest, error) {
	request, err := s.decide(ctx, requestID, actorID, StatusAccepted)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, request.UserID, models.NotificationRequestAccepted,
		"Request accepted",
		fmt.Sprintf("Your request to join the ride to %s was accepted", request.Ride.Destination))

	return request, nil
}

// Reject declines a pending request. Only the ride's driver may reject.
func (s *Service) Reject(ctx context.Context, requestID, actorID uuid.UUID) (*RideRequest, error) {
	return s.decide(ctx, requestID, actorID, StatusRejected)
}

func (s *Service) decide(ctx context.Context, requestID, actorID uuid.UUID, status string) (*RideRequest, error) {
	request, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("request not found", err)
		}
		return nil, err
	}

	if request.Ride.DriverID != actorID {
		return nil, common.NewForbiddenError("only the ride driver can decide this request")
	}

	ok, err := s.repo.UpdateStatusIfPending(ctx, requestID, status)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.NewValidationError(common.ReasonAlreadyProcessed,
			"this request was already processed")
	}

	request.Status = status
	return request, nil
}

// Cancel withdraws the user's own request, whatever its status
func (s *Service) Cancel(ctx context.Context, requestID, actorID uuid.UUID) error {
	request, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.NewNotFoundError("request not found", err)
		}
		return err
	}

	if request.UserID != actorID {
		return common.NewForbiddenError("you can only cancel your own requests")
	}

	return s.repo.Delete(ctx, requestID)
}

func (s *Service) notify(ctx context.Context, userID uuid.UUID, kind, title, message string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, userID, kind, title, message)
}
