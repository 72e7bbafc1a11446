package requests

import (
	"context"

	"github.com/google/uuid"
)

// RepositoryInterface defines the interface for ride request repository operations
type RepositoryInterface interface {
	Insert(ctx context.Context, request *RideRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*RideRequest, error)
	GetRideMeta(ctx context.Context, rideID uuid.UUID) (*RideMeta, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]RideRequest, error)
	UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Notifier delivers in-app notifications. Delivery is best effort and
// never fails the request operation that triggered it.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind, title, message string)
}
