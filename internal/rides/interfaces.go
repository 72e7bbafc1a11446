package rides

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RepositoryInterface defines the interface for ride repository operations
type RepositoryInterface interface {
	Create(ctx context.Context, ride *Ride) error
	List(ctx context.Context, filters ListFilters, now time.Time) ([]Ride, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Ride, error)
	Update(ctx context.Context, id uuid.UUID, patch *UpdateRideRequest) (*Ride, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByDriver(ctx context.Context, driverID uuid.UUID) ([]Ride, error)
}
