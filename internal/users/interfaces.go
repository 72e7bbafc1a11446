package users

import (
	"context"

	"github.com/google/uuid"

	"github.com/tasafe/tasafe-api/pkg/models"
)

// RepositoryInterface defines the interface for user repository operations
type RepositoryInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, patch *UpdateProfileRequest) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.UserSummary, int64, error)
}
