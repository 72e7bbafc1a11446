package notifications

import (
	"context"

	"github.com/google/uuid"

	"github.com/tasafe/tasafe-api/pkg/models"
)

// RepositoryInterface defines the interface for notification repository operations
type RepositoryInterface interface {
	Insert(ctx context.Context, notification *models.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Notification, int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}
