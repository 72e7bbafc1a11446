package auth

import (
	"context"

	"github.com/tasafe/tasafe-api/pkg/models"
)

// RepositoryInterface defines the interface for auth repository operations
type RepositoryInterface interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}
