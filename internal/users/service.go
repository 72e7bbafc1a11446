package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tasafe/tasafe-api/pkg/common"
	"github.com/tasafe/tasafe-api/pkg/models"
)

// Service owns profile reads and edits
type Service struct {
	repo RepositoryInterface
}

// NewService creates a new user service
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// GetProfile returns the authenticated user's own record
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("user not found", err)
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies a partial update to the user's own record
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, patch *UpdateProfileRequest) (*models.User, error) {
	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("user not found", err)
		}
		return nil, err
	}

	return s.repo.UpdateProfile(ctx, userID, patch)
}

// List returns a page of the member directory
func (s *Service) List(ctx context.Context, limit, offset int) ([]models.UserSummary, int64, error) {
	result, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	if result == nil {
		result = []models.UserSummary{}
	}
	return result, total, nil
}

// GetPublic returns the public projection of any user
func (s *Service) GetPublic(ctx context.Context, id uuid.UUID) (*models.UserSummary, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("user not found", err)
		}
		return nil, err
	}

	summary := user.Summary()
	return &summary, nil
}
