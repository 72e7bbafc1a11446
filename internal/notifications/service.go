package notifications

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/tasafe/tasafe-api/pkg/common"
	"github.com/tasafe/tasafe-api/pkg/eventbus"
	"github.com/tasafe/tasafe-api/pkg/logger"
	"github.com/tasafe/tasafe-api/pkg/models"
)

// Service owns in-app notifications. Notify persists the notification
// and fans it out on the event bus; both are best effort and never
// propagate failure to the operation that triggered them.
type Service struct {
	repo RepositoryInterface
	bus  *eventbus.Bus
}

// NewService creates a new notification service
func NewService(repo RepositoryInterface, bus *eventbus.Bus) *Service {
	return &Service{repo: repo, bus: bus}
}

// Notify stores a notification for the user and publishes it for live
// listeners. Failures are logged and swallowed.
func (s *Service) Notify(ctx context.Context, userID uuid.UUID, kind, title, message string) {
	notification := &models.Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Kind:    kind,
		Title:   title,
		Message: message,
	}

	if err := s.repo.Insert(ctx, notification); err != nil {
		logger.WithContext(ctx).Error("failed to store notification",
			zap.String("user_id", userID.String()),
			zap.String("kind", kind),
			zap.Error(err))
		return
	}

	subject := "notifications.user." + userID.String()
	if err := s.bus.Publish(ctx, subject, kind, notification); err != nil {
		logger.WithContext(ctx).Warn("failed to publish notification event",
			zap.String("subject", subject),
			zap.Error(err))
	}
}

// List returns a page of the user's notifications, newest first
func (s *Service) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Notification, int64, error) {
	result, total, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	if result == nil {
		result = []models.Notification{}
	}
	return result, total, nil
}

// CountUnread returns the user's unread notification count
func (s *Service) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkRead flags a notification as read. Only the recipient may do so.
func (s *Service) MarkRead(ctx context.Context, id, actorID uuid.UUID) error {
	notification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.NewNotFoundError("notification not found", err)
		}
		return err
	}

	if notification.UserID != actorID {
		return common.NewForbiddenError("you can only read your own notifications")
	}

	return s.repo.MarkRead(ctx, id)
}
