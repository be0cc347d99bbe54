// File: internal/notification/service.go
package notification

import (
	"context"

	"unihome_backend/internal/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the notification business logic. Notify is fire-and-
// forget from the caller's point of view: a failed insert is logged,
// never surfaced to the triggering request.
type Service interface {
	Notify(ctx context.Context, userID uuid.UUID, notificationType Type, message string, relatedPropertyID *uuid.UUID)
	GetNotificationsForUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Notification, *common.Pagination, error)
	MarkNotificationAsRead(ctx context.Context, notificationID, userID uuid.UUID) error
	MarkAllUserNotificationsAsRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new notification service.
func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{repo: repo, logger: logger.Named("notification_service")}
}

func (s *service) Notify(ctx context.Context, userID uuid.UUID, notificationType Type, message string, relatedPropertyID *uuid.UUID) {
	n := &Notification{
		UserID:            userID,
		Type:              notificationType,
		Message:           message,
		RelatedPropertyID: relatedPropertyID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("Failed to create notification",
			zap.String("userID", userID.String()),
			zap.String("type", string(notificationType)),
			zap.Error(err))
	}
}

func (s *service) GetNotificationsForUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Notification, *common.Pagination, error) {
	return s.repo.GetByUserID(ctx, userID, page, pageSize)
}

func (s *service) MarkNotificationAsRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, notificationID, userID)
}

func (s *service) MarkAllUserNotificationsAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.MarkAllAsRead(ctx, userID)
}
