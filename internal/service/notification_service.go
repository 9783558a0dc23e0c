package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/webslinger-cto/fieldserve-api/internal/auth"
	"github.com/webslinger-cto/fieldserve-api/internal/domain"
	"github.com/webslinger-cto/fieldserve-api/internal/mapper"
	"github.com/webslinger-cto/fieldserve-api/internal/repository"
	"go.uber.org/zap"
)

type NotificationService struct {
	notifRepo *repository.NotificationRepository
	logger    *zap.Logger
}

func NewNotificationService(notifRepo *repository.NotificationRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{notifRepo: notifRepo, logger: logger}
}

// List returns the calling user's notifications, newest first
func (s *NotificationService) List(ctx context.Context, unreadOnly bool, limit int) ([]domain.NotificationResponse, error) {
	user := auth.MustFromContext(ctx)

	notifications, err := s.notifRepo.ListByUser(ctx, user.UserID, unreadOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	responses := make([]domain.NotificationResponse, len(notifications))
	for i := range notifications {
		responses[i] = *mapper.ToNotificationResponse(&notifications[i])
	}
	return responses, nil
}

// UnreadCount returns the number of unread notifications for the caller
func (s *NotificationService) UnreadCount(ctx context.Context) (int64, error) {
	user := auth.MustFromContext(ctx)
	return s.notifRepo.CountUnread(ctx, user.UserID)
}

// MarkRead marks a single notification as read. Notifications belong to the
// user they were sent to, marking someone else's returns not found.
func (s *NotificationService) MarkRead(ctx context.Context, id uuid.UUID) error {
	user := auth.MustFromContext(ctx)

	rows, err := s.notifRepo.MarkRead(ctx, id, user.UserID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: notification %s", ErrNotFound, id)
	}
	return nil
}

// MarkAllRead marks every unread notification for the caller
func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	user := auth.MustFromContext(ctx)

	if err := s.notifRepo.MarkAllRead(ctx, user.UserID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
