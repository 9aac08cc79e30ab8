package service

import (
	"context"
	"errors"
	"fmt"

	"eventhub/events-service/internal/app/events/entity"
	"eventhub/events-service/internal/app/events/repository"

	"github.com/google/uuid"
)

// NotificationService - чтение уведомлений и отметка о прочтении.
// Администраторы дополнительно видят общие админские уведомления.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

func (s *NotificationService) ListNotifications(ctx context.Context, identity entity.Identity) ([]entity.Notification, error) {
	list, err := s.notificationRepo.ListForUser(ctx, identity.UserID, identity.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return list, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, identity entity.Identity, id uuid.UUID) error {
	if err := s.notificationRepo.MarkRead(ctx, id, identity.UserID, identity.IsAdmin); err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, identity entity.Identity) (int64, error) {
	n, err := s.notificationRepo.MarkAllRead(ctx, identity.UserID, identity.IsAdmin)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return n, nil
}
