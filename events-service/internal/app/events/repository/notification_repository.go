package repository

import (
	"context"

	"eventhub/events-service/internal/app/events/entity"
	"eventhub/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *entity.Notification) (err error) {
	defer observe(metrics.DbOpInsert, "notifications")(&err)

	return r.db.WithContext(ctx).Create(notification).Error
}

// visibleTo ограничивает выборку уведомлениями пользователя и, для админов, общими админскими
func visibleTo(db *gorm.DB, userID uuid.UUID, includeAdmin bool) *gorm.DB {
	if includeAdmin {
		return db.Where("(user_id = ? OR is_admin_notification = ?)", userID, true)
	}
	return db.Where("user_id = ?", userID)
}

func (r *notificationRepository) ListForUser(ctx context.Context, userID uuid.UUID, includeAdmin bool) (notifications []entity.Notification, err error) {
	defer observe(metrics.DbOpSelect, "notifications")(&err)

	notifications = make([]entity.Notification, 0)
	err = visibleTo(r.db.WithContext(ctx), userID, includeAdmin).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID, includeAdmin bool) (err error) {
	defer observe(metrics.DbOpUpdate, "notifications")(&err)

	result := visibleTo(r.db.WithContext(ctx).Model(&entity.Notification{}).Where("id = ?", id), userID, includeAdmin).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead отмечает прочитанными все видимые пользователю уведомления и возвращает их количество
func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID, includeAdmin bool) (n int64, err error) {
	defer observe(metrics.DbOpUpdate, "notifications")(&err)

	result := visibleTo(r.db.WithContext(ctx).Model(&entity.Notification{}), userID, includeAdmin).
		Where("is_read = ?", false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
