package repository

import (
	"context"
	"errors"

	"eventhub/events-service/internal/app/events/entity"

	"github.com/google/uuid"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrEventNotFound        = errors.New("event not found")
	ErrReviewNotFound       = errors.New("review not found")
	ErrMembershipNotFound   = errors.New("membership not found")
	ErrMembershipExists     = errors.New("membership already exists")
	ErrAnalyticsNotFound    = errors.New("analytics not found")
	ErrNotificationNotFound = errors.New("notification not found")
)

// EventRepository - хранилище мероприятий
type EventRepository interface {
	List(ctx context.Context) ([]entity.Event, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	// CreateWithRelations атомарно сохраняет мероприятие, членство организатора и запись аналитики
	CreateWithRelations(ctx context.Context, event *entity.Event, membership *entity.Membership, analytics *entity.EventAnalytics) error
	Update(ctx context.Context, event *entity.Event) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// MembershipRepository - хранилище user_events
type MembershipRepository interface {
	Create(ctx context.Context, membership *entity.Membership) error
	Delete(ctx context.Context, userID, eventID uuid.UUID) error
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.Membership, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.Review, error)
	SetAdminResponse(ctx context.Context, id uuid.UUID, response string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type AnalyticsRepository interface {
	GetByEventID(ctx context.Context, eventID uuid.UUID) (*entity.EventAnalytics, error)
}

// NotificationRepository - хранилище уведомлений.
// includeAdmin добавляет к выборке общие уведомления администраторов.
type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	ListForUser(ctx context.Context, userID uuid.UUID, includeAdmin bool) ([]entity.Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID, includeAdmin bool) error
	MarkAllRead(ctx context.Context, userID uuid.UUID, includeAdmin bool) (int64, error)
}
