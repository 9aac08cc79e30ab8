package repository

import (
	"context"
	"errors"
	"fmt"

	"eventhub/events-service/internal/app/events/entity"
	"eventhub/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const serviceName = "events-service"

// observe запускает таймер запроса; возвращаемую функцию нужно вызвать через defer
// с адресом именованной ошибки.
func observe(op metrics.DbOperation, table string) func(*error) {
	timer := metrics.NewDbTimer(serviceName, op, table)
	return func(err *error) {
		timer.ObserveResult(*err)
	}
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository создает репозиторий мероприятий
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

// List возвращает все мероприятия, новые первыми
func (r *eventRepository) List(ctx context.Context) (events []entity.Event, err error) {
	defer observe(metrics.DbOpSelect, "events")(&err)

	events = make([]entity.Event, 0)
	if err = r.db.WithContext(ctx).Order("created_at DESC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "events")
	defer timer.ObserveDuration()

	var event entity.Event
	result := r.db.WithContext(ctx).First(&event, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, result.Error
	}

	return &event, nil
}

// CreateWithRelations выполняет три вставки в одной транзакции:
// events, user_events (организатор) и event_analytics.
func (r *eventRepository) CreateWithRelations(ctx context.Context, event *entity.Event, membership *entity.Membership, analytics *entity.EventAnalytics) (err error) {
	defer observe(metrics.DbOpInsert, "events")(&err)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return fmt.Errorf("insert event: %w", err)
		}

		membership.EventID = event.ID
		if err := tx.Create(membership).Error; err != nil {
			return fmt.Errorf("insert membership: %w", err)
		}

		analytics.EventID = event.ID
		if err := tx.Create(analytics).Error; err != nil {
			return fmt.Errorf("insert analytics: %w", err)
		}

		return nil
	})
}

// Update перезаписывает изменяемые поля мероприятия
func (r *eventRepository) Update(ctx context.Context, event *entity.Event) (err error) {
	defer observe(metrics.DbOpUpdate, "events")(&err)

	result := r.db.WithContext(ctx).Model(&entity.Event{}).
		Where("id = ?", event.ID).
		Updates(map[string]interface{}{
			"title":       event.Title,
			"location":    event.Location,
			"description": event.Description,
			"date":        event.Date,
			"time":        event.Time,
			"category":    event.Category,
			"image":       event.Image,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}

// Delete удаляет мероприятие.
// Отзывы, user_events и event_analytics удаляются через ON DELETE CASCADE.
func (r *eventRepository) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer observe(metrics.DbOpDelete, "events")(&err)

	result := r.db.WithContext(ctx).Delete(&entity.Event{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}
