package repository

import (
	"context"
	"errors"

	"eventhub/events-service/internal/app/events/entity"
	"eventhub/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) (err error) {
	defer observe(metrics.DbOpInsert, "reviews")(&err)

	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "reviews")
	defer timer.ObserveDuration()

	var review entity.Review
	if err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, err
	}
	return &review, nil
}

// ListByEvent возвращает отзывы мероприятия в порядке создания
func (r *reviewRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) (reviews []entity.Review, err error) {
	defer observe(metrics.DbOpSelect, "reviews")(&err)

	reviews = make([]entity.Review, 0)
	err = r.db.WithContext(ctx).
		Select("id", "event_id", "user_id", "username", "review_text", "rating", "sentiment", "admin_response", "created_at").
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) SetAdminResponse(ctx context.Context, id uuid.UUID, response string) (err error) {
	defer observe(metrics.DbOpUpdate, "reviews")(&err)

	result := r.db.WithContext(ctx).Model(&entity.Review{}).
		Where("id = ?", id).
		Update("admin_response", response)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer observe(metrics.DbOpDelete, "reviews")(&err)

	result := r.db.WithContext(ctx).Delete(&entity.Review{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}
