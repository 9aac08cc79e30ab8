package repository

import (
	"context"
	"errors"

	"eventhub/events-service/internal/app/events/entity"
	"eventhub/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) GetByEventID(ctx context.Context, eventID uuid.UUID) (*entity.EventAnalytics, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "event_analytics")
	defer timer.ObserveDuration()

	var analytics entity.EventAnalytics
	if err := r.db.WithContext(ctx).First(&analytics, "event_id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnalyticsNotFound
		}
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, err
	}
	return &analytics, nil
}
