package service

import (
	"context"

	"eventhub/events-service/internal/app/events/entity"
	"eventhub/events-service/internal/app/events/infrastructure"

	"github.com/google/uuid"
)

type EventServiceInterface interface {
	ListEvents(ctx context.Context) ([]entity.Event, error)
	CreateEvent(ctx context.Context, identity entity.Identity, req *entity.CreateEventRequest, upload *ImageUpload) (*entity.Event, error)
	GetEvent(ctx context.Context, eventID uuid.UUID) (*entity.EventWithReviews, error)
	UpdateEvent(ctx context.Context, identity entity.Identity, eventID uuid.UUID, req *entity.UpdateEventRequest, upload *ImageUpload) (*entity.Event, error)
	DeleteEvent(ctx context.Context, identity entity.Identity, eventID uuid.UUID) error
	OpenImage(ctx context.Context, filename string) (*infrastructure.ImageObject, error)
	RegisterForEvent(ctx context.Context, identity entity.Identity, eventID uuid.UUID) (*entity.Membership, error)
	UnregisterFromEvent(ctx context.Context, identity entity.Identity, eventID uuid.UUID) error
	GetAnalytics(ctx context.Context, identity entity.Identity, eventID uuid.UUID) (*entity.EventAnalytics, error)
}

type ReviewServiceInterface interface {
	CreateReview(ctx context.Context, identity entity.Identity, eventID uuid.UUID, req *entity.CreateReviewRequest) (*entity.Review, error)
	DeleteReview(ctx context.Context, identity entity.Identity, eventID, reviewID uuid.UUID) error
	RespondToReview(ctx context.Context, identity entity.Identity, eventID, reviewID uuid.UUID, req *entity.AdminResponseRequest) (*entity.Review, error)
}

type NotificationServiceInterface interface {
	ListNotifications(ctx context.Context, identity entity.Identity) ([]entity.Notification, error)
	MarkRead(ctx context.Context, identity entity.Identity, id uuid.UUID) error
	MarkAllRead(ctx context.Context, identity entity.Identity) (int64, error)
}

var (
	_ EventServiceInterface        = (*EventService)(nil)
	_ ReviewServiceInterface       = (*ReviewService)(nil)
	_ NotificationServiceInterface = (*NotificationService)(nil)
)
