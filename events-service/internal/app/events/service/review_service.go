package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"eventhub/events-service/internal/app/events/entity"
	"eventhub/events-service/internal/app/events/infrastructure"
	"eventhub/events-service/internal/app/events/repository"
	"eventhub/pkg/logger"
	"eventhub/pkg/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ReviewService обрабатывает отзывы о мероприятиях
type ReviewService struct {
	eventRepo        repository.EventRepository
	reviewRepo       repository.ReviewRepository
	notificationRepo repository.NotificationRepository
	publisher        infrastructure.MessagePublisher
	validate         *validator.Validate
}

func NewReviewService(
	eventRepo repository.EventRepository,
	reviewRepo repository.ReviewRepository,
	notificationRepo repository.NotificationRepository,
	publisher infrastructure.MessagePublisher,
) *ReviewService {
	return &ReviewService{
		eventRepo:        eventRepo,
		reviewRepo:       reviewRepo,
		notificationRepo: notificationRepo,
		publisher:        publisher,
		validate:         newValidator(),
	}
}

// CreateReview добавляет отзыв и уведомляет организатора
func (s *ReviewService) CreateReview(ctx context.Context, identity entity.Identity, eventID uuid.UUID, req *entity.CreateReviewRequest) (*entity.Review, error) {
	req.ReviewText = strings.TrimSpace(req.ReviewText)
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	review := &entity.Review{
		ID:         uuid.New(),
		EventID:    eventID,
		UserID:     identity.UserID,
		Username:   identity.Username,
		ReviewText: req.ReviewText,
		Rating:     req.Rating,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	metrics.ReviewsCreated.Inc()
	metrics.ReviewsRating.Observe(float64(review.Rating))

	if event.OrganizerID != identity.UserID {
		s.notify(ctx, &entity.Notification{
			Message:   fmt.Sprintf("%s left a %d-star review on %q", identity.Username, review.Rating, event.Title),
			Type:      entity.NotificationTypeNewReview,
			RelatedID: &event.ID,
			UserID:    &event.OrganizerID,
		})
	}

	publishLifecycle(ctx, s.publisher, entity.LifecycleMessage{
		Type:     entity.MessageReviewCreated,
		EventID:  eventID,
		ReviewID: &review.ID,
		Username: identity.Username,
		Rating:   review.Rating,
	})

	return review, nil
}

// DeleteReview удаляет отзыв. Разрешено автору и администраторам.
func (s *ReviewService) DeleteReview(ctx context.Context, identity entity.Identity, eventID, reviewID uuid.UUID) error {
	review, err := s.getReview(ctx, eventID, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != identity.UserID && !identity.IsAdmin {
		return ErrForbidden
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return nil
}

// RespondToReview сохраняет ответ администратора и уведомляет автора отзыва
func (s *ReviewService) RespondToReview(ctx context.Context, identity entity.Identity, eventID, reviewID uuid.UUID, req *entity.AdminResponseRequest) (*entity.Review, error) {
	if !identity.IsAdmin {
		return nil, ErrForbidden
	}

	req.AdminResponse = strings.TrimSpace(req.AdminResponse)
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	review, err := s.getReview(ctx, eventID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := s.reviewRepo.SetAdminResponse(ctx, reviewID, req.AdminResponse); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to save admin response: %w", err)
	}
	review.AdminResponse = &req.AdminResponse

	s.notify(ctx, &entity.Notification{
		Message:   "An administrator responded to your review",
		Type:      entity.NotificationTypeReviewReply,
		RelatedID: &review.ID,
		UserID:    &review.UserID,
	})

	return review, nil
}

// getReview находит отзыв и проверяет, что он относится к мероприятию из URL
func (s *ReviewService) getReview(ctx context.Context, eventID, reviewID uuid.UUID) (*entity.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	if review.EventID != eventID {
		return nil, ErrReviewNotFound
	}
	return review, nil
}

func (s *ReviewService) notify(ctx context.Context, n *entity.Notification) {
	n.ID = uuid.New()
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("type", n.Type).Msg("Failed to create notification")
	}
}
