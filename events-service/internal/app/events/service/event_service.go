package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"eventhub/events-service/internal/app/events/entity"
	"eventhub/events-service/internal/app/events/infrastructure"
	"eventhub/events-service/internal/app/events/infrastructure/storage"
	"eventhub/events-service/internal/app/events/repository"
	"eventhub/pkg/logger"
	"eventhub/pkg/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ImageUpload - файл изображения из multipart запроса
type ImageUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// EventService управляет жизненным циклом мероприятий:
// создание с членством организатора и записью аналитики, права владельца, изображения.
type EventService struct {
	eventRepo        repository.EventRepository
	reviewRepo       repository.ReviewRepository
	membershipRepo   repository.MembershipRepository
	analyticsRepo    repository.AnalyticsRepository
	notificationRepo repository.NotificationRepository
	images           infrastructure.ImageStorage
	publisher        infrastructure.MessagePublisher
	validate         *validator.Validate
	maxImageSize     int64
}

func NewEventService(
	eventRepo repository.EventRepository,
	reviewRepo repository.ReviewRepository,
	membershipRepo repository.MembershipRepository,
	analyticsRepo repository.AnalyticsRepository,
	notificationRepo repository.NotificationRepository,
	images infrastructure.ImageStorage,
	publisher infrastructure.MessagePublisher,
	maxImageSize int64,
) *EventService {
	return &EventService{
		eventRepo:        eventRepo,
		reviewRepo:       reviewRepo,
		membershipRepo:   membershipRepo,
		analyticsRepo:    analyticsRepo,
		notificationRepo: notificationRepo,
		images:           images,
		publisher:        publisher,
		validate:         newValidator(),
		maxImageSize:     maxImageSize,
	}
}

// ListEvents возвращает все мероприятия без фильтрации
func (s *EventService) ListEvents(ctx context.Context) ([]entity.Event, error) {
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// CreateEvent создает мероприятие от имени identity.
// Изображение сохраняется до транзакции; если транзакция не прошла, файл удаляется.
func (s *EventService) CreateEvent(ctx context.Context, identity entity.Identity, req *entity.CreateEventRequest, upload *ImageUpload) (*entity.Event, error) {
	trimCreate(req)
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	event := &entity.Event{
		ID:          uuid.New(),
		Title:       req.Title,
		Location:    req.Location,
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		Category:    req.Category,
		Username:    identity.Username,
		OrganizerID: identity.UserID,
	}

	if upload != nil {
		path, err := s.storeImage(ctx, event.ID, upload)
		if err != nil {
			return nil, err
		}
		event.Image = &path
	}

	membership := &entity.Membership{ID: uuid.New(), UserID: identity.UserID}
	analytics := &entity.EventAnalytics{ID: uuid.New(), Metrics: datatypes.JSON("{}")}

	if err := s.eventRepo.CreateWithRelations(ctx, event, membership, analytics); err != nil {
		s.discardImage(ctx, event.Image)
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	metrics.EventsLifecycle.WithLabelValues("created").Inc()

	s.notify(ctx, &entity.Notification{
		Message:             fmt.Sprintf("New event %q created by %s", event.Title, event.Username),
		Type:                entity.NotificationTypeEventCreated,
		RelatedID:           &event.ID,
		IsAdminNotification: true,
	})
	s.publish(ctx, entity.LifecycleMessage{Type: entity.MessageEventCreated, EventID: event.ID, Username: identity.Username})

	return event, nil
}

// GetEvent возвращает мероприятие вместе с отзывами
func (s *EventService) GetEvent(ctx context.Context, eventID uuid.UUID) (*entity.EventWithReviews, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	views := make([]entity.ReviewView, 0, len(reviews))
	for _, r := range reviews {
		views = append(views, entity.NewReviewView(r))
	}

	return &entity.EventWithReviews{Event: *event, Reviews: views}, nil
}

// UpdateEvent применяет частичное обновление. Права проверяются по совпадению username.
// Новое изображение заменяет старое; удаление старого файла не влияет на результат.
func (s *EventService) UpdateEvent(ctx context.Context, identity entity.Identity, eventID uuid.UUID, req *entity.UpdateEventRequest, upload *ImageUpload) (*entity.Event, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !ownsEvent(identity, event) {
		return nil, ErrForbidden
	}

	trimUpdate(req)
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	applyUpdate(event, req)

	oldImage := event.Image
	if upload != nil {
		path, err := s.storeImage(ctx, event.ID, upload)
		if err != nil {
			return nil, err
		}
		event.Image = &path
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		if upload != nil {
			s.discardImage(ctx, event.Image)
		}
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	if upload != nil {
		s.discardImage(ctx, oldImage)
	}

	metrics.EventsLifecycle.WithLabelValues("updated").Inc()
	s.publish(ctx, entity.LifecycleMessage{Type: entity.MessageEventUpdated, EventID: event.ID, Username: identity.Username})

	return event, nil
}

// DeleteEvent удаляет мероприятие владельца. Зависимые записи удаляются каскадом в БД.
func (s *EventService) DeleteEvent(ctx context.Context, identity entity.Identity, eventID uuid.UUID) error {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if !ownsEvent(identity, event) {
		return ErrForbidden
	}

	s.discardImage(ctx, event.Image)

	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to delete event: %w", err)
	}

	metrics.EventsLifecycle.WithLabelValues("deleted").Inc()
	s.publish(ctx, entity.LifecycleMessage{Type: entity.MessageEventDeleted, EventID: eventID, Username: identity.Username})

	return nil
}

// OpenImage открывает сохраненное изображение по имени файла
func (s *EventService) OpenImage(ctx context.Context, filename string) (*infrastructure.ImageObject, error) {
	if !storage.ValidName(filename) {
		return nil, ErrImageNotFound
	}

	obj, err := s.images.Open(ctx, filename)
	if err != nil {
		if errors.Is(err, infrastructure.ErrImageNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return obj, nil
}

// RegisterForEvent добавляет пользователя в участники мероприятия
func (s *EventService) RegisterForEvent(ctx context.Context, identity entity.Identity, eventID uuid.UUID) (*entity.Membership, error) {
	if _, err := s.getEvent(ctx, eventID); err != nil {
		return nil, err
	}

	membership := &entity.Membership{ID: uuid.New(), UserID: identity.UserID, EventID: eventID}
	if err := s.membershipRepo.Create(ctx, membership); err != nil {
		if errors.Is(err, repository.ErrMembershipExists) {
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("failed to register for event: %w", err)
	}

	metrics.EventMemberships.WithLabelValues("joined").Inc()
	return membership, nil
}

// UnregisterFromEvent удаляет членство. Организатор покинуть свое мероприятие не может.
func (s *EventService) UnregisterFromEvent(ctx context.Context, identity entity.Identity, eventID uuid.UUID) error {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if event.OrganizerID == identity.UserID {
		return ErrOrganizerMembership
	}

	if err := s.membershipRepo.Delete(ctx, identity.UserID, eventID); err != nil {
		if errors.Is(err, repository.ErrMembershipNotFound) {
			return ErrNotRegistered
		}
		return fmt.Errorf("failed to unregister from event: %w", err)
	}

	metrics.EventMemberships.WithLabelValues("left").Inc()
	return nil
}

// GetAnalytics возвращает запись аналитики. Доступно владельцу и администраторам.
func (s *EventService) GetAnalytics(ctx context.Context, identity entity.Identity, eventID uuid.UUID) (*entity.EventAnalytics, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !identity.IsAdmin && !ownsEvent(identity, event) {
		return nil, ErrForbidden
	}

	analytics, err := s.analyticsRepo.GetByEventID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrAnalyticsNotFound) {
			return nil, ErrAnalyticsNotFound
		}
		return nil, fmt.Errorf("failed to get analytics: %w", err)
	}
	return analytics, nil
}

func (s *EventService) getEvent(ctx context.Context, eventID uuid.UUID) (*entity.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

// ownsEvent сравнивает username, а не id: так исторически устроены права на мероприятия.
// organizer_id хранится, чтобы перейти на проверку по id без миграции.
func ownsEvent(identity entity.Identity, event *entity.Event) bool {
	return identity.Username != "" && identity.Username == event.Username
}

func (s *EventService) storeImage(ctx context.Context, eventID uuid.UUID, upload *ImageUpload) (string, error) {
	img, err := storage.PrepareImage(upload.Filename, upload.Size, s.maxImageSize, upload.Content)
	if err != nil {
		metrics.EventImageUploads.WithLabelValues("rejected").Inc()
		return "", imageError(err)
	}

	name := fmt.Sprintf("event-%s%s", uuid.NewString(), img.Ext)
	path, err := s.images.Save(ctx, name, img.ContentType, img.Content)
	if err != nil {
		if errors.Is(err, infrastructure.ErrImageTooLarge) {
			metrics.EventImageUploads.WithLabelValues("rejected").Inc()
			return "", ErrImageTooLarge
		}
		metrics.EventImageUploads.WithLabelValues("failed").Inc()
		logger.Ctx(ctx).Error().Err(err).Str("event_id", eventID.String()).Msg("Failed to store event image")
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	metrics.EventImageUploads.WithLabelValues("stored").Inc()
	return path, nil
}

func imageError(err error) error {
	switch {
	case errors.Is(err, infrastructure.ErrImageTooLarge):
		return ErrImageTooLarge
	case errors.Is(err, infrastructure.ErrUnsupportedImage):
		return ErrInvalidImage
	}
	return fmt.Errorf("failed to read image: %w", err)
}

// discardImage удаляет файл без влияния на результат запроса
func (s *EventService) discardImage(ctx context.Context, path *string) {
	if path == nil || *path == "" {
		return
	}
	if err := s.images.Delete(ctx, *path); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("image", *path).Msg("Failed to delete event image")
	}
}

func (s *EventService) notify(ctx context.Context, n *entity.Notification) {
	n.ID = uuid.New()
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("type", n.Type).Msg("Failed to create notification")
	}
}

// publish отправляет сообщение в Kafka; ошибка логируется и не влияет на результат
func (s *EventService) publish(ctx context.Context, msg entity.LifecycleMessage) {
	publishLifecycle(ctx, s.publisher, msg)
}

func publishLifecycle(ctx context.Context, publisher infrastructure.MessagePublisher, msg entity.LifecycleMessage) {
	if publisher == nil {
		return
	}
	msg.Timestamp = time.Now().UTC()

	payload, err := json.Marshal(msg)
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("Failed to marshal lifecycle message")
		return
	}
	if err := publisher.PublishMessage(ctx, msg.EventID.String(), payload); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("type", msg.Type).Str("event_id", msg.EventID.String()).Msg("Failed to publish lifecycle message")
	}
}

func trimCreate(req *entity.CreateEventRequest) {
	req.Title = strings.TrimSpace(req.Title)
	req.Location = strings.TrimSpace(req.Location)
	req.Description = strings.TrimSpace(req.Description)
	req.Date = strings.TrimSpace(req.Date)
	req.Time = strings.TrimSpace(req.Time)
	req.Category = strings.TrimSpace(req.Category)
}

func trimUpdate(req *entity.UpdateEventRequest) {
	for _, field := range []*string{req.Title, req.Location, req.Description, req.Date, req.Time, req.Category} {
		if field != nil {
			*field = strings.TrimSpace(*field)
		}
	}
}

// applyUpdate переносит только переданные поля, остальные остаются прежними
func applyUpdate(event *entity.Event, req *entity.UpdateEventRequest) {
	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Date != nil {
		event.Date = *req.Date
	}
	if req.Time != nil {
		event.Time = *req.Time
	}
	if req.Category != nil {
		event.Category = *req.Category
	}
}
