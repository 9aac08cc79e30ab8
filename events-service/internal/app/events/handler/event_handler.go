package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"eventhub/events-service/internal/app/events/entity"
	"eventhub/events-service/internal/app/events/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
)

// Запас на текстовые поля формы сверх лимита изображения
const formOverhead = 1 << 20

type EventHandler struct {
	eventService service.EventServiceInterface
	maxImageSize int64
}

func NewEventHandler(eventService service.EventServiceInterface, maxImageSize int64) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		maxImageSize: maxImageSize,
	}
}

// ListEvents - GET /events
func (h *EventHandler) ListEvents(c *gin.Context) {
	events, err := h.eventService.ListEvents(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch events")
		return
	}

	c.JSON(http.StatusOK, events)
}

// CreateEvent - POST /events, multipart форма с необязательным полем image
func (h *EventHandler) CreateEvent(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxImageSize+formOverhead)

	var req entity.CreateEventRequest
	if err := c.ShouldBind(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	upload, closeFile, err := h.imageFromRequest(c)
	if err != nil {
		h.respondBindError(c, err)
		return
	}
	defer closeFile()

	event, err := h.eventService.CreateEvent(c.Request.Context(), identity, &req, upload)
	if err != nil {
		respondError(c, err, "Failed to create event")
		return
	}

	c.JSON(http.StatusCreated, event)
}

// GetEvent - GET /events/:id, мероприятие вместе с отзывами
func (h *EventHandler) GetEvent(c *gin.Context) {
	eventID, ok := parseID(c, "id", "Invalid event ID")
	if !ok {
		return
	}

	result, err := h.eventService.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, err, "Failed to fetch event")
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateEvent - PUT /events/:id, частичное обновление
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	eventID, ok := parseID(c, "id", "Invalid event ID")
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxImageSize+formOverhead)

	req, err := h.bindUpdate(c)
	if err != nil {
		h.respondBindError(c, err)
		return
	}

	upload, closeFile, err := h.imageFromRequest(c)
	if err != nil {
		h.respondBindError(c, err)
		return
	}
	defer closeFile()

	event, err := h.eventService.UpdateEvent(c.Request.Context(), identity, eventID, req, upload)
	if err != nil {
		respondError(c, err, "Failed to update event")
		return
	}

	c.JSON(http.StatusOK, event)
}

// DeleteEvent - DELETE /events/:id
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	eventID, ok := parseID(c, "id", "Invalid event ID")
	if !ok {
		return
	}

	if err := h.eventService.DeleteEvent(c.Request.Context(), identity, eventID); err != nil {
		respondError(c, err, "Failed to delete event")
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Event deleted successfully"})
}

// GetImage - GET /events/images/:filename
func (h *EventHandler) GetImage(c *gin.Context) {
	obj, err := h.eventService.OpenImage(c.Request.Context(), c.Param("filename"))
	if err != nil {
		respondError(c, err, "Failed to read image")
		return
	}
	defer obj.Body.Close()

	c.Header("Cache-Control", "public, max-age=86400")
	c.DataFromReader(http.StatusOK, obj.Size, obj.ContentType, obj.Body, nil)
}

// RegisterForEvent - POST /events/:id/register
func (h *EventHandler) RegisterForEvent(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	eventID, ok := parseID(c, "id", "Invalid event ID")
	if !ok {
		return
	}

	membership, err := h.eventService.RegisterForEvent(c.Request.Context(), identity, eventID)
	if err != nil {
		respondError(c, err, "Failed to register for event")
		return
	}

	c.JSON(http.StatusCreated, membership)
}

// UnregisterFromEvent - DELETE /events/:id/register
func (h *EventHandler) UnregisterFromEvent(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	eventID, ok := parseID(c, "id", "Invalid event ID")
	if !ok {
		return
	}

	if err := h.eventService.UnregisterFromEvent(c.Request.Context(), identity, eventID); err != nil {
		respondError(c, err, "Failed to unregister from event")
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Unregistered successfully"})
}

// GetAnalytics - GET /events/:id/analytics, только организатор или администратор
func (h *EventHandler) GetAnalytics(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	eventID, ok := parseID(c, "id", "Invalid event ID")
	if !ok {
		return
	}

	analytics, err := h.eventService.GetAnalytics(c.Request.Context(), identity, eventID)
	if err != nil {
		respondError(c, err, "Failed to fetch analytics")
		return
	}

	c.JSON(http.StatusOK, analytics)
}

// bindUpdate читает JSON целиком; из формы берутся только присутствующие непустые поля
func (h *EventHandler) bindUpdate(c *gin.Context) (*entity.UpdateEventRequest, error) {
	var req entity.UpdateEventRequest

	if c.ContentType() == binding.MIMEJSON {
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, err
		}
		return &req, nil
	}

	if strings.HasPrefix(c.ContentType(), binding.MIMEMultipartPOSTForm) {
		if err := c.Request.ParseMultipartForm(h.maxImageSize + formOverhead); err != nil {
			return nil, err
		}
	}

	field := func(name string) *string {
		value, present := c.GetPostForm(name)
		if !present || strings.TrimSpace(value) == "" {
			return nil
		}
		return &value
	}

	req.Title = field("title")
	req.Location = field("location")
	req.Description = field("description")
	req.Date = field("date")
	req.Time = field("time")
	req.Category = field("category")

	return &req, nil
}

// imageFromRequest возвращает файл из поля image или nil, если файла нет
func (h *EventHandler) imageFromRequest(c *gin.Context) (*service.ImageUpload, func(), error) {
	noop := func() {}

	if !strings.HasPrefix(c.ContentType(), binding.MIMEMultipartPOSTForm) {
		return nil, noop, nil
	}

	header, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, err
	}

	file, err := header.Open()
	if err != nil {
		return nil, noop, err
	}

	return &service.ImageUpload{
		Filename: header.Filename,
		Size:     header.Size,
		Content:  file,
	}, closer(file), nil
}

func (h *EventHandler) respondBindError(c *gin.Context, err error) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: service.ErrImageTooLarge.Error()})
		return
	}
	c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
}

func closer(f multipart.File) func() {
	return func() { _ = f.Close() }
}

func parseID(c *gin.Context, param, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: message})
		return uuid.Nil, false
	}
	return id, true
}
