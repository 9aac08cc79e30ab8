package entity

import (
	"time"

	"github.com/google/uuid"
)

// Identity - аутентифицированный пользователь, извлеченный из JWT
type Identity struct {
	UserID   uuid.UUID
	Username string
	IsAdmin  bool
}

// CreateEventRequest - поля multipart формы (или JSON тела) POST /events
type CreateEventRequest struct {
	Title       string `form:"title" json:"title" validate:"required,max=255"`
	Location    string `form:"location" json:"location" validate:"required,max=255"`
	Description string `form:"description" json:"description" validate:"required"`
	Date        string `form:"date" json:"date" validate:"required,datetime=2006-01-02"`
	Time        string `form:"time" json:"time" validate:"required,clock"`
	Category    string `form:"category" json:"category" validate:"required,max=100"`
}

// UpdateEventRequest - частичное обновление: nil означает "оставить как есть"
type UpdateEventRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitnil,min=1,max=255"`
	Location    *string `json:"location,omitempty" validate:"omitnil,min=1,max=255"`
	Description *string `json:"description,omitempty" validate:"omitnil,min=1"`
	Date        *string `json:"date,omitempty" validate:"omitnil,datetime=2006-01-02"`
	Time        *string `json:"time,omitempty" validate:"omitnil,clock"`
	Category    *string `json:"category,omitempty" validate:"omitnil,min=1,max=100"`
}

// Empty сообщает, что в запросе нет ни одного поля
func (r UpdateEventRequest) Empty() bool {
	return r.Title == nil && r.Location == nil && r.Description == nil &&
		r.Date == nil && r.Time == nil && r.Category == nil
}

type CreateReviewRequest struct {
	ReviewText string `json:"review_text" validate:"required,max=5000"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
}

type AdminResponseRequest struct {
	AdminResponse string `json:"admin_response" validate:"required,max=5000"`
}

// ReviewView - проекция отзыва в ответе GET /events/{id}
type ReviewView struct {
	ID            uuid.UUID `json:"id"`
	ReviewText    string    `json:"review_text"`
	Rating        int       `json:"rating"`
	Username      string    `json:"username"`
	CreatedAt     time.Time `json:"created_at"`
	Sentiment     *string   `json:"sentiment"`
	AdminResponse *string   `json:"admin_response"`
}

func NewReviewView(r Review) ReviewView {
	return ReviewView{
		ID:            r.ID,
		ReviewText:    r.ReviewText,
		Rating:        r.Rating,
		Username:      r.Username,
		CreatedAt:     r.CreatedAt,
		Sentiment:     r.Sentiment,
		AdminResponse: r.AdminResponse,
	}
}

type EventWithReviews struct {
	Event   Event        `json:"event"`
	Reviews []ReviewView `json:"reviews"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
