package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// User - проекция таблицы users, которой владеет Auth Service.
// Events Service только ссылается на нее внешними ключами и никогда не пишет в нее.
type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email     string    `json:"email" gorm:"type:varchar(255);not null;unique"`
	Username  string    `json:"username" gorm:"type:varchar(50);not null;unique"`
	IsAdmin   bool      `json:"is_admin" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// Event представляет мероприятие
type Event struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string    `json:"title" gorm:"type:varchar(255);not null"`
	Location    string    `json:"location" gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Date        string    `json:"date" gorm:"type:varchar(10);not null"` // YYYY-MM-DD, хранится как пришло от клиента
	Time        string    `json:"time" gorm:"type:varchar(8);not null"`  // HH:MM или HH:MM:SS
	Category    string    `json:"category" gorm:"type:varchar(100);not null;index"`
	Username    string    `json:"username" gorm:"type:varchar(50);not null;index"` // Владелец, по нему проверяются права
	OrganizerID uuid.UUID `json:"organizer_id" gorm:"type:uuid;not null;index"`
	Image       *string   `json:"image" gorm:"type:varchar(512)"` // Публичный путь к изображению
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Organizer *User `json:"-" gorm:"foreignKey:OrganizerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (Event) TableName() string {
	return "events"
}

// Membership - запись user_events: пользователь зарегистрирован на мероприятие
// (организатор добавляется автоматически при создании)
type Membership struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_events_pair"`
	EventID   uuid.UUID `json:"event_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_events_pair;index"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	User  *User  `json:"-" gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Event *Event `json:"-" gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (Membership) TableName() string {
	return "user_events"
}

// Review - отзыв пользователя о мероприятии
type Review struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	EventID       uuid.UUID `json:"event_id" gorm:"type:uuid;not null;index"`
	UserID        uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Username      string    `json:"username" gorm:"type:varchar(50);not null"`
	ReviewText    string    `json:"review_text" gorm:"type:text;not null"`
	Rating        int       `json:"rating" gorm:"not null;check:chk_reviews_rating,rating >= 1 AND rating <= 5"`
	Sentiment     *string   `json:"sentiment" gorm:"type:varchar(20)"`
	AdminResponse *string   `json:"admin_response" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	User  *User  `json:"-" gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Event *Event `json:"-" gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (Review) TableName() string {
	return "reviews"
}

// EventAnalytics - заготовка под аналитику, одна запись на мероприятие.
// Metrics заполняет внешний потребитель событий из Kafka.
type EventAnalytics struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	EventID   uuid.UUID      `json:"event_id" gorm:"type:uuid;not null;uniqueIndex"`
	Metrics   datatypes.JSON `json:"metrics" gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`

	Event *Event `json:"-" gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (EventAnalytics) TableName() string {
	return "event_analytics"
}

// Notification - уведомление конкретному пользователю или всем администраторам
type Notification struct {
	ID                  uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Message             string     `json:"message" gorm:"type:text;not null"`
	Type                string     `json:"type" gorm:"type:varchar(50);not null"`
	RelatedID           *uuid.UUID `json:"related_id" gorm:"type:uuid"`
	IsAdminNotification bool       `json:"is_admin_notification" gorm:"not null;default:false;index"`
	IsRead              bool       `json:"is_read" gorm:"not null;default:false"`
	UserID              *uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	CreatedAt           time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt           time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (Notification) TableName() string {
	return "notifications"
}

const (
	NotificationTypeEventCreated = "event_created"
	NotificationTypeNewReview    = "new_review"
	NotificationTypeReviewReply  = "review_response"
)

// LifecycleMessage публикуется в Kafka после изменений мероприятий и отзывов
type LifecycleMessage struct {
	Type      string     `json:"type"` // event.created, event.updated, event.deleted, review.created
	EventID   uuid.UUID  `json:"event_id"`
	ReviewID  *uuid.UUID `json:"review_id,omitempty"`
	Username  string     `json:"username"`
	Rating    int        `json:"rating,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

const (
	MessageEventCreated  = "event.created"
	MessageEventUpdated  = "event.updated"
	MessageEventDeleted  = "event.deleted"
	MessageReviewCreated = "review.created"
)
