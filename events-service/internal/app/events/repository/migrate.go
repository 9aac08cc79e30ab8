package repository

import (
	"errors"
	"fmt"

	"eventhub/events-service/internal/app/events/entity"

	"gorm.io/gorm"
)

// ErrUsersTableMissing - таблица users создается Auth Service, без нее FK не построить
var ErrUsersTableMissing = errors.New("users table is missing: start auth-service first")

// Migrate создает таблицы сервиса вместе с внешними ключами ON DELETE CASCADE
func Migrate(db *gorm.DB) error {
	if !db.Migrator().HasTable(&entity.User{}) {
		return ErrUsersTableMissing
	}

	err := db.AutoMigrate(
		&entity.Event{},
		&entity.Membership{},
		&entity.Review{},
		&entity.EventAnalytics{},
		&entity.Notification{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
