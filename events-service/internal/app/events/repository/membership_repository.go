package repository

import (
	"context"
	"errors"

	"eventhub/events-service/internal/app/events/entity"
	"eventhub/pkg/metrics"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// uniqueViolation - SQLSTATE нарушения уникального индекса в PostgreSQL
const uniqueViolation = "23505"

type membershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

// Create добавляет пользователя в участники. Повторная регистрация возвращает ErrMembershipExists.
func (r *membershipRepository) Create(ctx context.Context, membership *entity.Membership) (err error) {
	defer observe(metrics.DbOpInsert, "user_events")(&err)

	if err = r.db.WithContext(ctx).Create(membership).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrMembershipExists
		}
		return err
	}
	return nil
}

func (r *membershipRepository) Delete(ctx context.Context, userID, eventID uuid.UUID) (err error) {
	defer observe(metrics.DbOpDelete, "user_events")(&err)

	result := r.db.WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Delete(&entity.Membership{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMembershipNotFound
	}
	return nil
}

func (r *membershipRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) (memberships []entity.Membership, err error) {
	defer observe(metrics.DbOpSelect, "user_events")(&err)

	memberships = make([]entity.Membership, 0)
	err = r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
