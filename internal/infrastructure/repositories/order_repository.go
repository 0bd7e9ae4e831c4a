package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"course-media/internal/domain/entities"
	"course-media/internal/domain/repositories"
	"course-media/pkg/constants"
)

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repositories.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *entities.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(order).Error
}

// HasCompletedOrder is the enrollment check: one indexed lookup per request.
func (r *orderRepository) HasCompletedOrder(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Order{}).
		Where("user_id = ? AND course_id = ? AND status = ?", userID, courseID, constants.StatusCompleted).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
