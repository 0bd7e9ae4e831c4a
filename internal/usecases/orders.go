package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"course-media/internal/domain/dto"
	"course-media/internal/domain/entities"
	"course-media/internal/domain/repositories"
	"course-media/pkg/constants"
	apperrors "course-media/pkg/errors"
)

// OrderService records enrollments. Payment processing itself lives outside
// this service; an order arriving here is already paid.
type OrderService interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, req *dto.CreateOrderRequest) (*dto.OrderResponse, error)
}

type orderService struct {
	orders  repositories.OrderRepository
	courses repositories.CourseRepository
}

func NewOrderService(orders repositories.OrderRepository, courses repositories.CourseRepository) OrderService {
	return &orderService{orders: orders, courses: courses}
}

func (s *orderService) CreateOrder(ctx context.Context, userID uuid.UUID, req *dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		return nil, apperrors.ErrValidation("invalid course_id")
	}

	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound("course", err)
		}
		return nil, apperrors.ErrInternal(err)
	}

	order := &entities.Order{
		UserID:   userID,
		CourseID: courseID,
		Status:   constants.StatusCompleted,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, apperrors.ErrInternal(err)
	}

	return &dto.OrderResponse{
		ID:        order.ID.String(),
		UserID:    order.UserID.String(),
		CourseID:  order.CourseID.String(),
		Status:    order.Status,
		CreatedAt: order.CreatedAt,
	}, nil
}
