package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"course-media/internal/domain/dto"
	"course-media/internal/domain/repositories"
	"course-media/pkg/constants"
	apperrors "course-media/pkg/errors"
)

// AccessService is the gate in front of every stream/thumbnail/info request.
// Decisions are computed fresh per request; nothing is cached.
type AccessService interface {
	CanAccess(ctx context.Context, userID, courseID uuid.UUID) (dto.AccessDecision, error)
}

type accessService struct {
	courses repositories.CourseRepository
	orders  repositories.OrderRepository
}

func NewAccessService(courses repositories.CourseRepository, orders repositories.OrderRepository) AccessService {
	return &accessService{courses: courses, orders: orders}
}

// CanAccess resolves the requester's role: the creating mentor owns the
// course; a completed order makes a learner enrolled; everyone else gets
// nothing. A uuid.Nil user is anonymous and can only ever reach previews.
func (s *accessService) CanAccess(ctx context.Context, userID, courseID uuid.UUID) (dto.AccessDecision, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AccessDecision{}, apperrors.ErrNotFound("course", err)
		}
		return dto.AccessDecision{}, apperrors.ErrInternal(err)
	}

	if userID != uuid.Nil && course.MentorID == userID {
		return dto.AccessDecision{Allowed: true, Role: constants.RoleOwner}, nil
	}

	if userID != uuid.Nil {
		enrolled, err := s.orders.HasCompletedOrder(ctx, userID, courseID)
		if err != nil {
			return dto.AccessDecision{}, apperrors.ErrInternal(err)
		}
		if enrolled {
			return dto.AccessDecision{Allowed: true, Role: constants.RoleEnrolled}, nil
		}
	}

	return dto.AccessDecision{Allowed: false, Role: constants.RoleNone}, nil
}
