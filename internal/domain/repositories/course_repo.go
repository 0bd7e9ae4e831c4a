package repositories

import (
	"context"

	"github.com/google/uuid"

	"course-media/internal/domain/entities"
)

type CourseRepository interface {
	Create(ctx context.Context, course *entities.Course) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Course, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// ActiveChecksums returns the set of video checksums still referenced by
	// live courses; renditions outside this set are orphans.
	ActiveChecksums(ctx context.Context) (map[string]bool, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *entities.Order) error
	HasCompletedOrder(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
}

type RenditionRepository interface {
	Upsert(ctx context.Context, rendition *entities.Rendition) error
	GetByCourseAndTier(ctx context.Context, courseID uuid.UUID, tier string) (*entities.Rendition, error)
	DeleteByCourse(ctx context.Context, courseID uuid.UUID) ([]string, error)
}
