package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"course-media/internal/domain/entities"
	"course-media/internal/domain/repositories"
)

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) repositories.CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, course *entities.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Course, error) {
	var course entities.Course
	if err := r.db.WithContext(ctx).First(&course, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entities.Course{}, "id = ?", id).Error
}

func (r *courseRepository) ActiveChecksums(ctx context.Context) (map[string]bool, error) {
	var checksums []string
	if err := r.db.WithContext(ctx).Model(&entities.Course{}).
		Pluck("video_checksum", &checksums).Error; err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(checksums))
	for _, c := range checksums {
		set[c] = true
	}
	return set, nil
}
