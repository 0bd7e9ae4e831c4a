package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"course-media/internal/domain/entities"
	"course-media/internal/domain/repositories"
)

type renditionRepository struct {
	db *gorm.DB
}

func NewRenditionRepository(db *gorm.DB) repositories.RenditionRepository {
	return &renditionRepository{db: db}
}

func (r *renditionRepository) Upsert(ctx context.Context, rendition *entities.Rendition) error {
	if rendition.ID == uuid.Nil {
		rendition.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "course_id"}, {Name: "tier"}},
		UpdateAll: true,
	}).Create(rendition).Error
}

func (r *renditionRepository) GetByCourseAndTier(ctx context.Context, courseID uuid.UUID, tier string) (*entities.Rendition, error) {
	var rendition entities.Rendition
	err := r.db.WithContext(ctx).
		First(&rendition, "course_id = ? AND tier = ?", courseID, tier).Error
	if err != nil {
		return nil, err
	}
	return &rendition, nil
}

// DeleteByCourse removes the rows and reports the file paths so the caller
// can reap the cached files.
func (r *renditionRepository) DeleteByCourse(ctx context.Context, courseID uuid.UUID) ([]string, error) {
	var paths []string
	if err := r.db.WithContext(ctx).Model(&entities.Rendition{}).
		Where("course_id = ?", courseID).
		Pluck("file_path", &paths).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Delete(&entities.Rendition{}, "course_id = ?", courseID).Error; err != nil {
		return paths, err
	}
	return paths, nil
}
