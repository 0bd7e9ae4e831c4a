package db

import (
	"course-media/internal/domain/entities"

	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entities.Course{},
		&entities.Order{},
		&entities.Rendition{},
	)
}
