package entities

import (
	"time"

	"github.com/google/uuid"
)

// Rendition records a transcoded, quality-specific copy of a course video.
// The disk file is the cache; the row only describes it.
type Rendition struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourseID         uuid.UUID `gorm:"type:uuid;index:idx_renditions_course_tier,unique"`
	Tier             string    `gorm:"type:varchar(10);index:idx_renditions_course_tier,unique"`
	FilePath         string    `gorm:"type:varchar(500);not null"`
	Width            int
	Height           int
	VideoBitrateKbps int
	AudioBitrateKbps int
	FPS              int
	CreatedAt        time.Time
}
