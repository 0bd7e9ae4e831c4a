package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Course owns its uploaded media: deleting the course deletes the video,
// thumbnail and every cached rendition derived from it.
type Course struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	MentorID       uuid.UUID `gorm:"type:uuid;index;not null"`
	Title          string    `gorm:"type:varchar(255);not null"`
	VideoPath      string    `gorm:"type:varchar(500);not null"`
	VideoMimeType  string    `gorm:"type:varchar(50)"`
	VideoSizeBytes int64
	// VideoChecksum keys the rendition cache: replacing the source video
	// changes the checksum, so stale renditions are never resolved.
	VideoChecksum   string `gorm:"type:varchar(64);index"`
	DurationSeconds float64
	// DurationProbed is false when the prober degraded to the default
	// duration estimate; duration validation is skipped in that case.
	DurationProbed bool
	ThumbnailPath  string `gorm:"type:varchar(500)"`
	Status         string `gorm:"type:varchar(20)"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"` // soft delete
}

func (c *Course) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
