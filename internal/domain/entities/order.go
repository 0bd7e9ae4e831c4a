package entities

import (
	"time"

	"github.com/google/uuid"
)

// Order links a learner to a course. A completed order is an enrollment.
type Order struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;index:idx_orders_user_course"`
	CourseID  uuid.UUID `gorm:"type:uuid;index:idx_orders_user_course"`
	Status    string    `gorm:"type:varchar(20)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
