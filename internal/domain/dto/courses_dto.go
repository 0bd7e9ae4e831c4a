package dto

import "time"

type CreateCourseRequest struct {
	Title              string `json:"title" form:"title"`
	ThumbnailTimestamp string `json:"thumbnail_timestamp" form:"thumbnail_timestamp"` // seconds or mm:ss, optional
}

type CourseResponse struct {
	ID              string    `json:"id"`
	MentorID        string    `json:"mentor_id"`
	Title           string    `json:"title"`
	DurationSeconds float64   `json:"duration_seconds"`
	DurationProbed  bool      `json:"duration_probed"`
	HasThumbnail    bool      `json:"has_thumbnail"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}
