package dto

// AccessDecision is computed per request, never persisted.
type AccessDecision struct {
	Allowed bool   `json:"allowed"`
	Role    string `json:"role"` // owner | enrolled | none
}

type VideoInfoResponse struct {
	Title           string  `json:"title"`
	DurationSeconds float64 `json:"duration_seconds"`
	HasThumbnail    bool    `json:"has_thumbnail"`
	CanAccess       bool    `json:"can_access"`
	Role            string  `json:"role"`
	// Renditions lists the quality tiers already transcoded for this course.
	Renditions []RenditionInfo `json:"renditions"`
}

type RenditionInfo struct {
	Tier             string `json:"tier"`
	Width            int    `json:"width"`
	Height           int    `json:"height"`
	VideoBitrateKbps int    `json:"video_bitrate_kbps"`
	AudioBitrateKbps int    `json:"audio_bitrate_kbps"`
	FPS              int    `json:"fps"`
}
