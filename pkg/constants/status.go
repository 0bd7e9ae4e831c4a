package constants

const (
	StatusOK        = "ok"
	StatusCompleted = "completed"
	StatusPending   = "pending"
	StatusReady     = "ready"
)

// Access roles returned by the access gate.
const (
	RoleOwner    = "owner"
	RoleEnrolled = "enrolled"
	RoleNone     = "none"
)

// Quality tiers.
const (
	TierLow    = "low"
	TierMedium = "medium"
	TierHigh   = "high"
)

// Upload kinds.
const (
	KindVideo     = "video"
	KindImage     = "image"
	KindThumbnail = "thumbnail"
)
