package file

import (
	"path/filepath"
	"strings"
)

func MimeTypeFromExtension(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".mp4":
		return "video/mp4"
	case ".avi":
		return "video/avi"
	case ".mov":
		return "video/mov"
	case ".wmv":
		return "video/wmv"
	case ".webm":
		return "video/webm"
	default:
		return "application/octet-stream"
	}
}
