package config

import (
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	Server   ServerConfig
	Upload   UploadConfig
	Media    MediaConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Port string
	Host string
}

type UploadConfig struct {
	TempDir       string
	VideosDir     string
	ThumbnailsDir string
	RenditionsDir string

	MaxVideoSizeBytes     int64
	MaxImageSizeBytes     int64
	MaxThumbnailSizeBytes int64
	MaxVideoMinutes       int
}

type MediaConfig struct {
	// Tool binaries are injected from here; nothing reads a global path.
	FFmpegBin  string
	FFprobeBin string

	ThumbnailTimestamp string // seconds or mm:ss
	ThumbnailWidth     int
	ThumbnailHeight    int
	ThumbnailQuality   int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Host string
	Port string
}

type StorageConfig struct {
	Driver   string // local | s3
	S3Bucket string
	S3Region string
}

type AuthConfig struct {
	JWTSecret string
}

func LoadConfig() *Config {
	root := getEnv("MEDIA_ROOT", "data")

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "3000"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Upload: UploadConfig{
			TempDir:               filepath.Join(root, getEnv("UPLOAD_TEMP_DIR", "tmp")),
			VideosDir:             filepath.Join(root, getEnv("UPLOAD_VIDEOS_DIR", "videos")),
			ThumbnailsDir:         filepath.Join(root, getEnv("UPLOAD_THUMBNAILS_DIR", "thumbnails")),
			RenditionsDir:         filepath.Join(root, getEnv("UPLOAD_RENDITIONS_DIR", "renditions")),
			MaxVideoSizeBytes:     getEnvAsInt64("UPLOAD_MAX_VIDEO_SIZE", 100*1024*1024),   // 100MB
			MaxImageSizeBytes:     getEnvAsInt64("UPLOAD_MAX_IMAGE_SIZE", 10*1024*1024),    // 10MB
			MaxThumbnailSizeBytes: getEnvAsInt64("UPLOAD_MAX_THUMBNAIL_SIZE", 5*1024*1024), // 5MB
			MaxVideoMinutes:       getEnvAsInt("UPLOAD_MAX_VIDEO_MINUTES", 5),
		},
		Media: MediaConfig{
			FFmpegBin:          getEnv("FFMPEG_BIN", "ffmpeg"),
			FFprobeBin:         getEnv("FFPROBE_BIN", "ffprobe"),
			ThumbnailTimestamp: getEnv("THUMBNAIL_TIMESTAMP", "00:03"),
			ThumbnailWidth:     getEnvAsInt("THUMBNAIL_WIDTH", 640),
			ThumbnailHeight:    getEnvAsInt("THUMBNAIL_HEIGHT", 360),
			ThumbnailQuality:   getEnvAsInt("THUMBNAIL_QUALITY", 85),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "course_media"),
		},
		Redis: RedisConfig{
			Host: getEnv("REDIS_HOST", "localhost"),
			Port: getEnv("REDIS_PORT", "6379"),
		},
		Storage: StorageConfig{
			Driver:   getEnv("STORAGE_DRIVER", "local"),
			S3Bucket: getEnv("S3_BUCKET", ""),
			S3Region: getEnv("S3_REGION", "eu-central-1"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "dev-secret"),
		},
	}

	return cfg
}

// EnsureDirs creates every media directory the pipeline writes into.
func (c *Config) EnsureDirs() error {
	dirs := []string{
		c.Upload.TempDir,
		c.Upload.VideosDir,
		c.Upload.ThumbnailsDir,
		c.Upload.RenditionsDir,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
