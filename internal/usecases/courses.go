package usecases

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"course-media/internal/domain/dto"
	"course-media/internal/domain/entities"
	"course-media/internal/domain/repositories"
	"course-media/internal/infrastructure/processor"
	"course-media/internal/infrastructure/queue"
	"course-media/internal/pkg/config"
	"course-media/pkg/constants"
	apperrors "course-media/pkg/errors"
	"course-media/pkg/file"
)

// Folder names inside the storage strategy.
const (
	FolderVideos     = "videos"
	FolderThumbnails = "thumbnails"
	FolderRenditions = "renditions"
)

var allowedMimeTypes = map[string][]string{
	constants.KindVideo:     {"video/mp4", "video/avi", "video/mov", "video/wmv", "video/webm"},
	constants.KindImage:     {"image/png", "image/jpeg", "image/gif", "image/webp"},
	constants.KindThumbnail: {"image/jpeg", "image/png"},
}

// Enqueuer hands background jobs to the transcode queue; nil disables
// rendition pre-warming.
type Enqueuer interface {
	Enqueue(ctx context.Context, job queue.Job) error
}

type CourseService interface {
	CreateCourse(ctx context.Context, mentorID uuid.UUID, req *dto.CreateCourseRequest, fileHeader *multipart.FileHeader) (*dto.CourseResponse, error)
	DeleteCourse(ctx context.Context, requesterID, courseID uuid.UUID) error
}

type courseService struct {
	courses     repositories.CourseRepository
	renditions  repositories.RenditionRepository
	storage     repositories.StorageStrategy
	prober      processor.Prober
	thumbnailer processor.ThumbnailExtractor
	enqueuer    Enqueuer
	uploadCfg   config.UploadConfig
	mediaCfg    config.MediaConfig
	logger      zerolog.Logger
}

func NewCourseService(
	courses repositories.CourseRepository,
	renditions repositories.RenditionRepository,
	storage repositories.StorageStrategy,
	prober processor.Prober,
	thumbnailer processor.ThumbnailExtractor,
	enqueuer Enqueuer,
	uploadCfg config.UploadConfig,
	mediaCfg config.MediaConfig,
	logger zerolog.Logger,
) CourseService {
	return &courseService{
		courses:     courses,
		renditions:  renditions,
		storage:     storage,
		prober:      prober,
		thumbnailer: thumbnailer,
		enqueuer:    enqueuer,
		uploadCfg:   uploadCfg,
		mediaCfg:    mediaCfg,
		logger:      logger,
	}
}

// ValidateUpload is the upload gate: MIME allow-list and size ceiling per
// kind, rejected with a message naming the violated constraint.
func ValidateUpload(kind string, fileHeader *multipart.FileHeader, limits config.UploadConfig) error {
	allowed, ok := allowedMimeTypes[kind]
	if !ok {
		return apperrors.ErrValidation(fmt.Sprintf("unknown upload kind: %s", kind))
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = file.MimeTypeFromExtension(fileHeader.Filename)
	}
	if !containsMime(allowed, mimeType) {
		return apperrors.ErrValidation(fmt.Sprintf(
			"unsupported file type %s, allowed types: %s", mimeType, strings.Join(allowed, ", ")))
	}

	var ceiling int64
	switch kind {
	case constants.KindVideo:
		ceiling = limits.MaxVideoSizeBytes
	case constants.KindImage:
		ceiling = limits.MaxImageSizeBytes
	case constants.KindThumbnail:
		ceiling = limits.MaxThumbnailSizeBytes
	}
	if fileHeader.Size > ceiling {
		return apperrors.ErrValidation(fmt.Sprintf(
			"file size %d exceeds the %d MB maximum for %s uploads",
			fileHeader.Size, ceiling/(1024*1024), kind))
	}

	return nil
}

func containsMime(allowed []string, mimeType string) bool {
	for _, m := range allowed {
		if m == mimeType {
			return true
		}
	}
	return false
}

func (s *courseService) CreateCourse(ctx context.Context, mentorID uuid.UUID, req *dto.CreateCourseRequest, fileHeader *multipart.FileHeader) (*dto.CourseResponse, error) {
	if req.Title == "" {
		return nil, apperrors.ErrValidation("title is required")
	}

	if err := ValidateUpload(constants.KindVideo, fileHeader, s.uploadCfg); err != nil {
		return nil, err
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	defer src.Close()

	storedName := file.UniqueName(fileHeader.Filename)
	storedPath, err := s.storage.Save(src, FolderVideos, storedName)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}

	localPath, err := s.storage.Materialize(storedPath)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}

	checksum, err := file.CalculateFileHash(localPath)
	if err != nil {
		_ = s.storage.Delete(storedPath)
		return nil, apperrors.ErrInternal(err)
	}

	probe := s.prober.Probe(ctx, localPath)
	if probe.Degraded {
		s.logger.Warn().
			Str("file", storedName).
			Str("reason", probe.DegradedReason).
			Msg("accepting upload with default duration estimate")
	}

	// Duration is only enforced against a genuine probe: a degraded result
	// must never cause a false rejection.
	if !probe.Degraded {
		gotMinutes := int(probe.DurationSeconds) / 60
		if gotMinutes > s.uploadCfg.MaxVideoMinutes {
			if err := s.storage.Delete(storedPath); err != nil {
				s.logger.Error().Err(err).Str("path", storedPath).
					Msg("failed to remove rejected upload")
			}
			return nil, apperrors.ErrDurationExceeded(s.uploadCfg.MaxVideoMinutes, gotMinutes)
		}
	}

	thumbnailPath := s.extractThumbnail(ctx, localPath, storedName, req.ThumbnailTimestamp)

	course := &entities.Course{
		MentorID:        mentorID,
		Title:           req.Title,
		VideoPath:       storedPath,
		VideoMimeType:   file.MimeTypeFromExtension(fileHeader.Filename),
		VideoSizeBytes:  fileHeader.Size,
		VideoChecksum:   checksum,
		DurationSeconds: probe.DurationSeconds,
		DurationProbed:  !probe.Degraded,
		ThumbnailPath:   thumbnailPath,
		Status:          constants.StatusReady,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		_ = s.storage.Delete(storedPath)
		return nil, apperrors.ErrInternal(err)
	}

	if s.enqueuer != nil {
		job := queue.Job{
			Type:       queue.JobPrewarmRenditions,
			CourseID:   course.ID.String(),
			SourcePath: storedPath,
			Checksum:   checksum,
		}
		if err := s.enqueuer.Enqueue(ctx, job); err != nil {
			// Pre-warming is best effort; the lazy path still transcodes
			// on first request.
			s.logger.Warn().Err(err).Str("course", course.ID.String()).
				Msg("failed to enqueue rendition pre-warm")
		}
	}

	return &dto.CourseResponse{
		ID:              course.ID.String(),
		MentorID:        course.MentorID.String(),
		Title:           course.Title,
		DurationSeconds: course.DurationSeconds,
		DurationProbed:  course.DurationProbed,
		HasThumbnail:    course.ThumbnailPath != "",
		Status:          course.Status,
		CreatedAt:       course.CreatedAt,
	}, nil
}

// extractThumbnail tolerates failure: a course without a thumbnail is better
// than a failed upload.
func (s *courseService) extractThumbnail(ctx context.Context, localPath, storedName, timestamp string) string {
	if timestamp == "" {
		timestamp = s.mediaCfg.ThumbnailTimestamp
	}

	base := strings.TrimSuffix(storedName, filepath.Ext(storedName))
	dst := s.storage.Path(FolderThumbnails, base+".jpg")

	err := s.thumbnailer.Extract(ctx, localPath, dst, processor.ThumbnailOptions{
		Timestamp: timestamp,
		Width:     s.mediaCfg.ThumbnailWidth,
		Height:    s.mediaCfg.ThumbnailHeight,
		Quality:   s.mediaCfg.ThumbnailQuality,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("video", localPath).
			Msg("thumbnail extraction failed, continuing without thumbnail")
		return ""
	}
	return dst
}

func (s *courseService) DeleteCourse(ctx context.Context, requesterID, courseID uuid.UUID) error {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound("course", err)
		}
		return apperrors.ErrInternal(err)
	}

	if course.MentorID != requesterID {
		return apperrors.ErrAccessDenied()
	}

	renditionPaths, err := s.renditions.DeleteByCourse(ctx, courseID)
	if err != nil {
		return apperrors.ErrInternal(err)
	}
	for _, p := range renditionPaths {
		if err := s.storage.Delete(p); err != nil {
			s.logger.Warn().Err(err).Str("path", p).Msg("failed to remove rendition file")
		}
	}

	if course.ThumbnailPath != "" {
		if err := s.storage.Delete(course.ThumbnailPath); err != nil {
			s.logger.Warn().Err(err).Str("path", course.ThumbnailPath).Msg("failed to remove thumbnail")
		}
	}
	if err := s.storage.Delete(course.VideoPath); err != nil {
		s.logger.Warn().Err(err).Str("path", course.VideoPath).Msg("failed to remove video")
	}

	if err := s.courses.Delete(ctx, courseID); err != nil {
		return apperrors.ErrInternal(err)
	}
	return nil
}
