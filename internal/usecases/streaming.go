package usecases

import (
	"context"
	"errors"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"course-media/internal/domain/dto"
	"course-media/internal/domain/entities"
	"course-media/internal/domain/repositories"
	"course-media/internal/infrastructure/processor"
	apperrors "course-media/pkg/errors"
)

// StreamSource is a resolved, locally readable media file ready for
// byte-range streaming.
type StreamSource struct {
	LocalPath string
	MimeType  string
	SizeBytes int64
	// Fallback marks a rendition request answered with the original file
	// because transcoding failed.
	Fallback bool
}

type StreamService interface {
	GetCourse(ctx context.Context, courseID uuid.UUID) (*entities.Course, error)
	ResolveOriginal(ctx context.Context, courseID uuid.UUID) (*StreamSource, error)
	ResolveRendition(ctx context.Context, courseID uuid.UUID, tier string) (*StreamSource, error)
	ResolvePlaylist(ctx context.Context, courseID uuid.UUID) (string, error)
	ResolveThumbnail(ctx context.Context, courseID uuid.UUID) (string, error)
	Renditions(ctx context.Context, courseID uuid.UUID) ([]dto.RenditionInfo, error)
}

type streamService struct {
	courses    repositories.CourseRepository
	renditions repositories.RenditionRepository
	storage    repositories.StorageStrategy
	transcoder *processor.Transcoder
	logger     zerolog.Logger
}

func NewStreamService(
	courses repositories.CourseRepository,
	renditions repositories.RenditionRepository,
	storage repositories.StorageStrategy,
	transcoder *processor.Transcoder,
	logger zerolog.Logger,
) StreamService {
	return &streamService{
		courses:    courses,
		renditions: renditions,
		storage:    storage,
		transcoder: transcoder,
		logger:     logger,
	}
}

func (s *streamService) GetCourse(ctx context.Context, courseID uuid.UUID) (*entities.Course, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound("course", err)
		}
		return nil, apperrors.ErrInternal(err)
	}
	return course, nil
}

func (s *streamService) ResolveOriginal(ctx context.Context, courseID uuid.UUID) (*StreamSource, error) {
	course, err := s.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return s.sourceFromPath(course.VideoPath, course.VideoMimeType, false)
}

// ResolveRendition returns the cached rendition for (course, tier),
// transcoding it on first request. A failed transcode degrades to the
// original uncompressed file rather than failing the stream.
func (s *streamService) ResolveRendition(ctx context.Context, courseID uuid.UUID, tier string) (*StreamSource, error) {
	preset, err := processor.PresetFor(tier)
	if err != nil {
		return nil, apperrors.ErrValidation(err.Error())
	}

	course, err := s.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	srcPath, err := s.storage.Materialize(course.VideoPath)
	if err != nil {
		return nil, apperrors.ErrNotFound("video file", err)
	}

	cachePath := s.storage.Path(FolderRenditions,
		processor.RenditionFileName(renditionBaseName(course), tier))

	result, err := s.transcoder.Compress(ctx, srcPath, cachePath, tier)
	if err != nil {
		s.logger.Error().Err(err).
			Str("course", courseID.String()).
			Str("tier", tier).
			Msg("transcode failed, serving original file")
		return s.sourceFromPathFallback(course)
	}

	if !result.Cached {
		rendition := &entities.Rendition{
			CourseID:         courseID,
			Tier:             tier,
			FilePath:         result.Path,
			Width:            preset.Width,
			Height:           preset.Height,
			VideoBitrateKbps: preset.VideoBitrateKbps,
			AudioBitrateKbps: preset.AudioBitrateKbps,
			FPS:              preset.FPS,
		}
		if err := s.renditions.Upsert(ctx, rendition); err != nil {
			s.logger.Warn().Err(err).Msg("failed to record rendition")
		}
	}

	return s.sourceFromPath(result.Path, "video/mp4", false)
}

// ResolvePlaylist builds (or reuses) all tiers plus the HLS master playlist.
func (s *streamService) ResolvePlaylist(ctx context.Context, courseID uuid.UUID) (string, error) {
	course, err := s.GetCourse(ctx, courseID)
	if err != nil {
		return "", err
	}

	srcPath, err := s.storage.Materialize(course.VideoPath)
	if err != nil {
		return "", apperrors.ErrNotFound("video file", err)
	}

	base := renditionBaseName(course)
	dstDir := s.storage.Path(FolderRenditions, "")

	results, err := s.transcoder.CompressAllTiers(ctx, srcPath, dstDir, base)
	if err != nil {
		return "", apperrors.ErrTranscodeFailed(err)
	}

	for _, res := range results {
		rendition := &entities.Rendition{
			CourseID:         courseID,
			Tier:             res.Preset.Tier,
			FilePath:         res.Path,
			Width:            res.Preset.Width,
			Height:           res.Preset.Height,
			VideoBitrateKbps: res.Preset.VideoBitrateKbps,
			AudioBitrateKbps: res.Preset.AudioBitrateKbps,
			FPS:              res.Preset.FPS,
		}
		if err := s.renditions.Upsert(ctx, rendition); err != nil {
			s.logger.Warn().Err(err).Msg("failed to record rendition")
		}
	}

	playlist, err := processor.WriteMasterPlaylist(dstDir, base, results)
	if err != nil {
		return "", apperrors.ErrInternal(err)
	}
	return playlist, nil
}

func (s *streamService) ResolveThumbnail(ctx context.Context, courseID uuid.UUID) (string, error) {
	course, err := s.GetCourse(ctx, courseID)
	if err != nil {
		return "", err
	}
	if course.ThumbnailPath == "" {
		return "", apperrors.ErrNotFound("thumbnail", nil)
	}
	local, err := s.storage.Materialize(course.ThumbnailPath)
	if err != nil {
		return "", apperrors.ErrNotFound("thumbnail file", err)
	}
	return local, nil
}

// Renditions reports the tiers that already have a transcoded copy on disk.
func (s *streamService) Renditions(ctx context.Context, courseID uuid.UUID) ([]dto.RenditionInfo, error) {
	out := make([]dto.RenditionInfo, 0, len(processor.Presets()))
	for _, preset := range processor.Presets() {
		r, err := s.renditions.GetByCourseAndTier(ctx, courseID, preset.Tier)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, apperrors.ErrInternal(err)
		}
		out = append(out, dto.RenditionInfo{
			Tier:             r.Tier,
			Width:            r.Width,
			Height:           r.Height,
			VideoBitrateKbps: r.VideoBitrateKbps,
			AudioBitrateKbps: r.AudioBitrateKbps,
			FPS:              r.FPS,
		})
	}
	return out, nil
}

func (s *streamService) sourceFromPath(path, mimeType string, fallback bool) (*StreamSource, error) {
	local, err := s.storage.Materialize(path)
	if err != nil {
		return nil, apperrors.ErrNotFound("video file", err)
	}
	info, err := os.Stat(local)
	if err != nil {
		return nil, apperrors.ErrNotFound("video file", err)
	}
	return &StreamSource{
		LocalPath: local,
		MimeType:  mimeType,
		SizeBytes: info.Size(),
		Fallback:  fallback,
	}, nil
}

func (s *streamService) sourceFromPathFallback(course *entities.Course) (*StreamSource, error) {
	return s.sourceFromPath(course.VideoPath, course.VideoMimeType, true)
}

// renditionBaseName keys cached renditions by source content: replacing the
// video changes the checksum and therefore the cache path.
func renditionBaseName(course *entities.Course) string {
	if len(course.VideoChecksum) >= 12 {
		return course.VideoChecksum[:12]
	}
	return course.ID.String()
}
