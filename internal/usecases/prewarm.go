package usecases

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"course-media/internal/domain/entities"
	"course-media/internal/domain/repositories"
	"course-media/internal/infrastructure/processor"
	"course-media/internal/infrastructure/queue"
)

// PrewarmService generates every quality tier in the background so the
// first viewer does not pay the transcode latency. It shares the lazy
// path's cache keys and lock, so a concurrent first-request and a pre-warm
// never race on the same target.
type PrewarmService struct {
	renditions repositories.RenditionRepository
	storage    repositories.StorageStrategy
	transcoder *processor.Transcoder
	logger     zerolog.Logger
}

func NewPrewarmService(
	renditions repositories.RenditionRepository,
	storage repositories.StorageStrategy,
	transcoder *processor.Transcoder,
	logger zerolog.Logger,
) *PrewarmService {
	return &PrewarmService{
		renditions: renditions,
		storage:    storage,
		transcoder: transcoder,
		logger:     logger,
	}
}

func (s *PrewarmService) Handle(ctx context.Context, job queue.Job) error {
	if job.Type != queue.JobPrewarmRenditions {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}

	courseID, err := uuid.Parse(job.CourseID)
	if err != nil {
		return fmt.Errorf("invalid course id in job: %w", err)
	}

	srcPath, err := s.storage.Materialize(job.SourcePath)
	if err != nil {
		return fmt.Errorf("source video unavailable: %w", err)
	}

	base := job.Checksum
	if len(base) >= 12 {
		base = base[:12]
	}
	dstDir := s.storage.Path(FolderRenditions, "")

	results, err := s.transcoder.CompressAllTiers(ctx, srcPath, dstDir, base)
	if err != nil {
		return fmt.Errorf("pre-warm transcode: %w", err)
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
			s.logger.Warn().Err(err).Str("tier", res.Preset.Tier).
				Msg("failed to record pre-warmed rendition")
		}
	}

	if _, err := processor.WriteMasterPlaylist(dstDir, base, results); err != nil {
		s.logger.Warn().Err(err).Msg("failed to write master playlist")
	}

	return nil
}
