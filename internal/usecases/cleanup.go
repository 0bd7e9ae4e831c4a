package usecases

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"course-media/internal/domain/repositories"
)

// CleanupService reaps two kinds of garbage: stale temp uploads and
// rendition files whose source checksum no longer matches any live course
// (left behind when a video is replaced or a course deleted).
type CleanupService interface {
	CleanupOldTempFiles(maxAge time.Duration) error
	CleanupOrphanRenditions(ctx context.Context) error
}

type cleanupService struct {
	courses       repositories.CourseRepository
	tempDir       string
	renditionsDir string
	logger        zerolog.Logger
}

func NewCleanupService(courses repositories.CourseRepository, tempDir, renditionsDir string, logger zerolog.Logger) CleanupService {
	return &cleanupService{
		courses:       courses,
		tempDir:       tempDir,
		renditionsDir: renditionsDir,
		logger:        logger,
	}
}

func (s *cleanupService) CleanupOldTempFiles(maxAge time.Duration) error {
	entries, err := os.ReadDir(s.tempDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	now := time.Now()
	for _, entry := range entries {
		path := filepath.Join(s.tempDir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) > maxAge {
			if err := os.RemoveAll(path); err != nil {
				s.logger.Warn().Err(err).Str("path", path).Msg("failed to remove stale temp file")
				continue
			}
			s.logger.Info().Str("path", path).Msg("removed stale temp file")
		}
	}
	return nil
}

func (s *cleanupService) CleanupOrphanRenditions(ctx context.Context) error {
	active, err := s.courses.ActiveChecksums(ctx)
	if err != nil {
		return err
	}

	// Index active checksums by the 12-char fragment used in cache names.
	fragments := make(map[string]bool, len(active))
	for checksum := range active {
		if len(checksum) >= 12 {
			fragments[checksum[:12]] = true
		}
	}

	entries, err := os.ReadDir(s.renditionsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		frag, ok := renditionFragment(name)
		if !ok || fragments[frag] {
			continue
		}
		path := filepath.Join(s.renditionsDir, name)
		if err := os.Remove(path); err != nil {
			s.logger.Warn().Err(err).Str("path", path).Msg("failed to remove orphan rendition")
			continue
		}
		s.logger.Info().Str("path", path).Msg("removed orphan rendition")
	}
	return nil
}

// renditionFragment recovers the checksum fragment from a cache file name
// of the form "<fragment>_<tier>.mp4" or "<fragment>.m3u8".
func renditionFragment(name string) (string, bool) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if idx := strings.IndexByte(base, '_'); idx > 0 {
		base = base[:idx]
	}
	if len(base) != 12 {
		return "", false
	}
	return base, true
}
