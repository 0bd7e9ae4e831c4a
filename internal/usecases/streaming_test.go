package usecases

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-media/internal/domain/entities"
	"course-media/internal/infrastructure/processor"
	"course-media/pkg/constants"
	apperrors "course-media/pkg/errors"
)

const testChecksum = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

type streamFixture struct {
	service    StreamService
	courses    *fakeCourseRepo
	renditions *fakeRenditionRepo
	storage    *fakeStorage
	course     *entities.Course
}

func newStreamFixture(t *testing.T) *streamFixture {
	f := &streamFixture{
		courses:    newFakeCourseRepo(),
		renditions: &fakeRenditionRepo{},
		storage:    newFakeStorage(t),
	}

	// Transcoder binary does not exist, so only cache hits succeed.
	transcoder := processor.NewTranscoder(
		filepath.Join(f.storage.root, "no-such-ffmpeg"), nil, zerolog.Nop())
	f.service = NewStreamService(f.courses, f.renditions, f.storage, transcoder, zerolog.Nop())

	videoPath, err := f.storage.Save(strings.NewReader("original video bytes"), FolderVideos, "v.mp4")
	require.NoError(t, err)

	f.course = &entities.Course{
		MentorID:      uuid.New(),
		Title:         "Streaming 101",
		VideoPath:     videoPath,
		VideoMimeType: "video/mp4",
		VideoChecksum: testChecksum,
	}
	require.NoError(t, f.courses.Create(context.Background(), f.course))
	return f
}

func (f *streamFixture) cacheRendition(t *testing.T, tier string) string {
	t.Helper()
	name := processor.RenditionFileName(testChecksum[:12], tier)
	path, err := f.storage.Save(strings.NewReader("compressed bytes"), FolderRenditions, name)
	require.NoError(t, err)
	return path
}

func TestResolveOriginal(t *testing.T) {
	f := newStreamFixture(t)

	source, err := f.service.ResolveOriginal(context.Background(), f.course.ID)
	require.NoError(t, err)

	assert.Equal(t, f.course.VideoPath, source.LocalPath)
	assert.Equal(t, "video/mp4", source.MimeType)
	assert.Equal(t, int64(len("original video bytes")), source.SizeBytes)
	assert.False(t, source.Fallback)
}

func TestResolveOriginalMissingCourse(t *testing.T) {
	f := newStreamFixture(t)

	_, err := f.service.ResolveOriginal(context.Background(), uuid.New())

	var mediaErr *apperrors.MediaError
	require.ErrorAs(t, err, &mediaErr)
	assert.Equal(t, "not_found", mediaErr.Code)
}

func TestResolveRendition(t *testing.T) {
	t.Run("serves cached rendition", func(t *testing.T) {
		f := newStreamFixture(t)
		cached := f.cacheRendition(t, constants.TierLow)

		source, err := f.service.ResolveRendition(context.Background(), f.course.ID, constants.TierLow)
		require.NoError(t, err)

		assert.Equal(t, cached, source.LocalPath)
		assert.False(t, source.Fallback)
		// Cache hit: no new rendition row.
		assert.Empty(t, f.renditions.upserted)
	})

	t.Run("falls back to original when transcoding fails", func(t *testing.T) {
		f := newStreamFixture(t)

		source, err := f.service.ResolveRendition(context.Background(), f.course.ID, constants.TierHigh)
		require.NoError(t, err)

		assert.Equal(t, f.course.VideoPath, source.LocalPath)
		assert.True(t, source.Fallback)
	})

	t.Run("rejects unknown tier", func(t *testing.T) {
		f := newStreamFixture(t)

		_, err := f.service.ResolveRendition(context.Background(), f.course.ID, "4k")

		var mediaErr *apperrors.MediaError
		require.ErrorAs(t, err, &mediaErr)
		assert.Equal(t, "validation_failed", mediaErr.Code)
	})
}

func TestResolvePlaylist(t *testing.T) {
	f := newStreamFixture(t)
	for _, tier := range []string{constants.TierLow, constants.TierMedium, constants.TierHigh} {
		f.cacheRendition(t, tier)
	}

	playlist, err := f.service.ResolvePlaylist(context.Background(), f.course.ID)
	require.NoError(t, err)

	content, err := os.ReadFile(playlist)
	require.NoError(t, err)
	assert.Contains(t, string(content), "#EXTM3U")
	assert.Contains(t, string(content), processor.RenditionFileName(testChecksum[:12], constants.TierLow))
	assert.Contains(t, string(content), processor.RenditionFileName(testChecksum[:12], constants.TierHigh))
}

func TestResolveThumbnail(t *testing.T) {
	f := newStreamFixture(t)

	t.Run("missing thumbnail is not found", func(t *testing.T) {
		_, err := f.service.ResolveThumbnail(context.Background(), f.course.ID)
		var mediaErr *apperrors.MediaError
		require.ErrorAs(t, err, &mediaErr)
		assert.Equal(t, "not_found", mediaErr.Code)
	})

	t.Run("resolves existing thumbnail", func(t *testing.T) {
		path, err := f.storage.Save(strings.NewReader("jpeg"), FolderThumbnails, "v.jpg")
		require.NoError(t, err)
		f.course.ThumbnailPath = path

		got, err := f.service.ResolveThumbnail(context.Background(), f.course.ID)
		require.NoError(t, err)
		assert.Equal(t, path, got)
	})
}

func TestRenditions(t *testing.T) {
	f := newStreamFixture(t)

	t.Run("empty before any transcode", func(t *testing.T) {
		got, err := f.service.Renditions(context.Background(), f.course.ID)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("lists recorded tiers in preset order", func(t *testing.T) {
		for _, tier := range []string{constants.TierHigh, constants.TierLow} {
			require.NoError(t, f.renditions.Upsert(context.Background(), &entities.Rendition{
				CourseID: f.course.ID,
				Tier:     tier,
			}))
		}

		got, err := f.service.Renditions(context.Background(), f.course.ID)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, constants.TierLow, got[0].Tier)
		assert.Equal(t, constants.TierHigh, got[1].Tier)
	})
}

func TestRenditionBaseName(t *testing.T) {
	course := &entities.Course{ID: uuid.New(), VideoChecksum: testChecksum}
	assert.Equal(t, testChecksum[:12], renditionBaseName(course))

	// No checksum recorded: fall back to the course ID.
	bare := &entities.Course{ID: uuid.New()}
	assert.Equal(t, bare.ID.String(), renditionBaseName(bare))
}
