package usecases

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-media/internal/infrastructure/processor"
	"course-media/internal/infrastructure/queue"
	"course-media/pkg/constants"
)

func TestPrewarmHandle(t *testing.T) {
	storage := newFakeStorage(t)
	renditions := &fakeRenditionRepo{}
	transcoder := processor.NewTranscoder(
		filepath.Join(storage.root, "no-such-ffmpeg"), nil, zerolog.Nop())
	service := NewPrewarmService(renditions, storage, transcoder, zerolog.Nop())

	videoPath, err := storage.Save(strings.NewReader("video"), FolderVideos, "v.mp4")
	require.NoError(t, err)

	// Pre-seed every tier so the missing binary is never invoked.
	for _, tier := range []string{constants.TierLow, constants.TierMedium, constants.TierHigh} {
		name := processor.RenditionFileName(testChecksum[:12], tier)
		_, err := storage.Save(strings.NewReader("rendition"), FolderRenditions, name)
		require.NoError(t, err)
	}

	courseID := uuid.New()
	err = service.Handle(context.Background(), queue.Job{
		Type:       queue.JobPrewarmRenditions,
		CourseID:   courseID.String(),
		SourcePath: videoPath,
		Checksum:   testChecksum,
	})
	require.NoError(t, err)

	require.Len(t, renditions.upserted, 3)
	for _, r := range renditions.upserted {
		assert.Equal(t, courseID, r.CourseID)
	}
	assert.True(t, storage.Exists(storage.Path(FolderRenditions, testChecksum[:12]+".m3u8")))
}

func TestPrewarmHandleRejectsUnknownJob(t *testing.T) {
	storage := newFakeStorage(t)
	service := NewPrewarmService(&fakeRenditionRepo{}, storage,
		processor.NewTranscoder("ffmpeg", nil, zerolog.Nop()), zerolog.Nop())

	err := service.Handle(context.Background(), queue.Job{Type: "resize_avatar"})
	assert.ErrorContains(t, err, "unknown job type")
}

func TestPrewarmHandleRejectsBadCourseID(t *testing.T) {
	storage := newFakeStorage(t)
	service := NewPrewarmService(&fakeRenditionRepo{}, storage,
		processor.NewTranscoder("ffmpeg", nil, zerolog.Nop()), zerolog.Nop())

	err := service.Handle(context.Background(), queue.Job{
		Type:     queue.JobPrewarmRenditions,
		CourseID: "not-a-uuid",
	})
	assert.ErrorContains(t, err, "invalid course id")
}
