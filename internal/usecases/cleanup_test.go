package usecases

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-media/internal/domain/entities"
)

func TestRenditionFragment(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		wantFrag string
		wantOK   bool
	}{
		{"tiered rendition", "0123456789ab_low.mp4", "0123456789ab", true},
		{"high tier", "0123456789ab_high.mp4", "0123456789ab", true},
		{"master playlist", "0123456789ab.m3u8", "0123456789ab", true},
		{"fragment too short", "abc_low.mp4", "", false},
		{"fragment too long", "0123456789abcdef_low.mp4", "", false},
		{"unrelated file", "readme.txt", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frag, ok := renditionFragment(tt.fileName)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantFrag, frag)
		})
	}
}

func TestCleanupOrphanRenditions(t *testing.T) {
	courses := newFakeCourseRepo()
	course := &entities.Course{VideoChecksum: testChecksum}
	require.NoError(t, courses.Create(context.Background(), course))

	dir := t.TempDir()
	live := filepath.Join(dir, testChecksum[:12]+"_low.mp4")
	livePlaylist := filepath.Join(dir, testChecksum[:12]+".m3u8")
	orphan := filepath.Join(dir, "feedfacecafe_low.mp4")
	orphanPlaylist := filepath.Join(dir, "feedfacecafe.m3u8")
	unrelated := filepath.Join(dir, "notes.txt")
	for _, path := range []string{live, livePlaylist, orphan, orphanPlaylist, unrelated} {
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}

	service := NewCleanupService(courses, t.TempDir(), dir, zerolog.Nop())
	require.NoError(t, service.CleanupOrphanRenditions(context.Background()))

	assert.FileExists(t, live)
	assert.FileExists(t, livePlaylist)
	assert.NoFileExists(t, orphan)
	assert.NoFileExists(t, orphanPlaylist)
	assert.FileExists(t, unrelated)
}

func TestCleanupOrphanRenditionsMissingDir(t *testing.T) {
	service := NewCleanupService(newFakeCourseRepo(), t.TempDir(),
		filepath.Join(t.TempDir(), "does-not-exist"), zerolog.Nop())
	assert.NoError(t, service.CleanupOrphanRenditions(context.Background()))
}

func TestCleanupOldTempFiles(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "stale.part")
	fresh := filepath.Join(dir, "fresh.part")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(fresh, []byte("x"), 0o644))

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	service := NewCleanupService(newFakeCourseRepo(), dir, t.TempDir(), zerolog.Nop())
	require.NoError(t, service.CleanupOldTempFiles(24*time.Hour))

	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
}
