package processor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
)

var timestampPattern = regexp.MustCompile(`^(\d+(\.\d+)?|\d{1,2}:\d{2}(:\d{2})?)$`)

type ThumbnailOptions struct {
	Timestamp string // seconds ("3.5") or clock ("mm:ss")
	Width     int
	Height    int
	Quality   int // JPEG quality 1-100
}

type ThumbnailExtractor interface {
	Extract(ctx context.Context, srcPath, dstPath string, opts ThumbnailOptions) error
}

// FFmpegThumbnailer pulls a single frame with ffmpeg, then normalizes it to
// the exact target size as JPEG.
type FFmpegThumbnailer struct {
	Bin     string
	Timeout time.Duration
	Logger  zerolog.Logger
}

func NewFFmpegThumbnailer(bin string, logger zerolog.Logger) *FFmpegThumbnailer {
	if bin == "" {
		bin = "ffmpeg"
	}
	return &FFmpegThumbnailer{Bin: bin, Timeout: 60 * time.Second, Logger: logger}
}

func (t *FFmpegThumbnailer) Extract(ctx context.Context, srcPath, dstPath string, opts ThumbnailOptions) error {
	if opts.Timestamp == "" {
		opts.Timestamp = "00:03"
	}
	if !timestampPattern.MatchString(opts.Timestamp) {
		return fmt.Errorf("invalid thumbnail timestamp: %q", opts.Timestamp)
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 640, 360
	}
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = 85
	}

	ctx, cancel := context.WithTimeout(ctx, t.Timeout)
	defer cancel()

	frame := filepath.Join(os.TempDir(), filepath.Base(dstPath)+".frame.png")
	defer os.Remove(frame)

	cmd := exec.CommandContext(ctx, t.Bin,
		"-ss", opts.Timestamp,
		"-i", srcPath,
		"-vframes", "1",
		"-y",
		frame,
	)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("frame extraction failed: %w", err)
	}

	img, err := imaging.Open(frame)
	if err != nil {
		return fmt.Errorf("cannot open extracted frame: %w", err)
	}

	// Fill crops to the exact target size so every thumbnail is uniform.
	thumb := imaging.Fill(img, opts.Width, opts.Height, imaging.Center, imaging.Lanczos)
	if err := imaging.Save(thumb, dstPath, imaging.JPEGQuality(opts.Quality)); err != nil {
		return fmt.Errorf("cannot save thumbnail: %w", err)
	}

	t.Logger.Debug().Str("src", srcPath).Str("dst", dstPath).Msg("thumbnail extracted")
	return nil
}
