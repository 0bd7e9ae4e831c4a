package processor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"course-media/pkg/constants"
)

// QualityPreset is pure configuration: resolution, bitrates and frame rate
// for one tier. Presets are fixed at process start and never mutated.
type QualityPreset struct {
	Tier             string
	Width            int
	Height           int
	VideoBitrateKbps int
	AudioBitrateKbps int
	FPS              int
}

// BandwidthBits is the total stream bandwidth advertised in HLS manifests.
func (p QualityPreset) BandwidthBits() int {
	return (p.VideoBitrateKbps + p.AudioBitrateKbps) * 1000
}

func (p QualityPreset) Resolution() string {
	return fmt.Sprintf("%dx%d", p.Width, p.Height)
}

var presets = map[string]QualityPreset{
	constants.TierLow:    {Tier: constants.TierLow, Width: 640, Height: 360, VideoBitrateKbps: 500, AudioBitrateKbps: 64, FPS: 24},
	constants.TierMedium: {Tier: constants.TierMedium, Width: 1280, Height: 720, VideoBitrateKbps: 1500, AudioBitrateKbps: 128, FPS: 30},
	constants.TierHigh:   {Tier: constants.TierHigh, Width: 1920, Height: 1080, VideoBitrateKbps: 3000, AudioBitrateKbps: 192, FPS: 30},
}

// tierOrder fixes low→high iteration for batch transcodes and manifests.
var tierOrder = []string{constants.TierLow, constants.TierMedium, constants.TierHigh}

// PresetFor resolves a tier name; an unknown tier is a caller bug, not a
// degradable condition.
func PresetFor(tier string) (QualityPreset, error) {
	p, ok := presets[tier]
	if !ok {
		return QualityPreset{}, fmt.Errorf("unknown quality tier: %q", tier)
	}
	return p, nil
}

func Presets() []QualityPreset {
	out := make([]QualityPreset, 0, len(tierOrder))
	for _, tier := range tierOrder {
		out = append(out, presets[tier])
	}
	return out
}

// RenditionResult describes a finished (or cache-hit) rendition.
type RenditionResult struct {
	Path   string
	Preset QualityPreset
	Cached bool
}

// TranscodeLock serializes first-transcodes for the same target across
// processes. Acquire returns false when another holder is active.
type TranscodeLock interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// Transcoder runs ffmpeg to produce quality-tiered renditions. Concurrent
// first-requests for the same target collapse onto a single run: singleflight
// in-process, TranscodeLock across processes.
type Transcoder struct {
	Bin    string
	Logger zerolog.Logger

	lock  TranscodeLock
	group singleflight.Group
}

func NewTranscoder(bin string, lock TranscodeLock, logger zerolog.Logger) *Transcoder {
	if bin == "" {
		bin = "ffmpeg"
	}
	return &Transcoder{Bin: bin, lock: lock, Logger: logger}
}

// Compress produces dstPath from srcPath at the given tier. If dstPath
// already exists the existing file is served as-is and ffmpeg is not run.
func (t *Transcoder) Compress(ctx context.Context, srcPath, dstPath, tier string) (*RenditionResult, error) {
	preset, err := PresetFor(tier)
	if err != nil {
		return nil, err
	}

	if fileExists(dstPath) {
		return &RenditionResult{Path: dstPath, Preset: preset, Cached: true}, nil
	}

	v, err, shared := t.group.Do(dstPath, func() (interface{}, error) {
		return t.compressLocked(ctx, srcPath, dstPath, preset)
	})
	if err != nil {
		return nil, err
	}

	result := v.(*RenditionResult)
	if shared {
		// Waiters on the in-flight transcode get a cache-hit result.
		shared := *result
		shared.Cached = true
		return &shared, nil
	}
	return result, nil
}

func (t *Transcoder) compressLocked(ctx context.Context, srcPath, dstPath string, preset QualityPreset) (*RenditionResult, error) {
	timeout := transcodeTimeout(srcPath)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if t.lock != nil {
		ok, err := t.lock.Acquire(ctx, dstPath, timeout)
		if err != nil {
			t.Logger.Warn().Err(err).Msg("transcode lock unavailable, proceeding unlocked")
		} else if !ok {
			// Another process is transcoding the same target: wait for it.
			if err := t.waitForFile(ctx, dstPath); err != nil {
				return nil, err
			}
			return &RenditionResult{Path: dstPath, Preset: preset, Cached: true}, nil
		} else {
			defer func() { _ = t.lock.Release(context.Background(), dstPath) }()
		}
	}

	// Re-check after acquiring the lock: a pre-warm may have finished.
	if fileExists(dstPath) {
		return &RenditionResult{Path: dstPath, Preset: preset, Cached: true}, nil
	}

	tmpOut := dstPath + ".tmp"
	defer os.Remove(tmpOut)

	args := t.buildArgs(srcPath, tmpOut, preset)
	start := time.Now()

	cmd := exec.CommandContext(ctx, t.Bin, args...) // #nosec G204
	if out, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("transcode timed out after %s", timeout)
		}
		return nil, fmt.Errorf("ffmpeg failed: %w: %s", err, truncate(string(out), 500))
	}

	// Atomic publish: readers never observe a half-written rendition.
	if err := os.Rename(tmpOut, dstPath); err != nil {
		return nil, fmt.Errorf("cannot publish rendition: %w", err)
	}

	t.Logger.Info().
		Str("tier", preset.Tier).
		Str("dst", dstPath).
		Dur("took", time.Since(start)).
		Msg("rendition transcoded")

	return &RenditionResult{Path: dstPath, Preset: preset}, nil
}

// buildArgs assembles the ffmpeg invocation: CRF with a bitrate ceiling so
// output never exceeds the tier target, resampled video/audio, and the moov
// atom moved up front for progressive playback.
func (t *Transcoder) buildArgs(srcPath, dstPath string, preset QualityPreset) []string {
	return []string{
		"-i", srcPath,
		"-vf", fmt.Sprintf("scale=%d:%d", preset.Width, preset.Height),
		"-r", fmt.Sprintf("%d", preset.FPS),
		"-c:v", "libx264",
		"-crf", "23",
		"-maxrate", fmt.Sprintf("%dk", preset.VideoBitrateKbps),
		"-bufsize", fmt.Sprintf("%dk", preset.VideoBitrateKbps*2),
		"-c:a", "aac",
		"-b:a", fmt.Sprintf("%dk", preset.AudioBitrateKbps),
		"-movflags", "+faststart",
		"-y",
		dstPath,
	}
}

func (t *Transcoder) waitForFile(ctx context.Context, path string) error {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("gave up waiting for concurrent transcode of %s: %w", path, ctx.Err())
		case <-ticker.C:
			if fileExists(path) {
				return nil
			}
		}
	}
}

// transcodeTimeout scales with source size: 5 min baseline + 1 min/100MB,
// capped at 30 min. A hung ffmpeg never holds a request open forever.
func transcodeTimeout(srcPath string) time.Duration {
	timeout := 5 * time.Minute
	if info, err := os.Stat(srcPath); err == nil {
		extra := time.Duration(info.Size()/(100*1024*1024)) * time.Minute
		timeout += extra
	}
	if timeout > 30*time.Minute {
		timeout = 30 * time.Minute
	}
	return timeout
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
