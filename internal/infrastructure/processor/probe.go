package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// DefaultDurationSeconds is assumed when probing fails. Accepting a course
// with a guessed duration beats blocking creation entirely.
const DefaultDurationSeconds = 300

// ProbeResult makes degradation explicit instead of hiding it in control
// flow: callers check Degraded before trusting DurationSeconds.
type ProbeResult struct {
	DurationSeconds float64
	FormatName      string
	BitrateKbps     int
	Degraded        bool
	DegradedReason  string
}

type Prober interface {
	Probe(ctx context.Context, path string) ProbeResult
}

// FFProbe extracts container metadata via the ffprobe binary. The binary
// location is injected, never read from ambient state.
type FFProbe struct {
	Bin     string
	Timeout time.Duration
	Logger  zerolog.Logger
}

func NewFFProbe(bin string, logger zerolog.Logger) *FFProbe {
	if bin == "" {
		bin = "ffprobe"
	}
	return &FFProbe{Bin: bin, Timeout: 30 * time.Second, Logger: logger}
}

// Probe never fails the caller: on any error it degrades to the default
// duration estimate and logs the reason.
func (p *FFProbe) Probe(ctx context.Context, path string) ProbeResult {
	result, err := p.probe(ctx, path)
	if err != nil {
		p.Logger.Warn().Err(err).Str("path", path).
			Msg("probe failed, degrading to default duration")
		return ProbeResult{
			DurationSeconds: DefaultDurationSeconds,
			Degraded:        true,
			DegradedReason:  err.Error(),
		}
	}
	return result
}

func (p *FFProbe) probe(ctx context.Context, path string) (ProbeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.Bin,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return ProbeResult{}, fmt.Errorf("ffprobe failed: %w", err)
	}

	var probeData struct {
		Format struct {
			FormatName string `json:"format_name"`
			Duration   string `json:"duration"`
			BitRate    string `json:"bit_rate"`
		} `json:"format"`
		Streams []struct {
			CodecType string `json:"codec_type"`
		} `json:"streams"`
	}
	if err := json.Unmarshal(out, &probeData); err != nil {
		return ProbeResult{}, fmt.Errorf("ffprobe JSON parse failed: %w", err)
	}

	duration, err := strconv.ParseFloat(probeData.Format.Duration, 64)
	if err != nil || duration <= 0 {
		return ProbeResult{}, fmt.Errorf("no usable duration in probe output")
	}

	hasVideo := false
	for _, s := range probeData.Streams {
		if s.CodecType == "video" {
			hasVideo = true
			break
		}
	}
	if !hasVideo {
		return ProbeResult{}, fmt.Errorf("no video stream found")
	}

	result := ProbeResult{
		DurationSeconds: duration,
		FormatName:      probeData.Format.FormatName,
	}
	if bps, err := strconv.Atoi(probeData.Format.BitRate); err == nil {
		result.BitrateKbps = bps / 1000
	}
	return result, nil
}
