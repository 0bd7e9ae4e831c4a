package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CompressAllTiers generates one rendition per quality tier under dstDir.
// File names follow "<baseName>_<tier>.mp4" so they line up with the lazy
// per-tier cache paths.
func (t *Transcoder) CompressAllTiers(ctx context.Context, srcPath, dstDir, baseName string) ([]RenditionResult, error) {
	results := make([]RenditionResult, 0, len(tierOrder))
	for _, tier := range tierOrder {
		dst := filepath.Join(dstDir, RenditionFileName(baseName, tier))
		res, err := t.Compress(ctx, srcPath, dst, tier)
		if err != nil {
			return results, fmt.Errorf("tier %s: %w", tier, err)
		}
		results = append(results, *res)
	}
	return results, nil
}

// RenditionFileName builds the cache file name for a (source, tier) pair.
// baseName is the source content checksum fragment, so replacing the source
// video naturally invalidates every cached rendition.
func RenditionFileName(baseName, tier string) string {
	return fmt.Sprintf("%s_%s.mp4", baseName, tier)
}

// WriteMasterPlaylist emits an HLS master playlist referencing every tier's
// rendition. Bandwidth comes from the preset, not from measuring output.
func WriteMasterPlaylist(dstDir, baseName string, results []RenditionResult) (string, error) {
	var b strings.Builder
	b.WriteString("#EXTM3U\n")
	b.WriteString("#EXT-X-VERSION:3\n")

	for _, res := range results {
		fmt.Fprintf(&b, "#EXT-X-STREAM-INF:BANDWIDTH=%d,RESOLUTION=%s\n",
			res.Preset.BandwidthBits(), res.Preset.Resolution())
		b.WriteString(filepath.Base(res.Path))
		b.WriteString("\n")
	}

	path := filepath.Join(dstDir, baseName+".m3u8")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("cannot write playlist: %w", err)
	}
	return path, nil
}
