package file

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UniqueName builds a collision-resistant file name for an upload:
// nanosecond timestamp + short uuid fragment + original extension.
func UniqueName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	frag := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), frag, ext)
}
