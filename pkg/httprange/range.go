package httprange

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrMalformed means the header is not a parseable single byte range.
	ErrMalformed = errors.New("malformed range header")
	// ErrUnsatisfiable means the range lies entirely outside the resource.
	ErrUnsatisfiable = errors.New("range not satisfiable")
	// ErrMultiRange: multi-range requests are strictly rejected.
	ErrMultiRange = errors.New("multi-range not supported")
)

// Range is a byte window [Start, End] (inclusive) within a resource of
// TotalSize bytes. Invariant after Parse: 0 <= Start <= End < TotalSize.
type Range struct {
	Start     int64
	End       int64
	TotalSize int64
}

func (r Range) Length() int64 {
	return r.End - r.Start + 1
}

// ContentRange formats the Content-Range header value for a 206 response.
func (r Range) ContentRange() string {
	return fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, r.TotalSize)
}

// UnsatisfiableContentRange formats the Content-Range value for a 416 response.
func UnsatisfiableContentRange(size int64) string {
	return fmt.Sprintf("bytes */%d", size)
}

// Parse parses a "Range: bytes=start-end" header against a resource of the
// given size. An open end ("bytes=500-") runs to the last byte, a suffix range
// ("bytes=-500") covers the final 500 bytes. An end past the file is clamped
// to size-1; a start at or past the file, or a start beyond the end, is
// unsatisfiable.
func Parse(header string, size int64) (Range, error) {
	if header == "" || size <= 0 {
		return Range{}, ErrMalformed
	}

	const prefix = "bytes="
	if !strings.HasPrefix(header, prefix) {
		return Range{}, ErrMalformed
	}

	spec := strings.TrimPrefix(header, prefix)
	if strings.Contains(spec, ",") {
		return Range{}, ErrMultiRange
	}

	parts := strings.SplitN(spec, "-", 2)
	if len(parts) != 2 {
		return Range{}, ErrMalformed
	}

	startStr := strings.TrimSpace(parts[0])
	endStr := strings.TrimSpace(parts[1])

	r := Range{TotalSize: size}

	if startStr == "" {
		// Suffix range: last N bytes.
		if endStr == "" {
			return Range{}, ErrMalformed
		}
		n, err := strconv.ParseInt(endStr, 10, 64)
		if err != nil || n <= 0 {
			return Range{}, ErrMalformed
		}
		if n > size {
			n = size
		}
		r.Start = size - n
		r.End = size - 1
		return r, nil
	}

	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil || start < 0 {
		return Range{}, ErrMalformed
	}
	if start >= size {
		return Range{}, ErrUnsatisfiable
	}
	r.Start = start

	if endStr == "" {
		r.End = size - 1
		return r, nil
	}

	end, err := strconv.ParseInt(endStr, 10, 64)
	if err != nil || end < 0 {
		return Range{}, ErrMalformed
	}
	if end >= size {
		end = size - 1
	}
	if start > end {
		return Range{}, ErrUnsatisfiable
	}
	r.End = end
	return r, nil
}
