package repositories

import "io"

// StorageStrategy abstracts where media files live. Processing (ffmpeg) and
// range streaming need a real filesystem path, so every strategy must be able
// to materialize a stored object locally.
type StorageStrategy interface {
	Save(file io.Reader, folder, filename string) (string, error)
	Open(path string) (io.ReadCloser, error)
	Delete(path string) error
	Exists(path string) bool
	Path(folder, filename string) string
	// Materialize returns a local filesystem path for the stored object.
	// For local storage this is the path itself.
	Materialize(path string) (string, error)
}
