package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStorage keeps media on the local filesystem under BasePath.
type LocalStorage struct {
	BasePath string
}

func NewLocalStorage(basePath string) *LocalStorage {
	return &LocalStorage{BasePath: basePath}
}

func (l *LocalStorage) Save(file io.Reader, folder, filename string) (string, error) {
	fullPath := filepath.Join(l.BasePath, folder, filename)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("cannot create directory: %w", err)
	}

	outFile, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("cannot create file: %w", err)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, file); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("cannot write file: %w", err)
	}

	return fullPath, nil
}

func (l *LocalStorage) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

func (l *LocalStorage) Delete(path string) error {
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (l *LocalStorage) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (l *LocalStorage) Path(folder, filename string) string {
	return filepath.Join(l.BasePath, folder, filename)
}

// Materialize is a no-op for local storage: the stored path is already a
// filesystem path.
func (l *LocalStorage) Materialize(path string) (string, error) {
	if !l.Exists(path) {
		return "", os.ErrNotExist
	}
	return path, nil
}
