package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var ErrInvalidPath = errors.New("invalid storage path")

// FileStorage keeps blobs under a base directory, addressed by relative
// slash-separated paths.
type FileStorage interface {
	Save(path string, data io.Reader) error
	Get(path string) (io.ReadCloser, error)
	Delete(path string) error
	Exists(path string) bool
}

type fileStorage struct {
	basePath string
}

func NewFileStorage(basePath string) FileStorage {
	return &fileStorage{basePath: basePath}
}

// Save writes to a temp file next to the target and renames it, so readers
// never see a partial file.
func (s *fileStorage) Save(path string, data io.Reader) error {
	fullPath, err := s.resolve(path)
	if err != nil {
		return err
	}

	// Создаем директорию если нужно
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(fullPath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	return os.Rename(tmp.Name(), fullPath)
}

func (s *fileStorage) Get(path string) (io.ReadCloser, error) {
	fullPath, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	return os.Open(fullPath)
}

// Delete removes a file or a whole directory. Missing paths are not an error.
func (s *fileStorage) Delete(path string) error {
	fullPath, err := s.resolve(path)
	if err != nil {
		return err
	}
	return os.RemoveAll(fullPath)
}

func (s *fileStorage) Exists(path string) bool {
	fullPath, err := s.resolve(path)
	if err != nil {
		return false
	}
	_, err = os.Stat(fullPath)
	return err == nil
}

func (s *fileStorage) resolve(path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(path))
	if path == "" || clean == "." || filepath.IsAbs(clean) ||
		clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	return filepath.Join(s.basePath, clean), nil
}
