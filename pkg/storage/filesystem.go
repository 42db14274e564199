package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage keeps archived documents on disk under a single base
// directory. Relative paths are confined to the base directory; a path that
// escapes it is rejected before any filesystem access.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage ensures the base directory exists and returns a handle.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./archives"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// Save writes the document bytes under the given relative path and returns
// the path as stored.
func (s *LocalStorage) Save(relPath string, data []byte) (string, error) {
	path, err := s.resolve(relPath)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("prepare archive directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write archive file: %w", err)
	}
	return relPath, nil
}

// Open returns a read-only handle for a stored document.
func (s *LocalStorage) Open(relPath string) (*os.File, error) {
	path, err := s.resolve(relPath)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive file: %w", err)
	}
	return file, nil
}

// Delete removes a stored document; a missing file is not an error.
func (s *LocalStorage) Delete(relPath string) error {
	path, err := s.resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete archive file: %w", err)
	}
	return nil
}

func (s *LocalStorage) resolve(relPath string) (string, error) {
	cleaned := filepath.Clean(relPath)
	if cleaned == "." || filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("invalid archive path %q", relPath)
	}
	return filepath.Join(s.baseDir, cleaned), nil
}
