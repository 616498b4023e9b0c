// Package storage keeps rendered export files on local disk.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotConfigured is returned by a nil LocalStorage.
var ErrNotConfigured = errors.New("export storage not configured")

// LocalStorage persists files under a base directory.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage ensures the base directory exists and returns a handle.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./exports"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create exports directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// Save writes data to filename relative to the base dir, replacing any
// existing file, and returns the relative name.
func (s *LocalStorage) Save(filename string, data []byte) (string, error) {
	if s == nil {
		return "", ErrNotConfigured
	}
	path := s.resolve(filename)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("prepare export directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("commit export file: %w", err)
	}
	return filename, nil
}

// Path exposes the on-disk location of a stored file.
func (s *LocalStorage) Path(filename string) string {
	return s.resolve(filename)
}

func (s *LocalStorage) resolve(filename string) string {
	if filepath.IsAbs(filename) || s == nil {
		return filename
	}
	return filepath.Join(s.baseDir, filename)
}
