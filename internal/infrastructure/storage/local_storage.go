package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	docapp "github.com/cabinet/backend/internal/application/document"
)

// Ensure LocalFileStorage implements FileStorage
var _ docapp.FileStorage = (*LocalFileStorage)(nil)

// LocalFileStorage implements FileStorage on the local filesystem.
// It is the default backend for development and single-node deployments.
type LocalFileStorage struct {
	dir    string
	logger *zap.Logger
}

// NewLocalFileStorage creates a LocalFileStorage rooted at dir,
// creating the directory if needed
func NewLocalFileStorage(dir string, logger *zap.Logger) (*LocalFileStorage, error) {
	if dir == "" {
		return nil, errors.New("upload directory is required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalFileStorage{dir: dir, logger: logger}, nil
}

// Store writes the file content under a freshly generated key
func (s *LocalFileStorage) Store(ctx context.Context, data []byte, originalFilename, contentType string) (string, error) {
	key := newStorageKey(originalFilename)

	path, err := s.resolve(key)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	s.logger.Debug("Stored file",
		zap.String("key", key),
		zap.Int("size", len(data)))
	return key, nil
}

// Load reads the file content for the given storage key
func (s *LocalFileStorage) Load(ctx context.Context, key string) ([]byte, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// Delete removes the file for the given storage key
func (s *LocalFileStorage) Delete(ctx context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// resolve maps a storage key to a path inside the upload directory.
// Keys containing path separators or traversal sequences are refused.
func (s *LocalFileStorage) resolve(key string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	if strings.Contains(key, "..") || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("invalid storage key: %q", key)
	}
	return filepath.Join(s.dir, key), nil
}

// newStorageKey builds an opaque, collision-free key that still hints at
// the original filename for operators browsing the store.
func newStorageKey(originalFilename string) string {
	return uuid.New().String() + "_" + sanitizeFilename(originalFilename)
}

// sanitizeFilename strips everything but a safe character set from the
// original filename before it becomes part of a storage key
func sanitizeFilename(name string) string {
	name = filepath.Base(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	cleaned := strings.Trim(b.String(), ".")
	if cleaned == "" {
		return "file"
	}
	return cleaned
}
