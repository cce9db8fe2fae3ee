package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/orderexport/backend/internal/application/export"
)

// Ensure LocalDirStorage implements ArtifactSink
var _ export.ArtifactSink = (*LocalDirStorage)(nil)

// LocalDirStorage writes artifacts into a directory on disk.
// A later artifact with the same name replaces the earlier one.
type LocalDirStorage struct {
	dir    string
	logger *zap.Logger
}

// NewLocalDirStorage creates a sink rooted at dir. The directory is created on first Put.
func NewLocalDirStorage(dir string, logger *zap.Logger) *LocalDirStorage {
	if dir == "" {
		dir = "."
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalDirStorage{dir: dir, logger: logger}
}

// Dir returns the target directory
func (s *LocalDirStorage) Dir() string {
	return s.dir
}

// Put writes data to dir/name and returns the absolute file path
func (s *LocalDirStorage) Put(ctx context.Context, name, _ string, data []byte) (string, error) {
	if name == "" || filepath.Base(name) != name {
		return "", fmt.Errorf("%w: invalid file name %q", ErrKeyRequired, name)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	target := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}

	abs, err := filepath.Abs(target)
	if err != nil {
		abs = target
	}
	s.logger.Info("Artifact written", zap.String("path", abs), zap.Int("bytes", len(data)))
	return abs, nil
}
