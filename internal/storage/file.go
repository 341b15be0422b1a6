package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/spice-ledger/internal/common"
)

// FileStorage keeps one JSON document per key under a directory.
type FileStorage struct {
	dir string
}

// NewFileStorage creates the data directory if needed.
func NewFileStorage(dir string) (*FileStorage, error) {
	if err := validateString(dir, "dir"); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStorage{dir: dir}, nil
}

func (f *FileStorage) path(key string) string {
	name := strings.ReplaceAll(key, "/", "__") + ".json"
	return filepath.Join(f.dir, name)
}

// Load reads the document for key.
func (f *FileStorage) Load(ctx context.Context, key string) ([]byte, error) {
	if err := validateRequest(ctx, key); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, common.NotFoundf("state key %q", key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state %q: %w", key, err)
	}
	return data, nil
}

// Save writes the document atomically: a temp file in the same directory is
// renamed over the target so readers never see a partial write.
func (f *FileStorage) Save(ctx context.Context, key string, data []byte) error {
	if err := validateRequest(ctx, key); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, ".state-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// No-op once the rename succeeded.
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write state %q: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync state %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close state %q: %w", key, err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		return fmt.Errorf("failed to set permissions on state %q: %w", key, err)
	}
	if err := os.Rename(tmpName, f.path(key)); err != nil {
		return fmt.Errorf("failed to replace state %q: %w", key, err)
	}

	slog.Debug("saved state", "backend", "file", "key", key, "bytes", len(data))
	return nil
}

// Delete removes the document for key. Missing keys are not an error.
func (f *FileStorage) Delete(ctx context.Context, key string) error {
	if err := validateRequest(ctx, key); err != nil {
		return err
	}
	if err := os.Remove(f.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete state %q: %w", key, err)
	}
	return nil
}

// Close is a no-op; files are closed after every operation.
func (f *FileStorage) Close() error {
	return nil
}
