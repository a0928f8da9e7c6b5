package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileStorage persists values as one file per key under a directory. Writes
// go through a temp file plus rename so a crash never leaves a half-written
// record. Intended for CLI and desktop clients without an external store.
type FileStorage struct {
	dir string
}

// NewFileStorage creates the directory if needed and returns a file-backed
// storage rooted at dir.
func NewFileStorage(dir string) (*FileStorage, error) {
	if dir == "" {
		return nil, errors.New("storage: empty directory")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("storage: create dir: %w", err)
	}
	return &FileStorage{dir: dir}, nil
}

// Keys are hashed into filenames so arbitrary key strings stay path-safe.
func (f *FileStorage) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(f.dir, hex.EncodeToString(sum[:16])+".rec")
}

// Get returns the stored value or ErrNotFound.
func (f *FileStorage) Get(_ context.Context, key string) (string, error) {
	raw, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("storage: read %q: %w", key, err)
	}
	return string(raw), nil
}

// Set writes or overwrites the value for key atomically.
func (f *FileStorage) Set(_ context.Context, key, value string) error {
	dest := f.path(key)

	tmp, err := os.CreateTemp(f.dir, "record-*")
	if err != nil {
		return fmt.Errorf("storage: temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("storage: write %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("storage: close %q: %w", key, err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("storage: rename %q: %w", key, err)
	}
	return nil
}

// Remove deletes key; absent keys are a no-op.
func (f *FileStorage) Remove(_ context.Context, key string) error {
	err := os.Remove(f.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage: remove %q: %w", key, err)
	}
	return nil
}
