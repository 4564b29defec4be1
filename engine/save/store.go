package save

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Store persists a single snapshot.
type Store interface {
	Write(ctx context.Context, data []byte) error
	// Read returns ErrNoSave when nothing has been written.
	Read(ctx context.Context) ([]byte, error)
	Exists(ctx context.Context) (bool, error)
}

// FileStore keeps the snapshot in one JSON file.
type FileStore struct {
	Path string
}

// NewFileStore returns a store writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Write replaces the snapshot atomically via a temp file and rename.
func (f *FileStore) Write(_ context.Context, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return fmt.Errorf("create save dir: %w", err)
	}
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write save: %w", err)
	}
	if err := os.Rename(tmp, f.Path); err != nil {
		return fmt.Errorf("write save: %w", err)
	}
	return nil
}

func (f *FileStore) Read(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSave
	}
	if err != nil {
		return nil, fmt.Errorf("read save: %w", err)
	}
	return data, nil
}

func (f *FileStore) Exists(_ context.Context) (bool, error) {
	_, err := os.Stat(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat save: %w", err)
	}
	return true, nil
}
