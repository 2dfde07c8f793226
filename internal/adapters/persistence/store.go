// Package persistence implements the best-effort storage surface: a
// key-to-string store contract, a file-backed implementation, and an
// asynchronous persister that turns mutations into fire-and-forget
// snapshot saves.
package persistence

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Store is the external persistence contract: opaque string values by key.
// Either operation may fail; failures are never fatal to the caller's
// in-memory state.
type Store interface {
	// Load returns the value for key. The boolean is false when the key
	// has never been saved; that is not an error.
	Load(ctx context.Context, key string) (string, bool, error)

	// Save writes the value for key, replacing any previous value.
	Save(ctx context.Context, key, value string) error
}

// FileStore persists each key as one file under a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store rooted at dir. The directory is created
// on the first save, not here, so constructing a store never touches disk.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (f *FileStore) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

// Load implements Store.
func (f *FileStore) Load(_ context.Context, key string) (string, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	return string(data), true, nil
}

// Save implements Store. The value is written to a temp file and renamed so
// a crash mid-write never leaves a truncated snapshot behind.
func (f *FileStore) Save(_ context.Context, key, value string) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrSave, err)
	}
	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSave, err)
	}
	name := tmp.Name()
	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(name)
		return fmt.Errorf("%w: %v", ErrSave, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return fmt.Errorf("%w: %v", ErrSave, err)
	}
	if err := os.Rename(name, f.path(key)); err != nil {
		os.Remove(name)
		return fmt.Errorf("%w: %v", ErrSave, err)
	}
	return nil
}
