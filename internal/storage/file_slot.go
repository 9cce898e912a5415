package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// FileSlot stores the document in a single JSON file. A flock guard next to
// the file enforces the single-instance assumption: a second process writing
// to the same slot fails to acquire the lock instead of corrupting it.
type FileSlot struct {
	path     string
	fileLock *flock.Flock
	mu       sync.RWMutex
}

// NewFileSlot creates a file-backed slot at path, creating parent directories
// as needed.
func NewFileSlot(path string) (*FileSlot, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileSlot{
		path:     path,
		fileLock: flock.New(path + ".lock"),
	}, nil
}

// Path returns the backing file path.
func (s *FileSlot) Path() string { return s.path }

// Read returns the file contents, or ErrNotFound when the file is absent or
// empty.
func (s *FileSlot) Read(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	unlock, err := s.acquireLock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound{Name: s.path}
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNotFound{Name: s.path}
	}
	return data, nil
}

// Write atomically replaces the file via a temp file and rename.
func (s *FileSlot) Write(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.acquireLock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary state file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

// Clear removes the file. A missing file is not an error.
func (s *FileSlot) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.acquireLock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear state file: %w", err)
	}
	return nil
}

// Close removes the lock file.
func (s *FileSlot) Close() error {
	_ = os.Remove(s.path + ".lock")
	return nil
}

func (s *FileSlot) acquireLock(ctx context.Context) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	locked, err := s.fileLock.TryLockContext(lockCtx, 100*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire slot lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("could not acquire slot lock on %s", s.path)
	}
	return func() { _ = s.fileLock.Unlock() }, nil
}
