package storage

import (
	"context"
	"sync"
)

// MemorySlot is an in-memory Slot for tests. Error fields allow fault
// injection for persistence-failure paths.
type MemorySlot struct {
	mu     sync.RWMutex
	data   []byte
	exists bool

	// Writes counts successful Write calls.
	Writes int

	// ReadErr and WriteErr, when set, are returned by the corresponding
	// operation instead of touching the stored value.
	ReadErr  error
	WriteErr error
}

// NewMemorySlot returns an empty in-memory slot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

// Seed sets the stored value directly, bypassing error injection.
func (s *MemorySlot) Seed(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
	s.exists = true
}

// Bytes returns a copy of the stored value, or nil when the slot is empty.
func (s *MemorySlot) Bytes() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.exists {
		return nil
	}
	return append([]byte(nil), s.data...)
}

func (s *MemorySlot) Read(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ReadErr != nil {
		return nil, s.ReadErr
	}
	if !s.exists {
		return nil, ErrNotFound{Name: "memory"}
	}
	return append([]byte(nil), s.data...), nil
}

func (s *MemorySlot) Write(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.WriteErr != nil {
		return s.WriteErr
	}
	s.data = append([]byte(nil), data...)
	s.exists = true
	s.Writes++
	return nil
}

func (s *MemorySlot) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	s.exists = false
	return nil
}

func (s *MemorySlot) Close() error { return nil }
