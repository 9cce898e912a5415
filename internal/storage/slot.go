// Package storage provides the durable slot backing the application state
// document: one named location holding the entire serialized document,
// read on startup and rewritten after every mutation.
package storage

import "context"

// Slot is a single named durable location for the serialized state document.
// Write replaces the whole value atomically; partial writes are never visible
// to a subsequent Read.
type Slot interface {
	// Read returns the current document bytes. Returns ErrNotFound when the
	// slot has never been written.
	Read(ctx context.Context) ([]byte, error)

	// Write atomically replaces the slot contents.
	Write(ctx context.Context, data []byte) error

	// Clear removes the slot contents. Clearing an absent slot is a no-op.
	Clear(ctx context.Context) error

	// Close releases any resources held by the slot.
	Close() error
}

// ErrNotFound is returned when the slot has no stored document.
type ErrNotFound struct {
	Name string
}

func (e ErrNotFound) Error() string {
	return "state slot not found: " + e.Name
}

// IsNotFound returns true if the error is ErrNotFound.
func IsNotFound(err error) bool {
	_, ok := err.(ErrNotFound)
	return ok
}
