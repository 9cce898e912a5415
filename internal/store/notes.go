package store

import (
	"context"

	"obrador/internal/state"
)

func notesSlice(doc *state.AppState) *[]state.Note { return &doc.Notes }

// CreateNote appends a note, stamping its immutable creation time.
func (s *Store) CreateNote(ctx context.Context, n state.Note) (int, error) {
	return createItem(ctx, s, "notes", notesSlice, n, func(n *state.Note) error {
		n.Created = s.clock.Now()
		return nil
	})
}

// UpdateNote replaces the note at index. The original creation time is
// preserved regardless of what the caller passes.
func (s *Store) UpdateNote(ctx context.Context, index int, n state.Note) error {
	return updateItem(ctx, s, "notes", index, notesSlice, n, func(old, updated *state.Note) error {
		updated.ID = old.ID
		updated.Created = old.Created
		return nil
	})
}

// DeleteNote removes the note at index.
func (s *Store) DeleteNote(ctx context.Context, index int) error {
	return deleteItem(ctx, s, "notes", index, notesSlice)
}
