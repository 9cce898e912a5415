package store

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"

	apperr "obrador/internal/errors"
	"obrador/internal/logfields"
	"obrador/internal/state"
)

func needsSlice(doc *state.AppState) *[]state.NeedItem { return &doc.Needs }

// CreateNeed appends a supply need and returns its index.
func (s *Store) CreateNeed(ctx context.Context, n state.NeedItem) (int, error) {
	return createItem(ctx, s, "needs", needsSlice, n, func(n *state.NeedItem) error {
		return n.Validate()
	})
}

// UpdateNeed replaces the need at index wholesale. Legacy fields on the
// incoming item are normalized as part of the write.
func (s *Store) UpdateNeed(ctx context.Context, index int, n state.NeedItem) error {
	return updateItem(ctx, s, "needs", index, needsSlice, n, func(old, updated *state.NeedItem) error {
		if err := updated.Validate(); err != nil {
			return err
		}
		updated.ID = old.ID
		return nil
	})
}

// DeleteNeed removes the need at index, shifting subsequent indices down.
func (s *Store) DeleteNeed(ctx context.Context, index int) error {
	return deleteItem(ctx, s, "needs", index, needsSlice)
}

// SetNeedStatus toggles the need's status. Any legacy acquired flag is
// dropped by the normalization pass on the same write.
func (s *Store) SetNeedStatus(ctx context.Context, index int, status state.Status) error {
	if status != state.StatusPending && status != state.StatusReady {
		return apperr.Validationf("invalid status %q", status)
	}
	return s.mutate(ctx, "needs", "set_status", func(doc *state.AppState) error {
		if index < 0 || index >= len(doc.Needs) {
			return apperr.Validationf("needs index %d out of range", index)
		}
		doc.Needs[index].Status = status
		doc.Needs[index].Acquired = nil
		return nil
	})
}

// BulkAddNeeds appends the given needs, skipping items whose case-folded name
// already exists in the collection (or earlier in the batch). Returns the
// number of items added; nothing is persisted when the whole batch is skipped.
func (s *Store) BulkAddNeeds(ctx context.Context, items []state.NeedItem) (int, error) {
	folder := cases.Fold()
	added := 0

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := make(map[string]bool, len(s.doc.Needs))
	for _, n := range s.doc.Needs {
		existing[folder.String(strings.TrimSpace(n.Name))] = true
	}

	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			continue
		}
		key := folder.String(name)
		if existing[key] {
			continue
		}
		existing[key] = true
		item.Name = name
		s.doc.Needs = append(s.doc.Needs, item)
		added++
	}

	if added == 0 {
		return 0, nil
	}

	state.Normalize(s.doc)
	s.rec.IncMutation("needs", "bulk_add")
	slog.Debug("needs added in bulk", logfields.Count(added))
	return added, s.saveLocked(ctx)
}
