package store

import (
	"context"
	"encoding/json"
	"log/slog"

	apperr "obrador/internal/errors"
	"obrador/internal/state"
)

// ExportSnapshot returns the full document as a pretty-printed JSON blob for
// the user to save externally.
func (s *Store) ExportSnapshot() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CategoryInternal, apperr.SeverityError, "failed to serialize snapshot")
	}
	return data, nil
}

// BackupFileName suggests a file name for an exported snapshot, derived from
// the business name.
func (s *Store) BackupFileName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name := s.doc.Profile.Name
	if name == "" {
		name = state.DefaultBusinessName
	}
	return name + "_backup.json"
}

// ImportSnapshot merges a snapshot blob into the current document with the
// same best-effort semantics as Load, then persists. A parse failure leaves
// the document untouched and is surfaced to the caller; a persist failure is
// surfaced as well (import is the one flow where save errors reach the user).
func (s *Store) ImportSnapshot(ctx context.Context, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := state.MergeJSON(s.doc, blob); err != nil {
		return err
	}
	state.Normalize(s.doc)
	s.rec.IncMutation("snapshot", "import")
	slog.Info("snapshot imported")
	return s.saveLocked(ctx)
}

// ResetAll clears the durable slot and restores the default document.
// Irreversible; callers are expected to gate it behind explicit confirmation.
func (s *Store) ResetAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.slot.Clear(ctx); err != nil {
		return apperr.PersistenceError(err, "failed to clear durable storage")
	}
	s.doc = state.Default()
	s.lastSaved = nil
	s.rec.IncMutation("snapshot", "reset")
	slog.Info("state reset to defaults")
	return nil
}
