// Package store implements the StateStore: the single authority for reading
// and mutating the AppState document. Every mutation funnels through it and
// is persisted to the durable slot before control returns to the caller.
package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	apperr "obrador/internal/errors"
	"obrador/internal/logfields"
	"obrador/internal/metrics"
	"obrador/internal/state"
	"obrador/internal/storage"
)

// Store owns the in-memory document and its durable slot. All access is
// serialized on an internal lock; readers receive deep copies so no caller
// ever holds a pointer into the live document.
type Store struct {
	slot  storage.Slot
	rec   metrics.Recorder
	clock clockwork.Clock

	mu        sync.RWMutex
	doc       *state.AppState
	lastSaved *time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithRecorder injects a metrics recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(s *Store) { s.rec = rec }
}

// WithClock injects a clock, used for creation timestamps.
func WithClock(clock clockwork.Clock) Option {
	return func(s *Store) { s.clock = clock }
}

// New creates a Store starting from the default document. Call Load to pick
// up previously persisted state.
func New(slot storage.Slot, opts ...Option) *Store {
	s := &Store{
		slot:  slot,
		rec:   metrics.NoopRecorder{},
		clock: clockwork.NewRealClock(),
		doc:   state.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the slot and merges its contents over the defaults. Load never
// fails: an absent slot keeps defaults, and a storage or parse failure is
// logged and degrades to defaults as well.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := state.Default()
	data, err := s.slot.Read(ctx)
	if err != nil {
		if storage.IsNotFound(err) {
			slog.Debug("no stored state, starting from defaults")
		} else {
			slog.Warn("failed to load state, starting from defaults", logfields.Error(err))
		}
		s.doc = doc
		return
	}

	if err := state.MergeJSON(doc, data); err != nil {
		slog.Warn("stored state is malformed, starting from defaults", logfields.Error(err))
		s.doc = state.Default()
		return
	}
	state.Normalize(doc)
	s.doc = doc
	slog.Debug("state loaded",
		logfields.Count(len(doc.Needs)+len(doc.Notes)+len(doc.Tasks)+len(doc.Recipes)+
			len(doc.Products)+len(doc.Inventory)+len(doc.Orders)+len(doc.Reminders)))
}

// State returns a deep copy of the current document.
func (s *Store) State() *state.AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// LastSaved returns the time of the last successful persist, or nil if the
// document has never been saved in this process.
func (s *Store) LastSaved() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSaved
}

// Close releases the underlying slot.
func (s *Store) Close() error {
	return s.slot.Close()
}

// mutate applies fn to the document, normalizes and persists. A validation
// error from fn aborts before any persist. A persist failure is returned to
// the caller, but the in-memory change stays: there is no rollback across the
// memory/durable boundary.
func (s *Store) mutate(ctx context.Context, collection, op string, fn func(doc *state.AppState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.doc); err != nil {
		return err
	}
	state.Normalize(s.doc)
	s.rec.IncMutation(collection, op)
	slog.Debug("state mutated", logfields.Collection(collection), logfields.Op(op))
	return s.saveLocked(ctx)
}

// saveLocked serializes the whole document and writes it to the slot.
// Callers must hold the write lock.
func (s *Store) saveLocked(ctx context.Context) error {
	start := time.Now()
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		s.rec.IncSaveResult(false)
		return apperr.Wrap(err, apperr.CategoryInternal, apperr.SeverityError, "failed to marshal state")
	}

	err = s.slot.Write(ctx, data)
	s.rec.ObserveSaveDuration(time.Since(start))
	if err != nil {
		s.rec.IncSaveResult(false)
		return apperr.PersistenceError(err, "failed to persist state")
	}

	now := s.clock.Now()
	s.lastSaved = &now
	s.rec.IncSaveResult(true)
	return nil
}
