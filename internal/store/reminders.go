package store

import (
	"context"
	"log/slog"
	"time"

	"obrador/internal/logfields"
	"obrador/internal/state"
)

func remindersSlice(doc *state.AppState) *[]state.Reminder { return &doc.Reminders }

// CreateReminder appends a reminder and returns its index. A zero When
// defaults to now, matching the editor's behavior when no date is picked.
func (s *Store) CreateReminder(ctx context.Context, r state.Reminder) (int, error) {
	return createItem(ctx, s, "reminders", remindersSlice, r, func(r *state.Reminder) error {
		if err := r.Validate(); err != nil {
			return err
		}
		if r.When.IsZero() {
			r.When = s.clock.Now()
		}
		r.Fired = false
		return nil
	})
}

// DeleteReminder removes the reminder at index.
func (s *Store) DeleteReminder(ctx context.Context, index int) error {
	return deleteItem(ctx, s, "reminders", index, remindersSlice)
}

// DueReminders returns copies of all reminders that are due at now and have
// not fired yet, in stored order.
func (s *Store) DueReminders(now time.Time) []state.Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var due []state.Reminder
	for _, r := range s.doc.Reminders {
		if !r.Fired && !r.When.After(now) {
			due = append(due, r)
		}
	}
	return due
}

// MarkReminderFired sets the fired flag on the reminder with the given ID and
// persists. The flag is monotonic: marking an already-fired reminder is a
// no-op, and the in-memory flag is kept even when the persist fails, so a
// reminder is never announced twice in the same process. A reminder deleted
// between the due scan and the mark is also a no-op.
func (s *Store) MarkReminderFired(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Reminders {
		r := &s.doc.Reminders[i]
		if r.ID != id {
			continue
		}
		if r.Fired {
			return nil
		}
		r.Fired = true
		s.rec.IncReminderFired()
		s.rec.IncMutation("reminders", "fire")
		if err := s.saveLocked(ctx); err != nil {
			slog.Error("failed to persist fired reminder; it will not be re-delivered",
				logfields.EntityID(id), logfields.ReminderTitle(r.Title), logfields.Error(err))
			return err
		}
		return nil
	}
	return nil
}
