package store

import (
	"context"

	apperr "obrador/internal/errors"
	"obrador/internal/state"
)

func tasksSlice(doc *state.AppState) *[]state.Task { return &doc.Tasks }

// CreateTask appends a task and returns its index.
func (s *Store) CreateTask(ctx context.Context, t state.Task) (int, error) {
	return createItem(ctx, s, "tasks", tasksSlice, t, func(t *state.Task) error {
		return t.Validate()
	})
}

// UpdateTask replaces the task at index wholesale. The done mirror is
// realigned with status by the normalization pass.
func (s *Store) UpdateTask(ctx context.Context, index int, t state.Task) error {
	return updateItem(ctx, s, "tasks", index, tasksSlice, t, func(old, updated *state.Task) error {
		if err := updated.Validate(); err != nil {
			return err
		}
		updated.ID = old.ID
		return nil
	})
}

// DeleteTask removes the task at index.
func (s *Store) DeleteTask(ctx context.Context, index int) error {
	return deleteItem(ctx, s, "tasks", index, tasksSlice)
}

// SetTaskStatus toggles the task's status and keeps the done mirror in sync.
func (s *Store) SetTaskStatus(ctx context.Context, index int, status state.Status) error {
	if status != state.StatusPending && status != state.StatusReady {
		return apperr.Validationf("invalid status %q", status)
	}
	return s.mutate(ctx, "tasks", "set_status", func(doc *state.AppState) error {
		if index < 0 || index >= len(doc.Tasks) {
			return apperr.Validationf("tasks index %d out of range", index)
		}
		doc.Tasks[index].Status = status
		doc.Tasks[index].Done = status == state.StatusReady
		return nil
	})
}
