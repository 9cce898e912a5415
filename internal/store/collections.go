package store

import (
	"context"
	"slices"

	apperr "obrador/internal/errors"
	"obrador/internal/state"
)

// The collection helpers implement the shared contract of every ordered
// sequence in the document: creation appends and returns the new index,
// update replaces wholesale at an in-bounds index, delete shifts subsequent
// indices down by one. Indices must not be cached across a delete.

func createItem[T any](ctx context.Context, s *Store, collection string, slice func(*state.AppState) *[]T, item T, prep func(*T) error) (int, error) {
	idx := -1
	err := s.mutate(ctx, collection, "create", func(doc *state.AppState) error {
		if prep != nil {
			if err := prep(&item); err != nil {
				return err
			}
		}
		sl := slice(doc)
		*sl = append(*sl, item)
		idx = len(*sl) - 1
		return nil
	})
	return idx, err
}

func updateItem[T any](ctx context.Context, s *Store, collection string, index int, slice func(*state.AppState) *[]T, item T, prep func(old, updated *T) error) error {
	return s.mutate(ctx, collection, "update", func(doc *state.AppState) error {
		sl := slice(doc)
		if index < 0 || index >= len(*sl) {
			return apperr.Validationf("%s index %d out of range", collection, index)
		}
		if prep != nil {
			old := (*sl)[index]
			if err := prep(&old, &item); err != nil {
				return err
			}
		}
		(*sl)[index] = item
		return nil
	})
}

func deleteItem[T any](ctx context.Context, s *Store, collection string, index int, slice func(*state.AppState) *[]T) error {
	return s.mutate(ctx, collection, "delete", func(doc *state.AppState) error {
		sl := slice(doc)
		if index < 0 || index >= len(*sl) {
			return apperr.Validationf("%s index %d out of range", collection, index)
		}
		*sl = slices.Delete(*sl, index, index+1)
		return nil
	})
}
