package store

import (
	"context"

	"obrador/internal/state"
)

func recipesSlice(doc *state.AppState) *[]state.Recipe { return &doc.Recipes }

// CreateRecipe appends a recipe and returns its index. Ingredients and steps
// are expected pre-split one per line (state.SplitLines).
func (s *Store) CreateRecipe(ctx context.Context, r state.Recipe) (int, error) {
	return createItem(ctx, s, "recipes", recipesSlice, r, func(r *state.Recipe) error {
		return r.Validate()
	})
}

// UpdateRecipe replaces the recipe at index wholesale.
func (s *Store) UpdateRecipe(ctx context.Context, index int, r state.Recipe) error {
	return updateItem(ctx, s, "recipes", index, recipesSlice, r, func(old, updated *state.Recipe) error {
		if err := updated.Validate(); err != nil {
			return err
		}
		updated.ID = old.ID
		return nil
	})
}

// DeleteRecipe removes the recipe at index.
func (s *Store) DeleteRecipe(ctx context.Context, index int) error {
	return deleteItem(ctx, s, "recipes", index, recipesSlice)
}
