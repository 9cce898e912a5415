package store

import (
	"context"

	"obrador/internal/state"
)

func inventorySlice(doc *state.AppState) *[]state.InventoryItem { return &doc.Inventory }

// CreateInventoryItem appends a raw-material record and returns its index.
func (s *Store) CreateInventoryItem(ctx context.Context, it state.InventoryItem) (int, error) {
	return createItem(ctx, s, "inventory", inventorySlice, it, func(it *state.InventoryItem) error {
		return it.Validate()
	})
}

// UpdateInventoryItem replaces the record at index wholesale.
func (s *Store) UpdateInventoryItem(ctx context.Context, index int, it state.InventoryItem) error {
	return updateItem(ctx, s, "inventory", index, inventorySlice, it, func(old, updated *state.InventoryItem) error {
		if err := updated.Validate(); err != nil {
			return err
		}
		updated.ID = old.ID
		return nil
	})
}

// DeleteInventoryItem removes the record at index.
func (s *Store) DeleteInventoryItem(ctx context.Context, index int) error {
	return deleteItem(ctx, s, "inventory", index, inventorySlice)
}
