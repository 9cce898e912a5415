package store

import (
	"context"

	"obrador/internal/state"
)

func productsSlice(doc *state.AppState) *[]state.Product { return &doc.Products }

// CreateProduct appends a sellable product and returns its index.
func (s *Store) CreateProduct(ctx context.Context, p state.Product) (int, error) {
	return createItem(ctx, s, "products", productsSlice, p, func(p *state.Product) error {
		return p.Validate()
	})
}

// UpdateProduct replaces the product at index wholesale.
func (s *Store) UpdateProduct(ctx context.Context, index int, p state.Product) error {
	return updateItem(ctx, s, "products", index, productsSlice, p, func(old, updated *state.Product) error {
		if err := updated.Validate(); err != nil {
			return err
		}
		updated.ID = old.ID
		return nil
	})
}

// DeleteProduct removes the product at index.
func (s *Store) DeleteProduct(ctx context.Context, index int) error {
	return deleteItem(ctx, s, "products", index, productsSlice)
}
