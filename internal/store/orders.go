package store

import (
	"context"
	"strings"

	apperr "obrador/internal/errors"
	"obrador/internal/state"
)

func ordersSlice(doc *state.AppState) *[]state.Order { return &doc.Orders }

// PlaceOrder validates the line items, appends the order and deducts stock
// from each referenced product that tracks stock, flooring at zero. The order
// append and all stock deductions are one atomic document write.
func (s *Store) PlaceOrder(ctx context.Context, customer string, items []state.OrderLine) (int, error) {
	idx := -1
	err := s.mutate(ctx, "orders", "place", func(doc *state.AppState) error {
		if len(items) == 0 {
			return apperr.ValidationError("an order requires at least one line item")
		}
		for _, it := range items {
			if it.Qty <= 0 {
				return apperr.Validationf("line item %q quantity must be positive", it.Name)
			}
			if findProduct(doc, it.Name) == nil {
				return apperr.Validationf("line item references unknown product %q", it.Name)
			}
		}

		if strings.TrimSpace(customer) == "" {
			customer = state.DefaultCustomer
		}

		for _, it := range items {
			prod := findProduct(doc, it.Name)
			if prod.Stock == nil {
				continue // stock not tracked for this product
			}
			remaining := *prod.Stock - it.Qty
			if remaining < 0 {
				remaining = 0
			}
			prod.Stock = &remaining
		}

		doc.Orders = append(doc.Orders, state.Order{
			Customer: customer,
			Items:    append([]state.OrderLine(nil), items...),
			Created:  s.clock.Now(),
		})
		idx = len(doc.Orders) - 1
		return nil
	})
	return idx, err
}

// DeleteOrder removes the order at index. Stock is not restored.
func (s *Store) DeleteOrder(ctx context.Context, index int) error {
	return deleteItem(ctx, s, "orders", index, ordersSlice)
}

func findProduct(doc *state.AppState, name string) *state.Product {
	for i := range doc.Products {
		if doc.Products[i].Name == name {
			return &doc.Products[i]
		}
	}
	return nil
}
