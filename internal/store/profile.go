package store

import (
	"context"
	"strings"

	"obrador/internal/state"
)

// UpdateProfile replaces the business profile. A blank name falls back to the
// default business name.
func (s *Store) UpdateProfile(ctx context.Context, p state.Profile) error {
	return s.mutate(ctx, "profile", "update", func(doc *state.AppState) error {
		if strings.TrimSpace(p.Name) == "" {
			p.Name = state.DefaultBusinessName
		}
		doc.Profile = p
		return nil
	})
}
