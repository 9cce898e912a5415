package state

import (
	"strings"

	"github.com/google/uuid"
)

// Normalize applies the uniform normalization pass at the store boundary.
// It folds legacy boolean mirrors into Status, clamps numeric ranges, fills
// defaults and assigns IDs to entities created before IDs existed. It is
// applied on every load and before every persist so that no legacy shape
// survives a write.
func Normalize(st *AppState) {
	if st.Profile.Name == "" {
		st.Profile.Name = DefaultBusinessName
	}

	for i := range st.Needs {
		n := &st.Needs[i]
		ensureID(&n.ID)
		if n.Status == "" {
			// Legacy documents carried an acquired flag instead of a status.
			if n.Acquired != nil && *n.Acquired {
				n.Status = StatusReady
			} else {
				n.Status = StatusPending
			}
		}
		n.Acquired = nil
		if n.Urgency < 1 || n.Urgency > 10 {
			n.Urgency = DefaultUrgency
		}
		if n.Price < 0 {
			n.Price = 0
		}
	}

	for i := range st.Notes {
		ensureID(&st.Notes[i].ID)
	}

	for i := range st.Tasks {
		t := &st.Tasks[i]
		ensureID(&t.ID)
		if t.Status == "" {
			t.Status = StatusPending
			if t.Done {
				t.Status = StatusReady
			}
		}
		// Status is the source of truth; the done mirror follows it.
		t.Done = t.Status == StatusReady
	}

	for i := range st.Recipes {
		ensureID(&st.Recipes[i].ID)
	}

	for i := range st.Products {
		p := &st.Products[i]
		ensureID(&p.ID)
		if p.Price < 0 {
			p.Price = 0
		}
		if p.Stock != nil && *p.Stock < 0 {
			zero := 0
			p.Stock = &zero
		}
	}

	for i := range st.Inventory {
		ensureID(&st.Inventory[i].ID)
	}

	for i := range st.Orders {
		o := &st.Orders[i]
		ensureID(&o.ID)
		if strings.TrimSpace(o.Customer) == "" {
			o.Customer = DefaultCustomer
		}
	}

	for i := range st.Reminders {
		ensureID(&st.Reminders[i].ID)
	}
}

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.New().String()
	}
}
