package state

import "slices"

// Clone returns a deep copy of the document. Readers always get a copy so
// that no collaborator can hold a pointer into the live document owned by
// the store.
func (st *AppState) Clone() *AppState {
	out := &AppState{
		Profile:   st.Profile,
		Needs:     cloneSlice(st.Needs, cloneNeed),
		Notes:     slices.Clone(st.Notes),
		Tasks:     cloneSlice(st.Tasks, cloneTask),
		Recipes:   cloneSlice(st.Recipes, cloneRecipe),
		Products:  cloneSlice(st.Products, cloneProduct),
		Inventory: slices.Clone(st.Inventory),
		Orders:    cloneSlice(st.Orders, cloneOrder),
		Reminders: slices.Clone(st.Reminders),
	}
	return out
}

func cloneSlice[T any](in []T, fn func(T) T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}

func cloneNeed(n NeedItem) NeedItem {
	if n.Acquired != nil {
		v := *n.Acquired
		n.Acquired = &v
	}
	return n
}

func cloneTask(t Task) Task {
	if t.Due != nil {
		v := *t.Due
		t.Due = &v
	}
	return t
}

func cloneRecipe(r Recipe) Recipe {
	r.Ingredients = slices.Clone(r.Ingredients)
	r.Steps = slices.Clone(r.Steps)
	return r
}

func cloneProduct(p Product) Product {
	if p.Stock != nil {
		v := *p.Stock
		p.Stock = &v
	}
	return p
}

func cloneOrder(o Order) Order {
	o.Items = slices.Clone(o.Items)
	return o
}
