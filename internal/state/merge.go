package state

import (
	"encoding/json"

	apperr "obrador/internal/errors"
)

// partial mirrors AppState with pointer fields so that presence in the raw
// document can be distinguished from absence. Best-effort merge: fields that
// the document carries replace the current value, fields it omits keep theirs.
type partial struct {
	Profile   *Profile         `json:"profile"`
	Needs     *[]NeedItem      `json:"needs"`
	Notes     *[]Note          `json:"notes"`
	Tasks     *[]Task          `json:"tasks"`
	Recipes   *[]Recipe        `json:"recipes"`
	Products  *[]Product       `json:"products"`
	Inventory *[]InventoryItem `json:"inventory"`
	Orders    *[]Order         `json:"orders"`
	Reminders *[]Reminder      `json:"reminders"`
}

// MergeJSON merges a raw document into dst with best-effort forward-compatible
// semantics. On parse failure dst is left untouched and a parse-category
// error is returned.
func MergeJSON(dst *AppState, data []byte) error {
	var p partial
	if err := json.Unmarshal(data, &p); err != nil {
		return apperr.ParseError(err, "malformed state document")
	}

	if p.Profile != nil {
		dst.Profile = *p.Profile
	}
	if p.Needs != nil {
		dst.Needs = *p.Needs
	}
	if p.Notes != nil {
		dst.Notes = *p.Notes
	}
	if p.Tasks != nil {
		dst.Tasks = *p.Tasks
	}
	if p.Recipes != nil {
		dst.Recipes = *p.Recipes
	}
	if p.Products != nil {
		dst.Products = *p.Products
	}
	if p.Inventory != nil {
		dst.Inventory = *p.Inventory
	}
	if p.Orders != nil {
		dst.Orders = *p.Orders
	}
	if p.Reminders != nil {
		dst.Reminders = *p.Reminders
	}
	return nil
}
