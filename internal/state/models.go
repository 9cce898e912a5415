// Package state defines the AppState document: the single root data structure
// holding every entity the application tracks. The document is owned by the
// store package; nothing outside it mutates the live instance.
package state

import (
	"strings"
	"time"

	apperr "obrador/internal/errors"
)

// Status represents the done/ready state of a need or task. It is the single
// source of truth; legacy boolean mirrors are normalized against it on write.
type Status string

const (
	StatusPending Status = "Pending"
	StatusReady   Status = "Ready"
)

const (
	DefaultBusinessName = "Obrador"
	DefaultCustomer     = "Cliente"
	DefaultUrgency      = 5
)

// Profile holds the business identity shown across the application.
type Profile struct {
	Name        string `json:"name"`
	Logo        string `json:"logo,omitempty"` // inline data-URI image
	Description string `json:"description"`
	Contact     string `json:"contact"`
}

// NeedItem is a supply the business still has to acquire.
type NeedItem struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Urgency     int     `json:"urgency"`
	Status      Status  `json:"status,omitempty"`

	// Acquired is the legacy boolean mirror of Status. It may appear in
	// persisted data from older documents and is folded into Status on the
	// next normalization pass, never written back.
	Acquired *bool `json:"acquired,omitempty"`
}

// Note is a free-form annotation. Created is set once and never changes.
type Note struct {
	ID      string    `json:"id,omitempty"`
	Title   string    `json:"title"`
	Body    string    `json:"body"`
	Created time.Time `json:"created"`
}

// Task is a to-do with an optional due date. Done mirrors Status and is kept
// consistent with it on every write.
type Task struct {
	ID     string     `json:"id,omitempty"`
	Title  string     `json:"title"`
	Notes  string     `json:"notes"`
	Due    *time.Time `json:"due,omitempty"`
	Status Status     `json:"status,omitempty"`
	Done   bool       `json:"done"`
}

// Recipe stores ingredients and steps as ordered lines.
type Recipe struct {
	ID          string   `json:"id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
}

// Product is a sellable item. A nil Stock means stock is not tracked for the
// product; order placement only deducts from tracked stock.
type Product struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       *int    `json:"stock,omitempty"`
	Image       string  `json:"image,omitempty"` // inline data-URI image
}

// InventoryItem tracks a raw material on hand.
type InventoryItem struct {
	ID       string  `json:"id,omitempty"`
	ItemName string  `json:"itemName"`
	Qty      float64 `json:"qty"`
	Unit     string  `json:"unit"`
}

// OrderLine is one product line in a customer order.
type OrderLine struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

// Order is a customer order. Created is immutable after placement.
type Order struct {
	ID       string      `json:"id,omitempty"`
	Customer string      `json:"customer"`
	Items    []OrderLine `json:"items"`
	Created  time.Time   `json:"created"`
}

// Reminder is a time-based notification. Fired transitions false to true
// exactly once and never reverts.
type Reminder struct {
	ID    string    `json:"id,omitempty"`
	Title string    `json:"title"`
	Notes string    `json:"notes"`
	When  time.Time `json:"when"`
	Fired bool      `json:"fired"`
}

// AppState is the root document. Collection order is insertion order and is
// load-bearing: items are addressed by index in edit and delete operations.
type AppState struct {
	Profile   Profile         `json:"profile"`
	Needs     []NeedItem      `json:"needs"`
	Notes     []Note          `json:"notes"`
	Tasks     []Task          `json:"tasks"`
	Recipes   []Recipe        `json:"recipes"`
	Products  []Product       `json:"products"`
	Inventory []InventoryItem `json:"inventory"`
	Orders    []Order         `json:"orders"`
	Reminders []Reminder      `json:"reminders"`
}

// Default returns a fresh document with defaults applied.
func Default() *AppState {
	return &AppState{
		Profile: Profile{
			Name: DefaultBusinessName,
		},
		Needs:     []NeedItem{},
		Notes:     []Note{},
		Tasks:     []Task{},
		Recipes:   []Recipe{},
		Products:  []Product{},
		Inventory: []InventoryItem{},
		Orders:    []Order{},
		Reminders: []Reminder{},
	}
}

// SplitLines splits textarea-style input into trimmed lines, dropping blanks.
// Used for recipe ingredients and steps.
func SplitLines(s string) []string {
	out := []string{}
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// Validate checks a NeedItem before creation or replacement.
func (n *NeedItem) Validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return apperr.ValidationError("need name is required")
	}
	if n.Price < 0 {
		return apperr.ValidationError("need price must be non-negative")
	}
	if n.Urgency != 0 && (n.Urgency < 1 || n.Urgency > 10) {
		return apperr.ValidationError("need urgency must be between 1 and 10")
	}
	return nil
}

// Validate checks a Task before creation or replacement.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return apperr.ValidationError("task title is required")
	}
	return nil
}

// Validate checks a Recipe before creation or replacement.
func (r *Recipe) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return apperr.ValidationError("recipe title is required")
	}
	return nil
}

// Validate checks a Product before creation or replacement.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return apperr.ValidationError("product name is required")
	}
	if p.Price < 0 {
		return apperr.ValidationError("product price must be non-negative")
	}
	if p.Stock != nil && *p.Stock < 0 {
		return apperr.ValidationError("product stock must be non-negative")
	}
	return nil
}

// Validate checks an InventoryItem before creation or replacement.
func (i *InventoryItem) Validate() error {
	if strings.TrimSpace(i.ItemName) == "" {
		return apperr.ValidationError("inventory item name is required")
	}
	return nil
}

// Validate checks a Reminder before creation.
func (r *Reminder) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return apperr.ValidationError("reminder title is required")
	}
	return nil
}
