// Package report renders a human-readable summary of the business document.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"obrador/internal/state"
)

// Summary holds the counts and highlights shown in a status report.
type Summary struct {
	BusinessName      string
	Description       string
	NeedsPending      int
	NeedsTotal        int
	TasksPending      int
	TasksTotal        int
	RecipeCount       int
	ProductCount      int
	InventoryCount    int
	OrderCount        int
	UpcomingReminders []state.Reminder
	GeneratedAt       time.Time
}

// Build computes a summary from a document snapshot.
func Build(doc *state.AppState, now time.Time) Summary {
	s := Summary{
		BusinessName:   doc.Profile.Name,
		Description:    doc.Profile.Description,
		NeedsTotal:     len(doc.Needs),
		TasksTotal:     len(doc.Tasks),
		RecipeCount:    len(doc.Recipes),
		ProductCount:   len(doc.Products),
		InventoryCount: len(doc.Inventory),
		OrderCount:     len(doc.Orders),
		GeneratedAt:    now,
	}
	if s.BusinessName == "" {
		s.BusinessName = state.DefaultBusinessName
	}
	for _, n := range doc.Needs {
		if n.Status == state.StatusPending {
			s.NeedsPending++
		}
	}
	for _, t := range doc.Tasks {
		if t.Status == state.StatusPending {
			s.TasksPending++
		}
	}
	for _, r := range doc.Reminders {
		if !r.Fired && r.When.After(now) {
			s.UpcomingReminders = append(s.UpcomingReminders, r)
		}
	}
	return s
}

// Markdown renders the summary as a Markdown document.
func (s Summary) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", s.BusinessName)
	if s.Description != "" {
		fmt.Fprintf(&b, "_%s_\n\n", s.Description)
	}
	fmt.Fprintf(&b, "Generated %s\n\n", s.GeneratedAt.Format("2006-01-02 15:04"))

	b.WriteString("## Estado\n\n")
	fmt.Fprintf(&b, "- Necesidades pendientes: %d de %d\n", s.NeedsPending, s.NeedsTotal)
	fmt.Fprintf(&b, "- Tareas pendientes: %d de %d\n", s.TasksPending, s.TasksTotal)
	fmt.Fprintf(&b, "- Recetas: %d\n", s.RecipeCount)
	fmt.Fprintf(&b, "- Productos: %d\n", s.ProductCount)
	fmt.Fprintf(&b, "- Inventario: %d\n", s.InventoryCount)
	fmt.Fprintf(&b, "- Pedidos: %d\n", s.OrderCount)

	if len(s.UpcomingReminders) > 0 {
		b.WriteString("\n## Próximos recordatorios\n\n")
		for _, r := range s.UpcomingReminders {
			fmt.Fprintf(&b, "- %s (%s)\n", r.Title, r.When.Format("2006-01-02 15:04"))
		}
	}
	return b.String()
}

// HTML renders the Markdown summary to HTML.
func (s Summary) HTML() (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(s.Markdown()), &buf); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return buf.String(), nil
}
