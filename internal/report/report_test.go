package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"obrador/internal/state"
)

func testDoc(now time.Time) *state.AppState {
	doc := state.Default()
	doc.Profile.Name = "La Tahona"
	doc.Profile.Description = "Pan de masa madre"
	doc.Needs = []state.NeedItem{
		{Name: "harina", Status: state.StatusPending},
		{Name: "sal", Status: state.StatusReady},
	}
	doc.Tasks = []state.Task{
		{Title: "amasar", Status: state.StatusPending},
	}
	doc.Recipes = []state.Recipe{{Title: "rústico"}}
	doc.Reminders = []state.Reminder{
		{Title: "hornear", When: now.Add(time.Hour)},
		{Title: "pasado", When: now.Add(-time.Hour)},
		{Title: "ya visto", When: now.Add(2 * time.Hour), Fired: true},
	}
	return doc
}

func TestBuild_CountsAndUpcoming(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	s := Build(testDoc(now), now)

	require.Equal(t, "La Tahona", s.BusinessName)
	require.Equal(t, 1, s.NeedsPending)
	require.Equal(t, 2, s.NeedsTotal)
	require.Equal(t, 1, s.TasksPending)
	require.Equal(t, 1, s.RecipeCount)
	require.Len(t, s.UpcomingReminders, 1, "only future unfired reminders are upcoming")
	require.Equal(t, "hornear", s.UpcomingReminders[0].Title)
}

func TestBuild_EmptyDocumentFallsBackToDefaultName(t *testing.T) {
	doc := state.Default()
	doc.Profile.Name = ""
	s := Build(doc, time.Now())
	require.Equal(t, state.DefaultBusinessName, s.BusinessName)
}

func TestMarkdown_ContainsSections(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	md := Build(testDoc(now), now).Markdown()

	require.Contains(t, md, "# La Tahona")
	require.Contains(t, md, "Necesidades pendientes: 1 de 2")
	require.Contains(t, md, "## Próximos recordatorios")
	require.Contains(t, md, "hornear")
	require.NotContains(t, md, "pasado")
}

func TestHTML_RendersMarkdown(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	html, err := Build(testDoc(now), now).HTML()
	require.NoError(t, err)
	require.Contains(t, html, "<h1")
	require.Contains(t, html, "La Tahona")
}
