package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	apperr "obrador/internal/errors"
	"obrador/internal/state"
	"obrador/internal/storage"
)

func TestSnapshot_ExportImportRoundTrip(t *testing.T) {
	src, _ := newTestStore(t)
	ctx := t.Context()

	require.NoError(t, src.UpdateProfile(ctx, state.Profile{Name: "La Tahona"}))
	_, err := src.CreateNeed(ctx, state.NeedItem{Name: "harina", Urgency: 8})
	require.NoError(t, err)
	_, err = src.CreateRecipe(ctx, state.Recipe{Title: "Pan rústico", Ingredients: []string{"harina", "agua"}})
	require.NoError(t, err)

	blob, err := src.ExportSnapshot()
	require.NoError(t, err)

	dst, _ := newTestStore(t)
	require.NoError(t, dst.ImportSnapshot(ctx, blob))

	doc := dst.State()
	require.Equal(t, "La Tahona", doc.Profile.Name)
	require.Len(t, doc.Needs, 1)
	require.Equal(t, "harina", doc.Needs[0].Name)
	require.Len(t, doc.Recipes, 1)
	require.Equal(t, []string{"harina", "agua"}, doc.Recipes[0].Ingredients)
}

func TestImportSnapshot_ParseErrorLeavesStateUntouched(t *testing.T) {
	st, slot := newTestStore(t)
	ctx := t.Context()

	_, err := st.CreateNeed(ctx, state.NeedItem{Name: "keep", Urgency: 3})
	require.NoError(t, err)
	writes := slot.Writes

	err = st.ImportSnapshot(ctx, []byte(`{"needs": garbage`))
	require.Error(t, err)
	require.True(t, apperr.IsCategory(err, apperr.CategoryParse))
	require.Len(t, st.State().Needs, 1)
	require.Equal(t, writes, slot.Writes)
}

func TestImportSnapshot_NormalizesLegacyShapes(t *testing.T) {
	st, _ := newTestStore(t)

	blob := []byte(`{"needs":[{"name":"vieja","acquired":true}],"tasks":[{"title":"t","done":true}]}`)
	require.NoError(t, st.ImportSnapshot(t.Context(), blob))

	doc := st.State()
	require.Equal(t, state.StatusReady, doc.Needs[0].Status)
	require.Nil(t, doc.Needs[0].Acquired)
	require.Equal(t, state.StatusReady, doc.Tasks[0].Status)
}

func TestBackupFileName_UsesBusinessName(t *testing.T) {
	st, _ := newTestStore(t)
	require.NoError(t, st.UpdateProfile(t.Context(), state.Profile{Name: "La Tahona"}))
	require.Equal(t, "La Tahona_backup.json", st.BackupFileName())
}

func TestResetAll_ClearsSlotAndRestoresDefaults(t *testing.T) {
	st, slot := newTestStore(t)
	ctx := t.Context()

	_, err := st.CreateNeed(ctx, state.NeedItem{Name: "harina", Urgency: 3})
	require.NoError(t, err)
	require.NotNil(t, slot.Bytes())

	require.NoError(t, st.ResetAll(ctx))

	require.Nil(t, slot.Bytes())
	require.Empty(t, st.State().Needs)
	require.Equal(t, state.DefaultBusinessName, st.State().Profile.Name)
	require.Nil(t, st.LastSaved())

	// A fresh store loading the cleared slot also starts from defaults.
	st2 := New(storage.NewMemorySlot())
	st2.Load(ctx)
	require.Empty(t, st2.State().Needs)
}
