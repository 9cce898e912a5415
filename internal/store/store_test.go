package store

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	apperr "obrador/internal/errors"
	"obrador/internal/state"
	"obrador/internal/storage"
)

func newTestStore(t *testing.T) (*Store, *storage.MemorySlot) {
	t.Helper()
	slot := storage.NewMemorySlot()
	st := New(slot)
	st.Load(t.Context())
	t.Cleanup(func() { _ = st.Close() })
	return st, slot
}

func TestLoad_StartsFromDefaultsWhenSlotEmpty(t *testing.T) {
	st, _ := newTestStore(t)

	doc := st.State()
	require.Equal(t, state.DefaultBusinessName, doc.Profile.Name)
	require.Empty(t, doc.Needs)
	require.Nil(t, st.LastSaved())
}

func TestLoad_MergesStoredStateAndNormalizes(t *testing.T) {
	slot := storage.NewMemorySlot()
	slot.Seed([]byte(`{"needs":[{"name":"harina","urgency":0,"acquired":true}]}`))

	st := New(slot)
	st.Load(t.Context())
	t.Cleanup(func() { _ = st.Close() })

	doc := st.State()
	require.Len(t, doc.Needs, 1)
	require.Equal(t, state.StatusReady, doc.Needs[0].Status)
	require.Nil(t, doc.Needs[0].Acquired)
	require.Equal(t, state.DefaultUrgency, doc.Needs[0].Urgency)
	require.NotEmpty(t, doc.Needs[0].ID)
}

func TestLoad_MalformedStateDegradesToDefaults(t *testing.T) {
	slot := storage.NewMemorySlot()
	slot.Seed([]byte(`{broken`))

	st := New(slot)
	st.Load(t.Context())
	t.Cleanup(func() { _ = st.Close() })

	require.Equal(t, state.DefaultBusinessName, st.State().Profile.Name)
}

func TestLoad_StorageErrorDegradesToDefaults(t *testing.T) {
	slot := storage.NewMemorySlot()
	slot.ReadErr = errors.New("disk on fire")

	st := New(slot)
	st.Load(t.Context())
	t.Cleanup(func() { _ = st.Close() })

	require.Empty(t, st.State().Needs)
}

func TestCreateNeed_PersistsSynchronously(t *testing.T) {
	st, slot := newTestStore(t)
	ctx := t.Context()

	idx, err := st.CreateNeed(ctx, state.NeedItem{Name: "mantequilla", Urgency: 7})
	require.NoError(t, err)
	require.Equal(t, 0, idx)
	require.Equal(t, 1, slot.Writes, "every mutation writes through")
	require.NotNil(t, st.LastSaved())

	// A second store loading from the same slot sees the change.
	st2 := New(slot)
	st2.Load(ctx)
	require.Len(t, st2.State().Needs, 1)
	require.Equal(t, "mantequilla", st2.State().Needs[0].Name)
}

func TestCreateNeed_ValidationRejectsWithoutSideEffects(t *testing.T) {
	st, slot := newTestStore(t)

	idx, err := st.CreateNeed(t.Context(), state.NeedItem{Name: "   "})
	require.Error(t, err)
	require.True(t, apperr.IsCategory(err, apperr.CategoryValidation))
	require.Equal(t, -1, idx)
	require.Empty(t, st.State().Needs)
	require.Zero(t, slot.Writes)
}

func TestUpdateNeed_OutOfRangeIndex(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := t.Context()

	_, err := st.CreateNeed(ctx, state.NeedItem{Name: "a", Urgency: 3})
	require.NoError(t, err)

	err = st.UpdateNeed(ctx, 5, state.NeedItem{Name: "b", Urgency: 3})
	require.True(t, apperr.IsCategory(err, apperr.CategoryValidation))

	err = st.UpdateNeed(ctx, -1, state.NeedItem{Name: "b", Urgency: 3})
	require.True(t, apperr.IsCategory(err, apperr.CategoryValidation))
}

func TestUpdateNeed_PreservesID(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := t.Context()

	_, err := st.CreateNeed(ctx, state.NeedItem{Name: "a", Urgency: 3})
	require.NoError(t, err)
	id := st.State().Needs[0].ID

	require.NoError(t, st.UpdateNeed(ctx, 0, state.NeedItem{Name: "renamed", Urgency: 4}))
	require.Equal(t, id, st.State().Needs[0].ID)
	require.Equal(t, "renamed", st.State().Needs[0].Name)
}

func TestDeleteNeed_ShiftsSubsequentIndices(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := t.Context()

	for _, name := range []string{"uno", "dos", "tres"} {
		_, err := st.CreateNeed(ctx, state.NeedItem{Name: name, Urgency: 3})
		require.NoError(t, err)
	}

	require.NoError(t, st.DeleteNeed(ctx, 1))

	doc := st.State()
	require.Len(t, doc.Needs, 2)
	require.Equal(t, "uno", doc.Needs[0].Name)
	require.Equal(t, "tres", doc.Needs[1].Name)
}

func TestSetNeedStatus_RejectsUnknownStatus(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := t.Context()

	_, err := st.CreateNeed(ctx, state.NeedItem{Name: "a", Urgency: 3})
	require.NoError(t, err)

	err = st.SetNeedStatus(ctx, 0, state.Status("Maybe"))
	require.True(t, apperr.IsCategory(err, apperr.CategoryValidation))

	require.NoError(t, st.SetNeedStatus(ctx, 0, state.StatusReady))
	require.Equal(t, state.StatusReady, st.State().Needs[0].Status)
}

func TestBulkAddNeeds_DeduplicatesByFoldedName(t *testing.T) {
	st, slot := newTestStore(t)
	ctx := t.Context()

	_, err := st.CreateNeed(ctx, state.NeedItem{Name: "Harina", Urgency: 3})
	require.NoError(t, err)
	writesBefore := slot.Writes

	added, err := st.BulkAddNeeds(ctx, []state.NeedItem{
		{Name: "harina"},      // duplicate of existing
		{Name: "  AZÚCAR  "},  // new, trimmed
		{Name: "azúcar"},      // duplicate within batch
		{Name: ""},            // blank, skipped
		{Name: "levadura"},
	})
	require.NoError(t, err)
	require.Equal(t, 2, added)
	require.Len(t, st.State().Needs, 3)
	require.Equal(t, writesBefore+1, slot.Writes, "bulk add is a single persist")

	// Fully duplicate batch does not touch storage.
	added, err = st.BulkAddNeeds(ctx, []state.NeedItem{{Name: "HARINA"}})
	require.NoError(t, err)
	require.Zero(t, added)
	require.Equal(t, writesBefore+1, slot.Writes)
}

func TestMutation_PersistFailureKeepsInMemoryChange(t *testing.T) {
	st, slot := newTestStore(t)
	ctx := t.Context()

	slot.WriteErr = errors.New("disk full")

	_, err := st.CreateNeed(ctx, state.NeedItem{Name: "canela", Urgency: 3})
	require.Error(t, err)
	require.True(t, apperr.IsCategory(err, apperr.CategoryPersistence))

	// The in-memory document diverges from durable state until the next
	// successful save. There is no rollback.
	require.Len(t, st.State().Needs, 1)
	require.Nil(t, st.LastSaved())
	require.Nil(t, slot.Bytes())
}

func TestCreateNote_StampsCreationTime(t *testing.T) {
	slot := storage.NewMemorySlot()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	st := New(slot, WithClock(clock))
	st.Load(t.Context())
	t.Cleanup(func() { _ = st.Close() })

	_, err := st.CreateNote(t.Context(), state.Note{Title: "idea", Body: "croissants"})
	require.NoError(t, err)
	require.Equal(t, clock.Now(), st.State().Notes[0].Created)
}

func TestSetTaskStatus_KeepsDoneMirrorInSync(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := t.Context()

	_, err := st.CreateTask(ctx, state.Task{Title: "hornear"})
	require.NoError(t, err)
	require.False(t, st.State().Tasks[0].Done)

	require.NoError(t, st.SetTaskStatus(ctx, 0, state.StatusReady))
	doc := st.State()
	require.Equal(t, state.StatusReady, doc.Tasks[0].Status)
	require.True(t, doc.Tasks[0].Done)
}

func TestUpdateProfile_BlankNameFallsBack(t *testing.T) {
	st, _ := newTestStore(t)

	require.NoError(t, st.UpdateProfile(t.Context(), state.Profile{Name: "  "}))
	require.Equal(t, state.DefaultBusinessName, st.State().Profile.Name)
}

func TestState_ReturnsIndependentCopy(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := t.Context()

	_, err := st.CreateNeed(ctx, state.NeedItem{Name: "a", Urgency: 3})
	require.NoError(t, err)

	doc := st.State()
	doc.Needs[0].Name = "tampered"
	require.Equal(t, "a", st.State().Needs[0].Name)
}
