package typed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillkit/quill/pkg/core"
	"github.com/quillkit/quill/pkg/hosttest"
	"github.com/quillkit/quill/pkg/paths"
	"github.com/quillkit/quill/pkg/records"
)

type journalEntry struct {
	Mood string   `json:"mood"`
	Tags []string `json:"tags"`
}

func newTestStore(t *testing.T) *Store[journalEntry] {
	t.Helper()
	host := hosttest.New("/vault")
	base := records.NewStore(records.Config{
		Host:     host,
		Paths:    paths.NewResolver(host),
		Blocking: true,
	})
	return NewStore[journalEntry](base)
}

func TestStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, "Monday", journalEntry{Mood: "good", Tags: []string{"work"}})
	require.NoError(t, err)

	note, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Monday", note.Title)
	assert.Equal(t, "good", note.Data.Mood)
	assert.Equal(t, []string{"work"}, note.Data.Tags)
}

func TestStore_SavePreservesRecordFields(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, "Tuesday", journalEntry{Mood: "ok"})
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, id, journalEntry{Mood: "great"}))

	note, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Tuesday", note.Title)
	assert.Equal(t, "great", note.Data.Mood)
}

func TestStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestStore_EmptyContentDecodesToZeroValue(t *testing.T) {
	host := hosttest.New("/vault")
	base := records.NewStore(records.Config{
		Host:     host,
		Paths:    paths.NewResolver(host),
		Blocking: true,
	})
	store := NewStore[journalEntry](base)
	ctx := context.Background()

	id, err := base.Create(ctx, "Bare")
	require.NoError(t, err)

	note, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, note.Data.Mood)
	assert.Nil(t, note.Data.Tags)
}
