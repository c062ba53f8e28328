package records

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillkit/quill/pkg/core"
	"github.com/quillkit/quill/pkg/hosttest"
	"github.com/quillkit/quill/pkg/paths"
)

// syncRecorder records metadata propagation calls in order.
type syncRecorder struct {
	calls []string
}

func (r *syncRecorder) NoteUpserted(ctx context.Context, id, title string, updatedAt int64) {
	r.calls = append(r.calls, "upsert:"+id)
}

func (r *syncRecorder) FavoriteSet(ctx context.Context, id string, favorite bool) {
	r.calls = append(r.calls, fmt.Sprintf("favorite:%s:%t", id, favorite))
}

func (r *syncRecorder) TrashAdded(ctx context.Context, id, title string, deletedAt int64) {
	r.calls = append(r.calls, "trash-add:"+id)
}

func (r *syncRecorder) TrashRemoved(ctx context.Context, id string) {
	r.calls = append(r.calls, "trash-rm:"+id)
}

func newTestStore(t *testing.T) (*Store, *hosttest.Host, *syncRecorder) {
	t.Helper()
	host := hosttest.New("/vault")
	rec := &syncRecorder{}
	store := NewStore(Config{
		Host:     host,
		Paths:    paths.NewResolver(host),
		Sync:     rec,
		Blocking: true,
	})
	return store, host, rec
}

func TestStore_Create(t *testing.T) {
	store, host, sync := newTestStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, "Untitled")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	rec, ok := store.Load(id)
	require.True(t, ok)
	assert.Equal(t, "Untitled", rec.Title)
	assert.False(t, rec.IsFavorite)
	assert.False(t, rec.IsDeleted)
	assert.Nil(t, rec.DeletedAt)
	assert.True(t, rec.Valid())

	// Durable file written and metadata mirrored.
	assert.True(t, host.Exists("/vault/notes/"+id+".json"))
	assert.Equal(t, []string{"upsert:" + id}, sync.calls)
}

func TestStore_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("Preserves Unspecified Fields", func(t *testing.T) {
		store, _, _ := newTestStore(t)
		id, err := store.Create(ctx, "Keep Me")
		require.NoError(t, err)

		err = store.Save(ctx, SaveRequest{ID: id, Content: json.RawMessage(`{"v":1}`)})
		require.NoError(t, err)

		rec, ok := store.Load(id)
		require.True(t, ok)
		assert.Equal(t, "Keep Me", rec.Title)
		assert.JSONEq(t, `{"v":1}`, string(rec.Content))
	})

	t.Run("Upserts Missing Record With Defaults", func(t *testing.T) {
		store, _, _ := newTestStore(t)
		err := store.Save(ctx, SaveRequest{ID: "ghost", Content: json.RawMessage(`1`)})
		require.NoError(t, err)

		rec, ok := store.Load("ghost")
		require.True(t, ok)
		assert.False(t, rec.IsDeleted)
		assert.True(t, rec.Valid())
	})

	t.Run("Recomputes DeletedAt From IsDeleted", func(t *testing.T) {
		store, _, _ := newTestStore(t)
		id, err := store.Create(ctx, "x")
		require.NoError(t, err)

		deleted := true
		require.NoError(t, store.Save(ctx, SaveRequest{ID: id, IsDeleted: &deleted}))
		rec, _ := store.Load(id)
		require.True(t, rec.IsDeleted)
		require.NotNil(t, rec.DeletedAt)
		assert.True(t, rec.Valid())

		restored := false
		require.NoError(t, store.Save(ctx, SaveRequest{ID: id, IsDeleted: &restored}))
		rec, _ = store.Load(id)
		assert.False(t, rec.IsDeleted)
		assert.Nil(t, rec.DeletedAt)
		assert.True(t, rec.Valid())
	})

	t.Run("Trashed Edits Never Touch Metadata", func(t *testing.T) {
		store, _, sync := newTestStore(t)
		id, err := store.Create(ctx, "draft")
		require.NoError(t, err)
		require.NoError(t, store.MoveToTrash(ctx, id))

		before := len(sync.calls)
		require.NoError(t, store.Save(ctx, SaveRequest{ID: id, Content: json.RawMessage(`"edit"`)}))
		assert.Len(t, sync.calls, before, "no propagation for a trashed record")
	})

	t.Run("SkipSync Suppresses Propagation", func(t *testing.T) {
		store, _, sync := newTestStore(t)
		require.NoError(t, store.Save(ctx, SaveRequest{ID: "a", SkipSync: true}))
		assert.Empty(t, sync.calls)
	})
}

func TestStore_Lists(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	a, _ := store.Create(ctx, "alpha")
	b, _ := store.Create(ctx, "beta")
	c, _ := store.Create(ctx, "gamma")

	require.NoError(t, store.ToggleFavorite(ctx, b))
	require.NoError(t, store.MoveToTrash(ctx, c))

	t.Run("Active Excludes Deleted And Sorts By Recency", func(t *testing.T) {
		active := store.ListActive()
		require.Len(t, active, 2)
		// b was mutated after a, so it sorts first... favorite toggle does
		// not bump updatedAt, so creation order decides: b then a.
		assert.Equal(t, b, active[0].ID)
		assert.Equal(t, a, active[1].ID)
		for _, rec := range active {
			assert.False(t, rec.IsDeleted)
			assert.Empty(t, rec.Content, "list views must not carry content")
		}
	})

	t.Run("Favorites Are A Subset Of Active", func(t *testing.T) {
		favs := store.ListFavorites()
		require.Len(t, favs, 1)
		assert.Equal(t, b, favs[0].ID)
		assert.True(t, favs[0].IsFavorite)
	})

	t.Run("Trash Sorted By DeletedAt Desc", func(t *testing.T) {
		d, _ := store.Create(ctx, "delta")
		require.NoError(t, store.MoveToTrash(ctx, d))

		trash := store.ListTrash()
		require.Len(t, trash, 2)
		assert.Equal(t, d, trash[0].ID)
		assert.Equal(t, c, trash[1].ID)
		require.NotNil(t, trash[0].DeletedAt)
		require.NotNil(t, trash[1].DeletedAt)
		assert.GreaterOrEqual(t, *trash[0].DeletedAt, *trash[1].DeletedAt)
	})
}

func TestStore_Search(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	a, _ := store.Create(ctx, "Meeting Notes")
	_, _ = store.Create(ctx, "Groceries")
	trashed, _ := store.Create(ctx, "Old Meeting")
	require.NoError(t, store.MoveToTrash(ctx, trashed))

	require.NoError(t, store.Save(ctx, SaveRequest{ID: a, Content: json.RawMessage(`{"body":"x"}`)}))

	hits := store.Search("meeting")
	require.Len(t, hits, 1)
	assert.Equal(t, a, hits[0].ID)
	assert.NotEmpty(t, hits[0].Content, "search returns full records")
}

func TestStore_TrashLifecycle(t *testing.T) {
	store, host, sync := newTestStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, "doomed")
	require.NoError(t, err)

	require.NoError(t, store.MoveToTrash(ctx, id))
	rec, _ := store.Load(id)
	require.True(t, rec.IsDeleted)
	require.NotNil(t, rec.DeletedAt)
	assert.Empty(t, store.ListActive())
	assert.Len(t, store.ListTrash(), 1)

	t.Run("Restore Bumps UpdatedAt And Orders Propagation", func(t *testing.T) {
		before, _ := store.Load(id)
		sync.calls = nil

		require.NoError(t, store.RestoreFromTrash(ctx, id))
		after, _ := store.Load(id)
		assert.False(t, after.IsDeleted)
		assert.Nil(t, after.DeletedAt)
		assert.Greater(t, after.UpdatedAt, before.UpdatedAt)
		assert.Empty(t, store.ListTrash())

		// Removal strictly before re-add.
		require.Equal(t, []string{"trash-rm:" + id, "upsert:" + id}, sync.calls)
	})

	t.Run("Permanent Delete Removes Cache And File", func(t *testing.T) {
		require.NoError(t, store.MoveToTrash(ctx, id))
		sync.calls = nil

		require.NoError(t, store.PermanentlyDelete(ctx, id))
		_, ok := store.Load(id)
		assert.False(t, ok)
		assert.Empty(t, store.ListTrash())
		assert.False(t, host.Exists("/vault/notes/"+id+".json"))
		assert.Equal(t, []string{"trash-rm:" + id}, sync.calls)
	})

	t.Run("Permanent Delete Of Unknown Id Still Propagates", func(t *testing.T) {
		sync.calls = nil
		require.NoError(t, store.PermanentlyDelete(ctx, "never-existed"))
		assert.Equal(t, []string{"trash-rm:never-existed"}, sync.calls)
	})
}

func TestStore_DurableFailuresAreSwallowed(t *testing.T) {
	store, host, _ := newTestStore(t)
	ctx := context.Background()

	host.FailWrites = true

	id, err := store.Create(ctx, "survivor")
	require.NoError(t, err, "write failure must not fail the mutation")

	rec, ok := store.Load(id)
	require.True(t, ok, "cache stays authoritative")
	assert.Equal(t, "survivor", rec.Title)
	assert.False(t, host.Exists("/vault/notes/"+id+".json"))
}

func TestStore_RecoverFallback(t *testing.T) {
	store, host, _ := newTestStore(t)
	ctx := context.Background()

	host.Put("/vault/notes/cold.json", `{
  "id": "cold",
  "title": "From Disk",
  "content": {"k": 1},
  "updatedAt": 42,
  "isFavorite": false,
  "isDeleted": false
}`)

	// Load never consults the durable tier.
	_, ok := store.Load("cold")
	require.False(t, ok)

	rec, err := store.Recover(ctx, "cold")
	require.NoError(t, err)
	assert.Equal(t, "From Disk", rec.Title)

	// Re-inserted into the cache.
	_, ok = store.Load("cold")
	assert.True(t, ok)

	_, err = store.Recover(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestStore_Hydrate(t *testing.T) {
	store, host, _ := newTestStore(t)
	ctx := context.Background()

	host.Put("/vault/notes/a.json", `{"id":"a","title":"A","updatedAt":2,"isFavorite":false,"isDeleted":false}`)
	host.Put("/vault/notes/b.json", `{"id":"b","title":"B","updatedAt":1,"isFavorite":true,"isDeleted":false}`)
	host.Put("/vault/notes/broken.json", `{ not json`)
	host.Put("/vault/notes/readme.txt", `ignored`)

	require.NoError(t, store.Hydrate(ctx))

	assert.Equal(t, 2, store.Len())
	active := store.ListActive()
	require.Len(t, active, 2)
	assert.Equal(t, "a", active[0].ID)
	assert.Equal(t, "b", active[1].ID)
	assert.Len(t, store.ListFavorites(), 1)
}

func TestStore_AsyncWritesFlush(t *testing.T) {
	host := hosttest.New("/vault")
	store := NewStore(Config{
		Host:  host,
		Paths: paths.NewResolver(host),
	})

	id, err := store.Create(context.Background(), "async")
	require.NoError(t, err)

	store.Flush()
	assert.True(t, host.Exists("/vault/notes/"+id+".json"))
}
