package reconcile

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillkit/quill/pkg/core"
	"github.com/quillkit/quill/pkg/hosttest"
	"github.com/quillkit/quill/pkg/meta"
	"github.com/quillkit/quill/pkg/paths"
	"github.com/quillkit/quill/pkg/records"
)

const metaFile = "/vault/metadata.json"

type fixture struct {
	host   *hosttest.Host
	store  *records.Store
	agg    *meta.Aggregator
	engine *Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	host := hosttest.New("/vault")
	resolver := paths.NewResolver(host)
	agg := meta.NewAggregator(meta.Config{
		Host:        host,
		Paths:       resolver,
		QuietPeriod: time.Hour, // reconciliation must not rely on the debounce
	})
	store := records.NewStore(records.Config{
		Host:     host,
		Paths:    resolver,
		Sync:     agg,
		Blocking: true,
	})
	return &fixture{
		host:   host,
		store:  store,
		agg:    agg,
		engine: NewEngine(store, agg, nil),
	}
}

func TestEngine_PatchesMissingEntries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Records exist but metadata was never told (simulated drift: the store
	// is mutated with sync suppressed).
	require.NoError(t, f.store.Save(ctx, records.SaveRequest{ID: "n1", SkipSync: true, Title: strPtr("One")}))
	require.NoError(t, f.store.Save(ctx, records.SaveRequest{ID: "n2", SkipSync: true, Title: strPtr("Two")}))

	snap, err := f.engine.Run(ctx)
	require.NoError(t, err)

	assert.True(t, snap.HasNote("n1"))
	assert.True(t, snap.HasNote("n2"))

	// Exactly one corrective write of the full snapshot.
	assert.Equal(t, 1, f.host.Writes(metaFile))

	var onDisk core.Snapshot
	require.NoError(t, json.Unmarshal([]byte(f.host.Content(metaFile)), &onDisk))
	assert.True(t, onDisk.HasNote("n1"))
	assert.True(t, onDisk.HasNote("n2"))
}

func TestEngine_PatchesAllThreeLists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Cold start: records exist on disk, metadata file is absent.
	f.host.Put("/vault/notes/fav.json", `{"id":"fav","title":"Fav","updatedAt":5,"isFavorite":true,"isDeleted":false}`)
	f.host.Put("/vault/notes/gone.json", `{"id":"gone","title":"Gone","updatedAt":3,"isFavorite":false,"isDeleted":true,"deletedAt":4}`)
	require.NoError(t, f.store.Hydrate(ctx))

	snap, err := f.engine.Run(ctx)
	require.NoError(t, err)

	assert.True(t, snap.HasNote("fav"))
	assert.True(t, snap.HasFavorite("fav"))
	assert.True(t, snap.HasTrash("gone"))
	assert.False(t, snap.HasNote("gone"))
	assert.Equal(t, 1, f.host.Writes(metaFile))
}

func TestEngine_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Save(ctx, records.SaveRequest{ID: "n1", SkipSync: true, Title: strPtr("One")}))

	first, err := f.engine.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, f.host.Writes(metaFile))

	second, err := f.engine.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second, "second run produces an identical snapshot")
	assert.Equal(t, 1, f.host.Writes(metaFile), "second run issues zero writes")
}

func TestEngine_NeverRemovesMetadataOnlyEntries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Metadata references a record the store does not know about.
	stale := core.DefaultSnapshot()
	stale.Notes = []core.NoteEntry{{ID: "vanished", Title: "Stale", UpdatedAt: 1}}
	data, err := json.MarshalIndent(stale, "", "  ")
	require.NoError(t, err)
	f.host.Put(metaFile, string(data))

	require.NoError(t, f.store.Save(ctx, records.SaveRequest{ID: "real", SkipSync: true, Title: strPtr("Real")}))

	snap, err := f.engine.Run(ctx)
	require.NoError(t, err)

	assert.True(t, snap.HasNote("vanished"), "stale entries are left in place")
	assert.True(t, snap.HasNote("real"))
}

func TestEngine_SortsAfterPatching(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Save(ctx, records.SaveRequest{ID: "older", SkipSync: true, Title: strPtr("Older")}))
	require.NoError(t, f.store.Save(ctx, records.SaveRequest{ID: "newer", SkipSync: true, Title: strPtr("Newer")}))

	snap, err := f.engine.Run(ctx)
	require.NoError(t, err)

	require.Len(t, snap.Notes, 2)
	assert.Equal(t, "newer", snap.Notes[0].ID)
	assert.Equal(t, "older", snap.Notes[1].ID)
}

func strPtr(s string) *string { return &s }
