// Package reconcile repairs drift between the record store and the metadata
// snapshot. It runs once per process start, after the record store has been
// hydrated, and only ever adds: entries present in metadata but unknown to
// the record store are presumed stale-but-harmless and left in place.
package reconcile

import (
	"context"
	"log/slog"

	"github.com/quillkit/quill/pkg/core"
	"github.com/quillkit/quill/pkg/meta"
	"github.com/quillkit/quill/pkg/records"
)

// Engine diffs the metadata lists against the record store's authoritative
// views and patches the snapshot additively.
type Engine struct {
	records *records.Store
	meta    *meta.Aggregator
	logger  *slog.Logger
}

// NewEngine creates a reconciliation engine.
func NewEngine(store *records.Store, agg *meta.Aggregator, logger *slog.Logger) *Engine {
	return &Engine{records: store, meta: agg, logger: logger}
}

// Run performs the reconciliation pass and returns the (possibly patched)
// snapshot. When any list was patched it issues exactly one corrective write
// of the full snapshot, bypassing the per-category helpers. Idempotent: a
// second consecutive run finds no diffs and issues no write. Never fails
// destructively; at worst it returns the snapshot as already loaded.
func (e *Engine) Run(ctx context.Context) (core.Snapshot, error) {
	snap, err := e.meta.Snapshot(ctx)
	if err != nil {
		return core.Snapshot{}, err
	}

	patched := false

	for _, rec := range e.records.ListActive() {
		if !snap.HasNote(rec.ID) {
			snap.Notes = append(snap.Notes, core.NoteEntry{
				ID:        rec.ID,
				Title:     rec.Title,
				UpdatedAt: rec.UpdatedAt,
			})
			patched = true
		}
	}

	for _, rec := range e.records.ListFavorites() {
		if !snap.HasFavorite(rec.ID) {
			snap.Favorites = append(snap.Favorites, rec.ID)
			patched = true
		}
	}

	for _, rec := range e.records.ListTrash() {
		if !snap.HasTrash(rec.ID) {
			deletedAt := rec.UpdatedAt
			if rec.DeletedAt != nil {
				deletedAt = *rec.DeletedAt
			}
			snap.Trash = append(snap.Trash, core.TrashEntry{
				ID:        rec.ID,
				Title:     rec.Title,
				DeletedAt: deletedAt,
			})
			patched = true
		}
	}

	e.logStale(snap)

	if !patched {
		return snap, nil
	}

	meta.SortNotes(snap.Notes)
	meta.SortTrash(snap.Trash)

	if e.logger != nil {
		e.logger.Info("metadata reconciled",
			"notes", len(snap.Notes),
			"favorites", len(snap.Favorites),
			"trash", len(snap.Trash),
		)
	}

	if err := e.meta.Persist(ctx, snap); err != nil {
		if e.logger != nil {
			e.logger.Error("corrective metadata write failed", "error", err)
		}
		// Non-fatal: the patched snapshot is still served from memory.
	}
	return snap, nil
}

// logStale surfaces metadata entries that reference records the store does
// not know about. Pruning them is deliberately out of scope; logging keeps
// the decision observable.
func (e *Engine) logStale(snap core.Snapshot) {
	if e.logger == nil {
		return
	}
	for _, n := range snap.Notes {
		if _, ok := e.records.Load(n.ID); !ok {
			e.logger.Debug("metadata references unknown record", "list", "notes", "id", n.ID)
		}
	}
	for _, t := range snap.Trash {
		if _, ok := e.records.Load(t.ID); !ok {
			e.logger.Debug("metadata references unknown record", "list", "trash", "id", t.ID)
		}
	}
}
