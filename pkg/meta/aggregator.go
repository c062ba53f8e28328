// Package meta owns the consolidated metadata snapshot: the derived state
// (active record, recents, favorites, trash, sidebar layout) used to render
// list views without querying the record store. All mutations go through the
// aggregator, which coalesces bursts into a single debounced write and skips
// writes whose serialized form matches the last value actually persisted.
package meta

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/quillkit/quill/pkg/core"
	"github.com/quillkit/quill/pkg/paths"
)

// DefaultQuietPeriod is the debounce window after the last mutation before
// the snapshot is committed to the durable tier.
const DefaultQuietPeriod = time.Second

// Config holds the configuration for the aggregator.
type Config struct {
	Host   core.Host
	Paths  *paths.Resolver
	Logger *slog.Logger

	// QuietPeriod overrides DefaultQuietPeriod (tests use a short one).
	QuietPeriod time.Duration
}

// Aggregator is the single writer of the metadata file.
type Aggregator struct {
	host   core.Host
	paths  *paths.Resolver
	logger *slog.Logger
	quiet  time.Duration

	mu       sync.Mutex
	snap     *core.Snapshot
	timer    *time.Timer
	baseline []byte // serialization of the last persisted snapshot
}

// NewAggregator creates an aggregator. The snapshot is loaded lazily on the
// first read or mutation.
func NewAggregator(cfg Config) *Aggregator {
	quiet := cfg.QuietPeriod
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &Aggregator{
		host:   cfg.Host,
		paths:  cfg.Paths,
		logger: cfg.Logger,
		quiet:  quiet,
	}
}

// Snapshot returns a copy of the current snapshot, loading it from the
// durable tier on first use.
func (a *Aggregator) Snapshot(ctx context.Context) (core.Snapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.ensureLoaded(ctx); err != nil {
		return core.Snapshot{}, err
	}
	return a.snap.Clone(), nil
}

// Replace swaps in a whole new snapshot and schedules a debounced write.
func (a *Aggregator) Replace(ctx context.Context, snap core.Snapshot) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := snap.Clone()
	a.snap = &s
	a.scheduleLocked()
}

// Persist replaces the snapshot and writes it immediately, bypassing the
// debounce. Used by the reconciler for its single corrective write.
func (a *Aggregator) Persist(ctx context.Context, snap core.Snapshot) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := snap.Clone()
	a.snap = &s

	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	return a.writeLocked(ctx)
}

// SetActiveRecord records which note is open in the editor.
func (a *Aggregator) SetActiveRecord(ctx context.Context, id *string) {
	a.mutate(ctx, func(s *core.Snapshot) {
		if id == nil {
			s.ActiveRecordID = nil
			return
		}
		v := *id
		s.ActiveRecordID = &v
	})
}

// SetSidebar stores the sidebar layout state.
func (a *Aggregator) SetSidebar(ctx context.Context, collapsed bool, width int) {
	a.mutate(ctx, func(s *core.Snapshot) {
		s.Sidebar = core.Sidebar{Collapsed: collapsed, Width: width}
	})
}

// AddRecentID prepends id to the recents list, de-duplicated and capped at
// core.MaxRecentIDs; the oldest entry beyond the cap is dropped.
func (a *Aggregator) AddRecentID(ctx context.Context, id string) {
	a.mutate(ctx, func(s *core.Snapshot) {
		out := make([]string, 0, len(s.RecentIDs)+1)
		out = append(out, id)
		for _, r := range s.RecentIDs {
			if r != id {
				out = append(out, r)
			}
		}
		if len(out) > core.MaxRecentIDs {
			out = out[:core.MaxRecentIDs]
		}
		s.RecentIDs = out
	})
}

// NoteUpserted implements records.MetadataSync.
func (a *Aggregator) NoteUpserted(ctx context.Context, id, title string, updatedAt int64) {
	a.mutate(ctx, func(s *core.Snapshot) {
		upsertNote(s, core.NoteEntry{ID: id, Title: title, UpdatedAt: updatedAt})
	})
}

// FavoriteSet implements records.MetadataSync.
func (a *Aggregator) FavoriteSet(ctx context.Context, id string, favorite bool) {
	a.mutate(ctx, func(s *core.Snapshot) {
		s.Favorites = removeString(s.Favorites, id)
		if favorite {
			s.Favorites = append(s.Favorites, id)
		}
	})
}

// TrashAdded implements records.MetadataSync. Trash membership is mutually
// exclusive with the notes and favorites lists.
func (a *Aggregator) TrashAdded(ctx context.Context, id, title string, deletedAt int64) {
	a.mutate(ctx, func(s *core.Snapshot) {
		s.Notes = removeNote(s.Notes, id)
		s.Favorites = removeString(s.Favorites, id)
		upsertTrash(s, core.TrashEntry{ID: id, Title: title, DeletedAt: deletedAt})
	})
}

// TrashRemoved implements records.MetadataSync.
func (a *Aggregator) TrashRemoved(ctx context.Context, id string) {
	a.mutate(ctx, func(s *core.Snapshot) {
		s.Trash = removeTrash(s.Trash, id)
	})
}

// Flush cancels any pending timer and commits the snapshot now if it differs
// from the last persisted value. Called on engine shutdown and by tests.
func (a *Aggregator) Flush(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	if a.snap == nil {
		return nil // nothing was ever loaded or mutated
	}
	return a.writeLocked(ctx)
}

// mutate applies fn under the lock and (re)starts the quiet-period timer.
// The in-memory snapshot is updated immediately, so reads in the same tick
// observe the mutation even though the write is still pending.
func (a *Aggregator) mutate(ctx context.Context, fn func(*core.Snapshot)) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.ensureLoaded(ctx); err != nil {
		// Degrade to defaults: the mutation must not be lost.
		def := core.DefaultSnapshot()
		a.snap = &def
	}
	fn(a.snap)
	a.scheduleLocked()
}

// scheduleLocked restarts the single-slot debounce timer. Reset semantics:
// a new mutation before the timer fires cancels and restarts the wait.
func (a *Aggregator) scheduleLocked() {
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.quiet, func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		a.timer = nil
		if err := a.writeLocked(context.Background()); err != nil && a.logger != nil {
			a.logger.Error("metadata write failed", "error", err)
		}
	})
}

// writeLocked serializes the snapshot and persists it unless the bytes match
// the last value actually persisted.
func (a *Aggregator) writeLocked(ctx context.Context) error {
	if a.snap == nil {
		return nil
	}

	data, err := json.MarshalIndent(a.snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize metadata: %w", err)
	}
	if bytes.Equal(data, a.baseline) {
		return nil // no-op update, skip the write
	}

	set, err := a.paths.Resolve(ctx)
	if err != nil {
		return err
	}
	if err := a.host.WriteFile(ctx, set.MetadataFile, string(data)); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	a.baseline = data
	return nil
}

// ensureLoaded reads the metadata file on first use. A missing file yields
// defaults; a corrupt file is replaced with defaults which are persisted
// best-effort right away.
func (a *Aggregator) ensureLoaded(ctx context.Context) error {
	if a.snap != nil {
		return nil
	}

	set, err := a.paths.Resolve(ctx)
	if err != nil {
		return err
	}

	raw, err := a.host.ReadFile(ctx, set.MetadataFile)
	if err != nil {
		def := core.DefaultSnapshot()
		a.snap = &def
		return nil
	}

	var snap core.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		if a.logger != nil {
			a.logger.Warn("metadata file corrupt, resetting to defaults", "error", err)
		}
		def := core.DefaultSnapshot()
		a.snap = &def
		if werr := a.writeLocked(ctx); werr != nil && a.logger != nil {
			a.logger.Error("failed to persist default metadata", "error", werr)
		}
		return nil
	}

	normalize(&snap)
	a.snap = &snap

	// Baseline mirrors what is on disk so an immediate identical mutation
	// does not trigger a redundant write.
	if data, err := json.MarshalIndent(a.snap, "", "  "); err == nil {
		a.baseline = data
	}
	return nil
}

// normalize replaces nil slices so the serialized form is stable ([] not null).
func normalize(s *core.Snapshot) {
	if s.RecentIDs == nil {
		s.RecentIDs = []string{}
	}
	if s.Notes == nil {
		s.Notes = []core.NoteEntry{}
	}
	if s.Favorites == nil {
		s.Favorites = []string{}
	}
	if s.Trash == nil {
		s.Trash = []core.TrashEntry{}
	}
}

func upsertNote(s *core.Snapshot, entry core.NoteEntry) {
	s.Notes = removeNote(s.Notes, entry.ID)
	s.Notes = append(s.Notes, entry)
	SortNotes(s.Notes)
}

func upsertTrash(s *core.Snapshot, entry core.TrashEntry) {
	s.Trash = removeTrash(s.Trash, entry.ID)
	s.Trash = append(s.Trash, entry)
	SortTrash(s.Trash)
}

func removeNote(notes []core.NoteEntry, id string) []core.NoteEntry {
	out := notes[:0]
	for _, n := range notes {
		if n.ID != id {
			out = append(out, n)
		}
	}
	return out
}

func removeTrash(trash []core.TrashEntry, id string) []core.TrashEntry {
	out := trash[:0]
	for _, t := range trash {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

func removeString(list []string, id string) []string {
	out := list[:0]
	for _, s := range list {
		if s != id {
			out = append(out, s)
		}
	}
	return out
}

// SortNotes orders note entries by updatedAt descending.
func SortNotes(notes []core.NoteEntry) {
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].UpdatedAt != notes[j].UpdatedAt {
			return notes[i].UpdatedAt > notes[j].UpdatedAt
		}
		return notes[i].ID < notes[j].ID
	})
}

// SortTrash orders trash entries by deletedAt descending.
func SortTrash(trash []core.TrashEntry) {
	sort.SliceStable(trash, func(i, j int) bool {
		if trash[i].DeletedAt != trash[j].DeletedAt {
			return trash[i].DeletedAt > trash[j].DeletedAt
		}
		return trash[i].ID < trash[j].ID
	})
}
