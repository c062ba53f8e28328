// Package records implements the authoritative, queryable cache of note
// records plus the durable per-record file tier behind it. All list queries
// are answered from a covering index so the (large) content payloads are
// never touched on the hot path.
package records

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/aretw0/lifecycle"

	"github.com/quillkit/quill/pkg/core"
	"github.com/quillkit/quill/pkg/paths"
)

// MetadataSync receives the metadata-side effects of record mutations.
// The metadata aggregator implements it; a nil sync disables propagation.
type MetadataSync interface {
	// NoteUpserted mirrors an active record into the notes list.
	NoteUpserted(ctx context.Context, id, title string, updatedAt int64)

	// FavoriteSet adds or removes id from the favorites set.
	FavoriteSet(ctx context.Context, id string, favorite bool)

	// TrashAdded mirrors a deleted record into the trash list and removes it
	// from the notes and favorites lists (membership is mutually exclusive).
	TrashAdded(ctx context.Context, id, title string, deletedAt int64)

	// TrashRemoved removes id from the trash list.
	TrashRemoved(ctx context.Context, id string)
}

// Config holds the configuration for the record store.
type Config struct {
	Host   core.Host
	Paths  *paths.Resolver
	Sync   MetadataSync // optional
	Logger *slog.Logger

	// Blocking makes durable writes run inline instead of as detached
	// background tasks. Used by the CLI, where the process exits right
	// after the operation.
	Blocking bool
}

// Store is the record store.
type Store struct {
	host   core.Host
	paths  *paths.Resolver
	tier   *fileTier
	sync   MetadataSync
	logger *slog.Logger

	blocking bool
	writes   sync.WaitGroup

	mu    sync.RWMutex
	cache map[string]core.Record
	index map[string]indexEntry
}

// NewStore creates a record store. The cache starts cold; call Hydrate to
// warm it from the durable tier.
func NewStore(cfg Config) *Store {
	return &Store{
		host:     cfg.Host,
		paths:    cfg.Paths,
		tier:     &fileTier{host: cfg.Host, paths: cfg.Paths, logger: cfg.Logger},
		sync:     cfg.Sync,
		logger:   cfg.Logger,
		blocking: cfg.Blocking,
		cache:    make(map[string]core.Record),
		index:    make(map[string]indexEntry),
	}
}

// Hydrate loads every per-record file into the cache and covering index.
// Unreadable or unparseable files are skipped with a warning; a missing
// record directory is treated as an empty store.
func (s *Store) Hydrate(ctx context.Context) error {
	set, err := s.paths.Resolve(ctx)
	if err != nil {
		return err
	}

	names, err := s.host.ListDir(ctx, set.RecordDir)
	if err != nil {
		if s.logger != nil {
			s.logger.Debug("record directory not readable, starting empty", "error", err)
		}
		return nil
	}

	for _, name := range names {
		if !strings.HasSuffix(name, paths.RecordExt) {
			continue
		}
		id := strings.TrimSuffix(name, paths.RecordExt)
		rec, err := s.tier.Read(ctx, id)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("skipping unreadable record file", "id", id, "error", err)
			}
			continue
		}
		s.put(rec)
	}
	return nil
}

// Create generates a new record with the given title and empty content,
// inserts it, schedules a durable write, and mirrors it into metadata.
// Returns the new id.
func (s *Store) Create(ctx context.Context, title string) (string, error) {
	rec := core.Record{
		ID:        s.host.NewID(),
		Title:     title,
		UpdatedAt: s.host.Now(),
	}
	s.put(rec)
	s.persist(ctx, rec)

	if s.sync != nil {
		s.sync.NoteUpserted(ctx, rec.ID, rec.Title, rec.UpdatedAt)
	}
	return rec.ID, nil
}

// SaveRequest describes an upsert. Nil pointer fields preserve the existing
// value (or the default when no record exists yet).
type SaveRequest struct {
	ID        string
	Content   json.RawMessage
	Title     *string
	IsDeleted *bool

	// SkipSync suppresses metadata propagation for this save.
	SkipSync bool
}

// Save upserts a record. The deletedAt field is recomputed whenever IsDeleted
// is supplied, keeping the lifecycle invariant. Metadata is only touched when
// the record is not (and was not) deleted: edits to trashed records never
// move them back into the list views.
func (s *Store) Save(ctx context.Context, req SaveRequest) error {
	if req.ID == "" {
		return fmt.Errorf("record has no ID")
	}

	s.mu.Lock()
	rec, existed := s.cache[req.ID]
	if !existed {
		rec = core.Record{ID: req.ID}
	}
	wasDeleted := existed && rec.IsDeleted

	rec.Content = req.Content
	if req.Title != nil {
		rec.Title = *req.Title
	}
	if req.IsDeleted != nil {
		rec.IsDeleted = *req.IsDeleted
		if rec.IsDeleted {
			if rec.DeletedAt == nil {
				now := s.host.Now()
				rec.DeletedAt = &now
			}
		} else {
			rec.DeletedAt = nil
		}
	}
	rec.UpdatedAt = s.host.Now()

	s.cache[req.ID] = rec
	s.index[req.ID] = indexOf(rec)
	s.mu.Unlock()

	s.persist(ctx, rec)

	if s.sync != nil && !req.SkipSync && !rec.IsDeleted && !wasDeleted {
		s.sync.NoteUpserted(ctx, rec.ID, rec.Title, rec.UpdatedAt)
	}
	return nil
}

// Load returns the cached record for id. It never consults the durable tier;
// callers fall back explicitly via Recover.
func (s *Store) Load(id string) (core.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.cache[id]
	if !ok {
		return core.Record{}, false
	}
	return rec.Clone(), true
}

// Recover is the cold-cache fallback: it reads the durable file for id,
// re-inserts the result into the cache, and returns it.
func (s *Store) Recover(ctx context.Context, id string) (core.Record, error) {
	if rec, ok := s.Load(id); ok {
		return rec, nil
	}

	rec, err := s.tier.Read(ctx, id)
	if err != nil {
		return core.Record{}, err
	}
	s.put(rec)
	return rec.Clone(), nil
}

// Refresh re-reads the durable file for id and replaces the cached entry,
// absorbing an out-of-band edit. When the file is gone the cached entry is
// dropped and the error is returned.
func (s *Store) Refresh(ctx context.Context, id string) (core.Record, error) {
	rec, err := s.tier.Read(ctx, id)
	if err != nil {
		s.mu.Lock()
		delete(s.cache, id)
		delete(s.index, id)
		s.mu.Unlock()
		return core.Record{}, err
	}
	s.put(rec)
	return rec.Clone(), nil
}

// ListActive returns all non-deleted records sorted by updatedAt descending.
// Answered from the covering index alone; returned records carry no content.
func (s *Store) ListActive() []core.Record {
	return s.listIndex(func(e indexEntry) bool { return !e.IsDeleted }, sortByUpdatedDesc)
}

// ListFavorites returns non-deleted favorites sorted by updatedAt descending.
func (s *Store) ListFavorites() []core.Record {
	return s.listIndex(func(e indexEntry) bool { return e.IsFavorite && !e.IsDeleted }, sortByUpdatedDesc)
}

// ListTrash returns deleted records sorted by deletedAt descending.
func (s *Store) ListTrash() []core.Record {
	return s.listIndex(func(e indexEntry) bool { return e.IsDeleted }, sortByDeletedDesc)
}

func (s *Store) listIndex(keep func(indexEntry) bool, order func([]core.Record)) []core.Record {
	s.mu.RLock()
	recs := make([]core.Record, 0, len(s.index))
	for _, e := range s.index {
		if keep(e) {
			recs = append(recs, e.record())
		}
	}
	s.mu.RUnlock()

	order(recs)
	return recs
}

// Search returns full records whose title contains query, case-insensitively,
// excluding deleted records. Off the hot path, so content is included.
func (s *Store) Search(query string) []core.Record {
	q := strings.ToLower(query)

	s.mu.RLock()
	var recs []core.Record
	for _, rec := range s.cache {
		if rec.IsDeleted {
			continue
		}
		if strings.Contains(strings.ToLower(rec.Title), q) {
			recs = append(recs, rec.Clone())
		}
	}
	s.mu.RUnlock()

	sortByUpdatedDesc(recs)
	return recs
}

// ToggleFavorite flips the favorite flag and mirrors it into metadata.
func (s *Store) ToggleFavorite(ctx context.Context, id string) error {
	s.mu.Lock()
	rec, ok := s.cache[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	rec.IsFavorite = !rec.IsFavorite
	s.cache[id] = rec
	s.index[id] = indexOf(rec)
	s.mu.Unlock()

	s.persist(ctx, rec)

	if s.sync != nil {
		s.sync.FavoriteSet(ctx, id, rec.IsFavorite)
	}
	return nil
}

// MoveToTrash soft-deletes a record. The metadata side removes it from the
// notes and favorites lists as part of the trash add.
func (s *Store) MoveToTrash(ctx context.Context, id string) error {
	s.mu.Lock()
	rec, ok := s.cache[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	now := s.host.Now()
	rec.IsDeleted = true
	rec.DeletedAt = &now
	s.cache[id] = rec
	s.index[id] = indexOf(rec)
	s.mu.Unlock()

	s.persist(ctx, rec)

	if s.sync != nil {
		s.sync.TrashAdded(ctx, id, rec.Title, now)
	}
	return nil
}

// RestoreFromTrash un-deletes a record and bumps updatedAt so it resurfaces
// at the top of recency-ordered lists. The trash removal is propagated before
// the notes re-add so the record never appears in both lists, even
// transiently within the snapshot.
func (s *Store) RestoreFromTrash(ctx context.Context, id string) error {
	s.mu.Lock()
	rec, ok := s.cache[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	rec.IsDeleted = false
	rec.DeletedAt = nil
	rec.UpdatedAt = s.host.Now()
	s.cache[id] = rec
	s.index[id] = indexOf(rec)
	s.mu.Unlock()

	s.persist(ctx, rec)

	if s.sync != nil {
		s.sync.TrashRemoved(ctx, id)
		s.sync.NoteUpserted(ctx, id, rec.Title, rec.UpdatedAt)
	}
	return nil
}

// PermanentlyDelete removes the record from the cache and deletes its durable
// file. The trash removal is propagated unconditionally as a safety net, even
// if the record was already absent.
func (s *Store) PermanentlyDelete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.cache, id)
	delete(s.index, id)
	s.mu.Unlock()

	if err := s.tier.Delete(ctx, id); err != nil && s.logger != nil {
		s.logger.Warn("failed to delete record file", "id", id, "error", err)
	}

	if s.sync != nil {
		s.sync.TrashRemoved(ctx, id)
	}
	return nil
}

// Len returns the number of cached records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}

// Flush waits for all in-flight durable writes to settle.
func (s *Store) Flush() {
	s.writes.Wait()
}

func (s *Store) put(rec core.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[rec.ID] = rec
	s.index[rec.ID] = indexOf(rec)
}

// persist schedules a fire-and-forget durable write. The mutation has already
// returned to the caller by the time the write runs; a failure is logged and
// swallowed, leaving the cache authoritative for the session.
func (s *Store) persist(ctx context.Context, rec core.Record) {
	if s.blocking {
		if err := s.tier.Write(ctx, rec); err != nil && s.logger != nil {
			s.logger.Error("durable write failed", "id", rec.ID, "error", err)
		}
		return
	}

	s.writes.Add(1)
	detached := context.WithoutCancel(ctx)
	lifecycle.Go(detached, func(ctx context.Context) error {
		defer s.writes.Done()
		if err := s.tier.Write(ctx, rec); err != nil {
			if s.logger != nil {
				s.logger.Error("durable write failed", "id", rec.ID, "error", err)
			}
			return err
		}
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		if s.logger != nil {
			s.logger.Error("durable write panic", "id", rec.ID, "error", err)
		}
	}))
}
