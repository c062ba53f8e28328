// Package typed provides a generic, type-safe view over the record store.
// Record content is opaque JSON at the storage layer; this wrapper converts
// between a caller-defined struct and the raw payload at the boundary.
package typed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/quillkit/quill/pkg/core"
	"github.com/quillkit/quill/pkg/records"
)

// NoteModel is the typed equivalent of core.Record: the raw content payload
// is replaced by a decoded value of T.
type NoteModel[T any] struct {
	ID         string
	Title      string
	Data       T
	UpdatedAt  int64
	IsFavorite bool
}

// Store wraps a records.Store to provide type-safe content access.
type Store[T any] struct {
	records *records.Store
}

// NewStore creates a type-safe wrapper around an existing record store.
func NewStore[T any](store *records.Store) *Store[T] {
	return &Store[T]{records: store}
}

// Create makes a new record whose content is the encoded data.
func (s *Store[T]) Create(ctx context.Context, title string, data T) (string, error) {
	id, err := s.records.Create(ctx, title)
	if err != nil {
		return "", err
	}
	if err := s.Save(ctx, id, data); err != nil {
		return "", err
	}
	return id, nil
}

// Save encodes data and persists it as the record's content.
func (s *Store[T]) Save(ctx context.Context, id string, data T) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode content for %s: %w", id, err)
	}
	return s.records.Save(ctx, records.SaveRequest{
		ID:      id,
		Content: json.RawMessage(raw),
	})
}

// Get loads a record from the cache (falling back to the durable tier) and
// decodes its content.
func (s *Store[T]) Get(ctx context.Context, id string) (*NoteModel[T], error) {
	rec, ok := s.records.Load(id)
	if !ok {
		recovered, err := s.records.Recover(ctx, id)
		if err != nil {
			return nil, err
		}
		rec = recovered
	}
	return fromRecord[T](rec)
}

func fromRecord[T any](rec core.Record) (*NoteModel[T], error) {
	var data T
	if len(rec.Content) > 0 {
		if err := json.Unmarshal(rec.Content, &data); err != nil {
			return nil, fmt.Errorf("failed to decode content of %s: %w", rec.ID, err)
		}
	}
	return &NoteModel[T]{
		ID:         rec.ID,
		Title:      rec.Title,
		Data:       data,
		UpdatedAt:  rec.UpdatedAt,
		IsFavorite: rec.IsFavorite,
	}, nil
}
