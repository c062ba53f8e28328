// Package core holds the domain types shared by every Quill component:
// the note record, the metadata snapshot, the app config, and the host
// boundary through which all file I/O flows.
package core

import "encoding/json"

// Record is the central entity of the domain: a single note.
// Content is an opaque structured payload (editor document JSON) that this
// subsystem stores and returns but never interprets.
type Record struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Content    json.RawMessage `json:"content"`
	UpdatedAt  int64           `json:"updatedAt"`
	IsFavorite bool            `json:"isFavorite"`
	IsDeleted  bool            `json:"isDeleted"`
	DeletedAt  *int64          `json:"deletedAt,omitempty"`
}

// Clone returns a deep copy of the record.
// Content bytes are copied so callers cannot alias cached state.
func (r Record) Clone() Record {
	out := r
	if r.Content != nil {
		out.Content = append(json.RawMessage(nil), r.Content...)
	}
	if r.DeletedAt != nil {
		v := *r.DeletedAt
		out.DeletedAt = &v
	}
	return out
}

// Valid reports whether the record satisfies the lifecycle invariant:
// IsDeleted implies DeletedAt is set, and not-deleted implies it is absent.
func (r Record) Valid() bool {
	if r.IsDeleted {
		return r.DeletedAt != nil
	}
	return r.DeletedAt == nil
}
