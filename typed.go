package quill

import (
	"github.com/quillkit/quill/pkg/records"
	"github.com/quillkit/quill/pkg/typed"
)

// NoteModel is a typed view of a record: the opaque content payload decoded
// into a caller-defined struct.
type NoteModel[T any] = typed.NoteModel[T]

// TypedStore wraps the record store to provide type-safe content access.
type TypedStore[T any] = typed.Store[T]

// NewTyped creates a type-safe wrapper around a record store.
// T is the shape of the content you store in each record.
func NewTyped[T any](store *records.Store) *TypedStore[T] {
	return typed.NewStore[T](store)
}
