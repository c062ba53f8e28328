package core

import "errors"

// Common errors.
var (
	// ErrNotFound is returned when a record is absent from both the cache
	// and the durable tier.
	ErrNotFound = errors.New("record not found")
)
