package core

import "fmt"

// EventType represents the type of an out-of-band change in the record directory.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a record file observed outside the engine,
// e.g. a user editing a note file directly on disk.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix milliseconds
}

// String implements fmt.Stringer (and the lifecycle Event contract).
func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.ID)
}
