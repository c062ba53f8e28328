package core

import "context"

// Host is the process-boundary collaborator that provides file I/O and
// environment primitives. In the desktop app these calls cross an IPC
// boundary into the host runtime; in tests an in-memory fake stands in.
// Adhering to this interface keeps every store independent of where the
// bytes actually live.
type Host interface {
	// ReadFile returns the full contents of the file at path.
	ReadFile(ctx context.Context, path string) (string, error)

	// WriteFile replaces the file at path, creating parent directories
	// as needed.
	WriteFile(ctx context.Context, path string, content string) error

	// DeleteFile removes the file at path.
	DeleteFile(ctx context.Context, path string) error

	// ListDir returns the file names (not full paths) directly under path.
	ListDir(ctx context.Context, path string) ([]string, error)

	// CurrentDirectory returns the base directory of the running process.
	CurrentDirectory(ctx context.Context) (string, error)

	// NewID returns a new opaque unique identifier.
	NewID() string

	// Now returns the current wall-clock time in Unix milliseconds.
	Now() int64
}
