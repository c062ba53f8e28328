// Package platform holds the internal configuration surface of the engine.
// The public facade re-exports the option constructors.
package platform

import (
	"log/slog"
	"time"

	"github.com/quillkit/quill/pkg/core"
)

// Options holds the internal configuration for the engine factory.
type Options struct {
	Host        core.Host
	Logger      *slog.Logger
	BaseDir     string
	QuietPeriod time.Duration
	Blocking    bool
	ColdStart   bool
}

// Option defines a functional option for configuring the engine.
type Option func(*Options)

// Defaults returns the default configuration.
func Defaults() *Options {
	return &Options{}
}

// WithHost injects a custom host (e.g. an IPC bridge or an in-memory fake).
// Defaults to the filesystem adapter.
func WithHost(h core.Host) Option {
	return func(o *Options) { o.Host = h }
}

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// WithBaseDir pins the base storage directory, skipping the host's
// current-directory lookup.
func WithBaseDir(dir string) Option {
	return func(o *Options) { o.BaseDir = dir }
}

// WithQuietPeriod overrides the metadata debounce window.
func WithQuietPeriod(d time.Duration) Option {
	return func(o *Options) { o.QuietPeriod = d }
}

// WithBlockingWrites makes durable record writes run inline instead of as
// detached background tasks. Short-lived processes (the CLI) use this.
func WithBlockingWrites(blocking bool) Option {
	return func(o *Options) { o.Blocking = blocking }
}

// WithColdStart skips the startup hydration and reconciliation pass.
func WithColdStart(cold bool) Option {
	return func(o *Options) { o.ColdStart = cold }
}
