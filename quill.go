package quill

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/quillkit/quill/internal/platform"
	"github.com/quillkit/quill/pkg/adapters/fs"
	"github.com/quillkit/quill/pkg/config"
	"github.com/quillkit/quill/pkg/core"
	"github.com/quillkit/quill/pkg/meta"
	"github.com/quillkit/quill/pkg/paths"
	"github.com/quillkit/quill/pkg/reconcile"
	"github.com/quillkit/quill/pkg/records"
)

// --- Configuration ---

// Option defines a functional option for configuring the engine.
type Option = platform.Option

// WithHost injects a custom host (e.g. an IPC bridge or an in-memory fake).
func WithHost(h core.Host) Option { return platform.WithHost(h) }

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option { return platform.WithLogger(logger) }

// WithBaseDir pins the base storage directory instead of asking the host.
func WithBaseDir(dir string) Option { return platform.WithBaseDir(dir) }

// WithQuietPeriod overrides the metadata debounce window.
func WithQuietPeriod(d time.Duration) Option { return platform.WithQuietPeriod(d) }

// WithBlockingWrites makes durable record writes run inline.
func WithBlockingWrites(blocking bool) Option { return platform.WithBlockingWrites(blocking) }

// WithColdStart skips the startup hydration and reconciliation pass.
func WithColdStart(cold bool) Option { return platform.WithColdStart(cold) }

// --- Engine ---

// Engine wires the stores together and owns their shared lifecycle.
type Engine struct {
	Records *records.Store
	Meta    *meta.Aggregator
	Config  *config.Store
	Paths   *paths.Resolver

	host       core.Host
	logger     *slog.Logger
	reconciler *reconcile.Engine

	watcher *fs.Watcher
	events  chan core.Event
}

// New assembles an engine. Unless cold start is requested it hydrates the
// record store from the durable tier and runs the reconciliation pass.
func New(opts ...Option) (*Engine, error) {
	o := platform.Defaults()
	for _, opt := range opts {
		opt(o)
	}

	host := o.Host
	if host == nil {
		host = fs.NewHost(o.Logger)
	}

	var resolver *paths.Resolver
	if o.BaseDir != "" {
		resolver = paths.NewResolverAt(host, o.BaseDir)
	} else {
		resolver = paths.NewResolver(host)
	}

	agg := meta.NewAggregator(meta.Config{
		Host:        host,
		Paths:       resolver,
		Logger:      o.Logger,
		QuietPeriod: o.QuietPeriod,
	})

	store := records.NewStore(records.Config{
		Host:     host,
		Paths:    resolver,
		Sync:     agg,
		Logger:   o.Logger,
		Blocking: o.Blocking,
	})

	e := &Engine{
		Records:    store,
		Meta:       agg,
		Config:     config.NewStore(host, resolver, o.Logger),
		Paths:      resolver,
		host:       host,
		logger:     o.Logger,
		reconciler: reconcile.NewEngine(store, agg, o.Logger),
	}

	if !o.ColdStart {
		ctx := context.Background()
		if err := store.Hydrate(ctx); err != nil {
			return nil, fmt.Errorf("failed to hydrate record store: %w", err)
		}
		if _, err := e.reconciler.Run(ctx); err != nil && o.Logger != nil {
			// Reconciliation is never fatal; proceed with whatever loaded.
			o.Logger.Warn("startup reconciliation failed", "error", err)
		}
	}
	return e, nil
}

// Reconcile re-runs the drift-repair pass and returns the patched snapshot.
func (e *Engine) Reconcile(ctx context.Context) (core.Snapshot, error) {
	return e.reconciler.Run(ctx)
}

// Watch observes the record directory for out-of-band file changes. Changed
// records are refreshed in the cache before the event is forwarded, so
// consumers always read post-change state.
func (e *Engine) Watch(ctx context.Context) (<-chan core.Event, error) {
	if e.watcher != nil {
		return nil, fmt.Errorf("watcher already started")
	}

	set, err := e.Paths.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	raw := make(chan core.Event, 100)
	w := fs.NewWatcher(set.RecordDir, "*"+paths.RecordExt, e.logger, raw)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}
	e.watcher = w
	e.events = raw

	out := make(chan core.Event, 100)
	go func() {
		defer close(out)
		for ev := range raw {
			if _, err := e.Records.Refresh(ctx, ev.ID); err != nil && e.logger != nil {
				e.logger.Debug("refresh after watch event failed", "id", ev.ID, "error", err)
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Close flushes pending state: it stops the watcher, commits any pending
// metadata write, and waits for in-flight durable record writes.
func (e *Engine) Close(ctx context.Context) error {
	if e.watcher != nil {
		if err := e.watcher.Stop(ctx); err != nil && e.logger != nil {
			e.logger.Warn("watcher stop failed", "error", err)
		}
		close(e.events)
		e.watcher = nil
	}

	e.Records.Flush()
	if err := e.Meta.Flush(ctx); err != nil {
		return fmt.Errorf("failed to flush metadata: %w", err)
	}
	return nil
}
