package fs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/quillkit/quill/pkg/core"
	"github.com/quillkit/quill/pkg/paths"
)

// Watcher observes the record directory for out-of-band changes (a user or
// another tool touching note files directly) and emits debounced events.
// The engine uses these to recover records into the cache and re-reconcile.
type Watcher struct {
	*worker.BaseWorker

	dir     string
	pattern string
	logger  *slog.Logger
	events  chan<- core.Event

	watcher   *fsnotify.Watcher
	debouncer *debouncer
	cancel    context.CancelFunc
}

// NewWatcher creates a watcher over dir. Only file names matching pattern
// (doublestar glob, e.g. "*.json") produce events.
func NewWatcher(dir, pattern string, logger *slog.Logger, events chan<- core.Event) *Watcher {
	return &Watcher{
		BaseWorker: worker.NewBaseWorker("record-watcher"),
		dir:        dir,
		pattern:    pattern,
		logger:     logger,
		events:     events,
	}
}

// Start begins watching. The worker runs until ctx is canceled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(w.dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	w.watcher = watcher
	w.debouncer = newDebouncer(50 * time.Millisecond)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

// Stop cancels the watch loop and waits for the worker to settle.
func (w *Watcher) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}
	return w.BaseWorker.Stop(ctx)
}

func (w *Watcher) run(ctx context.Context) error {
	defer w.watcher.Close()

	err := w.loop(ctx)

	// Drain in-flight debounce timers before the events channel goes away.
	w.debouncer.stopAndWait(5 * time.Second)
	return err
}

func (w *Watcher) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.handle(ctx, event)

		case werr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			if w.logger != nil {
				w.logger.Error("fsnotify error", "error", werr)
			}
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	name := filepath.Base(event.Name)

	// Atomic-write temp files churn constantly; never surface them.
	if strings.HasPrefix(name, TempFilePrefix) {
		return
	}
	if ok, err := doublestar.Match(w.pattern, name); err != nil || !ok {
		return
	}

	eType := mapEventType(event)
	if eType == "" {
		return
	}

	id := strings.TrimSuffix(name, paths.RecordExt)

	if w.logger != nil {
		w.logger.Debug("record file changed", "id", id, "op", event.Op.String())
	}

	w.debouncer.add(core.Event{
		Type:      eType,
		ID:        id,
		Timestamp: time.Now().UnixMilli(),
	}, func(e core.Event) {
		defer func() {
			// The events channel may close during shutdown.
			_ = recover()
		}()
		select {
		case w.events <- e:
		case <-ctx.Done():
		}
	})
}

func mapEventType(event fsnotify.Event) core.EventType {
	switch {
	case event.Has(fsnotify.Create):
		return core.EventCreate
	case event.Has(fsnotify.Write):
		return core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return core.EventDelete
	default:
		return ""
	}
}
