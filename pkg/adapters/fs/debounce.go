package fs

import (
	"sync"
	"time"

	"github.com/quillkit/quill/pkg/core"
)

// debouncer coalesces bursty filesystem events per record id. Editors tend
// to emit several WRITE events for a single save; only the last one within
// the window is emitted.
type debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
	wg      sync.WaitGroup
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:  delay,
		timers: make(map[string]*time.Timer),
	}
}

// add schedules emit(event) after the delay, resetting any pending timer for
// the same id. Reset semantics: only the latest event per id survives.
func (d *debouncer) add(event core.Event, emit func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if t, ok := d.timers[event.ID]; ok {
		// Stop returns false if the timer already fired; its callback then
		// owns the matching Done.
		if t.Stop() {
			d.wg.Done()
		}
	}

	d.wg.Add(1)
	d.timers[event.ID] = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()

		d.mu.Lock()
		delete(d.timers, event.ID)
		stopped := d.stopped
		d.mu.Unlock()

		if !stopped {
			emit(event)
		}
	})
}

// stopAndWait stops accepting new events, cancels pending timers, and waits
// up to timeout for in-flight emits to finish.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for id, t := range d.timers {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.timers, id)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
	}
}
