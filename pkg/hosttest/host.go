// Package hosttest provides an in-memory core.Host implementation for tests.
// It records write counts per path and supports fault injection so tests can
// exercise the degrade-to-cache error policy without a real filesystem.
package hosttest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/quillkit/quill/pkg/core"
)

// Host is an in-memory core.Host. Safe for concurrent use.
type Host struct {
	mu     sync.Mutex
	files  map[string]string
	writes map[string]int
	cwd    string
	cwdHit int
	nextID int
	clock  int64

	// FailWrites makes every WriteFile call fail when set.
	FailWrites bool
	// FailReads makes every ReadFile call fail when set.
	FailReads bool
}

// New creates a host rooted at the given working directory.
func New(cwd string) *Host {
	return &Host{
		files:  make(map[string]string),
		writes: make(map[string]int),
		cwd:    cwd,
		clock:  1_700_000_000_000,
	}
}

func (h *Host) ReadFile(ctx context.Context, path string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.FailReads {
		return "", fmt.Errorf("read failed: %s", path)
	}
	content, ok := h.files[path]
	if !ok {
		return "", fmt.Errorf("file not found: %s", path)
	}
	return content, nil
}

func (h *Host) WriteFile(ctx context.Context, path string, content string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.FailWrites {
		return fmt.Errorf("write failed: %s", path)
	}
	h.files[path] = content
	h.writes[path]++
	return nil
}

func (h *Host) DeleteFile(ctx context.Context, path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.files[path]; !ok {
		return fmt.Errorf("file not found: %s", path)
	}
	delete(h.files, path)
	return nil
}

func (h *Host) ListDir(ctx context.Context, path string) ([]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	sep := "/"
	if strings.Contains(path, "\\") {
		sep = "\\"
	}
	prefix := strings.TrimRight(path, sep) + sep
	var names []string
	for p := range h.files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := strings.TrimPrefix(p, prefix)
		if strings.Contains(rest, sep) {
			continue // not a direct child
		}
		names = append(names, rest)
	}
	return names, nil
}

func (h *Host) CurrentDirectory(ctx context.Context) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cwdHit++
	return h.cwd, nil
}

func (h *Host) NewID() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	return fmt.Sprintf("id-%04d", h.nextID)
}

func (h *Host) Now() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clock++
	return h.clock
}

// Advance moves the fake clock forward by ms milliseconds.
func (h *Host) Advance(ms int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clock += ms
}

// Exists reports whether a file is present.
func (h *Host) Exists(path string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.files[path]
	return ok
}

// Content returns the stored content of path, or "" if absent.
func (h *Host) Content(path string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.files[path]
}

// Put seeds a file without counting as a write.
func (h *Host) Put(path, content string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.files[path] = content
}

// Writes returns how many times path was written.
func (h *Host) Writes(path string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.writes[path]
}

// CwdCalls returns how many times CurrentDirectory was invoked.
func (h *Host) CwdCalls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cwdHit
}

var _ core.Host = (*Host)(nil)
