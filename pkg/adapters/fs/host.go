// Package fs implements the core.Host boundary over the real filesystem.
// In the desktop app these primitives live across an IPC boundary; this
// adapter makes the engine usable standalone (CLI, tests, services).
package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/quillkit/quill/pkg/core"
)

// Host is the filesystem-backed core.Host. Writes are atomic
// (temp file + rename) so readers never observe a torn record.
type Host struct {
	logger *slog.Logger
}

// NewHost creates a filesystem host.
func NewHost(logger *slog.Logger) *Host {
	return &Host{logger: logger}
}

func (h *Host) ReadFile(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (h *Host) WriteFile(ctx context.Context, path string, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}
	return writeFileAtomic(path, []byte(content), 0644)
}

func (h *Host) DeleteFile(ctx context.Context, path string) error {
	return os.Remove(path)
}

func (h *Host) ListDir(ctx context.Context, path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

func (h *Host) CurrentDirectory(ctx context.Context) (string, error) {
	return os.Getwd()
}

func (h *Host) NewID() string {
	return uuid.NewString()
}

func (h *Host) Now() int64 {
	return time.Now().UnixMilli()
}

var _ core.Host = (*Host)(nil)
