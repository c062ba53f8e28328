package records

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/quillkit/quill/pkg/core"
	"github.com/quillkit/quill/pkg/paths"
)

// fileTier is the durable per-record snapshot layer. Every record is a
// pretty-printed JSON file at <recordDir>/<id>.json. Writes are best-effort:
// the in-process cache stays authoritative when a write fails.
type fileTier struct {
	host   core.Host
	paths  *paths.Resolver
	logger *slog.Logger
}

// Write serializes the full record to its per-id file path.
func (t *fileTier) Write(ctx context.Context, rec core.Record) error {
	set, err := t.paths.Resolve(ctx)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize record %s: %w", rec.ID, err)
	}

	if err := t.host.WriteFile(ctx, set.RecordFile(rec.ID), string(data)); err != nil {
		return fmt.Errorf("failed to write record %s: %w", rec.ID, err)
	}
	return nil
}

// Read loads the record file for id. Returns core.ErrNotFound (wrapped) when
// the file is absent or unreadable; the distinction does not matter to the
// fallback chain.
func (t *fileTier) Read(ctx context.Context, id string) (core.Record, error) {
	set, err := t.paths.Resolve(ctx)
	if err != nil {
		return core.Record{}, err
	}

	raw, err := t.host.ReadFile(ctx, set.RecordFile(id))
	if err != nil {
		return core.Record{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}

	var rec core.Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return core.Record{}, fmt.Errorf("failed to parse record %s: %w", id, err)
	}
	rec.ID = id
	return rec, nil
}

// Delete removes the per-id file. Missing files are not an error.
func (t *fileTier) Delete(ctx context.Context, id string) error {
	set, err := t.paths.Resolve(ctx)
	if err != nil {
		return err
	}
	if err := t.host.DeleteFile(ctx, set.RecordFile(id)); err != nil {
		if t.logger != nil {
			t.logger.Debug("record file already gone", "id", id, "error", err)
		}
	}
	return nil
}
