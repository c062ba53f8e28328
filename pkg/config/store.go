// Package config persists app settings (theme, editor preferences, AI
// provider credentials). Same cache + durable-file shape as the metadata
// aggregator, but without debouncing: settings changes are low-frequency
// and each one is written through immediately.
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/quillkit/quill/pkg/core"
	"github.com/quillkit/quill/pkg/paths"
)

// Store is the config store. It holds a single settings singleton.
type Store struct {
	host   core.Host
	paths  *paths.Resolver
	logger *slog.Logger

	mu     sync.Mutex
	cfg    *core.Config
	loaded bool
}

// NewStore creates a config store.
func NewStore(host core.Host, resolver *paths.Resolver, logger *slog.Logger) *Store {
	return &Store{host: host, paths: resolver, logger: logger}
}

// Get returns the current settings, loading them on first use. When no file
// exists (or it fails to parse) the computed defaults are persisted
// best-effort and returned.
func (s *Store) Get(ctx context.Context) (core.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return core.Config{}, err
	}
	return *s.cfg, nil
}

// Update applies fn to the settings and writes the result through. The write
// is best-effort: on failure the in-memory settings remain authoritative and
// the next Update retries the persist.
func (s *Store) Update(ctx context.Context, fn func(*core.Config)) (core.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return core.Config{}, err
	}

	fn(s.cfg)

	if err := s.writeLocked(ctx); err != nil && s.logger != nil {
		s.logger.Error("config write failed", "error", err)
	}
	return *s.cfg, nil
}

func (s *Store) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	set, err := s.paths.Resolve(ctx)
	if err != nil {
		return err
	}

	raw, err := s.host.ReadFile(ctx, set.ConfigFile)
	if err != nil {
		def := core.DefaultConfig()
		s.cfg = &def
		s.loaded = true
		// First run: persist the defaults so the file exists.
		if werr := s.writeLocked(ctx); werr != nil && s.logger != nil {
			s.logger.Warn("failed to persist default config", "error", werr)
		}
		return nil
	}

	var cfg core.Config
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		if s.logger != nil {
			s.logger.Warn("config file corrupt, resetting to defaults", "error", err)
		}
		def := core.DefaultConfig()
		s.cfg = &def
		s.loaded = true
		if werr := s.writeLocked(ctx); werr != nil && s.logger != nil {
			s.logger.Warn("failed to persist default config", "error", werr)
		}
		return nil
	}

	s.cfg = &cfg
	s.loaded = true
	return nil
}

func (s *Store) writeLocked(ctx context.Context) error {
	data, err := json.MarshalIndent(s.cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	set, err := s.paths.Resolve(ctx)
	if err != nil {
		return err
	}
	if err := s.host.WriteFile(ctx, set.ConfigFile, string(data)); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
