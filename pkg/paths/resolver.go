// Package paths lazily resolves the base storage directory and every path
// derived from it. The host call that returns the current directory crosses
// a process boundary and its result is constant for the process lifetime, so
// the resolver asks exactly once and serves pure cache reads afterwards.
package paths

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/quillkit/quill/pkg/core"
)

const (
	recordDirName    = "notes"
	metadataFileName = "metadata.json"
	configFileName   = "config.json"
	assetDirName     = "assets"

	// RecordExt is the extension of every per-record durable file.
	RecordExt = ".json"
)

// PathSet holds the resolved base directory and all derived sub-paths.
type PathSet struct {
	BaseDir      string
	Separator    string
	RecordDir    string
	MetadataFile string
	ConfigFile   string
	AssetDir     string
}

// RecordFile returns the durable file path for a record id.
func (p PathSet) RecordFile(id string) string {
	return p.RecordDir + p.Separator + id + RecordExt
}

// Resolver caches the path set. Safe for concurrent use.
type Resolver struct {
	host core.Host

	mu  sync.Mutex
	set *PathSet

	// baseOverride skips the host lookup entirely (CLI --dir flag, tests).
	baseOverride string
}

// NewResolver creates a resolver backed by the given host.
func NewResolver(host core.Host) *Resolver {
	return &Resolver{host: host}
}

// NewResolverAt creates a resolver pinned to an explicit base directory.
// The host is never asked for the current directory.
func NewResolverAt(host core.Host, baseDir string) *Resolver {
	return &Resolver{host: host, baseOverride: baseDir}
}

// Resolve returns the cached path set, computing it on first call.
func (r *Resolver) Resolve(ctx context.Context) (PathSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.set != nil {
		return *r.set, nil
	}

	base := r.baseOverride
	if base == "" {
		cwd, err := r.host.CurrentDirectory(ctx)
		if err != nil {
			return PathSet{}, fmt.Errorf("failed to resolve base directory: %w", err)
		}
		base = cwd
	}

	sep := separatorOf(base)
	base = strings.TrimRight(base, sep)

	set := PathSet{
		BaseDir:      base,
		Separator:    sep,
		RecordDir:    base + sep + recordDirName,
		MetadataFile: base + sep + metadataFileName,
		ConfigFile:   base + sep + configFileName,
		AssetDir:     base + sep + assetDirName,
	}
	r.set = &set
	return set, nil
}

// Reset clears every cached value, simulating a fresh process.
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.set = nil
}

// separatorOf infers the path separator from the directory string itself,
// so the resolver works against whichever platform the host runs on.
func separatorOf(dir string) string {
	if strings.Contains(dir, "\\") {
		return "\\"
	}
	return "/"
}
