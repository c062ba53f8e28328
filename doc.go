// Package quill is the Composition Root for the Quill persistence engine.
//
// It wires the record store (Domain Layer) to the storage host adapters
// (Persistence Layer), keeping the core agnostic of where bytes actually
// land.
//
// Philosophy:
//
// Quill treats a directory of JSON files as the durable tier of a note
// database whose source of truth lives in process. Every read is served
// from an indexed in-memory cache; durable writes are best-effort mirrors
// that exist so state survives restarts. List-view metadata (note index,
// favorites, trash, session state) is aggregated into a single debounced
// snapshot file, and a startup reconciliation pass repairs any drift
// between the two tiers.
//
// Features:
//
//   - Cache-authoritative reads: storage failures degrade durability, never availability.
//   - Debounced metadata writes: bursts of mutations coalesce into one snapshot write.
//   - Additive reconciliation: startup repair only ever adds missing entries.
//   - Typed Retrieval: generic wrapper (NewTyped[T]) for type-safe content access.
//   - Pluggable host: the filesystem adapter is the default, not a requirement.
//
// Usage:
//
//	engine, err := quill.New(
//		quill.WithBaseDir("./vault"),
//		quill.WithLogger(logger),
//	)
//
//	id, err := engine.Records.Create(ctx, "My first note")
package quill
