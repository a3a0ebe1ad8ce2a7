// Package session persists game records in an external key-value store.
//
// The session package implements:
//   - The Store interface: load/save/delete/list by opaque game ID
//   - A lossless JSON record encoding of the engine state
//   - Conditional saves via an optimistic version counter
//   - Memory, file, and Redis store adapters
//
// Core Types:
//
// Record is the persisted form of one game: the full engine state plus a
// version counter and timestamps. Store is the adapter contract; the
// registry performs exactly one load-mutate-save cycle per request against
// it.
//
// Conditional Saves:
//
// Save takes the version the caller loaded and fails with
// ErrVersionConflict when the stored version has moved on. Two concurrent
// moves against the same game therefore cannot silently overwrite each
// other; the loser reloads and revalidates. RedisStore enforces the check
// atomically on the server with a Lua script, so the guarantee holds
// across processes. MemoryStore and FileStore enforce it under a
// process-local lock.
//
// Error Taxonomy:
//
// ErrNotFound (no record for the ID) is distinct from ErrCorrupt (a record
// exists but does not decode); callers must be able to tell a bad ID from
// an infrastructure fault.
package session
