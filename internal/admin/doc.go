// Package admin holds the domain model for the cache-administration
// controller: status snapshots reported by the backend, per-cache operation
// state, operation outcomes, and the pure derivations the panel and CLI
// render from them.
//
// Key properties:
//   - Snapshot values are read-only once decoded; callers replace, never edit
//   - OpStates enforces refresh/clear mutual exclusion per key structurally
//   - Outcome is a tagged variant holding at most one notice at a time
//   - Formatting helpers are pure functions with fixed display rules
//
// Network access lives in the api package; this package never performs I/O.
package admin
