// Package store implements the storage layer of modelhub.
//
// All persistence goes through the [Store] interface, which aggregates one
// repository per record kind (users, models, model settings, hotspots).
// Three interchangeable backends implement it:
//
//   - a relational backend over database/sql, running on PostgreSQL (pgx)
//     or SQLite (go-sqlite3) with the same goose-managed schema;
//   - a document-oriented backend over Redis, storing records as JSON;
//   - an in-memory backend used as the process-local fallback and as the
//     storage double in tests.
//
// The backends must behave identically against the interface: sentinel
// errors, cascade-delete semantics, the one-settings-row-per-model
// invariant, and hotspot insertion order are all part of the contract and
// covered by the shared service-level tests.
//
// [Selector] wraps the configured primary backend and switches to the
// in-memory fallback when the primary has been unreachable for longer than
// the configured window.
package store
