// Package sqlitestore is the SQLite-backed store.Store. One file (or
// :memory: database) holds the whole catalog plus the per-student tables;
// the schema is created on Open.
//
// The connection pool is capped at a single connection: SQLite allows one
// writer at a time and the engine serializes writers per (user, semester)
// anyway, so a second connection would only manufacture SQLITE_BUSY.
// Busy and locked errors that do occur are wrapped in store.ErrTransient,
// which the engine retries with backoff.
//
// WithinTx opens a real transaction; the Store handed to the callback is
// bound to it and must not be retained. Nested transactions are refused.
package sqlitestore
