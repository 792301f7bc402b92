// Package store declares the persistence seam of the engine: a
// transactional key-scan store over the catalog, progress, answer-log and
// weakest-link entities of package core.
//
// The engine is written against the Store interface only; any relational or
// document database that can satisfy these queries works. Two
// implementations ship with the module:
//
//   - store/memstore — map-backed, for tests and simulation;
//   - sqlitestore    — SQLite via the pure-Go modernc.org/sqlite driver.
//
// Contract highlights:
//
//   - Catalog entities (courses, modules, topics, problems, graph edges)
//     are authored externally and read-only at runtime.
//   - AppendAnswer is append-only: rows are never mutated nor deleted, and
//     each row gets a per-(user,semester) monotone sequence number that
//     breaks CreatedAt ties (the weakest-link scans rely on this order).
//   - Lookups of single entities return core.ErrNotFound when absent.
//   - Transient failures (connection loss, lock timeouts) are reported as
//     errors wrapping ErrTransient so the facade can retry; everything else
//     is permanent.
//   - WithinTx runs a function atomically. Implementations without real
//     rollback (memstore) rely on the engine's validate-before-mutate
//     discipline plus per-(user,semester) serialization.
package store
