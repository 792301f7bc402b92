// Package memstore is the map-backed store.Store used by tests and the
// course simulator. One RWMutex guards all tables; readers proceed in
// parallel, writers serialize. Seeding happens through the Put* methods on
// the concrete type before the engine starts (catalog data is read-only at
// runtime, so seeding is not part of the store.Store interface).
//
// WithinTx is lock-and-apply without rollback: the engine validates every
// write path completely before its first mutation and serializes all
// writers of a (user, semester) pair, so a mid-batch failure can only be a
// content-inconsistency assertion, which aborts the request anyway.
package memstore
