// Package coursegen builds synthetic courses for tests and simulation:
// a chain of topics with parent links, per-topic theory and practice
// pools with answerable choices, and a complete random affinity graph.
// Generation is deterministic per seed, so simulations are reproducible.
package coursegen
