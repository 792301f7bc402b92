// Package topicgraph builds the per-course topic-affinity graph and
// bisects suspected-topic sets into two groups of maximal internal
// affinity for the weakest-link probe queue.
//
// Overview:
//
//   - Nodes are all topics of one course; edges are authored
//     core.TopicGraphEdge rows, treated as undirected with weights in
//     [0,1]. Absent pairs weigh 0.
//   - Bisect partitions a topic set into (A, B) with |A| = ⌊n/2⌋,
//     |B| = ⌈n/2⌉, maximizing W(A) + W(B), where W(S) is the sum of edge
//     weights inside S. The split tells the probe queue which topics to
//     test together: topics that belong together stay together.
//   - Loader memoizes one immutable Graph per course id, building it from
//     the store on first access (the graph is read-only at runtime, so the
//     cache never invalidates).
//
// Complexity:
//
//   - Bisect enumerates all C(n, ⌊n/2⌋) half-subsets; with the weakest-link
//     limits n never exceeds 2·(WL_MAX_PER_GROUP) + small, typically ≤ 7,
//     so exhaustive enumeration is exact and cheap (≤ 35 subsets).
//   - Weight lookup is O(1) per pair; W(S) is O(|S|²).
//
// Determinism:
//
//   - Ties on total weight resolve to the partition whose A side has the
//     lexicographically smallest sorted topic-id list, so probe groups are
//     reproducible run to run.
//
// Errors (sentinel):
//
//	ErrNilStore     – the loader was constructed without a catalog.
//	ErrEmptyGraph   – the course has no authored affinity edges
//	                  (wraps core.ErrContentInconsistency).
//	ErrUnknownTopic – Bisect received a topic the graph has never seen.
package topicgraph
