package topicgraph

import (
	"fmt"
	"math/bits"
)

// Bisect partitions the topic set into (A, B) with |A| = ⌊n/2⌋ and
// |B| = ⌈n/2⌉, maximizing W(A) + W(B). Degenerate sizes short-circuit:
// n = 0 → (∅, ∅); n = 1 → ({t}, ∅); n = 2 → two singletons.
//
// The search enumerates every ⌊n/2⌋-subset of the canonical (sorted) node
// order as a bitmask — the same subset-as-bitmask technique as a Held–Karp
// sweep, except here the subset count is tiny (n ≤ ~7, ≤ 35 subsets) so
// exhaustive enumeration is exact. Ties on total weight resolve to the
// candidate whose A side is lexicographically smallest in sorted-id order,
// making probe-group construction deterministic.
//
// Every topic must be a node of the graph; otherwise ErrUnknownTopic.
func (g *Graph) Bisect(topics map[string]struct{}) (a, b []string, err error) {
	for id := range topics {
		if !g.HasTopic(id) {
			return nil, nil, fmt.Errorf("%w: %s in course %s", ErrUnknownTopic, id, g.courseID)
		}
	}

	ids := sortedIDs(topics)
	n := len(ids)
	switch n {
	case 0:
		return nil, nil, nil
	case 1:
		return ids, nil, nil
	case 2:
		return ids[:1], ids[1:], nil
	}

	half := n / 2
	full := uint(1)<<n - 1

	var (
		bestWeight = -1.0 // any real weight (≥ 0) beats the sentinel
		bestA      []string
		bestB      []string
	)

	// Walk all n-bit masks with exactly `half` bits set.
	for mask := uint(0); mask <= full; mask++ {
		if bits.OnesCount(mask) != half {
			continue
		}
		groupA := make([]string, 0, half)
		groupB := make([]string, 0, n-half)
		for i := 0; i < n; i++ {
			if mask&(1<<uint(i)) != 0 {
				groupA = append(groupA, ids[i])
			} else {
				groupB = append(groupB, ids[i])
			}
		}
		weight := g.GroupWeight(groupA) + g.GroupWeight(groupB)
		if weight > bestWeight || (weight == bestWeight && lexLess(groupA, bestA)) {
			bestWeight, bestA, bestB = weight, groupA, groupB
		}
	}

	return bestA, bestB, nil
}

// lexLess compares two sorted id slices lexicographically.
func lexLess(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}

	return len(a) < len(b)
}
