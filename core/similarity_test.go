package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adaptix/adaptix/core"
)

func problemWithTopics(main string, subs ...string) *core.Problem {
	return &core.Problem{ID: "p-" + main, MainTopic: main, SubTopics: subs}
}

func TestOverlap(t *testing.T) {
	a := map[string]struct{}{"t1": {}, "t2": {}, "t3": {}}
	b := map[string]struct{}{"t1": {}, "t2": {}, "t4": {}}
	require.InDelta(t, 2.0/3.0, core.Overlap(a, b), 1e-9)
	require.Equal(t, 0.0, core.Overlap(a, map[string]struct{}{}))
	require.Equal(t, 1.0, core.Overlap(a, a))
}

func TestSimilar_SameMainTopicRequired(t *testing.T) {
	params := core.DefaultParams()
	p := problemWithTopics("t1", "t2", "t3")
	q := problemWithTopics("t9", "t2", "t3")
	require.False(t, core.Similar(p, q, params.Similarity))
}

func TestSimilar_StrictThreshold(t *testing.T) {
	params := core.DefaultParams()

	// topics(p) = {t1,t2,t3}, topics(q) = {t1,t2,t4}: overlap 2/3 > 0.66.
	p := problemWithTopics("t1", "t2", "t3")
	q := problemWithTopics("t1", "t2", "t4")
	require.True(t, core.Similar(p, q, params.Similarity))

	// Exactly the threshold is NOT similar: overlap 2/3 against 2/3.
	require.False(t, core.Similar(p, q, 2.0/3.0))

	// Disjoint sub-topics: overlap 1/3 ≤ 0.66.
	r := problemWithTopics("t1", "t5", "t6")
	require.False(t, core.Similar(p, r, params.Similarity))
}

func TestTopicSet_DeduplicatesAndIncludesMain(t *testing.T) {
	p := &core.Problem{MainTopic: "t1", SubTopics: []string{"t2", "t2", "t3"}}
	set := p.TopicSet()
	require.Len(t, set, 3)
	require.Contains(t, set, "t1")
	require.Contains(t, set, "t2")
	require.Contains(t, set, "t3")
}
