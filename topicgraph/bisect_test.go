package topicgraph_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adaptix/adaptix/core"
	"github.com/adaptix/adaptix/store/memstore"
	"github.com/adaptix/adaptix/topicgraph"
)

// buildGraph constructs a graph over topics t1..tn with the given weights.
func buildGraph(t *testing.T, n int, weights map[[2]string]float64) *topicgraph.Graph {
	t.Helper()
	topics := make([]*core.Topic, 0, n)
	for i := 1; i <= n; i++ {
		topics = append(topics, &core.Topic{ID: topicID(i)})
	}
	edges := make([]core.TopicGraphEdge, 0, len(weights))
	for pair, w := range weights {
		edges = append(edges, core.TopicGraphEdge{CourseID: "c", Topic1: pair[0], Topic2: pair[1], Weight: w})
	}
	g, err := topicgraph.New("c", topics, edges)
	require.NoError(t, err)

	return g
}

func topicID(i int) string {
	return "t" + string(rune('0'+i))
}

func set(ids ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}

	return out
}

func TestNew_NoEdgesIsContentInconsistency(t *testing.T) {
	_, err := topicgraph.New("c", []*core.Topic{{ID: "t1"}}, nil)
	require.ErrorIs(t, err, topicgraph.ErrEmptyGraph)
	require.ErrorIs(t, err, core.ErrContentInconsistency)
}

func TestNew_UnknownEndpoint(t *testing.T) {
	_, err := topicgraph.New("c",
		[]*core.Topic{{ID: "t1"}},
		[]core.TopicGraphEdge{{Topic1: "t1", Topic2: "ghost", Weight: 0.5}},
	)
	require.ErrorIs(t, err, core.ErrContentInconsistency)
}

func TestWeight_SymmetricWithZeroDefault(t *testing.T) {
	g := buildGraph(t, 3, map[[2]string]float64{
		{"t1", "t2"}: 0.4,
	})
	require.Equal(t, 0.4, g.Weight("t1", "t2"))
	require.Equal(t, 0.4, g.Weight("t2", "t1"))
	require.Equal(t, 0.0, g.Weight("t1", "t3"))
}

func TestBisect_DegenerateSizes(t *testing.T) {
	g := buildGraph(t, 2, map[[2]string]float64{{"t1", "t2"}: 0.5})

	a, b, err := g.Bisect(set())
	require.NoError(t, err)
	require.Empty(t, a)
	require.Empty(t, b)

	a, b, err = g.Bisect(set("t1"))
	require.NoError(t, err)
	require.Equal(t, []string{"t1"}, a)
	require.Empty(t, b)

	a, b, err = g.Bisect(set("t1", "t2"))
	require.NoError(t, err)
	require.Equal(t, []string{"t1"}, a)
	require.Equal(t, []string{"t2"}, b)
}

// The reference scenario: weights chosen so the optimum keeps T1 with T3
// and T2 with T4 (W = 0.9 + 0.1 = 1.0; the alternatives score 0.2 and 1.0
// with a lexicographically larger A side).
func TestBisect_ReferenceFourTopics(t *testing.T) {
	g := buildGraph(t, 4, map[[2]string]float64{
		{"t1", "t2"}: 0.1,
		{"t1", "t3"}: 0.9,
		{"t1", "t4"}: 0.9,
		{"t2", "t3"}: 0.1,
		{"t2", "t4"}: 0.1,
		{"t3", "t4"}: 0.1,
	})

	a, b, err := g.Bisect(set("t1", "t2", "t3", "t4"))
	require.NoError(t, err)
	// {t1,t3}/{t2,t4} scores 0.9+0.1 = 1.0, as does {t1,t4}/{t2,t3};
	// the deterministic tie-break prefers the smaller A = [t1 t3].
	require.Equal(t, []string{"t1", "t3"}, a)
	require.Equal(t, []string{"t2", "t4"}, b)
}

func TestBisect_OddSizeSplitsFloorCeil(t *testing.T) {
	g := buildGraph(t, 5, map[[2]string]float64{
		{"t1", "t2"}: 1.0,
		{"t3", "t4"}: 1.0,
		{"t4", "t5"}: 1.0,
		{"t3", "t5"}: 1.0,
	})

	a, b, err := g.Bisect(set("t1", "t2", "t3", "t4", "t5"))
	require.NoError(t, err)
	require.Len(t, a, 2)
	require.Len(t, b, 3)
	require.ElementsMatch(t, []string{"t1", "t2"}, a)
	require.ElementsMatch(t, []string{"t3", "t4", "t5"}, b)
}

func TestBisect_UnknownTopic(t *testing.T) {
	g := buildGraph(t, 2, map[[2]string]float64{{"t1", "t2"}: 0.5})
	_, _, err := g.Bisect(set("t1", "ghost"))
	require.ErrorIs(t, err, topicgraph.ErrUnknownTopic)
}

func TestBisect_DeterministicOnTies(t *testing.T) {
	// All weights equal: every partition scores the same, so the
	// tie-break must always pick the same A.
	g := buildGraph(t, 4, map[[2]string]float64{
		{"t1", "t2"}: 0.5, {"t1", "t3"}: 0.5, {"t1", "t4"}: 0.5,
		{"t2", "t3"}: 0.5, {"t2", "t4"}: 0.5, {"t3", "t4"}: 0.5,
	})
	first, _, err := g.Bisect(set("t1", "t2", "t3", "t4"))
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		a, _, err := g.Bisect(set("t1", "t2", "t3", "t4"))
		require.NoError(t, err)
		require.Equal(t, first, a)
	}
	require.Equal(t, []string{"t1", "t2"}, first) // lexicographically smallest half
}

func TestLoader_MemoizesPerCourse(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	st.PutCourse(core.Course{ID: "c", Modules: []string{"m"}})
	st.PutModule(core.Module{ID: "m", CourseID: "c", Topics: []string{"t1", "t2"}})
	st.PutTopic(core.Topic{ID: "t1", ModuleID: "m"})
	st.PutTopic(core.Topic{ID: "t2", ModuleID: "m"})
	st.PutGraphEdge(core.TopicGraphEdge{CourseID: "c", Topic1: "t1", Topic2: "t2", Weight: 0.3})

	loader, err := topicgraph.NewLoader(st)
	require.NoError(t, err)

	g1, err := loader.Get(ctx, "c")
	require.NoError(t, err)
	g2, err := loader.Get(ctx, "c")
	require.NoError(t, err)
	require.Same(t, g1, g2)

	// A course without edges surfaces the content error and is not cached.
	st.PutCourse(core.Course{ID: "empty"})
	_, err = loader.Get(ctx, "empty")
	require.ErrorIs(t, err, core.ErrContentInconsistency)
}

func TestNewLoader_NilStore(t *testing.T) {
	_, err := topicgraph.NewLoader(nil)
	require.ErrorIs(t, err, topicgraph.ErrNilStore)
}
