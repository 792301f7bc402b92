package coursegen_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adaptix/adaptix/core"
	"github.com/adaptix/adaptix/coursegen"
	"github.com/adaptix/adaptix/store/memstore"
)

func TestGenerate_ShapeAndDeterminism(t *testing.T) {
	params := core.DefaultParams()
	cfg := coursegen.Config{Topics: 5, TheoryPerTopic: 4, PracticePerTopic: 3, Seed: 7}

	b := coursegen.Generate(params, cfg)
	require.Len(t, b.Topics, 5)
	require.Len(t, b.Problems, 5*(4+3))
	require.Len(t, b.Edges, 5*4/2) // complete graph
	require.Len(t, b.Semester.JoinCode, params.JoinCodeLength)

	// Chain: every topic but the first has the previous one as parent.
	require.Empty(t, b.Topics[0].ParentTopic)
	for i := 1; i < len(b.Topics); i++ {
		require.Equal(t, b.Topics[i-1].ID, b.Topics[i].ParentTopic)
	}

	// Sub-topics point strictly backwards and stay within the cap.
	index := make(map[string]int)
	for i, topic := range b.Topics {
		index[topic.ID] = i
	}
	for _, p := range b.Problems {
		require.LessOrEqual(t, len(p.SubTopics), params.MaxSubTopics, p.Title)
		for _, sub := range p.SubTopics {
			require.Less(t, index[sub], index[p.MainTopic], p.Title)
		}
	}

	again := coursegen.Generate(params, cfg)
	require.Equal(t, b, again)

	other := coursegen.Generate(params, coursegen.Config{Topics: 5, TheoryPerTopic: 4, PracticePerTopic: 3, Seed: 8})
	require.NotEqual(t, b.Edges, other.Edges)
}

func TestCorrect_SolvesEveryGeneratedFormat(t *testing.T) {
	params := core.DefaultParams()
	b := coursegen.Generate(params, coursegen.DefaultConfig())

	for _, p := range b.Problems[:6] {
		p := p
		coefficient, _, err := core.Evaluate(&p, coursegen.Correct(&p, true))
		require.NoError(t, err, p.Title)
		require.Equal(t, 1.0, coefficient, p.Title)

		coefficient, _, err = core.Evaluate(&p, coursegen.Correct(&p, false))
		require.NoError(t, err, p.Title)
		require.Equal(t, 0.0, coefficient, p.Title)
	}
}

func TestSeed_PopulatesStore(t *testing.T) {
	st := memstore.New()
	b := coursegen.Generate(core.DefaultParams(), coursegen.DefaultConfig())
	b.Seed(st)

	topics, err := st.TopicsByCourse(context.Background(), b.Course.ID)
	require.NoError(t, err)
	require.Len(t, topics, len(b.Topics))

	problems, err := st.ProblemsByCourse(context.Background(), b.Course.ID)
	require.NoError(t, err)
	require.Len(t, problems, len(b.Problems))
}
