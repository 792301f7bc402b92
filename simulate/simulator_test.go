package simulate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adaptix/adaptix/core"
	"github.com/adaptix/adaptix/coursegen"
	"github.com/adaptix/adaptix/engine"
	"github.com/adaptix/adaptix/simulate"
	"github.com/adaptix/adaptix/store/memstore"
)

func TestStreams(t *testing.T) {
	take := func(s simulate.Stream, n int) []bool {
		out := make([]bool, n)
		for i := range out {
			out[i] = s.Next()
		}

		return out
	}

	require.Equal(t, []bool{true, true, true}, take(simulate.AlwaysSolved(), 3))
	require.Equal(t, []bool{true, false, true, false}, take(simulate.Alternating(), 4))
	require.Equal(t, []bool{true, true, false, true, true, false}, take(simulate.EveryNthFailed(3), 6))

	// A restarted stream replays the same outcomes.
	b := simulate.Bernoulli(0.7, 42)
	first := take(b, 20)
	b.Restart()
	require.Equal(t, first, take(b, 20))

	alt := simulate.Alternating()
	_ = take(alt, 3)
	alt.Restart()
	require.Equal(t, []bool{true, false}, take(alt, 2))
}

// world builds a generated course, a store and an engine, with the
// student enrolled.
func world(t *testing.T) (*memstore.Store, *engine.Engine, *coursegen.Bundle) {
	t.Helper()
	params := core.DefaultParams()
	b := coursegen.Generate(params, coursegen.DefaultConfig())
	st := memstore.New()
	b.Seed(st)

	eng, err := engine.New(st, params)
	require.NoError(t, err)
	require.NoError(t, eng.Enroll(context.Background(), b.Student.ID, b.Semester.ID, b.Semester.JoinCode))

	return st, eng, b
}

func TestRun_TheoryFirstPerfectStudent(t *testing.T) {
	st, eng, b := world(t)
	ctx := context.Background()
	sim := simulate.New(eng, st, nil)

	stats, err := sim.Run(ctx, b.Student.ID, b.Semester.ID, simulate.TheoryFirst, simulate.AlwaysSolved(), 5000)
	require.NoError(t, err)
	require.Equal(t, stats.TheoryAnswers+stats.PracticeAnswers, stats.Solved)
	require.Positive(t, stats.PracticeAnswers)

	// A perfect student with an ample pool finishes every theory part.
	params := core.DefaultParams()
	for _, topic := range b.Topics {
		pr, err := st.Progress(ctx, b.Student.ID, b.Semester.ID, topic.ID)
		require.NoError(t, err)
		require.True(t, pr.IsTheoryCompleted(params), topic.ID)
		require.Positive(t, pr.PracticePoints, topic.ID)
	}
}

func TestRun_ModuleBasedStaysWithinBudgets(t *testing.T) {
	st, eng, b := world(t)
	ctx := context.Background()
	sim := simulate.New(eng, st, nil)

	stats, err := sim.Run(ctx, b.Student.ID, b.Semester.ID, simulate.ModuleBased, simulate.EveryNthFailed(3), 5000)
	require.NoError(t, err)
	require.Positive(t, stats.TheoryAnswers)

	params := core.DefaultParams()
	for _, topic := range b.Topics {
		pr, err := st.Progress(ctx, b.Student.ID, b.Semester.ID, topic.ID)
		require.NoError(t, err)
		require.GreaterOrEqual(t, pr.TheoryPoints, 0.0)
		require.LessOrEqual(t, pr.TheoryPoints, params.TheoryMax)
		require.GreaterOrEqual(t, pr.PracticePoints, 0.0)
		require.LessOrEqual(t, pr.PracticePoints, params.PracticeMax)
	}
}

func TestRun_StruggleTriggersRealisticChurn(t *testing.T) {
	st, eng, b := world(t)
	ctx := context.Background()
	sim := simulate.New(eng, st, nil)

	stats, err := sim.Run(ctx, b.Student.ID, b.Semester.ID, simulate.TheoryFirst, simulate.Bernoulli(0.5, 7), 5000)
	require.NoError(t, err)
	require.Less(t, stats.Solved, stats.TheoryAnswers+stats.PracticeAnswers)

	// The answer log is append-only and totally ordered per pair.
	answers, err := st.AnswersByUser(ctx, b.Student.ID, b.Semester.ID)
	require.NoError(t, err)
	require.Len(t, answers, stats.TheoryAnswers+stats.PracticeAnswers+stats.Skipped)
	for i := 1; i < len(answers); i++ {
		require.Greater(t, answers[i].Seq, answers[i-1].Seq)
	}
}
