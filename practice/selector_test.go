package practice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adaptix/adaptix/core"
	"github.com/adaptix/adaptix/practice"
	"github.com/adaptix/adaptix/store/memstore"
)

const (
	userID = "u1"
	semID  = "s1"
	topic  = "t-sorting"
	subTop = "t-recursion"
)

// fixture seeds one topic past theory_low (eligible for practice) and a
// sub-topic below it.
func fixture(t *testing.T) *memstore.Store {
	t.Helper()
	st := memstore.New()
	ctx := context.Background()

	st.PutCourse(core.Course{ID: "c", Modules: []string{"m"}})
	st.PutModule(core.Module{ID: "m", CourseID: "c", Topics: []string{topic, subTop}})
	st.PutSemester(core.Semester{ID: semID, CourseID: "c"})
	st.PutTopic(core.Topic{ID: topic, ModuleID: "m"})
	st.PutTopic(core.Topic{ID: subTop, ModuleID: "m"})

	require.NoError(t, st.PutProgress(ctx, &core.Progress{
		UserID: userID, SemesterID: semID, TopicID: topic,
		TheoryPoints: 30, SkillLevel: 1.7,
	}))
	require.NoError(t, st.PutProgress(ctx, &core.Progress{
		UserID: userID, SemesterID: semID, TopicID: subTop,
		TheoryPoints: 0, SkillLevel: 1.7,
	}))

	return st
}

func put(st *memstore.Store, id string, d core.Difficulty, tts float64, subs ...string) {
	st.PutProblem(core.Problem{
		ID: id, Title: id, Part: core.PracticePart, Format: core.FormatFillBlank,
		Difficulty: d, TimeToSolveSec: tts, MainTopic: topic, SubTopics: subs,
	})
}

func answer(t *testing.T, st *memstore.Store, problemID string, solved *bool) {
	t.Helper()
	_, err := st.AppendAnswer(context.Background(), &core.UserAnswer{
		UserID: userID, SemesterID: semID, ProblemID: problemID, IsSolved: solved,
	})
	require.NoError(t, err)
}

func next(t *testing.T, st *memstore.Store) (*core.Problem, error) {
	t.Helper()
	sel := practice.NewSelector(core.DefaultParams(), nil)

	return sel.Next(context.Background(), st, userID, semID)
}

func boolPtr(v bool) *bool { return &v }

func TestNext_NoTopicPastTheoryLow(t *testing.T) {
	st := fixture(t)
	require.NoError(t, st.PutProgress(context.Background(), &core.Progress{
		UserID: userID, SemesterID: semID, TopicID: topic, TheoryPoints: 10, SkillLevel: 1.7,
	}))
	put(st, "p1", core.Normal, 60)

	_, err := next(t, st)
	require.ErrorIs(t, err, core.ErrTheoryNotStarted)
}

func TestNext_ExactSuitableDifficultyWinsFirstPass(t *testing.T) {
	st := fixture(t)
	put(st, "easy", core.Easy, 60)
	put(st, "normal", core.Normal, 60)
	put(st, "hard", core.Hard, 60)

	p, err := next(t, st) // skill 1.7 suits NORMAL
	require.NoError(t, err)
	require.Equal(t, "normal", p.ID)
}

func TestNext_SecondPassCapsAtNormal(t *testing.T) {
	st := fixture(t)
	put(st, "easy", core.Easy, 60)
	put(st, "hard", core.Hard, 60)

	p, err := next(t, st)
	require.NoError(t, err)
	require.Equal(t, "easy", p.ID)
}

func TestNext_ThirdPassAllowsHard(t *testing.T) {
	st := fixture(t)
	put(st, "hard", core.Hard, 60)

	p, err := next(t, st)
	require.NoError(t, err)
	require.Equal(t, "hard", p.ID)
}

func TestNext_RanksByValueWithinPass(t *testing.T) {
	st := fixture(t)
	put(st, "slow", core.Normal, 600)
	put(st, "quick", core.Normal, 60)

	p, err := next(t, st)
	require.NoError(t, err)
	require.Equal(t, "quick", p.ID)
}

func TestNext_AttemptAccounting(t *testing.T) {
	st := fixture(t)
	put(st, "spent", core.Normal, 60)
	put(st, "retry", core.Normal, 90)
	put(st, "done", core.Normal, 30)

	answer(t, st, "spent", boolPtr(false))
	answer(t, st, "spent", boolPtr(false)) // attempts exhausted
	answer(t, st, "retry", boolPtr(false)) // one attempt left
	answer(t, st, "done", boolPtr(true))   // solved problems never return

	p, err := next(t, st)
	require.NoError(t, err)
	require.Equal(t, "retry", p.ID)
}

func TestNext_SkipCountsAsAttempt(t *testing.T) {
	st := fixture(t)
	put(st, "skipped-twice", core.Normal, 60)
	answer(t, st, "skipped-twice", nil)
	answer(t, st, "skipped-twice", nil)

	_, err := next(t, st)
	require.ErrorIs(t, err, core.ErrNoProblemAvailable)
}

func TestNext_TargetCeilingExcludesTopic(t *testing.T) {
	st := fixture(t)
	require.NoError(t, st.SetTargetPoints(context.Background(), userID, core.TargetLow))
	require.NoError(t, st.PutProgress(context.Background(), &core.Progress{
		UserID: userID, SemesterID: semID, TopicID: topic,
		TheoryPoints: 40, PracticePoints: 21, SkillLevel: 1.7, // total 61 = LOW
	}))
	put(st, "p1", core.Normal, 60)

	_, err := next(t, st)
	require.ErrorIs(t, err, core.ErrNoProblemAvailable)
}

func TestNext_SubTopicBelowTheoryLowExcludes(t *testing.T) {
	st := fixture(t)
	put(st, "gated", core.Normal, 60, subTop)

	_, err := next(t, st)
	require.ErrorIs(t, err, core.ErrNoProblemAvailable)
}

func TestPool_ExposesSnapshotAndTarget(t *testing.T) {
	st := fixture(t)
	put(st, "p1", core.Normal, 60)

	pool, err := practice.NewSelector(core.DefaultParams(), nil).Pool(context.Background(), st, userID, semID)
	require.NoError(t, err)
	require.Len(t, pool.Problems, 1)
	require.Equal(t, core.TargetHigh, pool.Target)
	require.Contains(t, pool.Progress, topic)
	require.Contains(t, pool.Progress, subTop)
}
