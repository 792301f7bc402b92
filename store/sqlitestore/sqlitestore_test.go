package sqlitestore_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/adaptix/adaptix/core"
	"github.com/adaptix/adaptix/coursegen"
	"github.com/adaptix/adaptix/engine"
	"github.com/adaptix/adaptix/store"
	"github.com/adaptix/adaptix/store/sqlitestore"
)

func openStore(t *testing.T) *sqlitestore.Store {
	t.Helper()
	st, err := sqlitestore.Open(filepath.Join(t.TempDir(), "adaptix.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, st.Close()) })

	return st
}

func TestCatalogRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	require.NoError(t, st.PutCourse(ctx, core.Course{ID: "c1", Title: "Algorithms", Modules: []string{"m1", "m2"}}))
	require.NoError(t, st.PutModule(ctx, core.Module{ID: "m1", CourseID: "c1", Title: "Basics", Topics: []string{"t1", "t2"}}))
	require.NoError(t, st.PutModule(ctx, core.Module{ID: "m2", CourseID: "c1", Title: "Graphs", Topics: []string{"t3"}}))
	require.NoError(t, st.PutTopic(ctx, core.Topic{ID: "t1", ModuleID: "m1", Title: "Arrays"}))
	require.NoError(t, st.PutTopic(ctx, core.Topic{ID: "t2", ModuleID: "m1", Title: "Sorting", ParentTopic: "t1"}))
	require.NoError(t, st.PutTopic(ctx, core.Topic{ID: "t3", ModuleID: "m2", Title: "BFS"}))

	course, err := st.Course(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, []string{"m1", "m2"}, course.Modules)

	topics, err := st.TopicsByCourse(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, topics, 3)
	require.Equal(t, "t1", topics[0].ID) // module order, then topic order
	require.Equal(t, "t2", topics[1].ID)
	require.Equal(t, "t3", topics[2].ID)
	require.Equal(t, "t1", topics[1].ParentTopic)

	_, err = st.Topic(ctx, "absent")
	require.ErrorIs(t, err, core.ErrNotFound)
	_, err = st.TopicsByCourse(ctx, "absent")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestProblemRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	require.NoError(t, st.PutCourse(ctx, core.Course{ID: "c1", Modules: []string{"m1"}}))
	require.NoError(t, st.PutModule(ctx, core.Module{ID: "m1", CourseID: "c1", Topics: []string{"t1", "t2"}}))
	require.NoError(t, st.PutTopic(ctx, core.Topic{ID: "t1", ModuleID: "m1"}))
	require.NoError(t, st.PutTopic(ctx, core.Topic{ID: "t2", ModuleID: "m1"}))

	want := core.Problem{
		ID: "p1", Title: "binary search", Part: core.PracticePart, Format: core.FormatChoiceCheckbox,
		Difficulty: core.Hard, TimeToSolveSec: 240, MainTopic: "t1",
		SubTopics: []string{"t2"},
		Choices: []core.Choice{
			{ID: "a", Text: "first", Correct: true},
			{ID: "b", Text: "second"},
			{ID: "c", Text: "third", Correct: true},
		},
		Accepted: []string{"O(log n)", "logarithmic"},
	}
	require.NoError(t, st.PutProblem(ctx, want))

	got, err := st.Problem(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, &want, got)

	byCourse, err := st.ProblemsByCourse(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, byCourse, 1)
	require.Equal(t, &want, byCourse[0])

	_, err = st.Problem(ctx, "absent")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestSemesterZeroTimesRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	expiry := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, st.PutSemester(ctx, core.Semester{
		ID: "s1", CourseID: "c1", Title: "Fall", JoinCode: "ABCDE", JoinCodeExpiresAt: expiry,
	}))
	require.NoError(t, st.PutSemester(ctx, core.Semester{ID: "s2", CourseID: "c1"}))

	s1, err := st.Semester(ctx, "s1")
	require.NoError(t, err)
	require.True(t, s1.JoinCodeExpiresAt.Equal(expiry))
	require.True(t, s1.StartedAt.IsZero())

	s2, err := st.Semester(ctx, "s2")
	require.NoError(t, err)
	require.True(t, s2.JoinCodeExpiresAt.IsZero())
}

func TestAppendAnswer_SequencesPerPair(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	frozen := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	st.SetClock(func() time.Time { return frozen })

	solved := true
	for i := 0; i < 3; i++ {
		_, err := st.AppendAnswer(ctx, &core.UserAnswer{
			UserID: "u", SemesterID: "s", ProblemID: "p", IsSolved: &solved, Coefficient: 1,
		})
		require.NoError(t, err)
	}
	// A skip on another pair keeps its own sequence and a NULL verdict.
	stored, err := st.AppendAnswer(ctx, &core.UserAnswer{UserID: "other", SemesterID: "s", ProblemID: "p"})
	require.NoError(t, err)
	require.Equal(t, uint64(1), stored.Seq)

	rows, err := st.AnswersByUser(ctx, "u", "s")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for i, row := range rows {
		require.Equal(t, uint64(i+1), row.Seq)
		require.True(t, row.CreatedAt.Equal(frozen))
		require.NotEmpty(t, row.ID)
		require.True(t, row.Solved())
	}

	skips, err := st.AnswersByUser(ctx, "other", "s")
	require.NoError(t, err)
	require.Len(t, skips, 1)
	require.True(t, skips[0].Skipped())
}

func TestProgress_UpsertAndNotFound(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	_, err := st.Progress(ctx, "u", "s", "t")
	require.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, st.PutProgress(ctx, &core.Progress{UserID: "u", SemesterID: "s", TopicID: "t", SkillLevel: 1.7}))
	require.NoError(t, st.PutProgress(ctx, &core.Progress{UserID: "u", SemesterID: "s", TopicID: "t", SkillLevel: 2.0, TheoryPoints: 9}))

	rows, err := st.ProgressByUser(ctx, "u", "s")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, 2.0, rows[0].SkillLevel)
	require.Equal(t, 9.0, rows[0].TheoryPoints)
}

func TestEnrollmentAndTargets(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	ok, err := st.IsEnrolled(ctx, "u", "s")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, st.Enroll(ctx, "u", "s"))
	require.NoError(t, st.Enroll(ctx, "u", "s"))
	ok, err = st.IsEnrolled(ctx, "u", "s")
	require.NoError(t, err)
	require.True(t, ok)

	target, err := st.TargetPoints(ctx, "u")
	require.NoError(t, err)
	require.Equal(t, core.TargetHigh, target)
	require.NoError(t, st.SetTargetPoints(ctx, "u", core.TargetMedium))
	target, err = st.TargetPoints(ctx, "u")
	require.NoError(t, err)
	require.Equal(t, core.TargetMedium, target)
}

func TestWeakestLinkRows(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	state, err := st.WeakestLinkState(ctx, "u", "s")
	require.NoError(t, err)
	require.Equal(t, core.WLNone, state)
	require.NoError(t, st.SetWeakestLinkState(ctx, "u", "s", core.WLInProgress))
	state, err = st.WeakestLinkState(ctx, "u", "s")
	require.NoError(t, err)
	require.Equal(t, core.WLInProgress, state)

	for group := 1; group <= 2; group++ {
		require.NoError(t, st.AddWeakestLinkTopic(ctx, core.WeakestLinkTopic{
			UserID: "u", SemesterID: "s", TopicID: "t", Group: group,
		}))
	}
	require.NoError(t, st.AddWeakestLinkProblem(ctx, core.WeakestLinkProblem{
		UserID: "u", SemesterID: "s", ProblemID: "p2", Group: 2, Order: 0,
	}))
	require.NoError(t, st.AddWeakestLinkProblem(ctx, core.WeakestLinkProblem{
		UserID: "u", SemesterID: "s", ProblemID: "p1", Group: 1, Order: 1,
	}))
	require.NoError(t, st.AddWeakestLinkProblem(ctx, core.WeakestLinkProblem{
		UserID: "u", SemesterID: "s", ProblemID: "p0", Group: 1, Order: 0,
	}))

	require.NoError(t, st.SetWeakestLinkSolved(ctx, "u", "s", "p1", true))
	require.ErrorIs(t, st.SetWeakestLinkSolved(ctx, "u", "s", "absent", false), core.ErrNotFound)

	rows, err := st.WeakestLinkProblems(ctx, "u", "s")
	require.NoError(t, err)
	require.Equal(t, []string{"p0", "p1", "p2"}, []string{rows[0].ProblemID, rows[1].ProblemID, rows[2].ProblemID})
	require.Nil(t, rows[0].IsSolved)
	require.NotNil(t, rows[1].IsSolved)
	require.True(t, *rows[1].IsSolved)

	require.NoError(t, st.DeleteWeakestLinkGroup(ctx, "u", "s", 1, true))
	topics, err := st.WeakestLinkTopics(ctx, "u", "s")
	require.NoError(t, err)
	require.Len(t, topics, 2) // problemsOnly keeps the topic rows
	rows, err = st.WeakestLinkProblems(ctx, "u", "s")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, 2, rows[0].Group)

	require.NoError(t, st.ClearWeakestLink(ctx, "u", "s"))
	topics, err = st.WeakestLinkTopics(ctx, "u", "s")
	require.NoError(t, err)
	require.Empty(t, topics)
}

func TestWithinTx(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	t.Run("commits on success", func(t *testing.T) {
		err := st.WithinTx(ctx, func(tx store.Store) error {
			return tx.PutProgress(ctx, &core.Progress{UserID: "u", SemesterID: "s", TopicID: "kept", SkillLevel: 1.7})
		})
		require.NoError(t, err)
		_, err = st.Progress(ctx, "u", "s", "kept")
		require.NoError(t, err)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := st.WithinTx(ctx, func(tx store.Store) error {
			if err := tx.PutProgress(ctx, &core.Progress{UserID: "u", SemesterID: "s", TopicID: "gone"}); err != nil {
				return err
			}

			return boom
		})
		require.ErrorIs(t, err, boom)
		_, err = st.Progress(ctx, "u", "s", "gone")
		require.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("refuses nesting", func(t *testing.T) {
		err := st.WithinTx(ctx, func(tx store.Store) error {
			return tx.WithinTx(ctx, func(store.Store) error { return nil })
		})
		require.Error(t, err)
	})
}

// TestEngineOverSQLite runs the real facade against the SQLite store with
// a generated course: enrollment, selection and a scored submission.
func TestEngineOverSQLite(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	params := core.DefaultParams()

	bundle := coursegen.Generate(params, coursegen.DefaultConfig())
	seeder := st.Seeder(ctx)
	bundle.Seed(seeder)
	require.NoError(t, seeder.Err())

	eng, err := engine.New(st, params)
	require.NoError(t, err)
	require.NoError(t, eng.Enroll(ctx, bundle.Student.ID, bundle.Semester.ID, bundle.Semester.JoinCode))

	rows, err := st.ProgressByUser(ctx, bundle.Student.ID, bundle.Semester.ID)
	require.NoError(t, err)
	require.Len(t, rows, len(bundle.Topics))

	first := bundle.Topics[0]
	problem, err := eng.NextTheory(ctx, bundle.Student.ID, bundle.Semester.ID, first.ID)
	require.NoError(t, err)
	require.Equal(t, core.TheoryPart, problem.Part)

	res, err := eng.SubmitAnswer(ctx, bundle.Student.ID, bundle.Semester.ID, problem.ID,
		coursegen.Correct(problem, true), problem.TimeToSolveSec)
	require.NoError(t, err)
	require.True(t, res.Solved)

	pr, err := st.Progress(ctx, bundle.Student.ID, bundle.Semester.ID, first.ID)
	require.NoError(t, err)
	require.InDelta(t, params.Points(problem.Difficulty)*params.PlacementPointsCoef, pr.TheoryPoints, 1e-9)
	require.InDelta(t, params.AverageSkill, pr.SkillLevel, 1e-9)

	answers, err := st.AnswersByUser(ctx, bundle.Student.ID, bundle.Semester.ID)
	require.NoError(t, err)
	require.Len(t, answers, 1)
	require.Equal(t, uint64(1), answers[0].Seq)
}
