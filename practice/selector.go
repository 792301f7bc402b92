package practice

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/adaptix/adaptix/core"
	"github.com/adaptix/adaptix/store"
	"github.com/adaptix/adaptix/value"
)

// Pool is the eligible practice set of one pair, before the difficulty
// passes. Progress and Target are the snapshot the pool was built from,
// reusable for ranking its problems.
type Pool struct {
	Problems []*core.Problem
	Progress map[string]*core.Progress
	Target   core.TargetPoints
}

// Selector picks practice problems. Safe for concurrent use; the caller
// serializes per (user, semester).
type Selector struct {
	params core.Params
	ranker *value.Ranker
	log    logrus.FieldLogger
}

// NewSelector returns a Selector over the given parameter block. A nil
// logger falls back to the logrus standard logger.
func NewSelector(params core.Params, log logrus.FieldLogger) *Selector {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Selector{params: params, ranker: value.NewRanker(params, log), log: log}
}

// Next returns the best next practice problem of the pair.
func (s *Selector) Next(ctx context.Context, st store.Store, userID, semesterID string) (*core.Problem, error) {
	pool, err := s.Pool(ctx, st, userID, semesterID)
	if err != nil {
		return nil, err
	}

	// Three difficulty passes: exact suitable difficulty, then a NORMAL
	// ceiling, then everything.
	for _, pass := range []func(*core.Problem, *core.Progress) bool{
		func(p *core.Problem, pr *core.Progress) bool {
			return p.Difficulty == core.SuitableDifficulty(pr.SkillLevel, s.params)
		},
		func(p *core.Problem, _ *core.Progress) bool { return p.Difficulty <= core.Normal },
		func(p *core.Problem, _ *core.Progress) bool { return p.Difficulty <= core.Hard },
	} {
		var narrowed []*core.Problem
		for _, p := range pool.Problems {
			if pass(p, pool.Progress[p.MainTopic]) {
				narrowed = append(narrowed, p)
			}
		}
		if len(narrowed) == 0 {
			continue
		}
		ranked, err := s.ranker.Rank(ctx, narrowed, pool.Progress, pool.Target)
		if err != nil {
			return nil, err
		}
		s.log.WithFields(logrus.Fields{
			"user": userID, "semester": semesterID, "problem": ranked[0].ID, "pool": len(narrowed),
		}).Debug("practice problem selected")

		return ranked[0], nil
	}

	return nil, core.ErrNoProblemAvailable
}

// Pool computes the eligible practice problems of the pair together with
// the snapshot they were judged against.
func (s *Selector) Pool(ctx context.Context, st store.Store, userID, semesterID string) (*Pool, error) {
	rows, err := st.ProgressByUser(ctx, userID, semesterID)
	if err != nil {
		return nil, fmt.Errorf("load progress rows: %w", err)
	}
	snapshot := make(map[string]*core.Progress, len(rows))
	eligible := make(map[string]struct{})
	for _, pr := range rows {
		snapshot[pr.TopicID] = pr
		if pr.TheoryLowReached(s.params) && !pr.IsPracticeCompleted(s.params) {
			eligible[pr.TopicID] = struct{}{}
		}
	}
	if len(eligible) == 0 {
		return nil, core.ErrTheoryNotStarted
	}

	sem, err := st.Semester(ctx, semesterID)
	if err != nil {
		return nil, fmt.Errorf("load semester %s: %w", semesterID, err)
	}
	problems, err := st.ProblemsByCourse(ctx, sem.CourseID)
	if err != nil {
		return nil, fmt.Errorf("load course problems: %w", err)
	}
	attempts, solved, err := attemptCounts(ctx, st, userID, semesterID)
	if err != nil {
		return nil, err
	}
	target, err := st.TargetPoints(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load target points: %w", err)
	}

	pool := &Pool{Progress: snapshot, Target: target}
	for _, p := range problems {
		if p.Part != core.PracticePart {
			continue
		}
		if _, ok := eligible[p.MainTopic]; !ok {
			continue
		}
		if solved[p.ID] || attempts[p.ID] >= s.params.MaxAttemptsPerPractice {
			continue
		}
		// The user's target ceiling makes further points on this topic
		// worthless.
		if snapshot[p.MainTopic].TotalPoints() >= float64(target) {
			continue
		}
		ok, err := subTopicsReady(p, snapshot, s.params)
		if err != nil {
			return nil, err
		}
		if ok {
			pool.Problems = append(pool.Problems, p)
		}
	}

	return pool, nil
}

// attemptCounts tallies the pair's answers per problem. Skips count as
// attempts; solved is sticky once any answer solved the problem.
func attemptCounts(ctx context.Context, st store.Store, userID, semesterID string) (attempts map[string]int, solved map[string]bool, err error) {
	answers, err := st.AnswersByUser(ctx, userID, semesterID)
	if err != nil {
		return nil, nil, fmt.Errorf("load answer log: %w", err)
	}
	attempts = make(map[string]int, len(answers))
	solved = make(map[string]bool)
	for _, ans := range answers {
		attempts[ans.ProblemID]++
		if ans.Solved() {
			solved[ans.ProblemID] = true
		}
	}

	return attempts, solved, nil
}

// subTopicsReady reports whether every sub-topic has theory_low reached.
func subTopicsReady(p *core.Problem, snapshot map[string]*core.Progress, params core.Params) (bool, error) {
	for _, sub := range p.SubTopics {
		sp, ok := snapshot[sub]
		if !ok {
			return false, fmt.Errorf("%w: no progress row for sub-topic %s", core.ErrContentInconsistency, sub)
		}
		if !sp.TheoryLowReached(params) {
			return false, nil
		}
	}

	return true, nil
}
