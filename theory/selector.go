package theory

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/adaptix/adaptix/core"
	"github.com/adaptix/adaptix/store"
	"github.com/adaptix/adaptix/value"
)

// Selector picks theory problems. Safe for concurrent use; the caller
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

// Next returns the best next theory problem of the topic.
func (s *Selector) Next(ctx context.Context, st store.Store, userID, semesterID, topicID string) (*core.Problem, error) {
	topic, err := st.Topic(ctx, topicID)
	if err != nil {
		return nil, fmt.Errorf("load topic %s: %w", topicID, err)
	}
	snapshot, err := progressSnapshot(ctx, st, userID, semesterID)
	if err != nil {
		return nil, err
	}
	prog, ok := snapshot[topicID]
	if !ok {
		return nil, fmt.Errorf("%w: no progress row for topic %s", core.ErrContentInconsistency, topicID)
	}

	// Preconditions.
	if prog.IsTheoryCompleted(s.params) {
		return nil, core.ErrTopicTheoryDone
	}
	if topic.ParentTopic != "" {
		parent, ok := snapshot[topic.ParentTopic]
		if !ok {
			return nil, fmt.Errorf("%w: no progress row for parent topic %s", core.ErrContentInconsistency, topic.ParentTopic)
		}
		if !parent.TheoryLowReached(s.params) {
			return nil, core.ErrPrerequisiteNotMet
		}
	}

	sem, err := st.Semester(ctx, semesterID)
	if err != nil {
		return nil, fmt.Errorf("load semester %s: %w", semesterID, err)
	}
	problems, err := st.ProblemsByCourse(ctx, sem.CourseID)
	if err != nil {
		return nil, fmt.Errorf("load course problems: %w", err)
	}
	answers, err := st.AnswersByUser(ctx, userID, semesterID)
	if err != nil {
		return nil, fmt.Errorf("load answer log: %w", err)
	}
	answered := make(map[string]struct{}, len(answers))
	for _, ans := range answers {
		answered[ans.ProblemID] = struct{}{}
	}

	pool, err := s.candidates(problems, topicID, answered, snapshot)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, core.ErrNoProblemAvailable
	}

	target, err := st.TargetPoints(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load target points: %w", err)
	}
	ranked, err := s.ranker.Rank(ctx, pool, snapshot, target)
	if err != nil {
		return nil, err
	}

	lastN := countTheoryAnswers(answers, problems, topicID)
	if lastN >= s.params.PlacementAnswers {
		return ranked[0], nil
	}

	// Calibration: cap the difficulty at the skill's suitable level,
	// widening one step when nothing fits under the cap.
	ceiling := core.SuitableDifficulty(prog.SkillLevel, s.params)
	for _, limit := range []core.Difficulty{ceiling, ceiling.Inc()} {
		if p := pickUnderCap(ranked, limit); p != nil {
			s.log.WithFields(logrus.Fields{
				"user": userID, "topic": topicID, "problem": p.ID, "cap": limit.String(),
			}).Debug("calibration theory problem selected")

			return p, nil
		}
	}

	return nil, core.ErrNoProblemAvailable
}

// candidates filters the course's problems down to the topic's eligible
// theory pool.
func (s *Selector) candidates(problems []*core.Problem, topicID string, answered map[string]struct{}, snapshot map[string]*core.Progress) ([]*core.Problem, error) {
	var pool []*core.Problem
	for _, p := range problems {
		if p.Part != core.TheoryPart || p.MainTopic != topicID {
			continue
		}
		if _, done := answered[p.ID]; done {
			continue
		}
		ok, err := subTopicsReady(p, snapshot, s.params)
		if err != nil {
			return nil, err
		}
		if ok {
			pool = append(pool, p)
		}
	}

	return pool, nil
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

// pickUnderCap returns the best-ranked candidate of the hardest
// difficulty at or under the cap, nil when nothing qualifies.
func pickUnderCap(ranked []*core.Problem, limit core.Difficulty) *core.Problem {
	for d := limit; ; d = d.Dec() {
		for _, p := range ranked {
			if p.Difficulty == d {
				return p
			}
		}
		if d == core.Easy {
			return nil
		}
	}
}

// countTheoryAnswers counts the non-skipped theory answers on the topic.
func countTheoryAnswers(answers []*core.UserAnswer, problems []*core.Problem, topicID string) int {
	byID := make(map[string]*core.Problem, len(problems))
	for _, p := range problems {
		byID[p.ID] = p
	}
	n := 0
	for _, ans := range answers {
		if ans.Skipped() {
			continue
		}
		p, ok := byID[ans.ProblemID]
		if ok && p.Part == core.TheoryPart && p.MainTopic == topicID {
			n++
		}
	}

	return n
}

// progressSnapshot loads the pair's progress rows keyed by topic id.
func progressSnapshot(ctx context.Context, st store.Store, userID, semesterID string) (map[string]*core.Progress, error) {
	rows, err := st.ProgressByUser(ctx, userID, semesterID)
	if err != nil {
		return nil, fmt.Errorf("load progress rows: %w", err)
	}
	snapshot := make(map[string]*core.Progress, len(rows))
	for _, pr := range rows {
		snapshot[pr.TopicID] = pr
	}
	if len(snapshot) == 0 {
		return nil, fmt.Errorf("%w: user %s has no progress rows in semester %s", core.ErrContentInconsistency, userID, semesterID)
	}

	return snapshot, nil
}
