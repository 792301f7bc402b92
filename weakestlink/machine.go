package weakestlink

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/adaptix/adaptix/core"
	"github.com/adaptix/adaptix/practice"
	"github.com/adaptix/adaptix/store"
	"github.com/adaptix/adaptix/topicgraph"
	"github.com/adaptix/adaptix/value"
)

// Machine is the probe automaton. It holds no per-user state; everything
// lives in the store, so one Machine serves every pair. The caller
// serializes per (user, semester).
type Machine struct {
	params core.Params
	sel    *practice.Selector
	ranker *value.Ranker
	graphs *topicgraph.Loader
	log    logrus.FieldLogger
}

// New returns a Machine drawing probe candidates from the practice
// selector's pool and bisecting on the loader's graphs. A nil logger
// falls back to the logrus standard logger.
func New(params core.Params, sel *practice.Selector, graphs *topicgraph.Loader, log logrus.FieldLogger) *Machine {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Machine{
		params: params,
		sel:    sel,
		ranker: value.NewRanker(params, log),
		graphs: graphs,
		log:    log,
	}
}

// MaybeTrigger inspects a freshly recorded wrong practice answer and
// starts probing when the answer history warrants it. It reports whether
// the automaton moved to IN_PROGRESS. Callers invoke it only from state
// NONE, after the answer has been appended.
func (m *Machine) MaybeTrigger(ctx context.Context, st store.Store, userID, semesterID string, problem *core.Problem) (bool, error) {
	answers, err := st.AnswersByUser(ctx, userID, semesterID)
	if err != nil {
		return false, fmt.Errorf("load answer log: %w", err)
	}

	// The problem must be out of attempts and still unsolved.
	attempts := 0
	for _, ans := range answers {
		if ans.ProblemID != problem.ID {
			continue
		}
		if ans.Solved() {
			return false, nil
		}
		attempts++
	}
	if attempts < m.params.MaxAttemptsPerPractice {
		return false, nil
	}

	partner, err := m.findPartner(ctx, st, answers, problem)
	if err != nil || partner == nil {
		return false, err
	}

	topics, err := m.suspectedTopics(ctx, st, userID, semesterID, problem, partner)
	if err != nil || len(topics) == 0 {
		return false, err
	}

	maxDifficulty := problem.Difficulty
	if partner.Difficulty < maxDifficulty {
		maxDifficulty = partner.Difficulty
	}

	sem, err := st.Semester(ctx, semesterID)
	if err != nil {
		return false, fmt.Errorf("load semester %s: %w", semesterID, err)
	}
	graph, err := m.graphs.Get(ctx, sem.CourseID)
	if err != nil {
		return false, err
	}
	groupA, groupB, err := graph.Bisect(topics)
	if err != nil {
		return false, err
	}

	pool, err := m.sel.Pool(ctx, st, userID, semesterID)
	if err != nil {
		return false, err
	}

	groupNo := 0
	for _, group := range [][]string{groupA, groupB} {
		if len(group) == 0 {
			continue
		}
		probes, err := m.probesForGroup(ctx, pool, group, maxDifficulty)
		if err != nil {
			return false, err
		}
		if len(probes) < m.params.WLMaxPerGroup {
			continue // a short group proves nothing
		}
		groupNo++
		for _, topicID := range group {
			err := st.AddWeakestLinkTopic(ctx, core.WeakestLinkTopic{
				UserID: userID, SemesterID: semesterID, TopicID: topicID, Group: groupNo,
			})
			if err != nil {
				return false, fmt.Errorf("store suspected topic %s: %w", topicID, err)
			}
		}
		for i, p := range probes {
			err := st.AddWeakestLinkProblem(ctx, core.WeakestLinkProblem{
				UserID: userID, SemesterID: semesterID, ProblemID: p.ID, Group: groupNo, Order: i,
			})
			if err != nil {
				return false, fmt.Errorf("store probe %s: %w", p.ID, err)
			}
		}
	}
	if groupNo == 0 {
		return false, nil
	}

	if err := st.SetWeakestLinkState(ctx, userID, semesterID, core.WLInProgress); err != nil {
		return false, fmt.Errorf("set state: %w", err)
	}
	m.log.WithFields(logrus.Fields{
		"user": userID, "semester": semesterID, "problem": problem.ID, "groups": groupNo,
	}).Info("weakest-link probing started")

	return true, nil
}

// findPartner scans the pair's earlier practice answers on the problem's
// main topic, newest first, judging each distinct problem by its most
// recent answer. A similar skipped problem aborts; a similar unsolved one
// is the partner; the second similar solved one aborts.
func (m *Machine) findPartner(ctx context.Context, st store.Store, answers []*core.UserAnswer, problem *core.Problem) (*core.Problem, error) {
	solvedSeen := 0
	visited := map[string]struct{}{problem.ID: {}}
	for i := len(answers) - 1; i >= 0; i-- {
		ans := answers[i]
		if _, done := visited[ans.ProblemID]; done {
			continue
		}
		visited[ans.ProblemID] = struct{}{}

		prior, err := st.Problem(ctx, ans.ProblemID)
		if err != nil {
			return nil, fmt.Errorf("load problem %s: %w", ans.ProblemID, err)
		}
		if prior.Part != core.PracticePart || !core.Similar(problem, prior, m.params.Similarity) {
			continue
		}
		switch {
		case ans.Skipped():
			return nil, nil // the user dodged this ground before: no verdict possible
		case !ans.Solved():
			return prior, nil
		default:
			solvedSeen++
			if solvedSeen >= 2 {
				return nil, nil // the topic is fine, the problem is the outlier
			}
		}
	}

	return nil, nil
}

// suspectedTopics unions the pair's topic sets and drops topics whose
// practice is already complete.
func (m *Machine) suspectedTopics(ctx context.Context, st store.Store, userID, semesterID string, problem, partner *core.Problem) (map[string]struct{}, error) {
	topics := problem.TopicSet()
	for t := range partner.TopicSet() {
		topics[t] = struct{}{}
	}
	for t := range topics {
		pr, err := st.Progress(ctx, userID, semesterID, t)
		if err != nil {
			return nil, fmt.Errorf("load progress for topic %s: %w", t, err)
		}
		if pr.IsPracticeCompleted(m.params) {
			delete(topics, t)
		}
	}

	return topics, nil
}

// probesForGroup ranks the pool problems similar enough to the group and
// returns the top WLMaxPerGroup.
func (m *Machine) probesForGroup(ctx context.Context, pool *practice.Pool, group []string, maxDifficulty core.Difficulty) ([]*core.Problem, error) {
	groupSet := make(map[string]struct{}, len(group))
	for _, t := range group {
		groupSet[t] = struct{}{}
	}

	var candidates []*core.Problem
	for _, p := range pool.Problems {
		if p.Difficulty > maxDifficulty {
			continue
		}
		if core.Overlap(p.TopicSet(), groupSet) >= m.params.Similarity {
			candidates = append(candidates, p)
		}
	}
	ranked, err := m.ranker.Rank(ctx, candidates, pool.Progress, pool.Target)
	if err != nil {
		return nil, err
	}
	if len(ranked) > m.params.WLMaxPerGroup {
		ranked = ranked[:m.params.WLMaxPerGroup]
	}

	return ranked, nil
}
