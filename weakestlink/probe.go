package weakestlink

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/adaptix/adaptix/core"
	"github.com/adaptix/adaptix/store"
)

// NextProbe returns the next unanswered probe while IN_PROGRESS. ok is
// false when the queue is exhausted; the automaton is then already moved
// to DONE and the caller should finalize before selecting normally.
func (m *Machine) NextProbe(ctx context.Context, st store.Store, userID, semesterID string) (problem *core.Problem, ok bool, err error) {
	rows, err := st.WeakestLinkProblems(ctx, userID, semesterID)
	if err != nil {
		return nil, false, fmt.Errorf("load probes: %w", err)
	}

	dropped := make(map[int]struct{})
	unjudged := make(map[int]struct{})
	for _, row := range rows {
		if _, gone := dropped[row.Group]; gone || row.IsSolved != nil {
			continue
		}
		p, err := st.Problem(ctx, row.ProblemID)
		if err != nil {
			return nil, false, fmt.Errorf("load probe problem %s: %w", row.ProblemID, err)
		}
		pr, err := st.Progress(ctx, userID, semesterID, p.MainTopic)
		if err != nil {
			return nil, false, fmt.Errorf("load progress for topic %s: %w", p.MainTopic, err)
		}
		if pr.HighReached(m.params) {
			// The topic proved itself since the queue was built: the
			// whole group is moot.
			if err := st.DeleteWeakestLinkGroup(ctx, userID, semesterID, row.Group, false); err != nil {
				return nil, false, fmt.Errorf("drop group %d: %w", row.Group, err)
			}
			dropped[row.Group] = struct{}{}

			continue
		}
		if pr.IsPracticeCompleted(m.params) {
			// The intake would refuse this probe now; leave it unanswered
			// and move on.
			unjudged[row.Group] = struct{}{}

			continue
		}

		return p, true, nil
	}

	// A group that ran out of servable probes never reached a verdict:
	// its topics are suspects, not confirmed weak, and must not pay the
	// finalization penalty.
	for group := range unjudged {
		if err := st.DeleteWeakestLinkGroup(ctx, userID, semesterID, group, false); err != nil {
			return nil, false, fmt.Errorf("drop unjudged group %d: %w", group, err)
		}
	}

	if err := st.SetWeakestLinkState(ctx, userID, semesterID, core.WLDone); err != nil {
		return nil, false, fmt.Errorf("set state: %w", err)
	}

	return nil, false, nil
}

// OnAnswer steps the automaton for a non-skipped practice answer while
// IN_PROGRESS. If the problem is a queued probe, the verdict is recorded
// and the group judged; when the last probe is answered the automaton
// finalizes down to NONE. It also aborts when any suspected topic has
// completed its practice.
func (m *Machine) OnAnswer(ctx context.Context, st store.Store, userID, semesterID string, problem *core.Problem, solved bool) error {
	rows, err := st.WeakestLinkProblems(ctx, userID, semesterID)
	if err != nil {
		return fmt.Errorf("load probes: %w", err)
	}

	group := -1
	for _, row := range rows {
		if row.ProblemID == problem.ID && row.IsSolved == nil {
			group = row.Group

			break
		}
	}
	if group >= 0 {
		if err := st.SetWeakestLinkSolved(ctx, userID, semesterID, problem.ID, solved); err != nil {
			return fmt.Errorf("record verdict: %w", err)
		}
		if err := m.judgeGroup(ctx, st, userID, semesterID, group); err != nil {
			return err
		}
	}

	if aborted, err := m.AbortIfTopicCompleted(ctx, st, userID, semesterID); err != nil || aborted {
		return err
	}

	remaining, err := st.WeakestLinkProblems(ctx, userID, semesterID)
	if err != nil {
		return fmt.Errorf("load probes: %w", err)
	}
	for _, row := range remaining {
		if row.IsSolved == nil {
			return nil
		}
	}
	if err := st.SetWeakestLinkState(ctx, userID, semesterID, core.WLDone); err != nil {
		return fmt.Errorf("set state: %w", err)
	}

	return m.Finalize(ctx, st, userID, semesterID)
}

// judgeGroup applies the group verdict once enough probes agree:
// WLToSolve solved probes acquit the group, WLToSolve unsolved ones
// convict it (topics stay for finalization, probes go).
func (m *Machine) judgeGroup(ctx context.Context, st store.Store, userID, semesterID string, group int) error {
	rows, err := st.WeakestLinkProblems(ctx, userID, semesterID)
	if err != nil {
		return fmt.Errorf("load probes: %w", err)
	}
	solved, unsolved := 0, 0
	for _, row := range rows {
		if row.Group != group || row.IsSolved == nil {
			continue
		}
		if *row.IsSolved {
			solved++
		} else {
			unsolved++
		}
	}

	switch {
	case solved >= m.params.WLToSolve:
		if err := st.DeleteWeakestLinkGroup(ctx, userID, semesterID, group, false); err != nil {
			return fmt.Errorf("acquit group %d: %w", group, err)
		}
		m.log.WithFields(logrus.Fields{"user": userID, "group": group}).Debug("probe group acquitted")
	case unsolved >= m.params.WLToSolve:
		if err := st.DeleteWeakestLinkGroup(ctx, userID, semesterID, group, true); err != nil {
			return fmt.Errorf("convict group %d: %w", group, err)
		}
		m.log.WithFields(logrus.Fields{"user": userID, "group": group}).Debug("probe group convicted")
	}

	return nil
}

// Finalize charges WLPenalty skill for every surviving suspected topic,
// clears all rows and returns the automaton to NONE.
func (m *Machine) Finalize(ctx context.Context, st store.Store, userID, semesterID string) error {
	topics, err := st.WeakestLinkTopics(ctx, userID, semesterID)
	if err != nil {
		return fmt.Errorf("load suspected topics: %w", err)
	}
	for _, row := range topics {
		pr, err := st.Progress(ctx, userID, semesterID, row.TopicID)
		if err != nil {
			return fmt.Errorf("load progress for topic %s: %w", row.TopicID, err)
		}
		pr.SkillLevel -= m.params.WLPenalty
		if err := st.PutProgress(ctx, pr); err != nil {
			return fmt.Errorf("store progress for topic %s: %w", row.TopicID, err)
		}
	}
	if err := m.clear(ctx, st, userID, semesterID); err != nil {
		return err
	}
	m.log.WithFields(logrus.Fields{
		"user": userID, "semester": semesterID, "weak_topics": len(topics),
	}).Info("weakest-link probing finished")

	return nil
}

// OnSkip aborts probing when the user skips a practice problem while
// IN_PROGRESS: a dodged probe cannot support a verdict.
func (m *Machine) OnSkip(ctx context.Context, st store.Store, userID, semesterID string) error {
	state, err := st.WeakestLinkState(ctx, userID, semesterID)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	if state != core.WLInProgress {
		return nil
	}
	m.log.WithFields(logrus.Fields{"user": userID, "semester": semesterID}).Debug("probing aborted on skip")

	return m.clear(ctx, st, userID, semesterID)
}

// AbortIfTopicCompleted wipes the queue when any suspected topic has
// completed its practice part. The intake calls it again after scoring,
// since the scored answer itself can complete a suspected topic.
func (m *Machine) AbortIfTopicCompleted(ctx context.Context, st store.Store, userID, semesterID string) (bool, error) {
	topics, err := st.WeakestLinkTopics(ctx, userID, semesterID)
	if err != nil {
		return false, fmt.Errorf("load suspected topics: %w", err)
	}
	for _, row := range topics {
		pr, err := st.Progress(ctx, userID, semesterID, row.TopicID)
		if err != nil {
			return false, fmt.Errorf("load progress for topic %s: %w", row.TopicID, err)
		}
		if pr.IsPracticeCompleted(m.params) {
			m.log.WithFields(logrus.Fields{
				"user": userID, "semester": semesterID, "topic": row.TopicID,
			}).Debug("probing aborted, suspected topic completed practice")

			return true, m.clear(ctx, st, userID, semesterID)
		}
	}

	return false, nil
}

// clear removes every row and resets the state to NONE.
func (m *Machine) clear(ctx context.Context, st store.Store, userID, semesterID string) error {
	if err := st.ClearWeakestLink(ctx, userID, semesterID); err != nil {
		return fmt.Errorf("clear rows: %w", err)
	}
	if err := st.SetWeakestLinkState(ctx, userID, semesterID, core.WLNone); err != nil {
		return fmt.Errorf("set state: %w", err)
	}

	return nil
}
