package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/adaptix/adaptix/core"
	"github.com/adaptix/adaptix/store"
)

// Result echoes a graded submission back to the caller.
type Result struct {
	Coefficient float64
	Solved      bool
	GivenAnswer string
}

// SubmitAnswer grades the payload, appends the answer and applies the
// scoring and weakest-link consequences atomically. All validation runs
// before the first write.
func (e *Engine) SubmitAnswer(ctx context.Context, userID, semesterID, problemID string, payload core.Payload, elapsedSec float64) (*Result, error) {
	unlock := e.lockPair(userID, semesterID)
	defer unlock()

	if err := e.requireEnrolled(ctx, userID, semesterID); err != nil {
		return nil, err
	}
	problem, err := e.st.Problem(ctx, problemID)
	if err != nil {
		return nil, fmt.Errorf("engine: load problem %s: %w", problemID, err)
	}
	if err := e.checkAccess(ctx, userID, semesterID, problem); err != nil {
		return nil, err
	}

	coefficient, echo, err := e.grade(ctx, problem, payload)
	if err != nil {
		return nil, err
	}
	solved := coefficient >= e.params.MinCorrect

	err = e.withinTx(ctx, func(tx store.Store) error {
		return e.applyAnswer(ctx, tx, userID, semesterID, problem, coefficient, solved, echo, elapsedSec)
	})
	if err != nil {
		return nil, err
	}

	e.log.WithFields(logrus.Fields{
		"user": userID, "semester": semesterID, "problem": problemID,
		"coefficient": coefficient, "solved": solved,
	}).Info("answer accepted")

	return &Result{Coefficient: coefficient, Solved: solved, GivenAnswer: echo}, nil
}

// checkAccess enforces the submission preconditions: prerequisite
// reached, part not complete, attempts left.
func (e *Engine) checkAccess(ctx context.Context, userID, semesterID string, problem *core.Problem) error {
	topic, err := e.st.Topic(ctx, problem.MainTopic)
	if err != nil {
		return fmt.Errorf("engine: load topic %s: %w", problem.MainTopic, err)
	}
	if topic.ParentTopic != "" {
		parent, err := e.st.Progress(ctx, userID, semesterID, topic.ParentTopic)
		if errors.Is(err, core.ErrNotFound) {
			return fmt.Errorf("%w: no progress row for parent topic %s", core.ErrContentInconsistency, topic.ParentTopic)
		}
		if err != nil {
			return fmt.Errorf("engine: load parent progress: %w", err)
		}
		if !parent.TheoryLowReached(e.params) {
			return core.ErrPrerequisiteNotMet
		}
	}

	prog, err := e.st.Progress(ctx, userID, semesterID, problem.MainTopic)
	if errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("%w: no progress row for topic %s", core.ErrContentInconsistency, problem.MainTopic)
	}
	if err != nil {
		return fmt.Errorf("engine: load progress: %w", err)
	}
	if prog.IsPartCompleted(problem.Part, e.params) {
		if problem.Part == core.TheoryPart {
			return core.ErrTopicTheoryDone
		}

		return core.ErrTopicPracticeDone
	}

	if problem.Part == core.PracticePart {
		answers, err := e.st.AnswersByUser(ctx, userID, semesterID)
		if err != nil {
			return fmt.Errorf("engine: load answer log: %w", err)
		}
		attempts := 0
		for _, ans := range answers {
			if ans.ProblemID != problem.ID {
				continue
			}
			if ans.Solved() {
				return core.ErrAlreadySolved
			}
			attempts++
		}
		if attempts >= e.params.MaxAttemptsPerPractice {
			return core.ErrAttemptsExhausted
		}
	}

	return nil
}

// grade reduces the payload to a correctness coefficient. CODE goes to
// the sandbox; everything else is judged locally.
func (e *Engine) grade(ctx context.Context, problem *core.Problem, payload core.Payload) (float64, string, error) {
	if problem.Format != core.FormatCode {
		return core.Evaluate(problem, payload)
	}

	code, ok := payload.(core.CodePayload)
	if !ok || code.Code == "" {
		return 0, "", fmt.Errorf("%w: code problem needs a code payload", core.ErrBadPayload)
	}
	if e.runner == nil {
		return 0, "", fmt.Errorf("%w: no sandbox configured for code problems", core.ErrBadPayload)
	}
	passed, err := e.runner.Run(ctx, problem, code.Code)
	if err != nil {
		return 0, "", fmt.Errorf("engine: sandbox: %w", err)
	}
	if passed {
		return 1, code.Code, nil
	}

	return 0, code.Code, nil
}

// applyAnswer is the transactional core of SubmitAnswer: weakest-link
// verdict, log append, scoring, then the trigger scan.
func (e *Engine) applyAnswer(ctx context.Context, tx store.Store, userID, semesterID string, problem *core.Problem, coefficient float64, solved bool, echo string, elapsedSec float64) error {
	stateBefore := core.WLNone
	if problem.Part == core.PracticePart {
		var err error
		stateBefore, err = tx.WeakestLinkState(ctx, userID, semesterID)
		if err != nil {
			return fmt.Errorf("load weakest-link state: %w", err)
		}
		if stateBefore == core.WLInProgress {
			if err := e.wl.OnAnswer(ctx, tx, userID, semesterID, problem, solved); err != nil {
				return err
			}
		}
	}

	isSolved := solved
	_, err := tx.AppendAnswer(ctx, &core.UserAnswer{
		UserID:      userID,
		SemesterID:  semesterID,
		ProblemID:   problem.ID,
		IsSolved:    &isSolved,
		Coefficient: coefficient,
		GivenAnswer: echo,
		ElapsedSec:  elapsedSec,
	})
	if err != nil {
		return fmt.Errorf("append answer: %w", err)
	}

	if err := e.score.Apply(ctx, tx, userID, semesterID, problem, coefficient); err != nil {
		return err
	}

	if problem.Part != core.PracticePart {
		return nil
	}

	state, err := tx.WeakestLinkState(ctx, userID, semesterID)
	if err != nil {
		return fmt.Errorf("load weakest-link state: %w", err)
	}
	switch {
	case state == core.WLInProgress:
		// The scored points may have completed a suspected topic.
		if _, err := e.wl.AbortIfTopicCompleted(ctx, tx, userID, semesterID); err != nil {
			return err
		}
	case stateBefore == core.WLNone && !solved:
		if _, err := e.wl.MaybeTrigger(ctx, tx, userID, semesterID, problem); err != nil {
			return err
		}
	}

	return nil
}

// SkipProblem records a skip: an answer row with no verdict and zero
// coefficient. Skipping an already-answered problem is a no-op. A skip
// during weakest-link probing aborts the probe queue.
func (e *Engine) SkipProblem(ctx context.Context, userID, semesterID, problemID string) error {
	unlock := e.lockPair(userID, semesterID)
	defer unlock()

	if err := e.requireEnrolled(ctx, userID, semesterID); err != nil {
		return err
	}
	problem, err := e.st.Problem(ctx, problemID)
	if err != nil {
		return fmt.Errorf("engine: load problem %s: %w", problemID, err)
	}
	answers, err := e.st.AnswersByUser(ctx, userID, semesterID)
	if err != nil {
		return fmt.Errorf("engine: load answer log: %w", err)
	}
	for _, ans := range answers {
		if ans.ProblemID == problemID {
			return nil
		}
	}

	return e.withinTx(ctx, func(tx store.Store) error {
		_, err := tx.AppendAnswer(ctx, &core.UserAnswer{
			UserID:     userID,
			SemesterID: semesterID,
			ProblemID:  problem.ID,
		})
		if err != nil {
			return fmt.Errorf("append skip: %w", err)
		}
		if problem.Part == core.PracticePart {
			return e.wl.OnSkip(ctx, tx, userID, semesterID)
		}

		return nil
	})
}
