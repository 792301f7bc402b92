package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/adaptix/adaptix/core"
	"github.com/adaptix/adaptix/store"
)

// Engine applies validated answers to Progress rows. One Engine is safe
// for concurrent use; the caller serializes per (user, semester).
type Engine struct {
	params core.Params
	log    logrus.FieldLogger
}

// New returns an Engine with the given parameter block. A nil logger
// falls back to the logrus standard logger.
func New(params core.Params, log logrus.FieldLogger) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Engine{params: params, log: log}
}

// Apply updates the submitter's Progress rows for one answer. It must run
// inside the submission transaction, after the answer has been appended
// to the log, so the calibration window sees the submission it is scoring.
func (e *Engine) Apply(ctx context.Context, st store.Store, userID, semesterID string, problem *core.Problem, coefficient float64) error {
	solved := coefficient >= e.params.MinCorrect

	prog, err := st.Progress(ctx, userID, semesterID, problem.MainTopic)
	if errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("%w: no progress row for topic %s", core.ErrContentInconsistency, problem.MainTopic)
	}
	if err != nil {
		return fmt.Errorf("load progress for topic %s: %w", problem.MainTopic, err)
	}
	target, err := st.TargetPoints(ctx, userID)
	if err != nil {
		return fmt.Errorf("load target points: %w", err)
	}

	// 1. Place the answer on the calibration timeline (theory only).
	scale := 1.0
	calibrating, closing := false, false
	var window []*core.UserAnswer
	if problem.Part == core.TheoryPart {
		history, err := e.theoryHistory(ctx, st, userID, semesterID, problem.MainTopic)
		if err != nil {
			return err
		}
		// The current submission is already in the log, so the count of
		// answers before it is one less.
		lastN := len(history) - 1
		switch {
		case lastN < e.params.PlacementAnswers:
			calibrating = true
			scale = e.params.PlacementPointsCoef
		case lastN == e.params.PlacementAnswers:
			closing = true
			scale = e.params.PlacementPointsCoef
			if max := e.params.PlacementAnswers + 1; len(history) > max {
				history = history[len(history)-max:]
			}
			window = history
		}
	}

	// 2. Award points.
	if solved {
		prog.AddPoints(problem.Part, MainGain(e.params, prog, problem, target, coefficient, scale))
		if err := e.awardSubTopics(ctx, st, userID, semesterID, problem, coefficient, scale); err != nil {
			return err
		}
	}

	// 3. Move the skill estimate.
	switch {
	case closing:
		streak := longestStreak(window)
		prog.SkillLevel += streak*e.params.PlacementBonus - e.params.PlacementBias
	case !calibrating:
		bonus := e.params.Bonus(problem.Difficulty)
		if solved {
			prog.SkillLevel += bonus
		} else {
			prog.SkillLevel -= bonus
		}
	}

	if err := st.PutProgress(ctx, prog); err != nil {
		return fmt.Errorf("store progress for topic %s: %w", problem.MainTopic, err)
	}

	e.log.WithFields(logrus.Fields{
		"user":        userID,
		"semester":    semesterID,
		"problem":     problem.ID,
		"coefficient": coefficient,
		"solved":      solved,
		"skill":       prog.SkillLevel,
	}).Debug("answer scored")

	return nil
}

// awardSubTopics adds the clamped sub-topic share to every sub-topic row.
func (e *Engine) awardSubTopics(ctx context.Context, st store.Store, userID, semesterID string, problem *core.Problem, coefficient, scale float64) error {
	for _, sub := range problem.SubTopics {
		sp, err := st.Progress(ctx, userID, semesterID, sub)
		if errors.Is(err, core.ErrNotFound) {
			return fmt.Errorf("%w: no progress row for sub-topic %s", core.ErrContentInconsistency, sub)
		}
		if err != nil {
			return fmt.Errorf("load progress for sub-topic %s: %w", sub, err)
		}
		gain := SubGain(e.params, sp, problem, coefficient, scale)
		if gain == 0 {
			continue
		}
		sp.AddPoints(problem.Part, gain)
		if err := st.PutProgress(ctx, sp); err != nil {
			return fmt.Errorf("store progress for sub-topic %s: %w", sub, err)
		}
	}

	return nil
}

// theoryHistory returns the pair's non-skipped theory answers on the
// topic in append order, current submission included.
func (e *Engine) theoryHistory(ctx context.Context, st store.Store, userID, semesterID, topicID string) ([]*core.UserAnswer, error) {
	answers, err := st.AnswersByUser(ctx, userID, semesterID)
	if err != nil {
		return nil, fmt.Errorf("load answer log: %w", err)
	}

	problems := make(map[string]*core.Problem)
	var history []*core.UserAnswer
	for _, ans := range answers {
		if ans.Skipped() {
			continue
		}
		p, ok := problems[ans.ProblemID]
		if !ok {
			p, err = st.Problem(ctx, ans.ProblemID)
			if err != nil {
				return nil, fmt.Errorf("load problem %s: %w", ans.ProblemID, err)
			}
			problems[ans.ProblemID] = p
		}
		if p.Part != core.TheoryPart || p.MainTopic != topicID {
			continue
		}
		history = append(history, ans)
	}

	return history, nil
}

// longestStreak is the maximum sum of coefficients over a run of
// consecutive solved answers.
func longestStreak(window []*core.UserAnswer) float64 {
	var best, run float64
	for _, ans := range window {
		if !ans.Solved() {
			run = 0

			continue
		}
		run += ans.Coefficient
		best = math.Max(best, run)
	}

	return best
}
