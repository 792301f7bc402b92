package engine

import (
	"context"
	"fmt"

	"github.com/adaptix/adaptix/core"
	"github.com/adaptix/adaptix/store"
)

// NextTheory returns the next theory problem of the topic for the user.
func (e *Engine) NextTheory(ctx context.Context, userID, semesterID, topicID string) (*core.Problem, error) {
	unlock := e.lockPair(userID, semesterID)
	defer unlock()

	if err := e.requireEnrolled(ctx, userID, semesterID); err != nil {
		return nil, err
	}

	return e.theory.Next(ctx, e.st, userID, semesterID, topicID)
}

// NextPractice returns the next practice problem for the user. While the
// weakest-link automaton is IN_PROGRESS the probe queue is served first;
// an exhausted queue finalizes (skill penalties for confirmed weak
// topics) before regular selection resumes.
func (e *Engine) NextPractice(ctx context.Context, userID, semesterID string) (*core.Problem, error) {
	unlock := e.lockPair(userID, semesterID)
	defer unlock()

	if err := e.requireEnrolled(ctx, userID, semesterID); err != nil {
		return nil, err
	}

	var selected *core.Problem
	err := e.withinTx(ctx, func(tx store.Store) error {
		state, err := tx.WeakestLinkState(ctx, userID, semesterID)
		if err != nil {
			return fmt.Errorf("load weakest-link state: %w", err)
		}
		if state == core.WLInProgress {
			probe, ok, err := e.wl.NextProbe(ctx, tx, userID, semesterID)
			if err != nil {
				return err
			}
			if ok {
				selected = probe

				return nil
			}
			// Queue exhausted: NextProbe moved the automaton to DONE.
			if err := e.wl.Finalize(ctx, tx, userID, semesterID); err != nil {
				return err
			}
		}

		selected, err = e.practice.Next(ctx, tx, userID, semesterID)

		return err
	})
	if err != nil {
		return nil, err
	}

	return selected, nil
}
