package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/adaptix/adaptix/core"
	"github.com/adaptix/adaptix/store"
)

// Enroll joins the user to the semester as a student. The join code must
// match the semester's current code and not be expired; teachers are
// refused. Enrolling twice is a no-op. On success every topic of the
// course gets a Progress row at the reference skill, and the weakest-link
// automaton starts at NONE.
func (e *Engine) Enroll(ctx context.Context, userID, semesterID, joinCode string) error {
	unlock := e.lockPair(userID, semesterID)
	defer unlock()

	user, err := e.st.User(ctx, userID)
	if errors.Is(err, core.ErrNotFound) {
		return core.ErrUnauthenticated
	}
	if err != nil {
		return fmt.Errorf("engine: load user %s: %w", userID, err)
	}
	if user.Role == core.RoleTeacher {
		return core.ErrIsTeacher
	}

	sem, err := e.st.Semester(ctx, semesterID)
	if err != nil {
		return fmt.Errorf("engine: load semester %s: %w", semesterID, err)
	}
	if sem.JoinCode == "" || sem.JoinCode != joinCode {
		return core.ErrBadJoinCode
	}
	if !sem.JoinCodeExpiresAt.IsZero() && e.now().After(sem.JoinCodeExpiresAt) {
		return core.ErrJoinCodeExpired
	}

	enrolled, err := e.st.IsEnrolled(ctx, userID, semesterID)
	if err != nil {
		return fmt.Errorf("engine: enrollment check: %w", err)
	}
	if enrolled {
		return nil
	}

	topics, err := e.st.TopicsByCourse(ctx, sem.CourseID)
	if err != nil {
		return fmt.Errorf("engine: load course topics: %w", err)
	}

	err = e.withinTx(ctx, func(tx store.Store) error {
		if err := tx.Enroll(ctx, userID, semesterID); err != nil {
			return fmt.Errorf("enroll: %w", err)
		}
		for _, topic := range topics {
			err := tx.PutProgress(ctx, &core.Progress{
				UserID:     userID,
				SemesterID: semesterID,
				TopicID:    topic.ID,
				SkillLevel: e.params.AverageSkill,
			})
			if err != nil {
				return fmt.Errorf("seed progress for topic %s: %w", topic.ID, err)
			}
		}

		return tx.SetWeakestLinkState(ctx, userID, semesterID, core.WLNone)
	})
	if err != nil {
		return err
	}

	e.log.WithField("user", userID).WithField("semester", semesterID).
		Info("student enrolled")

	return nil
}

// ChangeTargetPoints stores the user's point ceiling; only the three
// defined ceilings are accepted.
func (e *Engine) ChangeTargetPoints(ctx context.Context, userID string, target core.TargetPoints) error {
	if !target.Valid() {
		return fmt.Errorf("%w: target %v", core.ErrBadPayload, float64(target))
	}
	if err := e.st.SetTargetPoints(ctx, userID, target); err != nil {
		return fmt.Errorf("engine: store target points: %w", err)
	}

	return nil
}
