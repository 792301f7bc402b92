package simulate

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/adaptix/adaptix/core"
	"github.com/adaptix/adaptix/engine"
	"github.com/adaptix/adaptix/store"
)

// Pattern is the order a simulated student works through the course.
type Pattern int

const (
	// TheoryFirst finishes every topic's theory before any practice.
	TheoryFirst Pattern = iota + 1
	// ModuleBased completes each module (theory then practice) in turn.
	ModuleBased
)

// Stats summarizes one simulation run.
type Stats struct {
	TheoryAnswers   int
	PracticeAnswers int
	Solved          int
	Skipped         int
}

// Simulator replays a stream of outcomes through the engine facade.
type Simulator struct {
	eng *engine.Engine
	cat store.Catalog
	log logrus.FieldLogger
}

// New returns a Simulator over the engine and the catalog it serves.
func New(eng *engine.Engine, cat store.Catalog, log logrus.FieldLogger) *Simulator {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Simulator{eng: eng, cat: cat, log: log}
}

// Run drives the enrolled user through the semester until the course is
// exhausted or maxSteps answers have been given. The stream restarts at
// the beginning of the run.
func (s *Simulator) Run(ctx context.Context, userID, semesterID string, pattern Pattern, stream Stream, maxSteps int) (*Stats, error) {
	stream.Restart()

	sem, err := s.cat.Semester(ctx, semesterID)
	if err != nil {
		return nil, fmt.Errorf("simulate: load semester: %w", err)
	}
	topics, err := s.cat.TopicsByCourse(ctx, sem.CourseID)
	if err != nil {
		return nil, fmt.Errorf("simulate: load topics: %w", err)
	}

	stats := &Stats{}
	switch pattern {
	case TheoryFirst:
		if err := s.theoryPhase(ctx, userID, semesterID, topics, stream, maxSteps, stats); err != nil {
			return nil, err
		}
		if err := s.practicePhase(ctx, userID, semesterID, stream, maxSteps, stats); err != nil {
			return nil, err
		}
	case ModuleBased:
		for _, group := range groupByModule(topics) {
			if err := s.theoryPhase(ctx, userID, semesterID, group, stream, maxSteps, stats); err != nil {
				return nil, err
			}
			if err := s.practicePhase(ctx, userID, semesterID, stream, maxSteps, stats); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("simulate: unknown pattern %d", pattern)
	}

	s.log.WithFields(logrus.Fields{
		"user": userID, "theory": stats.TheoryAnswers, "practice": stats.PracticeAnswers,
		"solved": stats.Solved, "skipped": stats.Skipped,
	}).Info("simulation finished")

	return stats, nil
}

// theoryPhase answers theory on each topic in order until it is done.
func (s *Simulator) theoryPhase(ctx context.Context, userID, semesterID string, topics []*core.Topic, stream Stream, maxSteps int, stats *Stats) error {
	for _, topic := range topics {
		for stats.steps() < maxSteps {
			p, err := s.eng.NextTheory(ctx, userID, semesterID, topic.ID)
			if errors.Is(err, core.ErrTopicTheoryDone) ||
				errors.Is(err, core.ErrNoProblemAvailable) ||
				errors.Is(err, core.ErrPrerequisiteNotMet) {
				break
			}
			if err != nil {
				return fmt.Errorf("simulate: next theory on %s: %w", topic.ID, err)
			}
			if err := s.answer(ctx, userID, semesterID, p, stream, stats); err != nil {
				return err
			}
		}
	}

	return nil
}

// practicePhase answers practice until the selector runs dry.
func (s *Simulator) practicePhase(ctx context.Context, userID, semesterID string, stream Stream, maxSteps int, stats *Stats) error {
	for stats.steps() < maxSteps {
		p, err := s.eng.NextPractice(ctx, userID, semesterID)
		if errors.Is(err, core.ErrTheoryNotStarted) || errors.Is(err, core.ErrNoProblemAvailable) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("simulate: next practice: %w", err)
		}
		if err := s.answer(ctx, userID, semesterID, p, stream, stats); err != nil {
			return err
		}
	}

	return nil
}

// answer submits one outcome from the stream, skipping formats the
// simulator cannot grade (code).
func (s *Simulator) answer(ctx context.Context, userID, semesterID string, p *core.Problem, stream Stream, stats *Stats) error {
	payload := payloadFor(p, stream.Next())
	if payload == nil {
		stats.Skipped++

		return s.eng.SkipProblem(ctx, userID, semesterID, p.ID)
	}

	res, err := s.eng.SubmitAnswer(ctx, userID, semesterID, p.ID, payload, p.TimeToSolveSec)
	if err != nil {
		return fmt.Errorf("simulate: submit %s: %w", p.ID, err)
	}
	if p.Part == core.TheoryPart {
		stats.TheoryAnswers++
	} else {
		stats.PracticeAnswers++
	}
	if res.Solved {
		stats.Solved++
	}

	return nil
}

// payloadFor derives a solving or failing payload from the problem's own
// answer key; nil when the format needs the sandbox.
func payloadFor(p *core.Problem, solve bool) core.Payload {
	switch p.Format {
	case core.FormatChoiceRadio:
		if id := choiceID(p, solve); id != "" {
			return core.RadioPayload{ChoiceID: id}
		}
	case core.FormatChoiceCheckbox:
		var ids []string
		for _, c := range p.Choices {
			if c.Correct == solve {
				ids = append(ids, c.ID)
			}
		}
		if len(ids) > 0 {
			return core.CheckboxPayload{ChoiceIDs: ids}
		}
	case core.FormatFillBlank:
		if !solve {
			return core.BlankPayload{Value: "deliberately wrong"}
		}
		if len(p.Accepted) > 0 {
			return core.BlankPayload{Value: p.Accepted[0]}
		}
	}

	return nil
}

// choiceID picks a choice with the wanted correctness.
func choiceID(p *core.Problem, correct bool) string {
	for _, c := range p.Choices {
		if c.Correct == correct {
			return c.ID
		}
	}

	return ""
}

// steps is the total answers given so far.
func (st *Stats) steps() int {
	return st.TheoryAnswers + st.PracticeAnswers + st.Skipped
}

// groupByModule splits the course topic list into per-module runs,
// preserving order.
func groupByModule(topics []*core.Topic) [][]*core.Topic {
	var groups [][]*core.Topic
	byModule := make(map[string]int)
	for _, t := range topics {
		idx, ok := byModule[t.ModuleID]
		if !ok {
			idx = len(groups)
			byModule[t.ModuleID] = idx
			groups = append(groups, nil)
		}
		groups[idx] = append(groups[idx], t)
	}

	return groups
}
