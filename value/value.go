package value

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/adaptix/adaptix/core"
	"github.com/adaptix/adaptix/scoring"
)

// Ranker prices problems against a user's progress snapshot. Stateless
// beyond the parameter block; safe for concurrent use.
type Ranker struct {
	params core.Params
	log    logrus.FieldLogger
}

// NewRanker returns a Ranker over the given parameter block. A nil
// logger falls back to the logrus standard logger.
func NewRanker(params core.Params, log logrus.FieldLogger) *Ranker {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Ranker{params: params, log: log}
}

// Of computes the value of one candidate. progress maps topic id to the
// user's row for it and must cover the main topic and every sub-topic.
func (r *Ranker) Of(problem *core.Problem, progress map[string]*core.Progress, target core.TargetPoints) (float64, error) {
	main, ok := progress[problem.MainTopic]
	if !ok {
		return 0, fmt.Errorf("%w: no progress row for topic %s", core.ErrContentInconsistency, problem.MainTopic)
	}
	if main.SkillLevel <= 0 {
		// A non-positive skill estimate has no meaningful expected time;
		// price the problem last.
		return math.Inf(1), nil
	}

	gained := scoring.MainGain(r.params, main, problem, target, 1.0, 1.0)
	for _, sub := range problem.SubTopics {
		sp, ok := progress[sub]
		if !ok {
			return 0, fmt.Errorf("%w: no progress row for sub-topic %s", core.ErrContentInconsistency, sub)
		}
		gained += scoring.SubGain(r.params, sp, problem, 1.0, 1.0)
	}
	if gained == 0 {
		return math.Inf(1), nil
	}

	weightedTime := problem.TimeToSolveSec * (r.params.AverageSkill / main.SkillLevel)

	return weightedTime / gained, nil
}

// Rank returns the candidates ordered by ascending value. Ties resolve
// by title, then id, so the selection is reproducible. The input slice
// is not modified.
func (r *Ranker) Rank(ctx context.Context, candidates []*core.Problem, progress map[string]*core.Progress, target core.TargetPoints) ([]*core.Problem, error) {
	type priced struct {
		problem *core.Problem
		value   float64
	}

	ranked := make([]priced, 0, len(candidates))
	for _, p := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := r.Of(p, progress, target)
		if err != nil {
			return nil, fmt.Errorf("price problem %s: %w", p.ID, err)
		}
		ranked = append(ranked, priced{problem: p, value: v})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].value != ranked[j].value {
			return ranked[i].value < ranked[j].value
		}
		if ranked[i].problem.Title != ranked[j].problem.Title {
			return ranked[i].problem.Title < ranked[j].problem.Title
		}

		return ranked[i].problem.ID < ranked[j].problem.ID
	})

	out := make([]*core.Problem, len(ranked))
	for i, pr := range ranked {
		out[i] = pr.problem
	}

	top := make([]string, 0, 3)
	for i := 0; i < len(ranked) && i < cap(top); i++ {
		top = append(top, fmt.Sprintf("%s=%.2f", ranked[i].problem.ID, ranked[i].value))
	}
	r.log.WithFields(logrus.Fields{"candidates": len(ranked), "top": top}).Debug("candidates priced")

	return out, nil
}
