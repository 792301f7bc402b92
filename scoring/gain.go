package scoring

import (
	"math"

	"github.com/adaptix/adaptix/core"
)

// MainGain returns the main-topic point delta a solved answer with the
// given coefficient would add, after every cap. scale is 1 in steady
// state and Params.PlacementPointsCoef during calibration.
//
// Caps, in order:
//
//  1. the topic's cumulative points may not exceed the difficulty's
//     target threshold (easy stops at ThresholdLow, normal at
//     ThresholdMedium, hard fills the topic) nor the user's chosen
//     target ceiling, whichever is lower;
//  2. the part the problem feeds may not exceed its budget.
func MainGain(p core.Params, prog *core.Progress, problem *core.Problem, target core.TargetPoints, coefficient, scale float64) float64 {
	delta := coefficient * p.Points(problem.Difficulty) * scale

	ceiling := math.Min(p.TargetThreshold(problem.Difficulty), float64(target))
	delta = math.Min(delta, ceiling-prog.TotalPoints())
	delta = math.Min(delta, p.PartMax(problem.Part)-prog.PartPoints(problem.Part))

	return math.Max(delta, 0)
}

// SubGain returns the point delta one sub-topic would receive. The
// coefficient enters squared: the sub-topic award compounds the
// confidence of this particular answer. Sub-topic awards stop once the
// topic's cumulative points reach ThresholdMedium, and never overflow
// the receiving part's budget.
func SubGain(p core.Params, prog *core.Progress, problem *core.Problem, coefficient, scale float64) float64 {
	delta := coefficient * coefficient * p.Points(problem.Difficulty) * p.SubTopicCoef * scale

	delta = math.Min(delta, p.ThresholdMedium-prog.TotalPoints())
	delta = math.Min(delta, p.PartMax(problem.Part)-prog.PartPoints(problem.Part))

	return math.Max(delta, 0)
}
