// Package scoring turns a validated answer into point and skill updates
// on the submitter's Progress rows.
//
// Overview:
//
//   - Apply is called inside the submission transaction, after the answer
//     has been appended to the log. The caller has already reduced the
//     answer to a coefficient in [0, 1]; an answer is solved when the
//     coefficient is at or above Params.MinCorrect.
//   - Theory answers run through a calibration (placement) regime: the
//     first PlacementAnswers non-skipped theory answers on a topic award
//     points at PlacementPointsCoef scale and leave the skill estimate
//     untouched. The answer right after that window closes calibration:
//     the longest solved streak (maximum sum of coefficients over
//     consecutive solved answers in the window) sets the skill via
//     skill += streak*PlacementBonus - PlacementBias.
//   - Steady state (all practice answers, theory after calibration) moves
//     the skill by ±Bonus[difficulty] and, when solved, awards
//     coefficient*POINTS[difficulty] to the main topic and
//     coefficient²*POINTS[difficulty]*SubTopicCoef to each sub-topic.
//   - Every award is clamped before writing: the main topic stops at the
//     difficulty's target threshold and at the user's chosen target
//     ceiling, sub-topics stop at ThresholdMedium, and no part ever
//     exceeds its TheoryMax/PracticeMax budget. MainGain and SubGain
//     expose the clamped deltas so the value ranking can price a problem
//     without applying it.
//
// Errors:
//
//   - A missing Progress row for the main topic or a sub-topic wraps
//     core.ErrContentInconsistency: enrollment creates every row, so an
//     absent one means the content and the log disagree.
//   - Store failures propagate unchanged.
package scoring
