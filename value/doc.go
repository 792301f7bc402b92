// Package value prices candidate problems for the selectors.
//
// Overview:
//
//   - A problem's value is the time the user is expected to spend per
//     point gained:
//
//     weighted_time = time_to_solve * (AverageSkill / skill_level)
//     gained        = main-topic gain + Σ sub-topic gains (at coefficient 1)
//     value         = weighted_time / gained
//
//     Gains are the clamped steady-state deltas of package scoring, so a
//     problem that can no longer pay points (gained = 0) prices at +Inf
//     and sorts last. Lower value is better.
//   - Rank orders candidates ascending by value with a deterministic
//     title tie-break, reading every progress row from a snapshot the
//     caller loads once per request.
//
// Errors:
//
//   - A candidate whose main topic or sub-topic has no row in the
//     progress snapshot wraps core.ErrContentInconsistency.
package value
