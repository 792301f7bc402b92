// Package practice selects the next practice problem for a
// (user, semester) pair.
//
// Overview:
//
//   - Eligible topics are those with theory_low reached and practice
//     still incomplete; with none, the user has no practice to do yet
//     (core.ErrTheoryNotStarted).
//   - Eligible problems sit on an eligible main topic, have every
//     sub-topic past theory_low, keep the main topic under the user's
//     target ceiling, and still have attempts left: never answered, or
//     answered fewer than MaxAttemptsPerPractice times and not solved.
//   - Difficulty narrows in three passes: exactly the topic's
//     suitable_difficulty first, then anything up to NORMAL, then
//     anything up to HARD. The first non-empty pass is ranked by package
//     value and the top candidate returned.
//   - Pool exposes the eligible set before the difficulty passes; the
//     weakest-link probe builder draws from the same pool.
//
// The weakest-link delegation (probing runs before regular selection)
// lives in package engine, which owns the state machine hand-off.
package practice
