// Package theory selects the next theory problem for a (user, semester,
// topic) triple.
//
// Overview:
//
//   - Preconditions: the topic's theory part must not be complete
//     (core.ErrTopicTheoryDone) and, when the topic has a parent, the
//     parent's theory_low must be reached (core.ErrPrerequisiteNotMet).
//   - The candidate pool is every unanswered theory problem of the topic
//     whose sub-topics all have theory_low reached. Candidates are ranked
//     by package value.
//   - While the topic is still calibrating (fewer than PlacementAnswers
//     non-skipped theory answers), difficulty is capped at the
//     suitable_difficulty of the current skill estimate, preferring the
//     hardest difficulty under the cap; an empty pool widens the cap one
//     step before giving up. After calibration the top-ranked candidate
//     is returned directly.
//   - An exhausted pool is core.ErrNoProblemAvailable.
package theory
