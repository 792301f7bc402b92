// Package weakestlink runs the probe automaton that hunts for the topic
// a struggling user is actually weak in.
//
// Overview:
//
//	NONE --trigger--> IN_PROGRESS --all groups resolved--> DONE --finalize--> NONE
//
//   - Trigger: a non-skipped wrong practice answer on a problem whose
//     attempts are exhausted starts a scan of earlier answers on the same
//     main topic. One similar unsolved problem forms a candidate pair;
//     a similar skipped problem or two similar solved ones abort the
//     scan. The pair's topic union (practice-completed topics removed)
//     is bisected on the course's affinity graph, and each half becomes
//     a probe group of WLMaxPerGroup problems drawn from the regular
//     practice pool, at or under the pair's lower difficulty and
//     sufficiently similar to the group. A half that cannot fill its
//     quota is discarded; if neither fills, nothing starts.
//   - IN_PROGRESS: NextProbe walks groups in order and returns the first
//     unanswered probe whose topic is still under ThresholdHigh; a group
//     whose topic crossed it is dropped whole. Answers record a verdict
//     per group: WLToSolve solved probes clear the group (not a weak
//     link), WLToSolve unsolved ones keep its topics for finalization.
//   - DONE: every surviving suspected topic costs WLPenalty skill, then
//     all rows clear and the automaton returns to NONE.
//   - Aborts: a practice skip while probing, or any suspected topic
//     completing its practice, wipes the queue back to NONE.
//
// The automaton persists nothing outside the store: every transition is
// a row mutation inside the caller's transaction.
package weakestlink
