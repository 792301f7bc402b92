// Package core defines the central catalog and progress types of the
// adaptive problem-selection engine, the tunable parameter block, and the
// domain error taxonomy shared by every other package in the module.
//
// Overview:
//
//   - Catalog entities: Course → Module → Topic (optional parent topic,
//     acyclic) and Problem (one main topic, up to MaxSubTopics sub-topics,
//     a difficulty, a part — theory or practice — and an answer format).
//   - Progress: per (user, semester, topic) mastery — theory points,
//     practice points and a skill estimate — plus the threshold arithmetic
//     (low/medium/high reached, completed) every selector consults.
//   - UserAnswer: append-only submission record. IsSolved is tri-state:
//     nil marks a skipped problem.
//   - Weakest link: per (user, semester) probe state — WLState,
//     WeakestLinkTopic and WeakestLinkProblem rows.
//   - Params: every tunable constant of the algorithm (point values,
//     thresholds, calibration knobs, weakest-link limits) with defaults
//     and functional options.
//   - Answer payloads: a tagged sum type over the four answer formats
//     (single choice, multi choice, fill-in blank, code) plus Evaluate,
//     which turns a payload into a correctness coefficient in [0,1].
//
// Skill model:
//
//   - Every student starts at Params.AverageSkill (1.7).
//   - CorrectAnswerProbability is a logistic over (skill − difficulty
//     coefficient); SuitableDifficulty returns the hardest difficulty whose
//     predicted success probability still clears Params.SuitableProb.
//     SuitableDifficulty is monotone non-decreasing in skill.
//
// Errors (sentinel):
//
//	ErrUnauthenticated      – caller has no authenticated user.
//	ErrNotEnrolled          – user is not enrolled in the semester.
//	ErrIsTeacher            – teachers cannot enroll or solve as students.
//	ErrBadJoinCode          – enrollment code does not match the semester.
//	ErrJoinCodeExpired      – enrollment code is past its expiry.
//	ErrPrerequisiteNotMet   – parent topic theory threshold not reached.
//	ErrTheoryNotStarted     – practice requested before any theory_low reached.
//	ErrTopicTheoryDone      – theory part already completed for the topic.
//	ErrTopicPracticeDone    – practice part already completed for the topic.
//	ErrNoProblemAvailable   – selector pool is empty even after widening.
//	ErrAttemptsExhausted    – practice attempt limit reached for the problem.
//	ErrAlreadySolved        – practice problem already solved by the user.
//	ErrBadPayload           – malformed or empty answer payload.
//	ErrNotFound             – referenced entity does not exist.
//	ErrContentInconsistency – authored content violates an invariant; fatal.
//
// All identifiers are opaque strings (the engine never parses them); the
// synthetic generators use UUIDs.
package core
