// Package adaptix is an adaptive problem-selection engine for online
// learning platforms: given a student enrolled in a course of modules,
// topics and problems, it picks the next theory or practice problem,
// scores submitted answers into per-topic mastery, and hunts down
// "weakest links" — sub-topics suspected of causing repeated practice
// failures — by bisecting a topic-affinity graph and probing each half
// with targeted problems.
//
// The module is organized as one package per concern:
//
//	core/        — catalog entities, mastery math, tunable parameters, error taxonomy
//	store/       — abstract transactional store; memstore/ (map-backed) and
//	               sqlitestore/ (pure-Go SQLite driver) implementations
//	topicgraph/  — per-course topic-affinity graph with maximal-affinity bisection
//	value/       — cost-per-unit-progress problem ranking
//	scoring/     — point deltas and skill updates, including the calibration regime
//	theory/      — theory problem selector
//	practice/    — practice problem selector
//	weakestlink/ — weakest-link state machine {NONE, IN_PROGRESS, DONE}
//	engine/      — facade: Enroll, NextTheory, NextPractice, SubmitAnswer, SkipProblem
//	sandbox/     — client for the external code-execution checker
//	simulate/    — restartable answer-pattern streams and course simulation
//	coursegen/   — deterministic synthetic courses for tests and simulation
//
// Quick start:
//
//	st := memstore.New()
//	eng, err := engine.New(st, core.DefaultParams())
//	if err != nil { ... }
//	if err := eng.Enroll(ctx, userID, semesterID, joinCode); err != nil { ... }
//	problem, err := eng.NextPractice(ctx, userID, semesterID)
//
// All mutations for a single (user, semester) pair are serialized by the
// engine; selection arithmetic is pure and side-effect free until commit.
package adaptix
