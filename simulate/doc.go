// Package simulate drives a synthetic student through a semester.
//
// A Stream decides whether each successive answer is solved; streams are
// restartable so one configuration can run many simulations. The
// Simulator walks the course in one of two patterns: THEORY_FIRST
// finishes all theory before any practice, MODULE_BASED completes each
// module (theory, then practice) before moving on. Every answer goes
// through the real engine facade, so simulations exercise scoring,
// calibration and the weakest-link automaton exactly as production
// traffic would.
package simulate
