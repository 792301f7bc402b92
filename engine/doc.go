// Package engine is the facade of the adaptive selection system: it owns
// enrollment, the two selectors, answer intake, skipping and the target
// ceiling, and it enforces the concurrency and atomicity contract.
//
// Overview:
//
//   - Every call locks its (user, semester) pair for the whole duration,
//     so all mutations of a pair are serialized while other pairs proceed
//     in parallel.
//   - Mutating calls run inside store.WithinTx: either the appended
//     answer, the progress updates and the weakest-link edits all commit,
//     or none do. Transient store failures retry up to three times with
//     exponential backoff before surfacing.
//   - NextPractice delegates to the weakest-link probe queue while it is
//     IN_PROGRESS and finalizes it when exhausted, then falls through to
//     the regular selector.
//   - SubmitAnswer validates fully before writing: enrollment, the
//     parent-topic prerequisite, part completion, and the practice
//     attempt budget. The answer payload is judged locally except CODE,
//     which goes to the configured sandbox runner.
//
// Errors surface as the core sentinel kinds; callers route on errors.Is.
package engine
