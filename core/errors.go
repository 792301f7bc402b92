package core

import "errors"

// Sentinel errors forming the domain error taxonomy. Every kind that a
// selector or the facade can signal is a value here, so callers branch with
// errors.Is regardless of how deeply the error was wrapped on the way up.
var (
	// ErrUnauthenticated indicates the request carries no authenticated user.
	ErrUnauthenticated = errors.New("core: not authenticated")

	// ErrNotEnrolled indicates the user is not enrolled in the semester.
	ErrNotEnrolled = errors.New("core: user not enrolled in semester")

	// ErrIsTeacher indicates a teacher attempted a student-only operation.
	ErrIsTeacher = errors.New("core: teachers cannot act as students")

	// ErrBadJoinCode indicates the enrollment code does not match the semester.
	ErrBadJoinCode = errors.New("core: join code does not match")

	// ErrJoinCodeExpired indicates the enrollment code is past its expiry.
	ErrJoinCodeExpired = errors.New("core: join code expired")

	// ErrPrerequisiteNotMet indicates the parent topic's theory threshold
	// has not been reached yet.
	ErrPrerequisiteNotMet = errors.New("core: parent topic theory not reached")

	// ErrTheoryNotStarted indicates practice was requested before theory_low
	// was reached on any topic.
	ErrTheoryNotStarted = errors.New("core: theory not started")

	// ErrTopicTheoryDone indicates the theory part of the topic is complete.
	ErrTopicTheoryDone = errors.New("core: topic theory already completed")

	// ErrTopicPracticeDone indicates the practice part of the topic is complete.
	ErrTopicPracticeDone = errors.New("core: topic practice already completed")

	// ErrNoProblemAvailable indicates the selector pool stayed empty even
	// after difficulty widening.
	ErrNoProblemAvailable = errors.New("core: no problem available")

	// ErrAttemptsExhausted indicates the per-problem practice attempt limit
	// has been reached.
	ErrAttemptsExhausted = errors.New("core: practice attempts exhausted")

	// ErrAlreadySolved indicates the practice problem was already solved.
	ErrAlreadySolved = errors.New("core: problem already solved")

	// ErrBadPayload indicates a malformed or empty answer payload.
	ErrBadPayload = errors.New("core: bad answer payload")

	// ErrNotFound indicates a referenced entity does not exist in the store.
	ErrNotFound = errors.New("core: entity not found")

	// ErrContentInconsistency indicates authored content violates an
	// invariant the engine relies on (missing progress row, topic cycle,
	// empty topic graph). Treated as a fatal assertion: the current request
	// aborts with no partial writes.
	ErrContentInconsistency = errors.New("core: content inconsistency")
)
