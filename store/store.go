package store

import (
	"context"
	"errors"

	"github.com/adaptix/adaptix/core"
)

// ErrTransient marks a persistence failure worth retrying (connection
// loss, lock timeout). The facade retries such errors with backoff; any
// other error aborts the request immediately.
var ErrTransient = errors.New("store: transient persistence failure")

// Store is the transactional key-scan store the engine runs against.
// All methods honor ctx cancellation.
type Store interface {
	Catalog
	Enrollments
	Progresses
	AnswerLog
	WeakestLink

	// WithinTx runs fn atomically. The Store passed to fn addresses the
	// same data inside the transaction; it must not be retained after fn
	// returns. Nested WithinTx calls are not supported.
	WithinTx(ctx context.Context, fn func(Store) error) error
}

// Catalog reads authored content. Read-only at runtime.
type Catalog interface {
	// User returns the account record (role included).
	User(ctx context.Context, id string) (*core.User, error)
	// Course returns a course by id.
	Course(ctx context.Context, id string) (*core.Course, error)
	// Semester returns a semester by id.
	Semester(ctx context.Context, id string) (*core.Semester, error)
	// Topic returns a topic by id.
	Topic(ctx context.Context, id string) (*core.Topic, error)
	// TopicsByCourse returns every topic of the course, module order first.
	TopicsByCourse(ctx context.Context, courseID string) ([]*core.Topic, error)
	// Problem returns a problem by id.
	Problem(ctx context.Context, id string) (*core.Problem, error)
	// ProblemsByCourse returns every problem whose main topic belongs to
	// the course.
	ProblemsByCourse(ctx context.Context, courseID string) ([]*core.Problem, error)
	// GraphEdges returns the topic-affinity edges authored for the course.
	GraphEdges(ctx context.Context, courseID string) ([]core.TopicGraphEdge, error)
}

// Enrollments tracks which students joined which semesters, and the
// per-user target-points choice.
type Enrollments interface {
	// IsEnrolled reports whether the user joined the semester.
	IsEnrolled(ctx context.Context, userID, semesterID string) (bool, error)
	// Enroll records the user as a student of the semester (idempotent).
	Enroll(ctx context.Context, userID, semesterID string) error
	// TargetPoints returns the user's chosen ceiling; core.TargetHigh when
	// the user never chose one.
	TargetPoints(ctx context.Context, userID string) (core.TargetPoints, error)
	// SetTargetPoints stores the user's ceiling choice.
	SetTargetPoints(ctx context.Context, userID string, target core.TargetPoints) error
}

// Progresses reads and writes per-(user,semester,topic) mastery rows.
type Progresses interface {
	// Progress returns one mastery row, core.ErrNotFound when absent.
	Progress(ctx context.Context, userID, semesterID, topicID string) (*core.Progress, error)
	// ProgressByUser returns all mastery rows of the pair.
	ProgressByUser(ctx context.Context, userID, semesterID string) ([]*core.Progress, error)
	// PutProgress upserts one mastery row.
	PutProgress(ctx context.Context, progress *core.Progress) error
}

// AnswerLog is the append-only submission record.
type AnswerLog interface {
	// AppendAnswer stores the answer, assigning ID, CreatedAt and the
	// per-(user,semester) sequence number. The stored copy is returned.
	AppendAnswer(ctx context.Context, answer *core.UserAnswer) (*core.UserAnswer, error)
	// AnswersByUser returns the pair's answers in append order (Seq asc).
	AnswersByUser(ctx context.Context, userID, semesterID string) ([]*core.UserAnswer, error)
}

// WeakestLink persists the probe automaton's rows and state.
type WeakestLink interface {
	// WeakestLinkState returns the automaton state (WLNone when unset).
	WeakestLinkState(ctx context.Context, userID, semesterID string) (core.WLState, error)
	// SetWeakestLinkState stores the automaton state.
	SetWeakestLinkState(ctx context.Context, userID, semesterID string, state core.WLState) error

	// AddWeakestLinkTopic inserts one suspected-topic row.
	AddWeakestLinkTopic(ctx context.Context, topic core.WeakestLinkTopic) error
	// WeakestLinkTopics returns all suspected-topic rows of the pair.
	WeakestLinkTopics(ctx context.Context, userID, semesterID string) ([]core.WeakestLinkTopic, error)

	// AddWeakestLinkProblem inserts one probe row.
	AddWeakestLinkProblem(ctx context.Context, problem core.WeakestLinkProblem) error
	// WeakestLinkProblems returns all probe rows ordered by (group, order).
	WeakestLinkProblems(ctx context.Context, userID, semesterID string) ([]core.WeakestLinkProblem, error)
	// SetWeakestLinkSolved records the verdict on one probe row.
	SetWeakestLinkSolved(ctx context.Context, userID, semesterID, problemID string, solved bool) error

	// DeleteWeakestLinkGroup removes one group's rows; with problemsOnly
	// the suspected-topic rows survive for finalization.
	DeleteWeakestLinkGroup(ctx context.Context, userID, semesterID string, group int, problemsOnly bool) error
	// ClearWeakestLink removes every topic and probe row of the pair.
	ClearWeakestLink(ctx context.Context, userID, semesterID string) error
}
