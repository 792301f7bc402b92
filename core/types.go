// This file declares the catalog entities (Course, Module, Topic, Problem),
// the enumerations they reference, and the per-user records the engine
// mutates at runtime (UserAnswer, weakest-link rows, target points).
package core

import "time"

// Difficulty grades a problem. Values are ordered and contiguous so the
// selectors can step the difficulty cap up or down by one level.
type Difficulty int

const (
	// Easy is the lowest difficulty.
	Easy Difficulty = iota + 1
	// Normal is the middle difficulty.
	Normal
	// Hard is the highest difficulty.
	Hard
)

// String implements fmt.Stringer for logs and test output.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "EASY"
	case Normal:
		return "NORMAL"
	case Hard:
		return "HARD"
	default:
		return "UNKNOWN"
	}
}

// Inc returns the next difficulty up, saturating at Hard.
func (d Difficulty) Inc() Difficulty {
	if d >= Hard {
		return Hard
	}

	return d + 1
}

// Dec returns the next difficulty down, saturating at Easy.
func (d Difficulty) Dec() Difficulty {
	if d <= Easy {
		return Easy
	}

	return d - 1
}

// Part distinguishes the two halves of a topic's mastery: theory problems
// feed theory points, practice problems feed practice points.
type Part int

const (
	// TheoryPart marks theory problems and the theory point budget.
	TheoryPart Part = iota + 1
	// PracticePart marks practice problems and the practice point budget.
	PracticePart
)

// String implements fmt.Stringer.
func (p Part) String() string {
	switch p {
	case TheoryPart:
		return "THEORY"
	case PracticePart:
		return "PRACTICE"
	default:
		return "UNKNOWN"
	}
}

// Format is the concrete answer format of a problem. Validators and
// scorers dispatch on this tag (see Payload and Evaluate).
type Format int

const (
	// FormatChoiceRadio – exactly one option is chosen.
	FormatChoiceRadio Format = iota + 1
	// FormatChoiceCheckbox – any subset of options is chosen.
	FormatChoiceCheckbox
	// FormatFillBlank – a free-text value matched against accepted options.
	FormatFillBlank
	// FormatCode – source code judged by the external sandbox.
	FormatCode
)

// Role separates students from teachers for enrollment checks.
type Role int

const (
	// RoleStudent may enroll and solve problems.
	RoleStudent Role = iota + 1
	// RoleTeacher may not enroll as a student.
	RoleTeacher
)

// TargetPoints is the student-selected ceiling at which further points for
// a topic contribute zero value.
type TargetPoints float64

const (
	// TargetLow aims at the low threshold (61 points per topic).
	TargetLow TargetPoints = 61
	// TargetMedium aims at the medium threshold (76 points per topic).
	TargetMedium TargetPoints = 76
	// TargetHigh aims at the high threshold (91 points per topic).
	TargetHigh TargetPoints = 91
)

// Valid reports whether t is one of the three allowed ceilings.
func (t TargetPoints) Valid() bool {
	return t == TargetLow || t == TargetMedium || t == TargetHigh
}

// User is a platform account. Only the role matters to the engine;
// registration and authentication live outside this module.
type User struct {
	ID   string
	Name string
	Role Role
}

// Course is an ordered collection of modules.
type Course struct {
	ID      string
	Title   string
	Modules []string // module IDs in presentation order
}

// Module is an ordered collection of topics inside one course.
type Module struct {
	ID       string
	Title    string
	CourseID string
	Topics   []string // topic IDs in presentation order
}

// Topic belongs to one module and may name a parent topic (possibly in a
// different module). Parent references must form a DAG; the loader treats a
// cycle as ErrContentInconsistency.
type Topic struct {
	ID          string
	Title       string
	ModuleID    string
	ParentTopic string // empty when the topic has no parent
}

// Choice is one selectable option of a radio or checkbox problem.
type Choice struct {
	ID      string
	Text    string
	Correct bool
}

// Problem is a theory or practice exercise. MainTopic receives the full
// point award; SubTopics (which never include MainTopic) receive the scaled
// sub-topic award. TimeToSolveSec must be positive — the value function
// divides by points gained per weighted second.
type Problem struct {
	ID             string
	Title          string
	Part           Part
	Format         Format
	Difficulty     Difficulty
	TimeToSolveSec float64
	MainTopic      string
	SubTopics      []string

	// Answer key. Choices for radio/checkbox formats, Accepted values for
	// fill-in-blank. Code problems carry no local key: the sandbox judges.
	Choices  []Choice
	Accepted []string
}

// TopicSet returns the deduplicated set {MainTopic} ∪ SubTopics.
func (p *Problem) TopicSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.SubTopics)+1)
	set[p.MainTopic] = struct{}{}
	for _, t := range p.SubTopics {
		set[t] = struct{}{}
	}

	return set
}

// Semester is one run of a course. Students join with a code that may expire.
type Semester struct {
	ID                string
	CourseID          string
	Title             string
	JoinCode          string
	JoinCodeExpiresAt time.Time
	StartedAt         time.Time
	EndedAt           time.Time
}

// UserAnswer is one append-only submission record. IsSolved is tri-state:
// nil marks a skipped problem, otherwise Coefficient ≥ Params.MinCorrect.
// Seq is a per-(user,semester) monotone sequence assigned by the store; it
// breaks CreatedAt ties so scans see a total order.
type UserAnswer struct {
	ID          string
	UserID      string
	SemesterID  string
	ProblemID   string
	IsSolved    *bool
	Coefficient float64
	GivenAnswer string
	ElapsedSec  float64
	CreatedAt   time.Time
	Seq         uint64
}

// Skipped reports whether this record marks a skipped problem.
func (a *UserAnswer) Skipped() bool { return a.IsSolved == nil }

// Solved reports whether the answer was judged correct (false for skips).
func (a *UserAnswer) Solved() bool { return a.IsSolved != nil && *a.IsSolved }

// WLState is the weakest-link automaton state for one (user, semester).
type WLState int

const (
	// WLNone – no probing in progress.
	WLNone WLState = iota
	// WLInProgress – a probe queue exists and is being worked through.
	WLInProgress
	// WLDone – all groups resolved; finalization pending.
	WLDone
)

// String implements fmt.Stringer.
func (s WLState) String() string {
	switch s {
	case WLNone:
		return "NONE"
	case WLInProgress:
		return "IN_PROGRESS"
	case WLDone:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// WeakestLinkTopic is one suspected topic in a probe group (group 1 or 2).
type WeakestLinkTopic struct {
	UserID     string
	SemesterID string
	TopicID    string
	Group      int
}

// WeakestLinkProblem is one queued probe. Order preserves insertion order
// within the group; IsSolved stays nil until the probe is answered.
type WeakestLinkProblem struct {
	UserID     string
	SemesterID string
	ProblemID  string
	Group      int
	Order      int
	IsSolved   *bool
}

// TopicGraphEdge is one undirected affinity edge of a course's topic graph.
// Weight is in [0,1]; absent pairs default to weight 0.
type TopicGraphEdge struct {
	CourseID string
	Topic1   string
	Topic2   string
	Weight   float64
}
