package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/adaptix/adaptix/core"
	"github.com/adaptix/adaptix/store"
)

// pair keys all per-(user, semester) tables.
type pair struct {
	user     string
	semester string
}

// progressKey keys the mastery table.
type progressKey struct {
	user     string
	semester string
	topic    string
}

// Store is the in-memory implementation of store.Store.
type Store struct {
	mu sync.RWMutex

	users     map[string]core.User
	courses   map[string]core.Course
	modules   map[string]core.Module
	semesters map[string]core.Semester
	topics    map[string]core.Topic
	problems  map[string]core.Problem
	edges     map[string][]core.TopicGraphEdge // by course id

	enrollments map[pair]struct{}
	targets     map[string]core.TargetPoints
	progresses  map[progressKey]core.Progress

	answers map[pair][]core.UserAnswer
	seq     map[pair]uint64

	wlState    map[pair]core.WLState
	wlTopics   map[pair][]core.WeakestLinkTopic
	wlProblems map[pair][]core.WeakestLinkProblem

	// now supplies timestamps; replaceable in tests for determinism.
	now func() time.Time
}

// compile-time interface check
var _ store.Store = (*Store)(nil)

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		users:       make(map[string]core.User),
		courses:     make(map[string]core.Course),
		modules:     make(map[string]core.Module),
		semesters:   make(map[string]core.Semester),
		topics:      make(map[string]core.Topic),
		problems:    make(map[string]core.Problem),
		edges:       make(map[string][]core.TopicGraphEdge),
		enrollments: make(map[pair]struct{}),
		targets:     make(map[string]core.TargetPoints),
		progresses:  make(map[progressKey]core.Progress),
		answers:     make(map[pair][]core.UserAnswer),
		seq:         make(map[pair]uint64),
		wlState:     make(map[pair]core.WLState),
		wlTopics:    make(map[pair][]core.WeakestLinkTopic),
		wlProblems:  make(map[pair][]core.WeakestLinkProblem),
		now:         time.Now,
	}
}

// SetClock replaces the timestamp source (tests only).
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// ---------------------------------------------------------------------------
// Seeding (not part of store.Store — catalog content is read-only at runtime)
// ---------------------------------------------------------------------------

// PutUser seeds an account.
func (s *Store) PutUser(u core.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// PutCourse seeds a course.
func (s *Store) PutCourse(c core.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses[c.ID] = c
}

// PutModule seeds a module.
func (s *Store) PutModule(m core.Module) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modules[m.ID] = m
}

// PutSemester seeds a semester.
func (s *Store) PutSemester(sem core.Semester) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.semesters[sem.ID] = sem
}

// PutTopic seeds a topic.
func (s *Store) PutTopic(t core.Topic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topics[t.ID] = t
}

// PutProblem seeds a problem.
func (s *Store) PutProblem(p core.Problem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.problems[p.ID] = p
}

// PutGraphEdge seeds one affinity edge.
func (s *Store) PutGraphEdge(e core.TopicGraphEdge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edges[e.CourseID] = append(s.edges[e.CourseID], e)
}

// ---------------------------------------------------------------------------
// Catalog
// ---------------------------------------------------------------------------

// User implements store.Catalog.
func (s *Store) User(_ context.Context, id string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", core.ErrNotFound, id)
	}

	return &u, nil
}

// Course implements store.Catalog.
func (s *Store) Course(_ context.Context, id string) (*core.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.courses[id]
	if !ok {
		return nil, fmt.Errorf("%w: course %s", core.ErrNotFound, id)
	}

	return &c, nil
}

// Semester implements store.Catalog.
func (s *Store) Semester(_ context.Context, id string) (*core.Semester, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sem, ok := s.semesters[id]
	if !ok {
		return nil, fmt.Errorf("%w: semester %s", core.ErrNotFound, id)
	}

	return &sem, nil
}

// Topic implements store.Catalog.
func (s *Store) Topic(_ context.Context, id string) (*core.Topic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.topics[id]
	if !ok {
		return nil, fmt.Errorf("%w: topic %s", core.ErrNotFound, id)
	}

	return &t, nil
}

// TopicsByCourse implements store.Catalog. Topics come back in module
// order, then in each module's own topic order.
func (s *Store) TopicsByCourse(_ context.Context, courseID string) ([]*core.Topic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.courses[courseID]
	if !ok {
		return nil, fmt.Errorf("%w: course %s", core.ErrNotFound, courseID)
	}
	var out []*core.Topic
	for _, moduleID := range c.Modules {
		m, ok := s.modules[moduleID]
		if !ok {
			return nil, fmt.Errorf("%w: module %s of course %s", core.ErrContentInconsistency, moduleID, courseID)
		}
		for _, topicID := range m.Topics {
			t, ok := s.topics[topicID]
			if !ok {
				return nil, fmt.Errorf("%w: topic %s of module %s", core.ErrContentInconsistency, topicID, moduleID)
			}
			topic := t
			out = append(out, &topic)
		}
	}

	return out, nil
}

// Problem implements store.Catalog.
func (s *Store) Problem(_ context.Context, id string) (*core.Problem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.problems[id]
	if !ok {
		return nil, fmt.Errorf("%w: problem %s", core.ErrNotFound, id)
	}

	return &p, nil
}

// ProblemsByCourse implements store.Catalog. Returned in stable title order
// so downstream ranking ties stay deterministic.
func (s *Store) ProblemsByCourse(ctx context.Context, courseID string) ([]*core.Problem, error) {
	topics, err := s.TopicsByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	topicIDs := make(map[string]struct{}, len(topics))
	for _, t := range topics {
		topicIDs[t.ID] = struct{}{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*core.Problem
	for id := range s.problems {
		p := s.problems[id]
		if _, ok := topicIDs[p.MainTopic]; ok {
			problem := p
			out = append(out, &problem)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}

		return out[i].ID < out[j].ID
	})

	return out, nil
}

// GraphEdges implements store.Catalog.
func (s *Store) GraphEdges(_ context.Context, courseID string) ([]core.TopicGraphEdge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	edges := make([]core.TopicGraphEdge, len(s.edges[courseID]))
	copy(edges, s.edges[courseID])

	return edges, nil
}

// ---------------------------------------------------------------------------
// Enrollments
// ---------------------------------------------------------------------------

// IsEnrolled implements store.Enrollments.
func (s *Store) IsEnrolled(_ context.Context, userID, semesterID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.enrollments[pair{userID, semesterID}]

	return ok, nil
}

// Enroll implements store.Enrollments (idempotent).
func (s *Store) Enroll(_ context.Context, userID, semesterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enrollments[pair{userID, semesterID}] = struct{}{}

	return nil
}

// TargetPoints implements store.Enrollments; TargetHigh when unset.
func (s *Store) TargetPoints(_ context.Context, userID string) (core.TargetPoints, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.targets[userID]; ok {
		return t, nil
	}

	return core.TargetHigh, nil
}

// SetTargetPoints implements store.Enrollments.
func (s *Store) SetTargetPoints(_ context.Context, userID string, target core.TargetPoints) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targets[userID] = target

	return nil
}

// ---------------------------------------------------------------------------
// Progresses
// ---------------------------------------------------------------------------

// Progress implements store.Progresses.
func (s *Store) Progress(_ context.Context, userID, semesterID, topicID string) (*core.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pr, ok := s.progresses[progressKey{userID, semesterID, topicID}]
	if !ok {
		return nil, fmt.Errorf("%w: progress (%s, %s, %s)", core.ErrNotFound, userID, semesterID, topicID)
	}

	return &pr, nil
}

// ProgressByUser implements store.Progresses. Stable topic-id order.
func (s *Store) ProgressByUser(_ context.Context, userID, semesterID string) ([]*core.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*core.Progress
	for key := range s.progresses {
		if key.user != userID || key.semester != semesterID {
			continue
		}
		pr := s.progresses[key]
		out = append(out, &pr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TopicID < out[j].TopicID })

	return out, nil
}

// PutProgress implements store.Progresses (upsert).
func (s *Store) PutProgress(_ context.Context, progress *core.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progresses[progressKey{progress.UserID, progress.SemesterID, progress.TopicID}] = *progress

	return nil
}

// ---------------------------------------------------------------------------
// AnswerLog
// ---------------------------------------------------------------------------

// AppendAnswer implements store.AnswerLog. Assigns ID, CreatedAt and the
// per-pair sequence number; rows are never mutated afterwards.
func (s *Store) AppendAnswer(_ context.Context, answer *core.UserAnswer) (*core.UserAnswer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pair{answer.UserID, answer.SemesterID}
	s.seq[key]++
	stored := *answer
	stored.ID = uuid.NewString()
	stored.Seq = s.seq[key]
	stored.CreatedAt = s.now()
	s.answers[key] = append(s.answers[key], stored)
	out := stored

	return &out, nil
}

// AnswersByUser implements store.AnswerLog (append order).
func (s *Store) AnswersByUser(_ context.Context, userID, semesterID string) ([]*core.UserAnswer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.answers[pair{userID, semesterID}]
	out := make([]*core.UserAnswer, len(rows))
	for i := range rows {
		row := rows[i]
		out[i] = &row
	}

	return out, nil
}

// ---------------------------------------------------------------------------
// WeakestLink
// ---------------------------------------------------------------------------

// WeakestLinkState implements store.WeakestLink (WLNone when unset).
func (s *Store) WeakestLinkState(_ context.Context, userID, semesterID string) (core.WLState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wlState[pair{userID, semesterID}], nil
}

// SetWeakestLinkState implements store.WeakestLink.
func (s *Store) SetWeakestLinkState(_ context.Context, userID, semesterID string, state core.WLState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wlState[pair{userID, semesterID}] = state

	return nil
}

// AddWeakestLinkTopic implements store.WeakestLink.
func (s *Store) AddWeakestLinkTopic(_ context.Context, topic core.WeakestLinkTopic) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pair{topic.UserID, topic.SemesterID}
	s.wlTopics[key] = append(s.wlTopics[key], topic)

	return nil
}

// WeakestLinkTopics implements store.WeakestLink.
func (s *Store) WeakestLinkTopics(_ context.Context, userID, semesterID string) ([]core.WeakestLinkTopic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.wlTopics[pair{userID, semesterID}]
	out := make([]core.WeakestLinkTopic, len(rows))
	copy(out, rows)

	return out, nil
}

// AddWeakestLinkProblem implements store.WeakestLink.
func (s *Store) AddWeakestLinkProblem(_ context.Context, problem core.WeakestLinkProblem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pair{problem.UserID, problem.SemesterID}
	s.wlProblems[key] = append(s.wlProblems[key], problem)

	return nil
}

// WeakestLinkProblems implements store.WeakestLink, ordered by (group, order).
func (s *Store) WeakestLinkProblems(_ context.Context, userID, semesterID string) ([]core.WeakestLinkProblem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.wlProblems[pair{userID, semesterID}]
	out := make([]core.WeakestLinkProblem, len(rows))
	copy(out, rows)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}

		return out[i].Order < out[j].Order
	})

	return out, nil
}

// SetWeakestLinkSolved implements store.WeakestLink.
func (s *Store) SetWeakestLinkSolved(_ context.Context, userID, semesterID, problemID string, solved bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pair{userID, semesterID}
	rows := s.wlProblems[key]
	for i := range rows {
		if rows[i].ProblemID == problemID {
			verdict := solved
			rows[i].IsSolved = &verdict

			return nil
		}
	}

	return fmt.Errorf("%w: weakest-link problem %s", core.ErrNotFound, problemID)
}

// DeleteWeakestLinkGroup implements store.WeakestLink.
func (s *Store) DeleteWeakestLinkGroup(_ context.Context, userID, semesterID string, group int, problemsOnly bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pair{userID, semesterID}

	kept := s.wlProblems[key][:0]
	for _, row := range s.wlProblems[key] {
		if row.Group != group {
			kept = append(kept, row)
		}
	}
	s.wlProblems[key] = kept

	if !problemsOnly {
		keptTopics := s.wlTopics[key][:0]
		for _, row := range s.wlTopics[key] {
			if row.Group != group {
				keptTopics = append(keptTopics, row)
			}
		}
		s.wlTopics[key] = keptTopics
	}

	return nil
}

// ClearWeakestLink implements store.WeakestLink.
func (s *Store) ClearWeakestLink(_ context.Context, userID, semesterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pair{userID, semesterID}
	delete(s.wlTopics, key)
	delete(s.wlProblems, key)

	return nil
}

// ---------------------------------------------------------------------------
// Transactions
// ---------------------------------------------------------------------------

// WithinTx implements store.Store. See the package comment for the
// lock-and-apply contract.
func (s *Store) WithinTx(_ context.Context, fn func(store.Store) error) error {
	return fn(s)
}
