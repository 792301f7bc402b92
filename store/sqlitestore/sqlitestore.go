package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	sqlite "modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"

	"github.com/adaptix/adaptix/core"
	"github.com/adaptix/adaptix/store"
)

// schema is applied statement by statement on Open. Presentation order of
// modules and topics lives in the position columns of the link tables.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id   TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		role INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS courses (
		id    TEXT PRIMARY KEY,
		title TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS modules (
		id        TEXT PRIMARY KEY,
		course_id TEXT NOT NULL,
		title     TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS course_modules (
		course_id TEXT NOT NULL,
		module_id TEXT NOT NULL,
		position  INTEGER NOT NULL,
		PRIMARY KEY (course_id, module_id)
	)`,
	`CREATE TABLE IF NOT EXISTS module_topics (
		module_id TEXT NOT NULL,
		topic_id  TEXT NOT NULL,
		position  INTEGER NOT NULL,
		PRIMARY KEY (module_id, topic_id)
	)`,
	`CREATE TABLE IF NOT EXISTS topics (
		id           TEXT PRIMARY KEY,
		module_id    TEXT NOT NULL,
		title        TEXT NOT NULL DEFAULT '',
		parent_topic TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS problems (
		id                TEXT PRIMARY KEY,
		title             TEXT NOT NULL DEFAULT '',
		part              INTEGER NOT NULL,
		format            INTEGER NOT NULL,
		difficulty        INTEGER NOT NULL,
		time_to_solve_sec REAL NOT NULL,
		main_topic        TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS problem_choices (
		problem_id TEXT NOT NULL,
		choice_id  TEXT NOT NULL,
		text       TEXT NOT NULL DEFAULT '',
		correct    INTEGER NOT NULL,
		position   INTEGER NOT NULL,
		PRIMARY KEY (problem_id, choice_id)
	)`,
	`CREATE TABLE IF NOT EXISTS problem_accepted (
		problem_id TEXT NOT NULL,
		value      TEXT NOT NULL,
		position   INTEGER NOT NULL,
		PRIMARY KEY (problem_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS problem_subtopics (
		problem_id TEXT NOT NULL,
		topic_id   TEXT NOT NULL,
		position   INTEGER NOT NULL,
		PRIMARY KEY (problem_id, topic_id)
	)`,
	`CREATE TABLE IF NOT EXISTS semesters (
		id                   TEXT PRIMARY KEY,
		course_id            TEXT NOT NULL,
		title                TEXT NOT NULL DEFAULT '',
		join_code            TEXT NOT NULL DEFAULT '',
		join_code_expires_at INTEGER NOT NULL DEFAULT 0,
		started_at           INTEGER NOT NULL DEFAULT 0,
		ended_at             INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS graph_edges (
		course_id TEXT NOT NULL,
		topic1    TEXT NOT NULL,
		topic2    TEXT NOT NULL,
		weight    REAL NOT NULL,
		PRIMARY KEY (course_id, topic1, topic2)
	)`,
	`CREATE TABLE IF NOT EXISTS enrollments (
		user_id     TEXT NOT NULL,
		semester_id TEXT NOT NULL,
		PRIMARY KEY (user_id, semester_id)
	)`,
	`CREATE TABLE IF NOT EXISTS target_points (
		user_id TEXT PRIMARY KEY,
		target  REAL NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS progresses (
		user_id         TEXT NOT NULL,
		semester_id     TEXT NOT NULL,
		topic_id        TEXT NOT NULL,
		theory_points   REAL NOT NULL DEFAULT 0,
		practice_points REAL NOT NULL DEFAULT 0,
		skill_level     REAL NOT NULL DEFAULT 0,
		PRIMARY KEY (user_id, semester_id, topic_id)
	)`,
	`CREATE TABLE IF NOT EXISTS answers (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL,
		semester_id  TEXT NOT NULL,
		problem_id   TEXT NOT NULL,
		is_solved    INTEGER,
		coefficient  REAL NOT NULL DEFAULT 0,
		given_answer TEXT NOT NULL DEFAULT '',
		elapsed_sec  REAL NOT NULL DEFAULT 0,
		created_at   INTEGER NOT NULL,
		seq          INTEGER NOT NULL,
		UNIQUE (user_id, semester_id, seq)
	)`,
	`CREATE TABLE IF NOT EXISTS wl_state (
		user_id     TEXT NOT NULL,
		semester_id TEXT NOT NULL,
		state       INTEGER NOT NULL,
		PRIMARY KEY (user_id, semester_id)
	)`,
	`CREATE TABLE IF NOT EXISTS wl_topics (
		user_id     TEXT NOT NULL,
		semester_id TEXT NOT NULL,
		topic_id    TEXT NOT NULL,
		grp         INTEGER NOT NULL,
		PRIMARY KEY (user_id, semester_id, topic_id, grp)
	)`,
	`CREATE TABLE IF NOT EXISTS wl_problems (
		user_id     TEXT NOT NULL,
		semester_id TEXT NOT NULL,
		problem_id  TEXT NOT NULL,
		grp         INTEGER NOT NULL,
		ord         INTEGER NOT NULL,
		is_solved   INTEGER,
		PRIMARY KEY (user_id, semester_id, problem_id)
	)`,
}

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the SQLite implementation of store.Store.
type Store struct {
	db  *sql.DB // nil inside a transaction
	q   querier
	now func() time.Time
}

var _ store.Store = (*Store)(nil)

// Open opens (creating if needed) the database at dsn and applies the
// schema. Use ":memory:" for an ephemeral database.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open %s: %w", dsn, err)
	}
	// Single writer; see the package comment.
	db.SetMaxOpenConns(1)

	var mode string
	if err := db.QueryRow(`PRAGMA journal_mode = WAL`).Scan(&mode); err != nil {
		db.Close()

		return nil, fmt.Errorf("sqlitestore: set journal mode: %w", err)
	}
	for _, pragma := range []string{`PRAGMA foreign_keys = ON`, `PRAGMA busy_timeout = 5000`} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()

			return nil, fmt.Errorf("sqlitestore: %s: %w", pragma, err)
		}
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()

			return nil, fmt.Errorf("sqlitestore: apply schema: %w", err)
		}
	}

	return &Store{db: db, q: db, now: time.Now}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}

	return s.db.Close()
}

// SetClock replaces the timestamp source (tests only).
func (s *Store) SetClock(now func() time.Time) { s.now = now }

// asStoreErr wraps SQLITE_BUSY / SQLITE_LOCKED in store.ErrTransient so
// the engine's retry policy recognizes them; other errors pass unchanged.
func asStoreErr(err error) error {
	if err == nil {
		return nil
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() & 0xff {
		case sqlitelib.SQLITE_BUSY, sqlitelib.SQLITE_LOCKED:
			return fmt.Errorf("%w: %v", store.ErrTransient, err)
		}
	}

	return err
}

// fromTime stores the zero time as 0 so it round-trips to IsZero.
func fromTime(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}

	return t.UnixNano()
}

func toTime(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}

	return time.Unix(0, n)
}

// ---------------------------------------------------------------------------
// Transactions
// ---------------------------------------------------------------------------

// WithinTx implements store.Store with a real SQLite transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(store.Store) error) error {
	if s.db == nil {
		return errors.New("sqlitestore: nested transactions not supported")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return asStoreErr(err)
	}
	if err := fn(&Store{q: tx, now: s.now}); err != nil {
		_ = tx.Rollback()

		return asStoreErr(err)
	}
	if err := tx.Commit(); err != nil {
		return asStoreErr(err)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Catalog
// ---------------------------------------------------------------------------

// User implements store.Catalog.
func (s *Store) User(ctx context.Context, id string) (*core.User, error) {
	u := core.User{ID: id}
	err := s.q.QueryRowContext(ctx, `SELECT name, role FROM users WHERE id = ?`, id).
		Scan(&u.Name, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", core.ErrNotFound, id)
	}
	if err != nil {
		return nil, asStoreErr(err)
	}

	return &u, nil
}

// Course implements store.Catalog.
func (s *Store) Course(ctx context.Context, id string) (*core.Course, error) {
	c := core.Course{ID: id}
	err := s.q.QueryRowContext(ctx, `SELECT title FROM courses WHERE id = ?`, id).Scan(&c.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: course %s", core.ErrNotFound, id)
	}
	if err != nil {
		return nil, asStoreErr(err)
	}
	c.Modules, err = s.stringColumn(ctx,
		`SELECT module_id FROM course_modules WHERE course_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// Semester implements store.Catalog.
func (s *Store) Semester(ctx context.Context, id string) (*core.Semester, error) {
	sem := core.Semester{ID: id}
	var expires, started, ended int64
	err := s.q.QueryRowContext(ctx, `
		SELECT course_id, title, join_code, join_code_expires_at, started_at, ended_at
		FROM semesters WHERE id = ?`, id).
		Scan(&sem.CourseID, &sem.Title, &sem.JoinCode, &expires, &started, &ended)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: semester %s", core.ErrNotFound, id)
	}
	if err != nil {
		return nil, asStoreErr(err)
	}
	sem.JoinCodeExpiresAt, sem.StartedAt, sem.EndedAt = toTime(expires), toTime(started), toTime(ended)

	return &sem, nil
}

// Topic implements store.Catalog.
func (s *Store) Topic(ctx context.Context, id string) (*core.Topic, error) {
	t := core.Topic{ID: id}
	err := s.q.QueryRowContext(ctx,
		`SELECT title, module_id, parent_topic FROM topics WHERE id = ?`, id).
		Scan(&t.Title, &t.ModuleID, &t.ParentTopic)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: topic %s", core.ErrNotFound, id)
	}
	if err != nil {
		return nil, asStoreErr(err)
	}

	return &t, nil
}

// TopicsByCourse implements store.Catalog, module order first.
func (s *Store) TopicsByCourse(ctx context.Context, courseID string) ([]*core.Topic, error) {
	if _, err := s.Course(ctx, courseID); err != nil {
		return nil, err
	}
	rows, err := s.q.QueryContext(ctx, `
		SELECT t.id, t.title, t.module_id, t.parent_topic
		FROM course_modules cm
		JOIN module_topics mt ON mt.module_id = cm.module_id
		JOIN topics t ON t.id = mt.topic_id
		WHERE cm.course_id = ?
		ORDER BY cm.position, mt.position`, courseID)
	if err != nil {
		return nil, asStoreErr(err)
	}
	defer rows.Close()

	var out []*core.Topic
	for rows.Next() {
		var t core.Topic
		if err := rows.Scan(&t.ID, &t.Title, &t.ModuleID, &t.ParentTopic); err != nil {
			return nil, asStoreErr(err)
		}
		out = append(out, &t)
	}

	return out, asStoreErr(rows.Err())
}

// Problem implements store.Catalog.
func (s *Store) Problem(ctx context.Context, id string) (*core.Problem, error) {
	p := core.Problem{ID: id}
	err := s.q.QueryRowContext(ctx, `
		SELECT title, part, format, difficulty, time_to_solve_sec, main_topic
		FROM problems WHERE id = ?`, id).
		Scan(&p.Title, &p.Part, &p.Format, &p.Difficulty, &p.TimeToSolveSec, &p.MainTopic)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: problem %s", core.ErrNotFound, id)
	}
	if err != nil {
		return nil, asStoreErr(err)
	}
	if err := s.loadProblemParts(ctx, &p); err != nil {
		return nil, err
	}

	return &p, nil
}

// ProblemsByCourse implements store.Catalog in stable (title, id) order.
func (s *Store) ProblemsByCourse(ctx context.Context, courseID string) ([]*core.Problem, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT p.id, p.title, p.part, p.format, p.difficulty, p.time_to_solve_sec, p.main_topic
		FROM problems p
		JOIN topics t ON t.id = p.main_topic
		JOIN course_modules cm ON cm.module_id = t.module_id
		WHERE cm.course_id = ?
		ORDER BY p.title, p.id`, courseID)
	if err != nil {
		return nil, asStoreErr(err)
	}
	defer rows.Close()

	var out []*core.Problem
	for rows.Next() {
		var p core.Problem
		err := rows.Scan(&p.ID, &p.Title, &p.Part, &p.Format, &p.Difficulty, &p.TimeToSolveSec, &p.MainTopic)
		if err != nil {
			return nil, asStoreErr(err)
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, asStoreErr(err)
	}
	for _, p := range out {
		if err := s.loadProblemParts(ctx, p); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// GraphEdges implements store.Catalog.
func (s *Store) GraphEdges(ctx context.Context, courseID string) ([]core.TopicGraphEdge, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT topic1, topic2, weight FROM graph_edges WHERE course_id = ?`, courseID)
	if err != nil {
		return nil, asStoreErr(err)
	}
	defer rows.Close()

	var out []core.TopicGraphEdge
	for rows.Next() {
		e := core.TopicGraphEdge{CourseID: courseID}
		if err := rows.Scan(&e.Topic1, &e.Topic2, &e.Weight); err != nil {
			return nil, asStoreErr(err)
		}
		out = append(out, e)
	}

	return out, asStoreErr(rows.Err())
}

// loadProblemParts fills choices, accepted values and sub-topics.
func (s *Store) loadProblemParts(ctx context.Context, p *core.Problem) error {
	rows, err := s.q.QueryContext(ctx, `
		SELECT choice_id, text, correct FROM problem_choices
		WHERE problem_id = ? ORDER BY position`, p.ID)
	if err != nil {
		return asStoreErr(err)
	}
	defer rows.Close()
	for rows.Next() {
		var c core.Choice
		if err := rows.Scan(&c.ID, &c.Text, &c.Correct); err != nil {
			return asStoreErr(err)
		}
		p.Choices = append(p.Choices, c)
	}
	if err := rows.Err(); err != nil {
		return asStoreErr(err)
	}

	if p.Accepted, err = s.stringColumn(ctx,
		`SELECT value FROM problem_accepted WHERE problem_id = ? ORDER BY position`, p.ID); err != nil {
		return err
	}
	if p.SubTopics, err = s.stringColumn(ctx,
		`SELECT topic_id FROM problem_subtopics WHERE problem_id = ? ORDER BY position`, p.ID); err != nil {
		return err
	}

	return nil
}

// stringColumn collects a single-column query into a slice.
func (s *Store) stringColumn(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, asStoreErr(err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, asStoreErr(err)
		}
		out = append(out, v)
	}

	return out, asStoreErr(rows.Err())
}

// ---------------------------------------------------------------------------
// Enrollments
// ---------------------------------------------------------------------------

// IsEnrolled implements store.Enrollments.
func (s *Store) IsEnrolled(ctx context.Context, userID, semesterID string) (bool, error) {
	var one int
	err := s.q.QueryRowContext(ctx,
		`SELECT 1 FROM enrollments WHERE user_id = ? AND semester_id = ?`, userID, semesterID).
		Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, asStoreErr(err)
	}

	return true, nil
}

// Enroll implements store.Enrollments (idempotent).
func (s *Store) Enroll(ctx context.Context, userID, semesterID string) error {
	_, err := s.q.ExecContext(ctx,
		`INSERT OR IGNORE INTO enrollments (user_id, semester_id) VALUES (?, ?)`, userID, semesterID)

	return asStoreErr(err)
}

// TargetPoints implements store.Enrollments; TargetHigh when unset.
func (s *Store) TargetPoints(ctx context.Context, userID string) (core.TargetPoints, error) {
	var target float64
	err := s.q.QueryRowContext(ctx,
		`SELECT target FROM target_points WHERE user_id = ?`, userID).Scan(&target)
	if errors.Is(err, sql.ErrNoRows) {
		return core.TargetHigh, nil
	}
	if err != nil {
		return 0, asStoreErr(err)
	}

	return core.TargetPoints(target), nil
}

// SetTargetPoints implements store.Enrollments.
func (s *Store) SetTargetPoints(ctx context.Context, userID string, target core.TargetPoints) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO target_points (user_id, target) VALUES (?, ?)
		ON CONFLICT (user_id) DO UPDATE SET target = excluded.target`, userID, float64(target))

	return asStoreErr(err)
}

// ---------------------------------------------------------------------------
// Progresses
// ---------------------------------------------------------------------------

// Progress implements store.Progresses.
func (s *Store) Progress(ctx context.Context, userID, semesterID, topicID string) (*core.Progress, error) {
	pr := core.Progress{UserID: userID, SemesterID: semesterID, TopicID: topicID}
	err := s.q.QueryRowContext(ctx, `
		SELECT theory_points, practice_points, skill_level FROM progresses
		WHERE user_id = ? AND semester_id = ? AND topic_id = ?`, userID, semesterID, topicID).
		Scan(&pr.TheoryPoints, &pr.PracticePoints, &pr.SkillLevel)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: progress (%s, %s, %s)", core.ErrNotFound, userID, semesterID, topicID)
	}
	if err != nil {
		return nil, asStoreErr(err)
	}

	return &pr, nil
}

// ProgressByUser implements store.Progresses in stable topic-id order.
func (s *Store) ProgressByUser(ctx context.Context, userID, semesterID string) ([]*core.Progress, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT topic_id, theory_points, practice_points, skill_level FROM progresses
		WHERE user_id = ? AND semester_id = ? ORDER BY topic_id`, userID, semesterID)
	if err != nil {
		return nil, asStoreErr(err)
	}
	defer rows.Close()

	var out []*core.Progress
	for rows.Next() {
		pr := core.Progress{UserID: userID, SemesterID: semesterID}
		if err := rows.Scan(&pr.TopicID, &pr.TheoryPoints, &pr.PracticePoints, &pr.SkillLevel); err != nil {
			return nil, asStoreErr(err)
		}
		out = append(out, &pr)
	}

	return out, asStoreErr(rows.Err())
}

// PutProgress implements store.Progresses (upsert).
func (s *Store) PutProgress(ctx context.Context, progress *core.Progress) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO progresses (user_id, semester_id, topic_id, theory_points, practice_points, skill_level)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, semester_id, topic_id) DO UPDATE SET
			theory_points = excluded.theory_points,
			practice_points = excluded.practice_points,
			skill_level = excluded.skill_level`,
		progress.UserID, progress.SemesterID, progress.TopicID,
		progress.TheoryPoints, progress.PracticePoints, progress.SkillLevel)

	return asStoreErr(err)
}

// ---------------------------------------------------------------------------
// AnswerLog
// ---------------------------------------------------------------------------

// AppendAnswer implements store.AnswerLog. The per-pair sequence number is
// computed in the same statement; callers that need append-and-read
// atomicity run inside WithinTx, as the engine does.
func (s *Store) AppendAnswer(ctx context.Context, answer *core.UserAnswer) (*core.UserAnswer, error) {
	stored := *answer
	stored.ID = uuid.NewString()
	stored.CreatedAt = s.now()

	var solved any
	if answer.IsSolved != nil {
		solved = *answer.IsSolved
	}
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO answers (id, user_id, semester_id, problem_id, is_solved, coefficient,
			given_answer, elapsed_sec, created_at, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?,
			(SELECT COALESCE(MAX(seq), 0) + 1 FROM answers WHERE user_id = ? AND semester_id = ?))`,
		stored.ID, stored.UserID, stored.SemesterID, stored.ProblemID, solved, stored.Coefficient,
		stored.GivenAnswer, stored.ElapsedSec, fromTime(stored.CreatedAt),
		stored.UserID, stored.SemesterID)
	if err != nil {
		return nil, asStoreErr(err)
	}
	err = s.q.QueryRowContext(ctx, `SELECT seq FROM answers WHERE id = ?`, stored.ID).Scan(&stored.Seq)
	if err != nil {
		return nil, asStoreErr(err)
	}

	return &stored, nil
}

// AnswersByUser implements store.AnswerLog (append order).
func (s *Store) AnswersByUser(ctx context.Context, userID, semesterID string) ([]*core.UserAnswer, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, problem_id, is_solved, coefficient, given_answer, elapsed_sec, created_at, seq
		FROM answers WHERE user_id = ? AND semester_id = ? ORDER BY seq`, userID, semesterID)
	if err != nil {
		return nil, asStoreErr(err)
	}
	defer rows.Close()

	var out []*core.UserAnswer
	for rows.Next() {
		ans := core.UserAnswer{UserID: userID, SemesterID: semesterID}
		var solved sql.NullBool
		var created int64
		err := rows.Scan(&ans.ID, &ans.ProblemID, &solved, &ans.Coefficient,
			&ans.GivenAnswer, &ans.ElapsedSec, &created, &ans.Seq)
		if err != nil {
			return nil, asStoreErr(err)
		}
		if solved.Valid {
			verdict := solved.Bool
			ans.IsSolved = &verdict
		}
		ans.CreatedAt = toTime(created)
		out = append(out, &ans)
	}

	return out, asStoreErr(rows.Err())
}

// ---------------------------------------------------------------------------
// WeakestLink
// ---------------------------------------------------------------------------

// WeakestLinkState implements store.WeakestLink (WLNone when unset).
func (s *Store) WeakestLinkState(ctx context.Context, userID, semesterID string) (core.WLState, error) {
	var state core.WLState
	err := s.q.QueryRowContext(ctx,
		`SELECT state FROM wl_state WHERE user_id = ? AND semester_id = ?`, userID, semesterID).
		Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return core.WLNone, nil
	}
	if err != nil {
		return core.WLNone, asStoreErr(err)
	}

	return state, nil
}

// SetWeakestLinkState implements store.WeakestLink.
func (s *Store) SetWeakestLinkState(ctx context.Context, userID, semesterID string, state core.WLState) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO wl_state (user_id, semester_id, state) VALUES (?, ?, ?)
		ON CONFLICT (user_id, semester_id) DO UPDATE SET state = excluded.state`,
		userID, semesterID, state)

	return asStoreErr(err)
}

// AddWeakestLinkTopic implements store.WeakestLink.
func (s *Store) AddWeakestLinkTopic(ctx context.Context, topic core.WeakestLinkTopic) error {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO wl_topics (user_id, semester_id, topic_id, grp) VALUES (?, ?, ?, ?)`,
		topic.UserID, topic.SemesterID, topic.TopicID, topic.Group)

	return asStoreErr(err)
}

// WeakestLinkTopics implements store.WeakestLink.
func (s *Store) WeakestLinkTopics(ctx context.Context, userID, semesterID string) ([]core.WeakestLinkTopic, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT topic_id, grp FROM wl_topics
		WHERE user_id = ? AND semester_id = ? ORDER BY grp, topic_id`, userID, semesterID)
	if err != nil {
		return nil, asStoreErr(err)
	}
	defer rows.Close()

	var out []core.WeakestLinkTopic
	for rows.Next() {
		row := core.WeakestLinkTopic{UserID: userID, SemesterID: semesterID}
		if err := rows.Scan(&row.TopicID, &row.Group); err != nil {
			return nil, asStoreErr(err)
		}
		out = append(out, row)
	}

	return out, asStoreErr(rows.Err())
}

// AddWeakestLinkProblem implements store.WeakestLink.
func (s *Store) AddWeakestLinkProblem(ctx context.Context, problem core.WeakestLinkProblem) error {
	var solved any
	if problem.IsSolved != nil {
		solved = *problem.IsSolved
	}
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO wl_problems (user_id, semester_id, problem_id, grp, ord, is_solved)
		VALUES (?, ?, ?, ?, ?, ?)`,
		problem.UserID, problem.SemesterID, problem.ProblemID, problem.Group, problem.Order, solved)

	return asStoreErr(err)
}

// WeakestLinkProblems implements store.WeakestLink, ordered by (group, order).
func (s *Store) WeakestLinkProblems(ctx context.Context, userID, semesterID string) ([]core.WeakestLinkProblem, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT problem_id, grp, ord, is_solved FROM wl_problems
		WHERE user_id = ? AND semester_id = ? ORDER BY grp, ord`, userID, semesterID)
	if err != nil {
		return nil, asStoreErr(err)
	}
	defer rows.Close()

	var out []core.WeakestLinkProblem
	for rows.Next() {
		row := core.WeakestLinkProblem{UserID: userID, SemesterID: semesterID}
		var solved sql.NullBool
		if err := rows.Scan(&row.ProblemID, &row.Group, &row.Order, &solved); err != nil {
			return nil, asStoreErr(err)
		}
		if solved.Valid {
			verdict := solved.Bool
			row.IsSolved = &verdict
		}
		out = append(out, row)
	}

	return out, asStoreErr(rows.Err())
}

// SetWeakestLinkSolved implements store.WeakestLink.
func (s *Store) SetWeakestLinkSolved(ctx context.Context, userID, semesterID, problemID string, solved bool) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE wl_problems SET is_solved = ?
		WHERE user_id = ? AND semester_id = ? AND problem_id = ?`,
		solved, userID, semesterID, problemID)
	if err != nil {
		return asStoreErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return asStoreErr(err)
	}
	if n == 0 {
		return fmt.Errorf("%w: weakest-link problem %s", core.ErrNotFound, problemID)
	}

	return nil
}

// DeleteWeakestLinkGroup implements store.WeakestLink.
func (s *Store) DeleteWeakestLinkGroup(ctx context.Context, userID, semesterID string, group int, problemsOnly bool) error {
	_, err := s.q.ExecContext(ctx,
		`DELETE FROM wl_problems WHERE user_id = ? AND semester_id = ? AND grp = ?`,
		userID, semesterID, group)
	if err != nil {
		return asStoreErr(err)
	}
	if problemsOnly {
		return nil
	}
	_, err = s.q.ExecContext(ctx,
		`DELETE FROM wl_topics WHERE user_id = ? AND semester_id = ? AND grp = ?`,
		userID, semesterID, group)

	return asStoreErr(err)
}

// ClearWeakestLink implements store.WeakestLink.
func (s *Store) ClearWeakestLink(ctx context.Context, userID, semesterID string) error {
	for _, table := range []string{"wl_topics", "wl_problems"} {
		_, err := s.q.ExecContext(ctx,
			`DELETE FROM `+table+` WHERE user_id = ? AND semester_id = ?`, userID, semesterID)
		if err != nil {
			return asStoreErr(err)
		}
	}

	return nil
}
