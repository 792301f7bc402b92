package sqlitestore

import (
	"context"

	"github.com/adaptix/adaptix/core"
)

// Catalog writers. The engine treats authored content as read-only, so
// these are not part of store.Store; they exist for provisioning tools,
// migrations and tests. All are upserts keyed on the entity id.

// PutUser writes an account.
func (s *Store) PutUser(ctx context.Context, u core.User) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO users (id, name, role) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, role = excluded.role`,
		u.ID, u.Name, u.Role)

	return asStoreErr(err)
}

// PutCourse writes a course and its module ordering.
func (s *Store) PutCourse(ctx context.Context, c core.Course) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO courses (id, title) VALUES (?, ?)
		ON CONFLICT (id) DO UPDATE SET title = excluded.title`, c.ID, c.Title)
	if err != nil {
		return asStoreErr(err)
	}
	if _, err := s.q.ExecContext(ctx, `DELETE FROM course_modules WHERE course_id = ?`, c.ID); err != nil {
		return asStoreErr(err)
	}
	for i, moduleID := range c.Modules {
		_, err := s.q.ExecContext(ctx,
			`INSERT INTO course_modules (course_id, module_id, position) VALUES (?, ?, ?)`,
			c.ID, moduleID, i)
		if err != nil {
			return asStoreErr(err)
		}
	}

	return nil
}

// PutModule writes a module and its topic ordering.
func (s *Store) PutModule(ctx context.Context, m core.Module) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO modules (id, course_id, title) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET course_id = excluded.course_id, title = excluded.title`,
		m.ID, m.CourseID, m.Title)
	if err != nil {
		return asStoreErr(err)
	}
	if _, err := s.q.ExecContext(ctx, `DELETE FROM module_topics WHERE module_id = ?`, m.ID); err != nil {
		return asStoreErr(err)
	}
	for i, topicID := range m.Topics {
		_, err := s.q.ExecContext(ctx,
			`INSERT INTO module_topics (module_id, topic_id, position) VALUES (?, ?, ?)`,
			m.ID, topicID, i)
		if err != nil {
			return asStoreErr(err)
		}
	}

	return nil
}

// PutSemester writes a semester.
func (s *Store) PutSemester(ctx context.Context, sem core.Semester) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO semesters (id, course_id, title, join_code, join_code_expires_at, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			course_id = excluded.course_id,
			title = excluded.title,
			join_code = excluded.join_code,
			join_code_expires_at = excluded.join_code_expires_at,
			started_at = excluded.started_at,
			ended_at = excluded.ended_at`,
		sem.ID, sem.CourseID, sem.Title, sem.JoinCode,
		fromTime(sem.JoinCodeExpiresAt), fromTime(sem.StartedAt), fromTime(sem.EndedAt))

	return asStoreErr(err)
}

// PutTopic writes a topic.
func (s *Store) PutTopic(ctx context.Context, t core.Topic) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO topics (id, module_id, title, parent_topic) VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			module_id = excluded.module_id,
			title = excluded.title,
			parent_topic = excluded.parent_topic`,
		t.ID, t.ModuleID, t.Title, t.ParentTopic)

	return asStoreErr(err)
}

// PutProblem writes a problem with its answer key and sub-topics.
func (s *Store) PutProblem(ctx context.Context, p core.Problem) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO problems (id, title, part, format, difficulty, time_to_solve_sec, main_topic)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			part = excluded.part,
			format = excluded.format,
			difficulty = excluded.difficulty,
			time_to_solve_sec = excluded.time_to_solve_sec,
			main_topic = excluded.main_topic`,
		p.ID, p.Title, p.Part, p.Format, p.Difficulty, p.TimeToSolveSec, p.MainTopic)
	if err != nil {
		return asStoreErr(err)
	}

	for _, table := range []string{"problem_choices", "problem_accepted", "problem_subtopics"} {
		if _, err := s.q.ExecContext(ctx, `DELETE FROM `+table+` WHERE problem_id = ?`, p.ID); err != nil {
			return asStoreErr(err)
		}
	}
	for i, c := range p.Choices {
		_, err := s.q.ExecContext(ctx,
			`INSERT INTO problem_choices (problem_id, choice_id, text, correct, position) VALUES (?, ?, ?, ?, ?)`,
			p.ID, c.ID, c.Text, c.Correct, i)
		if err != nil {
			return asStoreErr(err)
		}
	}
	for i, v := range p.Accepted {
		_, err := s.q.ExecContext(ctx,
			`INSERT INTO problem_accepted (problem_id, value, position) VALUES (?, ?, ?)`, p.ID, v, i)
		if err != nil {
			return asStoreErr(err)
		}
	}
	for i, topicID := range p.SubTopics {
		_, err := s.q.ExecContext(ctx,
			`INSERT INTO problem_subtopics (problem_id, topic_id, position) VALUES (?, ?, ?)`, p.ID, topicID, i)
		if err != nil {
			return asStoreErr(err)
		}
	}

	return nil
}

// PutGraphEdge writes one affinity edge.
func (s *Store) PutGraphEdge(ctx context.Context, e core.TopicGraphEdge) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO graph_edges (course_id, topic1, topic2, weight) VALUES (?, ?, ?, ?)
		ON CONFLICT (course_id, topic1, topic2) DO UPDATE SET weight = excluded.weight`,
		e.CourseID, e.Topic1, e.Topic2, e.Weight)

	return asStoreErr(err)
}

// Seeder adapts the error-less seeding interface that generated course
// bundles write through. The first failure sticks; check Err after the
// bundle has been fed in.
type Seeder struct {
	st  *Store
	ctx context.Context
	err error
}

// Seeder returns an adapter bound to ctx.
func (s *Store) Seeder(ctx context.Context) *Seeder { return &Seeder{st: s, ctx: ctx} }

// Err reports the first seeding failure, if any.
func (sd *Seeder) Err() error { return sd.err }

func (sd *Seeder) record(err error) {
	if sd.err == nil {
		sd.err = err
	}
}

// PutUser seeds an account.
func (sd *Seeder) PutUser(u core.User) { sd.record(sd.st.PutUser(sd.ctx, u)) }

// PutCourse seeds a course.
func (sd *Seeder) PutCourse(c core.Course) { sd.record(sd.st.PutCourse(sd.ctx, c)) }

// PutModule seeds a module.
func (sd *Seeder) PutModule(m core.Module) { sd.record(sd.st.PutModule(sd.ctx, m)) }

// PutSemester seeds a semester.
func (sd *Seeder) PutSemester(sem core.Semester) { sd.record(sd.st.PutSemester(sd.ctx, sem)) }

// PutTopic seeds a topic.
func (sd *Seeder) PutTopic(t core.Topic) { sd.record(sd.st.PutTopic(sd.ctx, t)) }

// PutProblem seeds a problem.
func (sd *Seeder) PutProblem(p core.Problem) { sd.record(sd.st.PutProblem(sd.ctx, p)) }

// PutGraphEdge seeds an affinity edge.
func (sd *Seeder) PutGraphEdge(e core.TopicGraphEdge) { sd.record(sd.st.PutGraphEdge(sd.ctx, e)) }
