package coursegen

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"

	"github.com/adaptix/adaptix/core"
)

// Config shapes one generated course.
type Config struct {
	Topics           int    // chain length, ≥ 1
	TheoryPerTopic   int    // theory problems per topic
	PracticePerTopic int    // practice problems per topic
	Seed             uint64 // rng seed; same seed, same course
}

// DefaultConfig is large enough to complete a topic end to end: the
// theory pool covers the calibration window plus the points to TheoryMax,
// the practice pool survives failed attempts and probe queues.
func DefaultConfig() Config {
	return Config{Topics: 4, TheoryPerTopic: 20, PracticePerTopic: 30, Seed: 1}
}

// Bundle is one generated course with everything the engine needs.
type Bundle struct {
	Course   core.Course
	Module   core.Module
	Topics   []core.Topic
	Problems []core.Problem
	Edges    []core.TopicGraphEdge
	Semester core.Semester
	Student  core.User
	Teacher  core.User
}

// Catalog is the seeding surface of a store (memstore satisfies it).
type Catalog interface {
	PutUser(core.User)
	PutCourse(core.Course)
	PutModule(core.Module)
	PutSemester(core.Semester)
	PutTopic(core.Topic)
	PutProblem(core.Problem)
	PutGraphEdge(core.TopicGraphEdge)
}

// Generate builds a course per the config. Topics form a parent chain;
// each problem's sub-topics are drawn from the topics before its main
// topic, capped at params.MaxSubTopics; the affinity graph is complete
// with uniform random weights.
func Generate(params core.Params, cfg Config) *Bundle {
	rng := rand.New(rand.NewSource(cfg.Seed))

	b := &Bundle{
		Course:  core.Course{ID: "course-gen", Title: "Generated Course"},
		Student: core.User{ID: "student-gen", Name: "Generated Student", Role: core.RoleStudent},
		Teacher: core.User{ID: "teacher-gen", Name: "Generated Teacher", Role: core.RoleTeacher},
	}
	b.Module = core.Module{ID: "module-gen", Title: "Generated Module", CourseID: b.Course.ID}
	b.Course.Modules = []string{b.Module.ID}

	for i := 0; i < cfg.Topics; i++ {
		topic := core.Topic{
			ID:       fmt.Sprintf("topic-%d", i+1),
			Title:    fmt.Sprintf("Topic %d", i+1),
			ModuleID: b.Module.ID,
		}
		if i > 0 {
			topic.ParentTopic = b.Topics[i-1].ID
		}
		b.Topics = append(b.Topics, topic)
		b.Module.Topics = append(b.Module.Topics, topic.ID)
	}

	for i, topic := range b.Topics {
		for n := 0; n < cfg.TheoryPerTopic; n++ {
			b.Problems = append(b.Problems, b.problem(params, rng, core.TheoryPart, topic.ID, i, n))
		}
		for n := 0; n < cfg.PracticePerTopic; n++ {
			b.Problems = append(b.Problems, b.problem(params, rng, core.PracticePart, topic.ID, i, n))
		}
	}

	for i := range b.Topics {
		for j := i + 1; j < len(b.Topics); j++ {
			b.Edges = append(b.Edges, core.TopicGraphEdge{
				CourseID: b.Course.ID,
				Topic1:   b.Topics[i].ID,
				Topic2:   b.Topics[j].ID,
				Weight:   rng.Float64(),
			})
		}
	}

	b.Semester = core.Semester{
		ID:       "semester-gen",
		CourseID: b.Course.ID,
		Title:    "Generated Semester",
		JoinCode: JoinCode(params, rng),
	}

	return b
}

// problem builds one answerable problem. Formats rotate radio, checkbox,
// blank, so every local grader is exercised.
func (b *Bundle) problem(params core.Params, rng *rand.Rand, part core.Part, topicID string, topicIdx, n int) core.Problem {
	title := fmt.Sprintf("%s %s #%d", topicID, part, n+1)
	p := core.Problem{
		// Name-based UUIDs keep ids stable across runs for one seed.
		ID:             uuid.NewSHA1(uuid.NameSpaceOID, []byte(title)).String(),
		Title:          title,
		Part:           part,
		Difficulty:     core.Difficulty(rng.Intn(3) + 1),
		TimeToSolveSec: float64(30 + rng.Intn(270)),
		MainTopic:      topicID,
		SubTopics:      b.subTopics(params, rng, topicIdx),
	}

	switch n % 3 {
	case 0:
		p.Format = core.FormatChoiceRadio
		p.Choices = []core.Choice{
			{ID: p.ID + "-a", Text: "right", Correct: true},
			{ID: p.ID + "-b", Text: "wrong"},
			{ID: p.ID + "-c", Text: "also wrong"},
		}
	case 1:
		p.Format = core.FormatChoiceCheckbox
		p.Choices = []core.Choice{
			{ID: p.ID + "-a", Text: "right", Correct: true},
			{ID: p.ID + "-b", Text: "also right", Correct: true},
			{ID: p.ID + "-c", Text: "wrong"},
			{ID: p.ID + "-d", Text: "also wrong"},
		}
	default:
		p.Format = core.FormatFillBlank
		p.Accepted = []string{"answer"}
	}

	return p
}

// subTopics draws a random prefix-subset of the earlier topics.
func (b *Bundle) subTopics(params core.Params, rng *rand.Rand, topicIdx int) []string {
	limit := topicIdx
	if limit > params.MaxSubTopics {
		limit = params.MaxSubTopics
	}
	if limit == 0 {
		return nil
	}
	count := rng.Intn(limit + 1)
	if count == 0 {
		return nil
	}
	perm := rng.Perm(topicIdx)[:count]
	subs := make([]string, count)
	for i, idx := range perm {
		subs[i] = b.Topics[idx].ID
	}

	return subs
}

// JoinCode draws a join code from the configured alphabet.
func JoinCode(params core.Params, rng *rand.Rand) string {
	code := make([]byte, params.JoinCodeLength)
	for i := range code {
		code[i] = params.JoinCodeAlphabet[rng.Intn(len(params.JoinCodeAlphabet))]
	}

	return string(code)
}

// Seed writes the bundle into a catalog.
func (b *Bundle) Seed(cat Catalog) {
	cat.PutUser(b.Student)
	cat.PutUser(b.Teacher)
	cat.PutCourse(b.Course)
	cat.PutModule(b.Module)
	cat.PutSemester(b.Semester)
	for _, t := range b.Topics {
		cat.PutTopic(t)
	}
	for _, p := range b.Problems {
		cat.PutProblem(p)
	}
	for _, e := range b.Edges {
		cat.PutGraphEdge(e)
	}
}

// Correct returns a payload that solves the problem, or a wrong one when
// solve is false. Code problems are not generated.
func Correct(p *core.Problem, solve bool) core.Payload {
	switch p.Format {
	case core.FormatChoiceRadio:
		if solve {
			return core.RadioPayload{ChoiceID: p.ID + "-a"}
		}

		return core.RadioPayload{ChoiceID: p.ID + "-b"}
	case core.FormatChoiceCheckbox:
		if solve {
			return core.CheckboxPayload{ChoiceIDs: []string{p.ID + "-a", p.ID + "-b"}}
		}

		return core.CheckboxPayload{ChoiceIDs: []string{p.ID + "-c", p.ID + "-d"}}
	default:
		if solve {
			return core.BlankPayload{Value: "answer"}
		}

		return core.BlankPayload{Value: "not the answer"}
	}
}
