package topicgraph

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/adaptix/adaptix/core"
)

// Sentinel errors of the topic-affinity graph.
var (
	// ErrNilStore indicates the loader was constructed without a catalog.
	ErrNilStore = errors.New("topicgraph: nil catalog store")

	// ErrEmptyGraph indicates the course has no authored affinity edges.
	// Wraps core.ErrContentInconsistency: a course without a topic graph
	// cannot run the weakest-link bisection.
	ErrEmptyGraph = fmt.Errorf("%w: course has no topic graph edges", core.ErrContentInconsistency)

	// ErrUnknownTopic indicates Bisect received a topic absent from the graph.
	ErrUnknownTopic = errors.New("topicgraph: topic not present in graph")
)

// Graph is the immutable affinity graph of one course. Safe for concurrent
// readers; never mutated after New.
type Graph struct {
	courseID string
	nodes    map[string]struct{}
	weights  map[string]map[string]float64 // symmetric; absent pair = 0
}

// New builds a Graph from the course's topics and authored edges.
// Edge endpoints must name course topics; unknown endpoints are a content
// inconsistency. Edges are stored symmetrically regardless of the
// direction they were authored in; a duplicate (a,b)/(b,a) pair keeps the
// last weight seen.
func New(courseID string, topics []*core.Topic, edges []core.TopicGraphEdge) (*Graph, error) {
	if len(edges) == 0 {
		return nil, fmt.Errorf("course %s: %w", courseID, ErrEmptyGraph)
	}

	g := &Graph{
		courseID: courseID,
		nodes:    make(map[string]struct{}, len(topics)),
		weights:  make(map[string]map[string]float64, len(topics)),
	}
	for _, t := range topics {
		g.nodes[t.ID] = struct{}{}
	}

	for _, e := range edges {
		if _, ok := g.nodes[e.Topic1]; !ok {
			return nil, fmt.Errorf("%w: edge endpoint %s not in course %s", core.ErrContentInconsistency, e.Topic1, courseID)
		}
		if _, ok := g.nodes[e.Topic2]; !ok {
			return nil, fmt.Errorf("%w: edge endpoint %s not in course %s", core.ErrContentInconsistency, e.Topic2, courseID)
		}
		g.setWeight(e.Topic1, e.Topic2, e.Weight)
	}

	return g, nil
}

// setWeight records w for both directions.
func (g *Graph) setWeight(a, b string, w float64) {
	for _, pair := range [2][2]string{{a, b}, {b, a}} {
		row := g.weights[pair[0]]
		if row == nil {
			row = make(map[string]float64)
			g.weights[pair[0]] = row
		}
		row[pair[1]] = w
	}
}

// CourseID returns the course this graph was built for.
func (g *Graph) CourseID() string { return g.courseID }

// HasTopic reports whether the topic is a node of this graph.
func (g *Graph) HasTopic(id string) bool {
	_, ok := g.nodes[id]

	return ok
}

// Weight returns the affinity between two topics, 0 when no edge exists.
func (g *Graph) Weight(a, b string) float64 {
	return g.weights[a][b]
}

// GroupWeight is W(S): the sum of weights over all unordered pairs in ids.
func (g *Graph) GroupWeight(ids []string) float64 {
	if len(ids) < 2 {
		return 0
	}
	// Collect pair weights, then reduce once.
	pairs := make([]float64, 0, len(ids)*(len(ids)-1)/2)
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			pairs = append(pairs, g.Weight(ids[i], ids[j]))
		}
	}

	return floats.Sum(pairs)
}

// sortedIDs returns the set's ids in ascending order (the canonical node
// order every enumeration in this package runs over).
func sortedIDs(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}
