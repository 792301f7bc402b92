package topicgraph

import (
	"context"
	"sync"

	"github.com/adaptix/adaptix/store"
)

// Loader memoizes one Graph per course id. The first Get for a course
// blocks on the store; later calls return the cached graph. The cache
// never invalidates at runtime — affinity edges are authored content.
type Loader struct {
	catalog store.Catalog

	mu     sync.Mutex
	graphs map[string]*Graph
}

// NewLoader returns a Loader reading from the given catalog.
func NewLoader(catalog store.Catalog) (*Loader, error) {
	if catalog == nil {
		return nil, ErrNilStore
	}

	return &Loader{
		catalog: catalog,
		graphs:  make(map[string]*Graph),
	}, nil
}

// Get returns the memoized graph for the course, building it on first use.
// A failed build is not cached, so a later call can succeed once the
// content is fixed.
func (l *Loader) Get(ctx context.Context, courseID string) (*Graph, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if g, ok := l.graphs[courseID]; ok {
		return g, nil
	}

	topics, err := l.catalog.TopicsByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	edges, err := l.catalog.GraphEdges(ctx, courseID)
	if err != nil {
		return nil, err
	}
	g, err := New(courseID, topics, edges)
	if err != nil {
		return nil, err
	}
	l.graphs[courseID] = g

	return g, nil
}
