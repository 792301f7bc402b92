package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/adaptix/adaptix/core"
	"github.com/adaptix/adaptix/practice"
	"github.com/adaptix/adaptix/scoring"
	"github.com/adaptix/adaptix/store"
	"github.com/adaptix/adaptix/theory"
	"github.com/adaptix/adaptix/topicgraph"
	"github.com/adaptix/adaptix/weakestlink"
)

// transientRetries is how many times a store.ErrTransient failure is
// retried before surfacing.
const transientRetries = 3

// CodeRunner judges CODE submissions in an external sandbox.
type CodeRunner interface {
	// Run executes the code against the problem's checks and reports
	// whether it passed.
	Run(ctx context.Context, problem *core.Problem, code string) (bool, error)
}

// Engine is the selection facade. Construct with New; one Engine serves
// any number of goroutines.
type Engine struct {
	st       store.Store
	params   core.Params
	log      logrus.FieldLogger
	theory   *theory.Selector
	practice *practice.Selector
	score    *scoring.Engine
	wl       *weakestlink.Machine
	runner   CodeRunner
	now      func() time.Time

	mu    sync.Mutex
	locks map[pairKey]*sync.Mutex
}

type pairKey struct {
	userID     string
	semesterID string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger replaces the logrus standard logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Engine) { e.log = log }
}

// WithCodeRunner installs the sandbox client for CODE problems. Without
// one, CODE submissions are rejected as ErrBadPayload.
func WithCodeRunner(r CodeRunner) Option {
	return func(e *Engine) { e.runner = r }
}

// WithClock overrides the wall clock (join-code expiry checks in tests).
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New wires the facade over the given store and parameter block.
func New(st store.Store, params core.Params, opts ...Option) (*Engine, error) {
	if st == nil {
		return nil, errors.New("engine: nil store")
	}
	graphs, err := topicgraph.NewLoader(st)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		st:     st,
		params: params,
		log:    logrus.StandardLogger(),
		now:    time.Now,
		locks:  make(map[pairKey]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.theory = theory.NewSelector(params, e.log)
	e.practice = practice.NewSelector(params, e.log)
	e.score = scoring.New(params, e.log)
	e.wl = weakestlink.New(params, e.practice, graphs, e.log)

	return e, nil
}

// lockPair serializes all work on one (user, semester) pair. The mutex
// registry grows one entry per pair and is never pruned; entries are two
// words each.
func (e *Engine) lockPair(userID, semesterID string) func() {
	key := pairKey{userID: userID, semesterID: semesterID}
	e.mu.Lock()
	l, ok := e.locks[key]
	if !ok {
		l = &sync.Mutex{}
		e.locks[key] = l
	}
	e.mu.Unlock()
	l.Lock()

	return l.Unlock
}

// withinTx runs fn transactionally, retrying transient store failures.
func (e *Engine) withinTx(ctx context.Context, fn func(store.Store) error) error {
	op := func() error {
		err := e.st.WithinTx(ctx, fn)
		if err != nil && !errors.Is(err, store.ErrTransient) {
			return backoff.Permanent(err)
		}

		return err
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), transientRetries), ctx)

	if err := backoff.Retry(op, policy); err != nil {
		return fmt.Errorf("engine: transaction: %w", err)
	}

	return nil
}

// requireEnrolled is the shared access check of every per-pair call.
func (e *Engine) requireEnrolled(ctx context.Context, userID, semesterID string) error {
	ok, err := e.st.IsEnrolled(ctx, userID, semesterID)
	if err != nil {
		return fmt.Errorf("engine: enrollment check: %w", err)
	}
	if !ok {
		return core.ErrNotEnrolled
	}

	return nil
}
