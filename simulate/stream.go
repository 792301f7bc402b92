package simulate

import "golang.org/x/exp/rand"

// Stream yields the solved/unsolved outcome of each successive answer.
// Restart rewinds the stream to its initial state.
type Stream interface {
	Next() bool
	Restart()
}

type alwaysSolved struct{}

func (alwaysSolved) Next() bool { return true }
func (alwaysSolved) Restart()   {}

// AlwaysSolved answers everything correctly.
func AlwaysSolved() Stream { return alwaysSolved{} }

type alternating struct{ n int }

func (s *alternating) Next() bool {
	s.n++

	return s.n%2 == 1
}
func (s *alternating) Restart() { s.n = 0 }

// Alternating solves the 1st, 3rd, 5th... answer and fails the rest.
func Alternating() Stream { return &alternating{} }

type everyNth struct{ n, i int }

func (s *everyNth) Next() bool {
	s.i++

	return s.i%s.n != 0
}
func (s *everyNth) Restart() { s.i = 0 }

// EveryNthFailed fails every n-th answer (n ≥ 2) and solves the rest.
func EveryNthFailed(n int) Stream {
	if n < 2 {
		n = 2
	}

	return &everyNth{n: n}
}

type bernoulli struct {
	p    float64
	seed uint64
	rng  *rand.Rand
}

func (s *bernoulli) Next() bool { return s.rng.Float64() < s.p }
func (s *bernoulli) Restart()   { s.rng = rand.New(rand.NewSource(s.seed)) }

// Bernoulli solves each answer independently with probability p; the
// seed makes a run reproducible.
func Bernoulli(p float64, seed uint64) Stream {
	s := &bernoulli{p: p, seed: seed}
	s.Restart()

	return s
}
