package core

// Params is the tunable constant block of the selection algorithm. All
// values are fixed at launch; the engine never mutates a Params after
// construction, so one value may be shared by any number of goroutines.
//
// The zero Params is not usable — always start from DefaultParams and
// override with functional options.
type Params struct {
	// Point budgets and thresholds (per topic).
	TheoryMax       float64 // maximum theory points per topic
	PracticeMax     float64 // maximum practice points per topic
	ThresholdLow    float64 // low total-points threshold
	ThresholdMedium float64 // medium total-points threshold
	ThresholdHigh   float64 // high total-points threshold

	// Point awards per difficulty.
	PointsEasy   float64
	PointsNormal float64
	PointsHard   float64

	// SubTopicCoef scales the sub-topic share of a problem's award.
	SubTopicCoef float64

	// Skill model.
	AverageSkill float64 // initial and reference skill level
	DiffCoefEasy float64 // logistic offsets per difficulty
	DiffCoefNormal,
	DiffCoefHard float64
	SuitableProb float64 // minimum predicted success probability

	// Calibration (placement) regime.
	PlacementAnswers    int     // theory answers before the closure runs
	PlacementBonus      float64 // closure: skill += streak * bonus - bias
	PlacementBias       float64
	PlacementPointsCoef float64 // calibration points scale

	// Steady-state skill bonus per difficulty.
	BonusEasy   float64
	BonusNormal float64
	BonusHard   float64

	// Content limits.
	MaxSubTopics int

	// Weakest-link knobs.
	WLMaxPerGroup int     // probes queued per group
	WLToSolve     int     // verdict threshold within a group
	WLPenalty     float64 // skill penalty per confirmed weak topic

	// Similarity and correctness cutoffs.
	Similarity float64 // strict lower bound for problem similarity
	MinCorrect float64 // coefficient at or above which an answer is solved

	// Practice attempt limit per problem.
	MaxAttemptsPerPractice int

	// Join codes.
	JoinCodeAlphabet string
	JoinCodeLength   int
}

// Option overrides a single Params field.
type Option func(*Params)

// WithTheoryMax overrides the per-topic theory point budget.
func WithTheoryMax(v float64) Option { return func(p *Params) { p.TheoryMax = v } }

// WithPracticeMax overrides the per-topic practice point budget.
func WithPracticeMax(v float64) Option { return func(p *Params) { p.PracticeMax = v } }

// WithThresholds overrides the low/medium/high total-point thresholds.
func WithThresholds(low, medium, high float64) Option {
	return func(p *Params) {
		p.ThresholdLow, p.ThresholdMedium, p.ThresholdHigh = low, medium, high
	}
}

// WithPoints overrides the per-difficulty point awards.
func WithPoints(easy, normal, hard float64) Option {
	return func(p *Params) { p.PointsEasy, p.PointsNormal, p.PointsHard = easy, normal, hard }
}

// WithPlacementAnswers overrides the calibration window length.
func WithPlacementAnswers(n int) Option { return func(p *Params) { p.PlacementAnswers = n } }

// WithWeakestLink overrides the probe-group size, the per-group verdict
// threshold and the per-topic skill penalty.
func WithWeakestLink(maxPerGroup, toSolve int, penalty float64) Option {
	return func(p *Params) {
		p.WLMaxPerGroup, p.WLToSolve, p.WLPenalty = maxPerGroup, toSolve, penalty
	}
}

// WithMaxAttemptsPerPractice overrides the practice attempt limit.
func WithMaxAttemptsPerPractice(n int) Option {
	return func(p *Params) { p.MaxAttemptsPerPractice = n }
}

// DefaultParams returns the launch configuration, optionally overridden by
// functional options.
func DefaultParams(opts ...Option) Params {
	p := Params{
		TheoryMax:       40,
		PracticeMax:     60,
		ThresholdLow:    61,
		ThresholdMedium: 76,
		ThresholdHigh:   91,

		PointsEasy:   5,
		PointsNormal: 9,
		PointsHard:   18,

		SubTopicCoef: 1.0 / 3.0,

		AverageSkill:   1.7,
		DiffCoefEasy:   0.3,
		DiffCoefNormal: 0.6,
		DiffCoefHard:   0.9,
		SuitableProb:   0.75,

		PlacementAnswers:    5,
		PlacementBonus:      0.15,
		PlacementBias:       0.2,
		PlacementPointsCoef: 0.5,

		BonusEasy:   0.05,
		BonusNormal: 0.075,
		BonusHard:   0.1,

		MaxSubTopics: 5,

		WLMaxPerGroup: 3,
		WLToSolve:     2,
		WLPenalty:     0.1,

		Similarity: 0.66,
		MinCorrect: 0.66,

		MaxAttemptsPerPractice: 2,

		JoinCodeAlphabet: "ABCDEFGHIJKLMNOPQRSTUVWXYZ123456789",
		JoinCodeLength:   5,
	}
	for _, opt := range opts {
		opt(&p)
	}

	return p
}

// TopicMax is the combined per-topic point budget (theory + practice).
func (p Params) TopicMax() float64 { return p.TheoryMax + p.PracticeMax }

// PartMax returns the point budget of one part.
func (p Params) PartMax(part Part) float64 {
	if part == TheoryPart {
		return p.TheoryMax
	}

	return p.PracticeMax
}

// Points returns the point award for one difficulty.
func (p Params) Points(d Difficulty) float64 {
	switch d {
	case Easy:
		return p.PointsEasy
	case Normal:
		return p.PointsNormal
	default:
		return p.PointsHard
	}
}

// Bonus returns the steady-state skill bonus for one difficulty.
func (p Params) Bonus(d Difficulty) float64 {
	switch d {
	case Easy:
		return p.BonusEasy
	case Normal:
		return p.BonusNormal
	default:
		return p.BonusHard
	}
}

// DiffCoef returns the logistic offset for one difficulty.
func (p Params) DiffCoef(d Difficulty) float64 {
	switch d {
	case Easy:
		return p.DiffCoefEasy
	case Normal:
		return p.DiffCoefNormal
	default:
		return p.DiffCoefHard
	}
}

// TargetThreshold is the upper bound on a topic's cumulative points that a
// single problem of difficulty d may contribute toward: easy problems stop
// paying at the low threshold, normal at the medium one, hard problems can
// fill the topic completely.
func (p Params) TargetThreshold(d Difficulty) float64 {
	switch d {
	case Easy:
		return p.ThresholdLow
	case Normal:
		return p.ThresholdMedium
	default:
		return p.TopicMax()
	}
}

// TheoryLowThreshold is the theory point count at which theory_low is
// reached: TheoryMax scaled by the low threshold's share of the topic total.
func (p Params) TheoryLowThreshold() float64 {
	return p.TheoryMax * (p.ThresholdLow / p.TopicMax())
}
