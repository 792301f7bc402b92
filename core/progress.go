package core

import "math"

// Progress is the per-(user, semester, topic) mastery record. Points stay
// inside [0, TheoryMax] / [0, PracticeMax] at all times; the scoring engine
// clamps every delta before writing.
type Progress struct {
	UserID         string
	SemesterID     string
	TopicID        string
	TheoryPoints   float64
	PracticePoints float64
	SkillLevel     float64
}

// TotalPoints is theory + practice points for the topic.
func (pr *Progress) TotalPoints() float64 { return pr.TheoryPoints + pr.PracticePoints }

// PartPoints returns the points of the requested part.
func (pr *Progress) PartPoints(part Part) float64 {
	if part == TheoryPart {
		return pr.TheoryPoints
	}

	return pr.PracticePoints
}

// AddPoints adds delta to the points of one part.
func (pr *Progress) AddPoints(part Part, delta float64) {
	if part == TheoryPart {
		pr.TheoryPoints += delta
	} else {
		pr.PracticePoints += delta
	}
}

// TheoryLowReached reports whether theory_low is reached: theory points at
// or above TheoryMax * (ThresholdLow / TopicMax).
func (pr *Progress) TheoryLowReached(p Params) bool {
	return pr.TheoryPoints >= p.TheoryLowThreshold()
}

// IsTheoryCompleted reports whether the theory part is complete.
func (pr *Progress) IsTheoryCompleted(p Params) bool {
	return pr.TheoryPoints >= p.TheoryMax
}

// IsPracticeCompleted reports whether the practice part is complete.
func (pr *Progress) IsPracticeCompleted(p Params) bool {
	return pr.PracticePoints >= p.PracticeMax
}

// IsPartCompleted reports completion of the part a problem feeds.
func (pr *Progress) IsPartCompleted(part Part, p Params) bool {
	if part == TheoryPart {
		return pr.IsTheoryCompleted(p)
	}

	return pr.IsPracticeCompleted(p)
}

// HighReached reports whether the topic's cumulative points crossed the
// high threshold (probes stop targeting such topics).
func (pr *Progress) HighReached(p Params) bool {
	return pr.TotalPoints() >= p.ThresholdHigh
}

// CorrectAnswerProbability predicts the chance of a correct answer at the
// given skill level and difficulty: a logistic over (skill − DiffCoef[d]).
func CorrectAnswerProbability(skill float64, d Difficulty, p Params) float64 {
	return 1 / (1 + math.Exp(-(skill - p.DiffCoef(d))))
}

// SuitableDifficulty returns the hardest difficulty whose predicted success
// probability is at least Params.SuitableProb, falling back to Easy.
// Monotone non-decreasing in skill: a higher skill never yields an easier
// suitable difficulty.
func SuitableDifficulty(skill float64, p Params) Difficulty {
	if CorrectAnswerProbability(skill, Hard, p) >= p.SuitableProb {
		return Hard
	}
	if CorrectAnswerProbability(skill, Normal, p) >= p.SuitableProb {
		return Normal
	}

	return Easy
}
