package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adaptix/adaptix/core"
)

func TestParams_Defaults(t *testing.T) {
	p := core.DefaultParams()
	require.Equal(t, 100.0, p.TopicMax())
	require.Equal(t, 5.0, p.Points(core.Easy))
	require.Equal(t, 9.0, p.Points(core.Normal))
	require.Equal(t, 18.0, p.Points(core.Hard))
	// theory_low = 40 * 61/100
	require.InDelta(t, 24.4, p.TheoryLowThreshold(), 1e-9)
}

func TestParams_Options(t *testing.T) {
	p := core.DefaultParams(
		core.WithPoints(1, 2, 3),
		core.WithThresholds(50, 70, 90),
		core.WithWeakestLink(4, 3, 0.25),
	)
	require.Equal(t, 2.0, p.Points(core.Normal))
	require.Equal(t, 50.0, p.TargetThreshold(core.Easy))
	require.Equal(t, 4, p.WLMaxPerGroup)
	require.Equal(t, 0.25, p.WLPenalty)
}

func TestParams_TargetThreshold(t *testing.T) {
	p := core.DefaultParams()
	require.Equal(t, 61.0, p.TargetThreshold(core.Easy))
	require.Equal(t, 76.0, p.TargetThreshold(core.Normal))
	require.Equal(t, 100.0, p.TargetThreshold(core.Hard))
}

func TestProgress_TheoryLowReached(t *testing.T) {
	p := core.DefaultParams()
	pr := &core.Progress{TheoryPoints: 24.39}
	require.False(t, pr.TheoryLowReached(p))
	pr.TheoryPoints = 24.4
	require.True(t, pr.TheoryLowReached(p))
}

func TestProgress_Completion(t *testing.T) {
	p := core.DefaultParams()
	pr := &core.Progress{TheoryPoints: 40, PracticePoints: 59.9}
	require.True(t, pr.IsTheoryCompleted(p))
	require.False(t, pr.IsPracticeCompleted(p))
	require.True(t, pr.IsPartCompleted(core.TheoryPart, p))
	require.False(t, pr.IsPartCompleted(core.PracticePart, p))
	require.True(t, pr.HighReached(p)) // 99.9 ≥ 91
}

func TestSuitableDifficulty_Reference(t *testing.T) {
	p := core.DefaultParams()
	// At the average skill 1.7: P(hard) = 1/(1+e^-(1.7-0.9)) ≈ 0.690 < 0.75,
	// P(normal) = 1/(1+e^-(1.7-0.6)) ≈ 0.750 ≥ 0.75 → NORMAL.
	require.Equal(t, core.Normal, core.SuitableDifficulty(1.7, p))
	// After the calibration closure of scenario 2 the skill is 2.4:
	// P(hard) = 1/(1+e^-1.5) ≈ 0.818 ≥ 0.75 → HARD.
	require.Equal(t, core.Hard, core.SuitableDifficulty(2.4, p))
	// A very weak student falls back to EASY.
	require.Equal(t, core.Easy, core.SuitableDifficulty(0.0, p))
}

func TestSuitableDifficulty_MonotoneInSkill(t *testing.T) {
	p := core.DefaultParams()
	prev := core.SuitableDifficulty(-5, p)
	for skill := -5.0; skill <= 5.0; skill += 0.01 {
		d := core.SuitableDifficulty(skill, p)
		require.GreaterOrEqual(t, int(d), int(prev), "suitable difficulty decreased at skill %f", skill)
		prev = d
	}
}

func TestDifficulty_IncDecSaturate(t *testing.T) {
	require.Equal(t, core.Normal, core.Easy.Inc())
	require.Equal(t, core.Hard, core.Hard.Inc())
	require.Equal(t, core.Easy, core.Easy.Dec())
	require.Equal(t, core.Normal, core.Hard.Dec())
}

func TestTargetPoints_Valid(t *testing.T) {
	require.True(t, core.TargetLow.Valid())
	require.True(t, core.TargetMedium.Valid())
	require.True(t, core.TargetHigh.Valid())
	require.False(t, core.TargetPoints(80).Valid())
}
