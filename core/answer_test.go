package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adaptix/adaptix/core"
)

func radioProblem() *core.Problem {
	return &core.Problem{
		ID:     "p-radio",
		Format: core.FormatChoiceRadio,
		Choices: []core.Choice{
			{ID: "a", Text: "wrong A"},
			{ID: "b", Text: "right B", Correct: true},
			{ID: "c", Text: "wrong C"},
		},
	}
}

func checkboxProblem() *core.Problem {
	return &core.Problem{
		ID:     "p-check",
		Format: core.FormatChoiceCheckbox,
		Choices: []core.Choice{
			{ID: "a", Text: "A", Correct: true},
			{ID: "b", Text: "B", Correct: true},
			{ID: "c", Text: "C"},
			{ID: "d", Text: "D"},
		},
	}
}

func TestEvaluate_Radio(t *testing.T) {
	p := radioProblem()

	coefficient, echo, err := core.Evaluate(p, core.RadioPayload{ChoiceID: "b"})
	require.NoError(t, err)
	require.Equal(t, 1.0, coefficient)
	require.Equal(t, "right B", echo)

	coefficient, _, err = core.Evaluate(p, core.RadioPayload{ChoiceID: "a"})
	require.NoError(t, err)
	require.Equal(t, 0.0, coefficient)

	_, _, err = core.Evaluate(p, core.RadioPayload{ChoiceID: "nope"})
	require.ErrorIs(t, err, core.ErrBadPayload)

	_, _, err = core.Evaluate(p, core.RadioPayload{})
	require.ErrorIs(t, err, core.ErrBadPayload)
}

func TestEvaluate_Checkbox(t *testing.T) {
	p := checkboxProblem()

	// Both correct, none wrong: (2-0)/2 = 1.
	coefficient, _, err := core.Evaluate(p, core.CheckboxPayload{ChoiceIDs: []string{"a", "b"}})
	require.NoError(t, err)
	require.Equal(t, 1.0, coefficient)

	// One correct, one wrong: (1-1)/2 = 0.
	coefficient, _, err = core.Evaluate(p, core.CheckboxPayload{ChoiceIDs: []string{"a", "c"}})
	require.NoError(t, err)
	require.Equal(t, 0.0, coefficient)

	// Two correct, one wrong: (2-1)/2 = 0.5.
	coefficient, _, err = core.Evaluate(p, core.CheckboxPayload{ChoiceIDs: []string{"a", "b", "c"}})
	require.NoError(t, err)
	require.Equal(t, 0.5, coefficient)

	// More wrong than correct clamps at zero.
	coefficient, _, err = core.Evaluate(p, core.CheckboxPayload{ChoiceIDs: []string{"c", "d"}})
	require.NoError(t, err)
	require.Equal(t, 0.0, coefficient)

	// Empty and duplicate selections are bad payloads.
	_, _, err = core.Evaluate(p, core.CheckboxPayload{})
	require.ErrorIs(t, err, core.ErrBadPayload)
	_, _, err = core.Evaluate(p, core.CheckboxPayload{ChoiceIDs: []string{"a", "a"}})
	require.ErrorIs(t, err, core.ErrBadPayload)
}

func TestEvaluate_Blank(t *testing.T) {
	p := &core.Problem{
		ID:       "p-blank",
		Format:   core.FormatFillBlank,
		Accepted: []string{"Answer", "42"},
	}

	coefficient, echo, err := core.Evaluate(p, core.BlankPayload{Value: "aNsWeR"})
	require.NoError(t, err)
	require.Equal(t, 1.0, coefficient)
	require.Equal(t, "aNsWeR", echo)

	coefficient, _, err = core.Evaluate(p, core.BlankPayload{Value: " 42 "})
	require.NoError(t, err)
	require.Equal(t, 1.0, coefficient)

	coefficient, _, err = core.Evaluate(p, core.BlankPayload{Value: "43"})
	require.NoError(t, err)
	require.Equal(t, 0.0, coefficient)

	_, _, err = core.Evaluate(p, core.BlankPayload{Value: "   "})
	require.ErrorIs(t, err, core.ErrBadPayload)
}

func TestEvaluate_KindMismatchAndCode(t *testing.T) {
	// Payload kind must match the problem format.
	_, _, err := core.Evaluate(radioProblem(), core.BlankPayload{Value: "x"})
	require.ErrorIs(t, err, core.ErrBadPayload)

	// Code is never judged locally.
	codeProblem := &core.Problem{ID: "p-code", Format: core.FormatCode}
	_, _, err = core.Evaluate(codeProblem, core.CodePayload{Code: "print(1)"})
	require.ErrorIs(t, err, core.ErrBadPayload)
}
