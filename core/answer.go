package core

import (
	"fmt"
	"strings"
)

// Payload is the validated-answer sum type. Exactly one concrete kind
// exists per Format; Evaluate dispatches on the tag. Code payloads are not
// judged locally — the engine sends them to the sandbox.
type Payload interface {
	// Kind returns the format tag of this payload.
	Kind() Format
}

// RadioPayload answers a single-choice problem.
type RadioPayload struct {
	ChoiceID string
}

// Kind implements Payload.
func (RadioPayload) Kind() Format { return FormatChoiceRadio }

// CheckboxPayload answers a multi-choice problem.
type CheckboxPayload struct {
	ChoiceIDs []string
}

// Kind implements Payload.
func (CheckboxPayload) Kind() Format { return FormatChoiceCheckbox }

// BlankPayload answers a fill-in-single-blank problem.
type BlankPayload struct {
	Value string
}

// Kind implements Payload.
func (BlankPayload) Kind() Format { return FormatFillBlank }

// CodePayload carries source code for the external sandbox.
type CodePayload struct {
	Code string
}

// Kind implements Payload.
func (CodePayload) Kind() Format { return FormatCode }

// Evaluate grades a payload against the problem's answer key and returns
// the correctness coefficient in [0,1] plus a human-readable echo of the
// given answer.
//
// Rules per format:
//
//   - radio:    1 if the chosen option is the correct one, else 0;
//   - checkbox: max(0, (#correct chosen − #wrong chosen) / #correct total);
//   - blank:    1 on a case-insensitive exact match of any accepted value;
//   - code:     not judged here — ErrBadPayload (the sandbox is the judge).
//
// A payload whose kind disagrees with the problem's format, an empty
// payload, or a choice id that names no option is ErrBadPayload.
func Evaluate(problem *Problem, payload Payload) (float64, string, error) {
	if problem == nil || payload == nil {
		return 0, "", fmt.Errorf("%w: nil problem or payload", ErrBadPayload)
	}
	if payload.Kind() != problem.Format {
		return 0, "", fmt.Errorf("%w: payload kind %d for format %d", ErrBadPayload, payload.Kind(), problem.Format)
	}

	switch pl := payload.(type) {
	case RadioPayload:
		return evaluateRadio(problem, pl)
	case CheckboxPayload:
		return evaluateCheckbox(problem, pl)
	case BlankPayload:
		return evaluateBlank(problem, pl)
	default:
		return 0, "", fmt.Errorf("%w: format %d is not judged locally", ErrBadPayload, problem.Format)
	}
}

// evaluateRadio grades a single-choice answer: coefficient ∈ {0, 1}.
func evaluateRadio(problem *Problem, pl RadioPayload) (float64, string, error) {
	if pl.ChoiceID == "" {
		return 0, "", fmt.Errorf("%w: empty choice", ErrBadPayload)
	}
	for _, c := range problem.Choices {
		if c.ID != pl.ChoiceID {
			continue
		}
		if c.Correct {
			return 1, c.Text, nil
		}

		return 0, c.Text, nil
	}

	return 0, "", fmt.Errorf("%w: choice %q not found", ErrBadPayload, pl.ChoiceID)
}

// evaluateCheckbox grades a multi-choice answer:
// max(0, (#correct chosen − #wrong chosen) / #correct total).
func evaluateCheckbox(problem *Problem, pl CheckboxPayload) (float64, string, error) {
	if len(pl.ChoiceIDs) == 0 {
		return 0, "", fmt.Errorf("%w: empty selection", ErrBadPayload)
	}
	byID := make(map[string]Choice, len(problem.Choices))
	correctTotal := 0
	for _, c := range problem.Choices {
		byID[c.ID] = c
		if c.Correct {
			correctTotal++
		}
	}
	if correctTotal == 0 {
		return 0, "", fmt.Errorf("%w: problem %s has no correct option", ErrContentInconsistency, problem.ID)
	}

	var chosen, wrong int
	texts := make([]string, 0, len(pl.ChoiceIDs))
	seen := make(map[string]struct{}, len(pl.ChoiceIDs))
	for _, id := range pl.ChoiceIDs {
		if _, dup := seen[id]; dup {
			return 0, "", fmt.Errorf("%w: duplicate choice %q", ErrBadPayload, id)
		}
		seen[id] = struct{}{}
		c, ok := byID[id]
		if !ok {
			return 0, "", fmt.Errorf("%w: choice %q not found", ErrBadPayload, id)
		}
		texts = append(texts, c.Text)
		if c.Correct {
			chosen++
		} else {
			wrong++
		}
	}

	coefficient := float64(chosen-wrong) / float64(correctTotal)
	if coefficient < 0 {
		coefficient = 0
	}

	return coefficient, strings.Join(texts, ", "), nil
}

// evaluateBlank grades a fill-in answer by case-insensitive exact match.
func evaluateBlank(problem *Problem, pl BlankPayload) (float64, string, error) {
	value := strings.TrimSpace(pl.Value)
	if value == "" {
		return 0, "", fmt.Errorf("%w: empty value", ErrBadPayload)
	}
	for _, accepted := range problem.Accepted {
		if strings.EqualFold(value, strings.TrimSpace(accepted)) {
			return 1, value, nil
		}
	}

	return 0, value, nil
}
