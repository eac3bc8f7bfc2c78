package model

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Intake limits enforced by the collaborators that collect input
// (CLI, MCP server). The evaluator itself does not check them.
const (
	MinIdeaLength   = 10
	MaxIdeaLength   = 500
	MinAnswerLength = 5
)

var intake = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the trimmed description against the intake length limits.
func (i IdeaInput) Validate() error {
	desc := strings.TrimSpace(i.Description)
	if err := intake.Var(desc, fmt.Sprintf("min=%d,max=%d", MinIdeaLength, MaxIdeaLength)); err != nil {
		return fmt.Errorf("idea description must be %d-%d characters, got %d",
			MinIdeaLength, MaxIdeaLength, utf8.RuneCountInString(desc))
	}
	return nil
}

// Validate checks the idea and every clarifier answer. All problems are
// reported together.
func (in EvaluationInput) Validate() error {
	var errs []error
	if err := in.Idea.Validate(); err != nil {
		errs = append(errs, err)
	}
	for i, c := range in.Clarifiers {
		if strings.TrimSpace(c.QuestionID) == "" {
			errs = append(errs, fmt.Errorf("clarifier %d: question id is required", i))
			continue
		}
		answer := strings.TrimSpace(c.Answer)
		if err := intake.Var(answer, fmt.Sprintf("min=%d", MinAnswerLength)); err != nil {
			errs = append(errs, fmt.Errorf("clarifier %q: answer must be at least %d characters", c.QuestionID, MinAnswerLength))
		}
	}
	return errors.Join(errs...)
}

// Normalized returns a copy with whitespace trimmed and unanswered
// clarifiers dropped, the way the intake form submits them.
func (in EvaluationInput) Normalized() EvaluationInput {
	out := EvaluationInput{
		Idea:       IdeaInput{Description: strings.TrimSpace(in.Idea.Description)},
		Clarifiers: make([]ClarifierResponse, 0, len(in.Clarifiers)),
	}
	for _, c := range in.Clarifiers {
		answer := strings.TrimSpace(c.Answer)
		if answer == "" {
			continue
		}
		out.Clarifiers = append(out.Clarifiers, ClarifierResponse{
			QuestionID: strings.TrimSpace(c.QuestionID),
			Answer:     answer,
		})
	}
	return out
}

// MissingRequired lists the required catalog questions without a non-blank
// answer, in catalog order.
func (in EvaluationInput) MissingRequired() []string {
	answered := make(map[string]bool, len(in.Clarifiers))
	for _, c := range in.Clarifiers {
		if strings.TrimSpace(c.Answer) != "" {
			answered[c.QuestionID] = true
		}
	}
	var missing []string
	for _, q := range Clarifiers {
		if q.Required && !answered[q.ID] {
			missing = append(missing, q.ID)
		}
	}
	return missing
}
