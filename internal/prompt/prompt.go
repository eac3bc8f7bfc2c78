// Package prompt builds the instruction prompt sent to the model.
//
// The output is a pure function of the input: identical input always yields
// byte-identical prompts, which keeps evaluations reproducible in tests.
package prompt

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/timvw/leaneval/internal/model"
)

// evaluationTemplate is the full instruction prompt: framework description,
// output constraints and the JSON shape the model must mimic.
// Loaded from prompts/evaluation.md at compile time.
//
//go:embed prompts/evaluation.md
var evaluationTemplate string

// Template placeholders substituted by Build.
const (
	ideaPlaceholder       = "{{idea}}"
	clarifiersPlaceholder = "{{clarifiers}}"
)

// Build renders the evaluation prompt for input.
func Build(input model.EvaluationInput) string {
	// A single-pass replacer never re-scans substituted text, so user input
	// containing a placeholder is emitted literally.
	r := strings.NewReplacer(
		ideaPlaceholder, input.Idea.Description,
		clarifiersPlaceholder, FormatClarifiers(input.Clarifiers),
	)
	return r.Replace(strings.TrimSuffix(evaluationTemplate, "\n"))
}

// FormatClarifiers renders answers as blank-line separated Q/A pairs.
// Question ids are mapped to their catalog label; unknown ids are used as-is.
func FormatClarifiers(clarifiers []model.ClarifierResponse) string {
	pairs := make([]string, 0, len(clarifiers))
	for _, c := range clarifiers {
		pairs = append(pairs, fmt.Sprintf("Q: %s\nA: %s", model.QuestionLabel(c.QuestionID), c.Answer))
	}
	return strings.Join(pairs, "\n\n")
}
