package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/timvw/leaneval/internal/model"
)

// inputFlags collects an EvaluationInput from either a JSON document or
// individual flags.
type inputFlags struct {
	file       string
	idea       string
	targetUser string
	painPoint  string
	pricing    string
	answers    []string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "input", "i", "", `EvaluationInput JSON file ("-" for stdin)`)
	cmd.Flags().StringVar(&f.idea, "idea", "", "idea description")
	cmd.Flags().StringVar(&f.targetUser, "target-user", "", model.QuestionLabel(model.QuestionTargetUser))
	cmd.Flags().StringVar(&f.painPoint, "pain-point", "", model.QuestionLabel(model.QuestionPainPoint))
	cmd.Flags().StringVar(&f.pricing, "pricing", "", model.QuestionLabel(model.QuestionPricing))
	cmd.Flags().StringArrayVar(&f.answers, "answer", nil, "extra clarifier answer as question-id=text (repeatable)")
	cmd.MarkFlagsMutuallyExclusive("input", "idea")
}

// read builds, normalizes and validates the input.
func (f *inputFlags) read(stdin io.Reader, stderr io.Writer) (model.EvaluationInput, error) {
	var in model.EvaluationInput

	switch {
	case f.file != "":
		data, err := readFileOrStdin(f.file, stdin)
		if err != nil {
			return in, err
		}
		if err := json.Unmarshal(data, &in); err != nil {
			return in, fmt.Errorf("parsing input %s: %w", f.file, err)
		}
	case f.idea != "":
		in.Idea.Description = f.idea
		for _, a := range []struct{ id, answer string }{
			{model.QuestionTargetUser, f.targetUser},
			{model.QuestionPainPoint, f.painPoint},
			{model.QuestionPricing, f.pricing},
		} {
			in.Clarifiers = append(in.Clarifiers, model.ClarifierResponse{QuestionID: a.id, Answer: a.answer})
		}
		for _, raw := range f.answers {
			id, answer, ok := strings.Cut(raw, "=")
			if !ok {
				return in, fmt.Errorf("invalid --answer %q: want question-id=text", raw)
			}
			in.Clarifiers = append(in.Clarifiers, model.ClarifierResponse{QuestionID: id, Answer: answer})
		}
	default:
		return in, fmt.Errorf("no idea given: use --idea or --input")
	}

	in = in.Normalized()
	if err := in.Validate(); err != nil {
		return in, fmt.Errorf("invalid input: %w", err)
	}
	for _, id := range in.MissingRequired() {
		fmt.Fprintf(stderr, "warning: no answer for %q (%s)\n", id, model.QuestionLabel(id))
	}
	return in, nil
}

func readFileOrStdin(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return data, nil
}
