package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/timvw/leaneval/internal/evaluator"
	"github.com/timvw/leaneval/internal/model"
	"github.com/timvw/leaneval/internal/score"
)

// clarifierArgs maps tool argument names to clarifier question ids.
var clarifierArgs = []struct {
	arg string
	id  string
}{
	{arg: "target_user", id: model.QuestionTargetUser},
	{arg: "pain_point", id: model.QuestionPainPoint},
	{arg: "pricing", id: model.QuestionPricing},
}

// EvaluateTool handles the evaluate_idea MCP tool.
type EvaluateTool struct {
	gen Generator
}

// NewEvaluateTool creates an EvaluateTool backed by gen.
func NewEvaluateTool(gen Generator) *EvaluateTool {
	return &EvaluateTool{gen: gen}
}

// Definition returns the MCP tool definition for evaluate_idea.
func (t *EvaluateTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Evaluate a startup idea. Returns a JSON evaluation with problem and persona, " +
				"MVP scope, 2-5 experiments, risks and KPIs, four 0-100 dimension scores " +
				"and the weighted composite score.",
		),
		mcp.WithString("idea",
			mcp.Required(),
			mcp.Description(fmt.Sprintf("The idea in plain language (%d-%d characters)", model.MinIdeaLength, model.MaxIdeaLength)),
		),
	}
	for _, c := range clarifierArgs {
		q, _ := model.LookupClarifier(c.id)
		opts = append(opts, mcp.WithString(c.arg, mcp.Description(q.Label)))
	}
	return mcp.NewTool("evaluate_idea", opts...)
}

// Handle processes the evaluate_idea tool call.
func (t *EvaluateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idea, err := req.RequireString("idea")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	input := model.EvaluationInput{Idea: model.IdeaInput{Description: idea}}
	for _, c := range clarifierArgs {
		input.Clarifiers = append(input.Clarifiers, model.ClarifierResponse{
			QuestionID: c.id,
			Answer:     req.GetString(c.arg, ""),
		})
	}
	input = input.Normalized()
	if err := input.Validate(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid input: %v", err)), nil
	}

	result, err := t.gen.Generate(ctx, input)
	if err != nil {
		return mcp.NewToolResultError(describeFailure(err)), nil
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultErrorFromErr("encoding result", err), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// describeFailure renders a generation failure for the calling agent.
func describeFailure(err error) string {
	var (
		terr *evaluator.TransportError
		uerr *evaluator.UnexpectedResponseTypeError
	)
	switch {
	case errors.As(err, &terr):
		return fmt.Sprintf("the model endpoint could not be reached, try again later: %v", err)
	case errors.As(err, &uerr):
		return fmt.Sprintf("the model did not return text: %v", err)
	default:
		return fmt.Sprintf("the model response could not be used, try again: %v", err)
	}
}

// ClarifiersTool handles the list_clarifiers MCP tool.
type ClarifiersTool struct{}

// NewClarifiersTool creates a ClarifiersTool.
func NewClarifiersTool() *ClarifiersTool {
	return &ClarifiersTool{}
}

// Definition returns the MCP tool definition for list_clarifiers.
func (t *ClarifiersTool) Definition() mcp.Tool {
	return mcp.NewTool("list_clarifiers",
		mcp.WithDescription("List the follow-up questions to ask about an idea before evaluating it."),
	)
}

// Handle processes the list_clarifiers tool call.
func (t *ClarifiersTool) Handle(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var sb strings.Builder
	sb.WriteString("## Clarifying questions\n\n")
	for _, q := range model.Clarifiers {
		arg := q.ID
		for _, c := range clarifierArgs {
			if c.id == q.ID {
				arg = c.arg
			}
		}
		req := "optional"
		if q.Required {
			req = "required"
		}
		sb.WriteString(fmt.Sprintf("- **%s** (`%s`, %s): %s\n", q.Label, arg, req, q.Placeholder))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// ScoreTool handles the compute_score MCP tool.
type ScoreTool struct{}

// NewScoreTool creates a ScoreTool.
func NewScoreTool() *ScoreTool {
	return &ScoreTool{}
}

var scoreArgs = []string{"feasibility", "market_pull", "speed_to_signal", "novelty"}

// Definition returns the MCP tool definition for compute_score.
func (t *ScoreTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Compute the weighted composite score from four 0-100 dimension scores."),
	}
	for _, name := range scoreArgs {
		opts = append(opts, mcp.WithNumber(name,
			mcp.Required(),
			mcp.Min(0),
			mcp.Max(100),
			mcp.Description(strings.ReplaceAll(name, "_", " ")+" score (0-100)"),
		))
	}
	return mcp.NewTool("compute_score", opts...)
}

// Handle processes the compute_score tool call.
func (t *ScoreTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	values := make([]float64, len(scoreArgs))
	for i, name := range scoreArgs {
		v, err := req.RequireFloat(name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		values[i] = v
	}

	s := model.Scoring{
		Feasibility:   values[0],
		MarketPull:    values[1],
		SpeedToSignal: values[2],
		Novelty:       values[3],
	}
	if err := score.CheckRange(s); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid score", err), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Composite score: %.2f\n\n", score.Composite(s)))
	for _, d := range score.Breakdown(s) {
		sb.WriteString(fmt.Sprintf("- %s: %g × %.0f%% = %.2f\n", d.Label, d.Score, d.Weight*100, d.Contribution))
	}
	return mcp.NewToolResultText(sb.String()), nil
}
