// Package server exposes the evaluation pipeline as MCP tools over stdio.
//
// Only wiring lives here; the tools delegate to evaluator, model and score.
package server

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/timvw/leaneval/internal/model"
)

// Generator produces an evaluation. *evaluator.Evaluator satisfies it.
type Generator interface {
	Generate(ctx context.Context, input model.EvaluationInput) (*model.EvaluationResult, error)
}

// New creates the MCP server with all tools registered. gen may be nil, in
// which case evaluate_idea is not registered (no model endpoint configured).
func New(version string, gen Generator) *server.MCPServer {
	s := server.NewMCPServer(
		"leaneval",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	clarifiers := NewClarifiersTool()
	s.AddTool(clarifiers.Definition(), clarifiers.Handle)

	scoreTool := NewScoreTool()
	s.AddTool(scoreTool.Definition(), scoreTool.Handle)

	if gen != nil {
		evaluate := NewEvaluateTool(gen)
		s.AddTool(evaluate.Definition(), evaluate.Handle)
	}

	return s
}

const instructions = `leaneval evaluates early-stage startup ideas with lean-startup methodology.

Workflow:
1. Call list_clarifiers to see the follow-up questions (target user, pain point, pricing).
2. Ask the user those questions.
3. Call evaluate_idea with the idea and the answers. It returns the problem/persona,
   MVP scope, experiments, risks, KPIs, four dimension scores and a composite score.

compute_score recomputes the composite score (feasibility 35%, market pull 35%,
speed to signal 20%, novelty 10%) for any four dimension scores.`
