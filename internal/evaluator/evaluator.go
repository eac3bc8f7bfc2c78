// Package evaluator turns an idea and its clarifier answers into a validated,
// scored evaluation by calling a model endpoint.
package evaluator

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/timvw/leaneval/internal/extract"
	"github.com/timvw/leaneval/internal/llm"
	"github.com/timvw/leaneval/internal/model"
	leotel "github.com/timvw/leaneval/internal/otel"
	"github.com/timvw/leaneval/internal/prompt"
	"github.com/timvw/leaneval/internal/schema"
	"github.com/timvw/leaneval/internal/score"
)

// MaxAttempts is the number of model calls Generate makes at most.
// The second call happens only after a schema violation.
const MaxAttempts = 2

var tracer = otel.Tracer("leaneval")

// Evaluator generates evaluations. The zero value is not usable; Client
// must be set. An Evaluator holds no per-call state and may be shared.
type Evaluator struct {
	Client  llm.Client
	Log     io.Writer        // diagnostics; nil is silent
	Metrics *leotel.Metrics  // nil-safe
	Now     func() time.Time // defaults to time.Now
}

// New returns an Evaluator for the given client.
func New(client llm.Client) *Evaluator {
	return &Evaluator{Client: client}
}

// Generate builds the prompt, calls the model and returns the assembled
// result. Every failure is a *GenerationError wrapping the cause from the
// last attempt. Generate imposes no deadline of its own; cancel ctx to
// abort an outstanding call.
func (e *Evaluator) Generate(ctx context.Context, input model.EvaluationInput) (*model.EvaluationResult, error) {
	runID := uuid.NewString()
	ctx, span := tracer.Start(ctx, "generate_evaluation",
		trace.WithAttributes(
			attribute.String("evaluation.run_id", runID),
			attribute.String("llm.provider", e.Client.Provider()),
			attribute.String("llm.model", e.Client.Model()),
			attribute.Int("evaluation.clarifiers", len(input.Clarifiers)),

			// Langfuse trace-level attributes
			attribute.String("langfuse.trace.name", "leaneval-evaluate"),
			attribute.StringSlice("langfuse.trace.tags", []string{"leaneval", "evaluate"}),
		))
	defer span.End()

	text := prompt.Build(input)
	span.SetAttributes(attribute.String("langfuse.observation.input", input.Idea.Description))

	var (
		lastErr error
		attempt int
	)
	for attempt = 1; attempt <= MaxAttempts; attempt++ {
		ev, err := e.attempt(ctx, attempt, text)
		e.Metrics.RecordAttempt(ctx, attempt, outcome(err))
		if err == nil {
			result := e.assemble(ev, attempt)
			span.SetAttributes(
				attribute.Int("evaluation.attempts", attempt),
				attribute.Float64("evaluation.composite_score", result.CompositeScore),
			)
			e.Metrics.RecordEvaluation(ctx, leotel.OutcomeSuccess)
			e.Metrics.RecordCompositeScore(ctx, result.CompositeScore)
			return result, nil
		}

		lastErr = err
		if !retryable(err) || attempt == MaxAttempts {
			break
		}
		e.logf("warning: run %s: attempt %d failed schema validation, retrying: %v\n", runID, attempt, err)
	}

	gerr := &GenerationError{Attempt: attempt, Err: lastErr}
	span.RecordError(gerr)
	span.SetStatus(codes.Error, outcome(lastErr))
	e.Metrics.RecordEvaluation(ctx, outcome(lastErr))
	e.logf("warning: run %s: %v\n", runID, gerr)
	return nil, gerr
}

// attempt performs one model call plus extraction and validation.
func (e *Evaluator) attempt(ctx context.Context, n int, text string) (*model.Evaluation, error) {
	ctx, span := tracer.Start(ctx, fmt.Sprintf("attempt %d", n),
		trace.WithAttributes(attribute.Int("evaluation.attempt", n)))
	defer span.End()

	ev, err := e.callAndParse(ctx, text)
	span.SetAttributes(attribute.String("evaluation.outcome", outcome(err)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return ev, nil
}

func (e *Evaluator) callAndParse(ctx context.Context, text string) (*model.Evaluation, error) {
	provider := e.Client.Provider()

	completion, err := e.Client.Complete(ctx, text)
	if err != nil {
		return nil, &TransportError{Provider: provider, Err: err}
	}
	u := completion.Usage
	e.Metrics.RecordTokens(ctx, provider, e.Client.Model(),
		u.InputTokens, u.OutputTokens, u.CacheReadInputTokens, u.CacheCreationInputTokens)

	if completion.Type != llm.ContentTypeText {
		return nil, &UnexpectedResponseTypeError{Provider: provider, Type: completion.Type}
	}

	raw, err := extract.JSON(completion.Text)
	if err != nil {
		return nil, err
	}
	return schema.Parse(raw)
}

// assemble derives the composite score and stamps the result.
func (e *Evaluator) assemble(ev *model.Evaluation, attempts int) *model.EvaluationResult {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	return &model.EvaluationResult{
		ProblemAndPersona: ev.ProblemAndPersona,
		MVPScope:          ev.MVPScope,
		Experiments:       ev.Experiments,
		Risks:             ev.Risks,
		KPIs:              ev.KPIs,
		Scoring:           ev.Scoring,
		CompositeScore:    score.Composite(ev.Scoring),
		Timestamp:         now().UTC(),
		Model:             e.Client.Model(),
		Provider:          e.Client.Provider(),
		Attempts:          attempts,
	}
}

func (e *Evaluator) logf(format string, args ...any) {
	if e.Log == nil {
		return
	}
	fmt.Fprintf(e.Log, format, args...)
}
