package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "leaneval"

// Outcome values used on the attempt and evaluation counters.
const (
	OutcomeSuccess          = "success"
	OutcomeSchemaInvalid    = "schema_invalid"
	OutcomeExtractionFailed = "extraction_failed"
	OutcomeUnexpectedType   = "unexpected_type"
	OutcomeTransportError   = "transport_error"
)

// Metrics holds all OTEL metric instruments for leaneval.
// All counters are cumulative (monotonic) and safe for concurrent use.
type Metrics struct {
	// LLM token counters (partitioned by provider + model via attributes)
	InputTokens         metric.Int64Counter
	OutputTokens        metric.Int64Counter
	CacheReadTokens     metric.Int64Counter
	CacheCreationTokens metric.Int64Counter

	// Model calls, partitioned by outcome
	Attempts metric.Int64Counter

	// Generate calls, partitioned by outcome of the last attempt
	Evaluations metric.Int64Counter

	CompositeScore metric.Float64Histogram
}

// NewMetrics creates all metric instruments. Returns no-op instruments
// when no MeterProvider is registered (safe to call unconditionally).
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.InputTokens, err = meter.Int64Counter("llm.tokens.input",
		metric.WithDescription("Total LLM input tokens consumed"),
		metric.WithUnit("{token}"))
	if err != nil {
		return nil, err
	}

	m.OutputTokens, err = meter.Int64Counter("llm.tokens.output",
		metric.WithDescription("Total LLM output tokens consumed"),
		metric.WithUnit("{token}"))
	if err != nil {
		return nil, err
	}

	m.CacheReadTokens, err = meter.Int64Counter("llm.tokens.cache_read",
		metric.WithDescription("Total input tokens served from provider prompt cache"),
		metric.WithUnit("{token}"))
	if err != nil {
		return nil, err
	}

	m.CacheCreationTokens, err = meter.Int64Counter("llm.tokens.cache_creation",
		metric.WithDescription("Total input tokens used to create provider prompt cache entries"),
		metric.WithUnit("{token}"))
	if err != nil {
		return nil, err
	}

	m.Attempts, err = meter.Int64Counter("evaluation.attempts",
		metric.WithDescription("Model calls made while generating evaluations, by outcome"))
	if err != nil {
		return nil, err
	}

	m.Evaluations, err = meter.Int64Counter("evaluations.total",
		metric.WithDescription("Generated evaluations by final outcome"))
	if err != nil {
		return nil, err
	}

	m.CompositeScore, err = meter.Float64Histogram("evaluation.composite_score",
		metric.WithDescription("Composite score of successful evaluations"),
		metric.WithExplicitBucketBoundaries(10, 20, 30, 40, 50, 60, 70, 80, 90, 100))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordTokens records LLM token usage on the metric counters.
func (m *Metrics) RecordTokens(ctx context.Context, provider, model string, input, output, cacheRead, cacheCreation int64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("llm.provider", provider),
		attribute.String("llm.model", model),
	)
	m.InputTokens.Add(ctx, input, attrs)
	m.OutputTokens.Add(ctx, output, attrs)
	if cacheRead > 0 {
		m.CacheReadTokens.Add(ctx, cacheRead, attrs)
	}
	if cacheCreation > 0 {
		m.CacheCreationTokens.Add(ctx, cacheCreation, attrs)
	}
}

// RecordAttempt records one model call and how it ended.
func (m *Metrics) RecordAttempt(ctx context.Context, attempt int, outcome string) {
	if m == nil {
		return
	}
	m.Attempts.Add(ctx, 1, metric.WithAttributes(
		attribute.Int("evaluation.attempt", attempt),
		attribute.String("evaluation.outcome", outcome),
	))
}

// RecordEvaluation records a finished Generate call.
func (m *Metrics) RecordEvaluation(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.Evaluations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("evaluation.outcome", outcome),
	))
}

// RecordCompositeScore records the composite score of a successful evaluation.
func (m *Metrics) RecordCompositeScore(ctx context.Context, score float64) {
	if m == nil {
		return
	}
	m.CompositeScore.Record(ctx, score)
}
