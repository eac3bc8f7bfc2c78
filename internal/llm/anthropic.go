package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/timvw/leaneval/internal/model"
)

// AnthropicClient calls the Anthropic Messages API.
// Works with both direct Anthropic API and Azure AI Foundry.
type AnthropicClient struct {
	client anthropic.Client
	model  string
}

// AnthropicConfig holds configuration for the Anthropic client.
type AnthropicConfig struct {
	// BaseURL is the API endpoint (e.g., "https://resource.services.ai.azure.com/anthropic/").
	BaseURL string
	// APIKey is the API key.
	APIKey string
	// Model is the model name. Defaults to DefaultModel.
	Model string
	// ExtraHeaders are additional HTTP headers (e.g., "api-key" for Azure).
	ExtraHeaders map[string]string
	// Options are appended after the options derived from the fields above.
	Options []option.RequestOption
}

// NewAnthropicClient creates a new Anthropic client.
//
// SDK-level retries are disabled: a failed call surfaces to the caller
// instead of being re-sent.
func NewAnthropicClient(cfg AnthropicConfig) *AnthropicClient {
	opts := []option.RequestOption{option.WithMaxRetries(0)}

	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	for k, v := range cfg.ExtraHeaders {
		opts = append(opts, option.WithHeader(k, v))
	}
	opts = append(opts, cfg.Options...)

	m := cfg.Model
	if m == "" {
		m = DefaultModel
	}

	return &AnthropicClient{
		client: anthropic.NewClient(opts...),
		model:  m,
	}
}

// Provider returns "anthropic".
func (c *AnthropicClient) Provider() string {
	return "anthropic"
}

// Model returns the model name.
func (c *AnthropicClient) Model() string {
	return c.model
}

// Complete sends the prompt to the Anthropic API.
func (c *AnthropicClient) Complete(ctx context.Context, prompt string) (*Completion, error) {
	// GenAI generation span following OTel GenAI semantic conventions.
	// Span name: "{operation} {model}".
	ctx, span := tracer.Start(ctx, "chat "+c.model,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("gen_ai.operation.name", "chat"),
			attribute.String("gen_ai.provider.name", "anthropic"),
			attribute.String("gen_ai.request.model", c.model),
			attribute.Int64("gen_ai.request.max_tokens", MaxTokens),
			attribute.Float64("gen_ai.request.temperature", Temperature),

			// Langfuse-specific: ensure this shows as a "generation"
			attribute.String("langfuse.observation.type", "generation"),
		),
	)
	defer span.End()

	recordInput(span, prompt)

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   MaxTokens,
		Temperature: anthropic.Float(Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(prompt),
			),
		},
	})
	if err != nil {
		span.SetAttributes(attribute.String("error.type", "api_error"))
		return nil, fmt.Errorf("anthropic API call failed: %w", err)
	}

	completion := &Completion{
		StopReason: string(resp.StopReason),
		Usage: model.TokenUsage{
			InputTokens:              resp.Usage.InputTokens,
			OutputTokens:             resp.Usage.OutputTokens,
			CacheReadInputTokens:     resp.Usage.CacheReadInputTokens,
			CacheCreationInputTokens: resp.Usage.CacheCreationInputTokens,
		},
	}
	if len(resp.Content) > 0 {
		completion.Type = resp.Content[0].Type
		if completion.Type == ContentTypeText {
			completion.Text = resp.Content[0].Text
		}
	}

	span.SetAttributes(
		attribute.String("gen_ai.response.model", string(resp.Model)),
		attribute.String("gen_ai.response.id", resp.ID),
		attribute.Int64("gen_ai.usage.input_tokens", resp.Usage.InputTokens),
		attribute.Int64("gen_ai.usage.output_tokens", resp.Usage.OutputTokens),
	)
	if completion.StopReason != "" {
		span.SetAttributes(attribute.StringSlice("gen_ai.response.finish_reasons", []string{completion.StopReason}))
	}
	recordOutput(span, completion)

	return completion, nil
}

// recordInput records the user message as JSON on the span.
func recordInput(span trace.Span, prompt string) {
	inputMessages := []map[string]string{
		{"role": "user", "content": prompt},
	}
	if inputJSON, err := json.Marshal(inputMessages); err == nil {
		span.SetAttributes(attribute.String("gen_ai.input.messages", string(inputJSON)))
	}
}

// recordOutput records the assistant message as JSON on the span.
func recordOutput(span trace.Span, c *Completion) {
	outputMessages := []map[string]string{
		{"role": "assistant", "type": c.Type, "content": c.Text},
	}
	if outputJSON, err := json.Marshal(outputMessages); err == nil {
		span.SetAttributes(attribute.String("gen_ai.output.messages", string(outputJSON)))
	}
}
