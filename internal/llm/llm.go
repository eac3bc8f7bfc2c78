// Package llm is the outbound call to a text-completion model endpoint.
//
// Each Client sends one user-role message with fixed sampling parameters and
// reports the kind and text of the first content block it gets back. It does
// not interpret the text; extraction and validation happen in the caller.
package llm

import (
	"context"

	"go.opentelemetry.io/otel"

	"github.com/timvw/leaneval/internal/model"
)

// Fixed request parameters for every evaluation call.
const (
	// DefaultModel is the Anthropic model used when none is configured.
	DefaultModel = "claude-sonnet-4-5-20250929"
	// DefaultOpenAIModel is the model used for OpenAI-compatible endpoints
	// when none is configured.
	DefaultOpenAIModel = "gpt-4o-mini"
	// MaxTokens is the maximum number of output tokens.
	MaxTokens int64 = 4000
	// Temperature is low to lean the output towards determinism.
	Temperature = 0.3
)

// ContentTypeText is the content block type carrying a text payload.
const ContentTypeText = "text"

// Completion is the first content block of a model response.
type Completion struct {
	// Type is the block's discriminator ("text", "tool_use", "refusal", ...).
	// Empty when the response had no content at all.
	Type string
	// Text is the payload when Type is "text".
	Text string
	// StopReason is the provider's finish reason, if reported.
	StopReason string
	// Usage is the token consumption of the call.
	Usage model.TokenUsage
}

// Client sends a prompt to a model endpoint.
type Client interface {
	// Complete sends prompt as a single user message and returns the first
	// content block of the response.
	Complete(ctx context.Context, prompt string) (*Completion, error)

	// Provider returns the provider name (e.g., "anthropic", "openai").
	Provider() string

	// Model returns the model name used for completions.
	Model() string
}

var tracer = otel.Tracer("leaneval/llm")
