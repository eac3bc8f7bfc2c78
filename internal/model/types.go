package model

import (
	"time"
)

// IdeaInput is the user's free-text description of a startup idea.
type IdeaInput struct {
	// Description is the idea itself, 10-500 characters after trimming.
	Description string `json:"description"`
}

// ClarifierResponse is the user's answer to one clarifier question.
type ClarifierResponse struct {
	// QuestionID is one of the catalog ids ("target-user", "pain-point",
	// "pricing") or an arbitrary string that is rendered verbatim.
	QuestionID string `json:"questionId"`
	// Answer is the user's free-text answer.
	Answer string `json:"answer"`
}

// EvaluationInput is the complete payload handed to the evaluator.
// It is treated as immutable once passed in.
type EvaluationInput struct {
	Idea       IdeaInput           `json:"idea"`
	Clarifiers []ClarifierResponse `json:"clarifiers"`
}

// ProblemAndPersona states the problem being solved and who has it.
type ProblemAndPersona struct {
	Problem string `json:"problem"`
	Persona string `json:"persona"`
}

// MVPScope is the minimal product that tests the core assumptions.
type MVPScope struct {
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Timeline    string   `json:"timeline"`
}

// Experiment is a concrete validation experiment.
type Experiment struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Metric      string `json:"metric"`
	Timeline    string `json:"timeline"`
}

// Risk is a key risk together with its mitigation.
type Risk struct {
	// Category is free text, e.g. "High Risk" or "Market".
	Category    string `json:"category"`
	Description string `json:"description"`
	Mitigation  string `json:"mitigation"`
}

// KPI is a key performance indicator with a target and a measurement method.
type KPI struct {
	Name        string `json:"name"`
	Target      string `json:"target"`
	Measurement string `json:"measurement"`
}

// Scoring holds the four 0-100 dimension scores assigned by the model.
type Scoring struct {
	Feasibility   float64 `json:"feasibility"`
	MarketPull    float64 `json:"marketPull"`
	SpeedToSignal float64 `json:"speedToSignal"`
	Novelty       float64 `json:"novelty"`
}

// Evaluation is a model response that passed schema validation.
// It carries everything except the derived fields of EvaluationResult.
type Evaluation struct {
	ProblemAndPersona ProblemAndPersona `json:"problemAndPersona"`
	MVPScope          MVPScope          `json:"mvpScope"`
	Experiments       []Experiment      `json:"experiments"`
	Risks             []Risk            `json:"risks"`
	KPIs              []KPI             `json:"kpis"`
	Scoring           Scoring           `json:"scoring"`
}

// EvaluationResult is the fully assembled output of one successful
// evaluation. It is built once and never mutated afterwards.
type EvaluationResult struct {
	ProblemAndPersona ProblemAndPersona `json:"problemAndPersona"`
	MVPScope          MVPScope          `json:"mvpScope"`
	Experiments       []Experiment      `json:"experiments"`
	Risks             []Risk            `json:"risks"`
	KPIs              []KPI             `json:"kpis"`
	Scoring           Scoring           `json:"scoring"`

	// CompositeScore is always the weighted sum of Scoring, rounded to two
	// decimals. It is never set independently.
	CompositeScore float64 `json:"compositeScore"`
	// Timestamp is the instant the result was assembled (UTC, ISO 8601 in JSON).
	Timestamp time.Time `json:"timestamp"`

	// Model is the model identifier that produced the evaluation.
	Model string `json:"model,omitempty"`
	// Provider is the endpoint family used (e.g., "anthropic", "openai").
	Provider string `json:"provider,omitempty"`
	// Attempts is the number of model calls it took (1 or 2).
	Attempts int `json:"attempts,omitempty"`
}

// TokenUsage tracks LLM token consumption for a single model call.
type TokenUsage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`

	// CacheReadInputTokens is the number of input tokens read from the
	// provider's prompt cache (Anthropic cache_read_input_tokens,
	// OpenAI prompt_tokens_details.cached_tokens).
	CacheReadInputTokens int64 `json:"cache_read_input_tokens,omitempty"`
	// CacheCreationInputTokens is the number of input tokens used to
	// create a new cache entry (Anthropic only).
	CacheCreationInputTokens int64 `json:"cache_creation_input_tokens,omitempty"`
}
