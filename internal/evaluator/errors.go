package evaluator

import (
	"errors"
	"fmt"

	"github.com/timvw/leaneval/internal/extract"
	"github.com/timvw/leaneval/internal/otel"
	"github.com/timvw/leaneval/internal/schema"
)

// TransportError is a failed call to the model endpoint.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: model call failed: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UnexpectedResponseTypeError means the first content block of the response
// was not text. Type is empty when the response had no content.
type UnexpectedResponseTypeError struct {
	Provider string
	Type     string
}

func (e *UnexpectedResponseTypeError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("%s: response contained no content", e.Provider)
	}
	return fmt.Sprintf("%s: unexpected response type %q", e.Provider, e.Type)
}

// GenerationError is returned by Generate for every failure. Err is the
// cause from the last attempt made.
type GenerationError struct {
	Attempt int
	Err     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("evaluation generation failed (attempt %d): %v", e.Attempt, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// retryable reports whether a failed attempt may be followed by another.
// Only schema violations qualify.
func retryable(err error) bool {
	var verr *schema.ValidationError
	return errors.As(err, &verr)
}

// outcome classifies an attempt error for metrics and span attributes.
func outcome(err error) string {
	var (
		terr *TransportError
		uerr *UnexpectedResponseTypeError
		xerr *extract.Error
	)
	switch {
	case err == nil:
		return otel.OutcomeSuccess
	case errors.As(err, &terr):
		return otel.OutcomeTransportError
	case errors.As(err, &uerr):
		return otel.OutcomeUnexpectedType
	case errors.As(err, &xerr):
		return otel.OutcomeExtractionFailed
	case retryable(err):
		return otel.OutcomeSchemaInvalid
	default:
		return "error"
	}
}
