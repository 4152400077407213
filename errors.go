package optimizer

import (
	"fmt"
	"strings"
)

// The pipeline's failures fall into five classes. Per-position data errors
// (DataUnavailableError, FxUnavailableError) are captured on the enriched
// position and never abort the whole batch. Extraction errors abort only the
// scan. Recommendation errors abort only the current recommend attempt.

// DataUnavailableError reports that a ticker resolved to no usable price
// data (delisted, typo, unsupported exchange suffix).
type DataUnavailableError struct {
	Ticker string
	Cause  error
}

func (e *DataUnavailableError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("no price data for %q", e.Ticker)
	}
	return fmt.Sprintf("no price data for %q: %v", e.Ticker, e.Cause)
}

func (e *DataUnavailableError) Unwrap() error { return e.Cause }

// FxUnavailableError reports that both the direct and the inverse lookup of
// a currency pair failed.
type FxUnavailableError struct {
	From, To string
	Direct   error
	Inverse  error
}

func (e *FxUnavailableError) Error() string {
	return fmt.Sprintf("no FX rate for %s->%s (direct: %v; inverse: %v)", e.From, e.To, e.Direct, e.Inverse)
}

// MalformedExtractionError reports that a vision response could not be
// parsed or validated as a position list.
type MalformedExtractionError struct {
	Reason string
	Raw    string // raw model output, for the user to inspect
	Cause  error
}

func (e *MalformedExtractionError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("malformed extraction: %s", e.Reason)
	}
	return fmt.Sprintf("malformed extraction: %s: %v", e.Reason, e.Cause)
}

func (e *MalformedExtractionError) Unwrap() error { return e.Cause }

// FailureClass classifies a generative-AI call failure for the model
// fallback decision.
type FailureClass int

const (
	// FailureOther covers network errors, malformed auth, server errors:
	// never retried across models.
	FailureOther FailureClass = iota
	// FailureRateLimited is a quota / too-many-requests rejection.
	FailureRateLimited
	// FailureUnavailable is a model-not-found or transiently unavailable
	// rejection.
	FailureUnavailable
)

func (c FailureClass) String() string {
	switch c {
	case FailureRateLimited:
		return "rate-limited"
	case FailureUnavailable:
		return "unavailable"
	default:
		return "error"
	}
}

// Retryable reports whether this failure class advances the fallback list.
func (c FailureClass) Retryable() bool {
	return c == FailureRateLimited || c == FailureUnavailable
}

// ModelError records one failed attempt against one model.
type ModelError struct {
	Model string
	Class FailureClass
	Cause error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model %s (%s): %v", e.Model, e.Class, e.Cause)
}

func (e *ModelError) Unwrap() error { return e.Cause }

// AllModelsExhaustedError reports that every model in the fallback list
// rejected the request for quota or availability reasons.
type AllModelsExhaustedError struct {
	Attempts []*ModelError
}

func (e *AllModelsExhaustedError) Error() string {
	var b strings.Builder
	b.WriteString("all models exhausted:")
	for _, a := range e.Attempts {
		fmt.Fprintf(&b, "\n  [%s] %s", a.Class, a.Model)
	}
	return b.String()
}

// RecommendationError reports a non-retryable failure of a generative-AI
// call, carrying the underlying cause.
type RecommendationError struct {
	Model string
	Cause error
}

func (e *RecommendationError) Error() string {
	return fmt.Sprintf("recommendation failed on model %s: %v", e.Model, e.Cause)
}

func (e *RecommendationError) Unwrap() error { return e.Cause }
