package optimizer

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// DefaultModel is tried first unless the caller prefers another one.
const DefaultModel = "gemini-2.5-flash"

// DefaultModels is the built-in model fallback list, in priority order.
var DefaultModels = []string{
	"gemini-2.5-flash",
	"gemini-2.5-flash-lite",
	"gemini-2.5-pro",
	"gemini-flash-latest",
}

// RecommendationResult is the outcome of one recommendation run. It is
// owned by the session; writing it to a file is an explicit user action
// outside the pipeline.
type RecommendationResult struct {
	RawText   string
	ModelUsed string
	Timestamp time.Time
}

// Engine queries a text-generation model for a buy/sell/hold recommendation
// under a strict output-format contract, retrying across a prioritized list
// of model identifiers on transient failure.
type Engine struct {
	gen Generator
}

func NewEngine(g Generator) *Engine {
	return &Engine{gen: g}
}

// Recommend serializes the report and attempts the call with preferredModel,
// then with each model of priority in turn (skipping preferredModel if it
// appears there).
//
// Only failures classified as rate-limited or model-unavailable advance the
// list; any other failure returns a *RecommendationError immediately.
// Exhausting the list returns an *AllModelsExhaustedError carrying the
// per-model causes.
//
// "Rethink" is this same call issued again with the same report: no market
// data is re-fetched.
func (e *Engine) Recommend(ctx context.Context, report *SituationReport, preferredModel string, priority []string) (*RecommendationResult, error) {
	prompt := report.Prompt()
	instruction := systemInstruction(report)

	var attempts []*ModelError
	for _, model := range fallbackOrder(preferredModel, priority) {
		text, err := e.gen.Generate(ctx, model, instruction, prompt)
		if err == nil {
			return &RecommendationResult{
				RawText:   text,
				ModelUsed: model,
				Timestamp: time.Now(),
			}, nil
		}

		class := e.gen.Classify(err)
		if !class.Retryable() {
			return nil, &RecommendationError{Model: model, Cause: err}
		}
		log.Printf("model %s rejected the request (%s), trying next", model, class)
		attempts = append(attempts, &ModelError{Model: model, Class: class, Cause: err})
	}
	return nil, &AllModelsExhaustedError{Attempts: attempts}
}

// fallbackOrder returns preferred followed by the priority list without
// duplicates.
func fallbackOrder(preferred string, priority []string) []string {
	models := []string{preferred}
	for _, m := range priority {
		if m != preferred {
			models = append(models, m)
		}
	}
	return models
}

// systemInstruction builds the fixed instruction enforcing the three labeled
// sections in order: SELL, BUY, HOLD.
func systemInstruction(r *SituationReport) string {
	p := r.Preferences
	var b strings.Builder

	b.WriteString("You are a financial analyst. ")
	fmt.Fprintf(&b, "The investor's risk profile is %s. ", p.RiskProfile)
	if len(p.TargetCountries) > 0 {
		fmt.Fprintf(&b, "Prefer assets listed or headquartered in: %s. ", strings.Join(p.TargetCountries, ", "))
	}
	if len(p.AssetTypes) > 0 {
		fmt.Fprintf(&b, "Restrict suggestions to these asset types: %s. ", strings.Join(p.AssetTypes, ", "))
	}
	b.WriteString("Use ONLY the signals SELL, BUY, and HOLD - never 'add', 'reduce', or any other word. ")
	b.WriteString("Be balanced: default to HOLD unless there is a concrete, specific reason to act. ")
	b.WriteString("If you recommend a SELL, you must pair it with a BUY for the proceeds. ")

	if p.SuggestNewAssets && r.Held() > 0 {
		b.WriteString("Also suggest 2-3 NEW assets not currently held that fit the target industries and can be purchased within the stated budget, each with ticker and one-line rationale. ")
	} else if r.Held() == 0 {
		b.WriteString("The portfolio is empty - suggest 3-5 starter positions that fit the target industries and can be purchased within the stated budget, each with ticker and one-line rationale. ")
	}

	b.WriteString("End your response with exactly this block, in this order: a SELL section, then a BUY section, then a HOLD section. ")
	b.WriteString("Each SELL and BUY line must be a ticker followed by ' - ' and a one-line reason. HOLD lines have no reason. ")
	b.WriteString("Use the full company name exactly as in the holdings data.\n\n")
	b.WriteString("MY RECOMMENDATION\n")
	b.WriteString("-----------------\n")
	b.WriteString("SELL\nSell X share(s) of Full Company Name (TICKER) - reason\n")
	b.WriteString("BUY\nBuy X share(s) of Full Company Name (TICKER) - reason\n")
	b.WriteString("HOLD\nHold Full Company Name (TICKER)\n\n")
	b.WriteString("[One concise paragraph: overall strategic rationale and key risk]\n\n")
	b.WriteString("No introductions, no disclaimers, no fluff. ")
	b.WriteString("Target industries are a soft preference. ")
	fmt.Fprintf(&b, "All prices in %s.", r.BaseCurrency)

	return b.String()
}
