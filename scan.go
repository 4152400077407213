package optimizer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Extractor turns a portfolio screenshot into validated positions through a
// multimodal model. The model's output is an untrusted external format:
// entries are validated strictly and rejected with a reason, never coerced.
type Extractor struct {
	gen Generator
}

func NewExtractor(g Generator) *Extractor {
	return &Extractor{gen: g}
}

// Rejection reports one extracted entry that failed validation.
type Rejection struct {
	Ticker string // "" when the entry had no ticker at all
	Reason string
}

func (r Rejection) String() string {
	if r.Ticker == "" {
		return r.Reason
	}
	return fmt.Sprintf("%s: %s", r.Ticker, r.Reason)
}

// ScanResult is the outcome of one scan: validated positions plus the
// entries that were rejected, each with its reason.
type ScanResult struct {
	Positions []Position
	Rejected  []Rejection
	RawText   string // raw model output, for the user to inspect
	ModelUsed string
}

// scanEntry is the wire shape the extraction instruction demands.
type scanEntry struct {
	Ticker      string      `json:"ticker"`
	Quantity    json.Number `json:"quantity"`
	AvgBuyPrice json.Number `json:"avg_buy_price"`
	Currency    string      `json:"original_currency"`
	AltCurrency string      `json:"currency"` // models sometimes use this key instead
}

var fenceRe = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")

// Scan sends the image and the fixed extraction instruction to the
// multimodal model, trying preferredModel first and falling back across
// priority on rate-limit/availability rejections, exactly like the
// recommendation call.
//
// A response that cannot be parsed or validated fails with a
// *MalformedExtractionError; it aborts only the scan, the caller's session
// positions are untouched.
func (x *Extractor) Scan(ctx context.Context, image []byte, mimeType string, preferredModel string, priority []string) (*ScanResult, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("scan: empty image")
	}

	var attempts []*ModelError
	for _, model := range fallbackOrder(preferredModel, priority) {
		raw, err := x.gen.GenerateVision(ctx, model, scanInstruction(), image, mimeType)
		if err != nil {
			class := x.gen.Classify(err)
			if !class.Retryable() {
				return nil, fmt.Errorf("scan with model %s: %w", model, err)
			}
			log.Printf("model %s rejected the scan (%s), trying next", model, class)
			attempts = append(attempts, &ModelError{Model: model, Class: class, Cause: err})
			continue
		}

		result, err := parseScan(raw)
		if err != nil {
			return nil, err
		}
		result.ModelUsed = model
		return result, nil
	}
	return nil, &AllModelsExhaustedError{Attempts: attempts}
}

// parseScan parses and validates the model output. This is a single
// request/response contract: no streaming, no partial results.
func parseScan(raw string) (*ScanResult, error) {
	text := strings.TrimSpace(raw)
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}

	var entries []scanEntry
	if err := json.Unmarshal([]byte(text), &entries); err != nil {
		return nil, &MalformedExtractionError{
			Reason: "response is not a JSON array of {ticker, quantity, avg_buy_price} objects",
			Raw:    raw,
			Cause:  err,
		}
	}

	result := &ScanResult{RawText: raw}
	for _, entry := range entries {
		ticker := strings.ToUpper(strings.TrimSpace(entry.Ticker))
		if ticker == "" {
			result.Rejected = append(result.Rejected, Rejection{Reason: "entry without a ticker"})
			continue
		}
		if err := ValidateTicker(ticker); err != nil {
			// the model chose the suffix; an unknown one is flagged,
			// not silently dropped or stripped
			result.Rejected = append(result.Rejected, Rejection{Ticker: ticker, Reason: err.Error()})
			continue
		}

		qty, err := nonNegative(entry.Quantity, "quantity")
		if err != nil {
			result.Rejected = append(result.Rejected, Rejection{Ticker: ticker, Reason: err.Error()})
			continue
		}
		cost, err := nonNegative(entry.AvgBuyPrice, "avg_buy_price")
		if err != nil {
			result.Rejected = append(result.Rejected, Rejection{Ticker: ticker, Reason: err.Error()})
			continue
		}

		currency := strings.ToUpper(strings.TrimSpace(entry.Currency))
		if currency == "" {
			currency = strings.ToUpper(strings.TrimSpace(entry.AltCurrency))
		}
		if currency == "" {
			currency = InferCurrency(ticker)
		}
		if err := ValidateCurrency(currency); err != nil {
			result.Rejected = append(result.Rejected, Rejection{Ticker: ticker, Reason: err.Error()})
			continue
		}

		result.Positions = append(result.Positions, Position{
			Ticker:   ticker,
			Quantity: Q(qty),
			AvgCost:  M(cost, currency),
		})
	}
	return result, nil
}

func nonNegative(n json.Number, field string) (decimal.Decimal, error) {
	if n.String() == "" {
		return decimal.Zero, fmt.Errorf("missing %s", field)
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s %q is not a number", field, n.String())
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s %s is negative", field, d)
	}
	return d, nil
}

// scanInstruction builds the fixed extraction instruction, including the
// exchange-suffix rules derived from the Markets table.
func scanInstruction() string {
	var b strings.Builder
	b.WriteString("Extract every stock / ETF / fund position visible in this portfolio screenshot. ")
	b.WriteString("Return ONLY a valid JSON array - no markdown, no explanation. ")
	b.WriteString("Each element must have exactly these keys:\n")
	b.WriteString("  \"ticker\"            : string - the full ticker including exchange suffix (see rules below)\n")
	b.WriteString("  \"quantity\"          : number - shares / units held\n")
	b.WriteString("  \"avg_buy_price\"     : number - average purchase price\n")
	b.WriteString("  \"original_currency\" : string - 3-letter currency code (e.g. \"USD\", \"SEK\")\n")
	b.WriteString("Use null for any field you cannot determine with confidence.\n\n")
	b.WriteString("CRITICAL - ticker exchange suffix rules:\n")
	b.WriteString("First, identify the market/exchange from the screenshot context (currency, broker name, flag, country label).\n")
	b.WriteString("Then append the correct suffix:\n")
	for _, m := range Markets {
		if m.Suffix == "" {
			fmt.Fprintf(&b, "  %s (%s): no suffix, e.g. AAPL, MSFT\n", m.Name, m.Currency)
			continue
		}
		fmt.Fprintf(&b, "  %s (%s): %s\n", m.Name, m.Currency, m.Suffix)
	}
	b.WriteString("If the screenshot mixes markets, infer per-position from its currency or any visible exchange label.\n")
	b.WriteString("If truly uncertain, use no suffix but prefer making an educated guess over returning a bare symbol.")
	return b.String()
}
