package renderer

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	optimizer "github.com/MattiasMilger/AI-Portfolio-Optimizer"
)

func usd(v float64) optimizer.Money { return optimizer.M(v, "USD") }

func testReport() *optimizer.SituationReport {
	return &optimizer.SituationReport{
		Positions: optimizer.Positions{
			{
				Position:          optimizer.Position{Ticker: "AAPL", Quantity: optimizer.Q(10), AvgCost: usd(150)},
				Name:              "Apple Inc.",
				CurrentPrice:      usd(180),
				MarketValueBase:   usd(1800),
				CostValueBase:     usd(1500),
				UnrealizedPnLBase: usd(300),
				FxRateApplied:     decimal.NewFromInt(1),
			},
			{
				Position: optimizer.Position{Ticker: "NOSUCH", Quantity: optimizer.Q(1), AvgCost: usd(1)},
				Err:      errors.New("no data for ticker"),
			},
		},
		BaseCurrency: "USD",
		TotalValue:   usd(1800),
		TotalPnL:     usd(300),
	}
}

func TestReportMarkdown(t *testing.T) {
	md := ReportMarkdown(testReport())

	for _, want := range []string{
		"# Portfolio (USD)",
		"| AAPL | Apple Inc. |",
		"| **Total** |",
		"## Not enriched",
		"* NOSUCH: no data for ticker",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q:\n%s", want, md)
		}
	}
	// failed positions never appear in the holdings table
	if strings.Contains(md, "| NOSUCH |") {
		t.Errorf("failed position rendered in the table:\n%s", md)
	}
}

func TestReportMarkdownAllEnriched(t *testing.T) {
	r := testReport()
	r.Positions = r.Positions[:1]
	md := ReportMarkdown(r)
	if strings.Contains(md, "Not enriched") {
		t.Errorf("empty failure section rendered:\n%s", md)
	}
}

func TestScanMarkdown(t *testing.T) {
	s := &optimizer.ScanResult{
		Positions: []optimizer.Position{
			{Ticker: "ERIC-B.ST", Quantity: optimizer.Q(20), AvgCost: optimizer.M(90, "SEK")},
		},
		Rejected: []optimizer.Rejection{
			{Ticker: "FOO.XX", Reason: "unrecognized exchange suffix"},
		},
		ModelUsed: "gemini-2.5-flash",
	}
	md := ScanMarkdown(s)
	for _, want := range []string{
		"| ERIC-B.ST | 20 | 90 | SEK |",
		"## Rejected entries",
		"* FOO.XX: unrecognized exchange suffix",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("scan report missing %q:\n%s", want, md)
		}
	}
}

func TestScanMarkdownEmpty(t *testing.T) {
	md := ScanMarkdown(&optimizer.ScanResult{ModelUsed: "gemini-2.5-flash"})
	if !strings.Contains(md, "No positions recognized.") {
		t.Errorf("empty scan report:\n%s", md)
	}
	if strings.Contains(md, "Rejected entries") {
		t.Errorf("empty rejection section rendered:\n%s", md)
	}
}

func TestRecommendationMarkdownFallbackNote(t *testing.T) {
	res := &optimizer.RecommendationResult{
		RawText:   "MY RECOMMENDATION",
		ModelUsed: "gemini-2.5-pro",
		Timestamp: time.Now(),
	}

	md := RecommendationMarkdown(res, "gemini-2.5-flash")
	if !strings.Contains(md, "_Fallback model used: gemini-2.5-pro_") {
		t.Errorf("fallback note missing:\n%s", md)
	}

	md = RecommendationMarkdown(res, "gemini-2.5-pro")
	if strings.Contains(md, "Fallback model used") {
		t.Errorf("fallback note rendered for the preferred model:\n%s", md)
	}
}
