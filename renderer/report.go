package renderer

import (
	"fmt"
	"io"
	"strings"

	optimizer "github.com/MattiasMilger/AI-Portfolio-Optimizer"
)

// ReportMarkdown renders the currency-normalized holdings table, the totals,
// and an itemized section for positions that could not be enriched.
func ReportMarkdown(r *optimizer.SituationReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Portfolio (%s)\n\n", r.BaseCurrency)

	fmt.Fprintln(&b, "| Ticker | Name | Qty | Price | Value | P/L | P/L % | FX |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|---:|---:|")
	for _, p := range r.Positions {
		if !p.OK() {
			continue
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s%% | %s |\n",
			p.Ticker,
			p.Name,
			p.Quantity,
			p.CurrentPrice,
			p.MarketValueBase,
			p.UnrealizedPnLBase.SignedString(),
			p.PnLPercent().Round(2),
			p.FxRateApplied,
		)
	}
	fmt.Fprintf(&b, "| **Total** | | | | %s | %s | | |\n\n", r.TotalValue, r.TotalPnL.SignedString())

	ConditionalBlock(&b, func(w io.Writer) bool {
		failed := r.Positions.Failed()
		if len(failed) == 0 {
			return false
		}
		fmt.Fprintf(w, "## Not enriched\n\n")
		for _, p := range failed {
			fmt.Fprintf(w, "* %s: %v\n", p.Ticker, p.Err)
		}
		fmt.Fprintln(w)
		return true
	})

	return b.String()
}

// ScanMarkdown renders the positions extracted from a screenshot and the
// entries that were rejected, each with its reason.
func ScanMarkdown(s *optimizer.ScanResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Scanned positions (model %s)\n\n", s.ModelUsed)
	if len(s.Positions) == 0 {
		fmt.Fprintln(&b, "No positions recognized.")
		fmt.Fprintln(&b)
	} else {
		fmt.Fprintln(&b, "| Ticker | Qty | Avg Cost | Currency |")
		fmt.Fprintln(&b, "|:---|---:|---:|:---|")
		for _, p := range s.Positions {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", p.Ticker, p.Quantity, p.AvgCost.Value(), p.Currency())
		}
		fmt.Fprintln(&b)
	}

	ConditionalBlock(&b, func(w io.Writer) bool {
		if len(s.Rejected) == 0 {
			return false
		}
		fmt.Fprintf(w, "## Rejected entries\n\n")
		for _, rej := range s.Rejected {
			fmt.Fprintf(w, "* %s\n", rej)
		}
		fmt.Fprintln(w)
		return true
	})

	return b.String()
}

// RecommendationMarkdown renders the model's recommendation, noting the
// fallback when the preferred model was not the one that answered.
func RecommendationMarkdown(res *optimizer.RecommendationResult, preferredModel string) string {
	var b strings.Builder
	b.WriteString(res.RawText)
	b.WriteString("\n")
	if res.ModelUsed != preferredModel {
		fmt.Fprintf(&b, "\n---\n_Fallback model used: %s_\n", res.ModelUsed)
	}
	return b.String()
}
