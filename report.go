package optimizer

import (
	"fmt"
	"strings"
)

// RiskProfile is the investor's declared risk appetite.
type RiskProfile string

const (
	Conservative RiskProfile = "Conservative"
	Moderate     RiskProfile = "Moderate"
	Aggressive   RiskProfile = "Aggressive"
)

// ParseRiskProfile parses a case-insensitive risk profile name.
func ParseRiskProfile(s string) (RiskProfile, error) {
	switch strings.ToLower(s) {
	case "conservative":
		return Conservative, nil
	case "moderate":
		return Moderate, nil
	case "aggressive":
		return Aggressive, nil
	}
	return "", fmt.Errorf("unknown risk profile %q (want conservative, moderate or aggressive)", s)
}

// Preferences are the user-supplied optimization inputs. They may come
// pre-populated from an external store; the pipeline treats them as plain
// input sets.
type Preferences struct {
	CashBudget       Money // additional cash available for new purchases
	RiskProfile      RiskProfile
	TargetIndustries []string
	TargetCountries  []string
	AssetTypes       []string // e.g. "stocks", "ETFs", "funds"
	SuggestNewAssets bool
}

// SituationReport is the complete, currency-normalized snapshot submitted to
// the recommendation step. It is built fresh for every recommendation run
// and never persisted.
type SituationReport struct {
	Positions    Positions
	BaseCurrency string
	TotalValue   Money
	TotalPnL     Money
	Preferences  Preferences
}

// NewSituationReport assembles a report from an enrichment pass and the
// user's preferences.
func NewSituationReport(e *Enrichment, prefs Preferences) *SituationReport {
	return &SituationReport{
		Positions:    e.Positions,
		BaseCurrency: e.BaseCurrency,
		TotalValue:   e.TotalValue,
		TotalPnL:     e.TotalPnL,
		Preferences:  prefs,
	}
}

// Held reports the number of successfully enriched positions.
func (r *SituationReport) Held() int {
	n := 0
	for _, p := range r.Positions {
		if p.OK() {
			n++
		}
	}
	return n
}

// Prompt serializes the report into the structured prompt submitted to the
// text model.
func (r *SituationReport) Prompt() string {
	var b strings.Builder

	fmt.Fprintln(&b, "PORTFOLIO SNAPSHOT")
	fmt.Fprintln(&b, "==================")
	fmt.Fprintf(&b, "Risk Profile      : %s\n", r.Preferences.RiskProfile)
	fmt.Fprintf(&b, "Target Industries : %s\n", orNone(r.Preferences.TargetIndustries))
	fmt.Fprintf(&b, "Target Countries  : %s\n", orNone(r.Preferences.TargetCountries))
	fmt.Fprintf(&b, "Asset Types       : %s\n", orNone(r.Preferences.AssetTypes))
	fmt.Fprintf(&b, "Base Currency     : %s\n", r.BaseCurrency)
	fmt.Fprintln(&b)

	fmt.Fprintf(&b, "CURRENT HOLDINGS (%d position(s)):\n", r.Held())
	if r.Held() == 0 {
		fmt.Fprintln(&b, "  (No current holdings - fresh start)")
	}
	for _, p := range r.Positions {
		if !p.OK() {
			continue
		}
		name := p.Name
		if name == "" {
			name = p.Ticker
		}
		fmt.Fprintf(&b, "  - %s (%s)  qty=%s  avg_cost=%s %s  price=%s %s  value=%s %s  P/L=%s%% (%s %s)\n",
			name, p.Ticker,
			p.Quantity,
			p.AvgCost.Value(), p.Currency(),
			p.CurrentPrice.Value(), p.CurrentPrice.Currency(),
			p.MarketValueBase.Value().Round(2), r.BaseCurrency,
			p.PnLPercent().Round(2),
			p.UnrealizedPnLBase.Value().Round(2), r.BaseCurrency,
		)
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "SUMMARY:")
	fmt.Fprintf(&b, "  Total Portfolio Value : %s %s\n", r.TotalValue.Value().Round(2), r.BaseCurrency)
	fmt.Fprintf(&b, "  Total Unrealised P/L  : %s %s\n", r.TotalPnL.Value().Round(2), r.BaseCurrency)
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "BUDGET:")
	if r.Preferences.CashBudget.IsPositive() {
		fmt.Fprintf(&b, "  Additional cash budget: %s %s (available for new purchases)\n",
			r.Preferences.CashBudget.Value().Round(2), r.BaseCurrency)
	} else {
		fmt.Fprintln(&b, "  Additional cash budget: none (rebalance within existing holdings only)")
	}

	return strings.TrimSpace(b.String())
}

func orNone(set []string) string {
	if len(set) == 0 {
		return "No preference"
	}
	return strings.Join(set, ", ")
}
