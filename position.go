package optimizer

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Position is a raw holding as entered by the user or extracted from a
// screenshot: mutable only before enrichment.
type Position struct {
	Ticker   string
	Quantity Quantity
	AvgCost  Money // average purchase price per share, in the position's currency
}

// Currency returns the position's currency: the explicit one when set,
// otherwise the one implied by the ticker's exchange suffix.
func (p Position) Currency() string {
	if c := p.AvgCost.Currency(); c != "" {
		return c
	}
	return InferCurrency(p.Ticker)
}

// Validate checks that the position can be enriched at all.
func (p Position) Validate() error {
	if err := ValidateTicker(strings.ToUpper(p.Ticker)); err != nil {
		return err
	}
	if p.Quantity.IsNegative() {
		return fmt.Errorf("position %s: negative quantity %s", p.Ticker, p.Quantity)
	}
	if p.AvgCost.IsNegative() {
		return fmt.Errorf("position %s: negative average cost %s", p.Ticker, p.AvgCost)
	}
	if p.Currency() == "" {
		return fmt.Errorf("position %s: no currency and none inferable from the ticker", p.Ticker)
	}
	return ValidateCurrency(p.Currency())
}

// EnrichedPosition is a Position augmented with live market data, all
// monetary fields converted to the report's base currency. It is immutable
// once produced; "Rethink" reuses it, a new enrichment recomputes it.
//
// When Err is non-nil the position could not be enriched (no price data, or
// no FX rate); its monetary fields are zero and it is excluded from report
// totals but still listed with its error reason.
type EnrichedPosition struct {
	Position

	Name              string // company short name, when the provider has one
	CurrentPrice      Money  // in the trading currency
	MarketValueBase   Money
	CostValueBase     Money
	UnrealizedPnLBase Money
	FxRateApplied     decimal.Decimal

	Err error
}

// OK reports whether the position was enriched successfully.
func (e EnrichedPosition) OK() bool { return e.Err == nil }

// PnLPercent returns the unrealized P&L as a percentage of cost, zero when
// the cost basis is zero.
func (e EnrichedPosition) PnLPercent() decimal.Decimal {
	if e.CostValueBase.IsZero() {
		return decimal.Zero
	}
	return e.UnrealizedPnLBase.Value().Div(e.CostValueBase.Value()).Mul(decimal.NewFromInt(100))
}
