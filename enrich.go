package optimizer

import (
	"context"
	"log"
	"strings"
	"sync"
)

// defaultParallelism bounds the number of concurrent price fetches in one
// enrichment pass.
const defaultParallelism = 4

// Enrichment is the outcome of one enrichment pass: enriched positions in
// input order, plus aggregate totals over the successfully enriched ones.
type Enrichment struct {
	Positions    Positions
	BaseCurrency string
	TotalValue   Money
	TotalPnL     Money
}

// Positions is an ordered list of enriched positions.
type Positions []EnrichedPosition

// Failed returns the positions that could not be enriched.
func (ps Positions) Failed() Positions {
	var failed Positions
	for _, p := range ps {
		if !p.OK() {
			failed = append(failed, p)
		}
	}
	return failed
}

// Enricher augments raw positions with live market data, normalized to a
// base currency.
type Enricher struct {
	fetcher *Fetcher

	// Parallelism bounds concurrent price fetches; 0 means the default.
	// FX fetches need no bound of their own: the rate cache collapses
	// concurrent requests for the same pair into one call.
	Parallelism int
}

func NewEnricher(f *Fetcher) *Enricher {
	return &Enricher{fetcher: f}
}

// Enrich fetches current prices and FX rates for every position and converts
// values to baseCurrency.
//
// A failing ticker never aborts the batch: the position is returned in place
// with its error reason, and excluded from the totals. Output order matches
// input order. The only whole-batch error is context cancellation.
func (e *Enricher) Enrich(ctx context.Context, positions []Position, baseCurrency string) (*Enrichment, error) {
	baseCurrency = strings.ToUpper(baseCurrency)
	if err := ValidateCurrency(baseCurrency); err != nil {
		return nil, err
	}

	parallelism := e.Parallelism
	if parallelism <= 0 {
		parallelism = defaultParallelism
	}

	enriched := make(Positions, len(positions))
	sem := make(chan struct{}, parallelism)
	var wg sync.WaitGroup
	for i, pos := range positions {
		wg.Add(1)
		go func(i int, pos Position) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			enriched[i] = e.enrichOne(ctx, pos, baseCurrency)
		}(i, pos)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	total := M(0, baseCurrency)
	pnl := M(0, baseCurrency)
	for _, p := range enriched {
		if !p.OK() {
			log.Printf("position %s excluded from totals: %v", p.Ticker, p.Err)
			continue
		}
		total = total.Add(p.MarketValueBase)
		pnl = pnl.Add(p.UnrealizedPnLBase)
	}

	return &Enrichment{
		Positions:    enriched,
		BaseCurrency: baseCurrency,
		TotalValue:   total,
		TotalPnL:     pnl,
	}, nil
}

func (e *Enricher) enrichOne(ctx context.Context, pos Position, baseCurrency string) EnrichedPosition {
	pos.Ticker = strings.ToUpper(pos.Ticker)
	ep := EnrichedPosition{Position: pos}

	if err := pos.Validate(); err != nil {
		ep.Err = &DataUnavailableError{Ticker: pos.Ticker, Cause: err}
		return ep
	}

	quote, err := e.fetcher.Price(ctx, pos.Ticker)
	if err != nil {
		ep.Err = err
		return ep
	}
	ep.Name = quote.Name
	ep.CurrentPrice = quote.Price

	native := quote.Price.Currency()
	rate, err := e.fetcher.FxRate(ctx, native, baseCurrency)
	if err != nil {
		ep.Err = err
		return ep
	}
	ep.FxRateApplied = rate

	// avg cost is assumed to be already in the native currency
	avgCost := M(pos.AvgCost.Value(), native)
	ep.MarketValueBase = quote.Price.Mul(pos.Quantity).Convert(rate, baseCurrency)
	ep.CostValueBase = avgCost.Mul(pos.Quantity).Convert(rate, baseCurrency)
	ep.UnrealizedPnLBase = ep.MarketValueBase.Sub(ep.CostValueBase)
	return ep
}
