// Package yahoo resolves last-close prices, trading currencies and FX rates
// from Yahoo Finance. Quotes go through the finance-go client; when a quote
// carries no usable price the chart endpoint is queried directly as a
// fallback. FX pairs use Yahoo's "FROMTO=X" symbols.
package yahoo

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"

	optimizer "github.com/MattiasMilger/AI-Portfolio-Optimizer"
)

// Provider implements optimizer.Quoter and optimizer.RateSource.
type Provider struct {
	client *http.Client // chart endpoint fallback
}

func New() *Provider {
	return &Provider{client: &http.Client{Timeout: 20 * time.Second}}
}

// Quote fetches the last available price and trading currency for a ticker.
func (p *Provider) Quote(ctx context.Context, ticker string) (optimizer.Quote, error) {
	q, err := p.getQuote(ctx, ticker)
	if err == nil && q != nil && q.RegularMarketPrice > 0 {
		return optimizer.Quote{
			Ticker: ticker,
			Name:   q.ShortName,
			Price:  optimizer.M(q.RegularMarketPrice, q.CurrencyID),
		}, nil
	}
	if err != nil {
		log.Printf("quote %s failed (%v), falling back to chart endpoint", ticker, err)
	}

	// The quote API returns nothing useful for some funds and thin
	// listings that the chart endpoint still covers.
	price, currency, name, chartErr := p.chartClose(ctx, ticker)
	if chartErr != nil {
		if err == nil {
			err = chartErr
		}
		return optimizer.Quote{}, &optimizer.DataUnavailableError{Ticker: ticker, Cause: err}
	}
	return optimizer.Quote{
		Ticker: ticker,
		Name:   name,
		Price:  optimizer.M(price, currency),
	}, nil
}

// Rate fetches the direct FX pair "FROMTO=X". The inverse fallback is the
// caller's job.
func (p *Provider) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	symbol := from + to + "=X"
	q, err := p.getQuote(ctx, symbol)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetching %s: %w", symbol, err)
	}
	if q == nil || q.RegularMarketPrice <= 0 {
		return decimal.Zero, fmt.Errorf("pair %s returned no rate", symbol)
	}
	return decimal.NewFromFloat(q.RegularMarketPrice), nil
}

// getQuote bounds the finance-go call with the context: the library itself
// has no deadline support, so the call runs on its own goroutine and the
// result is abandoned on cancellation.
func (p *Provider) getQuote(ctx context.Context, symbol string) (*finance.Quote, error) {
	type result struct {
		q   *finance.Quote
		err error
	}
	ch := make(chan result, 1)
	go func() {
		q, err := quote.Get(symbol)
		ch <- result{q, err}
	}()
	select {
	case r := <-ch:
		return r.q, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
