package optimizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// Fetcher resolves prices and FX rates from a market data provider, with
// session-level FX caching and an inverse-pair fallback.
type Fetcher struct {
	quoter Quoter
	rates  RateSource
	cache  *RateCache
}

func NewFetcher(q Quoter, r RateSource) *Fetcher {
	return &Fetcher{quoter: q, rates: r, cache: NewRateCache()}
}

// Cache exposes the session rate cache.
func (f *Fetcher) Cache() *RateCache { return f.cache }

// Price fetches the last available close price and trading currency for a
// ticker. It fails with *DataUnavailableError when the ticker resolves to
// no data.
func (f *Fetcher) Price(ctx context.Context, ticker string) (Quote, error) {
	return f.quoter.Quote(ctx, ticker)
}

// FxRate returns how many 'to' units equal one 'from' unit.
//
// Equal currencies return 1 without a network call. Otherwise the session
// cache is checked; on a miss the direct pair is requested, then the inverse
// pair inverted, and the result is cached under the requested pair (never
// the inverse) to keep lookups consistent. When both lookups fail the error
// is a *FxUnavailableError.
func (f *Fetcher) FxRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	if from == to {
		return one, nil
	}

	return f.cache.Rate(ctx, Pair{from, to}, func(ctx context.Context) (decimal.Decimal, error) {
		rate, directErr := f.rates.Rate(ctx, from, to)
		if directErr == nil {
			return rate, nil
		}

		inv, inverseErr := f.rates.Rate(ctx, to, from)
		if inverseErr == nil {
			if inv.IsZero() {
				inverseErr = fmt.Errorf("inverse pair %s%s returned a zero rate", to, from)
			} else {
				return one.Div(inv), nil
			}
		}
		return decimal.Zero, &FxUnavailableError{From: from, To: to, Direct: directErr, Inverse: inverseErr}
	})
}
