package optimizer

import (
	"context"

	"github.com/shopspring/decimal"
)

// Quote holds the data returned by a market data provider for one ticker.
type Quote struct {
	Ticker string
	Name   string // company short name, "" when the provider has none
	Price  Money  // last available close price, in the trading currency
}

// Quoter resolves last-close prices for exchange-suffixed tickers.
// Implementations return *DataUnavailableError when the ticker resolves to
// no data; that is a normal outcome, not a crash.
type Quoter interface {
	Quote(ctx context.Context, ticker string) (Quote, error)
}

// RateSource resolves the rate of a single currency pair: how many 'to'
// units equal one 'from' unit. It looks up the direct pair only; the
// inverse-pair fallback and caching are the Fetcher's job.
type RateSource interface {
	Rate(ctx context.Context, from, to string) (decimal.Decimal, error)
}

// Generator is the generative-AI backend the pipeline talks to.
//
// Classify maps an error returned by Generate or GenerateVision to a
// FailureClass so the fallback loop can decide whether to advance to the
// next model.
type Generator interface {
	Generate(ctx context.Context, model, systemInstruction, prompt string) (string, error)
	GenerateVision(ctx context.Context, model, instruction string, image []byte, mimeType string) (string, error)
	Classify(err error) FailureClass
}
