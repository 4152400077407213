package optimizer

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// SEK is a helper for test to create sek money from const
func SEK(v float64) Money { return M(v, "SEK") }

// NO is a helper for test to create money with no currency set
func NO(v float64) Money { return M(v, "") }

// fakeQuoter serves canned quotes and counts lookups per ticker.
type fakeQuoter struct {
	mu     sync.Mutex
	quotes map[string]Quote
	calls  map[string]int
}

func newFakeQuoter(quotes ...Quote) *fakeQuoter {
	f := &fakeQuoter{quotes: make(map[string]Quote), calls: make(map[string]int)}
	for _, q := range quotes {
		f.quotes[q.Ticker] = q
	}
	return f
}

func (f *fakeQuoter) Quote(_ context.Context, ticker string) (Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[ticker]++
	q, ok := f.quotes[ticker]
	if !ok {
		return Quote{}, &DataUnavailableError{Ticker: ticker}
	}
	return q, nil
}

// fakeRates serves direct-pair rates and counts lookups per pair.
type fakeRates struct {
	mu    sync.Mutex
	rates map[string]decimal.Decimal // key: FROM+TO
	calls map[string]int
	block chan struct{} // when set, Rate waits for it before answering
}

func newFakeRates() *fakeRates {
	return &fakeRates{rates: make(map[string]decimal.Decimal), calls: make(map[string]int)}
}

func (f *fakeRates) set(from, to string, rate float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rates[from+to] = decimal.NewFromFloat(rate)
}

func (f *fakeRates) Rate(_ context.Context, from, to string) (decimal.Decimal, error) {
	f.mu.Lock()
	f.calls[from+to]++
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rates[from+to]
	if !ok {
		return decimal.Zero, fmt.Errorf("pair %s%s=X returned no rate", from, to)
	}
	return r, nil
}

func (f *fakeRates) callCount(from, to string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[from+to]
}

// classedError is an error pre-classified for the fallback decision.
type classedError struct {
	class FailureClass
}

func (e *classedError) Error() string { return "fake " + e.class.String() }

// fakeGenerator scripts per-model responses or failures, and records the
// order in which models were tried.
type fakeGenerator struct {
	mu        sync.Mutex
	responses map[string]string       // model -> returned text
	failures  map[string]FailureClass // model -> failure class
	tried     []string
	release   chan struct{} // when set, calls wait for it before answering
}

func newFakeGenerator() *fakeGenerator {
	return &fakeGenerator{
		responses: make(map[string]string),
		failures:  make(map[string]FailureClass),
	}
}

func (f *fakeGenerator) generate(model string) (string, error) {
	f.mu.Lock()
	f.tried = append(f.tried, model)
	release := f.release
	f.mu.Unlock()
	if release != nil {
		<-release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if class, ok := f.failures[model]; ok {
		return "", &classedError{class: class}
	}
	if text, ok := f.responses[model]; ok {
		return text, nil
	}
	return "", &classedError{class: FailureOther}
}

func (f *fakeGenerator) Generate(_ context.Context, model, _, _ string) (string, error) {
	return f.generate(model)
}

func (f *fakeGenerator) GenerateVision(_ context.Context, model, _ string, _ []byte, _ string) (string, error) {
	return f.generate(model)
}

func (f *fakeGenerator) Classify(err error) FailureClass {
	if ce, ok := err.(*classedError); ok {
		return ce.class
	}
	return FailureOther
}

func (f *fakeGenerator) triedModels() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.tried...)
}
