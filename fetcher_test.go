package optimizer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
)

func TestFxRateSameCurrency(t *testing.T) {
	rates := newFakeRates()
	f := NewFetcher(newFakeQuoter(), rates)

	rate, err := f.FxRate(context.Background(), "USD", "usd")
	if err != nil {
		t.Fatalf("FxRate(USD, USD) returned error: %v", err)
	}
	if !rate.Equal(decimal.NewFromInt(1)) {
		t.Errorf("FxRate(USD, USD) = %s, want 1", rate)
	}
	if got := rates.callCount("USD", "USD"); got != 0 {
		t.Errorf("same-currency lookup hit the network %d time(s), want 0", got)
	}
}

func TestFxRateIsCachedAfterFirstFetch(t *testing.T) {
	rates := newFakeRates()
	rates.set("SEK", "USD", 0.095)
	f := NewFetcher(newFakeQuoter(), rates)

	for i := 0; i < 5; i++ {
		rate, err := f.FxRate(context.Background(), "SEK", "USD")
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if !rate.Equal(decimal.NewFromFloat(0.095)) {
			t.Fatalf("call %d: rate = %s, want 0.095", i, rate)
		}
	}
	if got := rates.callCount("SEK", "USD"); got != 1 {
		t.Errorf("5 FxRate calls caused %d network call(s), want 1", got)
	}
}

func TestFxRateInverseFallback(t *testing.T) {
	rates := newFakeRates()
	rates.set("USD", "SEK", 10)
	f := NewFetcher(newFakeQuoter(), rates)

	rate, err := f.FxRate(context.Background(), "SEK", "USD")
	if err != nil {
		t.Fatalf("FxRate(SEK, USD) returned error: %v", err)
	}
	want := decimal.NewFromInt(1).Div(decimal.NewFromInt(10))
	if !rate.Equal(want) {
		t.Errorf("FxRate(SEK, USD) = %s, want %s (reciprocal of inverse)", rate, want)
	}

	// cached under the requested pair: the direct pair is not re-asked
	direct := rates.callCount("SEK", "USD")
	if _, err := f.FxRate(context.Background(), "SEK", "USD"); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if got := rates.callCount("SEK", "USD"); got != direct {
		t.Errorf("second call re-fetched the direct pair")
	}
}

func TestFxRateBothPairsFail(t *testing.T) {
	f := NewFetcher(newFakeQuoter(), newFakeRates())

	_, err := f.FxRate(context.Background(), "SEK", "USD")
	var fxErr *FxUnavailableError
	if !errors.As(err, &fxErr) {
		t.Fatalf("FxRate error = %v, want *FxUnavailableError", err)
	}
	if fxErr.From != "SEK" || fxErr.To != "USD" {
		t.Errorf("error pair = %s->%s, want SEK->USD", fxErr.From, fxErr.To)
	}
}

func TestFxRateFailureIsNotCached(t *testing.T) {
	rates := newFakeRates()
	f := NewFetcher(newFakeQuoter(), rates)

	if _, err := f.FxRate(context.Background(), "SEK", "USD"); err == nil {
		t.Fatal("expected a failure while no rate is known")
	}

	rates.set("SEK", "USD", 0.095)
	rate, err := f.FxRate(context.Background(), "SEK", "USD")
	if err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if !rate.Equal(decimal.NewFromFloat(0.095)) {
		t.Errorf("retry rate = %s, want 0.095", rate)
	}
}

func TestFxRateCollapsesConcurrentFetches(t *testing.T) {
	rates := newFakeRates()
	rates.set("SEK", "USD", 0.095)
	rates.block = make(chan struct{})
	f := NewFetcher(newFakeQuoter(), rates)

	const callers = 10
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.FxRate(context.Background(), "SEK", "USD")
		}(i)
	}
	close(rates.block)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("caller %d: %v", i, err)
		}
	}
	if got := rates.callCount("SEK", "USD"); got != 1 {
		t.Errorf("%d concurrent callers caused %d network call(s), want 1", callers, got)
	}
}
