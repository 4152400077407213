package optimizer

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Pair is an ordered currency pair.
type Pair struct {
	From, To string
}

func (p Pair) String() string { return p.From + p.To }

type rateEntry struct {
	rate      decimal.Decimal
	fetchedAt time.Time
	err       error
	ready     chan struct{} // closed when rate/err are set
}

// RateCache memoizes FX rates for the lifetime of a session. There is no
// eviction: sessions are short-lived and fully restarted on "Restart".
//
// Concurrent requests for the same pair are collapsed into a single fetch:
// the first caller runs the fetch, later callers wait on the same entry.
// A failed fetch is not cached, so the next request retries.
type RateCache struct {
	mu      sync.Mutex
	entries map[Pair]*rateEntry
}

func NewRateCache() *RateCache {
	return &RateCache{entries: make(map[Pair]*rateEntry)}
}

// Rate returns the cached rate for p, calling fetch on a miss. Only one
// fetch per pair is ever in flight.
func (c *RateCache) Rate(ctx context.Context, p Pair, fetch func(context.Context) (decimal.Decimal, error)) (decimal.Decimal, error) {
	c.mu.Lock()
	e, ok := c.entries[p]
	if !ok {
		e = &rateEntry{ready: make(chan struct{})}
		c.entries[p] = e
		c.mu.Unlock()

		e.rate, e.err = fetch(ctx)
		e.fetchedAt = time.Now()
		if e.err != nil {
			// drop the entry so a later call can retry
			c.mu.Lock()
			delete(c.entries, p)
			c.mu.Unlock()
		}
		close(e.ready)
		return e.rate, e.err
	}
	c.mu.Unlock()

	select {
	case <-e.ready:
		return e.rate, e.err
	case <-ctx.Done():
		return decimal.Zero, ctx.Err()
	}
}

// Cached returns the cached rate for p if a successful fetch happened.
func (c *RateCache) Cached(p Pair) (rate decimal.Decimal, fetchedAt time.Time, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, found := c.entries[p]
	if !found {
		return decimal.Zero, time.Time{}, false
	}
	select {
	case <-e.ready:
	default:
		return decimal.Zero, time.Time{}, false // fetch still in flight
	}
	if e.err != nil {
		return decimal.Zero, time.Time{}, false
	}
	return e.rate, e.fetchedAt, true
}

// Len returns the number of completed cache entries.
func (c *RateCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
