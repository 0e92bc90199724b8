package coingecko

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/etnz/cryptofolio"
)

// DefaultTTL is how long a fetched set of quotes stays fresh.
const DefaultTTL = 60 * time.Second

// QuoteCache serves USD quotes for a universe of tickers, refreshing the
// whole universe at once when the cached set is older than the TTL.
//
// A failed refresh leaves the previous quotes untouched and surfaces the
// error; callers keep being served the last good set until the next
// successful refresh. A cold cache whose first fetch fails is a hard error.
//
// The cache is safe for concurrent use: callers serialize on refresh-or-read.
// Concurrent refreshes are only prevented by that mutual exclusion, there is
// no single-flight deduplication (not needed for correctness).
type QuoteCache struct {
	client *Client
	table  *Table
	ttl    time.Duration
	now    func() time.Time // injected clock for tests

	mu          sync.Mutex
	universe    map[string]struct{}
	quotes      map[string]cryptofolio.Quantity // by ticker
	lastUpdated time.Time
}

// NewQuoteCache creates a cache over the given client and ticker table, with
// an initial universe of tickers to quote.
func NewQuoteCache(client *Client, table *Table, universe ...string) *QuoteCache {
	c := &QuoteCache{
		client:   client,
		table:    table,
		ttl:      DefaultTTL,
		now:      time.Now,
		universe: make(map[string]struct{}, len(universe)),
	}
	for _, t := range universe {
		c.universe[cryptofolio.Normalize(t)] = struct{}{}
	}
	return c
}

// GetUSDQuotes returns the current USD price for each ticker. The returned
// map is a snapshot; the caller owns it.
func (c *QuoteCache) GetUSDQuotes(tickers []string) (map[string]cryptofolio.Quantity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stale := c.quotes == nil || c.now().Sub(c.lastUpdated) >= c.ttl
	for _, t := range tickers {
		n := cryptofolio.Normalize(t)
		if _, ok := c.universe[n]; !ok {
			c.universe[n] = struct{}{}
			stale = true // the cached set does not cover this ticker yet
		}
	}
	if stale {
		if err := c.refreshLocked(); err != nil {
			if c.quotes == nil {
				return nil, err
			}
			return nil, fmt.Errorf("quote refresh failed (previous quotes kept): %w", err)
		}
	}

	out := make(map[string]cryptofolio.Quantity, len(tickers))
	for _, t := range tickers {
		n := cryptofolio.Normalize(t)
		q, ok := c.quotes[n]
		if !ok {
			return nil, &cryptofolio.MissingQuoteError{Ticker: n}
		}
		out[n] = q
	}
	return out, nil
}

// refreshLocked replaces the cached map with a freshly fetched one for the
// whole universe. All-or-nothing: on any error the previous map stays.
func (c *QuoteCache) refreshLocked() error {
	tickers := make([]string, 0, len(c.universe))
	for t := range c.universe {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	ids, err := c.table.Resolve(tickers)
	if err != nil {
		return err
	}
	prices, err := c.client.SimpleUSDPrice(ids)
	if err != nil {
		return err
	}

	// translate ids back to tickers; Resolve preserved the order.
	fresh := make(map[string]cryptofolio.Quantity, len(tickers))
	for i, ticker := range tickers {
		q, ok := prices[ids[i]]
		if !ok {
			return fmt.Errorf("provider returned no price for %s (%s)", ticker, ids[i])
		}
		fresh[ticker] = q
	}

	c.quotes = fresh
	c.lastUpdated = c.now()
	return nil
}
