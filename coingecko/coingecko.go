// Package coingecko fetches live USD quotes from the CoinGecko API and
// caches them with a short time-to-live. The API is keyed by provider coin
// ids; the Table translates the portfolio's short tickers to ids and back.
package coingecko

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/cryptofolio"
)

// DefaultBaseURL is the public CoinGecko API root.
const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// Client is a CoinGecko API client. The zero value is not usable; use
// NewClient.
type Client struct {
	// BaseURL can be overridden for tests.
	BaseURL string

	live   *http.Client // plain client with a request timeout, for prices
	cached *http.Client // daily disk-cached client, for the coin list
}

// NewClient returns a client for the public API.
func NewClient() *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		live:    &http.Client{Timeout: 10 * time.Second},
		cached:  newDailyCachingClient(),
	}
}

// SimpleUSDPrice fetches the current USD price for every provider id, in one
// request. The response maps each id to {"usd": <price>}; an id the provider
// did not price back is an error, so a refresh is all-or-nothing.
func (c *Client) SimpleUSDPrice(ids []string) (map[string]cryptofolio.Quantity, error) {
	addr := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd",
		c.BaseURL, url.QueryEscape(strings.Join(ids, ",")))

	var jobj any
	if err := jwget(c.live, addr, &jobj); err != nil {
		return nil, fmt.Errorf("fetching quotes: %w", err)
	}

	prices := make(map[string]cryptofolio.Quantity, len(ids))
	for _, id := range ids {
		path := fmt.Sprintf("$[%q].usd", id)
		jval, err := jsonpath.Get(path, jobj)
		if err != nil {
			return nil, fmt.Errorf("no usd price for %q in response: %w", id, err)
		}
		// because jsonpath is never clear about whether it returns a list of
		// 1 answer, or a single answer: by this call I keep the first one if any
		if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
			jval = jlist[0]
		}
		val, ok := jval.(float64)
		if !ok {
			return nil, fmt.Errorf("usd price for %q is not a number: %v", id, jval)
		}
		prices[id] = cryptofolio.Q(val)
	}
	return prices, nil
}

// FetchTable downloads the provider's full coin list (id, symbol, name) and
// builds the ticker table from it. The list moves slowly, so the request
// goes through the daily disk cache.
func (c *Client) FetchTable() (*Table, error) {
	addr := c.BaseURL + "/coins/list"

	type coin struct {
		ID     string `json:"id"`
		Symbol string `json:"symbol"`
		Name   string `json:"name"`
	}
	var coins []coin
	if err := jwget(c.cached, addr, &coins); err != nil {
		return nil, fmt.Errorf("fetching coin list: %w", err)
	}

	t := newTable()
	for _, coin := range coins {
		t.add(coin.ID, coin.Symbol)
	}
	return t, nil
}
