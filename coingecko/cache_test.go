package coingecko

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/etnz/cryptofolio"
)

// priceServer fakes the /simple/price endpoint, serving the given usd price
// for every requested id. Failing can be toggled to exercise refresh errors.
type priceServer struct {
	price   float64
	fail    atomic.Bool
	hits    atomic.Int64
	lastIDs atomic.Value // string
}

func (s *priceServer) handler(w http.ResponseWriter, r *http.Request) {
	s.hits.Add(1)
	if s.fail.Load() {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
		return
	}
	ids := r.URL.Query().Get("ids")
	s.lastIDs.Store(ids)
	resp := make(map[string]map[string]float64)
	for _, id := range strings.Split(ids, ",") {
		resp[id] = map[string]float64{"usd": s.price}
	}
	json.NewEncoder(w).Encode(resp)
}

func newTestCache(t *testing.T, srv *priceServer) (*QuoteCache, *time.Time) {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(srv.handler))
	t.Cleanup(ts.Close)

	client := NewClient()
	client.BaseURL = ts.URL

	cache := NewQuoteCache(client, testTable(t), "BTC")
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	return cache, &now
}

func TestQuoteCache_GetUSDQuotes(t *testing.T) {
	srv := &priceServer{price: 50000}
	cache, _ := newTestCache(t, srv)

	quotes, err := cache.GetUSDQuotes([]string{"btc"})
	if err != nil {
		t.Fatalf("GetUSDQuotes: %v", err)
	}
	if q, ok := quotes["BTC"]; !ok || !q.Equal(cryptofolio.Q(50000)) {
		t.Errorf("quotes = %v, want BTC=50000", quotes)
	}
	if srv.lastIDs.Load().(string) != "bitcoin" {
		t.Errorf("requested ids = %v, want bitcoin", srv.lastIDs.Load())
	}
}

func TestQuoteCache_servesFromCacheWithinTTL(t *testing.T) {
	srv := &priceServer{price: 50000}
	cache, now := newTestCache(t, srv)

	if _, err := cache.GetUSDQuotes([]string{"BTC"}); err != nil {
		t.Fatal(err)
	}
	*now = now.Add(DefaultTTL / 2)
	if _, err := cache.GetUSDQuotes([]string{"BTC"}); err != nil {
		t.Fatal(err)
	}
	if got := srv.hits.Load(); got != 1 {
		t.Errorf("server hit %d times, want 1 (second call within TTL)", got)
	}
}

func TestQuoteCache_refreshesAfterTTL(t *testing.T) {
	srv := &priceServer{price: 50000}
	cache, now := newTestCache(t, srv)

	if _, err := cache.GetUSDQuotes([]string{"BTC"}); err != nil {
		t.Fatal(err)
	}
	srv.price = 60000
	*now = now.Add(DefaultTTL)

	quotes, err := cache.GetUSDQuotes([]string{"BTC"})
	if err != nil {
		t.Fatal(err)
	}
	if !quotes["BTC"].Equal(cryptofolio.Q(60000)) {
		t.Errorf("BTC = %s, want refreshed 60000", quotes["BTC"])
	}
	if got := srv.hits.Load(); got != 2 {
		t.Errorf("server hit %d times, want 2", got)
	}
}

func TestQuoteCache_newTickerForcesRefresh(t *testing.T) {
	srv := &priceServer{price: 50000}
	cache, _ := newTestCache(t, srv)

	if _, err := cache.GetUSDQuotes([]string{"BTC"}); err != nil {
		t.Fatal(err)
	}
	// ETH is not in the cached set yet, so this must hit the server again,
	// asking for the whole widened universe.
	quotes, err := cache.GetUSDQuotes([]string{"BTC", "ETH"})
	if err != nil {
		t.Fatal(err)
	}
	if len(quotes) != 2 {
		t.Errorf("quotes = %v, want BTC and ETH", quotes)
	}
	if got := srv.lastIDs.Load().(string); got != "bitcoin,ethereum" {
		t.Errorf("requested ids = %q, want %q", got, "bitcoin,ethereum")
	}
}

func TestQuoteCache_failedRefreshKeepsPreviousQuotes(t *testing.T) {
	srv := &priceServer{price: 50000}
	cache, now := newTestCache(t, srv)

	if _, err := cache.GetUSDQuotes([]string{"BTC"}); err != nil {
		t.Fatal(err)
	}
	srv.fail.Store(true)
	*now = now.Add(DefaultTTL)

	_, err := cache.GetUSDQuotes([]string{"BTC"})
	if err == nil {
		t.Fatal("GetUSDQuotes: want refresh error, got nil")
	}
	if !strings.Contains(err.Error(), "previous quotes kept") {
		t.Errorf("error = %v, want note that previous quotes are kept", err)
	}

	// When the provider recovers, the cache serves again.
	srv.fail.Store(false)
	quotes, err := cache.GetUSDQuotes([]string{"BTC"})
	if err != nil {
		t.Fatalf("GetUSDQuotes after recovery: %v", err)
	}
	if !quotes["BTC"].Equal(cryptofolio.Q(50000)) {
		t.Errorf("BTC = %s, want 50000", quotes["BTC"])
	}
}

func TestQuoteCache_coldCacheFailureIsHardError(t *testing.T) {
	srv := &priceServer{price: 50000}
	srv.fail.Store(true)
	cache, _ := newTestCache(t, srv)

	if _, err := cache.GetUSDQuotes([]string{"BTC"}); err == nil {
		t.Fatal("GetUSDQuotes on cold cache with failing provider: want error, got nil")
	}
}

func TestClient_SimpleUSDPrice(t *testing.T) {
	srv := &priceServer{price: 1234.56}
	ts := httptest.NewServer(http.HandlerFunc(srv.handler))
	t.Cleanup(ts.Close)

	client := NewClient()
	client.BaseURL = ts.URL

	prices, err := client.SimpleUSDPrice([]string{"bitcoin", "ethereum"})
	if err != nil {
		t.Fatalf("SimpleUSDPrice: %v", err)
	}
	for _, id := range []string{"bitcoin", "ethereum"} {
		if !prices[id].Equal(cryptofolio.Q(1234.56)) {
			t.Errorf("price[%s] = %s, want 1234.56", id, prices[id])
		}
	}
}

func TestClient_SimpleUSDPrice_missingID(t *testing.T) {
	// Serve a response missing one requested id.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]map[string]float64{
			"bitcoin": {"usd": 50000},
		})
	}))
	t.Cleanup(ts.Close)

	client := NewClient()
	client.BaseURL = ts.URL

	if _, err := client.SimpleUSDPrice([]string{"bitcoin", "ethereum"}); err == nil {
		t.Fatal("SimpleUSDPrice: want error for unpriced id, got nil")
	}
}
