package cryptofolio

import (
	"fmt"
	"strings"
)

// CurrencyType classifies a ticker into one of the mutually exclusive
// currency families known to the registry.
type CurrencyType int

const (
	Fiat CurrencyType = iota
	StableCoin
	Crypto
)

func (t CurrencyType) String() string {
	switch t {
	case Fiat:
		return "fiat"
	case StableCoin:
		return "stablecoin"
	case Crypto:
		return "crypto"
	default:
		return "unknown"
	}
}

// Currency is an immutable, classified currency. A Currency value exists
// only if its ticker was found in exactly one of the registry's allow-lists.
type Currency struct {
	Ticker string
	Type   CurrencyType
}

func (c Currency) String() string { return c.Ticker }

// Normalize returns the canonical form of a ticker: surrounding whitespace
// removed and letters uppercased. Normalize(Normalize(t)) == Normalize(t).
func Normalize(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// Default allow-lists. The fiat and stablecoin sets are deliberately small;
// the crypto set covers the majors and can be extended from an external
// ticker table with Registry.AddCrypto.
var (
	defaultFiat        = []string{"USD", "EUR", "GBP", "JPY", "CHF"}
	defaultStableCoins = []string{"USDT", "USDC", "DAI", "TUSD", "USDT0"}
	defaultCrypto      = []string{"BTC", "ETH", "SOL", "ADA", "BNB", "XRP", "DOGE", "DOT", "LTC", "AVAX", "LINK"}
)

// Registry holds the ticker allow-lists and classifies tickers on demand.
// It is an explicit object, constructed once at startup and passed to every
// component that needs it, so there is no hidden package-level state to
// initialize in the right order.
type Registry struct {
	fiat   map[string]struct{}
	stable map[string]struct{}
	crypto map[string]struct{}
}

// NewRegistry creates a registry loaded with the default allow-lists.
func NewRegistry() *Registry {
	r := &Registry{
		fiat:   make(map[string]struct{}),
		stable: make(map[string]struct{}),
		crypto: make(map[string]struct{}),
	}
	for _, t := range defaultFiat {
		r.fiat[t] = struct{}{}
	}
	for _, t := range defaultStableCoins {
		r.stable[t] = struct{}{}
	}
	for _, t := range defaultCrypto {
		r.crypto[t] = struct{}{}
	}
	return r
}

// AddCrypto extends the crypto allow-list with extra tickers, typically the
// symbol column of an external ticker table snapshot. Tickers already
// classified as fiat or stablecoin are left untouched, keeping the three
// sets mutually exclusive.
func (r *Registry) AddCrypto(tickers ...string) {
	for _, t := range tickers {
		n := Normalize(t)
		if n == "" {
			continue
		}
		if _, ok := r.fiat[n]; ok {
			continue
		}
		if _, ok := r.stable[n]; ok {
			continue
		}
		r.crypto[n] = struct{}{}
	}
}

// UnknownTickerError reports a ticker absent from every allow-list.
type UnknownTickerError struct {
	Ticker string
}

func (e *UnknownTickerError) Error() string {
	return fmt.Sprintf("unknown ticker %q (valid tickers look like USD, USDT or BTC)", e.Ticker)
}

// Classify normalizes the ticker and returns its currency type. Lookup order
// is fixed: fiat, then stablecoin, then crypto.
func (r *Registry) Classify(ticker string) (CurrencyType, error) {
	n := Normalize(ticker)
	if _, ok := r.fiat[n]; ok {
		return Fiat, nil
	}
	if _, ok := r.stable[n]; ok {
		return StableCoin, nil
	}
	if _, ok := r.crypto[n]; ok {
		return Crypto, nil
	}
	return 0, &UnknownTickerError{Ticker: ticker}
}

// Currency constructs the Currency for a ticker, or fails if the ticker is
// not in any allow-list.
func (r *Registry) Currency(ticker string) (Currency, error) {
	typ, err := r.Classify(ticker)
	if err != nil {
		return Currency{}, err
	}
	return Currency{Ticker: Normalize(ticker), Type: typ}, nil
}
