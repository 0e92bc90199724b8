package cryptofolio

import (
	"fmt"
	"strings"
)

// quoteCurrencies is the set of currencies accepted on the quote side of a
// trading pair. The data model anticipates several, but for now prices are
// only accepted in USD.
var quoteCurrencies = map[string]struct{}{
	"USD": {},
}

// IsQuoteCurrency reports whether a ticker is accepted on the quote side of
// a pair (and therefore as a valuation currency).
func IsQuoteCurrency(ticker string) bool {
	_, ok := quoteCurrencies[Normalize(ticker)]
	return ok
}

// TradingPair identifies what was traded (base) and what the price is
// denominated in (quote). Both tickers are stored normalized.
type TradingPair struct {
	Base  string
	Quote string
}

// String serializes the pair in its canonical "BASE/QUOTE" form.
func (p TradingPair) String() string {
	return p.Base + "/" + p.Quote
}

// ParsePair parses a "BASE/QUOTE" string, case-insensitively. The base must
// be classifiable by the registry and the quote must be an accepted quote
// currency.
func ParsePair(reg *Registry, s string) (TradingPair, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return TradingPair{}, fmt.Errorf("expected format 'BASE/QUOTE', got %q", s)
	}
	base := Normalize(parts[0])
	quote := Normalize(parts[1])

	if base == "" {
		return TradingPair{}, fmt.Errorf("base can't be empty in %q", s)
	}
	if _, ok := quoteCurrencies[quote]; !ok {
		return TradingPair{}, fmt.Errorf("accepting only USD for quote currency, got %q", s)
	}
	if _, err := reg.Classify(base); err != nil {
		return TradingPair{}, err
	}
	return TradingPair{Base: base, Quote: quote}, nil
}
