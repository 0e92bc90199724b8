package cryptofolio

// testRegistry is the default registry; enough for BTC, ETH, USDT, USD...
func testRegistry() *Registry { return NewRegistry() }

// usd and btc are helpers for tests to create currencies from const.
func usd() Currency { return Currency{Ticker: "USD", Type: Fiat} }
func btc() Currency { return Currency{Ticker: "BTC", Type: Crypto} }
