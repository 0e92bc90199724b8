// Package cryptofolio implements a cost-basis ledger for multi-asset
// holdings. It replays an append-only log of buy/sell trades into per-asset
// positions (balance plus weighted-average cost basis) and values those
// positions against live USD quotes.
//
// The core functionalities include:
//   - Currency Registry: normalizing and classifying tickers into fiat,
//     stablecoin and crypto sets, so that only known currencies enter the
//     ledger.
//   - Trade Validation: parsing one CSV trade record into an immutable,
//     fully-validated Trade (timestamp bounds, BASE/QUOTE pair, side,
//     strictly positive decimal amounts).
//   - Exchange Translation: converting a Trade into a directionless Tx
//     ("give X of A, receive Y of B") that the ledger understands.
//   - Position Ledger: the Portfolio type, applying deposits and exchanges
//     with proportional cost-basis allocation on partial sells.
//   - Reporting: unrealized profit/loss figures per asset and in total.
//
// All monetary quantities are exact decimals (shopspring/decimal) wrapped in
// the Quantity type; nothing in this package rounds before presentation.
//
// This package serves as the foundational logic for the `csvpt` command-line
// tool.
package cryptofolio
