// Package renderer turns core report types into markdown strings. It owns
// all presentation concerns (tables, rounding, signs) so the core can keep
// full precision.
package renderer

import (
	"fmt"
	"strings"
	"time"

	"github.com/etnz/cryptofolio"
)

// Trades renders a trade log as a markdown table.
func Trades(name string, trades []cryptofolio.Trade) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Trades in %s\n\n", name)
	if len(trades) == 0 {
		fmt.Fprintf(&b, "No trades found in %q.\n", name)
		return b.String()
	}

	fmt.Fprintln(&b, "| Date | Pair | Side | Amount | Price | Fee |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|---:|")
	for _, t := range trades {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			t.CreatedAt.Format(time.DateTime),
			t.Pair,
			t.Side,
			t.Amount,
			t.Price,
			t.Fee,
		)
	}
	return b.String()
}

// Report renders an unrealized PnL report as markdown.
func Report(name string, r *cryptofolio.PnLReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Unrealized PnL for %s\n\n", name)

	if len(r.Assets) == 0 {
		fmt.Fprintf(&b, "No priced holdings. Cash: %s\n", r.Cash)
		return b.String()
	}

	fmt.Fprintln(&b, "| Ticker | Balance | Avg Cost | Quote | Value | PnL | PnL % |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|")
	for _, a := range r.Assets {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			a.Ticker,
			a.Balance,
			a.AvgCost,
			a.Quote,
			a.Value,
			a.PnL.SignedString(),
			a.PnLPercent.SignedString(),
		)
	}
	fmt.Fprintf(&b, "| **Total** | | | | %s | %s | %s |\n",
		r.TotalValue,
		r.TotalPnL.SignedString(),
		r.TotalPnLPercent().SignedString(),
	)

	fmt.Fprintf(&b, "\nCash: %s\n", r.Cash)
	return b.String()
}
