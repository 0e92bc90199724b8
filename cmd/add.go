package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/coingecko"
	"github.com/google/subcommands"
)

type addCmd struct {
	name   string
	pair   string
	side   string
	amount string
	price  string
	fee    string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "append a trade to a portfolio" }
func (*addCmd) Usage() string {
	return `csvpt add -n <name> -t <BASE/QUOTE> -side <BUY|SELL> -q <amount> -p <price> -f <fee>

  Validates a trade and appends it to the portfolio's log, timestamped now.

Usage Example:
$ csvpt add -n main -t BTC/USD -side BUY -q 0.5 -p 40000 -f 7.5
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "n", "", "Name of the portfolio.")
	f.StringVar(&c.pair, "t", "", "Trading pair, e.g. BTC/USD.")
	f.StringVar(&c.side, "side", "", "Trade side: BUY or SELL.")
	f.StringVar(&c.amount, "q", "", "Traded amount of the base currency.")
	f.StringVar(&c.price, "p", "", "Price per unit, in the quote currency.")
	f.StringVar(&c.fee, "f", "", "Fee paid, in the quote currency.")
}

func (c *addCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		fmt.Fprintln(os.Stderr, "Error: -n <name> is required.")
		return subcommands.ExitUsageError
	}
	settings, err := LoadSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	reg, _, err := appRegistry(settings, coingecko.NewClient())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	trade, err := c.parseTrade(reg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	path := portfolioPath(settings, c.name)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening portfolio %q (create it with 'csvpt new -n %s'): %v\n", c.name, c.name, err)
		return subcommands.ExitFailure
	}
	defer f.Close()

	if err := cryptofolio.EncodeTrade(f, trade); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing to portfolio file %q: %v\n", path, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Added %s %s of %s to %q\n", trade.Side, trade.Amount, trade.Pair, c.name)
	return subcommands.ExitSuccess
}

// parseTrade validates the command flags into a Trade timestamped now.
func (c *addCmd) parseTrade(reg *cryptofolio.Registry) (cryptofolio.Trade, error) {
	pair, err := cryptofolio.ParsePair(reg, c.pair)
	if err != nil {
		return cryptofolio.Trade{}, err
	}
	side, err := cryptofolio.ParseSide(c.side)
	if err != nil {
		return cryptofolio.Trade{}, err
	}
	amount, err := cryptofolio.ParseQuantity(c.amount)
	if err != nil {
		return cryptofolio.Trade{}, fmt.Errorf("invalid amount %q: %v", c.amount, err)
	}
	price, err := cryptofolio.ParseQuantity(c.price)
	if err != nil {
		return cryptofolio.Trade{}, fmt.Errorf("invalid price %q: %v", c.price, err)
	}
	fee, err := cryptofolio.ParseQuantity(c.fee)
	if err != nil {
		return cryptofolio.Trade{}, fmt.Errorf("invalid fee %q: %v", c.fee, err)
	}
	return cryptofolio.NewTrade(time.Now(), pair, side, amount, price, fee)
}
