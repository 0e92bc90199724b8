package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/coingecko"
	"github.com/etnz/cryptofolio/renderer"
	"github.com/google/subcommands"
)

type reportCmd struct {
	name string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "report the portfolio's unrealized PnL" }
func (*reportCmd) Usage() string {
	return `csvpt report -n <name>

  Replays the portfolio's trade log into positions, fetches current USD
  quotes and reports per-asset and total unrealized profit/loss.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "n", "", "Name of the portfolio to report on.")
}

func (c *reportCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		fmt.Fprintln(os.Stderr, "Error: -n <name> is required.")
		return subcommands.ExitUsageError
	}
	settings, err := LoadSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	gecko := coingecko.NewClient()
	reg, table, err := appRegistry(settings, gecko)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	trades, err := decodePortfolio(reg, settings, c.name)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	valuation, err := reg.Currency(settings.BaseCurrency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: base currency: %v\n", err)
		return subcommands.ExitFailure
	}

	pf := cryptofolio.NewPortfolio(valuation)
	if err := pf.ReplayFunded(reg, trades); err != nil {
		fmt.Fprintf(os.Stderr, "Error replaying portfolio %q: %v\n", c.name, err)
		return subcommands.ExitFailure
	}

	// only non-valuation assets actually held need a quote.
	var tickers []string
	for _, pos := range pf.Positions() {
		if pos.Currency.Ticker == valuation.Ticker || pos.Balance.IsZero() {
			continue
		}
		tickers = append(tickers, pos.Currency.Ticker)
	}

	quotes := map[string]cryptofolio.Quantity{}
	if len(tickers) > 0 {
		cache := coingecko.NewQuoteCache(gecko, table, tickers...)
		quotes, err = cache.GetUSDQuotes(tickers)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching quotes: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	report, err := cryptofolio.UnrealizedPnL(pf, quotes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing PnL: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.Report(c.name, report))
	return subcommands.ExitSuccess
}
