package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cryptofolio/coingecko"
	"github.com/etnz/cryptofolio/renderer"
	"github.com/google/subcommands"
)

type showCmd struct {
	name string
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "show all trades of a portfolio" }
func (*showCmd) Usage() string {
	return `csvpt show -n <name>

  Validates and displays the trades recorded in a portfolio's log.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "n", "", "Name of the portfolio to show.")
}

func (c *showCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	trades, err := decodePortfolio(reg, settings, c.name)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.Trades(c.name, trades))
	return subcommands.ExitSuccess
}
