// Package cmd implements the CLI application to manage CSV trade-log
// portfolios.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/coingecko"
	"github.com/google/subcommands"
)

// Commands is the list of all subcommands. A main package registers each of
// them on its commander and executes the user-selected one.
var Commands = []subcommands.Command{
	&listCmd{},
	&newCmd{},
	&showCmd{},
	&addCmd{},
	&reportCmd{},
}

// printMarkdown pretty-prints a markdown report on the terminal. If the
// renderer fails the raw markdown is still readable, so print it as is.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// portfolioPath resolves the trade log file of a named portfolio.
func portfolioPath(s Settings, name string) string {
	return filepath.Join(s.PortfolioDir, name+".csv")
}

// appRegistry builds the currency registry and the provider ticker table.
// A locally configured table snapshot is preferred; otherwise the coin list
// is fetched through the provider's daily-cached client.
func appRegistry(s Settings, gecko *coingecko.Client) (*cryptofolio.Registry, *coingecko.Table, error) {
	var table *coingecko.Table
	var err error
	if s.TickerTable != "" {
		table, err = coingecko.LoadTable(s.TickerTable)
		if err != nil {
			return nil, nil, fmt.Errorf("loading ticker table %q: %v", s.TickerTable, err)
		}
	} else {
		table, err = gecko.FetchTable()
		if err != nil {
			return nil, nil, fmt.Errorf("fetching coin list: %v", err)
		}
	}

	reg := cryptofolio.NewRegistry()
	reg.AddCrypto(table.Symbols()...)
	return reg, table, nil
}

// decodePortfolio reads and validates the whole trade log of a portfolio.
func decodePortfolio(reg *cryptofolio.Registry, s Settings, name string) ([]cryptofolio.Trade, error) {
	path := portfolioPath(s, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening portfolio %q: %w", name, err)
	}
	defer f.Close()

	trades, err := cryptofolio.DecodeTrades(reg, f)
	if err != nil {
		return nil, fmt.Errorf("portfolio %q: %w", name, err)
	}
	return trades, nil
}
