package cmd

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/etnz/cryptofolio"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to
// use global variables for app-wide flags.

var (
	portfolioDirFlag = flag.String("portfolio-dir", "", "Directory holding the portfolio CSV files (overrides config).")
	tickerTableFlag  = flag.String("ticker-table", "", "Path to a local CSV snapshot of the provider coin list (id,symbol,name).")
)

// Settings is the app-level configuration. The core packages never read it;
// commands pass the already-validated values in.
type Settings struct {
	PortfolioDir string `toml:"portfolio_dir"`
	BaseCurrency string `toml:"base_currency"`
	TickerTable  string `toml:"ticker_table"`
}

func defaultSettings() Settings {
	return Settings{
		PortfolioDir: "./portfolios",
		BaseCurrency: "USD",
	}
}

// LoadSettings builds Settings by layering, lowest priority first:
// built-in defaults, the config.toml dotfile, CSVPT_* environment variables,
// then command-line flags.
func LoadSettings() (Settings, error) {
	s := defaultSettings()

	if dir, err := os.UserConfigDir(); err == nil {
		path := filepath.Join(dir, "csvpt", "config.toml")
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &s); err != nil {
				return s, fmt.Errorf("loading config %q: %w", path, err)
			}
		}
	}

	if v := os.Getenv("CSVPT_PORTFOLIO_DIR"); v != "" {
		s.PortfolioDir = v
	}
	if v := os.Getenv("CSVPT_BASE_CURRENCY"); v != "" {
		s.BaseCurrency = v
	}
	if v := os.Getenv("CSVPT_TICKER_TABLE"); v != "" {
		s.TickerTable = v
	}

	if *portfolioDirFlag != "" {
		s.PortfolioDir = *portfolioDirFlag
	}
	if *tickerTableFlag != "" {
		s.TickerTable = *tickerTableFlag
	}

	// Invalid values degrade to defaults with a warning rather than failing
	// the whole command.
	s.BaseCurrency = cryptofolio.Normalize(s.BaseCurrency)
	if !cryptofolio.IsQuoteCurrency(s.BaseCurrency) {
		log.Printf("config warning: invalid base_currency %q, using %q", s.BaseCurrency, defaultSettings().BaseCurrency)
		s.BaseCurrency = defaultSettings().BaseCurrency
	}
	if err := os.MkdirAll(s.PortfolioDir, 0o755); err != nil {
		return s, fmt.Errorf("cannot create portfolio dir %q: %w", s.PortfolioDir, err)
	}
	return s, nil
}
