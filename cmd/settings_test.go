package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSettings_defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir) // keep the host's config.toml out
	t.Setenv("CSVPT_PORTFOLIO_DIR", filepath.Join(dir, "portfolios"))
	t.Setenv("CSVPT_BASE_CURRENCY", "")
	t.Setenv("CSVPT_TICKER_TABLE", "")

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if s.BaseCurrency != "USD" {
		t.Errorf("BaseCurrency = %q, want USD", s.BaseCurrency)
	}
	if s.PortfolioDir != filepath.Join(dir, "portfolios") {
		t.Errorf("PortfolioDir = %q", s.PortfolioDir)
	}
	// the portfolio dir is created on load.
	if _, err := os.Stat(s.PortfolioDir); err != nil {
		t.Errorf("portfolio dir not created: %v", err)
	}
}

func TestLoadSettings_envLayer(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("CSVPT_PORTFOLIO_DIR", dir)
	t.Setenv("CSVPT_BASE_CURRENCY", "usd")
	t.Setenv("CSVPT_TICKER_TABLE", filepath.Join(dir, "coins.csv"))

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if s.PortfolioDir != dir {
		t.Errorf("PortfolioDir = %q, want %q", s.PortfolioDir, dir)
	}
	if s.BaseCurrency != "USD" {
		t.Errorf("BaseCurrency = %q, want normalized USD", s.BaseCurrency)
	}
	if s.TickerTable != filepath.Join(dir, "coins.csv") {
		t.Errorf("TickerTable = %q", s.TickerTable)
	}
}

func TestLoadSettings_configFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("CSVPT_PORTFOLIO_DIR", "")
	t.Setenv("CSVPT_BASE_CURRENCY", "")
	t.Setenv("CSVPT_TICKER_TABLE", "")

	confDir := filepath.Join(home, "csvpt")
	if err := os.MkdirAll(confDir, 0o755); err != nil {
		t.Fatal(err)
	}
	wantDir := filepath.Join(home, "my-portfolios")
	conf := "portfolio_dir = \"" + wantDir + "\"\nbase_currency = \"usd\"\n"
	if err := os.WriteFile(filepath.Join(confDir, "config.toml"), []byte(conf), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if s.PortfolioDir != wantDir {
		t.Errorf("PortfolioDir = %q, want %q from config file", s.PortfolioDir, wantDir)
	}
	if s.BaseCurrency != "USD" {
		t.Errorf("BaseCurrency = %q, want USD", s.BaseCurrency)
	}
}

func TestLoadSettings_invalidBaseCurrencyFallsBack(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("CSVPT_PORTFOLIO_DIR", t.TempDir())
	t.Setenv("CSVPT_BASE_CURRENCY", "DOUBLOONS")
	t.Setenv("CSVPT_TICKER_TABLE", "")

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if s.BaseCurrency != "USD" {
		t.Errorf("BaseCurrency = %q, want fallback USD", s.BaseCurrency)
	}
}
