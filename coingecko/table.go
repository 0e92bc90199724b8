package coingecko

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/etnz/cryptofolio"
)

// Table maps short tickers (BTC, ETH) to the provider-specific coin ids
// (bitcoin, ethereum) the price API is keyed by. The quote cache depends on
// this mapping being resolvable for every ticker it quotes.
type Table struct {
	ids map[string]string // normalized symbol -> provider id
}

// NotListedError reports a ticker absent from the provider's coin table.
type NotListedError struct {
	Ticker string
}

func (e *NotListedError) Error() string {
	return fmt.Sprintf("ticker not found in coin table: %s", e.Ticker)
}

func newTable() *Table {
	return &Table{ids: make(map[string]string)}
}

// add records one symbol->id mapping. The first occurrence of a symbol wins:
// the provider lists canonical coins before namesakes.
func (t *Table) add(id, symbol string) {
	n := cryptofolio.Normalize(symbol)
	if n == "" || id == "" {
		return
	}
	if _, ok := t.ids[n]; ok {
		return
	}
	t.ids[n] = id
}

// LoadTable reads a "id,symbol,name" CSV snapshot of the provider's coin
// list. Malformed rows are skipped with a warning rather than failing the
// whole load.
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readTable(f)
}

func readTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // malformed rows are skipped, not fatal

	if _, err := cr.Read(); err != nil { // header
		return nil, fmt.Errorf("reading coin table header: %w", err)
	}

	t := newTable()
	for {
		record, err := cr.Read()
		if err == io.EOF {
			return t, nil
		}
		if err != nil {
			return nil, err
		}
		if len(record) < 3 {
			log.Printf("skipping malformed coin table row: %v", record)
			continue
		}
		t.add(record[0], record[1])
	}
}

// Resolve maps tickers to provider ids, preserving input order. Every
// missing ticker is reported, not silently omitted.
func (t *Table) Resolve(tickers []string) ([]string, error) {
	ids := make([]string, 0, len(tickers))
	var errs []error
	for _, ticker := range tickers {
		id, ok := t.ids[cryptofolio.Normalize(ticker)]
		if !ok {
			errs = append(errs, &NotListedError{Ticker: ticker})
			continue
		}
		ids = append(ids, id)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return ids, nil
}

// Symbols returns all known symbols, sorted. It is typically fed to
// Registry.AddCrypto to widen the ticker allow-list.
func (t *Table) Symbols() []string {
	out := make([]string, 0, len(t.ids))
	for s := range t.ids {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of known symbols.
func (t *Table) Len() int { return len(t.ids) }
