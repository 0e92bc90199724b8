package cryptofolio

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"
)

// This file is the storage boundary of the trade log: a thin CSV adapter
// around the pure parse/validate functions of trade.go. The log is
// append-only; records are never rewritten in place.

// DecodeTrades reads a whole trade log. The first line must be the exact
// header "created_at,pair,side,amount,price,fee"; every following row is
// validated with ParseTrade. The first invalid row fails the whole decode,
// with its line number.
func DecodeTrades(reg *Registry, r io.Reader) ([]Trade, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("missing header line %v", tradeColumns)
	}
	if err != nil {
		return nil, err
	}
	if len(header) != len(tradeColumns) {
		return nil, fmt.Errorf("bad header %v: want %v", header, tradeColumns)
	}
	for i, col := range tradeColumns {
		if header[i] != col {
			return nil, fmt.Errorf("bad header column %d: got %q, want %q", i+1, header[i], col)
		}
	}

	now := time.Now().UTC()
	var trades []Trade
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			return trades, nil
		}
		if err != nil {
			return nil, err
		}
		trade, err := ParseTrade(reg, record, now)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		trades = append(trades, trade)
	}
}

// EncodeHeader writes the trade log header line.
func EncodeHeader(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tradeColumns); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// EncodeTrade appends one trade record in canonical form (uppercase pair and
// side, plain decimal numbers, unix seconds).
func EncodeTrade(w io.Writer, t Trade) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Record()); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
