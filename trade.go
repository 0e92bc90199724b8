package cryptofolio

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinTradeTimestamp is the sanity floor for trade timestamps:
// 2009-01-03T00:00:00Z, the Bitcoin genesis block date. No trade in this
// system can legitimately predate it.
const MinTradeTimestamp int64 = 1231027200

// Side is the direction of a trade with respect to the pair's base currency.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "unknown"
	}
}

// ParseSide parses a trade side, case-insensitively.
func ParseSide(s string) (Side, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY":
		return Buy, nil
	case "SELL":
		return Sell, nil
	default:
		return 0, fmt.Errorf("unknown side %q: want BUY or SELL", s)
	}
}

// Trade is one immutable, timestamped record of the trade log.
//
// Example of one trade record in a portfolio CSV file:
//
//	created_at,pair,side,amount,price,fee
//	1704883200,BTC/USD,BUY,1.0,40000.00,7.50
type Trade struct {
	CreatedAt time.Time // always UTC
	Pair      TradingPair
	Side      Side
	Amount    Quantity
	Price     Quantity
	Fee       Quantity
}

// FieldError attributes a validation failure to one column of a trade
// record, so callers can report exactly which field is wrong.
type FieldError struct {
	Field  string
	Value  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func fieldErr(field, value, format string, args ...any) *FieldError {
	return &FieldError{Field: field, Value: value, Reason: fmt.Sprintf(format, args...)}
}

// tradeColumns are the exact CSV columns of a trade record, in order.
var tradeColumns = []string{"created_at", "pair", "side", "amount", "price", "fee"}

// ParseTrade validates one serialized trade record. fields must hold the six
// columns of a trade row in order. now is the validation wall-clock,
// injected so that the future-timestamp rule is testable.
//
// Validation order: timestamp, pair, side, then each numeric field.
func ParseTrade(reg *Registry, fields []string, now time.Time) (Trade, error) {
	if len(fields) != len(tradeColumns) {
		return Trade{}, fmt.Errorf("expected %d fields %v, got %d", len(tradeColumns), tradeColumns, len(fields))
	}

	ts, err := strconv.ParseInt(strings.TrimSpace(fields[0]), 10, 64)
	if err != nil {
		return Trade{}, fieldErr("created_at", fields[0], "not an integer unix timestamp")
	}
	if ts < MinTradeTimestamp {
		return Trade{}, fieldErr("created_at", fields[0], "timestamp is before minimum allowed date (2009-01-03)")
	}
	if ts >= now.Unix() {
		return Trade{}, fieldErr("created_at", fields[0], "timestamp is in the future")
	}

	pair, err := ParsePair(reg, fields[1])
	if err != nil {
		return Trade{}, &FieldError{Field: "pair", Value: fields[1], Reason: err.Error()}
	}

	side, err := ParseSide(fields[2])
	if err != nil {
		return Trade{}, &FieldError{Field: "side", Value: fields[2], Reason: err.Error()}
	}

	amount, err := parsePositive("amount", fields[3])
	if err != nil {
		return Trade{}, err
	}
	price, err := parsePositive("price", fields[4])
	if err != nil {
		return Trade{}, err
	}
	// TODO: decide whether fee=0 should be legal; the current rule rejects it.
	fee, err := parsePositive("fee", fields[5])
	if err != nil {
		return Trade{}, err
	}

	return Trade{
		CreatedAt: time.Unix(ts, 0).UTC(),
		Pair:      pair,
		Side:      side,
		Amount:    amount,
		Price:     price,
		Fee:       fee,
	}, nil
}

// parsePositive parses a strictly positive decimal field.
func parsePositive(field, value string) (Quantity, error) {
	q, err := ParseQuantity(strings.TrimSpace(value))
	if err != nil {
		return Quantity{}, fieldErr(field, value, "not a number")
	}
	if !q.IsPositive() {
		return Quantity{}, fieldErr(field, value, "value must be positive number")
	}
	return q, nil
}

// NewTrade builds a trade from already-parsed parts, enforcing the same
// positivity rules as ParseTrade. It is the entry point for trades created
// interactively rather than read from the log.
func NewTrade(createdAt time.Time, pair TradingPair, side Side, amount, price, fee Quantity) (Trade, error) {
	for _, f := range []struct {
		name  string
		value Quantity
	}{{"amount", amount}, {"price", price}, {"fee", fee}} {
		if !f.value.IsPositive() {
			return Trade{}, fieldErr(f.name, f.value.String(), "value must be positive number")
		}
	}
	if createdAt.Unix() < MinTradeTimestamp {
		return Trade{}, fieldErr("created_at", createdAt.Format(time.RFC3339), "timestamp is before minimum allowed date (2009-01-03)")
	}
	return Trade{
		CreatedAt: createdAt.UTC(),
		Pair:      pair,
		Side:      side,
		Amount:    amount,
		Price:     price,
		Fee:       fee,
	}, nil
}

// Record serializes the trade back into its six CSV columns, the inverse of
// ParseTrade.
func (t Trade) Record() []string {
	return []string{
		strconv.FormatInt(t.CreatedAt.Unix(), 10),
		t.Pair.String(),
		t.Side.String(),
		t.Amount.String(),
		t.Price.String(),
		t.Fee.String(),
	}
}
