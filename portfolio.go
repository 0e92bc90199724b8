package cryptofolio

import (
	"fmt"
	"sort"
)

// Position is the ledger entry for one currency: how much is held and how
// much (in valuation currency) was paid to acquire it. CostBase/Balance is
// the weighted average unit cost. Positions are created lazily and never
// deleted; a fully sold-out position stays at balance 0, cost base 0.
type Position struct {
	Currency Currency
	Balance  Quantity
	CostBase Quantity
}

// AverageCost returns the weighted average unit cost, or zero for an empty
// position.
func (p Position) AverageCost() Quantity {
	if p.Balance.IsZero() {
		return Q(0)
	}
	return p.CostBase.Div(p.Balance)
}

// QuoteFunc resolves the current valuation-currency price of a ticker. It is
// injected where the ledger needs to value a non-valuation deposit.
type QuoteFunc func(ticker string) (Quantity, error)

// InsufficientBalanceError reports a sell leg larger than the available
// balance. The ledger is left untouched when it is returned.
type InsufficientBalanceError struct {
	Ticker    string
	Requested Quantity
	Available Quantity
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient %s balance: need %s, have %s", e.Ticker, e.Requested, e.Available)
}

// Portfolio owns all positions, keyed by currency ticker. It is the single
// source of truth for holdings, rebuilt from scratch on every invocation by
// replaying the trade log. It is not safe for concurrent use; each
// invocation owns its portfolio exclusively.
type Portfolio struct {
	valuation Currency
	positions map[string]*Position
}

// NewPortfolio creates an empty portfolio valued in the given currency.
func NewPortfolio(valuation Currency) *Portfolio {
	return &Portfolio{
		valuation: valuation,
		positions: make(map[string]*Position),
	}
}

// Valuation returns the portfolio's valuation currency.
func (p *Portfolio) Valuation() Currency { return p.valuation }

// Position returns a copy of the position for a ticker, and whether one has
// been created.
func (p *Portfolio) Position(ticker string) (Position, bool) {
	pos, ok := p.positions[Normalize(ticker)]
	if !ok {
		return Position{}, false
	}
	return *pos, true
}

// Positions returns copies of all positions, sorted by ticker.
func (p *Portfolio) Positions() []Position {
	out := make([]Position, 0, len(p.positions))
	for _, pos := range p.positions {
		out = append(out, *pos)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency.Ticker < out[j].Currency.Ticker })
	return out
}

// position looks up or lazily creates the position of a currency.
func (p *Portfolio) position(c Currency) *Position {
	pos, ok := p.positions[c.Ticker]
	if !ok {
		pos = &Position{Currency: c, Balance: Q(0), CostBase: Q(0)}
		p.positions[c.Ticker] = pos
	}
	return pos
}

// Deposit credits an amount of a currency from outside the ledger. The cost
// base grows 1:1 for the valuation currency, and by amount*quote otherwise;
// quote may be nil when depositing the valuation currency.
func (p *Portfolio) Deposit(c Currency, amount Quantity, quote QuoteFunc) error {
	if !amount.IsPositive() {
		return fmt.Errorf("deposit amount must be positive, got %s", amount)
	}

	cost := amount
	if c.Ticker != p.valuation.Ticker {
		if quote == nil {
			return fmt.Errorf("no quote source to value a %s deposit", c.Ticker)
		}
		q, err := quote(c.Ticker)
		if err != nil {
			return fmt.Errorf("valuing %s deposit: %w", c.Ticker, err)
		}
		cost = amount.Mul(q)
	}

	pos := p.position(c)
	pos.Balance = pos.Balance.Add(amount)
	pos.CostBase = pos.CostBase.Add(cost)
	return nil
}

// Apply executes one exchange on the ledger: remove the sell leg with a
// proportional share of its cost basis, and credit the buy leg with that
// same cost. On any error the portfolio is unchanged.
//
// Proportional allocation means selling X% of a position removes exactly X%
// of its accumulated cost basis, whatever the entry price history was: one
// blended weighted-average cost, not per-lot accounting.
func (p *Portfolio) Apply(tx Tx) error {
	sellPos := p.position(tx.Sell)
	if sellPos.Balance.LessThan(tx.SellSize) {
		return &InsufficientBalanceError{
			Ticker:    tx.Sell.Ticker,
			Requested: tx.SellSize,
			Available: sellPos.Balance,
		}
	}

	// Average unit cost of what is given up. The valuation currency carries
	// its cost 1:1. The division is safe: the balance check above rules out
	// selling from an empty position.
	var costRemoved Quantity
	switch {
	case tx.Sell.Ticker == p.valuation.Ticker:
		costRemoved = tx.SellSize
	case sellPos.Balance.Equal(tx.SellSize):
		// Selling out entirely: move the whole cost base, so no division
		// dust is left behind.
		costRemoved = sellPos.CostBase
	default:
		costRemoved = sellPos.CostBase.Div(sellPos.Balance).Mul(tx.SellSize)
	}

	sellPos.Balance = sellPos.Balance.Sub(tx.SellSize)
	sellPos.CostBase = sellPos.CostBase.Sub(costRemoved)

	buyPos := p.position(tx.Buy)
	buyPos.Balance = buyPos.Balance.Add(tx.BuySize)
	buyPos.CostBase = buyPos.CostBase.Add(costRemoved)
	return nil
}

// Replay folds an ordered trade log into the portfolio. Order matters:
// average cost is order dependent.
//
// Replay stops on the first failing trade and reports it; skipping bad
// trades and carrying on would mask data-entry bugs.
func (p *Portfolio) Replay(reg *Registry, trades []Trade) error {
	return p.replay(reg, trades, false)
}

// ReplayFunded is Replay for a bare trade log with no deposit records: every
// BUY quoted in the valuation currency implicitly deposits its full quote
// cost first, so the log is self-funding.
func (p *Portfolio) ReplayFunded(reg *Registry, trades []Trade) error {
	return p.replay(reg, trades, true)
}

func (p *Portfolio) replay(reg *Registry, trades []Trade, funded bool) error {
	for i, trade := range trades {
		if funded && trade.Side == Buy && trade.Pair.Quote == p.valuation.Ticker {
			funding := trade.Amount.Mul(trade.Price).Add(trade.Fee)
			if err := p.Deposit(p.valuation, funding, nil); err != nil {
				return fmt.Errorf("trade %d (%s): %w", i+1, trade.Pair, err)
			}
		}
		tx, err := trade.ToTx(reg)
		if err != nil {
			return fmt.Errorf("trade %d (%s): %w", i+1, trade.Pair, err)
		}
		if err := p.Apply(tx); err != nil {
			return fmt.Errorf("trade %d (%s): %w", i+1, trade.Pair, err)
		}
	}
	return nil
}
