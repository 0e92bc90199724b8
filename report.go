package cryptofolio

import "fmt"

// MissingQuoteError reports a held ticker for which no quote is available.
type MissingQuoteError struct {
	Ticker string
}

func (e *MissingQuoteError) Error() string {
	return fmt.Sprintf("no quote for held ticker %q", e.Ticker)
}

// AssetPnL is the unrealized profit/loss of one non-valuation position.
type AssetPnL struct {
	Ticker     string
	Balance    Quantity
	AvgCost    Money
	Quote      Money
	Value      Money
	CostBase   Money
	PnL        Money
	PnLPercent Percent
}

// PnLReport aggregates per-asset and total unrealized profit/loss against a
// set of quotes, plus the cash balance in the valuation currency.
type PnLReport struct {
	Valuation  Currency
	Cash       Money
	Assets     []AssetPnL
	TotalValue Money
	TotalCost  Money
	TotalPnL   Money
}

// TotalPnLPercent is the total PnL relative to the total cost base, or zero
// when nothing was paid.
func (r *PnLReport) TotalPnLPercent() Percent {
	return pnlPercent(r.TotalPnL, r.TotalCost)
}

// UnrealizedPnL values every non-valuation position with a nonzero balance
// against the given quotes. A held ticker without a quote is an error, not a
// silent omission.
func UnrealizedPnL(p *Portfolio, quotes map[string]Quantity) (*PnLReport, error) {
	val := p.Valuation()
	report := &PnLReport{
		Valuation:  val,
		Cash:       M(Q(0), val.Ticker),
		TotalValue: M(Q(0), val.Ticker),
		TotalCost:  M(Q(0), val.Ticker),
		TotalPnL:   M(Q(0), val.Ticker),
	}

	for _, pos := range p.Positions() {
		if pos.Currency.Ticker == val.Ticker {
			report.Cash = M(pos.Balance, val.Ticker)
			continue
		}
		if pos.Balance.IsZero() {
			continue
		}
		quote, ok := quotes[pos.Currency.Ticker]
		if !ok {
			return nil, &MissingQuoteError{Ticker: pos.Currency.Ticker}
		}

		value := M(pos.Balance.Mul(quote), val.Ticker)
		cost := M(pos.CostBase, val.Ticker)
		pnl := value.Sub(cost)

		report.Assets = append(report.Assets, AssetPnL{
			Ticker:     pos.Currency.Ticker,
			Balance:    pos.Balance,
			AvgCost:    M(pos.AverageCost(), val.Ticker),
			Quote:      M(quote, val.Ticker),
			Value:      value,
			CostBase:   cost,
			PnL:        pnl,
			PnLPercent: pnlPercent(pnl, cost),
		})
		report.TotalValue = report.TotalValue.Add(value)
		report.TotalCost = report.TotalCost.Add(cost)
		report.TotalPnL = report.TotalPnL.Add(pnl)
	}
	return report, nil
}

// pnlPercent guards the division: a position with value but no recorded cost
// cannot produce a meaningful percentage, and must not fault.
func pnlPercent(pnl, cost Money) Percent {
	if cost.IsZero() {
		return Percent(0)
	}
	ratio := pnl.Amount().Div(cost.Amount()).Mul(Q(100))
	f, _ := ratio.Decimal().Float64()
	return Percent(f)
}
