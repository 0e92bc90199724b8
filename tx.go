package cryptofolio

import "fmt"

// Tx is a directionless exchange: give SellSize of Sell, receive BuySize of
// Buy. It is what the ledger understands; the notion of base/quote and
// BUY/SELL sides stops at the translation below.
type Tx struct {
	Buy      Currency
	BuySize  Quantity
	Sell     Currency
	SellSize Quantity
}

// ToTx translates a validated trade into the exchange the ledger applies.
//
// A BUY of the pair exchanges amount*price+fee of the quote currency for
// amount of the base; a SELL exchanges amount of the base for
// amount*price-fee of the quote.
func (t Trade) ToTx(reg *Registry) (Tx, error) {
	base, err := reg.Currency(t.Pair.Base)
	if err != nil {
		return Tx{}, fmt.Errorf("trade base: %w", err)
	}
	quote, err := reg.Currency(t.Pair.Quote)
	if err != nil {
		return Tx{}, fmt.Errorf("trade quote: %w", err)
	}

	gross := t.Amount.Mul(t.Price)
	switch t.Side {
	case Buy:
		return Tx{
			Buy:      base,
			BuySize:  t.Amount,
			Sell:     quote,
			SellSize: gross.Add(t.Fee),
		}, nil
	case Sell:
		proceeds := gross.Sub(t.Fee)
		if !proceeds.IsPositive() {
			return Tx{}, fmt.Errorf("fee %s eats the whole sell proceeds %s", t.Fee, gross)
		}
		return Tx{
			Buy:      quote,
			BuySize:  proceeds,
			Sell:     base,
			SellSize: t.Amount,
		}, nil
	default:
		return Tx{}, fmt.Errorf("unknown side %d", t.Side)
	}
}
