package cryptofolio

import (
	"strings"
	"testing"
	"time"
)

func mustTrade(t *testing.T, side Side, amount, price, fee float64) Trade {
	t.Helper()
	trade, err := NewTrade(
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		TradingPair{Base: "BTC", Quote: "USD"},
		side, Q(amount), Q(price), Q(fee),
	)
	if err != nil {
		t.Fatalf("NewTrade: %v", err)
	}
	return trade
}

func TestTrade_ToTx_buy(t *testing.T) {
	reg := testRegistry()
	tx, err := mustTrade(t, Buy, 2, 40000, 7.5).ToTx(reg)
	if err != nil {
		t.Fatalf("ToTx: %v", err)
	}
	if tx.Buy.Ticker != "BTC" || !tx.BuySize.Equal(Q(2)) {
		t.Errorf("buy leg = %s %s, want 2 BTC", tx.BuySize, tx.Buy.Ticker)
	}
	// 2*40000 + 7.5
	if tx.Sell.Ticker != "USD" || !tx.SellSize.Equal(Q(80007.5)) {
		t.Errorf("sell leg = %s %s, want 80007.5 USD", tx.SellSize, tx.Sell.Ticker)
	}
}

func TestTrade_ToTx_sell(t *testing.T) {
	reg := testRegistry()
	tx, err := mustTrade(t, Sell, 2, 40000, 7.5).ToTx(reg)
	if err != nil {
		t.Fatalf("ToTx: %v", err)
	}
	if tx.Sell.Ticker != "BTC" || !tx.SellSize.Equal(Q(2)) {
		t.Errorf("sell leg = %s %s, want 2 BTC", tx.SellSize, tx.Sell.Ticker)
	}
	// 2*40000 - 7.5
	if tx.Buy.Ticker != "USD" || !tx.BuySize.Equal(Q(79992.5)) {
		t.Errorf("buy leg = %s %s, want 79992.5 USD", tx.BuySize, tx.Buy.Ticker)
	}
}

func TestTrade_ToTx_feeEatsProceeds(t *testing.T) {
	reg := testRegistry()
	// proceeds 1*100 = 100, fee 100: nothing left to receive.
	_, err := mustTrade(t, Sell, 1, 100, 100).ToTx(reg)
	if err == nil {
		t.Fatal("ToTx: want error, got nil")
	}
	if !strings.Contains(err.Error(), "eats the whole sell proceeds") {
		t.Errorf("error = %v, want fee-eats-proceeds", err)
	}
}
