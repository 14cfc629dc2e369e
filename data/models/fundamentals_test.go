package models

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/guregu/null/v6"

	ex "ratios.service/data/extensions"
)

func newBalanceSheet(t *testing.T) *FundamentalsTable {
	t.Helper()
	ft := NewFundamentalsTable(BalanceSheet, []string{"2026-06-30", "2026-03-31"})
	if err := ft.Set(Assets, "2026-06-30", null.FloatFrom(500)); err != nil {
		t.Fatalf("error setting assets: %s", err)
	}
	if err := ft.Set(Assets, "2026-03-31", null.FloatFrom(450)); err != nil {
		t.Fatalf("error setting assets: %s", err)
	}
	if err := ft.Set(Equity, "2026-03-31", null.FloatFrom(100)); err != nil {
		t.Fatalf("error setting equity: %s", err)
	}
	return ft
}

func TestLineItemSchema(t *testing.T) {
	ex.AssertAreEqual(t, "assets code", 100, Assets.Code())
	ex.AssertAreEqual(t, "eps label", "Basic Earnings Per Share", BasicEarningsPerShare.Label())
	ex.AssertAreEqual(t, "net income statement", IncomeStatement, NetIncomeLoss.Statement())
	ex.AssertAreEqual(t, "equity statement", BalanceSheet, Equity.Statement())
	ex.AssertAreEqual(t, "string", "(600, Liabilities)", Liabilities.String())
}

func TestFundamentalsTableFirst(t *testing.T) {
	ft := newBalanceSheet(t)

	assets, err := ft.First(Assets)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	ex.AssertAreEqual(t, "assets", 500.0, assets)

	// equity was only reported for the older filing
	equity, err := ft.First(Equity)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !math.IsNaN(equity) {
		t.Fatalf("expected absent cell to be NaN, got %v", equity)
	}

	if _, err := ft.First(Liabilities); !errors.Is(err, ErrLineItemNotFound) {
		t.Fatalf("expected ErrLineItemNotFound, got %v", err)
	}
}

func TestFundamentalsTableSelect(t *testing.T) {
	ft := newBalanceSheet(t)

	res, err := ft.Select(Assets, []string{"2026-03-31", "2026-06-30", "2026-03-31"})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	ex.AssertAreEqual(t, "len", 3, len(res))
	ex.AssertAreEqual(t, "first", 450.0, res[0])
	ex.AssertAreEqual(t, "second", 500.0, res[1])
	ex.AssertAreEqual(t, "repeated", 450.0, res[2])

	if _, err := ft.Select(Assets, []string{"2024-12-31"}); !errors.Is(err, ErrColumnNotFound) {
		t.Fatalf("expected ErrColumnNotFound, got %v", err)
	}

	if err := ft.Set(Assets, "2024-12-31", null.FloatFrom(1)); !errors.Is(err, ErrColumnNotFound) {
		t.Fatalf("expected ErrColumnNotFound on set, got %v", err)
	}
}

func TestFundamentalsTableWithoutColumns(t *testing.T) {
	ft := NewFundamentalsTable(IncomeStatement, nil)
	if ft.HasRow(NetIncomeLoss) {
		t.Fatalf("empty table should not have rows")
	}
	if _, err := ft.First(NetIncomeLoss); err == nil {
		t.Fatalf("expected error on empty table")
	}
}

func TestPriceSeriesLastClose(t *testing.T) {
	var empty PriceSeries
	if _, err := empty.LastClose(); !errors.Is(err, ErrNoPrices) {
		t.Fatalf("expected ErrNoPrices, got %v", err)
	}

	ps := PriceSeries{
		{Timestamp: time.Date(2026, 10, 13, 0, 0, 0, 0, time.UTC), Close: null.FloatFrom(19)},
		{Timestamp: time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC), Close: null.FloatFrom(20)},
	}
	price, err := ps.LastClose()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	ex.AssertAreEqual(t, "price", 20.0, price)
}

func TestCashAmounts(t *testing.T) {
	amounts := CashAmounts([]*Dividend{{CashAmount: 1.21}, {CashAmount: 1.10}})
	ex.AssertAreEqual(t, "len", 2, len(amounts))
	ex.AssertAreEqual(t, "newest", 1.21, amounts[0])
}
