package core

import (
	"errors"
	"math"
	"slices"
	"testing"
	"time"

	ex "ratios.service/data/extensions"
	m "ratios.service/data/models"
)

func TestRound(t *testing.T) {
	ex.AssertAreEqual(t, "2.675", 2.67, Round(2.675, 2))
	ex.AssertAreEqual(t, "0.125", 0.12, Round(0.125, 2))
	ex.AssertAreEqual(t, "0.375", 0.38, Round(0.375, 2))
	ex.AssertAreEqual(t, "-0.125", -0.12, Round(-0.125, 2))
	ex.AssertAreEqual(t, "0.13", 0.13, Round(6.5/50, 2))
	ex.AssertAreEqual(t, "integer", 2.0, Round(2, 2))

	if !math.IsNaN(Round(math.NaN(), 2)) {
		t.Fatal("expected NaN to pass through")
	}
	if !math.IsInf(Round(math.Inf(1), 2), 1) {
		t.Fatal("expected +Inf to pass through")
	}
}

func TestSelectEarningsFilingsPadsCurrentYear(t *testing.T) {
	columns := []string{"2026-06-30", "2026-03-31", "2025-12-31", "2025-09-30"}

	filings := SelectEarningsFilings(columns, fixedNow)

	expected := []string{"2026-06-30", "2026-03-31", "2026-06-30", "2026-06-30"}
	if !slices.Equal(expected, filings) {
		t.Fatalf("expected %v, got %v", expected, filings)
	}
}

func TestSelectEarningsFilingsKeepsAllMatches(t *testing.T) {
	columns := []string{"2026-09-30", "2026-06-30", "2026-03-31", "2026-02-28", "2026-01-31", "2025-12-31"}

	filings := SelectEarningsFilings(columns, fixedNow)

	ex.AssertAreEqual(t, "filings", 5, len(filings))
	ex.AssertAreEqual(t, "first", "2026-09-30", filings[0])
	ex.AssertAreEqual(t, "last", "2026-01-31", filings[4])
}

func TestSelectEarningsFilingsFallsBack(t *testing.T) {
	now := time.Date(2026, 1, 20, 9, 0, 0, 0, time.UTC)
	columns := []string{"2025-12-31", "2025-10-12", "2025-09-30"}

	filings := SelectEarningsFilings(columns, now)

	// a fallback match is not padded
	expected := []string{"2025-10-12"}
	if !slices.Equal(expected, filings) {
		t.Fatalf("expected %v, got %v", expected, filings)
	}

	filings = SelectEarningsFilings([]string{"2025-12-31"}, now)
	ex.AssertAreEqual(t, "no match", 0, len(filings))
}

func TestSumEarnings(t *testing.T) {
	income := m.NewFundamentalsTable(m.IncomeStatement, []string{"2026-06-30", "2026-03-31", "2025-12-31"})
	mustSet(t, income, m.BasicEarningsPerShare, "2026-06-30", 1.5)
	mustSet(t, income, m.BasicEarningsPerShare, "2026-03-31", 2.0)
	mustSet(t, income, m.BasicEarningsPerShare, "2025-12-31", 9.0)

	sum, err := SumEarnings(income, SelectEarningsFilings(income.Columns, fixedNow))
	if err != nil {
		t.Fatalf("error summing earnings: %s", err)
	}

	// the first filing is counted three times
	ex.AssertAreEqual(t, "sum", 6.5, sum)
	ex.AssertFloat(t, "earnings yield", 0.13, CalculateEarningsYield(sum, 50))

	if _, err := SumEarnings(income, nil); !errors.Is(err, ErrNoFilingDates) {
		t.Fatalf("expected no filing dates error, got %v", err)
	}

	if _, err := SumEarnings(income, []string{"2020-01-01"}); !errors.Is(err, m.ErrColumnNotFound) {
		t.Fatalf("expected column error, got %v", err)
	}
}

func TestRatioFormulas(t *testing.T) {
	ex.AssertFloat(t, "price to book", 2.0, CalculatePriceToBook(100, 10, 20))
	ex.AssertFloat(t, "current ratio", 2.0, CalculateCurrentRatio(500, 250))
	ex.AssertFloat(t, "return on equity", 0.25, CalculateReturnOnEquity(50, 200))
	ex.AssertFloat(t, "return on assets", 0.05, CalculateReturnOnAssets(50, 1000))
	ex.AssertFloat(t, "negative income", -0.33, CalculateReturnOnEquity(-1, 3))
}

func TestRatioFormulasZeroDenominator(t *testing.T) {
	ex.AssertMissing(t, "earnings yield", CalculateEarningsYield(6.5, 0))
	ex.AssertMissing(t, "price to book no shares", CalculatePriceToBook(100, 0, 20))
	ex.AssertMissing(t, "price to book no equity", CalculatePriceToBook(0, 10, 20))
	ex.AssertMissing(t, "current ratio", CalculateCurrentRatio(500, 0))
	ex.AssertMissing(t, "return on equity", CalculateReturnOnEquity(50, 0))
	ex.AssertMissing(t, "return on assets", CalculateReturnOnAssets(50, 0))
}

func TestRatioFormulasNaNPassesThrough(t *testing.T) {
	cr := CalculateCurrentRatio(math.NaN(), 250)
	ex.AssertAreEqual(t, "valid", true, cr.Valid)
	ex.AssertAreEqual(t, "nan", true, math.IsNaN(cr.Float64))

	roa := CalculateReturnOnAssets(50, math.NaN())
	ex.AssertAreEqual(t, "valid", true, roa.Valid)
	ex.AssertAreEqual(t, "nan", true, math.IsNaN(roa.Float64))
}

func TestPercentChanges(t *testing.T) {
	changes := PercentChanges([]float64{1, 2, 3})
	if !slices.Equal([]float64{1, 0.5}, changes) {
		t.Fatalf("expected [1 0.5], got %v", changes)
	}

	ex.AssertAreEqual(t, "single", 0, len(PercentChanges([]float64{4})))
	ex.AssertAreEqual(t, "empty", 0, len(PercentChanges(nil)))

	// 0/0 is dropped, x/0 is kept
	changes = PercentChanges([]float64{0, 0, 2})
	ex.AssertAreEqual(t, "with zeros", 1, len(changes))
	ex.AssertAreEqual(t, "inf", true, math.IsInf(changes[0], 1))
}

func TestCalculateDividendGrowth(t *testing.T) {
	ex.AssertAreEqual(t, "steady growth", 0.1, CalculateDividendGrowth([]float64{1.21, 1.10, 1.00}))
	ex.AssertAreEqual(t, "flat", 0.0, CalculateDividendGrowth([]float64{0.5, 0.5, 0.5}))
	ex.AssertAreEqual(t, "halving", -0.5, CalculateDividendGrowth([]float64{0.25, 0.5, 1}))

	if !math.IsNaN(CalculateDividendGrowth(nil)) {
		t.Fatal("expected NaN for no dividends")
	}
	if !math.IsNaN(CalculateDividendGrowth([]float64{0.42})) {
		t.Fatal("expected NaN for a single dividend")
	}
	if !math.IsInf(CalculateDividendGrowth([]float64{1, 0}), 1) {
		t.Fatal("expected +Inf growth from a zero payment")
	}
}
