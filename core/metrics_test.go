package core

import (
	"context"
	"testing"
	"time"

	"github.com/guregu/null/v6"
	"github.com/prometheus/client_golang/prometheus/testutil"

	ex "ratios.service/data/extensions"
	m "ratios.service/data/models"
)

func TestMetricsCountOutcomes(t *testing.T) {
	mt := NewMetrics("test")
	provider := newFakeProvider(t)
	mustSet(t, provider.balance, m.Liabilities, "2026-06-30", 0)
	provider.pricesErr = errUnplugged

	c := newTestCalculator(&fakeDividends{amounts: []float64{1.21, 1.10, 1.00}}, mt)
	sec := NewSecurity("demo", "IBM", mt.InstrumentProvider(provider))

	if _, err := c.Evaluate(context.Background(), sec, nil, CurrentRatioKey, ROEKey, EPRatioKey, DividendGrowthKey); err != nil {
		t.Fatalf("error evaluating: %s", err)
	}

	ex.AssertAreEqual(t, "current ratio missing", 1.0, testutil.ToFloat64(mt.ratioOutcomes.WithLabelValues(string(CurrentRatioKey), outcomeMissing)))
	ex.AssertAreEqual(t, "roe ok", 1.0, testutil.ToFloat64(mt.ratioOutcomes.WithLabelValues(string(ROEKey), outcomeOk)))
	ex.AssertAreEqual(t, "ep error", 1.0, testutil.ToFloat64(mt.ratioOutcomes.WithLabelValues(string(EPRatioKey), outcomeError)))
	ex.AssertAreEqual(t, "dividend growth ok", 1.0, testutil.ToFloat64(mt.ratioOutcomes.WithLabelValues(string(DividendGrowthKey), outcomeOk)))

	// current ratio and roe read the balance sheet, roe and ep read the income statement
	ex.AssertAreEqual(t, "balance sheet", 2.0, testutil.ToFloat64(mt.providerRequests.WithLabelValues(m.BalanceSheet.Name(), outcomeOk)))
	ex.AssertAreEqual(t, "income statement", 2.0, testutil.ToFloat64(mt.providerRequests.WithLabelValues(m.IncomeStatement.Name(), outcomeOk)))
	ex.AssertAreEqual(t, "prices", 1.0, testutil.ToFloat64(mt.providerRequests.WithLabelValues("prices", outcomeError)))
	ex.AssertAreEqual(t, "dividends", 1.0, testutil.ToFloat64(mt.providerRequests.WithLabelValues("dividends", outcomeOk)))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var mt *Metrics

	mt.observeRatio(ROEKey, null.FloatFrom(1), nil)
	mt.observeEvaluation(time.Second)
	mt.observeProvider("prices", nil)

	provider := newFakeProvider(t)
	if mt.InstrumentProvider(provider) != DataProvider(provider) {
		t.Fatal("expected the provider back unwrapped")
	}
	if mt.Handler() == nil {
		t.Fatal("expected a handler")
	}
}
