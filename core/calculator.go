package core

import (
	"context"
	"fmt"
	"time"

	"github.com/guregu/null/v6"
	"go.uber.org/zap"

	ex "ratios.service/data/extensions"
	m "ratios.service/data/models"
)

// RatioName is the key a ratio is deposited under in the results store.
type RatioName string

const (
	EPRatioKey        RatioName = "E/P Ratio"
	PBRatioKey        RatioName = "P/B Ratio"
	CurrentRatioKey   RatioName = "Current Ratio"
	ROEKey            RatioName = "ROE"
	ROAKey            RatioName = "ROA"
	DividendGrowthKey RatioName = "Average Dividend growth"
)

// Calculator fetches through a Security, computes a ratio and deposits it into a ResultsStore.
// Fetch and data shape errors are returned without touching the store.
type Calculator struct {
	Dividends DividendProvider
	Now       func() time.Time
	Logger    *zap.SugaredLogger
	Metrics   *Metrics
}

func NewCalculator(dividends DividendProvider, logger *zap.SugaredLogger, metrics *Metrics) *Calculator {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if dividends != nil {
		dividends = metrics.InstrumentDividends(dividends)
	}
	return &Calculator{
		Dividends: dividends,
		Now:       time.Now,
		Logger:    logger,
		Metrics:   metrics,
	}
}

// EPRatio is the earnings yield, trailing basic EPS over the latest close
func (c *Calculator) EPRatio(ctx context.Context, sec *Security, store *ResultsStore) (null.Float, error) {
	now := c.Now()

	// the window is informational, the statement is requested in full
	start, end := now.AddDate(0, 0, -4), now
	c.Logger.Debugf("earnings yield window for %s: %s to %s", sec.Symbol(), ex.FmtShort(start), ex.FmtShort(end))

	income, err := sec.Fundamentals(ctx, m.IncomeStatement)
	if err != nil {
		return c.fail(EPRatioKey, err)
	}

	filings := SelectEarningsFilings(income.Columns, now)
	summedEps, err := SumEarnings(income, filings)
	if err != nil {
		return c.fail(EPRatioKey, fmt.Errorf("error summing earnings for %s: %w", sec.Symbol(), err))
	}

	price, err := c.latestPrice(ctx, sec)
	if err != nil {
		return c.fail(EPRatioKey, err)
	}

	return c.deposit(store, EPRatioKey, CalculateEarningsYield(summedEps, price)), nil
}

// PBRatio is the latest close over book value per share
func (c *Calculator) PBRatio(ctx context.Context, sec *Security, store *ResultsStore) (null.Float, error) {
	now := c.Now()
	start, end := now.AddDate(0, 0, -5), now.AddDate(0, 0, -1)
	c.Logger.Debugf("price to book window for %s: %s to %s", sec.Symbol(), ex.FmtShort(start), ex.FmtShort(end))

	equity, err := c.latestLineItem(ctx, sec, m.Equity)
	if err != nil {
		return c.fail(PBRatioKey, err)
	}

	info, err := sec.ShareInfo(ctx)
	if err != nil {
		return c.fail(PBRatioKey, err)
	}

	price, err := c.latestPrice(ctx, sec)
	if err != nil {
		return c.fail(PBRatioKey, err)
	}

	return c.deposit(store, PBRatioKey, CalculatePriceToBook(equity, info.WeightedSharesOutstanding, price)), nil
}

func (c *Calculator) CurrentRatio(ctx context.Context, sec *Security, store *ResultsStore) (null.Float, error) {
	balance, err := sec.Fundamentals(ctx, m.BalanceSheet)
	if err != nil {
		return c.fail(CurrentRatioKey, err)
	}

	assets, err := balance.First(m.Assets)
	if err != nil {
		return c.fail(CurrentRatioKey, err)
	}

	liabilities, err := balance.First(m.Liabilities)
	if err != nil {
		return c.fail(CurrentRatioKey, err)
	}

	return c.deposit(store, CurrentRatioKey, CalculateCurrentRatio(assets, liabilities)), nil
}

func (c *Calculator) ROEquity(ctx context.Context, sec *Security, store *ResultsStore) (null.Float, error) {
	equity, err := c.latestLineItem(ctx, sec, m.Equity)
	if err != nil {
		return c.fail(ROEKey, err)
	}

	income, err := c.latestLineItem(ctx, sec, m.NetIncomeLoss)
	if err != nil {
		return c.fail(ROEKey, err)
	}

	return c.deposit(store, ROEKey, CalculateReturnOnEquity(income, equity)), nil
}

func (c *Calculator) ROAssets(ctx context.Context, sec *Security, store *ResultsStore) (null.Float, error) {
	assets, err := c.latestLineItem(ctx, sec, m.Assets)
	if err != nil {
		return c.fail(ROAKey, err)
	}

	income, err := c.latestLineItem(ctx, sec, m.NetIncomeLoss)
	if err != nil {
		return c.fail(ROAKey, err)
	}

	return c.deposit(store, ROAKey, CalculateReturnOnAssets(income, assets)), nil
}

// DivGrowth has no zero guard, a zero cash amount flows through as Inf or NaN
func (c *Calculator) DivGrowth(ctx context.Context, sec *Security, store *ResultsStore) (null.Float, error) {
	if c.Dividends == nil {
		return c.fail(DividendGrowthKey, fmt.Errorf("no dividend provider configured"))
	}

	dividends, err := c.Dividends.GetDividends(ctx, sec.ApiKey(), sec.Symbol())
	if err != nil {
		return c.fail(DividendGrowthKey, err)
	}

	growth := CalculateDividendGrowth(m.CashAmounts(dividends))
	return c.deposit(store, DividendGrowthKey, null.FloatFrom(growth)), nil
}

func (c *Calculator) latestLineItem(ctx context.Context, sec *Security, item m.LineItem) (float64, error) {
	table, err := sec.Fundamentals(ctx, item.Statement())
	if err != nil {
		return 0, err
	}
	return table.First(item)
}

func (c *Calculator) latestPrice(ctx context.Context, sec *Security) (float64, error) {
	prices, err := sec.Prices(ctx)
	if err != nil {
		return 0, err
	}
	price, err := prices.LastClose()
	if err != nil {
		return 0, fmt.Errorf("error getting latest close for %s: %w", sec.Symbol(), err)
	}
	return price, nil
}

func (c *Calculator) deposit(store *ResultsStore, name RatioName, value null.Float) null.Float {
	store.Put(string(name), value)
	c.Metrics.observeRatio(name, value, nil)
	return value
}

func (c *Calculator) fail(name RatioName, err error) (null.Float, error) {
	c.Metrics.observeRatio(name, null.Float{}, err)
	return null.Float{}, err
}
