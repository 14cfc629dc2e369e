package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/guregu/null/v6"

	ex "ratios.service/data/extensions"
	m "ratios.service/data/models"
)

const (
	ratioPlaces          = 2
	dividendGrowthPlaces = 3

	// trailing earnings are summed over four quarters
	trailingQuarters = 4
	// fallback lookback when nothing was filed in the current year
	fallbackLookbackDays = 100
)

var ErrNoFilingDates = errors.New("no filing dates matched")

// SelectEarningsFilings picks the filing date columns used for trailing earnings.
//
// Columns from the current year are used. When there are fewer than four, the first match is
// repeated until there are four, so that filing is counted more than once. When nothing was
// filed this year the columns dated exactly 100 days ago are used instead. Four or more matches
// are all kept.
func SelectEarningsFilings(columns []string, now time.Time) []string {
	year := strconv.Itoa(now.Year())
	filings := ex.FilterMultiple(columns, func(c string) bool { return strings.Contains(c, year) })

	switch {
	case len(filings) > 0 && len(filings) < trailingQuarters:
		filings = append(filings, ex.Repeat(filings[0], trailingQuarters-len(filings))...)
	case len(filings) == 0:
		fallback := ex.FmtShort(now.AddDate(0, 0, -fallbackLookbackDays))
		filings = ex.FilterMultiple(columns, func(c string) bool { return strings.Contains(c, fallback) })
	}

	return filings
}

// SumEarnings sums basic earnings per share over the selected filings, repeats included
func SumEarnings(income *m.FundamentalsTable, filings []string) (float64, error) {
	if len(filings) == 0 {
		return 0, ErrNoFilingDates
	}

	eps, err := income.Select(m.BasicEarningsPerShare, filings)
	if err != nil {
		return 0, fmt.Errorf("error selecting earnings per share: %w", err)
	}

	return ex.Sum(eps), nil
}

func CalculateEarningsYield(summedEps, price float64) null.Float {
	return divide(summedEps, price, ratioPlaces)
}

// CalculatePriceToBook is price over book value per share, missing when shares or equity is zero
func CalculatePriceToBook(equity, shares, price float64) null.Float {
	if shares == 0 {
		return null.Float{}
	}
	return divide(price, equity/shares, ratioPlaces)
}

func CalculateCurrentRatio(assets, liabilities float64) null.Float {
	return divide(assets, liabilities, ratioPlaces)
}

func CalculateReturnOnEquity(income, equity float64) null.Float {
	return divide(income, equity, ratioPlaces)
}

func CalculateReturnOnAssets(income, assets float64) null.Float {
	return divide(income, assets, ratioPlaces)
}

// divide returns the missing marker for a zero denominator, NaN inputs pass through as NaN
func divide(numerator, denominator float64, places int) null.Float {
	if denominator == 0 {
		return null.Float{}
	}
	return null.FloatFrom(Round(numerator/denominator, places))
}
