package alpha_vantage

import (
	m "ratios.service/data/models"
)

// Function is an Alpha Vantage query function.
type Function uint8

const (
	FunctionIncomeStatement Function = iota
	FunctionEarnings
	FunctionBalanceSheet
	FunctionTimeSeriesDaily
	FunctionOverview
	FunctionDividends
)

func (f Function) Name() string {
	switch f {
	case FunctionIncomeStatement:
		return "FunctionIncomeStatement"
	case FunctionEarnings:
		return "FunctionEarnings"
	case FunctionBalanceSheet:
		return "FunctionBalanceSheet"
	case FunctionTimeSeriesDaily:
		return "FunctionTimeSeriesDaily"
	case FunctionOverview:
		return "FunctionOverview"
	case FunctionDividends:
		return "FunctionDividends"
	default:
		return ""
	}
}

func (f Function) Function() string {
	switch f {
	case FunctionIncomeStatement:
		return "INCOME_STATEMENT"
	case FunctionEarnings:
		return "EARNINGS"
	case FunctionBalanceSheet:
		return "BALANCE_SHEET"
	case FunctionTimeSeriesDaily:
		return "TIME_SERIES_DAILY"
	case FunctionOverview:
		return "OVERVIEW"
	case FunctionDividends:
		return "DIVIDENDS"
	default:
		return ""
	}
}

// ResultKey is the top level json key holding the payload, overview is flat
func (f Function) ResultKey() string {
	switch f {
	case FunctionIncomeStatement, FunctionBalanceSheet:
		return "quarterlyReports"
	case FunctionEarnings:
		return "quarterlyEarnings"
	case FunctionTimeSeriesDaily:
		return "Time Series (Daily)"
	case FunctionDividends:
		return "data"
	default:
		return ""
	}
}

func StatementFunction(statement m.StatementType) Function {
	if statement == m.BalanceSheet {
		return FunctionBalanceSheet
	}
	return FunctionIncomeStatement
}

// statementFields maps line items onto the report field carrying them
var statementFields = map[Function]map[m.LineItem]string{
	FunctionIncomeStatement: {
		m.NetIncomeLoss: "netIncome",
	},
	FunctionEarnings: {
		m.BasicEarningsPerShare: "reportedEPS",
	},
	FunctionBalanceSheet: {
		m.Assets:      "totalAssets",
		m.Liabilities: "totalLiabilities",
		m.Equity:      "totalShareholderEquity",
	},
}
