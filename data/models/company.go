package models

import "time"

type ShareInfo struct {
	Symbol                    string
	WeightedSharesOutstanding float64
}

// Dividend is a single cash distribution, histories are delivered newest first
type Dividend struct {
	ExDividendDate time.Time
	PaymentDate    time.Time
	CashAmount     float64
}

func CashAmounts(dividends []*Dividend) []float64 {
	res := make([]float64, len(dividends))
	for i, d := range dividends {
		res[i] = d.CashAmount
	}
	return res
}
