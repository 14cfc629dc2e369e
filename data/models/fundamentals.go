package models

import (
	"errors"
	"fmt"
	"math"

	"github.com/guregu/null/v6"
)

var (
	ErrLineItemNotFound = errors.New("line item not found")
	ErrColumnNotFound   = errors.New("filing date column not found")
)

// StatementType specifies which financial statement to request.
type StatementType uint8

const (
	IncomeStatement StatementType = iota
	BalanceSheet
)

func (s StatementType) Name() string {
	switch s {
	case IncomeStatement:
		return "income_statement"
	case BalanceSheet:
		return "balance_sheet"
	default:
		return ""
	}
}

// LineItem is a standardized statement row, the value is its numeric code.
type LineItem uint16

const (
	Assets                LineItem = 100
	Liabilities           LineItem = 600
	Equity                LineItem = 1400
	NetIncomeLoss         LineItem = 3200
	BasicEarningsPerShare LineItem = 4200
)

func (l LineItem) Code() int {
	return int(l)
}

func (l LineItem) Label() string {
	switch l {
	case Assets:
		return "Assets"
	case Liabilities:
		return "Liabilities"
	case Equity:
		return "Equity"
	case NetIncomeLoss:
		return "Net Income/Loss"
	case BasicEarningsPerShare:
		return "Basic Earnings Per Share"
	default:
		return ""
	}
}

// Statement is the statement the line item is reported on
func (l LineItem) Statement() StatementType {
	switch l {
	case NetIncomeLoss, BasicEarningsPerShare:
		return IncomeStatement
	default:
		return BalanceSheet
	}
}

func (l LineItem) String() string {
	return fmt.Sprintf("(%d, %s)", l.Code(), l.Label())
}

// FundamentalsTable holds line item rows against filing date columns.
// Columns are ordered most recent first.
type FundamentalsTable struct {
	Statement StatementType
	Columns   []string

	index map[string]int
	rows  map[LineItem][]null.Float
}

func NewFundamentalsTable(statement StatementType, columns []string) *FundamentalsTable {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}

	return &FundamentalsTable{
		Statement: statement,
		Columns:   columns,
		index:     index,
		rows:      make(map[LineItem][]null.Float),
	}
}

// Set writes a single cell, creating the row on first use
func (ft *FundamentalsTable) Set(item LineItem, column string, value null.Float) error {
	idx, ok := ft.index[column]
	if !ok {
		return fmt.Errorf("%w: %s", ErrColumnNotFound, column)
	}

	row, ok := ft.rows[item]
	if !ok {
		row = make([]null.Float, len(ft.Columns))
		ft.rows[item] = row
	}
	row[idx] = value
	return nil
}

func (ft *FundamentalsTable) HasRow(item LineItem) bool {
	_, ok := ft.rows[item]
	return ok
}

// Row returns the full row in column order
func (ft *FundamentalsTable) Row(item LineItem) ([]null.Float, error) {
	row, ok := ft.rows[item]
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", ErrLineItemNotFound, item, ft.Statement.Name())
	}
	return row, nil
}

// First returns the most recent value of the row, absent cells come back as NaN.
func (ft *FundamentalsTable) First(item LineItem) (float64, error) {
	row, err := ft.Row(item)
	if err != nil {
		return 0, err
	}
	if len(row) == 0 {
		return 0, fmt.Errorf("%w: %s has no filings", ErrColumnNotFound, item)
	}
	return valueOrNaN(row[0]), nil
}

// Select returns the row values for the given columns in the given order.
// Repeated columns are returned repeatedly.
func (ft *FundamentalsTable) Select(item LineItem, columns []string) ([]float64, error) {
	row, err := ft.Row(item)
	if err != nil {
		return nil, err
	}

	res := make([]float64, len(columns))
	for i, c := range columns {
		idx, ok := ft.index[c]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, c)
		}
		res[i] = valueOrNaN(row[idx])
	}
	return res, nil
}

func valueOrNaN(v null.Float) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
