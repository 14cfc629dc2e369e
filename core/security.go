package core

import (
	"context"

	m "ratios.service/data/models"
)

const DefaultAssetClass = "Stock"

// DataProvider fetches the statement, price and share data a security exposes.
type DataProvider interface {
	GetFundamentals(ctx context.Context, ticker string, statement m.StatementType) (*m.FundamentalsTable, error)
	GetDailyPrices(ctx context.Context, ticker string) (m.PriceSeries, error)
	GetShareInfo(ctx context.Context, ticker string) (*m.ShareInfo, error)
}

// DividendProvider is keyed by credential and ticker only, it is not reached through a Security.
type DividendProvider interface {
	GetDividends(ctx context.Context, apiKey string, ticker string) ([]*m.Dividend, error)
}

// Security identifies an asset and the credential used to request its data.
// It is immutable once built.
type Security struct {
	apiKey     string
	symbol     string
	assetClass string
	provider   DataProvider
}

func NewSecurity(apiKey, symbol string, provider DataProvider) *Security {
	return &Security{
		apiKey:     apiKey,
		symbol:     symbol,
		assetClass: DefaultAssetClass,
		provider:   provider,
	}
}

// WithAssetClass returns a copy with a different asset class
func (s *Security) WithAssetClass(assetClass string) *Security {
	c := *s
	c.assetClass = assetClass
	return &c
}

func (s *Security) ApiKey() string     { return s.apiKey }
func (s *Security) Symbol() string     { return s.symbol }
func (s *Security) AssetClass() string { return s.assetClass }

func (s *Security) Fundamentals(ctx context.Context, statement m.StatementType) (*m.FundamentalsTable, error) {
	return s.provider.GetFundamentals(ctx, s.symbol, statement)
}

func (s *Security) Prices(ctx context.Context) (m.PriceSeries, error) {
	return s.provider.GetDailyPrices(ctx, s.symbol)
}

func (s *Security) ShareInfo(ctx context.Context) (*m.ShareInfo, error) {
	return s.provider.GetShareInfo(ctx, s.symbol)
}
