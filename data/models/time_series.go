package models

import (
	"errors"
	"math"
	"time"

	"github.com/guregu/null/v6"
)

var ErrNoPrices = errors.New("no prices in series")

type TimeSeriesResult struct {
	Metadata   *TimeSeriesMetadata
	TimeSeries PriceSeries
}

type TimeSeriesMetadata struct {
	Information   null.String
	Symbol        string
	LastRefreshed time.Time
	OutputSize    null.String
	TimeZone      string
}

type TimeSeriesData struct {
	Timestamp time.Time
	Open      null.Float
	High      null.Float
	Low       null.Float
	Close     null.Float
	Volume    null.Float
}

// PriceSeries is ordered oldest to newest, the last element is the current price.
type PriceSeries []*TimeSeriesData

// LastClose is the close of the most recent element, NaN when it was not reported
func (ps PriceSeries) LastClose() (float64, error) {
	if len(ps) == 0 {
		return 0, ErrNoPrices
	}
	c := ps[len(ps)-1].Close
	if !c.Valid {
		return math.NaN(), nil
	}
	return c.Float64, nil
}
