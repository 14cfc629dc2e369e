package alpha_vantage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/guregu/null/v6"
	"go.uber.org/zap"

	c "ratios.service/api"
	e "ratios.service/data/extensions"
	m "ratios.service/data/models"
)

// public
const (
	HostDefault    = "www.alphavantage.co"
	DefaultTimeout = time.Second * 30
)

// private
const (
	// default query parameters
	defaultOutputSize = "compact"
	defaultDataType   = "json"

	// api request elements
	query    = "query"
	symbol   = "symbol"
	function = "function"
	apiKey   = "apikey"
)

var (
	ErrEmptyResponse = errors.New("empty response from alpha vantage")
	ErrApiMessage    = errors.New("alpha vantage returned a message instead of data")

	timeSeriesDateFormats = []string{
		"2006-01-02",
		"2006-01-02 15:04:05",
	}

	ohlcvResultKeys = map[string]string{
		"Open":   ". Open",
		"High":   ". High",
		"Low":    ". Low",
		"Close":  ". Close",
		"Volume": ". Volume",
	}

	// top level keys alpha vantage uses for throttling and bad requests, all served with a 200
	messageKeys = []string{"Error Message", "Note", "Information"}
)

type AlphaVantageClient struct {
	*c.Client
}

func GetClient(apiKey string) AlphaVantageClient {
	return AlphaVantageClient{
		c.ClientFactory(HostDefault, apiKey, DefaultTimeout),
	}
}

func GetClientWithConnection(connection c.Connection, apiKey string) AlphaVantageClient {
	return AlphaVantageClient{
		&c.Client{Connection: connection, ApiKey: apiKey},
	}
}

// GetFundamentals returns the quarterly statement as a table, most recent filing first.
// The income statement is merged with reported earnings per share.
func (avc *AlphaVantageClient) GetFundamentals(ctx context.Context, ticker string, statement m.StatementType) (*m.FundamentalsTable, error) {
	fn := StatementFunction(statement)
	reports, err := avc.getQuarterlyReports(ctx, fn, ticker)
	if err != nil {
		return nil, err
	}

	columns := make([]string, 0, len(reports))
	for _, r := range reports {
		columns = append(columns, r["fiscalDateEnding"])
	}

	table := m.NewFundamentalsTable(statement, columns)
	if err := populateTable(table, reports, statementFields[fn]); err != nil {
		return nil, err
	}

	if statement != m.IncomeStatement {
		return table, nil
	}

	// https://www.alphavantage.co/documentation/#earnings
	earnings, err := avc.getQuarterlyReports(ctx, FunctionEarnings, ticker)
	if err != nil {
		return nil, err
	}

	known := func(r map[string]string) bool { return slices.Contains(columns, r["fiscalDateEnding"]) }
	if err := populateTable(table, e.FilterMultiple(earnings, known), statementFields[FunctionEarnings]); err != nil {
		return nil, err
	}

	return table, nil
}

// https://www.alphavantage.co/documentation/#daily
func (avc *AlphaVantageClient) GetDailyPrices(ctx context.Context, ticker string) (m.PriceSeries, error) {
	raw, err := avc.fetch(ctx, map[string]string{
		function: FunctionTimeSeriesDaily.Function(),
		symbol:   ticker,
	})
	if err != nil {
		return nil, err
	}

	_, timeZone, err := parseMetaData(raw)
	if err != nil {
		return nil, err
	}

	timeSeries, err := parseTimeSeriesDataResult(raw, FunctionTimeSeriesDaily.ResultKey(), timeZone)
	if err != nil {
		return nil, err
	}

	// map iteration order is random, the series is consumed oldest to newest
	slices.SortFunc(timeSeries, func(a, b *m.TimeSeriesData) int { return a.Timestamp.Compare(b.Timestamp) })
	return timeSeries, nil
}

// https://www.alphavantage.co/documentation/#company-overview
func (avc *AlphaVantageClient) GetShareInfo(ctx context.Context, ticker string) (*m.ShareInfo, error) {
	raw, err := avc.fetch(ctx, map[string]string{
		function: FunctionOverview.Function(),
		symbol:   ticker,
	})
	if err != nil {
		return nil, err
	}

	rawShares, ok := raw["SharesOutstanding"]
	if !ok {
		return nil, fmt.Errorf("error extracting shares outstanding for %s", ticker)
	}

	var sharesValue string
	if err := json.Unmarshal(rawShares, &sharesValue); err != nil {
		return nil, fmt.Errorf("error unmarshaling shares outstanding: %w", err)
	}

	shares := parseNullFloat(sharesValue)
	if !shares.Valid {
		return nil, fmt.Errorf("shares outstanding for %s is not a number: %q", ticker, sharesValue)
	}

	return &m.ShareInfo{
		Symbol:                    ticker,
		WeightedSharesOutstanding: shares.Float64,
	}, nil
}

// GetDividends returns the dividend history newest first. A non empty key overrides the client key.
// https://www.alphavantage.co/documentation/#dividends
func (avc *AlphaVantageClient) GetDividends(ctx context.Context, key string, ticker string) ([]*m.Dividend, error) {
	params := map[string]string{
		function: FunctionDividends.Function(),
		symbol:   ticker,
	}
	if key != "" {
		params[apiKey] = key
	}

	raw, err := avc.fetch(ctx, params)
	if err != nil {
		return nil, err
	}

	var elements []map[string]string
	if err := json.Unmarshal(raw[FunctionDividends.ResultKey()], &elements); err != nil {
		return nil, fmt.Errorf("error unmarshaling dividends: %w", err)
	}

	dividends := make([]*m.Dividend, 0, len(elements))
	for _, el := range elements {
		exDate, err := parseDate(el["ex_dividend_date"], time.UTC)
		if err != nil {
			return nil, fmt.Errorf("error parsing ex dividend date: %w", err)
		}

		amount := parseNullFloat(el["amount"])
		if !amount.Valid {
			return nil, fmt.Errorf("error parsing dividend amount %q on %s", el["amount"], e.FmtShort(exDate))
		}

		// payment date is "None" for announced but unpaid dividends
		paymentDate, _ := parseDate(el["payment_date"], time.UTC)

		dividends = append(dividends, &m.Dividend{
			ExDividendDate: exDate,
			PaymentDate:    paymentDate,
			CashAmount:     amount.Float64,
		})
	}

	return dividends, nil
}

func (avc *AlphaVantageClient) getQuarterlyReports(ctx context.Context, fn Function, ticker string) ([]map[string]string, error) {
	raw, err := avc.fetch(ctx, map[string]string{
		function: fn.Function(),
		symbol:   ticker,
	})
	if err != nil {
		return nil, err
	}

	var reports []map[string]string
	if err := json.Unmarshal(raw[fn.ResultKey()], &reports); err != nil {
		return nil, fmt.Errorf("error unmarshaling %s: %w", fn.ResultKey(), err)
	}

	return reports, nil
}

func (avc *AlphaVantageClient) fetch(ctx context.Context, params map[string]string) (map[string]json.RawMessage, error) {
	endpoint := avc.buildRequestPath(params)

	response, err := avc.Client.Connection.Request(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("error requesting %s: %w", params[function], err)
	}

	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error requesting %s: unexpected status %d", params[function], response.StatusCode)
	}

	raw, err := parseRawJson(response.Body)
	if err != nil {
		return nil, err
	}

	if err := checkResponseMessage(raw); err != nil {
		return nil, fmt.Errorf("error requesting %s for %s: %w", params[function], params[symbol], err)
	}

	return raw, nil
}

func (avc *AlphaVantageClient) buildRequestPath(params map[string]string) *url.URL {
	// build our URL
	endpoint := &url.URL{}
	endpoint.Path = query

	// base parameters
	query := endpoint.Query()
	query.Set(apiKey, avc.Client.ApiKey)
	query.Set("datatype", defaultDataType)
	query.Set("outputsize", defaultOutputSize)

	// additional parameters
	for key, value := range params {
		query.Set(key, value)
	}

	endpoint.RawQuery = query.Encode()

	return endpoint
}

func populateTable(table *m.FundamentalsTable, reports []map[string]string, fields map[m.LineItem]string) error {
	for item, field := range fields {
		for _, r := range reports {
			if err := table.Set(item, r["fiscalDateEnding"], parseNullFloat(r[field])); err != nil {
				return fmt.Errorf("error populating %s: %w", item, err)
			}
		}
	}
	return nil
}

func checkResponseMessage(raw map[string]json.RawMessage) error {
	if len(raw) == 0 {
		return ErrEmptyResponse
	}

	for _, key := range messageKeys {
		msg, ok := raw[key]
		if !ok {
			continue
		}
		var text string
		_ = json.Unmarshal(msg, &text)
		return fmt.Errorf("%w: %s", ErrApiMessage, text)
	}

	return nil
}

func parseRawJson(reader io.Reader) (raw map[string]json.RawMessage, err error) {
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	// converting to a <string, raw message> map
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("error unmarshaling response: %w", err)
	}

	return
}

func parseMetaData(raw map[string]json.RawMessage) (*m.TimeSeriesMetadata, *time.Location, error) {
	var metadataElements map[string]string
	if err := json.Unmarshal(raw["Meta Data"], &metadataElements); err != nil {
		return nil, nil, fmt.Errorf("error unmarshaling meta data: %w", err)
	}

	metaDataKeys := slices.Collect(maps.Keys(metadataElements))

	// parse symbol
	sf := func(s string) bool { return strings.HasSuffix(s, ". Symbol") }
	symbolKey, err := e.FilterSingle(metaDataKeys, sf)
	if err != nil {
		return nil, nil, fmt.Errorf("error extracting symbol for meta data")
	}

	// parse time zone
	tzf := func(s string) bool { return strings.HasSuffix(s, ". Time Zone") }
	timeZoneKey, err := e.FilterSingle(metaDataKeys, tzf)
	if err != nil {
		return nil, nil, fmt.Errorf("error extracting time zone for meta data")
	}

	timeZone, err := getTimeZone(metadataElements[timeZoneKey])
	if err != nil {
		return nil, nil, fmt.Errorf("error converting time zone key %s, to time.Location: %w", metadataElements[timeZoneKey], err)
	}

	// parse last refreshed
	lrf := func(s string) bool { return strings.HasSuffix(s, ". Last Refreshed") }
	lastRefreshedKey, err := e.FilterSingle(metaDataKeys, lrf)
	if err != nil {
		return nil, nil, fmt.Errorf("error extracting last refreshed date")
	}

	lastRefreshed, err := parseDate(metadataElements[lastRefreshedKey], timeZone)
	if err != nil {
		return nil, nil, fmt.Errorf("error parsing last refreshed date")
	}

	res := m.TimeSeriesMetadata{
		Information:   optionalElement(metadataElements, metaDataKeys, ". Information"),
		Symbol:        metadataElements[symbolKey],
		LastRefreshed: lastRefreshed,
		OutputSize:    optionalElement(metadataElements, metaDataKeys, ". Output Size"),
		TimeZone:      timeZone.String(),
	}

	return &res, timeZone, nil
}

func optionalElement(elements map[string]string, keys []string, suffix string) null.String {
	key, err := e.FilterSingle(keys, func(s string) bool { return strings.HasSuffix(s, suffix) })
	if err != nil {
		return null.String{}
	}
	return null.StringFrom(elements[key])
}

func parseTimeSeriesDataResult(raw map[string]json.RawMessage, key string, location *time.Location) (m.PriceSeries, error) {
	var timeSeriesElements map[string]map[string]string
	if err := json.Unmarshal(raw[key], &timeSeriesElements); err != nil {
		return nil, fmt.Errorf("error unmarshaling time series: %w", err)
	}

	// populate the lookups
	var firstValue map[string]string
	for _, v := range timeSeriesElements {
		firstValue = v
		break
	}

	ohlcvLookup, err := getLookupKey(ohlcvResultKeys, firstValue)
	if err != nil {
		return nil, err
	}

	timeSeries := make(m.PriceSeries, 0, len(timeSeriesElements))
	for timeSeriesKey, timeSeriesValue := range timeSeriesElements {
		// get timestamp
		timestamp, err := parseDate(timeSeriesKey, location)
		if err != nil {
			return nil, fmt.Errorf("error converting TIMESTAMP from string to time.Time: %w", err)
		}

		data := &m.TimeSeriesData{Timestamp: timestamp}
		if err := parseOHLCV(data, timeSeriesValue, ohlcvLookup); err != nil {
			return nil, fmt.Errorf("error parsing OHLCV: %w", err)
		}

		timeSeries = append(timeSeries, data)
	}

	return timeSeries, nil
}

func parseOHLCV(res *m.TimeSeriesData, value, lookup map[string]string) error {
	v := reflect.ValueOf(res).Elem()
	for jsonKey, structAttribute := range lookup {
		field := v.FieldByName(structAttribute)
		if !field.IsValid() {
			return fmt.Errorf("field %s does not exist", structAttribute)
		}
		if !field.CanSet() {
			return fmt.Errorf("field %s cannot be set", structAttribute)
		}

		field.Set(reflect.ValueOf(parseNullFloat(value[jsonKey])))
	}
	return nil
}

func getLookupKey(expectedKeys, values map[string]string) (map[string]string, error) {
	res := make(map[string]string)
	responseValueHeaders := slices.Collect(maps.Keys(values))

	for key, value := range expectedKeys {
		f := func(s string) bool {
			return strings.HasSuffix(strings.ToLower(s), strings.ToLower(value))
		}
		if jsonKey, err := e.FilterSingle(responseValueHeaders, f); err == nil {
			res[jsonKey] = key
		}
	}

	if len(res) == 0 {
		return nil, fmt.Errorf("error generating key value map from av response object. Available headers: %v", responseValueHeaders)
	}

	return res, nil
}

func getTimeZone(location string) (*time.Location, error) {
	var loc string
	switch strings.ToUpper(location) {
	case "US/EASTERN":
		loc = "America/New_York"
	default:
		zap.S().Debugf("default time zone hit, %s is not recognized", location)
		return time.UTC, nil
	}

	res, err := time.LoadLocation(loc)

	if err != nil {
		return nil, fmt.Errorf("error parsing time zone %s in time.LoadLocation", loc)
	}

	return res, nil
}

func parseDate(dateString string, location *time.Location) (time.Time, error) {
	for _, format := range timeSeriesDateFormats {
		t, err := time.ParseInLocation(format, dateString, location)
		if err != nil {
			continue
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("error converting date %s to time.Time", dateString)
}

// parseNullFloat treats "", "None" and anything unparsable as not reported
func parseNullFloat(val string) null.Float {
	if val == "" || val == "None" {
		return null.Float{}
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return null.Float{}
	}
	return null.FloatFrom(f)
}
