package models

import "github.com/guregu/null/v6"

type PingResponse struct {
	Message string `json:"message"`
}

// RatioReportResponse is a single security's ratios, a missing ratio is null
type RatioReportResponse struct {
	Symbol    string                `json:"symbol"`
	Ratios    map[string]null.Float `json:"ratios"`
	Errors    map[string]string     `json:"errors,omitempty"`
	ElapsedMs int64                 `json:"elapsedMs"`
}

type RatioResponse struct {
	Symbol string     `json:"symbol"`
	Ratio  string     `json:"ratio"`
	Value  null.Float `json:"value"`
}

type BatchRatioResponse struct {
	Reports []RatioReportResponse `json:"reports"`
}
