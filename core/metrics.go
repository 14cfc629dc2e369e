package core

import (
	"context"
	"net/http"
	"time"

	"github.com/guregu/null/v6"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	m "ratios.service/data/models"
)

const (
	outcomeOk      = "ok"
	outcomeMissing = "missing"
	outcomeError   = "error"
)

// Metrics is safe to use as a nil pointer, nothing is recorded then.
type Metrics struct {
	registry          *prometheus.Registry
	ratioOutcomes     *prometheus.CounterVec
	providerRequests  *prometheus.CounterVec
	evaluationSeconds prometheus.Histogram
}

func NewMetrics(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	mt := &Metrics{
		registry: registry,
		ratioOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ratio_computations_total",
			Help:      "Ratio calculations by ratio and outcome.",
		}, []string{"ratio", "outcome"}),
		providerRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Market data requests by operation and outcome.",
		}, []string{"operation", "outcome"}),
		evaluationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluation_duration_seconds",
			Help:      "Wall time to evaluate all requested ratios for a security.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	registry.MustRegister(mt.ratioOutcomes, mt.providerRequests, mt.evaluationSeconds)
	return mt
}

func (mt *Metrics) Handler() http.Handler {
	if mt == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(mt.registry, promhttp.HandlerOpts{})
}

func (mt *Metrics) observeRatio(name RatioName, value null.Float, err error) {
	if mt == nil {
		return
	}
	mt.ratioOutcomes.WithLabelValues(string(name), ratioOutcome(value, err)).Inc()
}

func (mt *Metrics) observeEvaluation(elapsed time.Duration) {
	if mt == nil {
		return
	}
	mt.evaluationSeconds.Observe(elapsed.Seconds())
}

func (mt *Metrics) observeProvider(operation string, err error) {
	if mt == nil {
		return
	}
	outcome := outcomeOk
	if err != nil {
		outcome = outcomeError
	}
	mt.providerRequests.WithLabelValues(operation, outcome).Inc()
}

func ratioOutcome(value null.Float, err error) string {
	switch {
	case err != nil:
		return outcomeError
	case !value.Valid:
		return outcomeMissing
	default:
		return outcomeOk
	}
}

// InstrumentProvider counts every request made through the provider
func (mt *Metrics) InstrumentProvider(provider DataProvider) DataProvider {
	if mt == nil {
		return provider
	}
	return &instrumentedProvider{provider: provider, metrics: mt}
}

func (mt *Metrics) InstrumentDividends(provider DividendProvider) DividendProvider {
	if mt == nil {
		return provider
	}
	return &instrumentedDividends{provider: provider, metrics: mt}
}

type instrumentedProvider struct {
	provider DataProvider
	metrics  *Metrics
}

func (ip *instrumentedProvider) GetFundamentals(ctx context.Context, ticker string, statement m.StatementType) (*m.FundamentalsTable, error) {
	res, err := ip.provider.GetFundamentals(ctx, ticker, statement)
	ip.metrics.observeProvider(statement.Name(), err)
	return res, err
}

func (ip *instrumentedProvider) GetDailyPrices(ctx context.Context, ticker string) (m.PriceSeries, error) {
	res, err := ip.provider.GetDailyPrices(ctx, ticker)
	ip.metrics.observeProvider("prices", err)
	return res, err
}

func (ip *instrumentedProvider) GetShareInfo(ctx context.Context, ticker string) (*m.ShareInfo, error) {
	res, err := ip.provider.GetShareInfo(ctx, ticker)
	ip.metrics.observeProvider("share_info", err)
	return res, err
}

type instrumentedDividends struct {
	provider DividendProvider
	metrics  *Metrics
}

func (id *instrumentedDividends) GetDividends(ctx context.Context, apiKey string, ticker string) ([]*m.Dividend, error) {
	res, err := id.provider.GetDividends(ctx, apiKey, ticker)
	id.metrics.observeProvider("dividends", err)
	return res, err
}
