package core

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

type ServiceContext struct {
	Context    context.Context
	ApiKey     string
	Provider   DataProvider
	Calculator *Calculator
	Metrics    *Metrics
	Logger     *zap.SugaredLogger
	Workers    int

	AllowedOrigins []string
}

// NewSecurity builds a handle for the symbol, requests through it are counted in metrics
func (sc *ServiceContext) NewSecurity(symbol string) *Security {
	return NewSecurity(sc.ApiKey, strings.ToUpper(strings.TrimSpace(symbol)), sc.Metrics.InstrumentProvider(sc.Provider))
}
