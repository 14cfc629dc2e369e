package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	c "ratios.service/api"
	av "ratios.service/api/alpha_vantage"
	"ratios.service/config"
	"ratios.service/core"
	"ratios.service/logging"
)

func main() {
	// listen for interrupt and term signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// .env first, then the environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)
	sugar := logger.Sugar()

	if cfg.ApiKey == "" {
		sugar.Warn("ALPHAVANTAGE_API_KEY is not set, provider requests will be rejected")
	}

	avClient := av.GetClientWithConnection(c.NewClientHost("https", cfg.Host, cfg.RequestTimeout), cfg.ApiKey)
	metrics := core.NewMetrics(cfg.MetricsNamespace)

	sc := &core.ServiceContext{
		Context:    ctx,
		ApiKey:     cfg.ApiKey,
		Provider:   &avClient,
		Calculator: core.NewCalculator(&avClient, sugar.Named("calculator"), metrics),
		Metrics:    metrics,
		Logger:     sugar.Named("http"),
		Workers:    cfg.Workers,

		AllowedOrigins: cfg.AllowedOrigins,
	}

	// makes all of the endpoints and routes
	s := core.GetHttpServer(sc, cfg.Addr)

	go func() {
		sugar.Infof("Starting ratios server on %s", s.Addr)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalf("Server error: %v", err)
		}
	}()

	// wait here until the context is closed (ie, ctrl+C)
	<-ctx.Done()
	sugar.Info("Received shutdown signal, shutting down gracefully...")

	// in flight requests get 10 seconds to finish
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		sugar.Errorf("Server shutdown error: %v", err)
	}

	sugar.Info("Server stopped successfully")
}
