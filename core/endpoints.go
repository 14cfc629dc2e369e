package core

import (
	"encoding/json"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/guregu/null/v6"
	"go.uber.org/zap"

	ex "ratios.service/data/extensions"
	sm "ratios.service/models"
)

const (
	DefaultAddr   = ":8080"
	DefaultOrigin = "http://localhost:3000"
)

func GetHttpServer(sc *ServiceContext, addr string) *http.Server {
	if addr == "" {
		addr = DefaultAddr
	}

	server := &http.Server{
		Addr:           addr,
		Handler:        NewRouter(sc),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	return server
}

func NewRouter(sc *ServiceContext) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(sc.Logger))
	r.Use(middleware.Recoverer)
	r.Use(corsHandler(sc.AllowedOrigins))

	r.Get("/api/ping", ping)
	r.Get("/api/ratios", sc.getBatchRatios)
	r.Get("/api/ratios/{symbol}", sc.getRatios)
	r.Get("/api/ratios/{symbol}/{ratio}", sc.getRatio)
	r.Handle("/metrics", sc.Metrics.Handler())

	return r
}

func ping(w http.ResponseWriter, r *http.Request) {
	writeJson(w, http.StatusOK, sm.GetServiceResponseOk(&sm.PingResponse{Message: "pong"}))
}

func (sc *ServiceContext) getRatios(w http.ResponseWriter, r *http.Request) {
	sec := sc.NewSecurity(chi.URLParam(r, "symbol"))

	report, err := sc.Calculator.Evaluate(r.Context(), sec, nil)
	if err != nil {
		writeJson(w, http.StatusInternalServerError, sm.GetServiceResponseError(err.Error()))
		return
	}

	res := MapReportToResponse(report)
	writeJson(w, http.StatusOK, sm.GetServiceResponseOk(&res))
}

func (sc *ServiceContext) getRatio(w http.ResponseWriter, r *http.Request) {
	name, err := RatioFromSlug(chi.URLParam(r, "ratio"))
	if err != nil {
		writeJson(w, http.StatusBadRequest, sm.GetServiceResponseError(err.Error()))
		return
	}

	sec := sc.NewSecurity(chi.URLParam(r, "symbol"))
	report, err := sc.Calculator.Evaluate(r.Context(), sec, nil, name)
	if err != nil {
		writeJson(w, http.StatusInternalServerError, sm.GetServiceResponseError(err.Error()))
		return
	}

	if ratioErr, ok := report.Errors[name]; ok {
		writeJson(w, http.StatusBadGateway, sm.GetServiceResponseError(ratioErr.Error()))
		return
	}

	res := sm.RatioResponse{
		Symbol: report.Symbol,
		Ratio:  string(name),
		Value:  sanitize(report.Values[name]),
	}
	writeJson(w, http.StatusOK, sm.GetServiceResponseOk(&res))
}

func (sc *ServiceContext) getBatchRatios(w http.ResponseWriter, r *http.Request) {
	symbols := ex.FilterMultiple(strings.Split(r.URL.Query().Get("symbols"), ","), func(s string) bool {
		return strings.TrimSpace(s) != ""
	})
	if len(symbols) == 0 {
		writeJson(w, http.StatusBadRequest, sm.GetServiceResponseError("symbols query parameter is required"))
		return
	}

	securities := make([]*Security, len(symbols))
	for i, s := range symbols {
		securities[i] = sc.NewSecurity(s)
	}

	workers := sc.Workers
	if workers <= 0 {
		workers = Workers
	}

	reports, err := sc.Calculator.EvaluateMany(r.Context(), securities, workers)
	if err != nil {
		writeJson(w, http.StatusInternalServerError, sm.GetServiceResponseError(err.Error()))
		return
	}

	res := sm.BatchRatioResponse{Reports: make([]sm.RatioReportResponse, len(reports))}
	for i, report := range reports {
		res.Reports[i] = MapReportToResponse(report)
	}
	writeJson(w, http.StatusOK, sm.GetServiceResponseOk(&res))
}

func MapReportToResponse(report *Report) sm.RatioReportResponse {
	res := sm.RatioReportResponse{
		Symbol:    report.Symbol,
		Ratios:    make(map[string]null.Float, len(report.Values)),
		ElapsedMs: report.Elapsed.Milliseconds(),
	}

	for name, value := range report.Values {
		res.Ratios[string(name)] = sanitize(value)
	}

	if len(report.Errors) > 0 {
		res.Errors = make(map[string]string, len(report.Errors))
		for name, err := range report.Errors {
			res.Errors[string(name)] = err.Error()
		}
	}

	return res
}

// sanitize turns NaN and Inf into the missing marker, json has no way to carry them
func sanitize(value null.Float) null.Float {
	if value.Valid && (math.IsNaN(value.Float64) || math.IsInf(value.Float64, 0)) {
		return null.Float{}
	}
	return value
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{DefaultOrigin}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           int((12 * time.Hour).Seconds()),
	})
}

func writeJson(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.S().Errorf("error encoding response: %v", err)
	}
}

func requestLogger(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			fields := []any{
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
			}

			switch {
			case ww.Status() >= 500:
				logger.Errorw("request completed", fields...)
			case ww.Status() >= 400:
				logger.Warnw("request completed", fields...)
			default:
				logger.Infow("request completed", fields...)
			}
		})
	}
}
