// Package metrics exposes Prometheus counters and histograms for query and
// engine outcomes, following the same isolated-registry + Noop() pattern
// the traffic generator uses so tests and multiple hosts in one process
// never hit a double-registration panic.
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/a3s-lab/a3s-search/internal/types"
)

// Metrics holds Prometheus counters and histograms for the orchestrator.
type Metrics struct {
	registry              *prometheus.Registry
	queriesTotal          *prometheus.CounterVec
	queryDurationSeconds  prometheus.Histogram
	engineRequestsTotal   *prometheus.CounterVec
	engineErrorsTotal     *prometheus.CounterVec
	engineDurationSeconds *prometheus.HistogramVec
	resultsReturned       prometheus.Histogram
}

// New creates and registers a Metrics instance on an isolated registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		queriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "a3s_search_queries_total",
			Help: "Total number of Search() calls, by outcome (ok, invalid_query).",
		}, []string{"outcome"}),

		queryDurationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "a3s_search_query_duration_seconds",
			Help:    "End-to-end Search() duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}),

		engineRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "a3s_search_engine_requests_total",
			Help: "Total number of per-engine Search() invocations dispatched by the orchestrator.",
		}, []string{"engine"}),

		engineErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "a3s_search_engine_errors_total",
			Help: "Total number of per-engine failures, by engine and error kind.",
		}, []string{"engine", "kind"}),

		engineDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "a3s_search_engine_duration_seconds",
			Help:    "Per-engine Search() duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"engine"}),

		resultsReturned: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "a3s_search_results_returned",
			Help:    "Number of MergedResult entries returned per Search() call.",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		}),
	}

	reg.MustRegister(
		m.queriesTotal,
		m.queryDurationSeconds,
		m.engineRequestsTotal,
		m.engineErrorsTotal,
		m.engineDurationSeconds,
		m.resultsReturned,
	)

	return m
}

// Noop returns a Metrics instance registered on its own throwaway registry,
// for hosts that run with metrics disabled.
func Noop() *Metrics {
	return New()
}

// RecordEngine observes one engine's contribution to a Search() call.
func (m *Metrics) RecordEngine(engineName string, duration float64, err *types.EngineError) {
	m.engineRequestsTotal.WithLabelValues(engineName).Inc()
	m.engineDurationSeconds.WithLabelValues(engineName).Observe(duration)
	if err != nil {
		m.engineErrorsTotal.WithLabelValues(engineName, string(err.Kind)).Inc()
	}
}

// RecordQuery observes the outcome of a completed Search() call.
func (m *Metrics) RecordQuery(resp *types.SearchResponse, invalidQuery bool) {
	if invalidQuery {
		m.queriesTotal.WithLabelValues("invalid_query").Inc()
		return
	}
	m.queriesTotal.WithLabelValues("ok").Inc()
	m.queryDurationSeconds.Observe(float64(resp.DurationMs) / 1000.0)
	m.resultsReturned.Observe(float64(resp.Count))
}

// ServeHTTP starts the Prometheus metrics HTTP endpoint and shuts it down
// gracefully when ctx is cancelled. Call in a goroutine.
func (m *Metrics) ServeHTTP(ctx context.Context, port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	log.Info().Str("addr", srv.Addr).Msg("prometheus metrics endpoint listening")

	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error().Err(err).Msg("metrics server shutdown error")
		}
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("metrics server error")
	}
}
