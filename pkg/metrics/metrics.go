// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SourceLoadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vaxatlas_source_loads_total",
		Help: "Source fetch attempts by source and result",
	}, []string{"source", "result"})
	SourceRows = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "vaxatlas_source_rows",
		Help: "Rows (or features) held per loaded source",
	}, []string{"source"})
	SourceLoadDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vaxatlas_source_load_duration_ms",
		Help:    "Source fetch and parse duration in milliseconds",
		Buckets: []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	}, []string{"source"})
	EndpointCallsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vaxatlas_endpoint_calls_total",
		Help: "Endpoint calls by endpoint, transport and result",
	}, []string{"endpoint", "transport", "result"})
	EndpointDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vaxatlas_endpoint_duration_ms",
		Help:    "Endpoint duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	}, []string{"endpoint"})
	EmptyMatchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vaxatlas_empty_matches_total",
		Help: "Stats lookups that matched no rows, by level",
	}, []string{"level"})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vaxatlas_cache_hits_total",
		Help: "Stats cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vaxatlas_cache_misses_total",
		Help: "Stats cache misses",
	})
	ActiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "vaxatlas_active_sessions",
		Help: "Live selection sessions",
	})
	UpstreamUp = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "vaxatlas_upstream_up",
		Help: "1 when the last availability check of an import source answered 2xx/3xx",
	}, []string{"source"})
)

func init() {
	prometheus.MustRegister(SourceLoadsTotal)
	prometheus.MustRegister(SourceRows)
	prometheus.MustRegister(SourceLoadDurationMs)
	prometheus.MustRegister(EndpointCallsTotal)
	prometheus.MustRegister(EndpointDurationMs)
	prometheus.MustRegister(EmptyMatchesTotal)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
	prometheus.MustRegister(ActiveSessions)
	prometheus.MustRegister(UpstreamUp)
}

// Handler exposes the registered collectors for scraping.
func Handler() http.Handler { return promhttp.Handler() }
