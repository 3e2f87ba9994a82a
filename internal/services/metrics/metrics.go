package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const divisor = 100

// Metrics holds Prometheus metric vectors for the weather dashboard.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP server metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestsInFlight prometheus.Gauge
	HTTPRequestDuration  *prometheus.HistogramVec

	// Domain metrics
	WeatherLookupsTotal   *prometheus.CounterVec
	WeatherLookupDuration prometheus.Histogram

	// History retention job
	PruneRuns    *prometheus.CounterVec
	PrunedTotal  prometheus.Counter
	PruneLatency prometheus.Histogram
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests received",
			},
			[]string{"method", "endpoint", "status_class"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "In-flight HTTP requests",
			},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Histogram of HTTP request latencies",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		WeatherLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "weather_lookups_total",
				Help:      "Weather lookups by outcome",
			},
			[]string{"outcome"},
		),
		WeatherLookupDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "weather_lookup_duration_seconds",
				Help:      "Duration of a full weather lookup, both provider calls included",
				Buckets:   prometheus.DefBuckets,
			},
		),

		PruneRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "history_prune_runs_total",
				Help:      "History retention job executions by result",
			},
			[]string{"result"},
		),
		PrunedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "history_pruned_entries_total",
				Help:      "Search history entries removed by the retention job",
			},
		),
		PruneLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "history_prune_duration_seconds",
				Help:      "Duration of history retention runs",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestsInFlight,
		m.HTTPRequestDuration,
		m.WeatherLookupsTotal,
		m.WeatherLookupDuration,
		m.PruneRuns,
		m.PrunedTotal,
		m.PruneLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// HTTPMiddleware returns a Gin middleware to instrument HTTP endpoints.
func (m *Metrics) HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.HTTPRequestsInFlight.Inc()
		c.Next()
		m.HTTPRequestsInFlight.Dec()

		statusClass := getStatusClass(c.Writer.Status())

		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, c.FullPath(), statusClass).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, c.FullPath()).
			Observe(time.Since(start).Seconds())
	}
}

// ObserveLookup records the outcome and latency of one weather lookup.
func (m *Metrics) ObserveLookup(outcome string, d time.Duration) {
	m.WeatherLookupsTotal.WithLabelValues(outcome).Inc()
	m.WeatherLookupDuration.Observe(d.Seconds())
}

// ObservePrune records one retention run.
func (m *Metrics) ObservePrune(removed int64, d time.Duration, err error) {
	m.PruneLatency.Observe(d.Seconds())
	if err != nil {
		m.PruneRuns.WithLabelValues("error").Inc()
		return
	}
	m.PruneRuns.WithLabelValues("ok").Inc()
	m.PrunedTotal.Add(float64(removed))
}

func getStatusClass(code int) string {
	return fmt.Sprintf("%dxx", code/divisor)
}
