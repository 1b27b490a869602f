package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voplanner_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "voplanner_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	targetsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voplanner_targets_total",
			Help: "Targets processed, by how their position was obtained or why they were skipped.",
		},
		[]string{"outcome"},
	)

	resolverLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voplanner_resolver_lookups_total",
			Help: "Remote name-resolution lookups by result.",
		},
		[]string{"result"},
	)

	resolverDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "voplanner_resolver_duration_seconds",
			Help:    "Remote name-resolution latency in seconds.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	planDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "voplanner_plan_duration_seconds",
			Help:    "Wall-clock duration of a planning run in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)

	gridSamples = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "voplanner_grid_samples",
			Help: "Number of samples in the most recent time grid.",
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpDurationSeconds)
	prometheus.MustRegister(targetsTotal)
	prometheus.MustRegister(resolverLookupsTotal)
	prometheus.MustRegister(resolverDurationSeconds)
	prometheus.MustRegister(planDurationSeconds)
	prometheus.MustRegister(gridSamples)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordTarget counts one target outcome ("strict", "permissive", "remote",
// or "skipped_<reason>").
func RecordTarget(outcome string) {
	targetsTotal.WithLabelValues(outcome).Inc()
}

// RecordLookup records a remote name-resolution attempt.
func RecordLookup(result string, d time.Duration) {
	resolverLookupsTotal.WithLabelValues(result).Inc()
	resolverDurationSeconds.Observe(d.Seconds())
}

// RecordPlan records a completed planning run.
func RecordPlan(d time.Duration, samples int) {
	planDurationSeconds.Observe(d.Seconds())
	gridSamples.Set(float64(samples))
}

// WriteTextfile dumps every registered metric to path in the text
// exposition format, for node_exporter's textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}

// normalizeRoute collapses request paths into a bounded label set.
func normalizeRoute(path string) string {
	switch path {
	case "/", "/healthz", "/readyz", "/metrics",
		"/api/v1/sites", "/api/v1/parse", "/api/v1/plan":
		return path
	}
	if strings.HasPrefix(path, "/api/v1/resolve/") && len(path) > len("/api/v1/resolve/") {
		return "/api/v1/resolve/{name}"
	}
	return "other"
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)
		route := normalizeRoute(r.URL.Path)

		httpRequestsTotal.WithLabelValues(route, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(route, r.Method).Observe(duration)
	})
}
