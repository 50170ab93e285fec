package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	reportsGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reports_generated_total",
			Help: "Total number of commission reports generated, by order data source",
		},
		[]string{"source"},
	)

	reportRowsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "report_rows_total",
			Help: "Total number of vendor rows written across all generated reports",
		},
	)

	sourceFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_source_fallbacks_total",
			Help: "Times an order source failed and generation degraded to the next source",
		},
		[]string{"failed_source"},
	)

	purchaseOrdersCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "purchase_orders_created_total",
			Help: "Total number of purchase orders created in the accounting system",
		},
	)
)

// RecordReportGenerated records one completed report run.
func RecordReportGenerated(source string, rows int) {
	reportsGeneratedTotal.WithLabelValues(source).Inc()
	reportRowsTotal.Add(float64(rows))
}

// RecordSourceFallback records a degraded-mode transition away from the
// named source.
func RecordSourceFallback(failedSource string) {
	sourceFallbacksTotal.WithLabelValues(failedSource).Inc()
}

// RecordPurchaseOrdersCreated records purchase orders written back to rows.
func RecordPurchaseOrdersCreated(n int) {
	purchaseOrdersCreatedTotal.Add(float64(n))
}

// MetricsHandler exposes the Prometheus scrape endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// HTTPMiddleware records request counts and latencies per route.
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		duration := time.Since(start).Seconds()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(rec.status)).Inc()
	})
}
