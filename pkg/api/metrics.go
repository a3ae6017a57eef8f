package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for the API
type Metrics struct {
	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Decoding metrics
	decodeOperationsTotal *prometheus.CounterVec
	decodeDuration        *prometheus.HistogramVec
	itemsDecodedTotal     prometheus.Counter

	// Snapshot metrics
	snapshotOperationsTotal *prometheus.CounterVec
	snapshotsTotal          prometheus.Gauge

	// API key authentication metrics
	authRequestsTotal *prometheus.CounterVec

	// Health check metrics
	healthChecksTotal *prometheus.CounterVec
}

// NewMetrics creates all metrics and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vsave_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vsave_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "vsave_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		decodeOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vsave_decode_operations_total",
				Help: "Total number of inventory decode operations by result kind",
			},
			[]string{"operation", "kind"},
		),

		decodeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vsave_decode_duration_seconds",
				Help:    "Inventory decode duration in seconds",
				Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
			},
			[]string{"operation"},
		),

		itemsDecodedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "vsave_items_decoded_total",
				Help: "Total number of item records decoded",
			},
		),

		snapshotOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vsave_snapshot_operations_total",
				Help: "Total number of snapshot store operations",
			},
			[]string{"operation", "status"},
		),

		snapshotsTotal: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "vsave_snapshots_total",
				Help: "Number of stored snapshots",
			},
		),

		authRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vsave_auth_requests_total",
				Help: "Total number of authentication requests",
			},
			[]string{"status"},
		),

		healthChecksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vsave_health_checks_total",
				Help: "Total number of health checks",
			},
			[]string{"status"},
		),
	}

	return m
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	statusCodeStr := strconv.Itoa(statusCode)

	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordDecode records one timed decode; kind is empty on success
func (m *Metrics) RecordDecode(operation, kind string, items int, duration time.Duration) {
	m.RecordDecodeResult(operation, kind, items)
	m.ObserveDecodeDuration(operation, duration)
}

// RecordDecodeResult counts one decoded inventory without timing it
func (m *Metrics) RecordDecodeResult(operation, kind string, items int) {
	if kind == "" {
		kind = "ok"
	}
	m.decodeOperationsTotal.WithLabelValues(operation, kind).Inc()
	m.itemsDecodedTotal.Add(float64(items))
}

// ObserveDecodeDuration records how long a decode request took
func (m *Metrics) ObserveDecodeDuration(operation string, duration time.Duration) {
	m.decodeDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordSnapshotOperation records a snapshot store operation
func (m *Metrics) RecordSnapshotOperation(operation string, success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.snapshotOperationsTotal.WithLabelValues(operation, status).Inc()
}

// UpdateSnapshotStats sets the stored snapshot count
func (m *Metrics) UpdateSnapshotStats(count int) {
	m.snapshotsTotal.Set(float64(count))
}

// RecordAuthRequest records an authentication request
func (m *Metrics) RecordAuthRequest(success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.authRequestsTotal.WithLabelValues(status).Inc()
}

// RecordHealthCheck records a health check
func (m *Metrics) RecordHealthCheck(success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.healthChecksTotal.WithLabelValues(status).Inc()
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler(rw, r)

		m.RecordHTTPRequest(method, endpoint, rw.statusCode, time.Since(start))
	}
}

// InstrumentAuthMiddleware instruments the authentication middleware
func (m *Metrics) InstrumentAuthMiddleware(next func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hasAPIKey := r.Header.Get("X-API-Key") != ""

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next(h).ServeHTTP(rw, r)

			if hasAPIKey {
				m.RecordAuthRequest(rw.statusCode != http.StatusUnauthorized)
			}
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
