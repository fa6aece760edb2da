package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mogaika/anm_browser/status"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	codecOperationsTotal   *prometheus.CounterVec
	codecOperationDuration *prometheus.HistogramVec
	codecFileBytes         *prometheus.HistogramVec
}

// registered once, promauto panics on duplicate registration
var metrics = newMetrics()

func newMetrics() *Metrics {
	m := &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "anm_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status_code"},
		),
		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "anm_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		codecOperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "anm_codec_operations_total",
				Help: "Total number of animation file decode, index and encode operations",
			},
			[]string{"operation", "status"},
		),
		codecOperationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "anm_codec_operation_duration_seconds",
				Help:    "Animation codec operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		codecFileBytes: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "anm_codec_file_bytes",
				Help:    "Size of served and stored animation files",
				Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
			},
			[]string{"operation"},
		),
	}

	promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "anm_status_clients",
			Help: "Number of connected status websocket clients",
		},
		func() float64 { return float64(status.Clients()) },
	)

	return m
}

func (m *Metrics) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) RecordCodecOperation(operation string, err error, duration time.Duration) {
	result := statusSuccess
	if err != nil {
		result = statusError
	}
	m.codecOperationsTotal.WithLabelValues(operation, result).Inc()
	m.codecOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *Metrics) RecordFileSize(operation string, size int) {
	m.codecFileBytes.WithLabelValues(operation).Observe(float64(size))
}

func (m *Metrics) InstrumentHandler(route string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler(rw, r)
		m.RecordHTTPRequest(r.Method, route, rw.statusCode, time.Since(start))
	}
}

// responseWriter captures the status code for metrics
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
