// Package middleware provides HTTP middleware shared across the server,
// currently Prometheus metrics collection.
package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Diagnosis pipeline metrics
	diagnosisJobsTotal  *prometheus.CounterVec
	diagnosisDuration   prometheus.Histogram
	uploadBytesTotal    prometheus.Counter
)

// InitMetrics initializes Prometheus metrics collectors. Call once during
// startup before MetricsMiddleware.
func InitMetrics() {
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
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	diagnosisJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagnosis_jobs_total",
			Help: "Total number of diagnosis jobs processed",
		},
		[]string{"status"},
	)

	diagnosisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "diagnosis_duration_seconds",
			Help:    "Diagnosis job processing duration in seconds",
			Buckets: []float64{0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0, 120.0},
		},
	)

	uploadBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "upload_bytes_total",
			Help: "Total bytes of images uploaded",
		},
	)
}

// MetricsMiddleware records request count, latency, and in-flight gauge for
// every route except /metrics itself.
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Path() == "/metrics" || httpRequestsTotal == nil {
				return next(c)
			}

			start := time.Now()
			httpRequestsInFlight.Inc()
			defer httpRequestsInFlight.Dec()

			err := next(c)

			duration := time.Since(start).Seconds()
			method := c.Request().Method
			path := c.Path()
			status := strconv.Itoa(c.Response().Status)

			httpRequestsTotal.WithLabelValues(method, path, status).Inc()
			httpRequestDuration.WithLabelValues(method, path).Observe(duration)

			return err
		}
	}
}

// RecordDiagnosisJob records completion of one diagnosis job.
func RecordDiagnosisJob(status string, duration time.Duration) {
	if diagnosisJobsTotal == nil {
		return
	}
	diagnosisJobsTotal.WithLabelValues(status).Inc()
	diagnosisDuration.Observe(duration.Seconds())
}

// RecordUploadBytes records the size of an uploaded image.
func RecordUploadBytes(n int64) {
	if uploadBytesTotal == nil || n <= 0 {
		return
	}
	uploadBytesTotal.Add(float64(n))
}
