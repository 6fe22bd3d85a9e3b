package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Abhi4906/mini-crm/pkg/config"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthSuccessCounter  prometheus.Counter
	AuthErrorsCounter   prometheus.Counter

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Resource operation metrics
	CustomerOperationsCounter prometheus.CounterVec
	LeadOperationsCounter     prometheus.CounterVec
)

// InitMetrics initializes Prometheus metrics with configuration.
func InitMetrics(config *config.Config) {
	prefix := config.Metrics.Prefix

	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	AuthAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
	)

	AuthSuccessCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_success_total",
			Help: "Total number of successful authentications",
		},
	)

	AuthErrorsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
	)

	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	CustomerOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_customer_operations_total",
			Help: "Total number of customer operations",
		},
		[]string{"operation"},
	)

	LeadOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_lead_operations_total",
			Help: "Total number of lead operations",
		},
		[]string{"operation"},
	)
}

// TrackDBOperation returns a function that records the duration of a
// database operation. Before InitMetrics runs the observation is dropped,
// so store code stays usable without metrics wiring.
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if DbOperationDuration.MetricVec == nil {
			return
		}
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordCustomerOperation increments the counter for customer operations.
func RecordCustomerOperation(operation string) {
	if CustomerOperationsCounter.MetricVec == nil {
		return
	}
	CustomerOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordLeadOperation increments the counter for lead operations.
func RecordLeadOperation(operation string) {
	if LeadOperationsCounter.MetricVec == nil {
		return
	}
	LeadOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordAuthAttempt counts one authentication attempt.
func RecordAuthAttempt() {
	if AuthAttemptsCounter != nil {
		AuthAttemptsCounter.Inc()
	}
}

// RecordAuthSuccess counts one successful authentication.
func RecordAuthSuccess() {
	if AuthSuccessCounter != nil {
		AuthSuccessCounter.Inc()
	}
}

// RecordAuthError counts one failed authentication.
func RecordAuthError() {
	if AuthErrorsCounter != nil {
		AuthErrorsCounter.Inc()
	}
}
