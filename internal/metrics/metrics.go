package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors are registered by Init. Every recorder below tolerates running
// first: before Init the recorders are no-ops, so a code path exercised
// without metrics wiring never panics.
var (
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	authAttemptsCounter prometheus.Counter
	authSuccessCounter  prometheus.Counter
	authErrorsCounter   prometheus.Counter

	guardDenialsCounter prometheus.Counter

	dbOperationDuration *prometheus.HistogramVec

	accessMutationsCounter    *prometheus.CounterVec
	orderTransitionsCounter   *prometheus.CounterVec
	inventoryOperationsTotals *prometheus.CounterVec
)

// Init registers all collectors under the given prefix. Call once at startup.
func Init(prefix string) {
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	authAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
	)

	authSuccessCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_success_total",
			Help: "Total number of successful authentications",
		},
	)

	authErrorsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
	)

	guardDenialsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_guard_denials_total",
			Help: "Total number of requests rejected by the company guard",
		},
	)

	dbOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	accessMutationsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_access_mutations_total",
			Help: "Total number of company access grants, revokes and role changes",
		},
		[]string{"operation"},
	)

	orderTransitionsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_order_transitions_total",
			Help: "Total number of order status transitions",
		},
		[]string{"from", "to", "outcome"},
	)

	inventoryOperationsTotals = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_inventory_operations_total",
			Help: "Total number of inventory operations",
		},
		[]string{"operation"},
	)
}

// RecordHTTPRequest counts one served request and its latency.
func RecordHTTPRequest(method, path, status string, seconds float64) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(seconds)
}

func RecordAuthAttempt() {
	if authAttemptsCounter != nil {
		authAttemptsCounter.Inc()
	}
}

func RecordAuthSuccess() {
	if authSuccessCounter != nil {
		authSuccessCounter.Inc()
	}
}

func RecordAuthError() {
	if authErrorsCounter != nil {
		authErrorsCounter.Inc()
	}
}

func RecordGuardDenial() {
	if guardDenialsCounter != nil {
		guardDenialsCounter.Inc()
	}
}

// TrackDBOperation returns a function that records the duration of a database
// operation: defer TrackDBOperation("insert_order")(time.Now()).
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if dbOperationDuration == nil {
			return
		}
		dbOperationDuration.WithLabelValues(operationType).Observe(time.Since(startTime).Seconds())
	}
}

// RecordAccessMutation increments the counter for access mutations
func RecordAccessMutation(operation string) {
	if accessMutationsCounter != nil {
		accessMutationsCounter.WithLabelValues(operation).Inc()
	}
}

// RecordOrderTransition increments the counter for order status transitions
func RecordOrderTransition(from, to, outcome string) {
	if orderTransitionsCounter != nil {
		orderTransitionsCounter.WithLabelValues(from, to, outcome).Inc()
	}
}

// RecordInventoryOperation increments the counter for inventory operations
func RecordInventoryOperation(operation string) {
	if inventoryOperationsTotals != nil {
		inventoryOperationsTotals.WithLabelValues(operation).Inc()
	}
}
