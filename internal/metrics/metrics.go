package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"candidate-tracking-backend/pkg/apperror"
)

// Metrics provides observability for candidate operations and the HTTP edge.
type Metrics struct {
	CandidatesCreated  prometheus.Counter
	OperationsTotal    *prometheus.CounterVec
	OperationDuration  *prometheus.HistogramVec
	HTTPRequestsTotal  *prometheus.CounterVec
	HTTPRequestLatency *prometheus.HistogramVec
	RateLimitRejected  *prometheus.CounterVec
}

var durationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// New registers every metric on reg. Tests pass a fresh prometheus.Registry.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CandidatesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "candidates_created_total",
			Help: "Total number of candidates created",
		}),
		OperationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "candidate_operations_total",
			Help: "Candidate service calls by operation and outcome",
		}, []string{"operation", "outcome"}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "candidate_operation_duration_seconds",
			Help:    "Duration of candidate service calls",
			Buckets: durationBuckets,
		}, []string{"operation"}),
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),
		HTTPRequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: durationBuckets,
		}, []string{"method", "route"}),
		RateLimitRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rate_limit_rejected_total",
			Help: "Requests rejected by the rate limiter",
		}, []string{"route"}),
	}
}

// ObserveOperation records one service call. Call with time.Now() taken at
// the start of the operation. A nil receiver records nothing.
func (m *Metrics) ObserveOperation(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.OperationsTotal.WithLabelValues(operation, Outcome(err)).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementCandidatesCreated() {
	if m == nil {
		return
	}
	m.CandidatesCreated.Inc()
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) IncrementRateLimited(route string) {
	if m == nil {
		return
	}
	m.RateLimitRejected.WithLabelValues(route).Inc()
}

// Outcome labels err by its error kind.
func Outcome(err error) string {
	if err == nil {
		return "success"
	}
	var (
		validationErr   *apperror.ValidationError
		notFoundErr     *apperror.NotFoundError
		conflictErr     *apperror.ConflictError
		preconditionErr *apperror.PreconditionFailedError
		databaseErr     *apperror.DatabaseError
	)
	switch {
	case errors.As(err, &validationErr):
		return "validation_error"
	case errors.As(err, &notFoundErr):
		return "not_found"
	case errors.As(err, &conflictErr):
		return "conflict"
	case errors.As(err, &preconditionErr):
		return "precondition_failed"
	case errors.As(err, &databaseErr):
		return "database_error"
	default:
		return "error"
	}
}
