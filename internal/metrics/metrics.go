// Package metrics provides Prometheus instruments for network computation
// and the read API.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pable/go-passnet/internal/network"
)

const namespace = "passnet"

// Recorder holds the registered instruments.
type Recorder struct {
	networksComputed prometheus.Counter
	computeFailures  *prometheus.CounterVec
	computeDuration  prometheus.Histogram
	passesAnalyzed   prometheus.Counter
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// New creates the instruments and registers them with reg.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		networksComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "networks_computed_total",
			Help:      "Pass networks computed successfully.",
		}),
		computeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "network_failures_total",
			Help:      "Pass network computations that failed, by error kind.",
		}, []string{"kind"}),
		computeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "network_compute_seconds",
			Help:      "Time spent computing one pass network.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		passesAnalyzed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "passes_analyzed_total",
			Help:      "Passes fed into successful network computations.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
	reg.MustRegister(
		r.networksComputed, r.computeFailures, r.computeDuration,
		r.passesAnalyzed, r.httpRequests, r.httpDuration,
	)
	return r
}

// ObserveCompute records one computation of passes passes that took d.
func (r *Recorder) ObserveCompute(passes int, d time.Duration, err error) {
	r.computeDuration.Observe(d.Seconds())
	if err != nil {
		r.computeFailures.WithLabelValues(ErrorKind(err)).Inc()
		return
	}
	r.networksComputed.Inc()
	r.passesAnalyzed.Add(float64(passes))
}

// ObserveRequest records one HTTP request.
func (r *Recorder) ObserveRequest(route string, code int, d time.Duration) {
	r.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	r.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

// ErrorKind maps a network error to a metric label.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, network.ErrValidation):
		return "validation"
	case errors.Is(err, network.ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, network.ErrDivisionByZero):
		return "division_by_zero"
	case errors.Is(err, network.ErrInvalidConfig):
		return "invalid_config"
	default:
		return "other"
	}
}
