// Package metrics provides Prometheus metrics for the content engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// MetricsNamespace is the namespace for all content engine metrics.
	MetricsNamespace = "content_engine"
)

// Metrics holds all Prometheus metrics for the resolution engine.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestsActive  prometheus.Gauge

	// Resolution metrics
	TierAttemptsTotal *prometheus.CounterVec
	TierWinsTotal     *prometheus.CounterVec
	TierErrorsTotal   *prometheus.CounterVec
	EmptyResolutions  prometheus.Counter

	// Storage metrics
	RetriesTotal prometheus.Counter
}

// New creates and registers all content engine metrics.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)
	m := &Metrics{}

	m.RequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	m.RequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		},
		[]string{"method", "path"},
	)

	m.RequestsActive = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Subsystem: "http",
			Name:      "requests_active",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	m.TierAttemptsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Subsystem: "resolver",
			Name:      "tier_attempts_total",
			Help:      "Total number of tier queries attempted",
		},
		[]string{"tier"},
	)

	m.TierWinsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Subsystem: "resolver",
			Name:      "tier_wins_total",
			Help:      "Total number of resolutions won per tier",
		},
		[]string{"tier"},
	)

	m.TierErrorsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Subsystem: "resolver",
			Name:      "tier_errors_total",
			Help:      "Total number of tier queries that failed and were skipped",
		},
		[]string{"tier"},
	)

	m.EmptyResolutions = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Subsystem: "resolver",
			Name:      "empty_resolutions_total",
			Help:      "Total number of resolutions where every tier came back empty",
		},
	)

	m.RetriesTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Subsystem: "storage",
			Name:      "retries_total",
			Help:      "Total number of retries on transient storage contention",
		},
	)

	return m
}

// TierAttempt implements resolver.Observer.
func (m *Metrics) TierAttempt(tier string) {
	m.TierAttemptsTotal.WithLabelValues(tier).Inc()
}

// TierWin implements resolver.Observer.
func (m *Metrics) TierWin(tier string) {
	m.TierWinsTotal.WithLabelValues(tier).Inc()
}

// TierError implements resolver.Observer.
func (m *Metrics) TierError(tier string) {
	m.TierErrorsTotal.WithLabelValues(tier).Inc()
}

// EmptyResolution implements resolver.Observer.
func (m *Metrics) EmptyResolution() {
	m.EmptyResolutions.Inc()
}
