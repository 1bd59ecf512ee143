// Package prometheus implements the harness metrics interfaces on
// prometheus/client_golang.
package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsilhan/seqmock/core/expect"
	"github.com/jsilhan/seqmock/core/metrics"
)

// Dispatch latency sits in the microsecond range, well below the default
// HTTP-oriented buckets.
var defaultBuckets = prometheus.ExponentialBuckets(1e-6, 10, 8)

// dispatchMetrics implements expect.Metrics using Prometheus.
type dispatchMetrics struct {
	dispatchDuration prometheus.Histogram
	dispatchesTotal  *prometheus.CounterVec
}

// NewDispatchMetrics creates a Prometheus implementation of expect.Metrics
// and registers its collectors with reg.
func NewDispatchMetrics(reg prometheus.Registerer) expect.Metrics {
	m := &dispatchMetrics{
		dispatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "seqmock_dispatch_duration_seconds",
			Help:    "Dispatch resolution time in seconds",
			Buckets: defaultBuckets,
		}),

		dispatchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "seqmock_dispatches_total",
			Help: "Total number of dispatched messages by outcome",
		}, []string{"message_type", "outcome"}),
	}

	reg.MustRegister(
		m.dispatchDuration,
		m.dispatchesTotal,
	)

	return m
}

func (m *dispatchMetrics) DispatchDuration() metrics.Timer {
	return newTimer(m.dispatchDuration)
}

func (m *dispatchMetrics) Dispatched(msgType string, outcome string) {
	m.dispatchesTotal.WithLabelValues(msgType, outcome).Inc()
}

var _ expect.Metrics = (*dispatchMetrics)(nil)

// timer adapts prometheus.Timer to metrics.Timer.
type timer struct {
	t *prometheus.Timer
}

func (t timer) ObserveDuration() { t.t.ObserveDuration() }

func newTimer(o prometheus.Observer) metrics.Timer {
	return timer{t: prometheus.NewTimer(o)}
}
