package ioc

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus collectors a Container reports to.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registrations *prometheus.CounterVec
	resolutions   *prometheus.CounterVec
	duration      prometheus.Histogram
}

// NewMetrics creates the container collectors and registers them on reg.
// Pass nil to create unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ioc",
			Name:      "registrations_total",
			Help:      "Services registered in the container, by registration mode.",
		}, []string{"mode"}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ioc",
			Name:      "resolutions_total",
			Help:      "Service resolutions, by how the instance was produced and outcome.",
		}, []string{"source", "result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ioc",
			Name:      "resolve_duration_seconds",
			Help:      "Latency of top-level Resolve calls, including the whole dependency graph.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.registrations, m.resolutions, m.duration)
	}
	return m
}

func (m *Metrics) registered(mode Mode) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(mode.String()).Inc()
}

func (m *Metrics) resolved(source string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.resolutions.WithLabelValues(source, result).Inc()
}

func (m *Metrics) observe(start time.Time) {
	if m == nil {
		return
	}
	m.duration.Observe(time.Since(start).Seconds())
}
