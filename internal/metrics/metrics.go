// Package metrics exposes faucet counters in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the faucet collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry     *prometheus.Registry
	requests     *prometheus.CounterVec
	challenges   prometheus.Counter
	disbursement prometheus.Histogram
}

// New registers the faucet collectors on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "faucet",
			Name:      "requests_total",
			Help:      "Token requests by outcome.",
		}, []string{"outcome"}),
		challenges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "faucet",
			Name:      "challenges_issued_total",
			Help:      "CAPTCHA questions handed out.",
		}),
		disbursement: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "faucet",
			Name:      "disbursement_seconds",
			Help:      "Time from submission to confirmation of a transfer.",
			Buckets:   []float64{1, 2, 5, 10, 20, 30, 60, 120},
		}),
	}

	m.registry.MustRegister(
		m.requests,
		m.challenges,
		m.disbursement,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRequest counts a finished token request
func (m *Metrics) ObserveRequest(outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(outcome).Inc()
}

// IncChallenges counts an issued question
func (m *Metrics) IncChallenges() {
	if m == nil {
		return
	}
	m.challenges.Inc()
}

// ObserveDisbursement records submit-to-confirm latency
func (m *Metrics) ObserveDisbursement(d time.Duration) {
	if m == nil {
		return
	}
	m.disbursement.Observe(d.Seconds())
}

// Handler serves the registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests and extra collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
