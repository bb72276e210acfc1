// Package metrics exposes Prometheus instrumentation for staking operations.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/canopy-network/stakex/pkg/staking"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "stakex"

// Staking holds the collectors of one process.
type Staking struct {
	registry *prometheus.Registry

	submissions *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	steps       *prometheus.CounterVec
	requests    *prometheus.CounterVec
}

var (
	_ staking.SubmissionObserver = (*Staking)(nil)
	_ staking.StepObserver       = (*Staking)(nil)
)

// New registers the staking collectors, plus the Go and process collectors,
// on a private registry.
func New() *Staking {
	reg := prometheus.NewRegistry()
	m := &Staking{
		registry: reg,
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_total",
			Help:      "Staking transactions submitted, by method and result.",
		}, []string{"method", "result"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transaction_seconds",
			Help:      "Time from signing to committed outcome.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40},
		}, []string{"method"}),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Completed operation steps.",
		}, []string{"operation", "step"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "API requests by route and status code class.",
		}, []string{"route", "code"}),
	}
	reg.MustRegister(
		m.submissions, m.latency, m.steps, m.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveSubmission records a transaction result.
func (m *Staking) ObserveSubmission(_, method string, elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.submissions.WithLabelValues(method, result).Inc()
	m.latency.WithLabelValues(method).Observe(elapsed.Seconds())
}

// OnStep counts a completed step.
func (m *Staking) OnStep(_ context.Context, ev staking.StepEvent) {
	m.steps.WithLabelValues(string(ev.Operation), string(ev.Step)).Inc()
}

// ObserveRequest counts an API request.
func (m *Staking) ObserveRequest(route string, status int) {
	code := "2xx"
	switch {
	case status >= 500:
		code = "5xx"
	case status >= 400:
		code = "4xx"
	case status >= 300:
		code = "3xx"
	}
	m.requests.WithLabelValues(route, code).Inc()
}

// Registry exposes the registry for gathering in tests.
func (m *Staking) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Staking) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
