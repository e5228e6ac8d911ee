// Package metrics holds the Prometheus collectors exported by the server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const namespace = "topsis"

// Outcomes recorded against Requests.
const (
	OutcomeOK           = "ok"
	OutcomeInvalidInput = "invalid_input"
	OutcomeError        = "error"
)

// Registry owns its own prometheus.Registry so several servers, or tests,
// never collide on the global default one.
type Registry struct {
	reg *prometheus.Registry

	Requests     *prometheus.CounterVec
	Duration     *prometheus.HistogramVec
	Alternatives prometheus.Histogram
}

func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),

		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Scoring requests by route and outcome",
			},
			[]string{"route", "outcome"},
		),

		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Time spent scoring a request in seconds",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
			},
			[]string{"route"},
		),

		Alternatives: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "alternatives",
				Help:      "Number of alternatives per scored request",
				Buckets:   prometheus.ExponentialBuckets(2, 4, 8),
			},
		),
	}

	r.reg.MustRegister(
		r.Requests,
		r.Duration,
		r.Alternatives,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// Timer tracks one request against a route.
type Timer struct {
	metrics *Registry
	route   string
	start   time.Time
}

func (r *Registry) StartTimer(route string) *Timer {
	return &Timer{
		metrics: r,
		route:   route,
		start:   time.Now(),
	}
}

// Stop records the elapsed time and counts the request under outcome.
func (t *Timer) Stop(outcome string) {
	duration := time.Since(t.start)
	t.metrics.Duration.WithLabelValues(t.route).Observe(duration.Seconds())
	t.metrics.Requests.WithLabelValues(t.route, outcome).Inc()

	log.Debug().
		Str("route", t.route).
		Str("outcome", outcome).
		Dur("duration", duration).
		Msg("Request scored")
}

func (r *Registry) ObserveAlternatives(n int) {
	r.Alternatives.Observe(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}
