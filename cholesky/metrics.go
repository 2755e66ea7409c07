// SPDX-License-Identifier: MIT

package cholesky

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Factorization outcomes used as the "result" label.
const (
	resultOK     = "ok"
	resultNotPD  = "not_positive_definite"
	resultFailed = "error"
)

// Metrics holds the engine's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	factorizations   *prometheus.CounterVec
	factorizeSeconds prometheus.Histogram
	solveSeconds     prometheus.Histogram
	degenerate       prometheus.Counter
}

// NewMetrics registers the engine collectors on reg.
// Registering twice on the same registry panics, as with promauto.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		factorizations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geosparse",
			Subsystem: "cholesky",
			Name:      "factorizations_total",
			Help:      "Numeric factorizations by result",
		}, []string{"result"}),
		factorizeSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "geosparse",
			Subsystem: "cholesky",
			Name:      "factorize_duration_seconds",
			Help:      "Analyze plus factorize wall time",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
		}),
		solveSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "geosparse",
			Subsystem: "cholesky",
			Name:      "solve_duration_seconds",
			Help:      "Triangular solve wall time per right-hand side",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		degenerate: f.NewCounter(prometheus.CounterOpts{
			Namespace: "geosparse",
			Subsystem: "cholesky",
			Name:      "degenerate_total",
			Help:      "Engines constructed without a usable solver",
		}),
	}
}

func (m *Metrics) observeFactorize(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.factorizations.WithLabelValues(result).Inc()
	m.factorizeSeconds.Observe(d.Seconds())
}

func (m *Metrics) observeSolve(d time.Duration) {
	if m == nil {
		return
	}
	m.solveSeconds.Observe(d.Seconds())
}

func (m *Metrics) observeDegenerate() {
	if m == nil {
		return
	}
	m.degenerate.Inc()
}

// Degenerate exposes the degenerate-engine counter.
func (m *Metrics) Degenerate() prometheus.Counter { return m.degenerate }

// Factorizations exposes the factorization counter for one result label
// ("ok", "not_positive_definite" or "error").
func (m *Metrics) Factorizations(result string) prometheus.Counter {
	return m.factorizations.WithLabelValues(result)
}
