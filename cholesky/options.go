// SPDX-License-Identifier: MIT

package cholesky

import (
	"io"
	"log/slog"
)

// Option configures an Engine.
type Option func(*options)

type options struct {
	solver  Solver
	logger  *slog.Logger
	metrics *Metrics
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func gatherOptions(opts ...Option) options {
	o := options{solver: defaultSolver(), logger: discardLogger}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

// WithSolver replaces the compiled-in backend. Passing nil yields a
// Degenerate engine, the same as a nocholesky build.
func WithSolver(s Solver) Option {
	return func(o *options) { o.solver = s }
}

// WithLogger routes the engine's warnings and timings to l.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records factorizations and solves in m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}
