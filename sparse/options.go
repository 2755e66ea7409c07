// SPDX-License-Identifier: MIT

// Package sparse: functional configuration shared by MapMatrix and CRSMatrix.
//
// Design goals:
//   - No global state: the diagnostic logger is injected, never read from the environment.
//   - Each flag changes behavior and is covered by tests.
//   - Option constructors panic only on nonsensical values (programmer error).
package sparse

import (
	"io"
	"log/slog"
	"math"
)

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultTolerance is the magnitude under which CRSMatrix.Add treats a
	// contribution as zero and skips the pattern lookup.
	DefaultTolerance = 1e-12

	// DefaultDropTolerance is the magnitude threshold used by ImportColumns
	// when the caller has no better value.
	DefaultDropTolerance = 1e-3

	// DefaultStrictTriangle keeps silent dropping of writes that fall outside
	// the stored triangle of a symmetric matrix.
	DefaultStrictTriangle = false

	// DefaultStrictPattern keeps pattern misses on CRSMatrix as logged no-ops.
	DefaultStrictPattern = false
)

const panicToleranceInvalid = "sparse: WithTolerance: tol must be finite and non-negative"

// Option mutates Options. Safe to apply repeatedly.
type Option func(*Options)

// Options collects the policy knobs of a matrix.
type Options struct {
	logger         *slog.Logger
	tolerance      float64
	strictTriangle bool
	strictPattern  bool
}

// discardLogger swallows every record; used when no logger is injected.
var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func defaultOptions() Options {
	return Options{
		logger:         discardLogger,
		tolerance:      DefaultTolerance,
		strictTriangle: DefaultStrictTriangle,
		strictPattern:  DefaultStrictPattern,
	}
}

// gatherOptions applies opts over the defaults.
func gatherOptions(opts ...Option) Options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

// WithLogger routes diagnostics (pattern misses, read warnings) to l.
// A nil logger keeps the discard default.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTolerance sets the magnitude under which CRSMatrix.Add skips a contribution.
func WithTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol < 0 {
		panic(panicToleranceInvalid)
	}

	return func(o *Options) { o.tolerance = tol }
}

// WithStrictTriangle makes writes outside the stored triangle of a symmetric
// matrix fail with ErrOutsideTriangle instead of being dropped.
func WithStrictTriangle(strict bool) Option {
	return func(o *Options) { o.strictTriangle = strict }
}

// WithStrictPattern makes CRSMatrix writes to positions absent from the
// pattern fail with ErrPatternMiss instead of logging and continuing.
func WithStrictPattern(strict bool) Option {
	return func(o *Options) { o.strictPattern = strict }
}
