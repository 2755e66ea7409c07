// SPDX-License-Identifier: MIT

package cholesky

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/katalvlaran/geosparse/sparse"
)

// State is the lifecycle stage of an Engine.
type State int

const (
	// Unbuilt: no valid factor (a Refactorize failed).
	Unbuilt State = iota
	// Factorized: ready to solve.
	Factorized
	// Degenerate: no solver is available; Solve always fails.
	Degenerate
	// Closed: resources released.
	Closed
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case Unbuilt:
		return "unbuilt"
	case Factorized:
		return "factorized"
	case Degenerate:
		return "degenerate"
	case Closed:
		return "closed"
	}

	return fmt.Sprintf("State(%d)", int(s))
}

// Engine factorizes one symmetric positive definite matrix and solves
// against it. It references, never copies, the matrix.
type Engine struct {
	a       *sparse.CRSMatrix[float64]
	solver  Solver
	session Session
	view    *View
	factor  Factor
	state   State
	log     *slog.Logger
	metrics *Metrics
}

// New analyzes and factorizes a.
// MAIN DESCRIPTION:
//   - a must be a valid, square CRSMatrix; otherwise sparse.ErrInvalidMatrix,
//     ErrNonSquare or ErrBadView.
//   - Without a solver, or when the session cannot start, the engine is
//     Degenerate: New logs one warning and returns it with a nil error.
//   - A failed factorization releases the session and returns
//     ErrNotPositiveDefinite (or the backend's error).
func New(a *sparse.CRSMatrix[float64], opts ...Option) (*Engine, error) {
	if a == nil {
		return nil, fmt.Errorf("cholesky.New: %w: nil matrix", ErrBadView)
	}
	if !a.Valid() {
		return nil, fmt.Errorf("cholesky.New: %w", sparse.ErrInvalidMatrix)
	}
	if a.Rows() != a.Cols() {
		return nil, fmt.Errorf("cholesky.New: %dx%d: %w", a.Rows(), a.Cols(), ErrNonSquare)
	}

	o := gatherOptions(opts...)
	e := &Engine{a: a, solver: o.solver, log: o.logger, metrics: o.metrics}

	if e.solver == nil {
		e.degrade("no direct solver compiled in", nil)
		return e, nil
	}
	session, err := e.solver.Start()
	if err != nil {
		e.degrade("solver session failed to start", err)
		return e, nil
	}
	e.session = session

	if err := e.build(); err != nil {
		_ = e.Close()
		return nil, fmt.Errorf("cholesky.New: %w", err)
	}

	return e, nil
}

// degrade switches e to Degenerate and reports it once.
func (e *Engine) degrade(reason string, err error) {
	e.state = Degenerate
	e.solver = nil
	attrs := []any{"reason", reason, "dim", e.a.Rows()}
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	e.log.Warn("direct solver unavailable; engine is degenerate", attrs...)
	e.metrics.observeDegenerate()
}

// build wraps a fresh view and runs analyze + factorize.
func (e *Engine) build() error {
	start := time.Now()
	view, err := NewView(e.a)
	if err != nil {
		return err
	}
	if err := view.Validate(); err != nil {
		return err
	}
	e.view = view

	factor, err := e.solver.Analyze(e.session, view)
	if err != nil {
		e.metrics.observeFactorize(resultFailed, time.Since(start))
		return fmt.Errorf("analyze: %w", err)
	}
	e.factor = factor

	if err := e.solver.Factorize(e.session, view, factor); err != nil {
		result := resultFailed
		if errors.Is(err, ErrNotPositiveDefinite) {
			result = resultNotPD
		}
		e.metrics.observeFactorize(result, time.Since(start))
		return fmt.Errorf("factorize: %w", err)
	}
	e.state = Factorized
	e.metrics.observeFactorize(resultOK, time.Since(start))
	e.log.Debug("factorized",
		"dim", view.NRow, "nnz", view.NZMax, "sorted", view.Sorted,
		"elapsed", time.Since(start))

	return nil
}

// usable maps the state to the error Solve and Refactorize report.
func (e *Engine) usable(method string) error {
	switch e.state {
	case Closed:
		return fmt.Errorf("Engine.%s: %w", method, ErrClosed)
	case Degenerate:
		return fmt.Errorf("Engine.%s: %w", method, ErrUnavailable)
	}

	return nil
}

// Solve writes the solution of A·x = rhs into dst. Both slices must have
// length Dim. A Degenerate engine returns ErrUnavailable and leaves both
// slices untouched; rhs is never modified.
func (e *Engine) Solve(rhs, dst []float64) error {
	if err := e.usable("Solve"); err != nil {
		return err
	}
	if e.state != Factorized {
		return fmt.Errorf("Engine.Solve: %w: no valid factor", ErrUnavailable)
	}
	n := e.view.NRow
	if len(rhs) != n || len(dst) != n {
		return fmt.Errorf("Engine.Solve: len(rhs)=%d len(dst)=%d, want %d: %w",
			len(rhs), len(dst), n, sparse.ErrDimensionMismatch)
	}

	start := time.Now()
	x, err := e.solver.Solve(e.session, e.factor, slices.Clone(rhs))
	if err != nil {
		return fmt.Errorf("Engine.Solve: %w", err)
	}
	copy(dst, x)
	e.metrics.observeSolve(time.Since(start))

	return nil
}

// SolveNew is Solve into a freshly allocated slice.
func (e *Engine) SolveNew(rhs []float64) ([]float64, error) {
	if err := e.usable("SolveNew"); err != nil {
		return nil, err
	}
	dst := make([]float64, len(rhs))
	if err := e.Solve(rhs, dst); err != nil {
		return nil, err
	}

	return dst, nil
}

// Refactorize re-reads the referenced matrix after its values (or pattern)
// changed: the old factor is freed, a new view is wrapped and analyze +
// factorize run again. On failure the engine is Unbuilt until the next
// successful Refactorize.
func (e *Engine) Refactorize() error {
	if err := e.usable("Refactorize"); err != nil {
		return err
	}
	if !e.a.Valid() {
		return fmt.Errorf("Engine.Refactorize: %w", sparse.ErrInvalidMatrix)
	}
	if e.a.Rows() != e.a.Cols() {
		return fmt.Errorf("Engine.Refactorize: %w", ErrNonSquare)
	}

	if e.factor != nil {
		if err := e.solver.FreeFactor(e.session, e.factor); err != nil {
			return fmt.Errorf("Engine.Refactorize: free factor: %w", err)
		}
		e.factor = nil
	}
	e.view = nil
	e.state = Unbuilt
	if err := e.build(); err != nil {
		return fmt.Errorf("Engine.Refactorize: %w", err)
	}

	return nil
}

// Close frees the factor, finishes the session and drops the view, in that
// order. The matrix is left alone. Close is idempotent.
func (e *Engine) Close() error {
	if e.state == Closed {
		return nil
	}
	var errs []error
	if e.factor != nil {
		if err := e.solver.FreeFactor(e.session, e.factor); err != nil {
			errs = append(errs, fmt.Errorf("free factor: %w", err))
		}
		e.factor = nil
	}
	if e.session != nil {
		if err := e.solver.Finish(e.session); err != nil {
			errs = append(errs, fmt.Errorf("finish: %w", err))
		}
		e.session = nil
	}
	e.view = nil
	e.state = Closed

	return errors.Join(errs...)
}

// State reports the lifecycle stage.
func (e *Engine) State() State { return e.state }

// Available reports whether Solve can succeed.
func (e *Engine) Available() bool { return e.state == Factorized }

// Dim is the order of the matrix.
func (e *Engine) Dim() int { return e.a.Rows() }

// NNZ is the number of stored entries of the matrix.
func (e *Engine) NNZ() int { return e.a.NNZ() }

// View exposes the current view, nil when none is wrapped.
func (e *Engine) View() *View { return e.view }
