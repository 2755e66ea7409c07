// SPDX-License-Identifier: MIT

package cholesky

// Session is the backend's working state, created by Start and released by
// Finish. Its contents are private to the backend.
type Session any

// Factor is an analyzed (and, after Factorize, numerically factorized)
// decomposition owned by the backend.
type Factor any

// Solver is the capability a direct sparse Cholesky backend provides.
// Calls arrive in the order Start, Analyze, Factorize, Solve*, FreeFactor,
// Finish; Analyze/Factorize may repeat after FreeFactor.
type Solver interface {
	// Start opens a session.
	Start() (Session, error)
	// Analyze computes the symbolic factorization of the view's pattern.
	Analyze(s Session, v *View) (Factor, error)
	// Factorize computes numeric values; failure wraps ErrNotPositiveDefinite.
	Factorize(s Session, v *View, f Factor) error
	// Solve returns x with A·x = b. The result is backend-owned until the
	// next call on f.
	Solve(s Session, f Factor, b []float64) ([]float64, error)
	// FreeFactor releases f.
	FreeFactor(s Session, f Factor) error
	// Finish closes the session.
	Finish(s Session) error
}

// DefaultSolver returns the backend compiled into this build, or nil when
// built with the nocholesky tag.
func DefaultSolver() Solver { return defaultSolver() }
