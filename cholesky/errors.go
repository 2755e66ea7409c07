// SPDX-License-Identifier: MIT

package cholesky

import "errors"

// Sentinel errors for the factorization engine. Match with errors.Is.
var (
	// ErrUnavailable is returned by Solve on an engine without a usable solver,
	// or on one whose last Refactorize failed.
	ErrUnavailable = errors.New("cholesky: direct solver unavailable")

	// ErrNotPositiveDefinite is returned when numeric factorization fails.
	ErrNotPositiveDefinite = errors.New("cholesky: matrix is not positive definite")

	// ErrNonSquare is returned for matrices with rows != cols.
	ErrNonSquare = errors.New("cholesky: matrix is not square")

	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("cholesky: engine is closed")

	// ErrBadView is returned when a View cannot describe the matrix
	// (nil, empty, or inconsistent arrays).
	ErrBadView = errors.New("cholesky: invalid matrix view")
)
