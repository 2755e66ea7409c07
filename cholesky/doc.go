// SPDX-License-Identifier: MIT

// Package cholesky drives a direct sparse Cholesky solver over a
// sparse.CRSMatrix[float64] without copying it.
//
// What:
//
//   - Engine: one factorization of one matrix. New analyzes and factorizes,
//     Solve answers any number of right-hand sides, Refactorize picks up
//     value changes, Close releases everything.
//   - View: the only contact point with a backend. It aliases the matrix's
//     ptr/index/values arrays and says which triangle the backend must read.
//   - Solver: the capability a backend implements (start a session,
//     analyze, factorize, solve, free a factor, finish the session).
//
// Ownership:
//
//   - The matrix belongs to the caller and must outlive the Engine.
//     Mutating its values requires Refactorize before the next Solve.
//   - Backend factor storage belongs to the backend.
//   - Teardown runs factor → session → view, and never touches the matrix.
//
// Backends:
//
//   - By default the gonum backend is compiled in: reverse Cuthill–McKee
//     ordering (package ordering) followed by mat.BandCholesky on the
//     permuted band.
//   - Building with the nocholesky tag leaves no default backend. Engines
//     are then Degenerate: construction succeeds, logs a single warning,
//     and every Solve returns ErrUnavailable.
//
// An Engine is not safe for concurrent use.
package cholesky
