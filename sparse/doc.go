// SPDX-License-Identifier: MIT

// Package sparse provides the two sparse matrix representations used by the
// geosparse finite-element toolkit and the conversions between them.
//
// What:
//
//   - MapMatrix: ordered (row, col) -> value storage for incremental assembly
//     (triplets, element scatter, imported column blocks).
//   - CRSMatrix: compressed row storage with a frozen pattern for fast
//     multiply and direct-solver input.
//   - Symmetry tags (Full, Lower, Upper) with one multiply kernel shared by
//     both forms; symmetric matrices store one triangle and mirror it.
//
// Typical hot path:
//
//	A := sparse.NewCRSMatrix[float64](sparse.Full, sparse.WithLogger(log))
//	_ = A.FillStiffness(mesh, assembler, conductivity) // symbolic + numeric
//	y, _ := A.Mul(x)
//
// Ownership:
//
//   - CRSMatrix exposes Ptr/Index/Values by reference. A solver view that
//     aliases them must not outlive the matrix; rebuilding the pattern
//     replaces the arrays and requires the view to be rebuilt.
//
// Errors:
//
//   - ErrOutOfRange, ErrDimensionMismatch, ErrInvalidMatrix, ErrNotImplemented,
//     ErrOutsideTriangle, ErrPatternMiss, ErrMalformedInput, ErrNilArgument.
//     All are wrapped with receiver, method and indices; match with errors.Is.
//
// Persistence:
//
//   - MapMatrix text: "row\tcol\tvalue" per nonzero, loadable with LoadMapMatrix.
//   - CRSMatrix text: same columns, "%.14e" values, storage order.
//   - Binary column blocks: uint32 rows, uint32 cols, then row-major values,
//     merged with MapMatrix.ImportColumns.
//
// Concurrency: matrices are not safe for concurrent mutation.
package sparse
