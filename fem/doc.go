// SPDX-License-Identifier: MIT

// Package fem computes finite-element matrices for the simplices of a
// mesh.Mesh and hands them to sparse assembly.
//
// What:
//
//   - ElementMatrix: dense per-cell block plus local-to-global node map; it
//     implements sparse.ElementMatrix.
//   - Assembler: linear (P1) "gradient-gradient" stiffness and "value-value"
//     mass operators on segments, triangles and tetrahedra; it implements
//     sparse.ElementFiller, so
//
//	a, _ := fem.NewAssembler(m)
//	K := sparse.NewCRSMatrix[float64](sparse.Full)
//	_ = K.FillStiffness(m, a, m.CellScale(conductivity, 1))
//
// Geometry:
//
//   - Hat-function gradients come from inverting the barycentric system
//     [1 x y z] with gonum/mat; the cell measure is |det|/d!.
//
// Errors:
//
//   - ErrDegenerateCell, ErrUnsupportedCell, ErrOutOfRange, ErrNilMesh.
package fem
