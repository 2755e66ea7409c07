// Package mesh provides the in-memory simplex mesh consumed by sparse
// assembly, plus structured generators for tests and the command line.
//
// What:
//
//   - Mesh holds nodes (gonum r3.Vec positions) and simplex cells (segments,
//     triangles or tetrahedra) with an integer region marker.
//   - NewGrid2D turns a rectangular [][]int of cell values into triangles,
//     leaving out squares below a threshold (e.g. air above topography).
//   - NewGrid3D cuts a block of cubes into tetrahedra; NewLine builds 1D segments.
//   - CellScale maps region markers to per-cell factors for FillStiffness.
//
// Complexity:
//
//   - NewGrid2D: O(W×H); NewGrid3D: O(nx·ny·nz); AddCell: O(dim²).
//
// Errors:
//
//   - ErrEmptyGrid, ErrNonRectangular, ErrBadSpacing: invalid generator input.
//   - ErrBadDimension, ErrCellShape, ErrNodeIndex, ErrCellIndex: invalid construction or lookup.
package mesh
