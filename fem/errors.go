// SPDX-License-Identifier: MIT

package fem

import "errors"

var (
	// ErrOutOfRange indicates a local index outside [0, Size()).
	ErrOutOfRange = errors.New("fem: local index out of range")

	// ErrDegenerateCell indicates a cell with (numerically) zero measure.
	ErrDegenerateCell = errors.New("fem: degenerate cell")

	// ErrUnsupportedCell indicates a cell that is not a simplex of the mesh dimension.
	ErrUnsupportedCell = errors.New("fem: unsupported cell shape")

	// ErrNilMesh indicates a nil mesh passed to NewAssembler.
	ErrNilMesh = errors.New("fem: mesh is nil")
)
