// Package mesh defines core types, options, and sentinel errors
// for the mesh subpackage of github.com/katalvlaran/geosparse.
package mesh

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r3"
)

// Sentinel errors for mesh operations.
var (
	// ErrEmptyGrid indicates input grid has no rows or no columns.
	ErrEmptyGrid = errors.New("mesh: input grid must have at least one row and one column")
	// ErrNonRectangular indicates rows of differing lengths.
	ErrNonRectangular = errors.New("mesh: all rows must have the same length")
	// ErrBadDimension indicates a spatial dimension outside 1..3.
	ErrBadDimension = errors.New("mesh: dimension must be 1, 2 or 3")
	// ErrBadSpacing indicates a non-positive or non-finite grid spacing.
	ErrBadSpacing = errors.New("mesh: spacing must be finite and > 0")
	// ErrNodeIndex indicates a node id outside [0, NodeCount).
	ErrNodeIndex = errors.New("mesh: node index out of range")
	// ErrCellIndex indicates a cell id outside [0, CellCount).
	ErrCellIndex = errors.New("mesh: cell index out of range")
	// ErrCellShape indicates a cell whose node count is not dim+1 or that
	// repeats a node.
	ErrCellShape = errors.New("mesh: cell is not a simplex of the mesh dimension")
)

// Split selects how a grid square is cut into two triangles.
type Split int

const (
	// SplitForward cuts every square along the (x,y)-(x+1,y+1) diagonal.
	SplitForward Split = iota
	// SplitAlternate flips the diagonal on every other square (checkerboard),
	// which avoids a preferred direction in the discretization.
	SplitAlternate
)

// Node is a mesh vertex.
type Node struct {
	ID  int
	Pos r3.Vec
}

// Cell is a simplex: a segment, triangle or tetrahedron depending on the
// mesh dimension. Marker carries a region attribute (e.g. the grid value it
// was generated from) used to look up per-cell parameters.
type Cell struct {
	ID     int
	Nodes  []int
	Marker int
}

// GridOptions contains tunable parameters for structured 2D grid meshing.
type GridOptions struct {
	// Threshold is the minimum cell value that is meshed; smaller values
	// (e.g. air above topography) are left out.
	Threshold int
	// Spacing is the edge length of a grid square.
	Spacing float64
	// Origin is the position of grid point (0, 0).
	Origin r3.Vec
	// Split chooses the triangle split pattern.
	Split Split
}

// DefaultGridOptions returns GridOptions with Threshold=1, Spacing=1,
// Origin at zero and SplitForward.
func DefaultGridOptions() GridOptions {
	return GridOptions{
		Threshold: 1,
		Spacing:   1,
		Split:     SplitForward,
	}
}
