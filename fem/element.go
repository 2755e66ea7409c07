// SPDX-License-Identifier: MIT

// Package fem - ElementMatrix: dense local block with a local-to-global map.
//
// Purpose:
//   - Row-major buffer with the index formula i*n + j, sized for one cell.
//   - Safe accessors (Get/Set) return errors; At is the unchecked read used
//     by the assembly hot loop through sparse.ElementMatrix.
//   - Reset reuses the buffer so one ElementMatrix serves every cell.
//
// Complexity quicksheet:
//   - Reset: O(n²); At/Get/Set: O(1).

package fem

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/geosparse/sparse"
)

const (
	ctxGet = "Get"
	ctxSet = "Set"
)

// elementErrorf wraps err with the accessor name and local coordinates.
func elementErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("ElementMatrix.%s(%d,%d): %w", method, row, col, err)
}

// ElementMatrix is the dense contribution of one cell.
//   - n is the number of local degrees of freedom.
//   - data holds n*n values row-major.
//   - idx maps local k to the global node id.
type ElementMatrix struct {
	n    int
	data []float64
	idx  []int
}

// Compile-time assertions.
var (
	_ sparse.ElementMatrix = (*ElementMatrix)(nil)
	_ fmt.Stringer         = (*ElementMatrix)(nil)
)

// NewElementMatrix returns a zero block for the given global ids.
func NewElementMatrix(idx ...int) *ElementMatrix {
	e := &ElementMatrix{}
	e.Reset(idx)

	return e
}

// Reset resizes the block to len(idx), zeroes it and copies idx.
// The backing arrays are reused when large enough.
func (e *ElementMatrix) Reset(idx []int) {
	n := len(idx)
	if cap(e.data) < n*n {
		e.data = make([]float64, n*n)
	} else {
		e.data = e.data[:n*n]
		clear(e.data)
	}
	e.idx = append(e.idx[:0], idx...)
	e.n = n
}

// Size returns the number of local degrees of freedom.
func (e *ElementMatrix) Size() int { return e.n }

// Idx returns the global id of local index k.
func (e *ElementMatrix) Idx(k int) int { return e.idx[k] }

// Indices returns the local-to-global map. The slice is owned by e.
func (e *ElementMatrix) Indices() []int { return e.idx }

// At returns entry (i, j) without bounds reporting.
func (e *ElementMatrix) At(i, j int) float64 { return e.data[i*e.n+j] }

// offset bounds-checks (i, j) and returns the flat index.
func (e *ElementMatrix) offset(method string, i, j int) (int, error) {
	if i < 0 || i >= e.n || j < 0 || j >= e.n {
		return 0, elementErrorf(method, i, j, ErrOutOfRange)
	}

	return i*e.n + j, nil
}

// Get returns entry (i, j) or ErrOutOfRange.
func (e *ElementMatrix) Get(i, j int) (float64, error) {
	off, err := e.offset(ctxGet, i, j)
	if err != nil {
		return 0, err
	}

	return e.data[off], nil
}

// Set writes entry (i, j) or returns ErrOutOfRange.
func (e *ElementMatrix) Set(i, j int, v float64) error {
	off, err := e.offset(ctxSet, i, j)
	if err != nil {
		return err
	}
	e.data[off] = v

	return nil
}

// RowSum returns Σ_j E(i, j); zero for stiffness rows of a consistent element.
func (e *ElementMatrix) RowSum(i int) float64 {
	s := 0.0
	for _, v := range e.data[i*e.n : (i+1)*e.n] {
		s += v
	}

	return s
}

// String renders the block as "idx: [..]" followed by one bracketed row per line.
func (e *ElementMatrix) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "idx: %v\n", e.idx)
	for i := 0; i < e.n; i++ {
		sb.WriteString("[")
		for j := 0; j < e.n; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%g", e.data[i*e.n+j])
		}
		sb.WriteString("]\n")
	}

	return sb.String()
}
