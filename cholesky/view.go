// SPDX-License-Identifier: MIT

package cholesky

import (
	"fmt"

	"github.com/katalvlaran/geosparse/sparse"
)

// IndexType names the integer width of View.Ptr and View.Index.
type IndexType int

// Int32 is the only index width produced by sparse.CRSMatrix.
const Int32 IndexType = iota

// ValueType names the scalar kind of View.Values.
type ValueType int

// Real marks float64 values.
const Real ValueType = iota

// Triangle selectors for View.SType.
const (
	STypeLower       = -1 // read entries with row >= col
	STypeUnsymmetric = 0  // read every entry
	STypeUpper       = 1  // read entries with row <= col
)

// View is a non-owning description of a compressed-row matrix.
// Ptr, Index and Values alias the matrix arrays: writes through the matrix
// are visible here, and the view must not outlive the matrix.
type View struct {
	NRow, NCol int
	NZMax      int
	Ptr        []int32
	Index      []int32
	Values     []float64
	SType      int
	IType      IndexType
	XType      ValueType
	Packed     bool // ptr[r+1] marks the end of row r
	Sorted     bool // column indices ascend within every row
}

// NewView wraps a without copying. Full and Upper matrices are read through
// their upper triangle, Lower matrices through their lower triangle; a Full
// matrix is assumed numerically symmetric.
func NewView(a *sparse.CRSMatrix[float64]) (*View, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: nil matrix", ErrBadView)
	}
	ptr, err := a.Ptr()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadView, err)
	}
	// Ptr succeeded, so a is valid and the other accessors cannot fail.
	index, _ := a.Index()
	values, _ := a.Values()

	v := &View{
		NRow:   a.Rows(),
		NCol:   a.Cols(),
		NZMax:  a.NNZ(),
		Ptr:    ptr,
		Index:  index,
		Values: values,
		SType:  STypeUpper,
		IType:  Int32,
		XType:  Real,
		Packed: true,
		Sorted: true,
	}
	if a.Symmetry() == sparse.Lower {
		v.SType = STypeLower
	}
	for r := 0; r < v.NRow && v.Sorted; r++ {
		for k := ptr[r] + 1; k < ptr[r+1]; k++ {
			if index[k-1] >= index[k] {
				v.Sorted = false
				break
			}
		}
	}

	return v, nil
}

// Validate checks that the arrays agree with the declared shape.
func (v *View) Validate() error {
	switch {
	case v == nil:
		return fmt.Errorf("%w: nil view", ErrBadView)
	case v.NRow <= 0 || v.NCol <= 0:
		return fmt.Errorf("%w: empty %dx%d matrix", ErrBadView, v.NRow, v.NCol)
	case len(v.Ptr) != v.NRow+1:
		return fmt.Errorf("%w: len(ptr)=%d for %d rows", ErrBadView, len(v.Ptr), v.NRow)
	case int(v.Ptr[v.NRow]) != v.NZMax || len(v.Index) != v.NZMax || len(v.Values) != v.NZMax:
		return fmt.Errorf("%w: nzmax %d, index %d, values %d", ErrBadView, v.NZMax, len(v.Index), len(v.Values))
	}

	return nil
}

// Do calls fn for every stored entry in the triangle selected by SType.
func (v *View) Do(fn func(row, col int, x float64)) {
	for r := 0; r < v.NRow; r++ {
		for k := v.Ptr[r]; k < v.Ptr[r+1]; k++ {
			c := int(v.Index[k])
			switch {
			case v.SType == STypeUpper && r > c:
				continue
			case v.SType == STypeLower && r < c:
				continue
			}
			fn(r, c, v.Values[k])
		}
	}
}
