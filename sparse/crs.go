// SPDX-License-Identifier: MIT

// Package sparse - CRSMatrix: compressed row storage with a frozen pattern.
//
// Purpose:
//   - Fast multiply and direct-solver input once the nonzero pattern is known.
//   - ptr (len rows+1), index (len nnz) and values (len nnz) are exposed by
//     reference so a solver view can alias them without copying.
//   - 32-bit indices match the integer width expected by solver views.
//
// Behavior highlights:
//   - The zero/placeholder matrix is invalid; every operation on it fails
//     with ErrInvalidMatrix before touching memory.
//   - Point writes never create slots. A write to a missing position logs a
//     warning and is skipped, or fails with ErrPatternMiss in strict mode.
//   - Point access scans the row's index slice linearly: O(row length).
//     Rows from FE meshes are short, and sorted indices are not guaranteed.
//
// Complexity quicksheet:
//   - Get/Set/Add: O(row length); Mul: O(nnz + rows); CleanCol: O(nnz).

package sparse

import (
	"fmt"
	"math"
	"slices"
)

const kindCRS = "CRSMatrix"

// CRSMatrix is a compressed-row sparse matrix. See package docs for the
// ownership rules of its raw arrays.
type CRSMatrix[V Scalar] struct {
	rows, cols int
	sym        Symmetry
	ptr        []int32
	index      []int32
	values     []V
	valid      bool
	opts       Options
}

// Compile-time assertion for the shared kernel surface.
var _ storedEntries[float64] = (*CRSMatrix[float64])(nil)

// NewCRSMatrix returns an invalid placeholder carrying sym and opts; it
// becomes usable after BuildPattern or FillStiffness/FillMass.
func NewCRSMatrix[V Scalar](sym Symmetry, opts ...Option) *CRSMatrix[V] {
	return &CRSMatrix[V]{sym: sym, opts: gatherOptions(opts...)}
}

// NewCRSMatrixFromMap compresses an ordered matrix. Because the source is
// iterated row-major with ascending columns, the resulting index slices are
// sorted. Dimensions and symmetry tag are preserved.
// MAIN DESCRIPTION:
//   - Stage 1: count entries per row into ptr[r+1].
//   - Stage 2: prefix-sum ptr.
//   - Stage 3: copy (col, value) pairs in iteration order.
//
// Complexity:
//   - Time O(nnz + rows), Space O(nnz + rows).
func NewCRSMatrixFromMap[V Scalar](src *MapMatrix[V], opts ...Option) (*CRSMatrix[V], error) {
	if src == nil {
		return nil, opErrorf(kindCRS, "FromMap", ErrNilArgument)
	}
	if src.Len() > math.MaxInt32 || src.rows >= math.MaxInt32 || src.cols >= math.MaxInt32 {
		return nil, opErrorf(kindCRS, "FromMap", ErrOutOfRange)
	}
	if len(opts) == 0 {
		opts = []Option{func(o *Options) { *o = src.opts }}
	}
	m := NewCRSMatrix[V](src.sym, opts...)
	m.rows, m.cols = src.rows, src.cols
	m.ptr = make([]int32, src.rows+1)
	m.index = make([]int32, 0, src.Len())
	m.values = make([]V, 0, src.Len())

	src.Do(func(r, c int, v V) bool {
		m.ptr[r+1]++
		m.index = append(m.index, int32(c))
		m.values = append(m.values, v)

		return true
	})
	for r := 0; r < src.rows; r++ {
		m.ptr[r+1] += m.ptr[r]
	}
	m.valid = true

	return m, nil
}

// NewCRSMatrixFromArrays adopts caller-built arrays without copying them.
//
// Errors:
//   - ErrDimensionMismatch if len(ptr) != rows+1, ptr[0] != 0,
//     ptr[rows] != len(index), or len(index) != len(values).
//   - ErrMalformedInput if ptr decreases.
//   - ErrOutOfRange if a column index is outside [0, cols).
//   - ErrOutsideTriangle if an entry lies in the unstored half for sym.
func NewCRSMatrixFromArrays[V Scalar](rows, cols int, ptr, index []int32, values []V, sym Symmetry, opts ...Option) (*CRSMatrix[V], error) {
	const method = "FromArrays"
	if rows < 0 || cols < 0 || len(ptr) != rows+1 || len(index) != len(values) {
		return nil, opErrorf(kindCRS, method, ErrDimensionMismatch)
	}
	if ptr[0] != 0 || int(ptr[rows]) != len(index) {
		return nil, opErrorf(kindCRS, method, ErrDimensionMismatch)
	}
	for r := 0; r < rows; r++ {
		if ptr[r+1] < ptr[r] {
			return nil, fmt.Errorf("CRSMatrix.FromArrays: ptr[%d]=%d < ptr[%d]=%d: %w", r+1, ptr[r+1], r, ptr[r], ErrMalformedInput)
		}
	}
	for r := 0; r < rows; r++ {
		for k := ptr[r]; k < ptr[r+1]; k++ {
			c := int(index[k])
			if c < 0 || c >= cols {
				return nil, indexErrorf(kindCRS, method, r, c, fmt.Sprintf("col %d not in [0,%d)", c, cols), ErrOutOfRange)
			}
			if !sym.Stores(r, c) {
				return nil, indexErrorf(kindCRS, method, r, c, sym.String(), ErrOutsideTriangle)
			}
		}
	}

	m := NewCRSMatrix[V](sym, opts...)
	m.rows, m.cols = rows, cols
	m.ptr, m.index, m.values = ptr, index, values
	m.valid = true

	return m, nil
}

// Clone returns a deep copy; an invalid receiver yields an invalid clone.
func (m *CRSMatrix[V]) Clone() *CRSMatrix[V] {
	return &CRSMatrix[V]{
		rows:   m.rows,
		cols:   m.cols,
		sym:    m.sym,
		ptr:    slices.Clone(m.ptr),
		index:  slices.Clone(m.index),
		values: slices.Clone(m.values),
		valid:  m.valid,
		opts:   m.opts,
	}
}

// Valid reports whether the structure has been built.
func (m *CRSMatrix[V]) Valid() bool { return m.valid }

// Rows returns the row count (0 while invalid).
func (m *CRSMatrix[V]) Rows() int { return m.rows }

// Cols returns the column count (0 while invalid).
func (m *CRSMatrix[V]) Cols() int { return m.cols }

// Size is the number of compressed rows, len(ptr)-1.
func (m *CRSMatrix[V]) Size() int {
	if len(m.ptr) == 0 {
		return 0
	}

	return len(m.ptr) - 1
}

// NNZ returns the number of pattern slots, including explicit zeros.
func (m *CRSMatrix[V]) NNZ() int { return len(m.index) }

// Symmetry returns the storage tag.
func (m *CRSMatrix[V]) Symmetry() Symmetry { return m.sym }

// Ptr returns the live row-pointer array.
func (m *CRSMatrix[V]) Ptr() ([]int32, error) {
	if err := m.mustBeValid("Ptr"); err != nil {
		return nil, err
	}

	return m.ptr, nil
}

// Index returns the live column-index array.
func (m *CRSMatrix[V]) Index() ([]int32, error) {
	if err := m.mustBeValid("Index"); err != nil {
		return nil, err
	}

	return m.index, nil
}

// Values returns the live value array. Writes through it are visible to
// every view aliasing the matrix.
func (m *CRSMatrix[V]) Values() ([]V, error) {
	if err := m.mustBeValid("Values"); err != nil {
		return nil, err
	}

	return m.values, nil
}

func (m *CRSMatrix[V]) mustBeValid(method string) error {
	if !m.valid {
		return opErrorf(kindCRS, method, ErrInvalidMatrix)
	}

	return nil
}

// slot returns the storage offset of (row, col) or -1.
func (m *CRSMatrix[V]) slot(row, col int) int {
	c := int32(col)
	for k := m.ptr[row]; k < m.ptr[row+1]; k++ {
		if m.index[k] == c {
			return int(k)
		}
	}

	return -1
}

// admit runs validity, bounds and triangle checks for a write.
// ok=false with a nil error means a silent triangle drop.
func (m *CRSMatrix[V]) admit(method string, row, col int) (bool, error) {
	if err := m.mustBeValid(method); err != nil {
		return false, err
	}
	if detail, err := checkIndex(row, col, m.rows, m.cols); err != nil {
		return false, indexErrorf(kindCRS, method, row, col, detail, err)
	}
	ok, err := triangleAllows(m.sym, m.opts.strictTriangle, row, col)
	if err != nil {
		return false, indexErrorf(kindCRS, method, row, col, m.sym.String(), err)
	}

	return ok, nil
}

// miss reports a write to a position outside the frozen pattern.
func (m *CRSMatrix[V]) miss(method string, row, col int) error {
	if m.opts.strictPattern {
		return indexErrorf(kindCRS, method, row, col, "", ErrPatternMiss)
	}
	m.opts.logger.Warn("position not in sparsity pattern", "op", method, "row", row, "col", col)

	return nil
}

// Set overwrites the value at (row, col) if the position is in the pattern.
// The write happens regardless of magnitude; zero is stored as an explicit zero.
//
// Errors:
//   - ErrInvalidMatrix, ErrOutOfRange; ErrOutsideTriangle and ErrPatternMiss
//     in their strict modes.
func (m *CRSMatrix[V]) Set(row, col int, v V) error {
	ok, err := m.admit(ctxSet, row, col)
	if !ok {
		return err
	}
	k := m.slot(row, col)
	if k < 0 {
		return m.miss(ctxSet, row, col)
	}
	m.values[k] = v

	return nil
}

// Add accumulates v at (row, col). Contributions with |v| <= tolerance are
// skipped without a lookup.
func (m *CRSMatrix[V]) Add(row, col int, v V) error {
	ok, err := m.admit(ctxAdd, row, col)
	if !ok {
		return err
	}
	if abs(v) <= m.opts.tolerance {
		return nil
	}
	k := m.slot(row, col)
	if k < 0 {
		return m.miss(ctxAdd, row, col)
	}
	m.values[k] += v

	return nil
}

// Sub is Add with the sign of v flipped.
func (m *CRSMatrix[V]) Sub(row, col int, v V) error { return m.Add(row, col, -v) }

// Get returns the value at (row, col), or zero if the position is not in
// the pattern; warn=true logs such misses.
func (m *CRSMatrix[V]) Get(row, col int, warn bool) (V, error) {
	var zero V
	if err := m.mustBeValid(ctxGet); err != nil {
		return zero, err
	}
	if detail, err := checkIndex(row, col, m.rows, m.cols); err != nil {
		return zero, indexErrorf(kindCRS, ctxGet, row, col, detail, err)
	}
	k := m.slot(row, col)
	if k < 0 {
		if warn {
			m.opts.logger.Warn("read outside sparsity pattern", "row", row, "col", col)
		}

		return zero, nil
	}

	return m.values[k], nil
}

// Do visits slots in storage order until fn returns false. Explicit zeros
// are visited. An invalid matrix visits nothing.
func (m *CRSMatrix[V]) Do(fn func(row, col int, v V) bool) {
	if !m.valid {
		return
	}
	for r := 0; r < m.Size(); r++ {
		for k := m.ptr[r]; k < m.ptr[r+1]; k++ {
			if !fn(r, int(m.index[k]), m.values[k]) {
				return
			}
		}
	}
}

// Mul returns A·x through the shared kernel.
func (m *CRSMatrix[V]) Mul(x []V) ([]V, error) {
	if err := m.mustBeValid(ctxMul); err != nil {
		return nil, err
	}
	y, err := mulVec[V](m, x)
	if err != nil {
		return nil, opErrorf(kindCRS, ctxMul, err)
	}

	return y, nil
}

// TransMul returns Aᵀ·x. Symmetric tags return ErrNotImplemented.
func (m *CRSMatrix[V]) TransMul(x []V) ([]V, error) {
	if err := m.mustBeValid(ctxTransMul); err != nil {
		return nil, err
	}
	y, err := transMulVec[V](m, x)
	if err != nil {
		return nil, opErrorf(kindCRS, ctxTransMul, err)
	}

	return y, nil
}

// Clean zeroes every value and keeps the pattern.
func (m *CRSMatrix[V]) Clean() error {
	if err := m.mustBeValid("Clean"); err != nil {
		return err
	}
	clear(m.values)

	return nil
}

// CleanRow zeroes every value stored in row.
func (m *CRSMatrix[V]) CleanRow(row int) error {
	if err := m.mustBeValid(ctxCleanRow); err != nil {
		return err
	}
	if row < 0 || row >= m.Size() {
		return indexErrorf(kindCRS, ctxCleanRow, row, 0, fmt.Sprintf("row %d not in [0,%d)", row, m.Size()), ErrOutOfRange)
	}
	clear(m.values[m.ptr[row]:m.ptr[row+1]])

	return nil
}

// CleanCol zeroes every value stored in col. O(nnz).
func (m *CRSMatrix[V]) CleanCol(col int) error {
	if err := m.mustBeValid(ctxCleanCol); err != nil {
		return err
	}
	if col < 0 || col >= m.cols {
		return indexErrorf(kindCRS, ctxCleanCol, 0, col, fmt.Sprintf("col %d not in [0,%d)", col, m.cols), ErrOutOfRange)
	}
	c := int32(col)
	for k, idx := range m.index {
		if idx == c {
			m.values[k] = 0
		}
	}

	return nil
}

// Clear drops the structure and returns the matrix to the invalid state.
func (m *CRSMatrix[V]) Clear() {
	m.ptr, m.index, m.values = nil, nil, nil
	m.rows, m.cols = 0, 0
	m.valid = false
}

// Scale multiplies every stored value by alpha.
func (m *CRSMatrix[V]) Scale(alpha V) error {
	if err := m.mustBeValid("Scale"); err != nil {
		return err
	}
	for k := range m.values {
		m.values[k] *= alpha
	}

	return nil
}

// AddMatrix adds b's values slot by slot; both patterns must be identical.
func (m *CRSMatrix[V]) AddMatrix(b *CRSMatrix[V]) error { return m.combine("AddMatrix", b, 1) }

// SubMatrix subtracts b's values slot by slot; both patterns must be identical.
func (m *CRSMatrix[V]) SubMatrix(b *CRSMatrix[V]) error { return m.combine("SubMatrix", b, -1) }

func (m *CRSMatrix[V]) combine(method string, b *CRSMatrix[V], sign V) error {
	if b == nil {
		return opErrorf(kindCRS, method, ErrNilArgument)
	}
	if err := m.mustBeValid(method); err != nil {
		return err
	}
	if !b.valid {
		return opErrorf(kindCRS, method, ErrInvalidMatrix)
	}
	if m.rows != b.rows || m.cols != b.cols || !slices.Equal(m.ptr, b.ptr) || !slices.Equal(m.index, b.index) {
		return opErrorf(kindCRS, method, ErrDimensionMismatch)
	}
	for k := range m.values {
		m.values[k] += sign * b.values[k]
	}

	return nil
}
