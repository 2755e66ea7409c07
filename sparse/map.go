// SPDX-License-Identifier: MIT

// Package sparse - MapMatrix: ordered incremental storage.
//
// Purpose:
//   - Mutable (row, col) -> value mapping for assembly where the pattern is
//     not known up front.
//   - Entries live in a B-tree ordered lexicographically by (row, col), so
//     iteration is always row-major and point operations are O(log nnz).
//   - No stored value is ever exactly zero: writing zero erases, an addition
//     that cancels erases, scaling by zero empties the matrix.
//
// Complexity quicksheet:
//   - Set/Add/At/Erase: O(log nnz); Do: O(nnz); Mul/TransMul: O(nnz + n).

package sparse

import (
	"fmt"
	"log/slog"

	"github.com/google/btree"
)

// btreeDegree is the B-tree fan-out; 32 keeps nodes within a few cache lines
// for the 24-40 byte entries used here.
const btreeDegree = 32

const kindMap = "MapMatrix"

// mapEntry is the B-tree item; ordering uses (row, col) only.
type mapEntry[V Scalar] struct {
	row, col int
	val      V
}

func lessEntry[V Scalar](a, b mapEntry[V]) bool {
	if a.row != b.row {
		return a.row < b.row
	}

	return a.col < b.col
}

// MapMatrix is an ordered sparse matrix for incremental assembly.
// The zero value is not usable; construct with NewMapMatrix or one of the
// conversion constructors.
type MapMatrix[V Scalar] struct {
	rows, cols int
	sym        Symmetry
	tree       *btree.BTreeG[mapEntry[V]]
	opts       Options
}

// Compile-time assertion for the shared kernel surface.
var _ storedEntries[float64] = (*MapMatrix[float64])(nil)

// NewMapMatrix creates an empty rows×cols matrix with the given symmetry tag.
// Negative dimensions are clamped to zero.
func NewMapMatrix[V Scalar](rows, cols int, sym Symmetry, opts ...Option) *MapMatrix[V] {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}

	return &MapMatrix[V]{
		rows: rows,
		cols: cols,
		sym:  sym,
		tree: btree.NewG[mapEntry[V]](btreeDegree, lessEntry[V]),
		opts: gatherOptions(opts...),
	}
}

// NewMapMatrixFromTriplets builds a Full matrix from parallel coordinate and
// value slices. Dimensions are max index + 1 per axis. Duplicate positions
// overwrite in slice order; zero values are not stored.
//
// Errors:
//   - ErrDimensionMismatch if the slices differ in length.
//   - ErrOutOfRange if an index is negative.
func NewMapMatrixFromTriplets[V Scalar](rowIdx, colIdx []int, vals []V, opts ...Option) (*MapMatrix[V], error) {
	if len(rowIdx) != len(colIdx) || len(rowIdx) != len(vals) {
		return nil, opErrorf(kindMap, "FromTriplets", ErrDimensionMismatch)
	}
	m := NewMapMatrix[V](maxIndex(rowIdx)+1, maxIndex(colIdx)+1, Full, opts...)
	for k := range vals {
		if err := m.Set(rowIdx[k], colIdx[k], vals[k]); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// NewMapMatrixFromCRS converts a compressed matrix into ordered form,
// preserving dimensions and symmetry tag. Explicit zeros held by the
// pattern are not carried over.
//
// Errors:
//   - ErrNilArgument for a nil source, ErrInvalidMatrix if it was never built.
func NewMapMatrixFromCRS[V Scalar](src *CRSMatrix[V], opts ...Option) (*MapMatrix[V], error) {
	if src == nil {
		return nil, opErrorf(kindMap, "FromCRS", ErrNilArgument)
	}
	if !src.valid {
		return nil, opErrorf(kindMap, "FromCRS", ErrInvalidMatrix)
	}
	m := NewMapMatrix[V](src.rows, src.cols, src.sym, opts...)
	src.Do(func(r, c int, v V) bool {
		if v != 0 {
			m.tree.ReplaceOrInsert(mapEntry[V]{row: r, col: c, val: v})
		}

		return true
	})

	return m, nil
}

// Clone returns a deep copy sharing options with the receiver.
func (m *MapMatrix[V]) Clone() *MapMatrix[V] {
	return &MapMatrix[V]{
		rows: m.rows,
		cols: m.cols,
		sym:  m.sym,
		tree: m.tree.Clone(),
		opts: m.opts,
	}
}

// Retag returns a copy of m under symmetry tag sym, written entry by entry
// through Set so the receiver's triangle policy applies: entries in the
// unstored half are dropped, or rejected under WithStrictTriangle(true).
// A symmetric tag squares the shape to max(Rows, Cols). Loaded text files
// are always Full; Retag restores the tag they were saved under.
//
// Errors:
//   - ErrOutsideTriangle in strict mode.
func (m *MapMatrix[V]) Retag(sym Symmetry) (*MapMatrix[V], error) {
	rows, cols := m.rows, m.cols
	if sym.IsSymmetric() {
		rows = max(rows, cols)
		cols = rows
	}
	out := NewMapMatrix[V](rows, cols, sym, func(o *Options) { *o = m.opts })
	var err error
	m.Do(func(r, c int, v V) bool {
		err = out.Set(r, c, v)

		return err == nil
	})
	if err != nil {
		return nil, fmt.Errorf("MapMatrix.Retag(%s): %w", sym, err)
	}

	return out, nil
}

// Rows returns the row count.
func (m *MapMatrix[V]) Rows() int { return m.rows }

// Cols returns the column count.
func (m *MapMatrix[V]) Cols() int { return m.cols }

// Symmetry returns the storage tag.
func (m *MapMatrix[V]) Symmetry() Symmetry { return m.sym }

// Len returns the number of stored nonzeros.
func (m *MapMatrix[V]) Len() int { return m.tree.Len() }

// Resize changes the logical dimensions. Entries outside the new bounds are
// discarded.
func (m *MapMatrix[V]) Resize(rows, cols int) error {
	if rows < 0 || cols < 0 {
		return indexErrorf(kindMap, ctxResize, rows, cols, "negative dimension", ErrOutOfRange)
	}
	if rows < m.rows || cols < m.cols {
		var drop []mapEntry[V]
		m.tree.Ascend(func(e mapEntry[V]) bool {
			if e.row >= rows || e.col >= cols {
				drop = append(drop, e)
			}

			return true
		})
		for _, e := range drop {
			m.tree.Delete(e)
		}
	}
	m.rows, m.cols = rows, cols

	return nil
}

// Clear removes every entry; dimensions are kept.
func (m *MapMatrix[V]) Clear() { m.tree.Clear(false) }

// Do visits stored entries in (row, col) order until fn returns false.
func (m *MapMatrix[V]) Do(fn func(row, col int, v V) bool) {
	m.tree.Ascend(func(e mapEntry[V]) bool { return fn(e.row, e.col, e.val) })
}

// Entries returns a snapshot of stored entries in (row, col) order.
func (m *MapMatrix[V]) Entries() []Entry[V] {
	out := make([]Entry[V], 0, m.tree.Len())
	m.Do(func(r, c int, v V) bool {
		out = append(out, Entry[V]{Row: r, Col: c, Val: v})

		return true
	})

	return out
}

// admit runs the shared bound and triangle checks for a write.
// ok=false with a nil error means a silent triangle drop.
func (m *MapMatrix[V]) admit(method string, row, col int) (bool, error) {
	if detail, err := checkIndex(row, col, m.rows, m.cols); err != nil {
		return false, indexErrorf(kindMap, method, row, col, detail, err)
	}
	ok, err := triangleAllows(m.sym, m.opts.strictTriangle, row, col)
	if err != nil {
		return false, indexErrorf(kindMap, method, row, col, m.sym.String(), err)
	}

	return ok, nil
}

// Set stores v at (row, col). Writing zero erases the position.
// MAIN DESCRIPTION:
//   - Bounds check, then triangle policy, then insert-or-overwrite.
//
// Errors:
//   - ErrOutOfRange with the offending index and its range.
//   - ErrOutsideTriangle only under WithStrictTriangle(true).
//
// Complexity:
//   - Time O(log nnz).
func (m *MapMatrix[V]) Set(row, col int, v V) error {
	ok, err := m.admit(ctxSet, row, col)
	if !ok {
		return err
	}
	key := mapEntry[V]{row: row, col: col, val: v}
	if v == 0 {
		m.tree.Delete(key)

		return nil
	}
	m.tree.ReplaceOrInsert(key)

	return nil
}

// Add accumulates v into (row, col). A zero v is a no-op; a sum that
// cancels to exactly zero erases the position.
func (m *MapMatrix[V]) Add(row, col int, v V) error {
	ok, err := m.admit(ctxAdd, row, col)
	if !ok || v == 0 {
		return err
	}
	m.accumulate(row, col, v)

	return nil
}

// Sub is Add with the sign of v flipped.
func (m *MapMatrix[V]) Sub(row, col int, v V) error { return m.Add(row, col, -v) }

// accumulate adds v without checks; callers guarantee admission.
func (m *MapMatrix[V]) accumulate(row, col int, v V) {
	key := mapEntry[V]{row: row, col: col}
	if cur, found := m.tree.Get(key); found {
		key.val = cur.val + v
	} else {
		key.val = v
	}
	if key.val == 0 {
		m.tree.Delete(key)

		return
	}
	m.tree.ReplaceOrInsert(key)
}

// At returns the value at (row, col), or zero if nothing is stored.
// Positions in the implicit half of a symmetric matrix read as zero; use Mul
// for the mirrored view.
func (m *MapMatrix[V]) At(row, col int) (V, error) {
	var zero V
	if detail, err := checkIndex(row, col, m.rows, m.cols); err != nil {
		return zero, indexErrorf(kindMap, ctxAt, row, col, detail, err)
	}
	if e, found := m.tree.Get(mapEntry[V]{row: row, col: col}); found {
		return e.val, nil
	}

	return zero, nil
}

// Erase removes (row, col) if present.
func (m *MapMatrix[V]) Erase(row, col int) error {
	if detail, err := checkIndex(row, col, m.rows, m.cols); err != nil {
		return indexErrorf(kindMap, ctxErase, row, col, detail, err)
	}
	m.tree.Delete(mapEntry[V]{row: row, col: col})

	return nil
}

// Mul returns A·x; see mulVec for the symmetric mirroring rules.
func (m *MapMatrix[V]) Mul(x []V) ([]V, error) {
	y, err := mulVec[V](m, x)
	if err != nil {
		return nil, opErrorf(kindMap, ctxMul, err)
	}

	return y, nil
}

// TransMul returns Aᵀ·x. Symmetric tags return ErrNotImplemented.
func (m *MapMatrix[V]) TransMul(x []V) ([]V, error) {
	y, err := transMulVec[V](m, x)
	if err != nil {
		return nil, opErrorf(kindMap, ctxTransMul, err)
	}

	return y, nil
}

// Col returns column i as A·e_i.
func (m *MapMatrix[V]) Col(i int) ([]V, error) {
	if i < 0 || i >= m.cols {
		return nil, indexErrorf(kindMap, ctxCol, 0, i, "column out of bounds", ErrOutOfRange)
	}

	return m.Mul(unitVector[V](m.cols, i))
}

// Row returns row i as Aᵀ·e_i. Symmetric tags return ErrNotImplemented.
func (m *MapMatrix[V]) Row(i int) ([]V, error) {
	if i < 0 || i >= m.rows {
		return nil, indexErrorf(kindMap, ctxRow, i, 0, "row out of bounds", ErrOutOfRange)
	}

	return m.TransMul(unitVector[V](m.rows, i))
}

// AddElement scatter-adds scale·E(i, j) into (idx(i), idx(j)) for every
// local pair. Positions in the unstored half of a symmetric matrix are
// skipped regardless of the strict-triangle policy.
func (m *MapMatrix[V]) AddElement(e ElementMatrix, scale V) error {
	if e == nil {
		return opErrorf(kindMap, ctxAddElement, ErrNilArgument)
	}
	n := e.Size()
	for i := 0; i < n; i++ {
		gi := e.Idx(i)
		for j := 0; j < n; j++ {
			gj := e.Idx(j)
			if !m.sym.Stores(gi, gj) {
				continue
			}
			if err := m.Add(gi, gj, scale*fromFloat[V](e.At(i, j))); err != nil {
				return err
			}
		}
	}

	return nil
}

// AddElementRow adds the first local row of e into row rowID at columns idx(k).
func (m *MapMatrix[V]) AddElementRow(rowID int, e ElementMatrix, scale V) error {
	if e == nil {
		return opErrorf(kindMap, ctxAddElement, ErrNilArgument)
	}
	for k := 0; k < e.Size(); k++ {
		if err := m.Add(rowID, e.Idx(k), scale*fromFloat[V](e.At(0, k))); err != nil {
			return err
		}
	}

	return nil
}

// AddElementCol adds the first local row of e into column colID at rows idx(k).
func (m *MapMatrix[V]) AddElementCol(colID int, e ElementMatrix, scale V) error {
	if e == nil {
		return opErrorf(kindMap, ctxAddElement, ErrNilArgument)
	}
	for k := 0; k < e.Size(); k++ {
		if err := m.Add(e.Idx(k), colID, scale*fromFloat[V](e.At(0, k))); err != nil {
			return err
		}
	}

	return nil
}

// AddMatrix accumulates every stored entry of b into the receiver.
// Dimensions must match; b's entries pass through the receiver's triangle policy.
func (m *MapMatrix[V]) AddMatrix(b *MapMatrix[V]) error { return m.combine("AddMatrix", b, 1) }

// SubMatrix subtracts every stored entry of b from the receiver.
func (m *MapMatrix[V]) SubMatrix(b *MapMatrix[V]) error { return m.combine("SubMatrix", b, -1) }

func (m *MapMatrix[V]) combine(method string, b *MapMatrix[V], sign V) error {
	if b == nil {
		return opErrorf(kindMap, method, ErrNilArgument)
	}
	if b.rows != m.rows || b.cols != m.cols {
		return opErrorf(kindMap, method, ErrDimensionMismatch)
	}
	var err error
	b.Do(func(r, c int, v V) bool {
		err = m.Add(r, c, sign*v)

		return err == nil
	})

	return err
}

// Scale multiplies every stored value by alpha. Scaling by zero clears.
func (m *MapMatrix[V]) Scale(alpha V) {
	if alpha == 0 {
		m.Clear()

		return
	}
	m.rewrite(func(e mapEntry[V]) V { return e.val * alpha })
}

// ScaleRowsCols replaces A with diag(l)·A·diag(r).
func (m *MapMatrix[V]) ScaleRowsCols(l, r []V) error {
	if len(l) != m.rows || len(r) != m.cols {
		return opErrorf(kindMap, "ScaleRowsCols", ErrDimensionMismatch)
	}
	m.rewrite(func(e mapEntry[V]) V { return l[e.row] * e.val * r[e.col] })

	return nil
}

// Rank1Update adds u·vᵀ restricted to the stored pattern: each stored
// (i, j) becomes a(i, j) + u[i]·v[j]. No new positions are created.
func (m *MapMatrix[V]) Rank1Update(u, v []V) error {
	if len(u) != m.rows || len(v) != m.cols {
		return opErrorf(kindMap, "Rank1Update", ErrDimensionMismatch)
	}
	m.rewrite(func(e mapEntry[V]) V { return e.val + u[e.row]*v[e.col] })

	return nil
}

// rewrite replaces every stored value with f(entry), erasing results that
// become exactly zero.
func (m *MapMatrix[V]) rewrite(f func(mapEntry[V]) V) {
	next := btree.NewG[mapEntry[V]](btreeDegree, lessEntry[V])
	m.tree.Ascend(func(e mapEntry[V]) bool {
		if nv := f(e); nv != 0 {
			e.val = nv
			next.ReplaceOrInsert(e)
		}

		return true
	})
	m.tree = next
}

// logger returns the diagnostic sink.
func (m *MapMatrix[V]) logger() *slog.Logger { return m.opts.logger }
