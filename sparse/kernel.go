// SPDX-License-Identifier: MIT

// Package sparse - shared matrix-vector kernels.
//
// Both representations expose their stored entries through storedEntries;
// multiplication is written once against that surface so the symmetric
// mirroring rules cannot drift between MapMatrix and CRSMatrix.

package sparse

// storedEntries is the iteration surface shared by MapMatrix and CRSMatrix.
type storedEntries[V Scalar] interface {
	Rows() int
	Cols() int
	Symmetry() Symmetry
	// Do visits every stored entry; returning false stops the walk.
	Do(fn func(row, col int, v V) bool)
}

// isComplex reports whether V is a complex type.
func isComplex[V Scalar]() bool {
	var zero V
	switch any(zero).(type) {
	case complex64, complex128:
		return true
	}

	return false
}

// mulVec computes y = A·x over the stored entries of m.
// MAIN DESCRIPTION:
//   - Full tag: y[r] += v·x[c] for each stored (r, c, v).
//   - Symmetric tag: y[r] += conj(v)·x[c]; entries strictly inside the stored
//     triangle (r != c) also contribute y[c] += v·x[r], reconstructing the
//     implicit half.
//
// Errors:
//   - ErrDimensionMismatch if len(x) != Cols(), or a symmetric matrix is not square.
//
// Complexity:
//   - Time O(nnz + rows), Space O(rows).
func mulVec[V Scalar](m storedEntries[V], x []V) ([]V, error) {
	if err := checkVecLen(x, m.Cols()); err != nil {
		return nil, err
	}
	y := make([]V, m.Rows())

	sym := m.Symmetry()
	if !sym.IsSymmetric() {
		m.Do(func(r, c int, v V) bool {
			y[r] += v * x[c]

			return true
		})

		return y, nil
	}
	if m.Rows() != m.Cols() {
		return nil, ErrDimensionMismatch
	}

	cplx := isComplex[V]()
	m.Do(func(r, c int, v V) bool {
		direct := v
		if cplx {
			direct = conj(v)
		}
		y[r] += direct * x[c]
		if r != c {
			y[c] += v * x[r]
		}

		return true
	})

	return y, nil
}

// transMulVec computes y = Aᵀ·x. Only the Full tag is supported.
//
// Errors:
//   - ErrNotImplemented for symmetric tags.
//   - ErrDimensionMismatch if len(x) != Rows().
//
// Complexity:
//   - Time O(nnz + cols), Space O(cols).
func transMulVec[V Scalar](m storedEntries[V], x []V) ([]V, error) {
	if m.Symmetry().IsSymmetric() {
		return nil, ErrNotImplemented
	}
	if err := checkVecLen(x, m.Rows()); err != nil {
		return nil, err
	}
	y := make([]V, m.Cols())
	m.Do(func(r, c int, v V) bool {
		y[c] += v * x[r]

		return true
	})

	return y, nil
}

// unitVector returns e_i of length n as the matrix element type.
func unitVector[V Scalar](n, i int) []V {
	e := make([]V, n)
	e[i] = 1

	return e
}
