// SPDX-License-Identifier: MIT
// Package: sparse
//
// Purpose:
//   - Single source of truth for bound, length and triangle checks.
//   - Validators return plain sentinels or a detail string; call sites wrap
//     with receiver, method and coordinates.

package sparse

import "fmt"

// checkIndex verifies 0 <= row < rows and 0 <= col < cols and reports the
// offending index together with its valid range.
func checkIndex(row, col, rows, cols int) (string, error) {
	if row < 0 || row >= rows {
		return fmt.Sprintf("row %d not in [0,%d)", row, rows), ErrOutOfRange
	}
	if col < 0 || col >= cols {
		return fmt.Sprintf("col %d not in [0,%d)", col, cols), ErrOutOfRange
	}

	return "", nil
}

// checkVecLen verifies len(x) == want.
func checkVecLen[V Scalar](x []V, want int) error {
	if len(x) != want {
		return fmt.Errorf("vector length %d, want %d: %w", len(x), want, ErrDimensionMismatch)
	}

	return nil
}

// triangleAllows applies the triangle policy to a write at (row, col).
// It returns (false, nil) for a silent drop and (false, err) in strict mode.
func triangleAllows(sym Symmetry, strict bool, row, col int) (bool, error) {
	if sym.Stores(row, col) {
		return true, nil
	}
	if strict {
		return false, ErrOutsideTriangle
	}

	return false, nil
}
