// SPDX-License-Identifier: MIT

package sparse

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	"golang.org/x/exp/constraints"
)

// Scalar is the set of element types a sparse matrix can hold: the real and
// complex IEEE types. Complex matrices are treated as Hermitian when a
// symmetry tag is set.
type Scalar interface {
	float32 | float64 | complex64 | complex128
}

// Symmetry tags which triangle of a matrix is physically stored.
type Symmetry int

const (
	// Full stores every position; no implicit mirroring.
	Full Symmetry = iota
	// Lower stores only positions with row >= col.
	Lower
	// Upper stores only positions with row <= col.
	Upper
)

// String returns the lowercase tag name used in configuration files.
func (s Symmetry) String() string {
	switch s {
	case Full:
		return "full"
	case Lower:
		return "lower"
	case Upper:
		return "upper"
	default:
		return fmt.Sprintf("Symmetry(%d)", int(s))
	}
}

// IsSymmetric reports whether the tag implies implicit mirroring.
func (s Symmetry) IsSymmetric() bool { return s == Lower || s == Upper }

// Stores reports whether position (row, col) belongs to the stored part.
func (s Symmetry) Stores(row, col int) bool {
	switch s {
	case Lower:
		return row >= col
	case Upper:
		return row <= col
	default:
		return true
	}
}

// ParseSymmetry converts "full", "lower" or "upper" (case-insensitive) into a tag.
func ParseSymmetry(s string) (Symmetry, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full", "":
		return Full, nil
	case "lower":
		return Lower, nil
	case "upper":
		return Upper, nil
	}

	return Full, fmt.Errorf("ParseSymmetry(%q): %w", s, ErrMalformedInput)
}

// Mesh is the connectivity surface consumed by the symbolic assembly phase.
// Cell indices run over [0, CellCount()); node ids over [0, NodeCount()).
type Mesh interface {
	NodeCount() int
	CellCount() int
	// CellNodes returns the global node ids of cell c in local order.
	CellNodes(c int) []int
}

// ElementMatrix is a dense per-cell contribution together with its
// local-to-global index map.
type ElementMatrix interface {
	// Size is the number of local degrees of freedom.
	Size() int
	// Idx maps local index k to a global row/column id.
	Idx(k int) int
	// At returns the local entry (i, j).
	At(i, j int) float64
}

// ElementFiller computes element matrices for a cell under the two
// supported formulations.
type ElementFiller interface {
	// Stiffness fills the "gradient-gradient" operator for cell c.
	Stiffness(c int) (ElementMatrix, error)
	// Mass fills the "value-value" operator for cell c.
	Mass(c int) (ElementMatrix, error)
}

// Entry is one stored (row, col, value) triple.
type Entry[V Scalar] struct {
	Row, Col int
	Val      V
}

// conj returns the complex conjugate of v; identity for real types.
func conj[V Scalar](v V) V {
	switch x := any(v).(type) {
	case complex64:
		return any(complex(real(x), -imag(x))).(V)
	case complex128:
		return any(cmplx.Conj(x)).(V)
	default:
		return v
	}
}

// abs returns |v| as float64 for any Scalar.
func abs[V Scalar](v V) float64 {
	switch x := any(v).(type) {
	case float32:
		return math.Abs(float64(x))
	case float64:
		return math.Abs(x)
	case complex64:
		return cmplx.Abs(complex128(x))
	case complex128:
		return cmplx.Abs(x)
	}

	return 0
}

// fromFloat converts a real coefficient (element matrices, scale factors)
// into the matrix element type.
func fromFloat[V Scalar](f float64) V {
	var zero V
	switch any(zero).(type) {
	case float32:
		return any(float32(f)).(V)
	case float64:
		return any(f).(V)
	case complex64:
		return any(complex(float32(f), 0)).(V)
	case complex128:
		return any(complex(f, 0)).(V)
	}

	return zero
}

// maxIndex returns the largest element of xs, or -1 for an empty slice.
func maxIndex[T constraints.Integer](xs []T) int {
	m := -1
	for _, x := range xs {
		if int(x) > m {
			m = int(x)
		}
	}

	return m
}
