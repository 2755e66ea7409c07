// SPDX-License-Identifier: MIT
// Package sparse: sentinel error set.
// All exported operations return these sentinels, wrapped at the detection
// site with method name and indices; callers match them with errors.Is.
// No operation panics on user-triggered conditions.

package sparse

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange indicates that a row or column index lies outside the matrix bounds.
	ErrOutOfRange = errors.New("sparse: index out of range")

	// ErrDimensionMismatch indicates incompatible operand sizes (vector length,
	// triplet slice lengths, per-cell scale length, differing patterns).
	ErrDimensionMismatch = errors.New("sparse: dimension mismatch")

	// ErrInvalidMatrix is returned by every CRSMatrix operation attempted before
	// the structure was built (or after Clear).
	ErrInvalidMatrix = errors.New("sparse: matrix structure not built")

	// ErrNotImplemented marks an operation that is deliberately unsupported for
	// the receiver's symmetry tag (TransMul on a symmetric matrix).
	ErrNotImplemented = errors.New("sparse: operation not implemented")

	// ErrOutsideTriangle is returned in strict-triangle mode when a write targets
	// the half of a symmetric matrix that is not stored.
	ErrOutsideTriangle = errors.New("sparse: position outside stored triangle")

	// ErrPatternMiss is returned in strict-pattern mode when a CRSMatrix write
	// targets a position absent from the frozen sparsity pattern.
	ErrPatternMiss = errors.New("sparse: position not in sparsity pattern")

	// ErrMalformedInput indicates a persisted file that cannot be parsed.
	ErrMalformedInput = errors.New("sparse: malformed input")

	// ErrNilArgument indicates a nil matrix, mesh or element argument.
	ErrNilArgument = errors.New("sparse: nil argument")
)

// ---------- error context tags ----------

const (
	ctxSet        = "Set"
	ctxAdd        = "Add"
	ctxAt         = "At"
	ctxGet        = "Get"
	ctxErase      = "Erase"
	ctxMul        = "Mul"
	ctxTransMul   = "TransMul"
	ctxRow        = "Row"
	ctxCol        = "Col"
	ctxCleanRow   = "CleanRow"
	ctxCleanCol   = "CleanCol"
	ctxAddElement = "AddElement"
	ctxResize     = "Resize"
)

// indexErrorf attaches the receiver type, method and coordinates to err.
// Example: "MapMatrix.Set(3,7): col 7 not in [0,5): sparse: index out of range".
func indexErrorf(kind, method string, row, col int, detail string, err error) error {
	if detail == "" {
		return fmt.Errorf("%s.%s(%d,%d): %w", kind, method, row, col, err)
	}

	return fmt.Errorf("%s.%s(%d,%d): %s: %w", kind, method, row, col, detail, err)
}

// opErrorf attaches the receiver type and method to err for operations that are
// not addressed by a single coordinate.
func opErrorf(kind, method string, err error) error {
	return fmt.Errorf("%s.%s: %w", kind, method, err)
}
