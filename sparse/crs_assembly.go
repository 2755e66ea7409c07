// SPDX-License-Identifier: MIT

// Package sparse - finite-element assembly into CRSMatrix.
//
// Assembly is two-phase:
//   - symbolic: BuildPattern derives the nonzero pattern from mesh connectivity;
//   - numeric: FillStiffness/FillMass scatter per-cell element matrices into
//     the existing slots. The numeric phase never creates slots.

package sparse

import (
	"fmt"
	"math"
	"slices"
	"time"
)

// BuildPattern derives the sparsity pattern from mesh connectivity.
// MAIN DESCRIPTION:
//   - Every ordered pair (i, j) of nodes sharing a cell, including i == j,
//     becomes a slot at row i, column j.
//   - Lower/Upper tags keep only pairs inside their stored triangle.
//
// Implementation:
//   - Stage 1: collect column ids per row across all cells.
//   - Stage 2: sort and deduplicate each row (per-row ordered set).
//   - Stage 3: prefix-sum row lengths into ptr, concatenate into index.
//   - Stage 4: zero-filled values; rows = cols = NodeCount; mark valid.
//
// Behavior highlights:
//   - Idempotent: rebuilding from the same mesh yields identical arrays.
//   - On error the receiver is left unchanged.
//   - Nodes that belong to no cell get an empty row.
//
// Errors:
//   - ErrNilArgument for a nil mesh.
//   - ErrOutOfRange if a cell references a node id outside [0, NodeCount).
//   - ErrOutOfRange if the node count or the slot count does not fit int32.
//
// Complexity:
//   - Time O(Σ cellNodes² · log), Space O(nnz + nodes).
func (m *CRSMatrix[V]) BuildPattern(mesh Mesh) error {
	const method = "BuildPattern"
	if mesh == nil {
		return opErrorf(kindCRS, method, ErrNilArgument)
	}
	start := time.Now()
	n := mesh.NodeCount()
	if n < 0 || n >= math.MaxInt32 {
		return fmt.Errorf("CRSMatrix.BuildPattern: %d nodes exceed int32 indexing: %w", n, ErrOutOfRange)
	}
	cols := make([][]int32, n)

	for c := 0; c < mesh.CellCount(); c++ {
		nodes := mesh.CellNodes(c)
		for _, i := range nodes {
			if i < 0 || i >= n {
				return fmt.Errorf("CRSMatrix.BuildPattern: cell %d: node %d not in [0,%d): %w", c, i, n, ErrOutOfRange)
			}
			for _, j := range nodes {
				if m.sym.Stores(i, j) {
					cols[i] = append(cols[i], int32(j))
				}
			}
		}
	}

	ptr := make([]int32, n+1)
	nnz := 0
	for i := range cols {
		slices.Sort(cols[i])
		cols[i] = slices.Compact(cols[i])
		nnz += len(cols[i])
		if nnz > math.MaxInt32 {
			return fmt.Errorf("CRSMatrix.BuildPattern: %d slots by row %d exceed int32 indexing: %w", nnz, i, ErrOutOfRange)
		}
		ptr[i+1] = int32(nnz)
	}
	index := make([]int32, 0, nnz)
	for _, row := range cols {
		index = append(index, row...)
	}

	m.ptr, m.index, m.values = ptr, index, make([]V, nnz)
	m.rows, m.cols = n, n
	m.valid = true
	m.opts.logger.Debug("sparsity pattern built",
		"nodes", n, "cells", mesh.CellCount(), "nnz", nnz, "symmetry", m.sym.String(), "took", time.Since(start))

	return nil
}

// AddElement scatter-adds scale·E(i, j) into (idx(i), idx(j)) through Add,
// so positions absent from the pattern follow the pattern-miss policy.
// Pairs in the unstored half of a symmetric matrix are skipped.
func (m *CRSMatrix[V]) AddElement(e ElementMatrix, scale V) error {
	if e == nil {
		return opErrorf(kindCRS, ctxAddElement, ErrNilArgument)
	}
	if err := m.mustBeValid(ctxAddElement); err != nil {
		return err
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

// FillStiffness assembles the gradient-gradient operator over mesh.
// scale holds one factor per cell (nil means 1 everywhere).
func (m *CRSMatrix[V]) FillStiffness(mesh Mesh, f ElementFiller, scale []float64) error {
	if f == nil {
		return opErrorf(kindCRS, "FillStiffness", ErrNilArgument)
	}

	return m.fill("FillStiffness", mesh, f.Stiffness, scale)
}

// FillMass assembles the value-value operator over mesh.
// scale holds one factor per cell (nil means 1 everywhere).
func (m *CRSMatrix[V]) FillMass(mesh Mesh, f ElementFiller, scale []float64) error {
	if f == nil {
		return opErrorf(kindCRS, "FillMass", ErrNilArgument)
	}

	return m.fill("FillMass", mesh, f.Mass, scale)
}

// fill runs the numeric phase: rebuild the pattern (which zeroes values),
// then scatter every cell's element matrix scaled by scale[cell].
func (m *CRSMatrix[V]) fill(method string, mesh Mesh, element func(int) (ElementMatrix, error), scale []float64) error {
	if mesh == nil {
		return opErrorf(kindCRS, method, ErrNilArgument)
	}
	if scale != nil && len(scale) != mesh.CellCount() {
		return fmt.Errorf("CRSMatrix.%s: %d scale factors for %d cells: %w",
			method, len(scale), mesh.CellCount(), ErrDimensionMismatch)
	}
	if err := m.BuildPattern(mesh); err != nil {
		return err
	}

	start := time.Now()
	for c := 0; c < mesh.CellCount(); c++ {
		e, err := element(c)
		if err != nil {
			return fmt.Errorf("CRSMatrix.%s: cell %d: %w", method, c, err)
		}
		s := 1.0
		if scale != nil {
			s = scale[c]
		}
		if err = m.AddElement(e, fromFloat[V](s)); err != nil {
			return fmt.Errorf("CRSMatrix.%s: cell %d: %w", method, c, err)
		}
	}
	m.opts.logger.Debug("numeric assembly done", "op", method, "cells", mesh.CellCount(), "took", time.Since(start))

	return nil
}
