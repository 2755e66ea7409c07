// SPDX-License-Identifier: MIT

package sparse_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/geosparse/sparse"
)

// TestCRSMatrix_BuildPatternTwoTriangles checks neighbor sets on {(0,1,2),(1,2,3)}.
func TestCRSMatrix_BuildPatternTwoTriangles(t *testing.T) {
	m := sparse.NewCRSMatrix[float64](sparse.Full)
	require.NoError(t, m.BuildPattern(twoTriangles()))

	ptr, err := m.Ptr()
	require.NoError(t, err)
	index, err := m.Index()
	require.NoError(t, err)

	require.Equal(t, []int32{0, 3, 7, 11, 14}, ptr)
	require.Equal(t, []int32{
		0, 1, 2, // node 0
		0, 1, 2, 3, // node 1
		0, 1, 2, 3, // node 2
		1, 2, 3, // node 3
	}, index)
	require.Equal(t, 4, m.Rows())
	require.Equal(t, 4, m.Cols())

	vals, _ := m.Values()
	require.Equal(t, make([]float64, 14), vals) // symbolic phase leaves zeros
}

// TestCRSMatrix_BuildPatternIdempotent rebuilds from the same mesh.
func TestCRSMatrix_BuildPatternIdempotent(t *testing.T) {
	mesh := triMesh{nodes: 6, cells: [][]int{{0, 1, 2}, {2, 1, 3}, {3, 4, 5}, {5, 4, 2}}}
	m := sparse.NewCRSMatrix[float64](sparse.Full)
	require.NoError(t, m.BuildPattern(mesh))
	ptr1, _ := m.Ptr()
	idx1, _ := m.Index()
	ptr1, idx1 = append([]int32(nil), ptr1...), append([]int32(nil), idx1...)

	require.NoError(t, m.Set(2, 2, 9)) // dirty values are reset by the rebuild
	require.NoError(t, m.BuildPattern(mesh))
	ptr2, _ := m.Ptr()
	idx2, _ := m.Index()
	require.Equal(t, ptr1, ptr2)
	require.Equal(t, idx1, idx2)
	v, _ := m.Get(2, 2, false)
	require.Zero(t, v)
}

// TestCRSMatrix_BuildPatternTriangle keeps only the stored half for Lower/Upper.
func TestCRSMatrix_BuildPatternTriangle(t *testing.T) {
	lower := sparse.NewCRSMatrix[float64](sparse.Lower)
	require.NoError(t, lower.BuildPattern(twoTriangles()))
	ptr, _ := lower.Ptr()
	index, _ := lower.Index()
	require.Equal(t, []int32{0, 1, 3, 6, 9}, ptr)
	require.Equal(t, []int32{0, 0, 1, 0, 1, 2, 1, 2, 3}, index)

	upper := sparse.NewCRSMatrix[float64](sparse.Upper)
	require.NoError(t, upper.BuildPattern(twoTriangles()))
	require.Equal(t, 9, upper.NNZ()) // (14 + 4 diagonal) / 2
}

// TestCRSMatrix_BuildPatternErrors covers nil and inconsistent meshes.
func TestCRSMatrix_BuildPatternErrors(t *testing.T) {
	m := sparse.NewCRSMatrix[float64](sparse.Full)
	require.ErrorIs(t, m.BuildPattern(nil), sparse.ErrNilArgument)

	bad := triMesh{nodes: 3, cells: [][]int{{0, 1, 3}}}
	err := m.BuildPattern(bad)
	require.ErrorIs(t, err, sparse.ErrOutOfRange)
	require.Contains(t, err.Error(), "cell 0")
	require.False(t, m.Valid()) // untouched on error

	huge := triMesh{nodes: math.MaxInt32}
	err = m.BuildPattern(huge)
	require.ErrorIs(t, err, sparse.ErrOutOfRange)
	require.Contains(t, err.Error(), "int32")
	require.False(t, m.Valid())
}

// TestCRSMatrix_FillStiffness assembles a scaled constant element per cell.
func TestCRSMatrix_FillStiffness(t *testing.T) {
	mesh := twoTriangles()
	m := sparse.NewCRSMatrix[float64](sparse.Full)
	require.NoError(t, m.FillStiffness(mesh, constFiller{mesh: mesh}, []float64{1, 10}))

	cases := []struct {
		row, col int
		want     float64
	}{
		{0, 0, 2},       // cell 0 only
		{1, 1, 2 + 20},  // both cells
		{1, 2, -1 - 10}, // shared edge
		{3, 3, 20},      // cell 1 only
		{0, 1, -1},
		{3, 2, -10},
	}
	for _, tc := range cases {
		v, err := m.Get(tc.row, tc.col, false)
		require.NoError(t, err)
		require.Equal(t, tc.want, v, "(%d,%d)", tc.row, tc.col)
	}

	// Rows of a pure stiffness operator with these elements sum to zero.
	y, err := m.Mul([]float64{1, 1, 1, 1})
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{0, 0, 0, 0}, y, 1e-12)
}

// TestCRSMatrix_FillErrors covers scale length, filler failures and nil inputs.
func TestCRSMatrix_FillErrors(t *testing.T) {
	mesh := twoTriangles()
	m := sparse.NewCRSMatrix[float64](sparse.Full)

	require.ErrorIs(t, m.FillMass(mesh, constFiller{mesh: mesh}, []float64{1}), sparse.ErrDimensionMismatch)
	require.ErrorIs(t, m.FillStiffness(mesh, constFiller{mesh: mesh, fail: true}, nil), errFiller)
	require.ErrorIs(t, m.FillStiffness(mesh, nil, nil), sparse.ErrNilArgument)
	require.ErrorIs(t, m.FillMass(nil, constFiller{mesh: mesh}, nil), sparse.ErrNilArgument)
	require.ErrorIs(t, m.AddElement(nil, 1), sparse.ErrNilArgument)
}

// TestCRSMatrix_ComplexAssembly checks real element coefficients in a complex matrix.
func TestCRSMatrix_ComplexAssembly(t *testing.T) {
	mesh := twoTriangles()
	m := sparse.NewCRSMatrix[complex128](sparse.Full)
	require.NoError(t, m.FillMass(mesh, constFiller{mesh: mesh}, nil))
	require.NoError(t, m.Scale(1i))

	v, err := m.Get(1, 1, false)
	require.NoError(t, err)
	require.Equal(t, complex(0, 4), v) // 2 per cell, two cells, times i
}
