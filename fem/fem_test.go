// SPDX-License-Identifier: MIT

package fem_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/geosparse/fem"
	"github.com/katalvlaran/geosparse/mesh"
	"github.com/katalvlaran/geosparse/sparse"
)

// simplexMesh builds a one-cell mesh of the given dimension from points.
func simplexMesh(t *testing.T, dim int, pts ...r3.Vec) *mesh.Mesh {
	t.Helper()
	m, err := mesh.New(dim)
	require.NoError(t, err)
	ids := make([]int, len(pts))
	for i, p := range pts {
		ids[i] = m.AddNode(p)
	}
	_, err = m.AddCell(0, ids...)
	require.NoError(t, err)

	return m
}

// dense copies an element matrix into [][]float64 for comparisons.
func dense(e sparse.ElementMatrix) [][]float64 {
	out := make([][]float64, e.Size())
	for i := range out {
		out[i] = make([]float64, e.Size())
		for j := range out[i] {
			out[i][j] = e.At(i, j)
		}
	}

	return out
}

func requireMatrixInDelta(t *testing.T, want, got [][]float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		require.InDeltaSlice(t, want[i], got[i], 1e-12, "row %d", i)
	}
}

// TestAssembler_Triangle checks the reference right triangle.
func TestAssembler_Triangle(t *testing.T) {
	m := simplexMesh(t, 2, r3.Vec{}, r3.Vec{X: 1}, r3.Vec{Y: 1})
	a, err := fem.NewAssembler(m)
	require.NoError(t, err)

	k, err := a.Stiffness(0)
	require.NoError(t, err)
	requireMatrixInDelta(t, [][]float64{
		{1, -0.5, -0.5},
		{-0.5, 0.5, 0},
		{-0.5, 0, 0.5},
	}, dense(k))

	mm, err := a.Mass(0)
	require.NoError(t, err)
	requireMatrixInDelta(t, [][]float64{
		{1.0 / 12, 1.0 / 24, 1.0 / 24},
		{1.0 / 24, 1.0 / 12, 1.0 / 24},
		{1.0 / 24, 1.0 / 24, 1.0 / 12},
	}, dense(mm))
	require.Equal(t, 0, mm.Idx(0))
	require.Equal(t, 2, mm.Idx(2))
}

// TestAssembler_Segment checks the 1D operators of a segment of length 2.
func TestAssembler_Segment(t *testing.T) {
	m, err := mesh.NewLine(1, 2)
	require.NoError(t, err)
	a, _ := fem.NewAssembler(m)

	k, err := a.Stiffness(0)
	require.NoError(t, err)
	requireMatrixInDelta(t, [][]float64{{0.5, -0.5}, {-0.5, 0.5}}, dense(k))

	mm, err := a.Mass(0)
	require.NoError(t, err)
	requireMatrixInDelta(t, [][]float64{{2.0 / 3, 1.0 / 3}, {1.0 / 3, 2.0 / 3}}, dense(mm))
}

// TestAssembler_TetraInvariants checks symmetry, zero row sums of stiffness
// and that mass entries integrate to the volume.
func TestAssembler_TetraInvariants(t *testing.T) {
	m := simplexMesh(t, 3, r3.Vec{X: 0.1}, r3.Vec{X: 2}, r3.Vec{X: 0.3, Y: 1.5}, r3.Vec{X: 0.2, Y: 0.4, Z: 1.1})
	a, _ := fem.NewAssembler(m)

	k, err := a.Stiffness(0)
	require.NoError(t, err)
	kd := dense(k)
	for i := range kd {
		require.InDelta(t, 0, floats.Sum(kd[i]), 1e-12, "row %d", i)
		require.Greater(t, kd[i][i], 0.0)
		for j := range kd {
			require.InDelta(t, kd[i][j], kd[j][i], 1e-14)
		}
	}

	mm, err := a.Mass(0)
	require.NoError(t, err)
	total := 0.0
	for _, row := range dense(mm) {
		total += floats.Sum(row)
	}
	// volume = |det([b-a, c-a, d-a])| / 6
	ab, ac, ad := r3.Vec{X: 1.9}, r3.Vec{X: 0.2, Y: 1.5}, r3.Vec{X: 0.1, Y: 0.4, Z: 1.1}
	vol := r3.Dot(ab, r3.Cross(ac, ad)) / 6
	require.InDelta(t, vol, total, 1e-12)
}

// TestAssembler_Errors covers degenerate cells and lookups.
func TestAssembler_Errors(t *testing.T) {
	_, err := fem.NewAssembler(nil)
	require.ErrorIs(t, err, fem.ErrNilMesh)

	flat := simplexMesh(t, 2, r3.Vec{}, r3.Vec{X: 1}, r3.Vec{X: 2})
	a, _ := fem.NewAssembler(flat)
	_, err = a.Stiffness(0)
	require.ErrorIs(t, err, fem.ErrDegenerateCell)
	_, err = a.Mass(1)
	require.ErrorIs(t, err, mesh.ErrCellIndex)
}

// TestElementMatrix_Accessors checks bounds reporting and reuse.
func TestElementMatrix_Accessors(t *testing.T) {
	e := fem.NewElementMatrix(4, 9)
	require.NoError(t, e.Set(1, 0, 2.5))
	v, err := e.Get(1, 0)
	require.NoError(t, err)
	require.Equal(t, 2.5, v)
	require.Equal(t, 2.5, e.RowSum(1))

	require.ErrorIs(t, e.Set(2, 0, 1), fem.ErrOutOfRange)
	_, err = e.Get(0, -1)
	require.ErrorIs(t, err, fem.ErrOutOfRange)
	require.Equal(t, "idx: [4 9]\n[0, 0]\n[2.5, 0]\n", e.String())

	e.Reset([]int{1})
	require.Equal(t, 1, e.Size())
	require.Zero(t, e.At(0, 0))
	require.Equal(t, []int{1}, e.Indices())
}

// TestAssembler_GridLaplacian assembles a grid stiffness matrix: constants
// are in its kernel and linear functions are reproduced on interior rows.
func TestAssembler_GridLaplacian(t *testing.T) {
	grid := [][]int{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}}
	opts := mesh.DefaultGridOptions()
	opts.Split = mesh.SplitAlternate
	m, err := mesh.NewGrid2D(grid, opts)
	require.NoError(t, err)
	a, _ := fem.NewAssembler(m)

	k := sparse.NewCRSMatrix[float64](sparse.Full)
	require.NoError(t, k.FillStiffness(m, a, nil))

	ones := make([]float64, m.NodeCount())
	linear := make([]float64, m.NodeCount())
	for i := range ones {
		ones[i] = 1
		n, _ := m.Node(i)
		linear[i] = 2*n.Pos.X - n.Pos.Y
	}
	y, err := k.Mul(ones)
	require.NoError(t, err)
	require.InDelta(t, 0, floats.Norm(y, 2), 1e-12)

	y, err = k.Mul(linear)
	require.NoError(t, err)
	for _, interior := range []int{5, 6, 9, 10} { // 4×4 grid points, inner 2×2
		require.InDelta(t, 0, y[interior], 1e-12, "node %d", interior)
	}

	mass := sparse.NewCRSMatrix[float64](sparse.Full)
	require.NoError(t, mass.FillMass(m, a, nil))
	y, err = mass.Mul(ones)
	require.NoError(t, err)
	require.InDelta(t, 9.0, floats.Sum(y), 1e-12) // total area
}
