// SPDX-License-Identifier: MIT

package sparse_test

import (
	"bytes"
	"errors"
	"log/slog"
	"math/rand/v2"

	"github.com/katalvlaran/geosparse/sparse"
)

var errFiller = errors.New("filler failed")

// triMesh is a minimal sparse.Mesh backed by a list of node tuples.
type triMesh struct {
	nodes int
	cells [][]int
}

func (m triMesh) NodeCount() int        { return m.nodes }
func (m triMesh) CellCount() int        { return len(m.cells) }
func (m triMesh) CellNodes(c int) []int { return m.cells[c] }

// twoTriangles is the mesh {(0,1,2), (1,2,3)} sharing edge 1-2.
func twoTriangles() triMesh {
	return triMesh{nodes: 4, cells: [][]int{{0, 1, 2}, {1, 2, 3}}}
}

func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// constElement is an ElementMatrix with every off-diagonal local entry equal
// to val and every diagonal entry equal to diag.
type constElement struct {
	idx       []int
	val, diag float64
}

func (e constElement) Size() int     { return len(e.idx) }
func (e constElement) Idx(k int) int { return e.idx[k] }
func (e constElement) At(i, j int) float64 {
	if i == j {
		return e.diag
	}

	return e.val
}

// constFiller hands out constElement for every cell of mesh.
type constFiller struct {
	mesh triMesh
	fail bool
}

func (f constFiller) Stiffness(c int) (sparse.ElementMatrix, error) {
	if f.fail {
		return nil, errFiller
	}

	return constElement{idx: f.mesh.cells[c], val: -1, diag: 2}, nil
}

func (f constFiller) Mass(c int) (sparse.ElementMatrix, error) {
	return constElement{idx: f.mesh.cells[c], val: 1, diag: 2}, nil
}

// denseMul computes a·x for a row-major dense matrix.
func denseMul(a [][]float64, x []float64) []float64 {
	y := make([]float64, len(a))
	for i := range a {
		for j := range a[i] {
			y[i] += a[i][j] * x[j]
		}
	}

	return y
}

// randomDense returns an r×c matrix with roughly density·r·c nonzeros.
func randomDense(rng *rand.Rand, r, c int, density float64) [][]float64 {
	a := make([][]float64, r)
	for i := range a {
		a[i] = make([]float64, c)
		for j := range a[i] {
			if rng.Float64() < density {
				a[i][j] = rng.NormFloat64()
			}
		}
	}

	return a
}

func randomVec(rng *rand.Rand, n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = rng.NormFloat64()
	}

	return x
}

// mapFromDense stores every nonzero of a into a Full MapMatrix.
func mapFromDense(a [][]float64) *sparse.MapMatrix[float64] {
	cols := 0
	if len(a) > 0 {
		cols = len(a[0])
	}
	m := sparse.NewMapMatrix[float64](len(a), cols, sparse.Full)
	for i := range a {
		for j, v := range a[i] {
			_ = m.Set(i, j, v)
		}
	}

	return m
}
