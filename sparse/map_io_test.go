// SPDX-License-Identifier: MIT

package sparse_test

import (
	"bytes"
	"encoding/binary"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/geosparse/sparse"
)

// TestMapMatrix_SaveLoadRoundTrip writes and reads back a random matrix.
func TestMapMatrix_SaveLoadRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	a := randomDense(rng, 12, 9, 0.3)
	a[11][8] = 1.0 / 3.0 // pin the inferred dimensions
	m := mapFromDense(a)

	path := filepath.Join(t.TempDir(), "A.txt")
	require.NoError(t, m.SaveFile(path))

	got, err := sparse.LoadMapMatrixFile[float64](path)
	require.NoError(t, err)
	require.Equal(t, m.Rows(), got.Rows())
	require.Equal(t, m.Cols(), got.Cols())
	require.Equal(t, m.Entries(), got.Entries()) // shortest round-trip form is exact
}

// TestMapMatrix_RetagAfterLoad restores the lower tag a file was saved under.
func TestMapMatrix_RetagAfterLoad(t *testing.T) {
	lower := sparse.NewMapMatrix[float64](3, 3, sparse.Lower)
	for _, e := range [][3]float64{{0, 0, 4}, {1, 0, 1}, {1, 1, 3}, {2, 1, -1}, {2, 2, 2}} {
		require.NoError(t, lower.Set(int(e[0]), int(e[1]), e[2]))
	}
	var buf bytes.Buffer
	require.NoError(t, lower.Save(&buf))
	text := buf.String()

	loaded, err := sparse.LoadMapMatrix[float64](strings.NewReader(text))
	require.NoError(t, err)
	require.Equal(t, sparse.Full, loaded.Symmetry())

	ones := []float64{1, 1, 1}
	want, err := lower.Mul(ones)
	require.NoError(t, err)
	require.Equal(t, []float64{5, 3, 1}, want)
	asFull, err := loaded.Mul(ones)
	require.NoError(t, err)
	require.NotEqual(t, want, asFull) // the mirrored half is missing

	got, err := loaded.Retag(sparse.Lower)
	require.NoError(t, err)
	require.Equal(t, sparse.Lower, got.Symmetry())
	require.Equal(t, lower.Entries(), got.Entries())
	y, err := got.Mul(ones)
	require.NoError(t, err)
	require.Equal(t, want, y)

	// Upper drops the strictly lower entries, or rejects them when strict.
	up, err := loaded.Retag(sparse.Upper)
	require.NoError(t, err)
	require.Equal(t, 3, up.Len())
	strict, err := sparse.LoadMapMatrix[float64](strings.NewReader(text), sparse.WithStrictTriangle(true))
	require.NoError(t, err)
	_, err = strict.Retag(sparse.Upper)
	require.ErrorIs(t, err, sparse.ErrOutsideTriangle)

	// Symmetric tags square the inferred shape.
	tall, err := sparse.LoadMapMatrix[float64](strings.NewReader("2 0 1\n"))
	require.NoError(t, err)
	require.Equal(t, 1, tall.Cols())
	sq, err := tall.Retag(sparse.Lower)
	require.NoError(t, err)
	require.Equal(t, 3, sq.Rows())
	require.Equal(t, 3, sq.Cols())
}

// TestMapMatrix_SaveFormat pins the tab-separated line layout.
func TestMapMatrix_SaveFormat(t *testing.T) {
	m := sparse.NewMapMatrix[float64](3, 3, sparse.Full)
	require.NoError(t, m.Set(2, 0, 0.25))
	require.NoError(t, m.Set(0, 1, -3))

	var buf bytes.Buffer
	require.NoError(t, m.Save(&buf))
	require.Equal(t, "0\t1\t-3\n2\t0\t0.25\n", buf.String())
}

// TestLoadMapMatrix_Variants accepts spaces, blank lines and complex values.
func TestLoadMapMatrix_Variants(t *testing.T) {
	m, err := sparse.LoadMapMatrix[float64](strings.NewReader("0 0 1.5\n\n3   1   2e-3\n"))
	require.NoError(t, err)
	require.Equal(t, 4, m.Rows())
	require.Equal(t, 2, m.Cols())
	require.Equal(t, 2, m.Len())

	c, err := sparse.LoadMapMatrix[complex128](strings.NewReader("1\t1\t(1+2i)\n"))
	require.NoError(t, err)
	v, _ := c.At(1, 1)
	require.Equal(t, 1+2i, v)

	empty, err := sparse.LoadMapMatrix[float64](strings.NewReader(""))
	require.NoError(t, err)
	require.Zero(t, empty.Rows())
	require.Zero(t, empty.Len())
}

// TestLoadMapMatrix_Malformed names the failing line.
func TestLoadMapMatrix_Malformed(t *testing.T) {
	_, err := sparse.LoadMapMatrix[float64](strings.NewReader("0 0 1\n1 x 2\n"))
	require.ErrorIs(t, err, sparse.ErrMalformedInput)
	require.Contains(t, err.Error(), "line 2")

	_, err = sparse.LoadMapMatrix[float64](strings.NewReader("0 0\n"))
	require.ErrorIs(t, err, sparse.ErrMalformedInput)

	_, err = sparse.LoadMapMatrixFile[float64](filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing.txt")
}

// columnBlock encodes a dense block in the binary column-import format.
func columnBlock(t *testing.T, rows, cols uint32, vals []float64) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, [2]uint32{rows, cols}))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, vals))

	return buf.Bytes()
}

// TestMapMatrix_ImportColumns applies drop tolerance and column offset.
func TestMapMatrix_ImportColumns(t *testing.T) {
	block := columnBlock(t, 2, 3, []float64{
		1, 1e-4, -2,
		0, 5e-3, 0.0009,
	})
	m := sparse.NewMapMatrix[float64](2, 6, sparse.Full)
	require.NoError(t, m.ImportColumns(bytes.NewReader(block), sparse.DefaultDropTolerance, 2))

	require.Equal(t, []sparse.Entry[float64]{
		{Row: 0, Col: 2, Val: 1},
		{Row: 0, Col: 4, Val: -2},
		{Row: 1, Col: 3, Val: 5e-3},
	}, m.Entries())
}

// TestMapMatrix_ImportColumnsErrors covers short reads and blocks that do not fit.
func TestMapMatrix_ImportColumnsErrors(t *testing.T) {
	m := sparse.NewMapMatrix[float64](2, 2, sparse.Full)

	short := columnBlock(t, 2, 2, []float64{1, 2, 3}) // one value missing
	err := m.ImportColumns(bytes.NewReader(short), 0, 0)
	require.ErrorIs(t, err, sparse.ErrMalformedInput)

	err = m.ImportColumns(bytes.NewReader([]byte{1, 0}), 0, 0) // truncated header
	require.ErrorIs(t, err, sparse.ErrMalformedInput)

	wide := columnBlock(t, 1, 2, []float64{1, 1})
	err = m.ImportColumns(bytes.NewReader(wide), 0, 1) // second column lands at 2
	require.ErrorIs(t, err, sparse.ErrOutOfRange)

	err = m.ImportColumnsFile(filepath.Join(t.TempDir(), "none.bin"), 0, 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "none.bin")
}
