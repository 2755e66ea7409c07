// SPDX-License-Identifier: MIT

package spy_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"

	"github.com/katalvlaran/geosparse/sparse"
	"github.com/katalvlaran/geosparse/spy"
)

func tridiag(t *testing.T, n int) *sparse.MapMatrix[float64] {
	t.Helper()
	m := sparse.NewMapMatrix[float64](n, n, sparse.Full)
	for i := 0; i < n; i++ {
		require.NoError(t, m.Set(i, i, 2))
		if i+1 < n {
			require.NoError(t, m.Set(i, i+1, -1))
			require.NoError(t, m.Set(i+1, i, -1))
		}
	}

	return m
}

func TestPlot_TitleAndRanges(t *testing.T) {
	m := tridiag(t, 5)
	p, err := spy.Plot[float64](m, "K")
	require.NoError(t, err)
	require.Equal(t, "K (5×5, nnz=13)", p.Title.Text)
	require.InDelta(t, -0.5, p.X.Min, 0)
	require.InDelta(t, 4.5, p.X.Max, 0)
	require.InDelta(t, -4.5, p.Y.Min, 0)
	require.InDelta(t, 0.5, p.Y.Max, 0)

	ticks := p.Y.Tick.Marker.Ticks(p.Y.Min, p.Y.Max)
	for _, tk := range ticks {
		require.False(t, strings.HasPrefix(tk.Label, "-"), "row label %q", tk.Label)
	}
}

func TestPlot_CompressedAndEmpty(t *testing.T) {
	crs, err := sparse.NewCRSMatrixFromMap(tridiag(t, 3))
	require.NoError(t, err)
	p, err := spy.Plot[float64](crs, "crs")
	require.NoError(t, err)
	require.Contains(t, p.Title.Text, "nnz=7")

	_, err = spy.Plot[float64](sparse.NewMapMatrix[float64](0, 3, sparse.Full), "empty")
	require.ErrorIs(t, err, spy.ErrEmpty)

	// no stored entries still renders axes
	p, err = spy.Plot[float64](sparse.NewMapMatrix[float64](2, 2, sparse.Full), "zero")
	require.NoError(t, err)
	require.Contains(t, p.Title.Text, "nnz=0")
}

func TestSaveAndWriteTo(t *testing.T) {
	m := tridiag(t, 20)

	path := filepath.Join(t.TempDir(), "pattern.png")
	require.NoError(t, spy.Save[float64](m, path, 6*vg.Centimeter))
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Positive(t, info.Size())

	var buf bytes.Buffer
	require.NoError(t, spy.WriteTo[float64](m, &buf, "svg", 6*vg.Centimeter))
	require.Contains(t, buf.String(), "<svg")

	require.Error(t, spy.WriteTo[float64](m, &buf, "bogus", 6*vg.Centimeter))
}
