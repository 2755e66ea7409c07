// SPDX-License-Identifier: MIT

// Package spy renders the nonzero pattern of a sparse matrix as a scatter
// plot, row 0 at the top as in a printed matrix.
//
//	p, _ := spy.Plot(crs, "stiffness")
//	_ = p.Save(12*vg.Centimeter, 12*vg.Centimeter, "pattern.png")
//
// The output format follows the file extension (png, svg, pdf, eps, ...).
package spy

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/katalvlaran/geosparse/sparse"
)

// ErrEmpty is returned for a matrix with no rows or no columns.
var ErrEmpty = errors.New("spy: matrix has no rows or columns")

// Source is anything that can enumerate its stored entries; both
// sparse.MapMatrix and sparse.CRSMatrix qualify.
type Source[V sparse.Scalar] interface {
	Rows() int
	Cols() int
	Do(fn func(row, col int, v V) bool)
}

// Plot builds the pattern plot of src. Each stored entry becomes a square
// marker at (col, row); explicit zeros in a compressed pattern are drawn too.
func Plot[V sparse.Scalar](src Source[V], title string) (*plot.Plot, error) {
	rows, cols := src.Rows(), src.Cols()
	if rows <= 0 || cols <= 0 {
		return nil, ErrEmpty
	}

	var pts plotter.XYs
	src.Do(func(r, c int, _ V) bool {
		pts = append(pts, plotter.XY{X: float64(c), Y: -float64(r)})
		return true
	})

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (%d×%d, nnz=%d)", title, rows, cols, len(pts))
	p.X.Label.Text = "column"
	p.Y.Label.Text = "row"
	p.Y.Tick.Marker = rowTicks{}

	if len(pts) > 0 {
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, fmt.Errorf("spy: %w", err)
		}
		s.GlyphStyle.Shape = draw.BoxGlyph{}
		s.GlyphStyle.Color = color.RGBA{B: 160, A: 255}
		s.GlyphStyle.Radius = markerRadius(max(rows, cols))
		p.Add(s)
	}
	p.X.Min, p.X.Max = -0.5, float64(cols)-0.5
	p.Y.Min, p.Y.Max = -float64(rows)+0.5, 0.5

	return p, nil
}

// Save renders src into path at size×size.
func Save[V sparse.Scalar](src Source[V], path string, size vg.Length) error {
	p, err := Plot(src, path)
	if err != nil {
		return err
	}
	if err := p.Save(size, size, path); err != nil {
		return fmt.Errorf("spy: save %s: %w", path, err)
	}

	return nil
}

// WriteTo renders src in the given format ("png", "svg", ...) to w.
func WriteTo[V sparse.Scalar](src Source[V], w io.Writer, format string, size vg.Length) error {
	p, err := Plot(src, "")
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(size, size, format)
	if err != nil {
		return fmt.Errorf("spy: %w", err)
	}
	_, err = wt.WriteTo(w)

	return err
}

// markerRadius shrinks markers as the matrix grows.
func markerRadius(dim int) vg.Length {
	return vg.Points(math.Max(0.4, math.Min(3, 120/float64(dim))))
}

// rowTicks labels the negated Y axis with positive row numbers.
type rowTicks struct{}

func (rowTicks) Ticks(lo, hi float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(lo, hi)
	for i := range ticks {
		if ticks[i].Label != "" {
			// +0 folds -0 into 0.
			ticks[i].Label = strconv.FormatFloat(-ticks[i].Value+0, 'g', -1, 64)
		}
	}

	return ticks
}
