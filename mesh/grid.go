package mesh

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// NewGrid2D meshes a rectangular grid of cell values with triangles.
// values[y][x] is the value of grid square (x, y); squares with value
// >= opts.Threshold are split into two triangles carrying the value as
// marker, the rest are left out. Only grid points touched by a kept square
// become nodes, numbered in row-major grid order.
// Returns ErrEmptyGrid, ErrNonRectangular or ErrBadSpacing for invalid input.
// Complexity: O(W×H) time and memory.
func NewGrid2D(values [][]int, opts GridOptions) (*Mesh, error) {
	if len(values) == 0 || len(values[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	h, w := len(values), len(values[0])
	for _, row := range values {
		if len(row) != w {
			return nil, ErrNonRectangular
		}
	}
	if err := checkSpacing(opts.Spacing); err != nil {
		return nil, err
	}

	stride := w + 1
	point := func(x, y int) int { return y*stride + x }
	kept := func(x, y int) bool { return values[y][x] >= opts.Threshold }

	// Number only the grid points used by a kept square.
	ids := make([]int, stride*(h+1))
	for i := range ids {
		ids[i] = -1
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !kept(x, y) {
				continue
			}
			for _, p := range [4]int{point(x, y), point(x+1, y), point(x+1, y+1), point(x, y+1)} {
				ids[p] = 0
			}
		}
	}

	m := &Mesh{dim: 2}
	for p, used := range ids {
		if used < 0 {
			continue
		}
		px, py := p%stride, p/stride
		ids[p] = m.AddNode(r3.Add(opts.Origin, r3.Vec{X: float64(px) * opts.Spacing, Y: float64(py) * opts.Spacing}))
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !kept(x, y) {
				continue
			}
			a, b := ids[point(x, y)], ids[point(x+1, y)]
			c, d := ids[point(x+1, y+1)], ids[point(x, y+1)]
			marker := values[y][x]
			if opts.Split == SplitAlternate && (x+y)%2 == 1 {
				m.appendCell(marker, a, b, d)
				m.appendCell(marker, b, c, d)
			} else {
				m.appendCell(marker, a, b, c)
				m.appendCell(marker, a, c, d)
			}
		}
	}

	return m, nil
}

// NewGrid3D meshes an nx×ny×nz block of cubes with edge h; every cube is cut
// into six tetrahedra along its main diagonal (Kuhn subdivision), which
// yields a conforming mesh. All cells carry marker 0.
func NewGrid3D(nx, ny, nz int, h float64) (*Mesh, error) {
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, fmt.Errorf("mesh.NewGrid3D(%d,%d,%d): %w", nx, ny, nz, ErrEmptyGrid)
	}
	if err := checkSpacing(h); err != nil {
		return nil, err
	}

	sx, sy := nx+1, (nx+1)*(ny+1)
	point := func(x, y, z int) int { return z*sy + y*sx + x }

	m := &Mesh{dim: 3}
	for z := 0; z <= nz; z++ {
		for y := 0; y <= ny; y++ {
			for x := 0; x <= nx; x++ {
				m.AddNode(r3.Vec{X: float64(x) * h, Y: float64(y) * h, Z: float64(z) * h})
			}
		}
	}

	// Each permutation of the three axes is one monotone path from the
	// cube's lowest corner to its highest.
	axes := [6][3]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
	for z := 0; z < nz; z++ {
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				for _, perm := range axes {
					c := [3]int{x, y, z}
					tet := [4]int{point(c[0], c[1], c[2])}
					for k, ax := range perm {
						c[ax]++
						tet[k+1] = point(c[0], c[1], c[2])
					}
					m.appendCell(0, tet[:]...)
				}
			}
		}
	}

	return m, nil
}

// NewLine meshes [0, n·h] on the x axis with n segments.
func NewLine(n int, h float64) (*Mesh, error) {
	if n <= 0 {
		return nil, fmt.Errorf("mesh.NewLine(%d): %w", n, ErrEmptyGrid)
	}
	if err := checkSpacing(h); err != nil {
		return nil, err
	}
	m := &Mesh{dim: 1}
	for i := 0; i <= n; i++ {
		m.AddNode(r3.Vec{X: float64(i) * h})
	}
	for i := 0; i < n; i++ {
		m.appendCell(0, i, i+1)
	}

	return m, nil
}

// appendCell adds a cell whose ids were produced by a generator and are
// known to be valid.
func (m *Mesh) appendCell(marker int, nodes ...int) {
	m.cells = append(m.cells, Cell{ID: len(m.cells), Nodes: append([]int(nil), nodes...), Marker: marker})
}

func checkSpacing(h float64) error {
	if h <= 0 || math.IsNaN(h) || math.IsInf(h, 0) {
		return fmt.Errorf("spacing %g: %w", h, ErrBadSpacing)
	}

	return nil
}
