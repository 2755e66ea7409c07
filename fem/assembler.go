// SPDX-License-Identifier: MIT

package fem

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/geosparse/mesh"
	"github.com/katalvlaran/geosparse/sparse"
)

// Assembler computes linear (P1) element matrices on the simplices of a
// mesh. It satisfies sparse.ElementFiller.
//
// The returned ElementMatrix is a reused buffer: it stays valid until the
// next Stiffness or Mass call on the same Assembler. An Assembler is not
// safe for concurrent use.
type Assembler struct {
	mesh *mesh.Mesh
	elem ElementMatrix

	// scratch for the barycentric system of the current cell
	sys  *mat.Dense
	inv  mat.Dense
	grad [][3]float64
}

var _ sparse.ElementFiller = (*Assembler)(nil)

// NewAssembler binds an Assembler to m.
func NewAssembler(m *mesh.Mesh) (*Assembler, error) {
	if m == nil {
		return nil, ErrNilMesh
	}
	d := m.Dim()

	return &Assembler{
		mesh: m,
		sys:  mat.NewDense(d+1, d+1, nil),
		grad: make([][3]float64, d+1),
	}, nil
}

// Stiffness fills the gradient-gradient operator of cell c:
//
//	K(i, j) = |T| · ∇φi · ∇φj
//
// where |T| is the cell measure (length, area or volume) and φ are the
// linear hat functions of the cell's nodes.
func (a *Assembler) Stiffness(c int) (sparse.ElementMatrix, error) {
	measure, err := a.prepare(c)
	if err != nil {
		return nil, err
	}
	n := a.elem.n
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			gi, gj := a.grad[i], a.grad[j]
			v := measure * (gi[0]*gj[0] + gi[1]*gj[1] + gi[2]*gj[2])
			a.elem.data[i*n+j] = v
			a.elem.data[j*n+i] = v
		}
	}

	return &a.elem, nil
}

// Mass fills the value-value operator of cell c. For a d-simplex the exact
// integral of φi·φj is
//
//	M(i, j) = |T| · (1 + δij) / ((d+1)(d+2))
func (a *Assembler) Mass(c int) (sparse.ElementMatrix, error) {
	measure, err := a.prepare(c)
	if err != nil {
		return nil, err
	}
	n := a.elem.n
	base := measure / float64(n*(n+1))
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := base
			if i == j {
				v *= 2
			}
			a.elem.data[i*n+j] = v
		}
	}

	return &a.elem, nil
}

// prepare loads cell c into the element buffer and computes its measure
// and the hat-function gradients.
// Implementation:
//   - Stage 1: build the (d+1)×(d+1) system with rows [1, x_k...].
//   - Stage 2: measure = |det| / d!.
//   - Stage 3: invert; column k rows 1..d hold ∇φk.
func (a *Assembler) prepare(c int) (float64, error) {
	if c < 0 || c >= a.mesh.CellCount() {
		return 0, fmt.Errorf("fem: cell %d: %w", c, mesh.ErrCellIndex)
	}
	nodes := a.mesh.CellNodes(c)
	d := a.mesh.Dim()
	if len(nodes) != d+1 {
		return 0, fmt.Errorf("fem: cell %d has %d nodes in dim %d: %w", c, len(nodes), d, ErrUnsupportedCell)
	}
	a.elem.Reset(nodes)

	for k, id := range nodes {
		p := a.mesh.Pos(id)
		a.sys.Set(k, 0, 1)
		for ax := 0; ax < d; ax++ {
			a.sys.Set(k, ax+1, coord(p, ax))
		}
	}

	measure := math.Abs(mat.Det(a.sys)) / factorial(d)
	if measure == 0 {
		return 0, fmt.Errorf("fem: cell %d: %w", c, ErrDegenerateCell)
	}
	if err := a.inv.Inverse(a.sys); err != nil {
		return 0, fmt.Errorf("fem: cell %d: %w: %v", c, ErrDegenerateCell, err)
	}
	for k := 0; k <= d; k++ {
		a.grad[k] = [3]float64{}
		for ax := 0; ax < d; ax++ {
			a.grad[k][ax] = a.inv.At(ax+1, k)
		}
	}

	return measure, nil
}

func coord(p r3.Vec, axis int) float64 {
	switch axis {
	case 0:
		return p.X
	case 1:
		return p.Y
	default:
		return p.Z
	}
}

func factorial(d int) float64 {
	f := 1.0
	for k := 2; k <= d; k++ {
		f *= float64(k)
	}

	return f
}
