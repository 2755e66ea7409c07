package mesh

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh is an in-memory simplex mesh. Node and cell ids are dense and equal
// to their insertion index. It satisfies sparse.Mesh.
type Mesh struct {
	dim   int
	nodes []Node
	cells []Cell
}

// New returns an empty mesh of spatial dimension dim (1, 2 or 3).
func New(dim int) (*Mesh, error) {
	if dim < 1 || dim > 3 {
		return nil, fmt.Errorf("mesh.New(%d): %w", dim, ErrBadDimension)
	}

	return &Mesh{dim: dim}, nil
}

// Dim returns the spatial dimension; cells have Dim()+1 nodes.
func (m *Mesh) Dim() int { return m.dim }

// NodeCount returns the number of nodes.
func (m *Mesh) NodeCount() int { return len(m.nodes) }

// CellCount returns the number of cells.
func (m *Mesh) CellCount() int { return len(m.cells) }

// AddNode appends a node at pos and returns its id. Coordinates beyond
// Dim() are stored but ignored by element computations.
func (m *Mesh) AddNode(pos r3.Vec) int {
	id := len(m.nodes)
	m.nodes = append(m.nodes, Node{ID: id, Pos: pos})

	return id
}

// AddCell appends a simplex with the given region marker and node ids.
// Returns ErrCellShape for a wrong node count or a repeated node and
// ErrNodeIndex for unknown ids.
func (m *Mesh) AddCell(marker int, nodes ...int) (int, error) {
	if len(nodes) != m.dim+1 {
		return -1, fmt.Errorf("mesh.AddCell: %d nodes for dim %d: %w", len(nodes), m.dim, ErrCellShape)
	}
	for k, n := range nodes {
		if n < 0 || n >= len(m.nodes) {
			return -1, fmt.Errorf("mesh.AddCell: node %d not in [0,%d): %w", n, len(m.nodes), ErrNodeIndex)
		}
		if slices.Contains(nodes[:k], n) {
			return -1, fmt.Errorf("mesh.AddCell: node %d repeated: %w", n, ErrCellShape)
		}
	}
	id := len(m.cells)
	m.cells = append(m.cells, Cell{ID: id, Nodes: slices.Clone(nodes), Marker: marker})

	return id, nil
}

// CellNodes returns the node ids of cell c in local order. The slice is
// owned by the mesh and must not be modified.
func (m *Mesh) CellNodes(c int) []int { return m.cells[c].Nodes }

// Cell returns cell c.
func (m *Mesh) Cell(c int) (Cell, error) {
	if c < 0 || c >= len(m.cells) {
		return Cell{}, fmt.Errorf("mesh.Cell(%d): %w", c, ErrCellIndex)
	}

	return m.cells[c], nil
}

// Node returns node i.
func (m *Mesh) Node(i int) (Node, error) {
	if i < 0 || i >= len(m.nodes) {
		return Node{}, fmt.Errorf("mesh.Node(%d): %w", i, ErrNodeIndex)
	}

	return m.nodes[i], nil
}

// Pos returns the position of node i without bounds reporting; callers
// iterate ids obtained from CellNodes.
func (m *Mesh) Pos(i int) r3.Vec { return m.nodes[i].Pos }

// Markers returns the marker of every cell in id order.
func (m *Mesh) Markers() []int {
	out := make([]int, len(m.cells))
	for i, c := range m.cells {
		out[i] = c.Marker
	}

	return out
}

// CellScale maps region markers to a per-cell factor slice suitable for
// sparse.CRSMatrix.FillStiffness. Markers missing from byMarker get def.
func (m *Mesh) CellScale(byMarker map[int]float64, def float64) []float64 {
	out := make([]float64, len(m.cells))
	for i, c := range m.cells {
		if v, ok := byMarker[c.Marker]; ok {
			out[i] = v
		} else {
			out[i] = def
		}
	}

	return out
}

// Bounds returns the axis-aligned bounding box of all nodes. An empty mesh
// returns two zero vectors.
func (m *Mesh) Bounds() (lo, hi r3.Vec) {
	if len(m.nodes) == 0 {
		return r3.Vec{}, r3.Vec{}
	}
	lo = r3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi = r3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, n := range m.nodes {
		lo = r3.Vec{X: min(lo.X, n.Pos.X), Y: min(lo.Y, n.Pos.Y), Z: min(lo.Z, n.Pos.Z)}
		hi = r3.Vec{X: max(hi.X, n.Pos.X), Y: max(hi.Y, n.Pos.Y), Z: max(hi.Z, n.Pos.Z)}
	}

	return lo, hi
}
