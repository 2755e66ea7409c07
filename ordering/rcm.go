package ordering

import (
	"cmp"
	"fmt"
	"slices"

	"golang.org/x/exp/constraints"
)

// Adjacency is a Graph stored as one sorted neighbour list per vertex.
type Adjacency [][]int

// Order returns the number of vertices.
func (a Adjacency) Order() int { return len(a) }

// Neighbors returns the adjacency list of v.
func (a Adjacency) Neighbors(v int) []int { return a[v] }

// FromCSR builds the symmetrized adjacency of a compressed pattern: an
// entry (i, j) links i and j in both directions, diagonal entries are
// ignored and duplicates collapse. Works for full patterns and for
// patterns that store only one triangle.
func FromCSR[I constraints.Integer](n int, ptr, index []I) (Adjacency, error) {
	if len(ptr) != n+1 {
		return nil, fmt.Errorf("%w: len(ptr)=%d, want %d", ErrBadPattern, len(ptr), n+1)
	}
	adj := make(Adjacency, n)
	for i := 0; i < n; i++ {
		lo, hi := int(ptr[i]), int(ptr[i+1])
		if lo < 0 || hi < lo || hi > len(index) {
			return nil, fmt.Errorf("%w: row %d spans [%d,%d) of %d", ErrBadPattern, i, lo, hi, len(index))
		}
		for _, jj := range index[lo:hi] {
			j := int(jj)
			if j < 0 || j >= n {
				return nil, fmt.Errorf("%w: row %d references %d", ErrBadPattern, i, j)
			}
			if j == i {
				continue
			}
			adj[i] = append(adj[i], j)
			adj[j] = append(adj[j], i)
		}
	}
	for i := range adj {
		slices.Sort(adj[i])
		adj[i] = slices.Compact(adj[i])
	}

	return adj, nil
}

// RCM computes the reverse Cuthill–McKee ordering of g.
// MAIN DESCRIPTION:
//   - Components are processed starting from their lowest-degree vertex.
//   - Each component is traversed breadth-first from a pseudo-peripheral
//     vertex, visiting neighbours by increasing degree (ties by id).
//   - The concatenated visit order is reversed.
//
// Behavior highlights:
//   - Deterministic for a given graph.
//   - Isolated vertices form singleton components.
//
// Complexity:
//   - Time O(Σ deg·log deg · k) where k is the number of pseudo-peripheral
//     refinement rounds (small in practice), Space O(n).
func RCM(g Graph) (Permutation, error) {
	if g == nil {
		return Permutation{}, ErrGraphNil
	}
	n := g.Order()
	deg := make([]int, n)
	for v := 0; v < n; v++ {
		deg[v] = len(g.Neighbors(v))
	}
	byDegree := func(a, b int) bool {
		if deg[a] != deg[b] {
			return deg[a] < deg[b]
		}
		return a < b
	}

	seeds := make([]int, n)
	for i := range seeds {
		seeds[i] = i
	}
	slices.SortStableFunc(seeds, func(a, b int) int {
		return cmp.Or(cmp.Compare(deg[a], deg[b]), cmp.Compare(a, b))
	})

	placed := make([]bool, n)
	order := make([]int, 0, n)
	for _, seed := range seeds {
		if placed[seed] {
			continue
		}
		start, err := pseudoPeripheral(g, seed, deg)
		if err != nil {
			return Permutation{}, err
		}
		res, err := BFS(g, start, WithNeighborLess(byDegree))
		if err != nil {
			return Permutation{}, err
		}
		for _, v := range res.Order {
			placed[v] = true
		}
		order = append(order, res.Order...)
	}
	slices.Reverse(order)

	p := Permutation{Perm: order, Inv: make([]int, n)}
	for newIdx, old := range order {
		p.Inv[old] = newIdx
	}

	return p, nil
}

// pseudoPeripheral runs the George–Liu search: repeatedly jump to the
// lowest-degree vertex of the deepest level while the eccentricity grows.
func pseudoPeripheral(g Graph, v int, deg []int) (int, error) {
	res, err := BFS(g, v)
	if err != nil {
		return 0, err
	}
	for {
		last := res.LastLevel()
		u := slices.MinFunc(last, func(a, b int) int {
			return cmp.Or(cmp.Compare(deg[a], deg[b]), cmp.Compare(a, b))
		})
		next, err := BFS(g, u)
		if err != nil {
			return 0, err
		}
		if next.Eccentricity <= res.Eccentricity {
			return v, nil
		}
		v, res = u, next
	}
}

// Bandwidth returns max |Inv[i] - Inv[j]| over the edges of g, i.e. the
// half-bandwidth of the symmetric matrix with pattern g after reordering by p.
func Bandwidth(g Graph, p Permutation) int {
	bw := 0
	for i := 0; i < g.Order(); i++ {
		for _, j := range g.Neighbors(i) {
			d := p.Inv[i] - p.Inv[j]
			if d < 0 {
				d = -d
			}
			bw = max(bw, d)
		}
	}

	return bw
}
