// Package ordering provides tunable options and error definitions
// for breadth-first traversal and bandwidth-reducing orderings.
package ordering

import (
	"errors"
	"fmt"
)

// Sentinel errors for traversal and ordering.
var (
	// ErrStartVertexNotFound is returned when the start vertex is outside [0, Order()).
	ErrStartVertexNotFound = errors.New("ordering: start vertex not found")

	// ErrGraphNil is returned if a nil graph is passed.
	ErrGraphNil = errors.New("ordering: graph is nil")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("ordering: invalid option supplied")

	// ErrBadPattern is returned by FromCSR for inconsistent compressed arrays.
	ErrBadPattern = errors.New("ordering: inconsistent compressed pattern")
)

// Graph is an undirected graph over vertices 0..Order()-1.
type Graph interface {
	Order() int
	// Neighbors returns the adjacency list of v; callers must not modify it.
	Neighbors(v int) []int
}

// Option configures BFS behavior via functional arguments.
// If an Option is invalid, it is recorded internally and surfaced as
// ErrOptionViolation when BFS is invoked.
type Option func(*BFSOptions)

// BFSOptions holds parameters and callbacks to customize BFS execution.
type BFSOptions struct {
	// NeighborLess, if set, orders each adjacency list before enqueueing.
	// Cuthill–McKee uses it to visit neighbours by increasing degree.
	NeighborLess func(a, b int) bool

	// OnVisit is called when visiting a vertex. If it returns an error,
	// BFS aborts and propagates that error.
	OnVisit func(v, depth int) error

	// MaxDepth, if > 0, stops exploring beyond this depth.
	MaxDepth int

	err error
}

// DefaultOptions returns BFSOptions with natural neighbour order, a no-op
// OnVisit hook and no depth limit.
func DefaultOptions() BFSOptions {
	return BFSOptions{
		OnVisit: func(int, int) error { return nil },
	}
}

// WithNeighborLess visits neighbours in the order defined by less.
func WithNeighborLess(less func(a, b int) bool) Option {
	return func(o *BFSOptions) {
		if less != nil {
			o.NeighborLess = less
		}
	}
}

// WithOnVisit registers a callback to run on visit; returning an error
// from this callback stops the BFS.
func WithOnVisit(fn func(v, depth int) error) Option {
	return func(o *BFSOptions) {
		if fn != nil {
			o.OnVisit = fn
		}
	}
}

// WithMaxDepth stops the search at the given depth (inclusive).
//
//	d > 0: limit to depth d
//	d == 0: no depth limit
//	d < 0: invalid option → ErrOptionViolation
func WithMaxDepth(d int) Option {
	return func(o *BFSOptions) {
		if d < 0 {
			o.err = fmt.Errorf("%w: MaxDepth cannot be negative (%d)", ErrOptionViolation, d)
			return
		}
		o.MaxDepth = d
	}
}

// Result holds the outcome of a traversal:
//   - Order: vertices in visit sequence.
//   - Depth: level of each vertex from the start, -1 if unreached.
//   - Eccentricity: the deepest level reached.
type Result struct {
	Order        []int
	Depth        []int
	Eccentricity int
}

// LastLevel returns the vertices at depth Eccentricity in visit order.
func (r *Result) LastLevel() []int {
	var out []int
	for _, v := range r.Order {
		if r.Depth[v] == r.Eccentricity {
			out = append(out, v)
		}
	}

	return out
}

// Permutation is a symmetric reordering of n vertices.
//   - Perm[new] = old
//   - Inv[old] = new
type Permutation struct {
	Perm []int
	Inv  []int
}

// Identity returns the identity permutation of size n.
func Identity(n int) Permutation {
	p := Permutation{Perm: make([]int, n), Inv: make([]int, n)}
	for i := 0; i < n; i++ {
		p.Perm[i], p.Inv[i] = i, i
	}

	return p
}

// Len returns the number of permuted vertices.
func (p Permutation) Len() int { return len(p.Perm) }
