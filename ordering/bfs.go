// Package ordering provides breadth-first level traversal over integer
// graphs and the reverse Cuthill–McKee ordering built on it.
package ordering

import (
	"fmt"
	"slices"
)

// queueItem pairs a vertex with its BFS depth.
type queueItem struct {
	v     int
	depth int
}

// walker encapsulates mutable BFS state.
type walker struct {
	graph   Graph
	opts    BFSOptions
	queue   []queueItem
	visited []bool
	res     *Result
	scratch []int
}

// BFS runs breadth-first search on g from start, applying any number of
// functional Options. Only the start vertex's connected component is visited.
// Returns ErrGraphNil, ErrStartVertexNotFound, ErrOptionViolation, or any
// error returned by the OnVisit hook.
func BFS(g Graph, start int, opts ...Option) (*Result, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.err != nil {
		return nil, o.err
	}

	n := g.Order()
	if start < 0 || start >= n {
		return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrStartVertexNotFound, start, n)
	}

	w := &walker{
		graph:   g,
		opts:    o,
		queue:   make([]queueItem, 0, n),
		visited: make([]bool, n),
		res: &Result{
			Order: make([]int, 0, n),
			Depth: make([]int, n),
		},
	}
	for i := range w.res.Depth {
		w.res.Depth[i] = -1
	}

	w.enqueue(start, 0)

	return w.res, w.loop()
}

// enqueue marks v visited at depth d and appends it to the queue.
func (w *walker) enqueue(v, d int) {
	w.visited[v] = true
	w.res.Depth[v] = d
	if d > w.res.Eccentricity {
		w.res.Eccentricity = d
	}
	w.queue = append(w.queue, queueItem{v: v, depth: d})
}

// loop processes the queue until empty or a hook error.
func (w *walker) loop() error {
	for head := 0; head < len(w.queue); head++ {
		item := w.queue[head]
		w.res.Order = append(w.res.Order, item.v)
		if err := w.opts.OnVisit(item.v, item.depth); err != nil {
			return fmt.Errorf("ordering: OnVisit error at %d: %w", item.v, err)
		}
		w.enqueueNeighbors(item)
	}

	return nil
}

// enqueueNeighbors enqueues each unseen neighbour of item, in NeighborLess
// order when configured, honouring MaxDepth.
func (w *walker) enqueueNeighbors(item queueItem) {
	next := item.depth + 1
	if w.opts.MaxDepth > 0 && next > w.opts.MaxDepth {
		return
	}
	nbrs := w.graph.Neighbors(item.v)
	if w.opts.NeighborLess != nil {
		w.scratch = append(w.scratch[:0], nbrs...)
		less := w.opts.NeighborLess
		slices.SortStableFunc(w.scratch, func(a, b int) int {
			switch {
			case less(a, b):
				return -1
			case less(b, a):
				return 1
			}
			return 0
		})
		nbrs = w.scratch
	}
	for _, u := range nbrs {
		if !w.visited[u] {
			w.enqueue(u, next)
		}
	}
}
