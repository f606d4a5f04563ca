package nav

import (
	"container/heap"

	"gridflag.ai/model"
)

// Route runs a weighted best-first search over the grid from src to dst and
// returns the cell sequence inclusive of both endpoints. The step cost of
// entering a cell is 1 minus its weight, so low-weight (dangerous) cells are
// expensive and full-weight cells are free; impassable cells are excluded
// from expansion entirely. The Manhattan-distance heuristic plus FIFO
// tie-breaking at equal priority makes the result deterministic for
// identical inputs.
//
// Returns nil when src or dst is out of bounds or impassable, or when no
// path exists. src == dst returns [src].
func Route(g *Grid, src, dst model.Cell) []model.Cell {
	b := g.Board()
	if !b.InBounds(src) || !b.InBounds(dst) {
		return nil
	}
	if !g.Passable(src) || !g.Passable(dst) {
		return nil
	}
	if src == dst {
		return []model.Cell{src}
	}

	open := &nodeQueue{}
	heap.Init(open)
	heap.Push(open, &node{cell: src, cost: 0, priority: float64(model.Manhattan(src, dst))})

	best := map[model.Cell]float64{src: 0}
	parent := map[model.Cell]model.Cell{src: src}
	closed := map[model.Cell]bool{}

	for open.Len() > 0 {
		cur := heap.Pop(open).(*node)
		if closed[cur.cell] {
			continue
		}
		closed[cur.cell] = true
		if cur.cell == dst {
			return unwind(parent, src, dst)
		}

		for _, d := range [4]model.Direction{model.DirUp, model.DirDown, model.DirLeft, model.DirRight} {
			next := cur.cell.Step(d)
			if !b.InBounds(next) || !g.Passable(next) || closed[next] {
				continue
			}
			cost := cur.cost + (1 - g.Weight(next))
			if prev, seen := best[next]; seen && prev <= cost {
				continue
			}
			best[next] = cost
			parent[next] = cur.cell
			heap.Push(open, &node{
				cell:     next,
				cost:     cost,
				priority: cost + float64(model.Manhattan(next, dst)),
			})
		}
	}
	return nil
}

// PathLen returns the length of a route in cells, or 0 for no route. A
// trivial src == dst route has length 1.
func PathLen(path []model.Cell) int { return len(path) }

func unwind(parent map[model.Cell]model.Cell, src, dst model.Cell) []model.Cell {
	var rev []model.Cell
	for c := dst; c != src; c = parent[c] {
		rev = append(rev, c)
	}
	rev = append(rev, src)
	path := make([]model.Cell, len(rev))
	for i, c := range rev {
		path[len(rev)-1-i] = c
	}
	return path
}

type node struct {
	cell     model.Cell
	cost     float64
	priority float64
	seq      int
}

// nodeQueue orders by priority, then by insertion order so that the
// first-found node at equal priority wins.
type nodeQueue struct {
	nodes []*node
	next  int
}

func (q *nodeQueue) Len() int { return len(q.nodes) }

func (q *nodeQueue) Less(i, j int) bool {
	if q.nodes[i].priority != q.nodes[j].priority {
		return q.nodes[i].priority < q.nodes[j].priority
	}
	return q.nodes[i].seq < q.nodes[j].seq
}

func (q *nodeQueue) Swap(i, j int) { q.nodes[i], q.nodes[j] = q.nodes[j], q.nodes[i] }

func (q *nodeQueue) Push(x any) {
	n := x.(*node)
	n.seq = q.next
	q.next++
	q.nodes = append(q.nodes, n)
}

func (q *nodeQueue) Pop() any {
	old := q.nodes
	n := old[len(old)-1]
	q.nodes = old[:len(old)-1]
	return n
}
