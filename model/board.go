package model

// Board holds the static geometry of one match: dimensions, walls and the
// per-team delivery and prison regions. It is built once from the start
// message and never mutated afterwards.
type Board struct {
	Width  int
	Height int

	walls   map[Cell]bool
	targets map[string][]Cell
	prisons map[string][]Cell
}

// NewBoard validates and assembles the match geometry. Wall cells outside
// the grid are dropped rather than rejected, matching the tolerant input
// policy of the tick path.
func NewBoard(width, height int, walls []Cell, targets, prisons map[string][]Cell) *Board {
	b := &Board{
		Width:   width,
		Height:  height,
		walls:   make(map[Cell]bool, len(walls)),
		targets: make(map[string][]Cell, len(targets)),
		prisons: make(map[string][]Cell, len(prisons)),
	}
	for _, w := range walls {
		if b.InBounds(w) {
			b.walls[w] = true
		}
	}
	for team, cells := range targets {
		b.targets[team] = append([]Cell(nil), cells...)
	}
	for team, cells := range prisons {
		b.prisons[team] = append([]Cell(nil), cells...)
	}
	return b
}

func (b *Board) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < b.Width && c.Y >= 0 && c.Y < b.Height
}

func (b *Board) Wall(c Cell) bool { return b.walls[c] }

// Walls returns the wall set. Callers must not mutate it.
func (b *Board) Walls() map[Cell]bool { return b.walls }

// Targets returns the delivery region for a team.
func (b *Board) Targets(team string) []Cell { return b.targets[team] }

// Prisons returns the prison region for a team.
func (b *Board) Prisons(team string) []Cell { return b.prisons[team] }

// AllTargets returns the delivery cells of both teams.
func (b *Board) AllTargets() []Cell {
	var out []Cell
	for _, cells := range b.targets {
		out = append(out, cells...)
	}
	return out
}

// MiddleLine is the column used for mid-line distance comparisons.
func (b *Board) MiddleLine() int { return b.Width / 2 }

// OnLeft reports whether a cell lies in the left half of the grid. For odd
// widths the centre column counts as the right half.
func (b *Board) OnLeft(c Cell) bool { return 2*c.X < b.Width }

// steps is the fixed expansion order for all grid searches: up, down, left,
// right. Changing it changes tie-breaks, which are part of the contract.
var steps = [4]Direction{DirUp, DirDown, DirLeft, DirRight}

// Route is the raw unweighted BFS path from src to dst, inclusive of both
// endpoints. extra marks additional impassable cells for this call only.
// Returns nil when no path exists; src == dst returns [src].
func (b *Board) Route(src, dst Cell, extra map[Cell]bool) []Cell {
	if !b.InBounds(src) || !b.InBounds(dst) {
		return nil
	}
	if b.walls[src] || b.walls[dst] || extra[src] || extra[dst] {
		return nil
	}
	if src == dst {
		return []Cell{src}
	}

	parent := map[Cell]Cell{src: src}
	queue := []Cell{src}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range steps {
			next := cur.Step(d)
			if !b.InBounds(next) || b.walls[next] || extra[next] {
				continue
			}
			if _, seen := parent[next]; seen {
				continue
			}
			parent[next] = cur
			if next == dst {
				return b.unwind(parent, src, dst)
			}
			queue = append(queue, next)
		}
	}
	return nil
}

func (b *Board) unwind(parent map[Cell]Cell, src, dst Cell) []Cell {
	var rev []Cell
	for c := dst; c != src; c = parent[c] {
		rev = append(rev, c)
	}
	rev = append(rev, src)
	path := make([]Cell, len(rev))
	for i, c := range rev {
		path[len(rev)-1-i] = c
	}
	return path
}
