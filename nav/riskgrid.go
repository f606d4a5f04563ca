package nav

import "gridflag.ai/model"

// Profile selects the cost-weighting mode for a grid build.
type Profile int

const (
	// Avoidance treats opponent proximity as danger to route around.
	Avoidance Profile = iota
	// Engagement treats opponent proximity inside home territory as
	// opportunity to close in on. Used only by the defending role.
	Engagement
)

// Impassable is the weight sentinel for cells excluded from the graph.
const Impassable = 0.0

// proximityRadius bounds the opponent ring expansion in hops.
const proximityRadius = 2

// Ring weights by hop distance to the nearest opponent. Distance 0 is the
// opponent's own cell. Beyond proximityRadius the profile base applies.
var (
	avoidanceRing  = [proximityRadius + 1]float64{Impassable, 0.25, 0.5}
	engagementRing = [proximityRadius + 1]float64{1.0, 0.95, 0.9}
)

const (
	engagementHome  = 0.8
	engagementEnemy = 0.1
)

// Grid is the per-tick traversal weight map. Weights live in [0,1]; zero
// means impassable. A grid is rebuilt from scratch every tick and never
// shared across ticks.
type Grid struct {
	board *model.Board
	w     []float64
}

func (g *Grid) Board() *model.Board { return g.board }

// Weight returns the traversal weight at c, or Impassable out of bounds.
func (g *Grid) Weight(c model.Cell) float64 {
	if !g.board.InBounds(c) {
		return Impassable
	}
	return g.w[c.Y*g.board.Width+c.X]
}

func (g *Grid) Passable(c model.Cell) bool { return g.Weight(c) > Impassable }

func (g *Grid) set(c model.Cell, v float64) {
	g.w[c.Y*g.board.Width+c.X] = v
}

// Build constructs the weight grid for one tick. opponents are the positions
// of active (non-captured) opposing units; extra marks caller-supplied
// obstacles for this build only. team matters only for the Engagement
// profile, which needs to know which half is home.
func Build(b *model.Board, guard *Guard, team string, profile Profile, opponents []model.Cell, extra map[model.Cell]bool) *Grid {
	g := &Grid{board: b, w: make([]float64, b.Width*b.Height)}

	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			c := model.Cell{X: x, Y: y}
			switch profile {
			case Engagement:
				if guard.InHome(team, c) {
					g.set(c, engagementHome)
				} else {
					g.set(c, engagementEnemy)
				}
			default:
				g.set(c, 1.0)
			}
		}
	}

	blocked := make(map[model.Cell]bool, len(b.Walls())+len(extra))
	for c := range b.Walls() {
		blocked[c] = true
		g.set(c, Impassable)
	}
	for c := range extra {
		if b.InBounds(c) {
			blocked[c] = true
			g.set(c, Impassable)
		}
	}

	for _, opp := range opponents {
		if !b.InBounds(opp) {
			continue
		}
		for c, dist := range proximityField(b, opp, blocked) {
			switch profile {
			case Engagement:
				// Closing in is only rewarded inside home territory;
				// blocked cells stay blocked.
				if guard.InHome(team, c) && !blocked[c] {
					if w := engagementRing[dist]; w > g.Weight(c) {
						g.set(c, w)
					}
				}
			default:
				// Multiple overlapping rings keep the most dangerous
				// (minimum) weight.
				if w := avoidanceRing[dist]; w < g.Weight(c) {
					g.set(c, w)
				}
			}
		}
	}

	if profile == Avoidance {
		// Delivery cells must stay reachable even inside a penalty ring.
		for _, c := range b.AllTargets() {
			if b.InBounds(c) && !blocked[c] {
				g.set(c, 1.0)
			}
		}
	}

	return g
}

// proximityField runs a bounded four-directional BFS from an opponent cell
// and returns the minimum hop distance for every reached cell. Obstacles
// stop the expansion; the opponent's own cell is distance 0 even when it
// sits on a blocked cell.
func proximityField(b *model.Board, from model.Cell, blocked map[model.Cell]bool) map[model.Cell]int {
	dist := map[model.Cell]int{from: 0}
	queue := []model.Cell{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if dist[cur] >= proximityRadius {
			continue
		}
		for _, d := range [4]model.Direction{model.DirUp, model.DirDown, model.DirLeft, model.DirRight} {
			next := cur.Step(d)
			if !b.InBounds(next) || blocked[next] {
				continue
			}
			if _, seen := dist[next]; seen {
				continue
			}
			dist[next] = dist[cur] + 1
			queue = append(queue, next)
		}
	}
	return dist
}
