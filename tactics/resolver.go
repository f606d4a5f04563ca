package tactics

import (
	"gridflag.ai/model"
	"gridflag.ai/nav"
)

// Directions converts each unit's binding into the single next-step order
// for this tick. Units whose route is empty or trivially short hold
// position. A defender whose intercept cannot advance inside home territory
// has its binding dropped so the next pass reassigns it.
func Directions(w World, st *State, bindings map[string]Binding) map[string]model.Direction {
	out := make(map[string]model.Direction, len(bindings))
	engGrid := w.EngagementGrid()

	for _, unit := range w.Snap.Active(w.Team) {
		b, ok := bindings[unit.Name]
		if !ok {
			out[unit.Name] = model.DirHold
			continue
		}
		out[unit.Name] = directionFor(w, st, engGrid, unit, b)
	}
	return out
}

func directionFor(w World, st *State, engGrid *nav.Grid, unit model.Player, b Binding) model.Direction {
	switch b.Role {
	case RoleReturn:
		return stepToward(w, unit, nearestDelivery(w, unit))
	case RoleDefend:
		opp, ok := w.Snap.PlayerByName(b.Target)
		if !ok {
			st.Drop(unit.Name)
			return model.DirHold
		}
		path := PlanIntercept(w, engGrid, unit, opp)
		if len(path) < 2 {
			// Defense never crosses the boundary; an unreachable
			// intercept invalidates the target.
			st.Drop(unit.Name)
			return model.DirHold
		}
		return model.DirectionBetween(path[0], path[1])
	case RoleAttack, RoleRescue:
		return stepToward(w, unit, b.Cell)
	}
	return model.DirHold
}

// stepToward routes the unit to dst under the avoidance profile. Hard
// opponent-vicinity obstacles apply only while the unit is outside its own
// territory: inside home, capture rules penalize the intruder, not us.
func stepToward(w World, unit model.Player, dst model.Cell) model.Direction {
	if !w.Board.InBounds(dst) {
		return model.DirHold
	}

	var grid *nav.Grid
	if w.Guard.InEnemy(w.Team, unit.Pos()) {
		grid = w.AvoidanceGrid(w.OpponentVicinity())
	} else {
		grid = w.AvoidanceGrid(nil)
	}

	path := nav.Route(grid, unit.Pos(), dst)
	if path == nil {
		// The weighted route can be cut off by penalty rings; fall back
		// to the raw path rather than standing still.
		path = w.Board.Route(unit.Pos(), dst, nil)
	}
	if len(path) < 2 {
		return model.DirHold
	}
	return model.DirectionBetween(path[0], path[1])
}

// nearestDelivery picks the closest cell of the unit's own delivery region.
// A board without a delivery region degrades the unit to hold.
func nearestDelivery(w World, unit model.Player) model.Cell {
	delivery := w.Delivery()
	if len(delivery) == 0 {
		return model.Cell{X: -1, Y: -1}
	}
	best := delivery[0]
	bestDist := model.Manhattan(unit.Pos(), best)
	for _, c := range delivery[1:] {
		if d := model.Manhattan(unit.Pos(), c); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}
