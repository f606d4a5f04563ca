package tactics

import (
	"gridflag.ai/model"
	"gridflag.ai/nav"
)

// chaseCutoff is the direct-route length below which prediction is skipped
// and the defender just chases: at that range interception no longer beats
// pursuit.
const chaseCutoff = 3

// PlanIntercept computes the defender's pursuit path toward the opponent
// for this tick, truncated so it never leaves home territory. When the
// opponent is far enough away the path is steered through a predicted
// intercept cell on the opponent's likely route. Returns nil when the
// defender cannot advance without crossing the mid-line, which callers must
// treat as an invalid target.
func PlanIntercept(w World, grid *nav.Grid, defender, opponent model.Player) []model.Cell {
	direct := nav.Route(grid, defender.Pos(), opponent.Pos())
	if len(direct) < 2 {
		return nil
	}

	var waypoint model.Cell
	haveWaypoint := false
	if len(direct) >= chaseCutoff {
		if opponent.HasFlag {
			waypoint, haveWaypoint = interceptCarrier(w, direct, defender, opponent)
		} else {
			waypoint, haveWaypoint = interceptRaider(w, direct, opponent)
		}
	}

	// A waypoint outside home territory is useless; fall back to the
	// direct route.
	if haveWaypoint && !w.Guard.InHome(w.Team, waypoint) {
		haveWaypoint = false
	}

	path := truncateAtHome(w, direct, waypoint, haveWaypoint)
	if len(path) < 2 {
		return nil
	}
	return path
}

// interceptCarrier forecasts a flag carrier's raw route back to its own
// delivery region and picks the first cell shared with the defender's
// direct route inside home territory. Falling back to the home-half cell
// of the direct route nearest the defender.
func interceptCarrier(w World, direct []model.Cell, defender, opponent model.Player) (model.Cell, bool) {
	delivery := w.EnemyDelivery()
	if len(delivery) == 0 {
		return model.Cell{}, false
	}
	forecast := w.Board.Route(opponent.Pos(), delivery[0], nil)
	if len(forecast) == 0 {
		return model.Cell{}, false
	}

	onForecast := make(map[model.Cell]bool, len(forecast))
	for _, c := range forecast {
		onForecast[c] = true
	}
	for _, c := range direct {
		if onForecast[c] && w.Guard.InHome(w.Team, c) {
			return c, true
		}
	}
	return nearestHomeCell(w, direct, defender.Pos())
}

// interceptRaider forecasts the opponent's raw route to each of our
// pickup-eligible flags, takes each route's mid-line crossing point, and
// picks the crossing that lies on the defender's direct route and is
// closest to the opponent.
func interceptRaider(w World, direct []model.Cell, opponent model.Player) (model.Cell, bool) {
	onDirect := make(map[model.Cell]bool, len(direct))
	for _, c := range direct {
		onDirect[c] = true
	}

	var best model.Cell
	bestDist := -1
	for _, flag := range w.OwnFlags() {
		forecast := w.Board.Route(opponent.Pos(), flag.Pos(), nil)
		if len(forecast) == 0 {
			continue
		}
		crossing, ok := midlineCrossing(w.Board, forecast)
		if !ok || !onDirect[crossing] {
			continue
		}
		d := model.Manhattan(crossing, opponent.Pos())
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = crossing
		}
	}
	return best, bestDist >= 0
}

// midlineCrossing returns the cell of the path closest to the mid-line.
func midlineCrossing(b *model.Board, path []model.Cell) (model.Cell, bool) {
	if len(path) == 0 {
		return model.Cell{}, false
	}
	best := path[0]
	bestDist := distToMiddle(b, path[0])
	for _, c := range path[1:] {
		if d := distToMiddle(b, c); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best, true
}

func distToMiddle(b *model.Board, c model.Cell) int {
	d := c.X - b.MiddleLine()
	if d < 0 {
		return -d
	}
	return d
}

// nearestHomeCell picks the home-half cell on the path closest to from.
func nearestHomeCell(w World, path []model.Cell, from model.Cell) (model.Cell, bool) {
	var best model.Cell
	bestDist := -1
	for _, c := range path {
		if !w.Guard.InHome(w.Team, c) {
			continue
		}
		d := model.Manhattan(c, from)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best, bestDist >= 0
}

// truncateAtHome cuts the route at the chosen waypoint or at the first cell
// outside home territory, whichever comes first. Defenders never cross the
// mid-line.
func truncateAtHome(w World, path []model.Cell, waypoint model.Cell, haveWaypoint bool) []model.Cell {
	var out []model.Cell
	for _, c := range path {
		if !w.Guard.InHome(w.Team, c) {
			break
		}
		out = append(out, c)
		if haveWaypoint && c == waypoint {
			break
		}
	}
	return out
}
