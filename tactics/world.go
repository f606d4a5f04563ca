package tactics

import (
	"gridflag.ai/model"
	"gridflag.ai/nav"
)

// World bundles the read-only inputs for one tick's resolution pass. It is
// rebuilt every tick around the fresh snapshot; only the allocator State
// outlives it.
type World struct {
	Board *model.Board
	Guard *nav.Guard
	Snap  model.Snapshot
	Team  string
}

// ActiveOpponents returns the opposing players free to move this tick.
func (w World) ActiveOpponents() []model.Player {
	return w.Snap.Active(Opponent(w.Team))
}

// OpponentCells returns the positions of active opposing players.
func (w World) OpponentCells() []model.Cell {
	opponents := w.ActiveOpponents()
	cells := make([]model.Cell, len(opponents))
	for i, p := range opponents {
		cells[i] = p.Pos()
	}
	return cells
}

// EnemyFlags returns the opposing team's pickup-eligible flags.
func (w World) EnemyFlags() []model.Flag {
	return w.Snap.PickupFlags(Opponent(w.Team))
}

// OwnFlags returns this team's pickup-eligible flags.
func (w World) OwnFlags() []model.Flag {
	return w.Snap.PickupFlags(w.Team)
}

// Delivery returns this team's delivery region.
func (w World) Delivery() []model.Cell { return w.Board.Targets(w.Team) }

// EnemyDelivery returns the opposing team's delivery region.
func (w World) EnemyDelivery() []model.Cell {
	return w.Board.Targets(Opponent(w.Team))
}

// OwnPrisons returns the prison region where this team's captured players
// are held.
func (w World) OwnPrisons() []model.Cell { return w.Board.Prisons(w.Team) }

// OpponentVicinity returns the active opponents' cells plus their
// orthogonal neighbors, used as hard extra obstacles while moving through
// enemy territory.
func (w World) OpponentVicinity() map[model.Cell]bool {
	zone := make(map[model.Cell]bool)
	for _, c := range w.OpponentCells() {
		zone[c] = true
		for _, d := range [4]model.Direction{model.DirUp, model.DirDown, model.DirLeft, model.DirRight} {
			n := c.Step(d)
			if w.Board.InBounds(n) {
				zone[n] = true
			}
		}
	}
	return zone
}

// AvoidanceGrid builds this tick's avoidance-profile risk grid.
func (w World) AvoidanceGrid(extra map[model.Cell]bool) *nav.Grid {
	return nav.Build(w.Board, w.Guard, w.Team, nav.Avoidance, w.OpponentCells(), extra)
}

// EngagementGrid builds this tick's engagement-profile risk grid for the
// defending role.
func (w World) EngagementGrid() *nav.Grid {
	return nav.Build(w.Board, w.Guard, w.Team, nav.Engagement, w.OpponentCells(), nil)
}
