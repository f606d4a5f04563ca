package nav

import (
	"testing"

	"gridflag.ai/model"
)

func TestAvoidanceRings(t *testing.T) {
	b := testBoard()
	g := NewGuard(b, "L", "R")
	opp := model.Cell{X: 5, Y: 2}

	grid := Build(b, g, "L", Avoidance, []model.Cell{opp}, nil)

	if grid.Passable(opp) {
		t.Error("opponent cell should be impassable")
	}
	if w := grid.Weight(model.Cell{X: 4, Y: 2}); w != 0.25 {
		t.Errorf("distance-1 weight = %v, want 0.25", w)
	}
	if w := grid.Weight(model.Cell{X: 3, Y: 2}); w != 0.5 {
		t.Errorf("distance-2 weight = %v, want 0.5", w)
	}
	if w := grid.Weight(model.Cell{X: 2, Y: 2}); w != 1.0 {
		t.Errorf("weight beyond the ring = %v, want 1.0", w)
	}
}

func TestAvoidanceOverlappingRingsKeepMinimum(t *testing.T) {
	b := testBoard()
	g := NewGuard(b, "L", "R")
	// (5,2) sits one hop from the first opponent and two from the second;
	// the more dangerous ring must win.
	opps := []model.Cell{{X: 4, Y: 2}, {X: 7, Y: 2}}

	grid := Build(b, g, "L", Avoidance, opps, nil)

	if w := grid.Weight(model.Cell{X: 5, Y: 2}); w != 0.25 {
		t.Errorf("overlapping ring weight = %v, want 0.25", w)
	}
}

func TestAvoidanceRestoresDeliveryCells(t *testing.T) {
	b := testBoard()
	g := NewGuard(b, "L", "R")
	// Opponent adjacent to team L's delivery cell at (0,2).
	grid := Build(b, g, "L", Avoidance, []model.Cell{{X: 1, Y: 2}}, nil)

	if w := grid.Weight(model.Cell{X: 0, Y: 2}); w != 1.0 {
		t.Errorf("delivery cell weight = %v, want 1.0 inside penalty ring", w)
	}
	// A plain neighbour keeps its ring penalty.
	if w := grid.Weight(model.Cell{X: 1, Y: 3}); w != 0.25 {
		t.Errorf("neighbour weight = %v, want 0.25", w)
	}
}

func TestWallsStopRingExpansion(t *testing.T) {
	walls := []model.Cell{{X: 4, Y: 1}, {X: 4, Y: 2}, {X: 4, Y: 3}}
	b := model.NewBoard(10, 6, walls,
		map[string][]model.Cell{"L": {{X: 0, Y: 2}}, "R": {{X: 9, Y: 2}}}, nil)
	g := NewGuard(b, "L", "R")

	grid := Build(b, g, "L", Avoidance, []model.Cell{{X: 5, Y: 2}}, nil)

	if grid.Passable(model.Cell{X: 4, Y: 2}) {
		t.Error("wall must stay impassable")
	}
	// (3,2) is two hops through the wall line; the wall blocks the ring.
	if w := grid.Weight(model.Cell{X: 3, Y: 2}); w != 1.0 {
		t.Errorf("weight behind wall = %v, want 1.0", w)
	}
}

func TestExtraObstaclesAreImpassable(t *testing.T) {
	b := testBoard()
	g := NewGuard(b, "L", "R")
	extra := map[model.Cell]bool{{X: 2, Y: 2}: true}

	grid := Build(b, g, "L", Avoidance, nil, extra)

	if grid.Passable(model.Cell{X: 2, Y: 2}) {
		t.Error("extra obstacle should be impassable")
	}
}

func TestEngagementBaseWeights(t *testing.T) {
	b := testBoard()
	g := NewGuard(b, "L", "R")

	grid := Build(b, g, "L", Engagement, nil, nil)

	if w := grid.Weight(model.Cell{X: 2, Y: 0}); w != 0.8 {
		t.Errorf("home base weight = %v, want 0.8", w)
	}
	if w := grid.Weight(model.Cell{X: 7, Y: 0}); w != 0.1 {
		t.Errorf("enemy base weight = %v, want 0.1", w)
	}
}

func TestEngagementRingsOnlyInHome(t *testing.T) {
	b := testBoard()
	g := NewGuard(b, "L", "R")
	// Opponent just across the mid-line; its ring reaches into L's home.
	opp := model.Cell{X: 5, Y: 2}

	grid := Build(b, g, "L", Engagement, []model.Cell{opp}, nil)

	// (4,2) is one hop away and in home: attraction applies.
	if w := grid.Weight(model.Cell{X: 4, Y: 2}); w != 0.95 {
		t.Errorf("home ring weight = %v, want 0.95", w)
	}
	// (6,2) is one hop away but in the enemy half: stays at base.
	if w := grid.Weight(model.Cell{X: 6, Y: 2}); w != 0.1 {
		t.Errorf("enemy ring weight = %v, want 0.1", w)
	}
}

func TestEngagementOpponentInHomeIsAttractive(t *testing.T) {
	b := testBoard()
	g := NewGuard(b, "L", "R")
	opp := model.Cell{X: 3, Y: 2}

	grid := Build(b, g, "L", Engagement, []model.Cell{opp}, nil)

	if w := grid.Weight(opp); w != 1.0 {
		t.Errorf("intruder cell weight = %v, want 1.0", w)
	}
	if w := grid.Weight(model.Cell{X: 3, Y: 4}); w != 0.9 {
		t.Errorf("distance-2 weight = %v, want 0.9", w)
	}
}
