package tactics

import (
	"fmt"

	"gridflag.ai/model"
	"gridflag.ai/nav"
)

// Role is the job a unit performs this tick.
type Role string

const (
	RoleReturn Role = "return"
	RoleRescue Role = "rescue"
	RoleDefend Role = "defend"
	RoleAttack Role = "attack"
	RoleHold   Role = "hold"
)

// Binding ties one unit to a role and a concrete target. Target is a stable
// identifier (opponent name, flag or prison cell key); Cell carries the
// target position for cell-valued targets.
type Binding struct {
	Role   Role
	Target string
	Cell   model.Cell
}

// State is the only cross-tick state of the core: the current binding per
// unit. It is owned by the match session and reset at match start.
type State struct {
	bindings map[string]Binding
}

func NewState() *State {
	return &State{bindings: make(map[string]Binding)}
}

// Reset clears all bindings. Called at game start.
func (s *State) Reset() {
	s.bindings = make(map[string]Binding)
}

// Binding returns the current binding for a unit.
func (s *State) Binding(unit string) (Binding, bool) {
	b, ok := s.bindings[unit]
	return b, ok
}

// Drop removes a unit's binding so the next resolution pass recomputes it.
func (s *State) Drop(unit string) { delete(s.bindings, unit) }

func (s *State) set(unit string, b Binding) { s.bindings[unit] = b }

// FlagKey is the stable identifier for a flag target.
func FlagKey(c model.Cell) string { return fmt.Sprintf("flag:%d,%d", c.X, c.Y) }

// PrisonKey is the stable identifier for a prison-cell target.
func PrisonKey(c model.Cell) string { return fmt.Sprintf("prison:%d,%d", c.X, c.Y) }

// Allocator partitions friendly units into roles every tick, binding each
// to a unique target. Bindings are sticky: a still-valid previous binding
// is preserved so targets don't flap between ticks.
type Allocator struct {
	selector *Selector
}

func NewAllocator(selector *Selector) *Allocator {
	return &Allocator{selector: selector}
}

// Resolve assigns each active friendly unit a role and target for this
// tick. The returned map covers every active unit; units with nothing to do
// get RoleHold. st is mutated in place: invalid bindings are dropped, new
// ones recorded.
func (a *Allocator) Resolve(w World, st *State) map[string]Binding {
	posture := a.selector.Select(PostureEnv{Snap: w.Snap, Team: w.Team})

	units := w.Snap.Active(w.Team)
	opponents := w.ActiveOpponents()
	captured := w.Snap.Captured(w.Team)

	pruneStale(w, st, opponents)

	engGrid := w.EngagementGrid()
	avoidGrid := w.AvoidanceGrid(nil)

	// Availability pools. A candidate leaves its pool the instant it is
	// bound, so two units can never settle on the same target in one tick.
	claimedOpp := make(map[string]bool)
	claimedFlag := make(map[string]bool)
	claimedPrison := make(map[string]bool)

	rescueActive := len(captured) >= posture.RescueThreshold
	defenders := 0
	out := make(map[string]Binding, len(units))

	for _, unit := range units {
		b := a.resolveUnit(w, st, posture, unit, opponents,
			engGrid, avoidGrid, rescueActive,
			claimedOpp, claimedFlag, claimedPrison, &defenders)

		out[unit.Name] = b
		if b.Role == RoleHold {
			st.Drop(unit.Name)
		} else {
			st.set(unit.Name, b)
		}
	}
	return out
}

func (a *Allocator) resolveUnit(w World, st *State, posture Posture, unit model.Player,
	opponents []model.Player, engGrid, avoidGrid *nav.Grid, rescueActive bool,
	claimedOpp, claimedFlag, claimedPrison map[string]bool, defenders *int) Binding {

	// Carrying a flag overrides everything: route home, never reassigned.
	if unit.HasFlag {
		return Binding{Role: RoleReturn, Target: "delivery"}
	}

	// Rescue escalation pre-empts previously bound roles.
	if rescueActive {
		if b, ok := bindRescue(w, unit, avoidGrid, claimedPrison); ok {
			return b
		}
	}

	prev, hasPrev := st.Binding(unit.Name)

	// Sticky defense: keep chasing the previously bound opponent.
	if hasPrev && prev.Role == RoleDefend && !claimedOpp[prev.Target] && *defenders < posture.MaxDefenders {
		claimedOpp[prev.Target] = true
		*defenders++
		return prev
	}

	// Sticky attack: keep pursuing the previously bound flag.
	if hasPrev && prev.Role == RoleAttack && !claimedFlag[prev.Target] {
		claimedFlag[prev.Target] = true
		return prev
	}

	if *defenders < posture.MaxDefenders {
		if b, ok := bindDefend(w, unit, opponents, engGrid, claimedOpp); ok {
			*defenders++
			return b
		}
	}

	if b, ok := bindAttack(w, unit, opponents, avoidGrid, posture, claimedOpp, claimedFlag); ok {
		return b
	}

	// No safe flag: fall back to defense even past the posture cap.
	if b, ok := bindDefend(w, unit, opponents, engGrid, claimedOpp); ok {
		return b
	}

	return Binding{Role: RoleHold}
}

// pruneStale drops every binding whose unit or target is no longer valid.
// An id referenced by a binding but absent from the snapshot is treated as
// an expired target, never an error.
func pruneStale(w World, st *State, opponents []model.Player) {
	active := make(map[string]model.Player)
	for _, p := range w.Snap.Active(w.Team) {
		active[p.Name] = p
	}
	activeOpp := make(map[string]model.Player, len(opponents))
	for _, p := range opponents {
		activeOpp[p.Name] = p
	}
	eligible := make(map[string]bool)
	for _, f := range w.EnemyFlags() {
		eligible[FlagKey(f.Pos())] = true
	}

	for unit, b := range st.bindings {
		holder, ok := active[unit]
		if !ok {
			st.Drop(unit)
			continue
		}
		switch b.Role {
		case RoleReturn:
			if !holder.HasFlag {
				st.Drop(unit)
			}
		case RoleDefend:
			// Crossing back into its own half releases the defender.
			opp, ok := activeOpp[b.Target]
			if !ok || w.Guard.InHome(Opponent(w.Team), opp.Pos()) {
				st.Drop(unit)
			}
		case RoleAttack:
			if !eligible[b.Target] {
				st.Drop(unit)
			}
		case RoleRescue:
			// Rescue is re-derived from the posture every tick.
			st.Drop(unit)
		}
	}
}

// bindRescue sends the unit to the nearest unclaimed cell of its own prison
// region.
func bindRescue(w World, unit model.Player, grid *nav.Grid, claimedPrison map[string]bool) (Binding, bool) {
	var best model.Cell
	bestLen := -1
	for _, c := range w.OwnPrisons() {
		key := PrisonKey(c)
		if claimedPrison[key] {
			continue
		}
		path := nav.Route(grid, unit.Pos(), c)
		if path == nil {
			path = w.Board.Route(unit.Pos(), c, nil)
		}
		if path == nil {
			continue
		}
		if bestLen < 0 || len(path) < bestLen {
			bestLen = len(path)
			best = c
		}
	}
	if bestLen < 0 {
		return Binding{}, false
	}
	claimedPrison[PrisonKey(best)] = true
	return Binding{Role: RoleRescue, Target: PrisonKey(best), Cell: best}, true
}

// bindDefend picks the nearest unclaimed opponent by engagement-route path
// length, preferring opponents already inside home territory.
func bindDefend(w World, unit model.Player, opponents []model.Player, grid *nav.Grid, claimedOpp map[string]bool) (Binding, bool) {
	pick := func(inHomeOnly bool) (model.Player, bool) {
		var best model.Player
		bestLen := -1
		for _, opp := range opponents {
			if claimedOpp[opp.Name] {
				continue
			}
			if inHomeOnly != w.Guard.InHome(w.Team, opp.Pos()) {
				continue
			}
			path := nav.Route(grid, unit.Pos(), opp.Pos())
			if path == nil {
				path = w.Board.Route(unit.Pos(), opp.Pos(), nil)
			}
			if path == nil {
				continue
			}
			if bestLen < 0 || len(path) < bestLen {
				bestLen = len(path)
				best = opp
			}
		}
		return best, bestLen >= 0
	}

	opp, ok := pick(true)
	if !ok {
		opp, ok = pick(false)
	}
	if !ok {
		return Binding{}, false
	}
	claimedOpp[opp.Name] = true
	return Binding{Role: RoleDefend, Target: opp.Name, Cell: opp.Pos()}, true
}

// bindAttack picks the unclaimed pickup-eligible enemy flag with the
// shortest own route. Under a safe-attack posture the flag is only taken
// when the unit beats the nearest free opponent to it by the safety margin.
func bindAttack(w World, unit model.Player, opponents []model.Player, grid *nav.Grid, posture Posture, claimedOpp, claimedFlag map[string]bool) (Binding, bool) {
	var best model.Flag
	bestLen := -1
	for _, flag := range w.EnemyFlags() {
		key := FlagKey(flag.Pos())
		if claimedFlag[key] {
			continue
		}
		path := nav.Route(grid, unit.Pos(), flag.Pos())
		if path == nil {
			path = w.Board.Route(unit.Pos(), flag.Pos(), nil)
		}
		if path == nil {
			continue
		}
		ownLen := len(path)

		if posture.SafeAttack {
			oppLen := nearestFreeOpponentLen(w, opponents, flag.Pos(), claimedOpp)
			if oppLen > 0 && ownLen+posture.SafetyMargin >= oppLen {
				continue
			}
		}
		if bestLen < 0 || ownLen < bestLen {
			bestLen = ownLen
			best = flag
		}
	}
	if bestLen < 0 {
		return Binding{}, false
	}
	key := FlagKey(best.Pos())
	claimedFlag[key] = true
	return Binding{Role: RoleAttack, Target: key, Cell: best.Pos()}, true
}

// nearestFreeOpponentLen is the shortest raw path length from any opponent
// not tied up by a defender to the flag. Returns 0 when no free opponent
// can reach it.
func nearestFreeOpponentLen(w World, opponents []model.Player, flag model.Cell, claimedOpp map[string]bool) int {
	bestLen := 0
	for _, opp := range opponents {
		if claimedOpp[opp.Name] {
			continue
		}
		path := w.Board.Route(opp.Pos(), flag, nil)
		if path == nil {
			continue
		}
		if bestLen == 0 || len(path) < bestLen {
			bestLen = len(path)
		}
	}
	return bestLen
}
