package nav

import "gridflag.ai/model"

// Side classifies a cell relative to one team's half of the board.
type Side int

const (
	Home Side = iota
	Enemy
)

// Guard answers territory questions for both teams. Which half a team owns
// is derived once at match start from the position of its own delivery
// region and never changes during the match.
type Guard struct {
	board    *model.Board
	homeLeft map[string]bool
}

// NewGuard derives each team's half from its delivery region. A team with
// no delivery cells defaults to the left half; the tick path treats that
// state as degraded rather than fatal.
func NewGuard(b *model.Board, teams ...string) *Guard {
	g := &Guard{board: b, homeLeft: make(map[string]bool, len(teams))}
	for _, team := range teams {
		onLeft := true
		if targets := b.Targets(team); len(targets) > 0 {
			onLeft = b.OnLeft(targets[0])
		}
		g.homeLeft[team] = onLeft
	}
	return g
}

// HomeOnLeft reports whether the team's half is the left half.
func (g *Guard) HomeOnLeft(team string) bool { return g.homeLeft[team] }

// SideOf classifies a cell as Home or Enemy for the given team.
func (g *Guard) SideOf(team string, c model.Cell) Side {
	if g.board.OnLeft(c) == g.homeLeft[team] {
		return Home
	}
	return Enemy
}

func (g *Guard) InHome(team string, c model.Cell) bool {
	return g.SideOf(team, c) == Home
}

func (g *Guard) InEnemy(team string, c model.Cell) bool {
	return g.SideOf(team, c) == Enemy
}
