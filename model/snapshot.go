package model

// Cell is a grid coordinate. (0,0) is the top-left corner; y grows downward.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Manhattan returns the L1 distance between two cells.
func Manhattan(a, b Cell) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Direction is a single-step order for one player. The empty string means
// hold position, which is a valid order, not an error.
type Direction string

const (
	DirUp    Direction = "up"
	DirDown  Direction = "down"
	DirLeft  Direction = "left"
	DirRight Direction = "right"
	DirHold  Direction = ""
)

// DirectionBetween maps a move from a cell to an adjacent cell onto a wire
// direction. Non-adjacent cells yield DirHold.
func DirectionBetween(from, to Cell) Direction {
	switch {
	case to.X == from.X && to.Y == from.Y-1:
		return DirUp
	case to.X == from.X && to.Y == from.Y+1:
		return DirDown
	case to.X == from.X-1 && to.Y == from.Y:
		return DirLeft
	case to.X == from.X+1 && to.Y == from.Y:
		return DirRight
	}
	return DirHold
}

// Step returns the cell one move from c in direction d.
func (c Cell) Step(d Direction) Cell {
	switch d {
	case DirUp:
		return Cell{c.X, c.Y - 1}
	case DirDown:
		return Cell{c.X, c.Y + 1}
	case DirLeft:
		return Cell{c.X - 1, c.Y}
	case DirRight:
		return Cell{c.X + 1, c.Y}
	}
	return c
}

type Player struct {
	Name     string `json:"name"`
	Team     string `json:"team"`
	PosX     int    `json:"posX"`
	PosY     int    `json:"posY"`
	HasFlag  bool   `json:"hasFlag"`
	InPrison bool   `json:"inPrison"`
}

func (p Player) Pos() Cell { return Cell{p.PosX, p.PosY} }

type Flag struct {
	PosX      int    `json:"posX"`
	PosY      int    `json:"posY"`
	Team      string `json:"team"`
	CanPickup bool   `json:"canPickup"`
}

func (f Flag) Pos() Cell { return Cell{f.PosX, f.PosY} }

type Scores struct {
	L int `json:"L"`
	R int `json:"R"`
}

// Snapshot is the fully materialized world state for one tick. The core
// only reads it; nothing here survives to the next tick.
type Snapshot struct {
	Tick    int      `json:"tick"`
	Players []Player `json:"players"`
	Flags   []Flag   `json:"flags"`
	Scores  Scores   `json:"scores"`
}

// Active returns the players of the given team that are free to move.
func (s Snapshot) Active(team string) []Player {
	var out []Player
	for _, p := range s.Players {
		if p.Team == team && !p.InPrison {
			out = append(out, p)
		}
	}
	return out
}

// Captured returns the players of the given team currently held in prison.
func (s Snapshot) Captured(team string) []Player {
	var out []Player
	for _, p := range s.Players {
		if p.Team == team && p.InPrison {
			out = append(out, p)
		}
	}
	return out
}

// PickupFlags returns the pickup-eligible flags owned by the given team.
func (s Snapshot) PickupFlags(team string) []Flag {
	var out []Flag
	for _, f := range s.Flags {
		if f.Team == team && f.CanPickup {
			out = append(out, f)
		}
	}
	return out
}

// PlayerByName looks a player up by its stable identifier.
func (s Snapshot) PlayerByName(name string) (Player, bool) {
	for _, p := range s.Players {
		if p.Name == name {
			return p, true
		}
	}
	return Player{}, false
}

// Score returns the score for one team key ("L" or "R").
func (s Scores) Score(team string) int {
	if team == "L" {
		return s.L
	}
	return s.R
}
