package ipc

import "gridflag.ai/model"

// These constants must stay in sync with the game server's message types.
const (
	TypeStart    = "start"
	TypeTick     = "tick"
	TypeActions  = "actions"
	TypeGameOver = "game_over"
)

// WireCell is a grid coordinate on the wire: a two-element [x, y] array.
type WireCell [2]int

func (c WireCell) Cell() model.Cell { return model.Cell{X: c[0], Y: c[1]} }

// Cells converts a wire cell list to model cells.
func Cells(wire []WireCell) []model.Cell {
	out := make([]model.Cell, len(wire))
	for i, c := range wire {
		out[i] = c.Cell()
	}
	return out
}

// TeamRegions holds the static cell regions owned by one team.
type TeamRegions struct {
	Targets []WireCell `json:"targets"`
	Prisons []WireCell `json:"prisons"`
}

// StartMessage announces a new match and carries the static map geometry.
// Team identifies which side this controller plays.
type StartMessage struct {
	Width  int                    `json:"width"`
	Height int                    `json:"height"`
	Walls  []WireCell             `json:"walls"`
	Teams  map[string]TeamRegions `json:"teams"`
	Team   string                 `json:"team"`
}

// TickMessage is the full world snapshot for one tick.
type TickMessage struct {
	Tick    int            `json:"tick"`
	Players []model.Player `json:"players"`
	Flags   []model.Flag   `json:"flags"`
	Scores  model.Scores   `json:"scores"`
}

// Snapshot converts the wire tick into the core's snapshot type.
func (m TickMessage) Snapshot() model.Snapshot {
	return model.Snapshot{
		Tick:    m.Tick,
		Players: m.Players,
		Flags:   m.Flags,
		Scores:  m.Scores,
	}
}

// ActionsMessage is the reply to a tick: one direction per friendly player.
// The empty string direction means hold position.
type ActionsMessage struct {
	Tick    int                        `json:"tick"`
	Actions map[string]model.Direction `json:"actions"`
}

// GameOverMessage reports the final state of a finished match.
type GameOverMessage struct {
	Tick   int          `json:"tick"`
	Scores model.Scores `json:"scores"`
}
