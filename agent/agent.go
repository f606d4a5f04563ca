package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"gridflag.ai/archive"
	"gridflag.ai/ipc"
	"gridflag.ai/model"
	"gridflag.ai/nav"
	"gridflag.ai/replay"
	"gridflag.ai/tactics"
)

// Agent owns the decision-making for a single match session. One agent is
// created per websocket connection; the board and team identity arrive in
// the start message and everything sticky (role bindings, event tracker,
// replay file) is reset with it.
type Agent struct {
	Conn      *ipc.Connection
	Team      string
	validator *ipc.Validator
	allocator *tactics.Allocator

	board *model.Board
	guard *nav.Guard
	state *tactics.State

	tracker *tracker

	replayDir string
	recorder  *replay.Recorder
	results   *archive.Store
}

// Option configures optional agent facilities.
type Option func(*Agent)

// WithReplayDir enables per-match replay recording into dir.
func WithReplayDir(dir string) Option {
	return func(a *Agent) { a.replayDir = dir }
}

// WithResults enables match archiving into the given store.
func WithResults(store *archive.Store) Option {
	return func(a *Agent) { a.results = store }
}

func New(conn *ipc.Connection, validator *ipc.Validator, allocator *tactics.Allocator, opts ...Option) *Agent {
	a := &Agent{
		Conn:      conn,
		validator: validator,
		allocator: allocator,
		state:     tactics.NewState(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// HandleStart builds the board from the match geometry and resets all
// per-match state.
func (a *Agent) HandleStart(env ipc.Envelope) (*ipc.Envelope, error) {
	var start ipc.StartMessage
	if err := json.Unmarshal(env.Data, &start); err != nil {
		return nil, fmt.Errorf("unmarshal start: %w", err)
	}
	if start.Team == "" {
		return nil, fmt.Errorf("start message has no team assignment")
	}

	targets := make(map[string][]model.Cell)
	prisons := make(map[string][]model.Cell)
	teams := make([]string, 0, len(start.Teams))
	for team, regions := range start.Teams {
		targets[team] = ipc.Cells(regions.Targets)
		prisons[team] = ipc.Cells(regions.Prisons)
		teams = append(teams, team)
	}

	a.Team = start.Team
	a.board = model.NewBoard(start.Width, start.Height, ipc.Cells(start.Walls), targets, prisons)
	a.guard = nav.NewGuard(a.board, teams...)
	a.state.Reset()
	a.tracker = newTracker(a.Team)

	a.closeRecorder()
	if a.replayDir != "" {
		rec, err := replay.Open(a.replayDir)
		if err != nil {
			slog.Warn("replay recording disabled", "error", err)
		} else {
			a.recorder = rec
		}
	}

	slog.Info("match started",
		"team", a.Team,
		"width", start.Width,
		"height", start.Height,
		"walls", len(start.Walls),
	)
	return nil, nil
}

// HandleTick turns one world snapshot into one actions reply. A tick that
// fails schema validation is skipped rather than guessed at; the game
// treats a missing reply as all-hold.
func (a *Agent) HandleTick(env ipc.Envelope) (*ipc.Envelope, error) {
	if a.board == nil {
		return nil, fmt.Errorf("tick before start")
	}
	if err := a.validator.ValidateTick(env.Data); err != nil {
		return nil, err
	}

	var tick ipc.TickMessage
	if err := json.Unmarshal(env.Data, &tick); err != nil {
		return nil, fmt.Errorf("unmarshal tick: %w", err)
	}
	snap := tick.Snapshot()

	world := tactics.World{
		Board: a.board,
		Guard: a.guard,
		Snap:  snap,
		Team:  a.Team,
	}

	bindings := a.allocator.Resolve(world, a.state)
	actions := tactics.Directions(world, a.state, bindings)

	a.tracker.observe(snap)
	a.record(snap, actions)

	resp, err := ipc.NewEnvelope(ipc.TypeActions, ipc.ActionsMessage{
		Tick:    snap.Tick,
		Actions: actions,
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// HandleGameOver archives the final score and closes the replay.
func (a *Agent) HandleGameOver(env ipc.Envelope) (*ipc.Envelope, error) {
	var over ipc.GameOverMessage
	if err := json.Unmarshal(env.Data, &over); err != nil {
		return nil, fmt.Errorf("unmarshal game over: %w", err)
	}

	scoreFor := over.Scores.Score(a.Team)
	scoreAgainst := over.Scores.Score(tactics.Opponent(a.Team))
	attrs := []any{
		"team", a.Team,
		"tick", over.Tick,
		"scoreFor", scoreFor,
		"scoreAgainst", scoreAgainst,
		"outcome", archive.Outcome(scoreFor, scoreAgainst),
	}
	if a.tracker != nil {
		attrs = append(attrs, "events", a.tracker.summary())
	}
	slog.Info("match over", attrs...)

	if a.results != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := a.results.RecordMatch(ctx, archive.MatchResult{
			Team:         a.Team,
			ScoreFor:     scoreFor,
			ScoreAgainst: scoreAgainst,
			Ticks:        over.Tick,
			Outcome:      archive.Outcome(scoreFor, scoreAgainst),
			FinishedAt:   time.Now(),
		})
		if err != nil {
			slog.Error("failed to archive match", "error", err)
		}
	}

	a.closeRecorder()
	a.state.Reset()
	a.board = nil
	return nil, nil
}

func (a *Agent) record(snap model.Snapshot, actions map[string]model.Direction) {
	if a.recorder == nil {
		return
	}
	err := a.recorder.Write(replay.TickRecord{
		Tick:    snap.Tick,
		Players: snap.Players,
		Scores:  snap.Scores,
		Actions: actions,
	})
	if err != nil {
		slog.Warn("replay write failed, disabling recording", "error", err)
		a.closeRecorder()
	}
}

func (a *Agent) closeRecorder() {
	if a.recorder == nil {
		return
	}
	if err := a.recorder.Close(); err != nil {
		slog.Warn("replay close failed", "error", err)
	}
	a.recorder = nil
}
