package agent

import (
	"encoding/json"
	"testing"

	"gridflag.ai/ipc"
	"gridflag.ai/model"
	"gridflag.ai/tactics"
)

func newTestAgent(t *testing.T, opts ...Option) *Agent {
	t.Helper()
	validator, err := ipc.NewValidator()
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	selector, err := tactics.NewSelector(tactics.DefaultRules())
	if err != nil {
		t.Fatalf("NewSelector: %v", err)
	}
	return New(nil, validator, tactics.NewAllocator(selector), opts...)
}

func envelope(t *testing.T, msgType string, data any) ipc.Envelope {
	t.Helper()
	env, err := ipc.NewEnvelope(msgType, data)
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}
	return env
}

func startEnvelope(t *testing.T) ipc.Envelope {
	return envelope(t, ipc.TypeStart, ipc.StartMessage{
		Width:  10,
		Height: 6,
		Teams: map[string]ipc.TeamRegions{
			"L": {Targets: []ipc.WireCell{{0, 2}}, Prisons: []ipc.WireCell{{0, 5}}},
			"R": {Targets: []ipc.WireCell{{9, 2}}, Prisons: []ipc.WireCell{{9, 5}}},
		},
		Team: "L",
	})
}

func TestTickBeforeStartIsRejected(t *testing.T) {
	a := newTestAgent(t)
	env := envelope(t, ipc.TypeTick, ipc.TickMessage{Tick: 1})
	if _, err := a.HandleTick(env); err == nil {
		t.Error("expected error for tick before start")
	}
}

func TestStartThenTickProducesActions(t *testing.T) {
	a := newTestAgent(t)
	if _, err := a.HandleStart(startEnvelope(t)); err != nil {
		t.Fatalf("HandleStart: %v", err)
	}
	if a.Team != "L" {
		t.Fatalf("team = %q, want L", a.Team)
	}

	tick := envelope(t, ipc.TypeTick, ipc.TickMessage{
		Tick: 1,
		Players: []model.Player{
			{Name: "l1", Team: "L", PosX: 3, PosY: 2, HasFlag: true},
			{Name: "l2", Team: "L", PosX: 2, PosY: 4},
			{Name: "r1", Team: "R", PosX: 7, PosY: 2},
		},
		Flags: []model.Flag{{PosX: 9, PosY: 0, Team: "R", CanPickup: true}},
	})
	resp, err := a.HandleTick(tick)
	if err != nil {
		t.Fatalf("HandleTick: %v", err)
	}
	if resp == nil || resp.Type != ipc.TypeActions {
		t.Fatalf("response = %+v, want actions envelope", resp)
	}

	var actions ipc.ActionsMessage
	if err := json.Unmarshal(resp.Data, &actions); err != nil {
		t.Fatalf("unmarshal actions: %v", err)
	}
	if actions.Tick != 1 {
		t.Errorf("actions tick = %d, want 1", actions.Tick)
	}
	if len(actions.Actions) != 2 {
		t.Errorf("actions cover %d units, want 2", len(actions.Actions))
	}
	// The carrier heads home toward (0,2).
	if actions.Actions["l1"] != model.DirLeft {
		t.Errorf("carrier direction = %q, want left", actions.Actions["l1"])
	}
}

func TestMalformedTickIsRejected(t *testing.T) {
	a := newTestAgent(t)
	if _, err := a.HandleStart(startEnvelope(t)); err != nil {
		t.Fatalf("HandleStart: %v", err)
	}

	bad := ipc.Envelope{Type: ipc.TypeTick, Data: json.RawMessage(`{"tick": 1}`)}
	if _, err := a.HandleTick(bad); err == nil {
		t.Error("expected schema validation error for tick without players")
	}
}

func TestStartWithoutTeamIsRejected(t *testing.T) {
	a := newTestAgent(t)
	env := envelope(t, ipc.TypeStart, ipc.StartMessage{Width: 10, Height: 6})
	if _, err := a.HandleStart(env); err == nil {
		t.Error("expected error for start without team assignment")
	}
}

func TestGameOverResetsMatchState(t *testing.T) {
	a := newTestAgent(t)
	if _, err := a.HandleStart(startEnvelope(t)); err != nil {
		t.Fatalf("HandleStart: %v", err)
	}

	over := envelope(t, ipc.TypeGameOver, ipc.GameOverMessage{
		Tick:   800,
		Scores: model.Scores{L: 2, R: 1},
	})
	if _, err := a.HandleGameOver(over); err != nil {
		t.Fatalf("HandleGameOver: %v", err)
	}

	// A tick after game over must be rejected until the next start.
	tick := envelope(t, ipc.TypeTick, ipc.TickMessage{Tick: 801})
	if _, err := a.HandleTick(tick); err == nil {
		t.Error("expected error for tick after game over")
	}
}

func TestReplayRecordingAcrossMatch(t *testing.T) {
	dir := t.TempDir()
	a := newTestAgent(t, WithReplayDir(dir))
	if _, err := a.HandleStart(startEnvelope(t)); err != nil {
		t.Fatalf("HandleStart: %v", err)
	}
	if a.recorder == nil {
		t.Fatal("expected an open recorder with replay dir set")
	}

	tick := envelope(t, ipc.TypeTick, ipc.TickMessage{
		Tick:    1,
		Players: []model.Player{{Name: "l1", Team: "L", PosX: 3, PosY: 2}},
	})
	if _, err := a.HandleTick(tick); err != nil {
		t.Fatalf("HandleTick: %v", err)
	}

	over := envelope(t, ipc.TypeGameOver, ipc.GameOverMessage{Tick: 2})
	if _, err := a.HandleGameOver(over); err != nil {
		t.Fatalf("HandleGameOver: %v", err)
	}
	if a.recorder != nil {
		t.Error("recorder should be closed at game over")
	}
}
