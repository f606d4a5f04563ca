package ipc

import (
	"encoding/json"
	"testing"

	"gridflag.ai/model"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	env, err := NewEnvelope(TypeActions, ActionsMessage{
		Tick:    42,
		Actions: map[string]model.Direction{"l1": model.DirUp},
	})
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}

	frame, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	decoded, err := DecodeEnvelope(frame)
	if err != nil {
		t.Fatalf("DecodeEnvelope: %v", err)
	}
	if decoded.Type != TypeActions {
		t.Errorf("type = %q, want %q", decoded.Type, TypeActions)
	}

	var msg ActionsMessage
	if err := json.Unmarshal(decoded.Data, &msg); err != nil {
		t.Fatalf("unmarshal actions: %v", err)
	}
	if msg.Tick != 42 || msg.Actions["l1"] != model.DirUp {
		t.Errorf("round-tripped message = %+v", msg)
	}
}

func TestDecodeEnvelopeRejectsMissingType(t *testing.T) {
	if _, err := DecodeEnvelope([]byte(`{"data":{}}`)); err == nil {
		t.Error("expected error for envelope without type")
	}
}

func TestDecodeEnvelopeRejectsMalformedJSON(t *testing.T) {
	if _, err := DecodeEnvelope([]byte(`{"type":`)); err == nil {
		t.Error("expected error for malformed frame")
	}
}

func TestStartMessageUnmarshal(t *testing.T) {
	frame := []byte(`{
		"width": 10, "height": 6,
		"walls": [[4,1],[4,2]],
		"teams": {
			"L": {"targets": [[0,2]], "prisons": [[0,5]]},
			"R": {"targets": [[9,2]], "prisons": [[9,5]]}
		},
		"team": "L"
	}`)

	var start StartMessage
	if err := json.Unmarshal(frame, &start); err != nil {
		t.Fatalf("unmarshal start: %v", err)
	}
	if start.Width != 10 || start.Height != 6 || start.Team != "L" {
		t.Errorf("header fields = %+v", start)
	}
	if got := Cells(start.Walls); len(got) != 2 || got[0] != (model.Cell{X: 4, Y: 1}) {
		t.Errorf("walls = %v", got)
	}
	if got := Cells(start.Teams["R"].Targets); len(got) != 1 || got[0] != (model.Cell{X: 9, Y: 2}) {
		t.Errorf("team R targets = %v", got)
	}
}

func TestTickMessageSnapshot(t *testing.T) {
	frame := []byte(`{
		"tick": 7,
		"players": [{"name":"l1","team":"L","posX":1,"posY":2,"hasFlag":true}],
		"flags": [{"posX":9,"posY":0,"team":"R","canPickup":true}],
		"scores": {"L":1,"R":0}
	}`)

	var tick TickMessage
	if err := json.Unmarshal(frame, &tick); err != nil {
		t.Fatalf("unmarshal tick: %v", err)
	}
	snap := tick.Snapshot()
	if snap.Tick != 7 || len(snap.Players) != 1 || !snap.Players[0].HasFlag {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.Scores.Score("L") != 1 {
		t.Errorf("score L = %d, want 1", snap.Scores.Score("L"))
	}
}
