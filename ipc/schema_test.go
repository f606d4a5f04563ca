package ipc

import (
	"encoding/json"
	"testing"
)

func TestValidateTickAcceptsWellFormedPayload(t *testing.T) {
	v, err := NewValidator()
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	payload := json.RawMessage(`{
		"tick": 3,
		"players": [{"name":"l1","team":"L","posX":1,"posY":2}],
		"flags": [{"posX":9,"posY":0,"team":"R","canPickup":true}],
		"scores": {"L":0,"R":0}
	}`)
	if err := v.ValidateTick(payload); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestValidateTickRejections(t *testing.T) {
	v, err := NewValidator()
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}

	cases := []struct {
		name    string
		payload string
	}{
		{"missing players", `{"tick": 3}`},
		{"negative tick", `{"tick": -1, "players": []}`},
		{"bad team key", `{"tick": 1, "players": [{"name":"x","team":"Z","posX":0,"posY":0}]}`},
		{"player missing position", `{"tick": 1, "players": [{"name":"x","team":"L"}]}`},
		{"not json", `{{`},
	}
	for _, tc := range cases {
		if err := v.ValidateTick(json.RawMessage(tc.payload)); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}
