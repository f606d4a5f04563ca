package agent

import (
	"log/slog"

	"gridflag.ai/model"
)

// EventKind identifies the category of a match event worth surfacing in
// the logs and replays.
type EventKind string

const (
	EventUnitCaptured EventKind = "unit_captured"
	EventUnitFreed    EventKind = "unit_freed"
	EventFlagPicked   EventKind = "flag_picked"
	EventFlagDropped  EventKind = "flag_dropped"
	EventScored       EventKind = "scored"
	EventConceded     EventKind = "conceded"
)

// Event is a significant change detected by diffing consecutive ticks.
type Event struct {
	Kind EventKind
	Tick int
	Unit string // unit name where applicable
}

// unitState captures the diffable per-unit fields from one tick.
type unitState struct {
	inPrison bool
	hasFlag  bool
}

// tracker detects match events by comparing each tick against the last.
// It only tracks the controller's own team; opponent state is tactical,
// not historical.
type tracker struct {
	team  string
	units map[string]unitState
	score model.Scores
	seen  bool

	events []Event
}

func newTracker(team string) *tracker {
	return &tracker{
		team:  team,
		units: make(map[string]unitState),
	}
}

// observe diffs the snapshot against the previous tick, logs detected
// events, and stores them for end-of-match reporting.
func (t *tracker) observe(snap model.Snapshot) []Event {
	var detected []Event

	for _, p := range snap.Players {
		if p.Team != t.team {
			continue
		}
		now := unitState{inPrison: p.InPrison, hasFlag: p.HasFlag}
		prev, known := t.units[p.Name]
		t.units[p.Name] = now
		if !known {
			continue
		}

		if now.inPrison && !prev.inPrison {
			detected = append(detected, Event{Kind: EventUnitCaptured, Tick: snap.Tick, Unit: p.Name})
		}
		if !now.inPrison && prev.inPrison {
			detected = append(detected, Event{Kind: EventUnitFreed, Tick: snap.Tick, Unit: p.Name})
		}
		if now.hasFlag && !prev.hasFlag {
			detected = append(detected, Event{Kind: EventFlagPicked, Tick: snap.Tick, Unit: p.Name})
		}
		// Losing a flag without scoring means the carrier was caught.
		if !now.hasFlag && prev.hasFlag && snap.Scores.Score(t.team) == t.score.Score(t.team) {
			detected = append(detected, Event{Kind: EventFlagDropped, Tick: snap.Tick, Unit: p.Name})
		}
	}

	if t.seen {
		if snap.Scores.Score(t.team) > t.score.Score(t.team) {
			detected = append(detected, Event{Kind: EventScored, Tick: snap.Tick})
		}
		opp := opponentOf(t.team)
		if snap.Scores.Score(opp) > t.score.Score(opp) {
			detected = append(detected, Event{Kind: EventConceded, Tick: snap.Tick})
		}
	}
	t.score = snap.Scores
	t.seen = true

	t.events = append(t.events, detected...)
	logEvents(detected)
	return detected
}

// summary returns per-kind event counts for the match so far.
func (t *tracker) summary() map[EventKind]int {
	counts := make(map[EventKind]int)
	for _, e := range t.events {
		counts[e.Kind]++
	}
	return counts
}

func logEvents(events []Event) {
	for _, e := range events {
		if e.Unit != "" {
			slog.Info("match event", "kind", e.Kind, "tick", e.Tick, "unit", e.Unit)
		} else {
			slog.Info("match event", "kind", e.Kind, "tick", e.Tick)
		}
	}
}

func opponentOf(team string) string {
	if team == "L" {
		return "R"
	}
	return "L"
}
