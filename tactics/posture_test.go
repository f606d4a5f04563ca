package tactics

import (
	"testing"

	"gridflag.ai/model"
)

func envWithPrisoners(own, enemy int) PostureEnv {
	var players []model.Player
	for i := 0; i < own; i++ {
		players = append(players, model.Player{Name: "l-cap", Team: "L", InPrison: true})
	}
	for i := 0; i < enemy; i++ {
		players = append(players, model.Player{Name: "r-cap", Team: "R", InPrison: true})
	}
	return PostureEnv{Snap: model.Snapshot{Players: players}, Team: "L"}
}

func TestDefaultDoctrineSelection(t *testing.T) {
	s, err := NewSelector(DefaultRules())
	if err != nil {
		t.Fatalf("compile default rules: %v", err)
	}

	cases := []struct {
		own, enemy    int
		wantName      string
		wantDefenders int
	}{
		{0, 0, "hold-the-line", 2},
		{0, 1, "advantage-probe", 2},
		{0, 2, "thin-defense", 1},
		{0, 3, "all-attack", 0},
		{2, 1, "hold-the-line", 2},
	}
	for _, tc := range cases {
		got := s.Select(envWithPrisoners(tc.own, tc.enemy))
		if got.Name != tc.wantName {
			t.Errorf("own=%d enemy=%d: posture %q, want %q", tc.own, tc.enemy, got.Name, tc.wantName)
		}
		if got.MaxDefenders != tc.wantDefenders {
			t.Errorf("own=%d enemy=%d: defenders %d, want %d", tc.own, tc.enemy, got.MaxDefenders, tc.wantDefenders)
		}
	}
}

func TestAdvantageProbeRequiresSafetyMargin(t *testing.T) {
	s, err := NewSelector(DefaultRules())
	if err != nil {
		t.Fatalf("compile default rules: %v", err)
	}
	got := s.Select(envWithPrisoners(0, 1))
	if !got.SafeAttack {
		t.Error("advantage-probe should require the attack safety margin")
	}
	if got.SafetyMargin != 2 {
		t.Errorf("safety margin = %d, want 2", got.SafetyMargin)
	}
}

func TestHigherPriorityRuleWins(t *testing.T) {
	rules := []*PostureRule{
		{Name: "low", Priority: 1, ConditionSrc: "true", Posture: basePosture("low", 1)},
		{Name: "high", Priority: 9, ConditionSrc: "true", Posture: basePosture("high", 3)},
	}
	s, err := NewSelector(rules)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if got := s.Select(envWithPrisoners(0, 0)); got.Name != "high" {
		t.Errorf("selected %q, want high", got.Name)
	}
}

func TestNoMatchFallsBack(t *testing.T) {
	rules := []*PostureRule{
		{Name: "never", Priority: 5, ConditionSrc: "Tick() > 1000000", Posture: basePosture("never", 0)},
	}
	s, err := NewSelector(rules)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	got := s.Select(envWithPrisoners(0, 0))
	if got.Name != "fallback" || got.MaxDefenders != 2 {
		t.Errorf("fallback posture = %+v", got)
	}
}

func TestBadConditionFailsCompilation(t *testing.T) {
	rules := []*PostureRule{
		{Name: "broken", Priority: 1, ConditionSrc: "EnemyCaptured() +", Posture: basePosture("broken", 0)},
	}
	if _, err := NewSelector(rules); err == nil {
		t.Fatal("expected a compile error for malformed condition")
	}
}

func TestOpponent(t *testing.T) {
	if Opponent("L") != "R" || Opponent("R") != "L" {
		t.Error("Opponent must swap team keys")
	}
}
