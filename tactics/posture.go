package tactics

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"gridflag.ai/model"
)

// Posture is the stance the allocator works under for one tick: how many
// units stand defense, whether attacks require a safety margin, and when
// rescue pre-empts everything else.
type Posture struct {
	Name            string
	MaxDefenders    int
	SafeAttack      bool
	SafetyMargin    int
	RescueThreshold int
}

// PostureRule pairs an expr condition with the posture selected when it
// matches. Rules are evaluated in priority order; the first match wins.
type PostureRule struct {
	Name         string
	Priority     int
	ConditionSrc string
	Posture      Posture

	program *vm.Program
}

// PostureEnv exposes tick facts to rule conditions.
type PostureEnv struct {
	Snap model.Snapshot
	Team string
}

// OwnCaptured counts teammates currently held in prison.
func (e PostureEnv) OwnCaptured() int { return len(e.Snap.Captured(e.Team)) }

// EnemyCaptured counts opposing players currently held in prison.
func (e PostureEnv) EnemyCaptured() int { return len(e.Snap.Captured(Opponent(e.Team))) }

// ActiveUnits counts teammates free to move.
func (e PostureEnv) ActiveUnits() int { return len(e.Snap.Active(e.Team)) }

// ScoreLead is own score minus opponent score.
func (e PostureEnv) ScoreLead() int {
	return e.Snap.Scores.Score(e.Team) - e.Snap.Scores.Score(Opponent(e.Team))
}

func (e PostureEnv) Tick() int { return e.Snap.Tick }

// Opponent maps a team key to the opposing one.
func Opponent(team string) string {
	if team == "L" {
		return "R"
	}
	return "L"
}

// Selector holds the compiled posture rules for a match.
type Selector struct {
	rules []*PostureRule
}

// NewSelector compiles all rule conditions into expr bytecode and sorts by
// priority. Compilation failure is a startup error, never probed at tick
// time.
func NewSelector(rules []*PostureRule) (*Selector, error) {
	for _, r := range rules {
		prog, err := expr.Compile(r.ConditionSrc, expr.Env(PostureEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile posture rule %q: %w", r.Name, err)
		}
		r.program = prog
	}
	sorted := append([]*PostureRule(nil), rules...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority > sorted[j].Priority
	})
	return &Selector{rules: sorted}, nil
}

// Select evaluates the rules against the tick environment and returns the
// posture of the first match. A condition error skips that rule; no match
// falls back to the baseline posture.
func (s *Selector) Select(env PostureEnv) Posture {
	for _, r := range s.rules {
		result, err := vm.Run(r.program, env)
		if err != nil {
			slog.Warn("posture condition error", "rule", r.Name, "error", err)
			continue
		}
		if match, ok := result.(bool); ok && match {
			return r.Posture
		}
	}
	return basePosture("fallback", 2)
}

func basePosture(name string, defenders int) Posture {
	return Posture{
		Name:            name,
		MaxDefenders:    defenders,
		SafetyMargin:    2,
		RescueThreshold: 2,
	}
}

// DefaultRules is the baseline doctrine: defense thins out as more
// opponents sit in prison, and attacks demand a safety margin only while
// holding the prisoner advantage.
func DefaultRules() []*PostureRule {
	return []*PostureRule{
		{
			Name:         "all-attack",
			Priority:     30,
			ConditionSrc: `EnemyCaptured() >= 3`,
			Posture:      basePosture("all-attack", 0),
		},
		{
			Name:         "thin-defense",
			Priority:     20,
			ConditionSrc: `EnemyCaptured() == 2`,
			Posture:      basePosture("thin-defense", 1),
		},
		{
			Name:         "advantage-probe",
			Priority:     10,
			ConditionSrc: `EnemyCaptured() > OwnCaptured()`,
			Posture: Posture{
				Name:            "advantage-probe",
				MaxDefenders:    2,
				SafeAttack:      true,
				SafetyMargin:    2,
				RescueThreshold: 2,
			},
		},
		{
			Name:         "hold-the-line",
			Priority:     0,
			ConditionSrc: `true`,
			Posture:      basePosture("hold-the-line", 2),
		},
	}
}
