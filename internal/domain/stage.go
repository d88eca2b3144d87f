package domain

import "fmt"

// Stage is the lifecycle stage of a pipeline item.
type Stage string

const (
	StageDiscovered Stage = "discovered"
	StagePreparing  Stage = "preparing"
	StageSubmitted  Stage = "submitted"
	StagePending    Stage = "pending"
	StageWon        Stage = "won"
	StageLost       Stage = "lost"
)

// AllStages lists the stages in canonical forward order (by ordinal).
var AllStages = []Stage{
	StageDiscovered,
	StagePreparing,
	StageSubmitted,
	StagePending,
	StageWon,
	StageLost,
}

// stageDef fixes a stage's position in the forward sequence and whether it
// ends the lifecycle.
type stageDef struct {
	ordinal  int
	terminal bool
	label    string
}

var stageDefs = map[Stage]stageDef{
	StageDiscovered: {0, false, "Discovered"},
	StagePreparing:  {1, false, "Preparing"},
	StageSubmitted:  {2, false, "Submitted"},
	StagePending:    {3, false, "Pending"},
	StageWon:        {4, true, "Won"},
	StageLost:       {5, true, "Lost"},
}

// Valid reports whether s is one of the six defined stages.
func (s Stage) Valid() bool {
	_, ok := stageDefs[s]
	return ok
}

// Ordinal returns the stage's position in the forward sequence (0..5).
// Undefined stages return -1.
func (s Stage) Ordinal() int {
	def, ok := stageDefs[s]
	if !ok {
		return -1
	}
	return def.ordinal
}

// IsTerminal reports whether the stage ends the lifecycle (Won or Lost).
func (s Stage) IsTerminal() bool {
	def, ok := stageDefs[s]
	return ok && def.terminal
}

// Label returns the display name for the stage.
func (s Stage) Label() string {
	def, ok := stageDefs[s]
	if !ok {
		return string(s)
	}
	return def.label
}

// ParseStage resolves a stage string, accepting only the six defined values.
func ParseStage(raw string) (Stage, error) {
	s := Stage(raw)
	if !s.Valid() {
		return "", &InvalidTargetError{Target: s}
	}
	return s, nil
}

// NextStage returns the stage at ordinal+1 in the forward sequence. Lost is
// an archive stage, never a forward target, so it is skipped entirely. The
// second return is false when no forward stage exists (Won, Lost, or an
// undefined stage).
func NextStage(s Stage) (Stage, bool) {
	def, ok := stageDefs[s]
	if !ok || def.terminal {
		return "", false
	}
	for _, candidate := range AllStages {
		if stageDefs[candidate].ordinal != def.ordinal+1 {
			continue
		}
		if candidate == StageLost {
			return "", false
		}
		return candidate, true
	}
	return "", false
}

// CanAdvance reports whether the canonical "move to next stage" action is
// available: true for Discovered, Preparing, Submitted and Pending, false
// for the terminal stages.
func CanAdvance(s Stage) bool {
	_, ok := NextStage(s)
	return ok
}

// InvalidTargetError reports a transition request to a stage that does not
// exist. This is a programming error and must not be clamped to a nearby
// valid stage.
type InvalidTargetError struct {
	Target Stage
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("invalid target stage %q", string(e.Target))
}
