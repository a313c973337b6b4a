package game

import "fmt"

// Phase is the position inside the daily cycle.
type Phase int

const (
	// PhaseDawn: think charges reset, locked scenes rechecked.
	PhaseDawn Phase = iota
	// PhaseAction: the player invests cards, equips, thinks.
	PhaseAction
	// PhaseSettlement: expired scenes resolve.
	PhaseSettlement
)

func (p Phase) String() string {
	switch p {
	case PhaseDawn:
		return "Dawn"
	case PhaseAction:
		return "Action"
	case PhaseSettlement:
		return "Settlement"
	default:
		return "Unknown"
	}
}

var phaseKeys = map[Phase]string{
	PhaseDawn:       "dawn",
	PhaseAction:     "action",
	PhaseSettlement: "settlement",
}

// Key returns the save-record key for the phase.
func (p Phase) Key() string {
	return phaseKeys[p]
}

// ParsePhase maps a save-record key back to a phase.
func ParsePhase(key string) (Phase, error) {
	for phase, k := range phaseKeys {
		if k == key {
			return phase, nil
		}
	}
	return PhaseDawn, fmt.Errorf("unknown phase %q", key)
}
