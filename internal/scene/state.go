package scene

import "fmt"

// Status is the lifecycle state of an active scene.
type Status int

const (
	// StatusLocked: unlock conditions unmet, rechecked each dawn.
	StatusLocked Status = iota
	// StatusAvailable: conditions met, awaiting card investment.
	StatusAvailable
	// StatusParticipated: cards invested, counting down.
	StatusParticipated
	// StatusSettling: turns expired, pending resolution.
	StatusSettling
	// StatusCompleted: resolved, pending sweep.
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusLocked:
		return "Locked"
	case StatusAvailable:
		return "Available"
	case StatusParticipated:
		return "Participated"
	case StatusSettling:
		return "Settling"
	case StatusCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

var statusKeys = map[Status]string{
	StatusLocked:       "locked",
	StatusAvailable:    "available",
	StatusParticipated: "participated",
	StatusSettling:     "settling",
	StatusCompleted:    "completed",
}

// MarshalText implements encoding.TextMarshaler for save records.
func (s Status) MarshalText() ([]byte, error) {
	if key, ok := statusKeys[s]; ok {
		return []byte(key), nil
	}
	return nil, fmt.Errorf("unknown scene status %d", int(s))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	for status, key := range statusKeys {
		if key == string(text) {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("unknown scene status %q", text)
}

// State is the mutable per-scene lifecycle state. It exists from
// activation until the post-completion sweep; a re-triggered scene gets a
// fresh one.
type State struct {
	Status          Status            `json:"status"`
	RemainingTurns  int               `json:"remaining_turns"`
	InvestedCardIDs []string          `json:"invested_card_ids,omitempty"`
	CurrentStageID  string            `json:"current_stage_id,omitempty"`
	StageResults    map[string]string `json:"stage_results,omitempty"`
}

// NewState creates a state for a freshly activated scene.
func NewState(duration int, status Status) *State {
	return &State{
		Status:         status,
		RemainingTurns: duration,
		StageResults:   make(map[string]string),
	}
}

// Participate moves the scene from Available to Participated, recording
// the invested card ids. Any other source status is a denial.
func (s *State) Participate(cardIDs []string) bool {
	if s.Status != StatusAvailable {
		return false
	}
	s.Status = StatusParticipated
	s.InvestedCardIDs = append([]string{}, cardIDs...)
	return true
}

// DecrementTurns ticks the remaining-turns counter. Reaching zero moves
// the scene to Settling and returns true.
func (s *State) DecrementTurns() bool {
	if s.Status != StatusAvailable && s.Status != StatusParticipated {
		return false
	}
	s.RemainingTurns--
	if s.RemainingTurns <= 0 {
		s.Status = StatusSettling
		return true
	}
	return false
}

// Complete is the universal terminal transition.
func (s *State) Complete() {
	s.Status = StatusCompleted
}

// RecordStageResult stores a settlement result key for a stage.
func (s *State) RecordStageResult(stageID, resultKey string) {
	if s.StageResults == nil {
		s.StageResults = make(map[string]string)
	}
	s.StageResults[stageID] = resultKey
}

// ExpiredUnparticipated reports whether the scene reached Settling with
// nothing invested, which routes it through the absence penalty instead
// of settlement.
func (s *State) ExpiredUnparticipated() bool {
	return s.Status == StatusSettling && len(s.InvestedCardIDs) == 0
}
