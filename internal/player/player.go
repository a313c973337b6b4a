// Package player holds the player's resource state: gold, reputation,
// golden dice, rewind charges, and daily think charges.
package player

// Reputation bounds. Every mutation routes through ChangeReputation so
// the clamp can never be bypassed.
const (
	ReputationMin = 0
	ReputationMax = 100
)

// DefaultThinkAllowance is the number of think charges granted each dawn.
const DefaultThinkAllowance = 3

// State is the player's mutable resource state.
type State struct {
	Gold          int
	reputation    int
	GoldenDice    int
	RewindCharges int
	ThinkCharges  int
}

// New creates a player state with the provided starting gold and
// reputation. Reputation is clamped on the way in.
func New(gold, reputation int) *State {
	s := &State{Gold: gold}
	s.SetReputation(reputation)
	s.ThinkCharges = DefaultThinkAllowance
	return s
}

// Reputation returns the current reputation, always within [0, 100].
func (s *State) Reputation() int {
	return s.reputation
}

// SetReputation sets reputation directly, clamped to [0, 100].
func (s *State) SetReputation(value int) {
	if value < ReputationMin {
		value = ReputationMin
	}
	if value > ReputationMax {
		value = ReputationMax
	}
	s.reputation = value
}

// ChangeReputation applies a delta through the clamped setter.
func (s *State) ChangeReputation(delta int) {
	s.SetReputation(s.reputation + delta)
}

// ChangeGold applies a delta to gold. Gold is signed and unbounded.
func (s *State) ChangeGold(delta int) {
	s.Gold += delta
}

// SpendGoldenDice consumes n golden dice, returning false without
// mutation when fewer than n are held or n is not positive.
func (s *State) SpendGoldenDice(n int) bool {
	if n <= 0 || s.GoldenDice < n {
		return false
	}
	s.GoldenDice -= n
	return true
}

// SpendRewindCharge consumes one rewind charge, returning false when
// none remain.
func (s *State) SpendRewindCharge() bool {
	if s.RewindCharges <= 0 {
		return false
	}
	s.RewindCharges--
	return true
}

// UseThinkCharge consumes one think charge, returning false when none
// remain.
func (s *State) UseThinkCharge() bool {
	if s.ThinkCharges <= 0 {
		return false
	}
	s.ThinkCharges--
	return true
}

// ResetThinkCharges restores the daily allowance at dawn.
func (s *State) ResetThinkCharges(allowance int) {
	s.ThinkCharges = allowance
}

// Snapshot is a plain-field copy of the player state for rewind buffers
// and save records.
type Snapshot struct {
	Gold          int `json:"gold"`
	Reputation    int `json:"reputation"`
	GoldenDice    int `json:"golden_dice"`
	RewindCharges int `json:"rewind_charges"`
	ThinkCharges  int `json:"think_charges"`
}

// Snapshot captures the current state.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Gold:          s.Gold,
		Reputation:    s.reputation,
		GoldenDice:    s.GoldenDice,
		RewindCharges: s.RewindCharges,
		ThinkCharges:  s.ThinkCharges,
	}
}

// Restore replaces the state wholesale from a snapshot.
func (s *State) Restore(snap Snapshot) {
	s.Gold = snap.Gold
	s.SetReputation(snap.Reputation)
	s.GoldenDice = snap.GoldenDice
	s.RewindCharges = snap.RewindCharges
	s.ThinkCharges = snap.ThinkCharges
}
