package scene

import "github.com/ebenmoss/sultanate/internal/card"

// Registry holds registered scene definitions plus their mutable states.
//
// Registration order is remembered and pins every batch operation
// (dawn activation, turn decrement, settlement) to a deterministic,
// seed-independent order.
type Registry struct {
	defs   map[string]*Definition
	states map[string]*State
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		defs:   make(map[string]*Definition),
		states: make(map[string]*State),
	}
}

// Register adds a scene definition. It returns false when the id is
// already registered.
func (r *Registry) Register(def *Definition) bool {
	if _, ok := r.defs[def.ID]; ok {
		return false
	}
	r.defs[def.ID] = def
	r.order = append(r.order, def.ID)
	return true
}

// Definition returns the registered definition, or nil.
func (r *Registry) Definition(id string) *Definition {
	return r.defs[id]
}

// State returns the scene's current state, or nil when the scene has no
// state yet (never activated, or swept).
func (r *Registry) State(id string) *State {
	return r.states[id]
}

// IDs returns registered scene ids in registration order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Activate evaluates the scene's unlock conditions and creates (or
// re-grades) its state: Available when reputation meets the minimum and
// every required tag is present in the hand, Locked otherwise. A Locked
// state keeps its full remaining-turns counter and is rechecked on
// subsequent dawns. Activation of an unknown scene, or of one already
// past Locked/fresh, returns the current availability.
func (r *Registry) Activate(id string, reputation int, hand *card.Hand) bool {
	def, ok := r.defs[id]
	if !ok {
		return false
	}

	state := r.states[id]
	if state == nil {
		state = NewState(def.Duration, StatusLocked)
		r.states[id] = state
	}
	if state.Status != StatusLocked {
		return state.Status == StatusAvailable ||
			state.Status == StatusParticipated
	}

	unlocked := reputation >= def.Unlock.MinReputation &&
		hand.HasAllTags(def.Unlock.RequiredTags)
	if unlocked {
		state.Status = StatusAvailable
	}
	return unlocked
}

// ActivateAll runs dawn activation over every registered scene in
// registration order, covering scenes without state and rechecking
// Locked ones.
func (r *Registry) ActivateAll(reputation int, hand *card.Hand) {
	for _, id := range r.order {
		r.Activate(id, reputation, hand)
	}
}

// Participate invests the named cards into an Available scene after
// validating them against the scene's slots. Unknown scenes, wrong
// states, and slot mismatches are denials.
func (r *Registry) Participate(id string, cardIDs []string, hand *card.Hand) bool {
	def, ok := r.defs[id]
	if !ok {
		return false
	}
	state := r.states[id]
	if state == nil || state.Status != StatusAvailable {
		return false
	}

	cards := make([]*card.Instance, 0, len(cardIDs))
	for _, cardID := range cardIDs {
		inst := hand.Get(cardID)
		if inst == nil {
			return false
		}
		cards = append(cards, inst)
	}
	if !ValidateInvestment(def, cards) {
		return false
	}

	return state.Participate(cardIDs)
}

// DecrementTurns ticks every Available or Participated scene once and
// returns the ids that hit zero and moved to Settling, in registration
// order.
func (r *Registry) DecrementTurns() []string {
	var expired []string
	for _, id := range r.order {
		state := r.states[id]
		if state == nil {
			continue
		}
		if state.DecrementTurns() {
			expired = append(expired, id)
		}
	}
	return expired
}

// Complete moves the scene to Completed. Unknown or stateless scenes are
// denials.
func (r *Registry) Complete(id string) bool {
	state := r.states[id]
	if state == nil {
		return false
	}
	state.Complete()
	return true
}

// SweepCompleted removes every Completed scene from the registry —
// state and registration both — and returns the swept ids in
// registration order. A scene re-triggered later must be re-registered
// and receives a fresh state.
func (r *Registry) SweepCompleted() []string {
	var swept []string
	remaining := r.order[:0]
	for _, id := range r.order {
		state := r.states[id]
		if state != nil && state.Status == StatusCompleted {
			delete(r.states, id)
			delete(r.defs, id)
			swept = append(swept, id)
			continue
		}
		remaining = append(remaining, id)
	}
	r.order = remaining
	return swept
}

// StatesSnapshot returns the per-scene state map for save records, keyed
// by scene id. The states are deep-copied.
func (r *Registry) StatesSnapshot() map[string]*State {
	out := make(map[string]*State, len(r.states))
	for id, state := range r.states {
		copied := *state
		copied.InvestedCardIDs = append([]string{}, state.InvestedCardIDs...)
		copied.StageResults = make(map[string]string, len(state.StageResults))
		for k, v := range state.StageResults {
			copied.StageResults[k] = v
		}
		out[id] = &copied
	}
	return out
}

// RestoreStates replaces all scene states from a save record. States for
// unregistered scenes are dropped.
func (r *Registry) RestoreStates(states map[string]*State) {
	r.states = make(map[string]*State, len(states))
	for id, state := range states {
		if _, ok := r.defs[id]; !ok {
			continue
		}
		copied := *state
		copied.InvestedCardIDs = append([]string{}, state.InvestedCardIDs...)
		copied.StageResults = make(map[string]string, len(state.StageResults))
		for k, v := range state.StageResults {
			copied.StageResults[k] = v
		}
		r.states[id] = &copied
	}
}
