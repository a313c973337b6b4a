package scene

import (
	"testing"

	"github.com/ebenmoss/sultanate/internal/card"
)

func bazaarDef(id string, duration int) *Definition {
	return &Definition{
		ID:       id,
		Name:     id,
		Type:     TypeEvent,
		Duration: duration,
		Slots:    []Slot{{Type: card.TypeCharacter, Required: true}},
		Entry:    "open",
		Stages:   []Stage{{ID: "open", Final: true}},
	}
}

func handWith(t *testing.T, defs ...*card.Definition) *card.Hand {
	t.Helper()
	h := card.NewHand()
	for _, def := range defs {
		if h.Add(def) == nil {
			t.Fatalf("failed to add %q to hand", def.ID)
		}
	}
	return h
}

func TestActivateUnlockConditions(t *testing.T) {
	spy := &card.Definition{ID: "spy", Type: card.TypeCharacter, Tags: []string{"informant"}}

	tests := []struct {
		name       string
		unlock     Unlock
		reputation int
		hand       func(t *testing.T) *card.Hand
		want       bool
	}{
		{
			name:       "no conditions",
			reputation: 0,
			hand:       func(t *testing.T) *card.Hand { return card.NewHand() },
			want:       true,
		},
		{
			name:       "reputation met",
			unlock:     Unlock{MinReputation: 30},
			reputation: 30,
			hand:       func(t *testing.T) *card.Hand { return card.NewHand() },
			want:       true,
		},
		{
			name:       "reputation unmet",
			unlock:     Unlock{MinReputation: 30},
			reputation: 29,
			hand:       func(t *testing.T) *card.Hand { return card.NewHand() },
			want:       false,
		},
		{
			name:       "required tag present",
			unlock:     Unlock{RequiredTags: []string{"informant"}},
			reputation: 0,
			hand:       func(t *testing.T) *card.Hand { return handWith(t, spy) },
			want:       true,
		},
		{
			name:       "required tag missing",
			unlock:     Unlock{RequiredTags: []string{"informant", "blade"}},
			reputation: 0,
			hand:       func(t *testing.T) *card.Hand { return handWith(t, spy) },
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			def := bazaarDef("bazaar", 3)
			def.Unlock = tt.unlock
			r.Register(def)

			got := r.Activate("bazaar", tt.reputation, tt.hand(t))
			if got != tt.want {
				t.Errorf("Activate() = %v, want %v", got, tt.want)
			}

			state := r.State("bazaar")
			if state == nil {
				t.Fatal("Activate() left no state")
			}
			wantStatus := StatusLocked
			if tt.want {
				wantStatus = StatusAvailable
			}
			if state.Status != wantStatus {
				t.Errorf("status = %s, want %s", state.Status, wantStatus)
			}
			if state.RemainingTurns != 3 {
				t.Errorf("RemainingTurns = %d, want full duration 3", state.RemainingTurns)
			}
		})
	}
}

func TestLockedSceneRecheckedAtDawn(t *testing.T) {
	r := NewRegistry()
	def := bazaarDef("audience", 2)
	def.Unlock = Unlock{MinReputation: 40}
	r.Register(def)

	if r.Activate("audience", 10, card.NewHand()) {
		t.Fatal("scene unlocked below minimum reputation")
	}
	if !r.Activate("audience", 40, card.NewHand()) {
		t.Fatal("scene stayed locked at minimum reputation")
	}
	if got := r.State("audience").Status; got != StatusAvailable {
		t.Errorf("status = %s, want Available", got)
	}
}

func TestParticipate(t *testing.T) {
	guard := &card.Definition{ID: "guard", Type: card.TypeCharacter}

	r := NewRegistry()
	r.Register(bazaarDef("bazaar", 3))
	hand := handWith(t, guard)

	if r.Participate("bazaar", []string{"guard"}, hand) {
		t.Fatal("Participate() succeeded before activation")
	}

	r.Activate("bazaar", 50, hand)
	if r.Participate("bazaar", []string{"ghost"}, hand) {
		t.Fatal("Participate() accepted a card not in hand")
	}
	if !r.Participate("bazaar", []string{"guard"}, hand) {
		t.Fatal("Participate() denied a valid investment")
	}

	state := r.State("bazaar")
	if state.Status != StatusParticipated {
		t.Errorf("status = %s, want Participated", state.Status)
	}
	if len(state.InvestedCardIDs) != 1 || state.InvestedCardIDs[0] != "guard" {
		t.Errorf("InvestedCardIDs = %v, want [guard]", state.InvestedCardIDs)
	}

	if r.Participate("bazaar", []string{"guard"}, hand) {
		t.Error("Participate() succeeded twice")
	}
}

func TestDecrementTurnsRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	hand := card.NewHand()
	// Register out of alphabetical order to pin ordering to registration.
	for _, id := range []string{"zeta", "alpha", "mid"} {
		r.Register(bazaarDef(id, 1))
		r.Activate(id, 50, hand)
	}

	expired := r.DecrementTurns()
	want := []string{"zeta", "alpha", "mid"}
	if len(expired) != len(want) {
		t.Fatalf("expired = %v, want %v", expired, want)
	}
	for i := range want {
		if expired[i] != want[i] {
			t.Errorf("expired[%d] = %q, want %q (registration order)", i, expired[i], want[i])
		}
	}
	for _, id := range want {
		if got := r.State(id).Status; got != StatusSettling {
			t.Errorf("scene %q status = %s, want Settling", id, got)
		}
	}
}

func TestDecrementSkipsLockedAndSettling(t *testing.T) {
	r := NewRegistry()
	def := bazaarDef("locked", 2)
	def.Unlock = Unlock{MinReputation: 99}
	r.Register(def)
	r.Activate("locked", 0, card.NewHand())

	if expired := r.DecrementTurns(); len(expired) != 0 {
		t.Errorf("locked scene expired: %v", expired)
	}
	if got := r.State("locked").RemainingTurns; got != 2 {
		t.Errorf("locked scene ticked down to %d", got)
	}
}

func TestExpiredUnparticipated(t *testing.T) {
	r := NewRegistry()
	r.Register(bazaarDef("bazaar", 1))
	r.Activate("bazaar", 50, card.NewHand())
	r.DecrementTurns()

	if !r.State("bazaar").ExpiredUnparticipated() {
		t.Error("zero-investment expiry not classified as unparticipated")
	}
}

func TestSweepCompleted(t *testing.T) {
	r := NewRegistry()
	hand := card.NewHand()
	r.Register(bazaarDef("done", 1))
	r.Register(bazaarDef("live", 5))
	r.Activate("done", 50, hand)
	r.Activate("live", 50, hand)
	r.Complete("done")

	swept := r.SweepCompleted()
	if len(swept) != 1 || swept[0] != "done" {
		t.Fatalf("swept = %v, want [done]", swept)
	}
	if r.State("done") != nil {
		t.Error("swept scene still has state")
	}
	if r.Definition("done") != nil {
		t.Error("swept scene still registered; re-trigger must start fresh")
	}
	if r.State("live") == nil {
		t.Error("live scene swept")
	}

	// Re-registering after a sweep yields a fresh state.
	if !r.Register(bazaarDef("done", 1)) {
		t.Fatal("re-registration after sweep denied")
	}
	r.Activate("done", 50, hand)
	if got := r.State("done").RemainingTurns; got != 1 {
		t.Errorf("re-triggered scene RemainingTurns = %d, want fresh 1", got)
	}
}

func TestStatesSnapshotRoundTrip(t *testing.T) {
	guard := &card.Definition{ID: "guard", Type: card.TypeCharacter}
	r := NewRegistry()
	r.Register(bazaarDef("bazaar", 3))
	hand := handWith(t, guard)
	r.Activate("bazaar", 50, hand)
	r.Participate("bazaar", []string{"guard"}, hand)
	r.State("bazaar").RecordStageResult("open", "success")

	snap := r.StatesSnapshot()

	restored := NewRegistry()
	restored.Register(bazaarDef("bazaar", 3))
	restored.RestoreStates(snap)

	state := restored.State("bazaar")
	if state == nil {
		t.Fatal("restored registry has no state")
	}
	if state.Status != StatusParticipated || state.RemainingTurns != 3 {
		t.Errorf("restored state = %+v", state)
	}
	if state.StageResults["open"] != "success" {
		t.Errorf("StageResults = %v", state.StageResults)
	}

	// Snapshot must not alias live state.
	snap["bazaar"].Status = StatusCompleted
	if restored.State("bazaar").Status != StatusParticipated {
		t.Error("restored state aliases the snapshot")
	}
}
