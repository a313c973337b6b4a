package player

import "testing"

func TestReputationClamp(t *testing.T) {
	s := New(0, 50)

	deltas := []int{30, 30, 30, -200, 5, -5, 150, 1, -1}
	for _, delta := range deltas {
		s.ChangeReputation(delta)
		if got := s.Reputation(); got < ReputationMin || got > ReputationMax {
			t.Fatalf("reputation %d escaped [%d, %d] after delta %d",
				got, ReputationMin, ReputationMax, delta)
		}
	}

	s.SetReputation(500)
	if got := s.Reputation(); got != ReputationMax {
		t.Errorf("SetReputation(500) left %d, want %d", got, ReputationMax)
	}
	s.SetReputation(-500)
	if got := s.Reputation(); got != ReputationMin {
		t.Errorf("SetReputation(-500) left %d, want %d", got, ReputationMin)
	}
}

func TestGoldUnbounded(t *testing.T) {
	s := New(10, 50)
	s.ChangeGold(-100)
	if s.Gold != -90 {
		t.Errorf("Gold = %d, want -90 (gold may go negative)", s.Gold)
	}
}

func TestConsumables(t *testing.T) {
	s := New(0, 50)
	s.GoldenDice = 2
	s.RewindCharges = 1

	if s.SpendGoldenDice(3) {
		t.Error("SpendGoldenDice(3) succeeded with only 2 held")
	}
	if s.GoldenDice != 2 {
		t.Errorf("denied spend mutated golden dice: %d", s.GoldenDice)
	}
	if !s.SpendGoldenDice(2) || s.GoldenDice != 0 {
		t.Errorf("SpendGoldenDice(2) failed, remaining %d", s.GoldenDice)
	}
	if s.SpendGoldenDice(0) {
		t.Error("SpendGoldenDice(0) succeeded, want denial")
	}

	if !s.SpendRewindCharge() {
		t.Error("SpendRewindCharge() failed with a charge held")
	}
	if s.SpendRewindCharge() {
		t.Error("SpendRewindCharge() succeeded with none left")
	}
}

func TestThinkCharges(t *testing.T) {
	s := New(0, 50)
	for i := 0; i < DefaultThinkAllowance; i++ {
		if !s.UseThinkCharge() {
			t.Fatalf("UseThinkCharge() failed at charge %d", i)
		}
	}
	if s.UseThinkCharge() {
		t.Error("UseThinkCharge() succeeded past the allowance")
	}
	s.ResetThinkCharges(DefaultThinkAllowance)
	if s.ThinkCharges != DefaultThinkAllowance {
		t.Errorf("ThinkCharges = %d after reset, want %d", s.ThinkCharges, DefaultThinkAllowance)
	}
}

func TestSnapshotRestore(t *testing.T) {
	s := New(120, 70)
	s.GoldenDice = 3
	s.RewindCharges = 2
	s.UseThinkCharge()
	snap := s.Snapshot()

	s.ChangeGold(-50)
	s.ChangeReputation(-30)
	s.GoldenDice = 0

	s.Restore(snap)
	if s.Gold != 120 || s.Reputation() != 70 || s.GoldenDice != 3 ||
		s.RewindCharges != 2 || s.ThinkCharges != DefaultThinkAllowance-1 {
		t.Errorf("Restore() mismatch: %+v", s.Snapshot())
	}
}
