package game

import (
	"testing"

	"github.com/ebenmoss/sultanate/internal/card"
	"github.com/ebenmoss/sultanate/internal/content"
	"github.com/ebenmoss/sultanate/internal/dice"
	"github.com/ebenmoss/sultanate/internal/effect"
	"github.com/ebenmoss/sultanate/internal/errors"
	"github.com/ebenmoss/sultanate/internal/rng"
	"github.com/ebenmoss/sultanate/internal/scene"
	"github.com/ebenmoss/sultanate/internal/settle"
)

func testCards() []*card.Definition {
	return []*card.Definition{
		{
			ID: "protagonist", Name: "The Accused", Type: card.TypeCharacter,
			Tags:       []string{card.TagProtagonist, TagStarting},
			Attributes: &card.Attributes{Combat: 3, Charm: 2},
			EquipSlots: 2,
		},
		{
			ID: "sultan", Name: "The Sultan's Decree", Type: card.TypeSultan,
			Tags: []string{TagStarting},
		},
		{
			ID: "vizier", Name: "Grand Vizier", Type: card.TypeCharacter,
			Tags:       []string{TagStarting},
			Attributes: &card.Attributes{Combat: 2, Intrigue: 4},
			EquipSlots: 1,
		},
		{
			ID: "sword", Name: "Curved Sword", Type: card.TypeEquipment,
			Tags:  []string{TagStarting},
			Bonus: &card.Bonus{Attributes: card.Attributes{Combat: 2}},
		},
		{ID: "favor", Name: "Royal Favor", Type: card.TypeGem},
	}
}

func testScenes() []*scene.Definition {
	return []*scene.Definition{
		{
			ID: "bazaar", Name: "Bazaar Rumors", Type: scene.TypeEvent,
			Duration: 1, Entry: "start",
			Stages: []scene.Stage{{
				ID:         "start",
				Final:      true,
				Settlement: &scene.Settlement{Kind: scene.SettlementTrade},
			}},
			AbsencePenalty: &scene.AbsencePenalty{
				Effect:    effect.Effect{Reputation: -5},
				Narrative: "the rumors spread unanswered",
			},
		},
		{
			ID: "audience", Name: "Audience at Court", Type: scene.TypeChallenge,
			Duration: 1, Entry: "intro",
			Slots: []scene.Slot{{Type: card.TypeCharacter, Required: true}},
			Stages: []scene.Stage{
				{
					ID: "intro",
					Nodes: []scene.Node{
						{Kind: scene.NodeNarration, Text: "The court falls silent."},
						{Kind: scene.NodeChoice, Options: []scene.NodeOption{
							{Label: "Stand firm", To: "duel"},
							{Label: "Bow low", To: "plea"},
						}},
					},
				},
				{
					ID: "duel",
					Settlement: &scene.Settlement{
						Kind:  scene.SettlementDiceCheck,
						Check: &dice.CheckConfig{Attribute: card.AttrCombat, Target: 2},
						Outcomes: map[string]scene.Outcome{
							"success":          {Effect: effect.Effect{Gold: 20}, Narrative: "victory"},
							"partial_success":  {Effect: effect.Effect{Gold: 5}},
							"failure":          {Effect: effect.Effect{Reputation: -10}},
							"critical_failure": {Effect: effect.Effect{Reputation: -15}},
						},
					},
					Branches: []scene.Branch{{On: scene.BranchDefault, To: "after"}},
				},
				{
					ID: "plea",
					Settlement: &scene.Settlement{
						Kind: scene.SettlementChoice,
						Options: []scene.SettlementOption{
							{Label: "bribe", Effect: effect.Effect{Gold: -10}},
							{Label: "plead", Effect: effect.Effect{Reputation: -5}},
						},
					},
					Final: true,
				},
				{ID: "after", Final: true},
			},
		},
		{
			ID: "plot", Name: "The Vizier's Plot", Type: scene.TypeEvent,
			Duration: 1, Entry: "start",
			Slots: []scene.Slot{{Type: card.TypeCharacter}},
			Stages: []scene.Stage{{
				ID:    "start",
				Final: true,
				Settlement: &scene.Settlement{
					Kind: scene.SettlementChoice,
					Options: []scene.SettlementOption{
						{Label: "forge the decree", Effect: effect.Effect{CardsRemove: []string{"sultan"}}},
					},
				},
			}},
		},
	}
}

func testCatalog(t *testing.T) *content.Catalog {
	t.Helper()
	catalog, err := content.New(testCards(), testScenes())
	if err != nil {
		t.Fatalf("content.New() error = %v", err)
	}
	return catalog
}

func newTestManager(t *testing.T, difficulty Difficulty, opts Options) *Manager {
	t.Helper()
	if opts.Seed == "" {
		opts.Seed = "test-seed"
	}
	m := NewManager(testCatalog(t), opts)
	if err := m.StartNewGame(difficulty); err != nil {
		t.Fatalf("StartNewGame(%s) error = %v", difficulty, err)
	}
	return m
}

func TestStartNewGameProfiles(t *testing.T) {
	tests := []struct {
		difficulty Difficulty
		countdown  int
		gold       int
	}{
		{DifficultyStory, 12, 150},
		{DifficultyStandard, 9, 100},
		{DifficultyNightmare, 5, 60},
	}
	for _, tt := range tests {
		t.Run(string(tt.difficulty), func(t *testing.T) {
			m := newTestManager(t, tt.difficulty, Options{})
			view := m.Snapshot()
			if view.Day != 1 {
				t.Errorf("day = %d, want 1", view.Day)
			}
			if view.ExecutionCountdown != tt.countdown {
				t.Errorf("countdown = %d, want %d", view.ExecutionCountdown, tt.countdown)
			}
			if view.Gold != tt.gold {
				t.Errorf("gold = %d, want %d", view.Gold, tt.gold)
			}
			if view.Reputation != 50 {
				t.Errorf("reputation = %d, want 50", view.Reputation)
			}
			if len(view.Hand) != 4 {
				t.Errorf("hand size = %d, want 4 starting cards", len(view.Hand))
			}
			if view.Phase != "action" {
				t.Errorf("phase = %q, want action", view.Phase)
			}
		})
	}
}

func TestStartNewGameUnknownDifficulty(t *testing.T) {
	m := NewManager(testCatalog(t), Options{Seed: "x"})
	err := m.StartNewGame("brutal")
	if !errors.IsCode(err, errors.CodeUnknownDifficulty) {
		t.Fatalf("StartNewGame() error = %v, want code %s", err, errors.CodeUnknownDifficulty)
	}
}

func TestAbsencePenalty(t *testing.T) {
	m := newTestManager(t, DifficultyStandard, Options{StartingScenes: []string{"bazaar"}})

	report, err := m.NextDay()
	if err != nil {
		t.Fatalf("NextDay() error = %v", err)
	}
	if got := m.Snapshot().Reputation; got != 45 {
		t.Errorf("reputation = %d, want 45", got)
	}
	if len(report.Settled) != 1 || report.Settled[0].Kind != settle.KindAbsence {
		t.Fatalf("settled = %+v, want one absence result", report.Settled)
	}
	if len(report.Swept) != 1 || report.Swept[0] != "bazaar" {
		t.Errorf("swept = %v, want [bazaar]", report.Swept)
	}
}

func TestSettlementWithNarrative(t *testing.T) {
	m := newTestManager(t, DifficultyStandard, Options{StartingScenes: []string{"audience"}})

	if !m.Participate("audience", []string{"protagonist"}) {
		t.Fatal("Participate() = false, want true")
	}
	report, err := m.NextDay()
	if err != nil {
		t.Fatalf("NextDay() error = %v", err)
	}
	if len(report.Pending) != 1 || report.Pending[0] != "audience" {
		t.Fatalf("pending = %v, want [audience]", report.Pending)
	}

	if !m.BeginSettlement("audience") {
		t.Fatal("BeginSettlement() = false, want true")
	}
	if node := m.AdvanceNarrative(); node == nil || node.Kind != scene.NodeNarration {
		t.Fatalf("first node = %+v, want narration", node)
	}
	node := m.AdvanceNarrative()
	if node == nil || node.Kind != scene.NodeChoice {
		t.Fatalf("second node = %+v, want choice", node)
	}
	if m.MakeChoice(5) {
		t.Error("MakeChoice(5) = true, want false for out-of-range index")
	}
	if !m.MakeChoice(0) {
		t.Fatal("MakeChoice(0) = false, want true")
	}

	// The check is the run's first dice draw, so an identical engine
	// seeded the same way predicts it exactly.
	expected := dice.PerformFullCheck(rng.New("test-seed"),
		dice.CheckConfig{Attribute: card.AttrCombat, Target: 2}, 3, nil, 0)

	result := m.ExecuteSettlement("audience", settle.Options{})
	if result == nil {
		t.Fatal("ExecuteSettlement() = nil, want result")
	}
	if result.Kind != scene.SettlementDiceCheck {
		t.Errorf("kind = %s, want dice_check", result.Kind)
	}
	if result.ResultKey != expected.Result.Key() {
		t.Errorf("result key = %q, want %q", result.ResultKey, expected.Result.Key())
	}
	if result.Check == nil || result.Check.FinalSuccesses != expected.FinalSuccesses {
		t.Errorf("check = %+v, want %d successes", result.Check, expected.FinalSuccesses)
	}

	if !m.AdvanceAfterSettlement(result.ResultKey) {
		t.Error("AdvanceAfterSettlement() = false, want true")
	}
}

func TestExecutionFailure(t *testing.T) {
	recorder := &recordingObserver{}
	m := newTestManager(t, DifficultyNightmare, Options{
		Observer:       recorder,
		StartingScenes: []string{"bazaar"},
	})

	var last *DayReport
	for day := 0; day < 5; day++ {
		report, err := m.NextDay()
		if err != nil {
			t.Fatalf("NextDay() day %d error = %v", day, err)
		}
		last = report
	}
	if !last.GameOver || last.EndReason != EndReasonExecutionFailure {
		t.Fatalf("report = %+v, want execution failure", last)
	}
	if len(recorder.ended) != 1 || recorder.ended[0] != EndReasonExecutionFailure {
		t.Errorf("GameEnded notifications = %v, want one execution failure", recorder.ended)
	}

	if _, err := m.NextDay(); !errors.IsCode(err, errors.CodeGameOver) {
		t.Errorf("NextDay() after game over error = %v, want code %s", err, errors.CodeGameOver)
	}
}

func TestSheddingSultanAvoidsExecution(t *testing.T) {
	m := newTestManager(t, DifficultyNightmare, Options{StartingScenes: []string{"plot"}})

	if !m.Participate("plot", []string{"vizier"}) {
		t.Fatal("Participate(plot) = false, want true")
	}
	report, err := m.NextDay()
	if err != nil {
		t.Fatalf("NextDay() error = %v", err)
	}
	if len(report.Pending) != 1 {
		t.Fatalf("pending = %v, want [plot]", report.Pending)
	}
	result := m.ExecuteSettlement("plot", settle.Options{ChoiceIndex: 0})
	if result == nil {
		t.Fatal("ExecuteSettlement() = nil, want result")
	}
	if len(result.Applied.CardsRemoved) != 1 || result.Applied.CardsRemoved[0] != "sultan" {
		t.Fatalf("cards removed = %v, want [sultan]", result.Applied.CardsRemoved)
	}

	for day := 0; day < 6; day++ {
		if _, err := m.NextDay(); err != nil {
			t.Fatalf("NextDay() day %d error = %v", day, err)
		}
	}
	if over, _ := m.Over(); over {
		t.Error("game over without the sultan card in hand")
	}
}

func TestThinkCharges(t *testing.T) {
	m := newTestManager(t, DifficultyStandard, Options{})

	if !m.Think("protagonist") {
		t.Fatal("Think(protagonist) = false, want true")
	}
	if m.Think("protagonist") {
		t.Error("Think() on same card twice in one day, want denial")
	}
	if m.Think("missing") {
		t.Error("Think() on unknown card, want denial")
	}
	if !m.Think("vizier") || !m.Think("sword") {
		t.Fatal("Think() on fresh cards, want true")
	}
	if m.Think("sultan") {
		t.Error("Think() with charges exhausted, want denial")
	}

	if _, err := m.NextDay(); err != nil {
		t.Fatalf("NextDay() error = %v", err)
	}
	if !m.Think("protagonist") {
		t.Error("Think() after dawn reset, want true")
	}
}

func TestRewind(t *testing.T) {
	m := newTestManager(t, DifficultyStandard, Options{StartingScenes: []string{"bazaar"}})

	if m.Rewind() {
		t.Fatal("Rewind() before any day passed, want denial")
	}

	if _, err := m.NextDay(); err != nil {
		t.Fatalf("NextDay() error = %v", err)
	}
	if got := m.Snapshot().Reputation; got != 45 {
		t.Fatalf("reputation after penalty = %d, want 45", got)
	}

	if !m.Rewind() {
		t.Fatal("Rewind() = false, want true")
	}
	view := m.Snapshot()
	if view.Day != 1 {
		t.Errorf("day after rewind = %d, want 1", view.Day)
	}
	if view.Reputation != 50 {
		t.Errorf("reputation after rewind = %d, want 50", view.Reputation)
	}
	if view.RewindCharges != 0 {
		t.Errorf("rewind charges = %d, want 0", view.RewindCharges)
	}
	if m.Rewind() {
		t.Error("second Rewind() with cleared snapshot, want denial")
	}

	// The swept scene is back on a rewound board.
	found := false
	for _, sv := range view.Scenes {
		if sv.ID == "bazaar" {
			found = true
		}
	}
	if !found {
		t.Error("bazaar missing after rewind, want restored")
	}
}

func TestRewindDoesNotReseedRNG(t *testing.T) {
	m := newTestManager(t, DifficultyStandard, Options{StartingScenes: []string{"bazaar"}})
	m.rng.RollD10()

	if _, err := m.NextDay(); err != nil {
		t.Fatalf("NextDay() error = %v", err)
	}
	if !m.Rewind() {
		t.Fatal("Rewind() = false, want true")
	}

	// The dice stream is not snapshot state: after a rewind it continues
	// from where it was, it does not restart from the seed.
	expected := rng.New("test-seed")
	expected.RollD10()
	for i := 0; i < 5; i++ {
		if got, want := m.rng.RollD10(), expected.RollD10(); got != want {
			t.Fatalf("draw %d after rewind = %d, want continuation value %d", i, got, want)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m := newTestManager(t, DifficultyStandard, Options{StartingScenes: []string{"audience", "bazaar"}})

	if !m.Equip("protagonist", "sword") {
		t.Fatal("Equip() = false, want true")
	}
	if !m.Participate("audience", []string{"protagonist"}) {
		t.Fatal("Participate() = false, want true")
	}
	if !m.Think("vizier") {
		t.Fatal("Think() = false, want true")
	}
	m.hand.Get("vizier").AddTag("suspicious")

	record := m.Serialize()
	if record.GameState.Seed != "test-seed" {
		t.Errorf("seed = %q, want test-seed", record.GameState.Seed)
	}

	loaded := NewManager(testCatalog(t), Options{Seed: "ignored"})
	if err := loaded.Load(record); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	got := loaded.Serialize()
	if got.GameState != record.GameState {
		t.Errorf("game state = %+v, want %+v", got.GameState, record.GameState)
	}
	if len(got.Cards.HandIDs) != len(record.Cards.HandIDs) {
		t.Fatalf("hand = %v, want %v", got.Cards.HandIDs, record.Cards.HandIDs)
	}
	for i, id := range record.Cards.HandIDs {
		if got.Cards.HandIDs[i] != id {
			t.Errorf("hand[%d] = %q, want %q", i, got.Cards.HandIDs[i], id)
		}
	}
	if len(got.Cards.Equipped["protagonist"]) != 1 {
		t.Errorf("equipped = %v, want sword on protagonist", got.Cards.Equipped)
	}
	if len(got.Cards.ThinkUsedToday) != 1 || got.Cards.ThinkUsedToday[0] != "vizier" {
		t.Errorf("think used = %v, want [vizier]", got.Cards.ThinkUsedToday)
	}

	inst := loaded.hand.Get("vizier")
	if inst == nil || !inst.HasTag("suspicious") {
		t.Error("vizier tag lost in round trip")
	}

	state := loaded.registry.State("audience")
	if state == nil || state.Status != scene.StatusParticipated {
		t.Fatalf("audience state = %+v, want participated", state)
	}
	if len(state.InvestedCardIDs) != 1 || state.InvestedCardIDs[0] != "protagonist" {
		t.Errorf("invested = %v, want [protagonist]", state.InvestedCardIDs)
	}

	if over, _ := loaded.Over(); over {
		t.Error("loaded run flagged game over")
	}
}

func TestLoadUnknownPhase(t *testing.T) {
	m := NewManager(testCatalog(t), Options{})
	record := newTestManager(t, DifficultyStandard, Options{}).Serialize()
	record.GameState.Phase = "twilight"
	if err := m.Load(record); !errors.IsCode(err, errors.CodeInvalidRequest) {
		t.Fatalf("Load() error = %v, want code %s", err, errors.CodeInvalidRequest)
	}
}

// recordingObserver captures notifications for assertions.
type recordingObserver struct {
	started []string
	days    []int
	settled []settle.Result
	applied []string
	rewound []int
	ended   []string
}

func (r *recordingObserver) GameStarted(difficulty string, day int) {
	r.started = append(r.started, difficulty)
}

func (r *recordingObserver) DayAdvanced(day, executionCountdown int) {
	r.days = append(r.days, day)
}

func (r *recordingObserver) SceneSettled(result settle.Result) {
	r.settled = append(r.settled, result)
}

func (r *recordingObserver) EffectApplied(sceneID string, applied effect.Applied) {
	r.applied = append(r.applied, sceneID)
}

func (r *recordingObserver) DayRewound(day int) {
	r.rewound = append(r.rewound, day)
}

func (r *recordingObserver) GameEnded(reason string) {
	r.ended = append(r.ended, reason)
}
