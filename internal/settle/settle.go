// Package settle resolves scenes end-to-end: dice checks, trades, and
// choices, delegating to the dice engine and the effect applier.
package settle

import (
	"github.com/ebenmoss/sultanate/internal/card"
	"github.com/ebenmoss/sultanate/internal/dice"
	"github.com/ebenmoss/sultanate/internal/effect"
	"github.com/ebenmoss/sultanate/internal/player"
	"github.com/ebenmoss/sultanate/internal/rng"
	"github.com/ebenmoss/sultanate/internal/scene"
)

// KindAbsence marks a result produced by an absence penalty rather than
// a settlement config.
const KindAbsence scene.SettlementKind = "absence"

// TradeNarrative is the fixed acknowledgement a trade settlement
// returns; shop inventory and sell logic live outside the core.
const TradeNarrative = "trade_concluded"

// Options carries the caller's choices into one settlement execution.
type Options struct {
	RerollIndices []int `json:"reroll_indices,omitempty"`
	GoldenDice    int   `json:"golden_dice,omitempty"`
	ChoiceIndex   int   `json:"choice_index,omitempty"`
}

// Result is the transient outcome of one resolved scene, used to drive
// UI replay and per-day history.
type Result struct {
	SceneID      string               `json:"scene_id"`
	Kind         scene.SettlementKind `json:"settlement_type"`
	ResultKey    string               `json:"result_key,omitempty"`
	Applied      effect.Applied       `json:"applied"`
	Narrative    string               `json:"narrative,omitempty"`
	Check        *dice.CheckState     `json:"dice_check_state,omitempty"`
	StageID      string               `json:"stage_id,omitempty"`
	StageHistory []scene.StageRecord  `json:"stage_history,omitempty"`
}

// Executor orchestrates scene resolution over the live game state.
type Executor struct {
	Registry  *scene.Registry
	Hand      *card.Hand
	Equipment *card.Equipment
	Player    *player.State
	RNG       *rng.RNG
	Applier   *effect.Applier
}

// Execute resolves the scene's settlement and completes it. It returns
// nil — not an error — for unknown scenes, scenes not in Settling
// state, or scenes whose stage carries no settlement config; callers
// must check for nil.
func (e *Executor) Execute(sceneID string, opts Options) *Result {
	def := e.Registry.Definition(sceneID)
	state := e.Registry.State(sceneID)
	if def == nil || state == nil || state.Status != scene.StatusSettling {
		return nil
	}

	stage := e.settlementStage(def, state)
	if stage == nil {
		return nil
	}
	settlement := stage.Settlement

	var result *Result
	switch settlement.Kind {
	case scene.SettlementDiceCheck:
		result = e.executeDiceCheck(def, state, stage, opts)
	case scene.SettlementTrade:
		result = &Result{
			SceneID:   sceneID,
			Kind:      scene.SettlementTrade,
			Narrative: TradeNarrative,
			StageID:   stage.ID,
		}
	case scene.SettlementChoice:
		result = e.executeChoice(def, state, stage, opts)
	default:
		return nil
	}
	if result == nil {
		return nil
	}

	e.Registry.Complete(sceneID)
	return result
}

// settlementStage locates the stage whose settlement resolves the
// scene: the current stage when the runner parked one, otherwise the
// first stage from the entry that carries a settlement config.
func (e *Executor) settlementStage(def *scene.Definition, state *scene.State) *scene.Stage {
	if state.CurrentStageID != "" {
		if stage := def.StageByID(state.CurrentStageID); stage != nil && stage.Settlement != nil {
			return stage
		}
	}
	if entry := def.EntryStage(); entry != nil && entry.Settlement != nil {
		return entry
	}
	for i := range def.Stages {
		if def.Stages[i].Settlement != nil {
			return &def.Stages[i]
		}
	}
	return nil
}

func (e *Executor) executeDiceCheck(def *scene.Definition, state *scene.State, stage *scene.Stage, opts Options) *Result {
	cfg := stage.Settlement.Check
	if cfg == nil {
		return nil
	}

	// Pool derives from invested character cards only; anything else in
	// the slot list contributes nothing.
	var values []int
	bonus := 0
	for _, id := range state.InvestedCardIDs {
		inst := e.Hand.Get(id)
		if inst == nil || inst.Type() != card.TypeCharacter {
			continue
		}
		values = append(values, inst.Definition().AttributeValue(cfg.Attribute))
		bonus += e.Equipment.AttributeBonus(id, cfg.Attribute)
	}
	pool := dice.PoolSize(values, bonus, cfg.Mode, cfg.Index)

	golden := opts.GoldenDice
	if golden < 0 || !e.Player.SpendGoldenDice(golden) {
		golden = 0
	}

	check := dice.PerformFullCheck(e.RNG, *cfg, pool, opts.RerollIndices, golden)
	resultKey := check.Result.Key()
	state.RecordStageResult(stage.ID, resultKey)

	outcome := stage.Settlement.Outcomes[resultKey]
	applied := e.Applier.Apply(outcome.Effect, state.InvestedCardIDs)

	return &Result{
		SceneID:   def.ID,
		Kind:      scene.SettlementDiceCheck,
		ResultKey: resultKey,
		Applied:   applied,
		Narrative: outcome.Narrative,
		Check:     &check,
		StageID:   stage.ID,
	}
}

func (e *Executor) executeChoice(def *scene.Definition, state *scene.State, stage *scene.Stage, opts Options) *Result {
	result := &Result{
		SceneID: def.ID,
		Kind:    scene.SettlementChoice,
		StageID: stage.ID,
	}
	options := stage.Settlement.Options
	if len(options) == 0 {
		return result
	}

	idx := opts.ChoiceIndex
	if idx < 0 || idx >= len(options) {
		idx = 0
	}
	chosen := options[idx]
	result.Applied = e.Applier.Apply(chosen.Effect, state.InvestedCardIDs)
	result.Narrative = chosen.Label
	return result
}

// ApplyAbsencePenalty resolves a scene that expired with nothing
// invested: it applies the configured penalty without invested-card
// context and completes the scene. It returns nil when the scene has no
// absence penalty configured — distinct from a settlement denial.
func (e *Executor) ApplyAbsencePenalty(sceneID string) *Result {
	def := e.Registry.Definition(sceneID)
	state := e.Registry.State(sceneID)
	if def == nil || state == nil || def.AbsencePenalty == nil {
		return nil
	}

	applied := e.Applier.Apply(def.AbsencePenalty.Effect, nil)
	e.Registry.Complete(sceneID)

	return &Result{
		SceneID:   sceneID,
		Kind:      KindAbsence,
		Applied:   applied,
		Narrative: def.AbsencePenalty.Narrative,
	}
}
