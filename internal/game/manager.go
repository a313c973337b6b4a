// Package game orchestrates a single run: the daily phase cycle,
// settlement batching, game-over detection, rewind, and the save codec.
//
// A Manager is single-threaded. Hosts that serve many runs concurrently
// guard each manager with their own lock.
package game

import (
	"github.com/ebenmoss/sultanate/internal/card"
	"github.com/ebenmoss/sultanate/internal/content"
	"github.com/ebenmoss/sultanate/internal/effect"
	"github.com/ebenmoss/sultanate/internal/errors"
	"github.com/ebenmoss/sultanate/internal/event"
	"github.com/ebenmoss/sultanate/internal/player"
	"github.com/ebenmoss/sultanate/internal/rng"
	"github.com/ebenmoss/sultanate/internal/scene"
	"github.com/ebenmoss/sultanate/internal/settle"
	"github.com/ebenmoss/sultanate/internal/timeline"
)

// TagStarting marks catalog cards dealt into the opening hand when the
// caller does not name a starting hand explicitly.
const TagStarting = "starting"

// EndReasonExecutionFailure is the game-over reason raised when the
// execution day arrives with the sultan card still in hand.
const EndReasonExecutionFailure = "execution_failure"

// Options configures a new manager.
type Options struct {
	// Seed is the deterministic campaign seed. Empty means "default".
	Seed string
	// Observer receives post-commit notifications. May be nil.
	Observer event.Observer
	// StartingCards overrides the TagStarting-derived opening hand.
	StartingCards []string
	// StartingScenes overrides the default of registering every catalog
	// scene at game start.
	StartingScenes []string
}

// DayReport summarizes one NextDay call. Pending lists scenes that
// expired with cards invested; they stay open for the narrative
// commands and are force-settled with default options at the following
// NextDay if the host never resolves them.
type DayReport struct {
	Day                int             `json:"day"`
	ExecutionCountdown int             `json:"execution_countdown"`
	Settled            []settle.Result `json:"settled,omitempty"`
	Pending            []string        `json:"pending,omitempty"`
	Swept              []string        `json:"swept,omitempty"`
	GameOver           bool            `json:"game_over"`
	EndReason          string          `json:"end_reason,omitempty"`
}

// Manager drives one run of the game.
type Manager struct {
	catalog  *content.Catalog
	observer event.Observer
	opts     Options

	rng       *rng.RNG
	hand      *card.Hand
	equipment *card.Equipment
	player    *player.State
	registry  *scene.Registry
	clock     *timeline.Clock
	executor  *settle.Executor

	difficulty Difficulty
	phase      Phase
	thinkUsed  map[string]bool

	runner      *scene.Runner
	runnerScene string
	lastNode    *scene.Node

	over      bool
	endReason string
}

// NewManager creates a manager over a validated catalog. StartNewGame or
// Load must run before any other command.
func NewManager(catalog *content.Catalog, opts Options) *Manager {
	if opts.Seed == "" {
		opts.Seed = "default"
	}
	return &Manager{
		catalog:  catalog,
		observer: opts.Observer,
		opts:     opts,
	}
}

// StartNewGame resets all run state to the difficulty's profile: fresh
// RNG from the campaign seed, the opening hand, and the starting scenes
// graded by a first dawn activation.
func (m *Manager) StartNewGame(difficulty Difficulty) error {
	profile, ok := ProfileFor(difficulty)
	if !ok {
		return errors.New(errors.CodeUnknownDifficulty, "unknown difficulty").
			WithMeta("difficulty", string(difficulty))
	}

	m.difficulty = difficulty
	m.rng = rng.New(m.opts.Seed)
	m.hand = card.NewHand()
	m.equipment = card.NewEquipment(m.hand)
	m.player = player.New(profile.StartingGold, profile.Reputation)
	m.player.GoldenDice = profile.GoldenDice
	m.player.RewindCharges = profile.RewindCharges
	m.registry = scene.NewRegistry()
	m.clock = timeline.New(profile.ExecutionDays)
	m.thinkUsed = make(map[string]bool)
	m.runner = nil
	m.runnerScene = ""
	m.lastNode = nil
	m.over = false
	m.endReason = ""
	m.rebuildExecutor()

	for _, id := range m.startingCardIDs() {
		if def := m.catalog.Card(id); def != nil {
			m.hand.Add(def)
		}
	}
	for _, id := range m.startingSceneIDs() {
		if def := m.catalog.Scene(id); def != nil {
			m.registry.Register(def)
		}
	}
	m.registry.ActivateAll(m.player.Reputation(), m.hand)
	m.phase = PhaseAction

	if m.observer != nil {
		m.observer.GameStarted(string(difficulty), m.clock.Day)
	}
	return nil
}

func (m *Manager) startingCardIDs() []string {
	if len(m.opts.StartingCards) > 0 {
		return m.opts.StartingCards
	}
	var ids []string
	for _, id := range m.catalog.CardIDs() {
		def := m.catalog.Card(id)
		for _, tag := range def.Tags {
			if tag == TagStarting {
				ids = append(ids, id)
				break
			}
		}
	}
	return ids
}

func (m *Manager) startingSceneIDs() []string {
	if len(m.opts.StartingScenes) > 0 {
		return m.opts.StartingScenes
	}
	return m.catalog.SceneIDs()
}

func (m *Manager) rebuildExecutor() {
	applier := effect.NewApplier(m.hand, m.player, m.catalog.Card)
	m.executor = &settle.Executor{
		Registry:  m.registry,
		Hand:      m.hand,
		Equipment: m.equipment,
		Player:    m.player,
		RNG:       m.rng,
		Applier:   applier,
	}
}

// Started reports whether a run is live (started or loaded).
func (m *Manager) Started() bool {
	return m.clock != nil
}

// Over reports whether the run has ended, with its reason.
func (m *Manager) Over() (bool, string) {
	return m.over, m.endReason
}

// Phase returns the current daily phase.
func (m *Manager) Phase() Phase {
	return m.phase
}

// Day returns the current day number.
func (m *Manager) Day() int {
	if m.clock == nil {
		return 0
	}
	return m.clock.Day
}

// NextDay runs the full day transition: leftover pending settlements
// are force-resolved with default options, scene timers tick, untouched
// expiries take their absence penalty, invested expiries go pending for
// the narrative commands, completed scenes are swept, and the clock
// advances past a rewind snapshot into a fresh dawn. Returns a coded
// error once the game is over.
func (m *Manager) NextDay() (*DayReport, error) {
	if err := m.requireLive(); err != nil {
		return nil, err
	}

	snap := m.captureSnapshot()

	m.phase = PhaseSettlement
	m.runner = nil
	m.runnerScene = ""
	m.lastNode = nil

	report := &DayReport{}
	for _, id := range m.registry.IDs() {
		state := m.registry.State(id)
		if state == nil || state.Status != scene.StatusSettling {
			continue
		}
		if result := m.executor.Execute(id, settle.Options{}); result != nil {
			m.notifySettled(*result)
			report.Settled = append(report.Settled, *result)
		} else {
			m.registry.Complete(id)
		}
	}

	for _, id := range m.registry.DecrementTurns() {
		state := m.registry.State(id)
		if state == nil {
			continue
		}
		if state.ExpiredUnparticipated() {
			if result := m.executor.ApplyAbsencePenalty(id); result != nil {
				m.notifySettled(*result)
				report.Settled = append(report.Settled, *result)
			} else {
				// No penalty configured: the expiry is silent.
				m.registry.Complete(id)
			}
			continue
		}
		report.Pending = append(report.Pending, id)
	}
	report.Swept = m.registry.SweepCompleted()

	m.clock.AdvanceDay(snap)

	m.phase = PhaseDawn
	m.player.ResetThinkCharges(player.DefaultThinkAllowance)
	m.thinkUsed = make(map[string]bool)
	m.registry.ActivateAll(m.player.Reputation(), m.hand)
	if m.observer != nil {
		m.observer.DayAdvanced(m.clock.Day, m.clock.ExecutionCountdown)
	}

	m.CheckGameEnd()
	if !m.over {
		m.phase = PhaseAction
	}

	report.Day = m.clock.Day
	report.ExecutionCountdown = m.clock.ExecutionCountdown
	report.GameOver = m.over
	report.EndReason = m.endReason
	return report, nil
}

func (m *Manager) notifySettled(result settle.Result) {
	if m.observer == nil {
		return
	}
	m.observer.SceneSettled(result)
	m.observer.EffectApplied(result.SceneID, result.Applied)
}

// CheckGameEnd evaluates the ending conditions and latches game over.
// Losing requires both the countdown to have run out and the sultan card
// to still be in hand; shedding the card before the execution day is the
// point of the game.
func (m *Manager) CheckGameEnd() bool {
	if m.over {
		return true
	}
	if m.clock == nil || !m.clock.IsExecutionDay() {
		return false
	}
	if len(m.hand.FilterByType(card.TypeSultan)) == 0 {
		return false
	}
	m.over = true
	m.endReason = EndReasonExecutionFailure
	if m.observer != nil {
		m.observer.GameEnded(m.endReason)
	}
	return true
}

// Participate invests cards into an available scene.
func (m *Manager) Participate(sceneID string, cardIDs []string) bool {
	if m.requireLive() != nil {
		return false
	}
	return m.registry.Participate(sceneID, cardIDs, m.hand)
}

// Equip attaches an equipment card to a character card.
func (m *Manager) Equip(characterID, equipmentID string) bool {
	if m.requireLive() != nil {
		return false
	}
	return m.equipment.Equip(characterID, equipmentID)
}

// Unequip detaches an equipment card from a character card.
func (m *Manager) Unequip(characterID, equipmentID string) bool {
	if m.requireLive() != nil {
		return false
	}
	return m.equipment.Unequip(characterID, equipmentID)
}

// Think spends one think charge to study a card. Each card can be
// studied once per day; the charge pool resets at dawn.
func (m *Manager) Think(cardID string) bool {
	if m.requireLive() != nil {
		return false
	}
	if m.hand.Get(cardID) == nil || m.thinkUsed[cardID] {
		return false
	}
	if !m.player.UseThinkCharge() {
		return false
	}
	m.thinkUsed[cardID] = true
	return true
}

// BeginSettlement opens the narrative runner for a scene pending
// settlement. Only one scene's narrative plays at a time.
func (m *Manager) BeginSettlement(sceneID string) bool {
	if m.requireLive() != nil {
		return false
	}
	def := m.registry.Definition(sceneID)
	state := m.registry.State(sceneID)
	if def == nil || state == nil || state.Status != scene.StatusSettling {
		return false
	}

	runner := scene.NewRunner(def, state)
	if !runner.Start() {
		return false
	}
	m.runner = runner
	m.runnerScene = sceneID
	m.lastNode = nil
	return true
}

// AdvanceNarrative plays the next node of the open runner, or nil at
// the stage end (settle or advance next).
func (m *Manager) AdvanceNarrative() *scene.Node {
	if m.runner == nil {
		return nil
	}
	node := m.runner.NextNode()
	m.lastNode = node
	if node != nil && node.Kind == scene.NodeEffect && node.Effect != nil {
		state := m.registry.State(m.runnerScene)
		var invested []string
		if state != nil {
			invested = state.InvestedCardIDs
		}
		applied := m.executor.Applier.Apply(*node.Effect, invested)
		if m.observer != nil {
			m.observer.EffectApplied(m.runnerScene, applied)
		}
	}
	return node
}

// MakeChoice answers the pending in-narrative choice node by option
// index, jumping the runner to the option's stage.
func (m *Manager) MakeChoice(index int) bool {
	if m.runner == nil || m.lastNode == nil || m.lastNode.Kind != scene.NodeChoice {
		return false
	}
	if index < 0 || index >= len(m.lastNode.Options) {
		return false
	}
	to := m.lastNode.Options[index].To
	m.lastNode = nil
	return m.runner.AdvanceByChoice(to)
}

// ExecuteSettlement resolves the scene's settlement with the player's
// reroll/golden-dice/choice options and completes the scene.
func (m *Manager) ExecuteSettlement(sceneID string, opts settle.Options) *settle.Result {
	if m.requireLive() != nil {
		return nil
	}
	result := m.executor.Execute(sceneID, opts)
	if result == nil {
		return nil
	}
	if m.runner != nil && m.runnerScene == sceneID {
		result.StageHistory = m.runner.History()
	}
	m.notifySettled(*result)
	return result
}

// AdvanceAfterSettlement moves the open runner past a resolved
// settlement by its result key.
func (m *Manager) AdvanceAfterSettlement(resultKey string) bool {
	if m.runner == nil {
		return false
	}
	ok := m.runner.AdvanceByResult(resultKey)
	if m.runner.Done() {
		m.runner = nil
		m.runnerScene = ""
		m.lastNode = nil
	}
	return ok
}

// Rewind restores the start of the previous day, consuming one rewind
// charge. The RNG stream keeps advancing, so a replayed day draws a
// fresh dice sequence. Returns false when no snapshot or charge is
// available.
func (m *Manager) Rewind() bool {
	if m.clock == nil {
		return false
	}
	snap := m.clock.Rewind(m.player)
	if snap == nil {
		return false
	}

	m.player.Restore(snap.Player)
	if m.player.RewindCharges > 0 {
		m.player.RewindCharges--
	}
	m.restoreSnapshotContext(snap)

	m.over = false
	m.endReason = ""
	m.phase = PhaseAction
	m.runner = nil
	m.runnerScene = ""
	m.lastNode = nil

	if m.observer != nil {
		m.observer.DayRewound(m.clock.Day)
	}
	return true
}

func (m *Manager) requireLive() error {
	if m.clock == nil {
		return errors.New(errors.CodeInvalidRequest, "no game in progress")
	}
	if m.over {
		return errors.New(errors.CodeGameOver, "the game is over").
			WithMeta("reason", m.endReason)
	}
	return nil
}
