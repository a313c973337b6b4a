package game

import (
	"encoding/json"
	"sort"

	"github.com/ebenmoss/sultanate/internal/card"
	"github.com/ebenmoss/sultanate/internal/errors"
	"github.com/ebenmoss/sultanate/internal/player"
	"github.com/ebenmoss/sultanate/internal/rng"
	"github.com/ebenmoss/sultanate/internal/save"
	"github.com/ebenmoss/sultanate/internal/scene"
	"github.com/ebenmoss/sultanate/internal/timeline"
)

// snapshotContext is the card/scene block stored alongside a rewind
// snapshot. It reuses the save-record shapes so rewind and load share
// one restore path.
type snapshotContext struct {
	Cards  save.Cards  `json:"cards"`
	Scenes save.Scenes `json:"scenes"`
}

func (m *Manager) cardsBlock() save.Cards {
	tags := make(map[string][]string)
	for _, inst := range m.hand.List() {
		tags[inst.ID()] = inst.Tags()
	}
	var thought []string
	for id := range m.thinkUsed {
		thought = append(thought, id)
	}
	sort.Strings(thought)
	return save.Cards{
		HandIDs:        m.hand.IDs(),
		Tags:           tags,
		Equipped:       m.equipment.Snapshot(),
		ThinkUsedToday: thought,
	}
}

func (m *Manager) scenesBlock() save.Scenes {
	return save.Scenes{
		ActiveIDs: m.registry.IDs(),
		States:    m.registry.StatesSnapshot(),
	}
}

func (m *Manager) captureSnapshot() timeline.Snapshot {
	ctx := snapshotContext{Cards: m.cardsBlock(), Scenes: m.scenesBlock()}
	raw, _ := json.Marshal(ctx)
	return timeline.Snapshot{
		Day:                m.clock.Day,
		ExecutionCountdown: m.clock.ExecutionCountdown,
		Player:             m.player.Snapshot(),
		Context:            raw,
	}
}

func (m *Manager) restoreSnapshotContext(snap *timeline.Snapshot) {
	var ctx snapshotContext
	if len(snap.Context) == 0 || json.Unmarshal(snap.Context, &ctx) != nil {
		return
	}
	m.restoreCards(ctx.Cards)
	m.restoreScenes(ctx.Scenes)
	m.rebuildExecutor()
}

// restoreCards rebuilds hand and equipment from a save block. Card ids
// the catalog no longer knows are dropped.
func (m *Manager) restoreCards(block save.Cards) {
	m.hand = card.NewHand()
	for _, id := range block.HandIDs {
		def := m.catalog.Card(id)
		if def == nil {
			continue
		}
		inst := m.hand.Add(def)
		if inst == nil {
			continue
		}
		if tags, ok := block.Tags[id]; ok {
			inst.RestoreTags(tags)
		}
	}
	m.equipment = card.NewEquipment(m.hand)
	m.equipment.Restore(block.Equipped)
	m.thinkUsed = make(map[string]bool, len(block.ThinkUsedToday))
	for _, id := range block.ThinkUsedToday {
		m.thinkUsed[id] = true
	}
}

// restoreScenes rebuilds the registry from a save block, preserving the
// saved registration order.
func (m *Manager) restoreScenes(block save.Scenes) {
	m.registry = scene.NewRegistry()
	for _, id := range block.ActiveIDs {
		if def := m.catalog.Scene(id); def != nil {
			m.registry.Register(def)
		}
	}
	m.registry.RestoreStates(block.States)
}

// Serialize captures the full mutable run state as a save record. The
// caller assigns the record id and timestamp before persisting.
func (m *Manager) Serialize() save.Record {
	return save.Record{
		GameState: save.GameState{
			Day:                m.clock.Day,
			ExecutionCountdown: m.clock.ExecutionCountdown,
			Gold:               m.player.Gold,
			Reputation:         m.player.Reputation(),
			RewindCharges:      m.player.RewindCharges,
			GoldenDice:         m.player.GoldenDice,
			ThinkCharges:       m.player.ThinkCharges,
			Phase:              m.phase.Key(),
			Seed:               m.rng.Seed(),
		},
		Cards:  m.cardsBlock(),
		Scenes: m.scenesBlock(),
	}
}

// Load replaces all run state from a save record. Definitions are
// re-resolved from the catalog by id; the RNG is reseeded from the
// stored campaign seed; the game-over latch is cleared. The rewind
// snapshot is not part of a record, so a freshly loaded run cannot
// rewind until a day passes.
func (m *Manager) Load(record save.Record) error {
	phase, err := ParsePhase(record.GameState.Phase)
	if err != nil {
		return errors.New(errors.CodeInvalidRequest, err.Error())
	}

	m.rng = rng.New(record.GameState.Seed)
	m.player = player.New(record.GameState.Gold, record.GameState.Reputation)
	m.player.GoldenDice = record.GameState.GoldenDice
	m.player.RewindCharges = record.GameState.RewindCharges
	m.player.ThinkCharges = record.GameState.ThinkCharges

	m.clock = timeline.New(record.GameState.ExecutionCountdown)
	m.clock.Day = record.GameState.Day
	m.clock.ExecutionCountdown = record.GameState.ExecutionCountdown

	m.restoreCards(record.Cards)
	m.restoreScenes(record.Scenes)
	m.rebuildExecutor()

	m.phase = phase
	m.runner = nil
	m.runnerScene = ""
	m.lastNode = nil
	m.over = false
	m.endReason = ""
	return nil
}
