package game

import "github.com/ebenmoss/sultanate/internal/scene"

// CardView is the read-only hand entry exposed to hosts.
type CardView struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Tags     []string `json:"tags,omitempty"`
	Equipped []string `json:"equipped,omitempty"`
}

// SceneView is the read-only scene entry exposed to hosts.
type SceneView struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Status         string   `json:"status"`
	RemainingTurns int      `json:"remaining_turns"`
	Invested       []string `json:"invested,omitempty"`
}

// View is a full read-only snapshot of the run, safe to serialize to a
// UI without exposing live state.
type View struct {
	Day                int         `json:"day"`
	ExecutionCountdown int         `json:"execution_countdown"`
	Phase              string      `json:"phase"`
	Gold               int         `json:"gold"`
	Reputation         int         `json:"reputation"`
	GoldenDice         int         `json:"golden_dice"`
	RewindCharges      int         `json:"rewind_charges"`
	ThinkCharges       int         `json:"think_charges"`
	Hand               []CardView  `json:"hand"`
	Scenes             []SceneView `json:"scenes"`
	GameOver           bool        `json:"game_over"`
	EndReason          string      `json:"end_reason,omitempty"`
}

// Snapshot builds the current read-only view.
func (m *Manager) Snapshot() View {
	view := View{
		Day:                m.clock.Day,
		ExecutionCountdown: m.clock.ExecutionCountdown,
		Phase:              m.phase.Key(),
		Gold:               m.player.Gold,
		Reputation:         m.player.Reputation(),
		GoldenDice:         m.player.GoldenDice,
		RewindCharges:      m.player.RewindCharges,
		ThinkCharges:       m.player.ThinkCharges,
		GameOver:           m.over,
		EndReason:          m.endReason,
	}

	for _, inst := range m.hand.List() {
		view.Hand = append(view.Hand, CardView{
			ID:       inst.ID(),
			Name:     inst.Definition().Name,
			Type:     string(inst.Type()),
			Tags:     inst.Tags(),
			Equipped: m.equipment.Equipped(inst.ID()),
		})
	}

	for _, id := range m.registry.IDs() {
		def := m.registry.Definition(id)
		state := m.registry.State(id)
		sv := SceneView{ID: id, Name: def.Name}
		if state != nil {
			sv.Status = statusKey(state.Status)
			sv.RemainingTurns = state.RemainingTurns
			sv.Invested = append([]string{}, state.InvestedCardIDs...)
		} else {
			sv.Status = statusKey(scene.StatusLocked)
			sv.RemainingTurns = def.Duration
		}
		view.Scenes = append(view.Scenes, sv)
	}
	return view
}

func statusKey(s scene.Status) string {
	text, err := s.MarshalText()
	if err != nil {
		return "unknown"
	}
	return string(text)
}
