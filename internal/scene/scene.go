// Package scene models time-boxed encounters: their immutable
// definitions, the per-scene lifecycle state machine, card-to-slot
// investment rules, and the narrative stage graph runner.
package scene

import (
	"github.com/ebenmoss/sultanate/internal/card"
	"github.com/ebenmoss/sultanate/internal/dice"
	"github.com/ebenmoss/sultanate/internal/effect"
)

// Type identifies the gameplay category of a scene.
type Type string

const (
	TypeEvent     Type = "event"
	TypeShop      Type = "shop"
	TypeChallenge Type = "challenge"
)

// BranchDefault is the branch condition taken when no result-specific
// branch matches.
const BranchDefault = "default"

// Slot describes one card investment slot of a scene.
type Slot struct {
	Type     card.Type `json:"type,omitempty"`
	Required bool      `json:"required,omitempty"`
	Locked   bool      `json:"locked,omitempty"`
}

// Unlock holds a scene's activation conditions. A scene unlocks when the
// player's reputation meets the minimum and every required tag is carried
// by at least one card in the hand.
type Unlock struct {
	MinReputation int      `json:"min_reputation,omitempty"`
	RequiredTags  []string `json:"required_tags,omitempty"`
}

// AbsencePenalty is applied when a scene expires with nothing invested.
type AbsencePenalty struct {
	Effect    effect.Effect `json:"effect"`
	Narrative string        `json:"narrative,omitempty"`
}

// NodeKind identifies one narrative node flavor.
type NodeKind string

const (
	NodeDialogue  NodeKind = "dialogue"
	NodeNarration NodeKind = "narration"
	NodeEffect    NodeKind = "effect"
	NodeChoice    NodeKind = "choice"
)

// NodeOption is one selectable option of an in-stage choice node,
// jumping the runner to the named stage.
type NodeOption struct {
	Label string `json:"label"`
	To    string `json:"to"`
}

// Node is one narrative beat inside a stage.
type Node struct {
	Kind    NodeKind       `json:"kind"`
	Speaker string         `json:"speaker,omitempty"`
	Text    string         `json:"text,omitempty"`
	Effect  *effect.Effect `json:"effect,omitempty"`
	Options []NodeOption   `json:"options,omitempty"`
}

// SettlementKind identifies how a stage's settlement resolves.
type SettlementKind string

const (
	SettlementDiceCheck SettlementKind = "dice_check"
	SettlementTrade     SettlementKind = "trade"
	SettlementChoice    SettlementKind = "choice"
)

// Outcome maps one check result key to its consequences.
type Outcome struct {
	Effect    effect.Effect `json:"effect"`
	Narrative string        `json:"narrative,omitempty"`
}

// SettlementOption is one selectable option of a choice settlement.
type SettlementOption struct {
	Label  string        `json:"label"`
	Effect effect.Effect `json:"effect"`
}

// Settlement configures how a stage resolves.
type Settlement struct {
	Kind     SettlementKind     `json:"kind"`
	Check    *dice.CheckConfig  `json:"check,omitempty"`
	Outcomes map[string]Outcome `json:"outcomes,omitempty"`
	Options  []SettlementOption `json:"options,omitempty"`
}

// Branch is one outgoing edge of a stage, keyed by a check result key or
// BranchDefault.
type Branch struct {
	On string `json:"on"`
	To string `json:"to"`
}

// Stage is one node of a scene's directed narrative graph.
type Stage struct {
	ID         string      `json:"id"`
	Nodes      []Node      `json:"nodes,omitempty"`
	Settlement *Settlement `json:"settlement,omitempty"`
	Branches   []Branch    `json:"branches,omitempty"`
	Final      bool        `json:"final,omitempty"`
}

// Branch returns the target stage id for the given condition, or false.
func (s *Stage) Branch(on string) (string, bool) {
	for _, b := range s.Branches {
		if b.On == on {
			return b.To, true
		}
	}
	return "", false
}

// Definition is an immutable, externally authored scene definition.
type Definition struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Type           Type            `json:"type"`
	Duration       int             `json:"duration"`
	Slots          []Slot          `json:"slots,omitempty"`
	Entry          string          `json:"entry"`
	Stages         []Stage         `json:"stages"`
	Unlock         Unlock          `json:"unlock,omitempty"`
	AbsencePenalty *AbsencePenalty `json:"absence_penalty,omitempty"`
}

// StageByID returns the named stage, or nil.
func (d *Definition) StageByID(id string) *Stage {
	for i := range d.Stages {
		if d.Stages[i].ID == id {
			return &d.Stages[i]
		}
	}
	return nil
}

// EntryStage returns the declared entry stage, or nil.
func (d *Definition) EntryStage() *Stage {
	return d.StageByID(d.Entry)
}
