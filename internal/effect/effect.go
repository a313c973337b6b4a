// Package effect applies declarative effect bundles to player and card
// state.
//
// Effects are authored in scene content and applied synchronously in
// field order. Rule-level misses (unknown cards, out-of-range invested
// references, duplicate adds) are silent no-ops, never errors.
package effect

import (
	"strconv"
	"strings"

	"github.com/ebenmoss/sultanate/internal/card"
	"github.com/ebenmoss/sultanate/internal/player"
)

// InvestedRefPrefix introduces a synthetic card reference of the form
// "card_invested_N", resolved against the settling scene's invested card
// list at zero-based index N.
const InvestedRefPrefix = "card_invested_"

// TagChange names one tag mutation on one card reference.
type TagChange struct {
	Card string `json:"card"`
	Tag  string `json:"tag"`
}

// Effect is a declarative state mutation bundle.
type Effect struct {
	Gold            int         `json:"gold,omitempty"`
	Reputation      int         `json:"reputation,omitempty"`
	CardsAdd        []string    `json:"cards_add,omitempty"`
	CardsRemove     []string    `json:"cards_remove,omitempty"`
	TagsAdd         []TagChange `json:"tags_add,omitempty"`
	TagsRemove      []TagChange `json:"tags_remove,omitempty"`
	ConsumeInvested bool        `json:"consume_invested,omitempty"`
}

// IsZero reports whether the effect mutates nothing.
func (e Effect) IsZero() bool {
	return e.Gold == 0 && e.Reputation == 0 &&
		len(e.CardsAdd) == 0 && len(e.CardsRemove) == 0 &&
		len(e.TagsAdd) == 0 && len(e.TagsRemove) == 0 &&
		!e.ConsumeInvested
}

// Applied summarizes what an Apply call actually changed, for settlement
// results and the event observer.
type Applied struct {
	GoldDelta       int         `json:"gold_delta,omitempty"`
	ReputationDelta int         `json:"reputation_delta,omitempty"`
	CardsAdded      []string    `json:"cards_added,omitempty"`
	CardsRemoved    []string    `json:"cards_removed,omitempty"`
	TagsAdded       []TagChange `json:"tags_added,omitempty"`
	TagsRemoved     []TagChange `json:"tags_removed,omitempty"`
	Consumed        []string    `json:"consumed,omitempty"`
}

// Resolver maps a card id to its definition, or nil when unknown. The
// applier never validates content; an unresolvable card add is a no-op.
type Resolver func(id string) *card.Definition

// Applier mutates player and hand state from effect bundles.
type Applier struct {
	Hand    *card.Hand
	Player  *player.State
	Resolve Resolver
}

// NewApplier creates an applier over the provided state.
func NewApplier(hand *card.Hand, state *player.State, resolve Resolver) *Applier {
	return &Applier{Hand: hand, Player: state, Resolve: resolve}
}

// Apply mutates state from the effect bundle, in field order, with the
// provided invested card ids as "card_invested_N" context. Side effects
// are immediate; fields never interact with each other.
func (a *Applier) Apply(e Effect, invested []string) Applied {
	var applied Applied

	if e.Gold != 0 {
		a.Player.ChangeGold(e.Gold)
		applied.GoldDelta = e.Gold
	}
	if e.Reputation != 0 {
		before := a.Player.Reputation()
		a.Player.ChangeReputation(e.Reputation)
		applied.ReputationDelta = a.Player.Reputation() - before
	}

	for _, id := range e.CardsAdd {
		if a.Hand.Has(id) || a.Resolve == nil {
			continue
		}
		def := a.Resolve(id)
		if def == nil {
			continue
		}
		if inst := a.Hand.Add(def); inst != nil {
			applied.CardsAdded = append(applied.CardsAdded, id)
		}
	}

	for _, id := range e.CardsRemove {
		if a.Hand.Remove(id) {
			applied.CardsRemoved = append(applied.CardsRemoved, id)
		}
	}

	for _, change := range e.TagsAdd {
		id := ResolveCardRef(change.Card, invested)
		if inst := a.Hand.Get(id); inst != nil {
			inst.AddTag(change.Tag)
			applied.TagsAdded = append(applied.TagsAdded, TagChange{Card: id, Tag: change.Tag})
		}
	}

	for _, change := range e.TagsRemove {
		id := ResolveCardRef(change.Card, invested)
		if inst := a.Hand.Get(id); inst != nil {
			inst.RemoveTag(change.Tag)
			applied.TagsRemoved = append(applied.TagsRemoved, TagChange{Card: id, Tag: change.Tag})
		}
	}

	if e.ConsumeInvested {
		for _, id := range invested {
			if a.Hand.Remove(id) {
				applied.Consumed = append(applied.Consumed, id)
			}
		}
	}

	return applied
}

// ResolveCardRef resolves a card reference: either a literal card id or
// an invested-card indirection of the form "card_invested_N". An
// out-of-range or malformed index resolves to the empty string, which no
// hand lookup will match.
func ResolveCardRef(ref string, invested []string) string {
	if !strings.HasPrefix(ref, InvestedRefPrefix) {
		return ref
	}
	index, err := strconv.Atoi(ref[len(InvestedRefPrefix):])
	if err != nil || index < 0 || index >= len(invested) {
		return ""
	}
	return invested[index]
}
