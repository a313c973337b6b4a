package scene

import "github.com/ebenmoss/sultanate/internal/card"

// slotAccepts reports whether a slot can hold the card. An empty slot
// type accepts any card.
func slotAccepts(slot Slot, inst *card.Instance) bool {
	if slot.Locked {
		return false
	}
	return slot.Type == "" || slot.Type == inst.Type()
}

// ValidateInvestment reports whether the cards can legally fill the
// scene's slots: every card occupies a distinct type-compatible unlocked
// slot, and every required unlocked slot is filled. Locked slots are out
// of play entirely, including their required flag.
func ValidateInvestment(def *Definition, cards []*card.Instance) bool {
	usable := make([]Slot, 0, len(def.Slots))
	for _, slot := range def.Slots {
		if !slot.Locked {
			usable = append(usable, slot)
		}
	}
	if len(cards) > len(usable) {
		return false
	}

	assigned := make([]int, len(usable))
	for i := range assigned {
		assigned[i] = -1
	}
	if !assignCards(usable, cards, 0, assigned) {
		return false
	}

	return true
}

// assignCards searches for an assignment of cards to distinct compatible
// slots that also covers every required slot. Slot lists are tiny, so a
// plain backtracking search is enough.
func assignCards(slots []Slot, cards []*card.Instance, cardIdx int, assigned []int) bool {
	if cardIdx == len(cards) {
		for slotIdx, slot := range slots {
			if slot.Required && assigned[slotIdx] == -1 {
				return false
			}
		}
		return true
	}

	for slotIdx := range slots {
		if assigned[slotIdx] != -1 || !slotAccepts(slots[slotIdx], cards[cardIdx]) {
			continue
		}
		assigned[slotIdx] = cardIdx
		if assignCards(slots, cards, cardIdx+1, assigned) {
			return true
		}
		assigned[slotIdx] = -1
	}
	return false
}
