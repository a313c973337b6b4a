package card

// Equipment tracks the many-to-many relation between character cards and
// the equipment cards they carry, and aggregates the derived bonuses.
//
// Uniqueness across characters is not enforced: nothing stops the same
// equipment id from being equipped to two characters in sequence.
type Equipment struct {
	hand     *Hand
	equipped map[string][]string
}

// NewEquipment creates an empty relation over the provided hand.
func NewEquipment(hand *Hand) *Equipment {
	return &Equipment{
		hand:     hand,
		equipped: make(map[string][]string),
	}
}

// Equip attaches equipmentID to characterID. It returns false when either
// id is unknown, the character is not a character-type card, the item is
// not an equipment-type card, the character's slots are full, or the item
// is already equipped to that character.
func (e *Equipment) Equip(characterID, equipmentID string) bool {
	character := e.hand.Get(characterID)
	item := e.hand.Get(equipmentID)
	if character == nil || item == nil {
		return false
	}
	if character.Type() != TypeCharacter || item.Type() != TypeEquipment {
		return false
	}
	current := e.equipped[characterID]
	if len(current) >= character.Definition().EquipSlots {
		return false
	}
	for _, id := range current {
		if id == equipmentID {
			return false
		}
	}
	e.equipped[characterID] = append(current, equipmentID)
	return true
}

// Unequip detaches equipmentID from characterID. It returns false when
// the item is not currently equipped to that character.
func (e *Equipment) Unequip(characterID, equipmentID string) bool {
	current := e.equipped[characterID]
	for i, id := range current {
		if id == equipmentID {
			remaining := append(current[:i], current[i+1:]...)
			if len(remaining) == 0 {
				delete(e.equipped, characterID)
			} else {
				e.equipped[characterID] = remaining
			}
			return true
		}
	}
	return false
}

// Equipped returns the ordered equipment ids attached to characterID.
func (e *Equipment) Equipped(characterID string) []string {
	current := e.equipped[characterID]
	out := make([]string, len(current))
	copy(out, current)
	return out
}

// AttributeBonus sums the named attribute bonus across all equipment
// attached to characterID, 0 if none.
func (e *Equipment) AttributeBonus(characterID string, attr Attribute) int {
	total := 0
	for _, id := range e.equipped[characterID] {
		item := e.hand.Get(id)
		if item == nil {
			continue
		}
		if bonus := item.Definition().Bonus; bonus != nil {
			total += bonus.Attributes.Value(attr)
		}
	}
	return total
}

// SpecialBonus sums the special bonuses across all equipment attached to
// characterID.
func (e *Equipment) SpecialBonus(characterID string) Special {
	var total Special
	for _, id := range e.equipped[characterID] {
		item := e.hand.Get(id)
		if item == nil {
			continue
		}
		if bonus := item.Definition().Bonus; bonus != nil {
			total.Support += bonus.Special.Support
			total.Reroll += bonus.Special.Reroll
		}
	}
	return total
}

// TotalAttributeValue returns the character's base attribute plus its
// aggregated equipment bonus.
func (e *Equipment) TotalAttributeValue(characterID string, attr Attribute) int {
	character := e.hand.Get(characterID)
	if character == nil {
		return 0
	}
	return character.Definition().AttributeValue(attr) + e.AttributeBonus(characterID, attr)
}

// Snapshot returns the relation as a plain id to id-list map for saves.
func (e *Equipment) Snapshot() map[string][]string {
	out := make(map[string][]string, len(e.equipped))
	for characterID, items := range e.equipped {
		copied := make([]string, len(items))
		copy(copied, items)
		out[characterID] = copied
	}
	return out
}

// Restore replaces the relation wholesale from a save record.
func (e *Equipment) Restore(snapshot map[string][]string) {
	e.equipped = make(map[string][]string, len(snapshot))
	for characterID, items := range snapshot {
		copied := make([]string, len(items))
		copy(copied, items)
		e.equipped[characterID] = copied
	}
}
