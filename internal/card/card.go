// Package card models card definitions, owned card instances, the player's
// hand, and the character/equipment relation.
//
// Definitions are immutable and come from the content catalog; instances
// wrap a definition with the mutable tag state a card accumulates during
// a run.
package card

// Type identifies the gameplay category of a card.
type Type string

const (
	TypeCharacter  Type = "character"
	TypeEquipment  Type = "equipment"
	TypeIntel      Type = "intel"
	TypeConsumable Type = "consumable"
	TypeBook       Type = "book"
	TypeThought    Type = "thought"
	TypeGem        Type = "gem"
	TypeSultan     Type = "sultan"
)

// ValidType reports whether t is one of the defined card types.
func ValidType(t Type) bool {
	switch t {
	case TypeCharacter, TypeEquipment, TypeIntel, TypeConsumable,
		TypeBook, TypeThought, TypeGem, TypeSultan:
		return true
	}
	return false
}

// Rarity grades a card definition.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// TagProtagonist marks a card as non-removable while present.
const TagProtagonist = "protagonist"

// Attribute names one of the eight character attributes.
type Attribute string

const (
	AttrCombat   Attribute = "combat"
	AttrIntrigue Attribute = "intrigue"
	AttrCharm    Attribute = "charm"
	AttrWisdom   Attribute = "wisdom"
	AttrCommand  Attribute = "command"
	AttrStealth  Attribute = "stealth"
	AttrPiety    Attribute = "piety"
	AttrCraft    Attribute = "craft"
)

// AllAttributes lists every attribute in canonical order.
var AllAttributes = []Attribute{
	AttrCombat, AttrIntrigue, AttrCharm, AttrWisdom,
	AttrCommand, AttrStealth, AttrPiety, AttrCraft,
}

// ValidAttribute reports whether attr names a defined attribute.
func ValidAttribute(attr Attribute) bool {
	for _, a := range AllAttributes {
		if a == attr {
			return true
		}
	}
	return false
}

// Attributes holds the eight base attribute values of a character card.
// A closed struct keeps attribute lookups exhaustive: an unknown name can
// never silently read as "no value".
type Attributes struct {
	Combat   int `json:"combat"`
	Intrigue int `json:"intrigue"`
	Charm    int `json:"charm"`
	Wisdom   int `json:"wisdom"`
	Command  int `json:"command"`
	Stealth  int `json:"stealth"`
	Piety    int `json:"piety"`
	Craft    int `json:"craft"`
}

// Value returns the named attribute, or 0 for an unknown name.
func (a Attributes) Value(attr Attribute) int {
	switch attr {
	case AttrCombat:
		return a.Combat
	case AttrIntrigue:
		return a.Intrigue
	case AttrCharm:
		return a.Charm
	case AttrWisdom:
		return a.Wisdom
	case AttrCommand:
		return a.Command
	case AttrStealth:
		return a.Stealth
	case AttrPiety:
		return a.Piety
	case AttrCraft:
		return a.Craft
	default:
		return 0
	}
}

// Sum returns the total of all eight attributes.
func (a Attributes) Sum() int {
	total := 0
	for _, attr := range AllAttributes {
		total += a.Value(attr)
	}
	return total
}

// Special holds the optional special attribute values of a card.
type Special struct {
	Support int `json:"support,omitempty"`
	Reroll  int `json:"reroll,omitempty"`
}

// Bonus describes the derived bonuses an equipment card grants while
// equipped.
type Bonus struct {
	Attributes Attributes `json:"attributes"`
	Special    Special    `json:"special"`
}

// Definition is an immutable, externally authored card definition.
//
// The content loader validates shape before a definition reaches the
// simulation; the core trusts every field as-is.
type Definition struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Type        Type        `json:"type"`
	Rarity      Rarity      `json:"rarity,omitempty"`
	Attributes  *Attributes `json:"attributes,omitempty"`
	Special     *Special    `json:"special,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
	EquipSlots  int         `json:"equip_slots,omitempty"`
	Bonus       *Bonus      `json:"bonus,omitempty"`
	GemSlots    int         `json:"gem_slots,omitempty"`
}

// AttributeValue returns the named base attribute, or 0 when the card has
// no attribute block (non-character cards).
func (d *Definition) AttributeValue(attr Attribute) int {
	if d.Attributes == nil {
		return 0
	}
	return d.Attributes.Value(attr)
}

// AttributeSum returns the total of all base attributes, or 0 when the
// card has no attribute block.
func (d *Definition) AttributeSum() int {
	if d.Attributes == nil {
		return 0
	}
	return d.Attributes.Sum()
}
