package card

// HandCapacity bounds how many cards the hand can hold at once.
const HandCapacity = 500

// Hand is the player's bounded card collection. It owns every Instance
// exclusively; card ids are unique within the hand.
type Hand struct {
	cards map[string]*Instance
	order []string
}

// NewHand creates an empty hand.
func NewHand() *Hand {
	return &Hand{cards: make(map[string]*Instance)}
}

// Add creates an instance of def and places it in the hand. It returns
// nil when the hand is at capacity or already holds a card with the same
// id.
func (h *Hand) Add(def *Definition) *Instance {
	if len(h.cards) >= HandCapacity {
		return nil
	}
	if _, ok := h.cards[def.ID]; ok {
		return nil
	}
	inst := NewInstance(def)
	h.cards[def.ID] = inst
	h.order = append(h.order, def.ID)
	return inst
}

// Remove destroys the instance with the given id. It returns false when
// the card is absent or carries the protagonist tag.
func (h *Hand) Remove(id string) bool {
	inst, ok := h.cards[id]
	if !ok {
		return false
	}
	if inst.HasTag(TagProtagonist) {
		return false
	}
	delete(h.cards, id)
	for i, existing := range h.order {
		if existing == id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the instance with the given id, or nil.
func (h *Hand) Get(id string) *Instance {
	return h.cards[id]
}

// Has reports whether the hand holds a card with the given id.
func (h *Hand) Has(id string) bool {
	_, ok := h.cards[id]
	return ok
}

// Size returns the number of cards held.
func (h *Hand) Size() int {
	return len(h.cards)
}

// IDs returns all held card ids in insertion order. Insertion order is
// irrelevant for gameplay but keeps save records and settlement batches
// deterministic.
func (h *Hand) IDs() []string {
	ids := make([]string, len(h.order))
	copy(ids, h.order)
	return ids
}

// List returns all held instances in insertion order.
func (h *Hand) List() []*Instance {
	out := make([]*Instance, 0, len(h.order))
	for _, id := range h.order {
		out = append(out, h.cards[id])
	}
	return out
}

// FilterByType returns held instances of the given type, insertion order.
func (h *Hand) FilterByType(t Type) []*Instance {
	var out []*Instance
	for _, id := range h.order {
		if inst := h.cards[id]; inst.Type() == t {
			out = append(out, inst)
		}
	}
	return out
}

// FilterByTag returns held instances carrying the tag, insertion order.
func (h *Hand) FilterByTag(tag string) []*Instance {
	var out []*Instance
	for _, id := range h.order {
		if inst := h.cards[id]; inst.HasTag(tag) {
			out = append(out, inst)
		}
	}
	return out
}

// HasAllTags reports whether every tag in tags is carried by at least one
// held card. An empty tag list is trivially satisfied.
func (h *Hand) HasAllTags(tags []string) bool {
	for _, tag := range tags {
		if len(h.FilterByTag(tag)) == 0 {
			return false
		}
	}
	return true
}
