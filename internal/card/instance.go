package card

import "sort"

// Instance is an owned card: an immutable definition plus the mutable tag
// set the card carries during a run. Instances are created when a card
// enters the hand and destroyed when it leaves.
type Instance struct {
	def  *Definition
	tags map[string]struct{}
}

// NewInstance creates an instance of the provided definition, seeding the
// tag set from the definition's tags.
func NewInstance(def *Definition) *Instance {
	inst := &Instance{
		def:  def,
		tags: make(map[string]struct{}, len(def.Tags)),
	}
	for _, tag := range def.Tags {
		inst.tags[tag] = struct{}{}
	}
	return inst
}

// Definition returns the immutable definition this instance wraps.
func (i *Instance) Definition() *Definition {
	return i.def
}

// ID returns the definition id.
func (i *Instance) ID() string {
	return i.def.ID
}

// Type returns the card type.
func (i *Instance) Type() Type {
	return i.def.Type
}

// HasTag reports whether the instance currently carries the tag.
func (i *Instance) HasTag(tag string) bool {
	_, ok := i.tags[tag]
	return ok
}

// AddTag adds a runtime tag. Adding a tag the instance already carries is
// a no-op.
func (i *Instance) AddTag(tag string) {
	i.tags[tag] = struct{}{}
}

// RemoveTag removes a runtime tag. Removing an absent tag is a no-op.
func (i *Instance) RemoveTag(tag string) {
	delete(i.tags, tag)
}

// Tags returns the current tag set in sorted order.
func (i *Instance) Tags() []string {
	tags := make([]string, 0, len(i.tags))
	for tag := range i.tags {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// RestoreTags replaces the tag set wholesale, used when loading a save.
func (i *Instance) RestoreTags(tags []string) {
	i.tags = make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		i.tags[tag] = struct{}{}
	}
}
