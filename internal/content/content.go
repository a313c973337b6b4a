// Package content loads and validates externally authored card and
// scene definitions.
//
// Validation is structural only: identifier uniqueness, enum membership,
// and graph connectivity. Gameplay balance is the author's problem.
package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ebenmoss/sultanate/internal/card"
	"github.com/ebenmoss/sultanate/internal/errors"
	"github.com/ebenmoss/sultanate/internal/scene"
)

// Catalog is a validated, immutable set of card and scene definitions.
type Catalog struct {
	cards  map[string]*card.Definition
	scenes map[string]*scene.Definition
}

// New validates the given definitions and builds a catalog.
func New(cards []*card.Definition, scenes []*scene.Definition) (*Catalog, error) {
	c := &Catalog{
		cards:  make(map[string]*card.Definition, len(cards)),
		scenes: make(map[string]*scene.Definition, len(scenes)),
	}
	for _, def := range cards {
		if err := validateCard(def); err != nil {
			return nil, err
		}
		if _, exists := c.cards[def.ID]; exists {
			return nil, errors.New(errors.CodeContentDuplicateID, "duplicate card id").WithMeta("id", def.ID)
		}
		c.cards[def.ID] = def
	}
	for _, def := range scenes {
		if err := validateScene(def); err != nil {
			return nil, err
		}
		if _, exists := c.scenes[def.ID]; exists {
			return nil, errors.New(errors.CodeContentDuplicateID, "duplicate scene id").WithMeta("id", def.ID)
		}
		c.scenes[def.ID] = def
	}
	return c, nil
}

// Bundle is a single-document content file holding both kinds of
// definitions.
type Bundle struct {
	Cards  []*card.Definition  `json:"cards,omitempty"`
	Scenes []*scene.Definition `json:"scenes,omitempty"`
}

// Decode builds a catalog from one JSON bundle document. Unknown fields
// are rejected: a misspelled key would otherwise drop an authored value
// silently.
func Decode(r io.Reader) (*Catalog, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var bundle Bundle
	if err := dec.Decode(&bundle); err != nil {
		return nil, errors.New(errors.CodeContentMalformed, err.Error())
	}
	return New(bundle.Cards, bundle.Scenes)
}

// LoadDir builds a catalog from a content directory. Card files live
// under <dir>/cards and scene files under <dir>/scenes; every .json file
// holds a list of definitions.
func LoadDir(dir string) (*Catalog, error) {
	var cards []*card.Definition
	if err := loadJSONFiles(filepath.Join(dir, "cards"), &cards); err != nil {
		return nil, err
	}
	var scenes []*scene.Definition
	if err := loadJSONFiles(filepath.Join(dir, "scenes"), &scenes); err != nil {
		return nil, err
	}
	return New(cards, scenes)
}

func loadJSONFiles[T any](dir string, out *[]T) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read content dir %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read content file %s: %w", path, err)
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		var defs []T
		if err := dec.Decode(&defs); err != nil {
			return errors.New(errors.CodeContentMalformed, err.Error()).WithMeta("file", entry.Name())
		}
		*out = append(*out, defs...)
	}
	return nil
}

// Card returns the card definition with the given id, or nil.
func (c *Catalog) Card(id string) *card.Definition {
	if c == nil {
		return nil
	}
	return c.cards[id]
}

// Scene returns the scene definition with the given id, or nil.
func (c *Catalog) Scene(id string) *scene.Definition {
	if c == nil {
		return nil
	}
	return c.scenes[id]
}

// CardIDs returns every card id in lexical order.
func (c *Catalog) CardIDs() []string {
	if c == nil {
		return nil
	}
	ids := make([]string, 0, len(c.cards))
	for id := range c.cards {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SceneIDs returns every scene id in lexical order.
func (c *Catalog) SceneIDs() []string {
	if c == nil {
		return nil
	}
	ids := make([]string, 0, len(c.scenes))
	for id := range c.scenes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func validateCard(def *card.Definition) error {
	if def == nil || strings.TrimSpace(def.ID) == "" {
		return errors.New(errors.CodeContentMalformed, "card id is required")
	}
	if !card.ValidType(def.Type) {
		return errors.New(errors.CodeContentInvalidCardType, "unknown card type").
			WithMeta("id", def.ID).WithMeta("type", string(def.Type))
	}
	return nil
}

func validateScene(def *scene.Definition) error {
	if def == nil || strings.TrimSpace(def.ID) == "" {
		return errors.New(errors.CodeContentMalformed, "scene id is required")
	}
	if def.Duration < 1 {
		return errors.New(errors.CodeContentMalformed, "scene duration must be at least one day").
			WithMeta("id", def.ID)
	}
	for _, slot := range def.Slots {
		if slot.Type != "" && !card.ValidType(slot.Type) {
			return errors.New(errors.CodeContentInvalidCardType, "unknown slot card type").
				WithMeta("scene", def.ID).WithMeta("type", string(slot.Type))
		}
	}

	stages := make(map[string]bool, len(def.Stages))
	for _, stage := range def.Stages {
		if strings.TrimSpace(stage.ID) == "" {
			return errors.New(errors.CodeContentMalformed, "stage id is required").
				WithMeta("scene", def.ID)
		}
		if stages[stage.ID] {
			return errors.New(errors.CodeContentDuplicateID, "duplicate stage id").
				WithMeta("scene", def.ID).WithMeta("stage", stage.ID)
		}
		stages[stage.ID] = true
	}
	if def.EntryStage() == nil {
		return errors.New(errors.CodeContentMissingEntry, "entry stage does not exist").
			WithMeta("scene", def.ID).WithMeta("entry", def.Entry)
	}

	for i := range def.Stages {
		if err := validateStage(def, &def.Stages[i], stages); err != nil {
			return err
		}
	}
	return nil
}

func validateStage(def *scene.Definition, stage *scene.Stage, stages map[string]bool) error {
	for _, branch := range stage.Branches {
		if !stages[branch.To] {
			return errors.New(errors.CodeContentDanglingBranch, "branch targets unknown stage").
				WithMeta("scene", def.ID).WithMeta("stage", stage.ID).WithMeta("to", branch.To)
		}
	}
	for _, node := range stage.Nodes {
		for _, opt := range node.Options {
			if !stages[opt.To] {
				return errors.New(errors.CodeContentDanglingBranch, "choice targets unknown stage").
					WithMeta("scene", def.ID).WithMeta("stage", stage.ID).WithMeta("to", opt.To)
			}
		}
	}
	if stage.Settlement != nil && stage.Settlement.Check != nil {
		if !card.ValidAttribute(stage.Settlement.Check.Attribute) {
			return errors.New(errors.CodeContentInvalidAttribute, "unknown check attribute").
				WithMeta("scene", def.ID).WithMeta("stage", stage.ID).
				WithMeta("attribute", string(stage.Settlement.Check.Attribute))
		}
	}
	return nil
}
