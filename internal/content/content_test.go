package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ebenmoss/sultanate/internal/card"
	"github.com/ebenmoss/sultanate/internal/dice"
	"github.com/ebenmoss/sultanate/internal/errors"
	"github.com/ebenmoss/sultanate/internal/scene"
)

func validCard(id string) *card.Definition {
	return &card.Definition{ID: id, Name: id, Type: card.TypeCharacter}
}

func validScene(id string) *scene.Definition {
	return &scene.Definition{
		ID:       id,
		Name:     id,
		Type:     scene.TypeEvent,
		Duration: 2,
		Entry:    "start",
		Stages: []scene.Stage{
			{ID: "start", Branches: []scene.Branch{{On: scene.BranchDefault, To: "end"}}},
			{ID: "end", Final: true},
		},
	}
}

func TestNewValid(t *testing.T) {
	catalog, err := New(
		[]*card.Definition{validCard("protagonist"), validCard("vizier")},
		[]*scene.Definition{validScene("bazaar")},
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if catalog.Card("vizier") == nil {
		t.Error("Card(vizier) = nil, want definition")
	}
	if catalog.Scene("bazaar") == nil {
		t.Error("Scene(bazaar) = nil, want definition")
	}
	if catalog.Card("nope") != nil {
		t.Error("Card(nope) != nil, want nil")
	}
	wantIDs := []string{"protagonist", "vizier"}
	gotIDs := catalog.CardIDs()
	if len(gotIDs) != 2 || gotIDs[0] != wantIDs[0] || gotIDs[1] != wantIDs[1] {
		t.Errorf("CardIDs() = %v, want %v", gotIDs, wantIDs)
	}
}

func TestNewValidation(t *testing.T) {
	badType := validCard("bad")
	badType.Type = "djinn"

	dupStage := validScene("dup_stage")
	dupStage.Stages = append(dupStage.Stages, scene.Stage{ID: "start"})

	noEntry := validScene("no_entry")
	noEntry.Entry = "missing"

	dangling := validScene("dangling")
	dangling.Stages[0].Branches[0].To = "missing"

	danglingChoice := validScene("dangling_choice")
	danglingChoice.Stages[0].Nodes = []scene.Node{{
		Kind:    scene.NodeChoice,
		Options: []scene.NodeOption{{Label: "go", To: "missing"}},
	}}

	badAttr := validScene("bad_attr")
	badAttr.Stages[1].Settlement = &scene.Settlement{
		Kind:  scene.SettlementDiceCheck,
		Check: &dice.CheckConfig{Attribute: "luck", Target: 2},
	}

	badSlot := validScene("bad_slot")
	badSlot.Slots = []scene.Slot{{Type: "djinn"}}

	zeroDuration := validScene("zero_duration")
	zeroDuration.Duration = 0

	tests := []struct {
		name   string
		cards  []*card.Definition
		scenes []*scene.Definition
		code   errors.Code
	}{
		{
			name:  "duplicate card id",
			cards: []*card.Definition{validCard("a"), validCard("a")},
			code:  errors.CodeContentDuplicateID,
		},
		{
			name:  "invalid card type",
			cards: []*card.Definition{badType},
			code:  errors.CodeContentInvalidCardType,
		},
		{
			name:  "missing card id",
			cards: []*card.Definition{{Type: card.TypeIntel}},
			code:  errors.CodeContentMalformed,
		},
		{
			name:   "duplicate scene id",
			scenes: []*scene.Definition{validScene("a"), validScene("a")},
			code:   errors.CodeContentDuplicateID,
		},
		{
			name:   "duplicate stage id",
			scenes: []*scene.Definition{dupStage},
			code:   errors.CodeContentDuplicateID,
		},
		{
			name:   "missing entry stage",
			scenes: []*scene.Definition{noEntry},
			code:   errors.CodeContentMissingEntry,
		},
		{
			name:   "dangling branch",
			scenes: []*scene.Definition{dangling},
			code:   errors.CodeContentDanglingBranch,
		},
		{
			name:   "dangling choice option",
			scenes: []*scene.Definition{danglingChoice},
			code:   errors.CodeContentDanglingBranch,
		},
		{
			name:   "invalid check attribute",
			scenes: []*scene.Definition{badAttr},
			code:   errors.CodeContentInvalidAttribute,
		},
		{
			name:   "invalid slot type",
			scenes: []*scene.Definition{badSlot},
			code:   errors.CodeContentInvalidCardType,
		},
		{
			name:   "zero duration",
			scenes: []*scene.Definition{zeroDuration},
			code:   errors.CodeContentMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cards, tt.scenes)
			if err == nil {
				t.Fatal("New() expected error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("New() code = %s, want %s", got, tt.code)
			}
		})
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "cards", "base.json"), `[
		{"id": "protagonist", "name": "Protagonist", "type": "character",
		 "attributes": {"combat": 3, "charm": 2}, "tags": ["protagonist"]},
		{"id": "sword", "name": "Sword", "type": "equipment",
		 "bonus": {"attributes": {"combat": 2}}}
	]`)
	mustWrite(t, filepath.Join(dir, "scenes", "intro.json"), `[
		{"id": "bazaar", "name": "Bazaar", "type": "event", "duration": 2,
		 "entry": "start",
		 "stages": [
			{"id": "start",
			 "settlement": {
				"kind": "dice_check",
				"check": {"attribute": "charm", "calc_mode": "sum", "target": 2}
			 },
			 "branches": [{"on": "default", "to": "end"}]},
			{"id": "end", "final": true}
		 ]}
	]`)

	catalog, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	protag := catalog.Card("protagonist")
	if protag == nil {
		t.Fatal("Card(protagonist) = nil, want definition")
	}
	if got := protag.AttributeValue(card.AttrCombat); got != 3 {
		t.Errorf("protagonist combat = %d, want 3", got)
	}
	entry := catalog.Scene("bazaar").EntryStage()
	if entry == nil {
		t.Fatal("bazaar entry stage = nil, want stage")
	}
	if got := entry.Settlement.Check.Mode; got != dice.CalcModeSum {
		t.Errorf("check calc mode = %v, want %v", got, dice.CalcModeSum)
	}
}

func TestLoadDirRejectsUnknownField(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "scenes", "bad.json"), `[
		{"id": "bazaar", "name": "Bazaar", "type": "event", "duration": 2,
		 "entry": "start",
		 "stages": [
			{"id": "start", "final": true,
			 "settlement": {
				"kind": "dice_check",
				"check": {"attribute": "charm", "mode": "sum", "target": 2}
			 }}
		 ]}
	]`)

	// "mode" is not a check field; accepting it would silently leave the
	// authored calc mode at its zero value.
	_, err := LoadDir(dir)
	if !errors.IsCode(err, errors.CodeContentMalformed) {
		t.Fatalf("LoadDir() error = %v, want code %s", err, errors.CodeContentMalformed)
	}
}

func TestLoadDirMalformed(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "cards", "bad.json"), `{not json`)

	_, err := LoadDir(dir)
	if !errors.IsCode(err, errors.CodeContentMalformed) {
		t.Fatalf("LoadDir() error = %v, want code %s", err, errors.CodeContentMalformed)
	}
}

func TestLoadDirMissingSubdirs(t *testing.T) {
	catalog, err := LoadDir(t.TempDir())
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if len(catalog.CardIDs()) != 0 || len(catalog.SceneIDs()) != 0 {
		t.Error("empty dir should produce an empty catalog")
	}
}

func mustWrite(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}
