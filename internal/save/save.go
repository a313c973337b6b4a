// Package save defines the save-record shape exchanged with the
// external save store.
//
// A record is a full snapshot overwrite: the engine writes it wholesale
// on save and reads it wholesale on load. Card and scene definitions are
// never embedded; instances are re-resolved from the content catalog by
// id at load time.
package save

import (
	"time"

	"github.com/ebenmoss/sultanate/internal/scene"
)

// GameState is the player/clock block of a save record.
type GameState struct {
	Day                int    `json:"day"`
	ExecutionCountdown int    `json:"execution_countdown"`
	Gold               int    `json:"gold"`
	Reputation         int    `json:"reputation"`
	RewindCharges      int    `json:"rewind_charges"`
	GoldenDice         int    `json:"golden_dice"`
	ThinkCharges       int    `json:"think_charges"`
	Phase              string `json:"phase"`
	Seed               string `json:"rng_seed"`
}

// Cards is the hand/equipment block of a save record. SceneLocks is
// reserved and currently unused.
type Cards struct {
	HandIDs        []string            `json:"hand"`
	Tags           map[string][]string `json:"card_tags,omitempty"`
	Equipped       map[string][]string `json:"equipped"`
	SceneLocks     map[string]bool     `json:"scene_locks,omitempty"`
	ThinkUsedToday []string            `json:"think_used_today,omitempty"`
}

// Scenes is the scene block of a save record. CompletedIDs is reserved
// and currently unused.
type Scenes struct {
	ActiveIDs    []string                `json:"active"`
	CompletedIDs []string                `json:"completed,omitempty"`
	States       map[string]*scene.State `json:"states"`
}

// Record is one full save snapshot.
type Record struct {
	ID           string         `json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	GameState    GameState      `json:"game_state"`
	Cards        Cards          `json:"cards"`
	Scenes       Scenes         `json:"scenes"`
	Achievements []string       `json:"achievements,omitempty"`
	NPCRelations map[string]int `json:"npc_relations,omitempty"`
}
