// Package timeline tracks the day counter, the execution countdown, and
// the one-shot rewind snapshot.
package timeline

import (
	"encoding/json"

	"github.com/ebenmoss/sultanate/internal/player"
)

// Snapshot captures the rewindable state of the immediately preceding
// day. Context carries caller-owned extra state (scene states, hand,
// think usage) the clock itself knows nothing about.
type Snapshot struct {
	Day                int             `json:"day"`
	ExecutionCountdown int             `json:"execution_countdown"`
	Player             player.Snapshot `json:"player"`
	Context            json.RawMessage `json:"context,omitempty"`
}

// Clock is the day/countdown state with a single-slot rewind buffer.
// Only the immediately preceding day is recoverable; this is a game
// balance rule, not a technical limit.
type Clock struct {
	Day                int
	ExecutionCountdown int

	snapshot *Snapshot
}

// New creates a clock at day 1 with the given execution countdown.
func New(executionDays int) *Clock {
	return &Clock{Day: 1, ExecutionCountdown: executionDays}
}

// AdvanceDay stores snap as the single rewind buffer, then increments
// the day and decrements the countdown. The countdown may go negative; a
// missed execution-day check must still trigger later.
func (c *Clock) AdvanceDay(snap Snapshot) {
	c.snapshot = &snap
	c.Day++
	c.ExecutionCountdown--
}

// IsExecutionDay reports whether the countdown has run out.
func (c *Clock) IsExecutionDay() bool {
	return c.ExecutionCountdown <= 0
}

// HasSnapshot reports whether a rewind target exists.
func (c *Clock) HasSnapshot() bool {
	return c.snapshot != nil
}

// Rewind restores day and countdown from the stored snapshot, consuming
// one rewind charge and clearing the snapshot (a second rewind needs
// another day to pass first). It returns the snapshot so the caller can
// restore the context it stored, or nil when no snapshot exists or the
// player has no charge. A denied rewind mutates nothing.
func (c *Clock) Rewind(p *player.State) *Snapshot {
	if c.snapshot == nil {
		return nil
	}
	if !p.SpendRewindCharge() {
		return nil
	}
	snap := c.snapshot
	c.snapshot = nil
	c.Day = snap.Day
	c.ExecutionCountdown = snap.ExecutionCountdown
	return snap
}
