// Package event defines the optional observer the engine notifies after
// committed mutations.
//
// Notification is fire-and-forget: the simulation's correctness never
// depends on a subscriber existing, observing, or finishing. Hosts use
// it for UI animation hooks and logging.
package event

import (
	"github.com/ebenmoss/sultanate/internal/effect"
	"github.com/ebenmoss/sultanate/internal/settle"
)

// Observer receives notifications after committed game mutations.
type Observer interface {
	GameStarted(difficulty string, day int)
	DayAdvanced(day, executionCountdown int)
	SceneSettled(result settle.Result)
	EffectApplied(sceneID string, applied effect.Applied)
	DayRewound(day int)
	GameEnded(reason string)
}

// Multi fans a notification out to several observers in order.
type Multi []Observer

func (m Multi) GameStarted(difficulty string, day int) {
	for _, o := range m {
		o.GameStarted(difficulty, day)
	}
}

func (m Multi) DayAdvanced(day, executionCountdown int) {
	for _, o := range m {
		o.DayAdvanced(day, executionCountdown)
	}
}

func (m Multi) SceneSettled(result settle.Result) {
	for _, o := range m {
		o.SceneSettled(result)
	}
}

func (m Multi) EffectApplied(sceneID string, applied effect.Applied) {
	for _, o := range m {
		o.EffectApplied(sceneID, applied)
	}
}

func (m Multi) DayRewound(day int) {
	for _, o := range m {
		o.DayRewound(day)
	}
}

func (m Multi) GameEnded(reason string) {
	for _, o := range m {
		o.GameEnded(reason)
	}
}
