package server

import (
	"github.com/rs/zerolog"

	"github.com/ebenmoss/sultanate/internal/effect"
	"github.com/ebenmoss/sultanate/internal/settle"
)

// logObserver bridges engine notifications into structured logs. All
// methods are fire-and-forget; the engine never waits on them.
type logObserver struct {
	log    zerolog.Logger
	gameID string
}

func (o *logObserver) GameStarted(difficulty string, day int) {
	o.log.Info().
		Str("game_id", o.gameID).
		Str("difficulty", difficulty).
		Int("day", day).
		Msg("game started")
}

func (o *logObserver) DayAdvanced(day, executionCountdown int) {
	o.log.Info().
		Str("game_id", o.gameID).
		Int("day", day).
		Int("execution_countdown", executionCountdown).
		Msg("day advanced")
}

func (o *logObserver) SceneSettled(result settle.Result) {
	o.log.Info().
		Str("game_id", o.gameID).
		Str("scene_id", result.SceneID).
		Str("kind", string(result.Kind)).
		Str("result", result.ResultKey).
		Msg("scene settled")
}

func (o *logObserver) EffectApplied(sceneID string, applied effect.Applied) {
	o.log.Debug().
		Str("game_id", o.gameID).
		Str("scene_id", sceneID).
		Int("gold_delta", applied.GoldDelta).
		Int("reputation_delta", applied.ReputationDelta).
		Msg("effect applied")
}

func (o *logObserver) DayRewound(day int) {
	o.log.Info().
		Str("game_id", o.gameID).
		Int("day", day).
		Msg("day rewound")
}

func (o *logObserver) GameEnded(reason string) {
	o.log.Info().
		Str("game_id", o.gameID).
		Str("reason", reason).
		Msg("game ended")
}
