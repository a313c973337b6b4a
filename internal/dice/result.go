package dice

import (
	"fmt"

	"github.com/ebenmoss/sultanate/internal/rng"
)

// Result classifies a finished check against its target.
type Result int

const (
	ResultSuccess Result = iota
	ResultPartialSuccess
	ResultFailure
	ResultCriticalFailure
)

func (r Result) String() string {
	switch r {
	case ResultSuccess:
		return "Success"
	case ResultPartialSuccess:
		return "Partial success"
	case ResultFailure:
		return "Failure"
	case ResultCriticalFailure:
		return "Critical failure"
	default:
		return "Unknown"
	}
}

// Key returns the outcome key scene branches and settlement outcomes are
// authored against.
func (r Result) Key() string {
	switch r {
	case ResultSuccess:
		return "success"
	case ResultPartialSuccess:
		return "partial_success"
	case ResultFailure:
		return "failure"
	case ResultCriticalFailure:
		return "critical_failure"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler for save records.
func (r Result) MarshalText() ([]byte, error) {
	return []byte(r.Key()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Result) UnmarshalText(text []byte) error {
	switch string(text) {
	case "success":
		*r = ResultSuccess
	case "partial_success":
		*r = ResultPartialSuccess
	case "failure":
		*r = ResultFailure
	case "critical_failure":
		*r = ResultCriticalFailure
	default:
		return fmt.Errorf("unknown check result %q", text)
	}
	return nil
}

// Classify grades a final success count against the target.
//
// Order matters: meeting the target always wins, a zero-success roll is
// always critical before the general failure bands apply, and the partial
// band only exists for targets above 2 (below that, any non-zero success
// inside the band would already meet the target).
func Classify(successes, target int) Result {
	switch {
	case successes >= target:
		return ResultSuccess
	case successes == 0:
		return ResultCriticalFailure
	case target > 2 && successes >= target-2:
		return ResultPartialSuccess
	default:
		return ResultFailure
	}
}

// CheckState is the full audit trail of one performed check, embedded in
// settlement results for display and history persistence.
type CheckState struct {
	Config         CheckConfig  `json:"config"`
	PoolSize       int          `json:"pool_size"`
	Initial        RollOutcome  `json:"initial"`
	Rerolled       *RollOutcome `json:"rerolled,omitempty"`
	GoldenDiceUsed int          `json:"golden_dice_used"`
	FinalSuccesses int          `json:"final_successes"`
	Result         Result       `json:"result"`
}

// PerformFullCheck composes roll, optional reroll, golden-die application
// and classification into one audit trail.
func PerformFullCheck(r *rng.RNG, cfg CheckConfig, pool int, rerollIndices []int, goldenDice int) CheckState {
	if pool > MaxPool {
		pool = MaxPool
	}
	if pool < 0 {
		pool = 0
	}

	initial := Roll(r, pool)
	final := initial

	var rerolled *RollOutcome
	if len(rerollIndices) > 0 {
		redone := Reroll(r, initial, rerollIndices)
		rerolled = &redone
		final = redone
	}

	successes := ApplyGoldenDice(final.Successes, goldenDice)

	return CheckState{
		Config:         cfg,
		PoolSize:       pool,
		Initial:        initial,
		Rerolled:       rerolled,
		GoldenDiceUsed: goldenDice,
		FinalSuccesses: successes,
		Result:         Classify(successes, cfg.Target),
	}
}
