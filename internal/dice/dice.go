// Package dice implements the dice-check engine: pool sizing from card
// attributes, exploding d10 rolls, selective rerolls, golden-die bonuses,
// and tiered result classification.
package dice

import (
	"fmt"

	"github.com/ebenmoss/sultanate/internal/card"
	"github.com/ebenmoss/sultanate/internal/rng"
)

const (
	// MaxPool caps how many dice a single check may roll.
	MaxPool = 20
	// MaxExplosions caps the total number of explosion draws per roll,
	// guaranteeing termination even under an adversarial all-tens stream.
	MaxExplosions = 20
	// SuccessFace is the minimum face value that counts as a success.
	SuccessFace = 7
	// ExplodeFace is the face value that triggers an explosion draw.
	ExplodeFace = 10
)

// CalcMode selects how a check derives its base pool from the invested
// cards' attribute values.
type CalcMode int

const (
	CalcModeMax CalcMode = iota
	CalcModeSum
	CalcModeMin
	CalcModeAverage
	CalcModeFirst
	CalcModeSpecific
)

var calcModeNames = map[CalcMode]string{
	CalcModeMax:      "max",
	CalcModeSum:      "sum",
	CalcModeMin:      "min",
	CalcModeAverage:  "average",
	CalcModeFirst:    "first",
	CalcModeSpecific: "specific",
}

func (m CalcMode) String() string {
	if name, ok := calcModeNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseCalcMode maps a content-catalog string to a CalcMode.
func ParseCalcMode(name string) (CalcMode, bool) {
	for mode, n := range calcModeNames {
		if n == name {
			return mode, true
		}
	}
	return CalcModeMax, false
}

// MarshalText implements encoding.TextMarshaler for catalog and save JSON.
func (m CalcMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *CalcMode) UnmarshalText(text []byte) error {
	mode, ok := ParseCalcMode(string(text))
	if !ok {
		return fmt.Errorf("unknown calc mode %q", text)
	}
	*m = mode
	return nil
}

// CheckConfig describes one dice check as authored in scene content.
type CheckConfig struct {
	Attribute card.Attribute `json:"attribute"`
	Mode      CalcMode       `json:"calc_mode"`
	Index     int            `json:"index,omitempty"`
	Target    int            `json:"target"`
}

// PoolSize derives the dice pool from the invested cards' attribute
// values plus the aggregated equipment bonus, clamped to MaxPool. An
// empty value list yields a pool of just the bonus.
func PoolSize(values []int, bonus int, mode CalcMode, index int) int {
	base := 0
	switch mode {
	case CalcModeMax:
		for _, v := range values {
			if v > base {
				base = v
			}
		}
	case CalcModeSum:
		for _, v := range values {
			base += v
		}
	case CalcModeMin:
		if len(values) > 0 {
			base = values[0]
			for _, v := range values[1:] {
				if v < base {
					base = v
				}
			}
		}
	case CalcModeAverage:
		if len(values) > 0 {
			sum := 0
			for _, v := range values {
				sum += v
			}
			base = sum / len(values)
		}
	case CalcModeFirst:
		if len(values) > 0 {
			base = values[0]
		}
	case CalcModeSpecific:
		if index >= 0 && index < len(values) {
			base = values[index]
		}
	}

	pool := base + bonus
	if pool < 0 {
		pool = 0
	}
	if pool > MaxPool {
		pool = MaxPool
	}
	return pool
}

// RollOutcome is the audit trail of a single pool roll.
type RollOutcome struct {
	Base      []int `json:"base"`
	Exploded  []int `json:"exploded,omitempty"`
	All       []int `json:"all"`
	Successes int   `json:"successes"`
}

// Roll draws min(pool, MaxPool) d10s and resolves explosions.
//
// Every die showing ExplodeFace earns one extra draw; extra draws may
// themselves explode. Pending explosions are resolved breadth-first in
// generation batches, and the total number of explosion draws is capped
// at MaxExplosions no matter how many tens keep appearing.
func Roll(r *rng.RNG, pool int) RollOutcome {
	return roll(r.RollD10, pool)
}

// roll is the draw-source-agnostic body of Roll.
func roll(draw func() int, pool int) RollOutcome {
	n := pool
	if n < 0 {
		n = 0
	}
	if n > MaxPool {
		n = MaxPool
	}

	base := make([]int, n)
	pending := 0
	for i := range base {
		base[i] = draw()
		if base[i] == ExplodeFace {
			pending++
		}
	}

	var exploded []int
	budget := MaxExplosions
	for pending > 0 && budget > 0 {
		next := 0
		for i := 0; i < pending && budget > 0; i++ {
			die := draw()
			exploded = append(exploded, die)
			budget--
			if die == ExplodeFace {
				next++
			}
		}
		pending = next
	}

	outcome := RollOutcome{Base: base, Exploded: exploded}
	outcome.All = append(append([]int{}, base...), exploded...)
	outcome.Successes = countSuccesses(outcome.All)
	return outcome
}

// Reroll redraws the dice at the given indices into the combined
// base+exploded sequence, skipping any index whose die already succeeds.
// Rerolled dice do not explode. The input outcome is left untouched.
func Reroll(r *rng.RNG, outcome RollOutcome, indices []int) RollOutcome {
	all := append([]int{}, outcome.All...)
	for _, idx := range indices {
		if idx < 0 || idx >= len(all) {
			continue
		}
		if all[idx] >= SuccessFace {
			continue
		}
		all[idx] = r.RollD10()
	}

	result := RollOutcome{All: all, Successes: countSuccesses(all)}
	result.Base = append([]int{}, all[:len(outcome.Base)]...)
	result.Exploded = append([]int{}, all[len(outcome.Base):]...)
	if len(result.Exploded) == 0 {
		result.Exploded = nil
	}
	return result
}

// ApplyGoldenDice adds one flat success per consumed golden die. It never
// rolls; a negative count adds nothing.
func ApplyGoldenDice(successes, goldenDice int) int {
	if goldenDice < 0 {
		return successes
	}
	return successes + goldenDice
}

func countSuccesses(dice []int) int {
	count := 0
	for _, die := range dice {
		if die >= SuccessFace {
			count++
		}
	}
	return count
}
