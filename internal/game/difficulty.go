package game

// Difficulty selects a starting-resource profile.
type Difficulty string

const (
	DifficultyStory     Difficulty = "story"
	DifficultyStandard  Difficulty = "standard"
	DifficultyNightmare Difficulty = "nightmare"
)

// Profile is the starting-resource bundle of one difficulty.
type Profile struct {
	ExecutionDays int
	StartingGold  int
	Reputation    int
	GoldenDice    int
	RewindCharges int
}

var profiles = map[Difficulty]Profile{
	DifficultyStory:     {ExecutionDays: 12, StartingGold: 150, Reputation: 50, GoldenDice: 3, RewindCharges: 1},
	DifficultyStandard:  {ExecutionDays: 9, StartingGold: 100, Reputation: 50, GoldenDice: 2, RewindCharges: 1},
	DifficultyNightmare: {ExecutionDays: 5, StartingGold: 60, Reputation: 50, GoldenDice: 1, RewindCharges: 1},
}

// ProfileFor returns the profile for a difficulty, or false for an
// unknown one.
func ProfileFor(d Difficulty) (Profile, bool) {
	p, ok := profiles[d]
	return p, ok
}
