package game

import (
	"time"

	"github.com/kapu/emoji-movie-bot-go/internal/domain"
)

// GuessOutcome classifies a guess relative to the thresholds.
type GuessOutcome string

const (
	OutcomeWon   GuessOutcome = "won"
	OutcomeClose GuessOutcome = "close"
	OutcomeMiss  GuessOutcome = "miss"
)

// StartResult is returned by StartRound; rendering is the presenter's job.
type StartResult struct {
	Round     *domain.Round
	TimeLimit time.Duration
}

// VictorySummary describes a won round.
type VictorySummary struct {
	WinnerID   string
	WinnerName string
	Answer     string
	Emojis     string
	Category   domain.Category
	Difficulty domain.Difficulty
	Elapsed    time.Duration
	Points     int
	SpeedBonus bool
}

// GuessResult is returned by SubmitGuess. Victory is set only when the
// outcome is OutcomeWon. MissVariant selects a presentation variant for miss
// responses; it carries no game meaning.
type GuessResult struct {
	Outcome     GuessOutcome
	Similarity  float64
	MissVariant int
	Victory     *VictorySummary
}

// HintResult carries one revealed hint and its position, e.g. "hint 2 of 4".
type HintResult struct {
	Hint     string
	Position int
	Total    int
}

// EndResult is returned by EndRound with the finalized round.
type EndResult struct {
	Round *domain.Round
}
