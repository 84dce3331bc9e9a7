// Package quizdto carries the flat view structs handed to message templates
// and transports. No business logic lives here.
package quizdto

import "time"

// RoundView describes a freshly started round for presentation.
type RoundView struct {
	Emojis     string
	Category   string
	Difficulty string
	TimeLimit  time.Duration
}

// VictoryView describes a won round for presentation.
type VictoryView struct {
	WinnerName string
	Answer     string
	Emojis     string
	Category   string
	Difficulty string
	Elapsed    time.Duration
	Points     int
	SpeedBonus bool
}

// EndView describes a round that ended without a winner.
type EndView struct {
	Answer   string
	Emojis   string
	TimedOut bool
}

// HintView is one revealed hint with its position in the sequence.
type HintView struct {
	Hint     string
	Position int
	Total    int
}

// LeaderboardEntry is one ranked row of the leaderboard.
type LeaderboardEntry struct {
	Rank  int
	Name  string
	Score int
	Wins  int
}

// PlayerStats is the per-player summary shown by the stats command.
type PlayerStats struct {
	Name           string
	Rank           int
	Score          int
	GamesPlayed    int
	GamesWon       int
	WinRate        float64 // percentage, 0..100
	CorrectGuesses int
	HintsUsed      int
	AverageScore   float64 // score per game played
}
