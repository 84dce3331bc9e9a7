package domain

import "time"

// RoundStatus represents the lifecycle state of a guessing round.
type RoundStatus string

const (
	RoundActive   RoundStatus = "ACTIVE"
	RoundWon      RoundStatus = "WON"
	RoundTimedOut RoundStatus = "TIMED_OUT"
	RoundEnded    RoundStatus = "MANUALLY_ENDED"
)

// Terminal reports whether the status admits no further transitions.
func (s RoundStatus) Terminal() bool {
	return s == RoundWon || s == RoundTimedOut || s == RoundEnded
}

// EndReason selects the terminal state for a round that was not won.
type EndReason string

const (
	EndManual  EndReason = "manual"
	EndTimeout EndReason = "timeout"
)

// Round is the persisted state of one puzzle-guessing contest in a chat.
// The answer is denormalized onto the round so guess arbitration does not
// need a puzzle lookup on every message.
type Round struct {
	ID            string      `json:"id"`
	ChatID        string      `json:"chat_id"`
	PuzzleID      string      `json:"puzzle_id"`
	Emojis        string      `json:"emojis"`
	Answer        string      `json:"answer"`
	Category      Category    `json:"category"`
	Difficulty    Difficulty  `json:"difficulty"`
	Status        RoundStatus `json:"status"`
	StartedAt     time.Time   `json:"started_at"`
	EndedAt       time.Time   `json:"ended_at,omitempty"`
	WinnerID      string      `json:"winner_id,omitempty"`
	WinnerName    string      `json:"winner_name,omitempty"`
	HintsRevealed int         `json:"hints_revealed"`
	Participants  []string    `json:"participants,omitempty"`
}

// HasParticipant reports whether the user has already guessed in this round.
func (r *Round) HasParticipant(userID string) bool {
	for _, p := range r.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// Guess is one entry of a round's append-only guess log.
type Guess struct {
	UserID string    `json:"user_id"`
	Text   string    `json:"text"`
	At     time.Time `json:"at"`
}
