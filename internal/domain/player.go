package domain

import "time"

// Player holds cumulative per-user stats. Score and counters only ever grow;
// updates go through StatsDelta so the storage layer can apply them as atomic
// increments.
type Player struct {
	UserID         string
	Username       string
	FirstName      string
	LastName       string
	Score          int
	GamesPlayed    int
	GamesWon       int
	CorrectGuesses int
	HintsUsed      int
	JoinedAt       time.Time
	LastActiveAt   time.Time
}

// DisplayName returns the best available label for the player.
func (p *Player) DisplayName() string {
	if p.Username != "" {
		return p.Username
	}
	if p.FirstName != "" {
		return p.FirstName
	}
	return "Anonymous"
}

// StatsDelta is a set of additive stat increments applied in one storage
// operation.
type StatsDelta struct {
	Score          int
	GamesPlayed    int
	GamesWon       int
	CorrectGuesses int
	HintsUsed      int
}

// IsZero reports whether the delta would change nothing.
func (d StatsDelta) IsZero() bool {
	return d == StatsDelta{}
}
