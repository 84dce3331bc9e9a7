package game

import "errors"

var (
	ErrRoundActive       = errors.New("a round is already active in this chat")
	ErrNoActiveRound     = errors.New("no active round in this chat")
	ErrNoPuzzleAvailable = errors.New("no puzzle available for the requested filters")
	ErrHintLimitReached  = errors.New("hint limit reached for this round")
	ErrNoMoreHints       = errors.New("no more hints for this puzzle")
	ErrInvalidInput      = errors.New("invalid input")

	// ErrStorage wraps persistence failures. The operation that hit it did not
	// change in-memory state: the round stays ACTIVE and can be retried.
	ErrStorage = errors.New("storage unavailable")
)
