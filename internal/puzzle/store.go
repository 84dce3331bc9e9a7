// Package puzzle owns the puzzle corpus: storage, fair random selection, and
// the per-chat anti-repetition window.
package puzzle

import (
	"context"
	"errors"

	"github.com/kapu/emoji-movie-bot-go/internal/domain"
)

// ErrNoPuzzle is returned by Draw when no puzzle satisfies the filter.
var ErrNoPuzzle = errors.New("no puzzle available for the requested filters")

// Filter narrows a draw. Zero values mean "any". ExcludeIDs is the caller's
// recent-puzzle window, a sliding set of ids to skip, not a permanent ban.
type Filter struct {
	Category   domain.Category
	Difficulty domain.Difficulty
	ExcludeIDs []string
}

// Store is the puzzle corpus. Draw must bias toward least-presented puzzles
// and must increment times_presented as part of the same operation, so that
// concurrent draws across chats do not pile onto the same low-usage puzzle.
type Store interface {
	Draw(ctx context.Context, f Filter) (*domain.Puzzle, error)
	GetByID(ctx context.Context, id string) (*domain.Puzzle, error)
	MarkSolved(ctx context.Context, id string) error
	Insert(ctx context.Context, p *domain.Puzzle) error
	Count(ctx context.Context) (int, error)
}
