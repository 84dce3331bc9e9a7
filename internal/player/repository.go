// Package player stores cumulative per-user aggregates and serves the
// leaderboard queries.
package player

import (
	"context"

	"github.com/kapu/emoji-movie-bot-go/internal/domain"
)

// Identity carries the display fields captured from the chat platform.
type Identity struct {
	UserID    string
	Username  string
	FirstName string
	LastName  string
}

// Repository is the player aggregate store. ApplyDelta must be an atomic
// increment at the storage layer, never read-modify-write in application
// code, so concurrent round finishes cannot lose updates.
type Repository interface {
	Ensure(ctx context.Context, id Identity) (*domain.Player, error)
	ApplyDelta(ctx context.Context, userID string, d domain.StatsDelta) error
	Get(ctx context.Context, userID string) (*domain.Player, error)
	Top(ctx context.Context, limit int) ([]*domain.Player, error)
	Rank(ctx context.Context, userID string) (int, error)
}
