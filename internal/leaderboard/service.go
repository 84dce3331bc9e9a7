// Package leaderboard aggregates player counters into ranked standings and
// per-player stat summaries. It is a read-side view over the player
// repository; all counter writes happen in the game manager.
package leaderboard

import (
	"context"
	"fmt"
	"math"

	"github.com/kapu/emoji-movie-bot-go/internal/player"
	"github.com/kapu/emoji-movie-bot-go/pkg/quizdto"
)

const defaultTopSize = 10

type Service struct {
	players player.Repository
}

func NewService(players player.Repository) *Service {
	return &Service{players: players}
}

// Top returns the highest-scoring players. Ties break by wins, then by user
// id so the ordering is stable across calls.
func (s *Service) Top(ctx context.Context, limit int) ([]quizdto.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultTopSize
	}
	players, err := s.players.Top(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	entries := make([]quizdto.LeaderboardEntry, 0, len(players))
	for i, p := range players {
		entries = append(entries, quizdto.LeaderboardEntry{
			Rank:  i + 1,
			Name:  p.DisplayName(),
			Score: p.Score,
			Wins:  p.GamesWon,
		})
	}
	return entries, nil
}

// Stats returns the player's summary, or nil when the player has never
// participated.
func (s *Service) Stats(ctx context.Context, userID string) (*quizdto.PlayerStats, error) {
	p, err := s.players.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load player: %w", err)
	}
	if p == nil {
		return nil, nil
	}
	rank, err := s.players.Rank(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("rank player: %w", err)
	}

	winRate := 0.0
	avgScore := 0.0
	if p.GamesPlayed > 0 {
		winRate = roundOne(float64(p.GamesWon) / float64(p.GamesPlayed) * 100)
		avgScore = roundOne(float64(p.Score) / float64(p.GamesPlayed))
	}
	return &quizdto.PlayerStats{
		Name:           p.DisplayName(),
		Rank:           rank,
		Score:          p.Score,
		GamesPlayed:    p.GamesPlayed,
		GamesWon:       p.GamesWon,
		WinRate:        winRate,
		CorrectGuesses: p.CorrectGuesses,
		HintsUsed:      p.HintsUsed,
		AverageScore:   avgScore,
	}, nil
}

func roundOne(v float64) float64 {
	return math.Round(v*10) / 10
}
