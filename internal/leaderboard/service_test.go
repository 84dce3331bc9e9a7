package leaderboard

import (
	"context"
	"testing"

	"github.com/kapu/emoji-movie-bot-go/internal/domain"
	"github.com/kapu/emoji-movie-bot-go/internal/player"
)

func seedPlayers(t *testing.T) player.Repository {
	t.Helper()
	repo := player.NewMemoryRepository()
	ctx := context.Background()
	seed := []struct {
		id    string
		name  string
		delta domain.StatsDelta
	}{
		{"u1", "alice", domain.StatsDelta{Score: 50, GamesPlayed: 4, GamesWon: 3, CorrectGuesses: 3}},
		{"u2", "bob", domain.StatsDelta{Score: 80, GamesPlayed: 5, GamesWon: 4, CorrectGuesses: 4, HintsUsed: 2}},
		{"u3", "carol", domain.StatsDelta{Score: 20, GamesPlayed: 2, GamesWon: 1, CorrectGuesses: 1}},
	}
	for _, s := range seed {
		if _, err := repo.Ensure(ctx, player.Identity{UserID: s.id, Username: s.name}); err != nil {
			t.Fatalf("ensure %s: %v", s.id, err)
		}
		if err := repo.ApplyDelta(ctx, s.id, s.delta); err != nil {
			t.Fatalf("delta %s: %v", s.id, err)
		}
	}
	return repo
}

func TestTopOrdersByScore(t *testing.T) {
	svc := NewService(seedPlayers(t))
	entries, err := svc.Top(context.Background(), 2)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len: got %d, want 2", len(entries))
	}
	if entries[0].Name != "bob" || entries[0].Rank != 1 || entries[0].Score != 80 {
		t.Fatalf("first entry: %+v", entries[0])
	}
	if entries[1].Name != "alice" || entries[1].Rank != 2 {
		t.Fatalf("second entry: %+v", entries[1])
	}
}

func TestTopEmpty(t *testing.T) {
	svc := NewService(player.NewMemoryRepository())
	entries, err := svc.Top(context.Background(), 0)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("len: got %d, want 0", len(entries))
	}
}

func TestStats(t *testing.T) {
	svc := NewService(seedPlayers(t))
	ctx := context.Background()

	st, err := svc.Stats(ctx, "u1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st == nil {
		t.Fatal("stats: got nil for known player")
	}
	if st.Rank != 2 {
		t.Fatalf("rank: got %d, want 2", st.Rank)
	}
	if st.WinRate != 75.0 {
		t.Fatalf("win rate: got %v, want 75.0", st.WinRate)
	}
	if st.AverageScore != 12.5 {
		t.Fatalf("average score: got %v, want 12.5", st.AverageScore)
	}

	st, err = svc.Stats(ctx, "nobody")
	if err != nil {
		t.Fatalf("unknown stats: %v", err)
	}
	if st != nil {
		t.Fatalf("unknown player: got %+v, want nil", st)
	}
}
