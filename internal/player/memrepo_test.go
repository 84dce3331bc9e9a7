package player

import (
	"context"
	"testing"

	"github.com/kapu/emoji-movie-bot-go/internal/domain"
)

func TestEnsureCreatesAndUpdates(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	p, err := repo.Ensure(ctx, Identity{UserID: "u1", Username: "alice"})
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if p.Username != "alice" || p.JoinedAt.IsZero() {
		t.Fatalf("created player: %+v", p)
	}

	// A later call with new identity fields updates them; empty fields are
	// left alone.
	p, err = repo.Ensure(ctx, Identity{UserID: "u1", FirstName: "Alice"})
	if err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	if p.Username != "alice" || p.FirstName != "Alice" {
		t.Fatalf("updated player: %+v", p)
	}

	if _, err := repo.Ensure(ctx, Identity{}); err == nil {
		t.Fatal("ensure without user id must fail")
	}
}

func TestApplyDelta(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	if _, err := repo.Ensure(ctx, Identity{UserID: "u1"}); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	deltas := []domain.StatsDelta{
		{Score: 15, GamesPlayed: 1, GamesWon: 1, CorrectGuesses: 1},
		{Score: 10, GamesPlayed: 1, GamesWon: 1, CorrectGuesses: 1, HintsUsed: 2},
		{GamesPlayed: 1},
	}
	for i, d := range deltas {
		if err := repo.ApplyDelta(ctx, "u1", d); err != nil {
			t.Fatalf("delta %d: %v", i, err)
		}
	}

	p, err := repo.Get(ctx, "u1")
	if err != nil || p == nil {
		t.Fatalf("get: %+v, %v", p, err)
	}
	if p.Score != 25 || p.GamesPlayed != 3 || p.GamesWon != 2 || p.CorrectGuesses != 2 || p.HintsUsed != 2 {
		t.Fatalf("counters: %+v", p)
	}

	if err := repo.ApplyDelta(ctx, "missing", domain.StatsDelta{Score: 1}); err == nil {
		t.Fatal("delta for unknown player must fail")
	}
	// A zero delta never touches storage.
	if err := repo.ApplyDelta(ctx, "missing", domain.StatsDelta{}); err != nil {
		t.Fatalf("zero delta: %v", err)
	}
}

func TestTopAndRank(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	scores := map[string]int{"u1": 50, "u2": 80, "u3": 20}
	for id, score := range scores {
		if _, err := repo.Ensure(ctx, Identity{UserID: id}); err != nil {
			t.Fatalf("ensure %s: %v", id, err)
		}
		if err := repo.ApplyDelta(ctx, id, domain.StatsDelta{Score: score, GamesPlayed: 1}); err != nil {
			t.Fatalf("delta %s: %v", id, err)
		}
	}

	top, err := repo.Top(ctx, 2)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 2 || top[0].UserID != "u2" || top[1].UserID != "u1" {
		t.Fatalf("top order: %+v", top)
	}

	rank, err := repo.Rank(ctx, "u3")
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if rank != 3 {
		t.Fatalf("rank: got %d, want 3", rank)
	}
	if rank, _ := repo.Rank(ctx, "missing"); rank != 0 {
		t.Fatalf("unknown rank: got %d, want 0", rank)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	if _, err := repo.Ensure(ctx, Identity{UserID: "u1"}); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	p, _ := repo.Get(ctx, "u1")
	p.Score = 999

	fresh, _ := repo.Get(ctx, "u1")
	if fresh.Score != 0 {
		t.Fatalf("mutation leaked into the store: %+v", fresh)
	}
}
