package puzzle

import (
	"context"
	"errors"
	"testing"

	"github.com/kapu/emoji-movie-bot-go/internal/domain"
)

func seedStore(t *testing.T) Store {
	t.Helper()
	s := NewMemoryStore()
	ctx := context.Background()
	seed := []*domain.Puzzle{
		{ID: "h1", Emojis: "🚢💔🧊", Answer: "Titanic", Category: domain.CategoryHollywood, Difficulty: domain.DifficultyEasy},
		{ID: "h2", Emojis: "🦁👑", Answer: "The Lion King", Category: domain.CategoryHollywood, Difficulty: domain.DifficultyEasy},
		{ID: "h3", Emojis: "🕷️🧑", Answer: "Spider-Man", Category: domain.CategoryHollywood, Difficulty: domain.DifficultyMedium},
		{ID: "a1", Emojis: "👻🍜", Answer: "Spirited Away", Category: domain.CategoryAnime, Difficulty: domain.DifficultyHard},
	}
	for _, p := range seed {
		if err := s.Insert(ctx, p); err != nil {
			t.Fatalf("insert %s: %v", p.ID, err)
		}
	}
	return s
}

func TestDrawFilters(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	p, err := s.Draw(ctx, Filter{Category: domain.CategoryAnime})
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if p.ID != "a1" {
		t.Fatalf("category filter: got %s", p.ID)
	}

	p, err = s.Draw(ctx, Filter{Difficulty: domain.DifficultyMedium})
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if p.ID != "h3" {
		t.Fatalf("difficulty filter: got %s", p.ID)
	}

	if _, err := s.Draw(ctx, Filter{Category: domain.CategoryBollywood}); !errors.Is(err, ErrNoPuzzle) {
		t.Fatalf("empty category: got %v, want ErrNoPuzzle", err)
	}
}

func TestDrawExcludes(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	p, err := s.Draw(ctx, Filter{
		Category:   domain.CategoryHollywood,
		Difficulty: domain.DifficultyEasy,
		ExcludeIDs: []string{"h1"},
	})
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if p.ID != "h2" {
		t.Fatalf("exclusion ignored: got %s", p.ID)
	}

	_, err = s.Draw(ctx, Filter{
		Category:   domain.CategoryHollywood,
		Difficulty: domain.DifficultyEasy,
		ExcludeIDs: []string{"h1", "h2"},
	})
	if !errors.Is(err, ErrNoPuzzle) {
		t.Fatalf("all excluded: got %v, want ErrNoPuzzle", err)
	}
}

func TestDrawPrefersLeastPresented(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	// Two easy hollywood puzzles: after two draws each has been presented
	// once, because the second draw must pick the untouched one.
	first, err := s.Draw(ctx, Filter{Category: domain.CategoryHollywood, Difficulty: domain.DifficultyEasy})
	if err != nil {
		t.Fatalf("first draw: %v", err)
	}
	second, err := s.Draw(ctx, Filter{Category: domain.CategoryHollywood, Difficulty: domain.DifficultyEasy})
	if err != nil {
		t.Fatalf("second draw: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("least-presented bias broken: drew %s twice", first.ID)
	}
	for _, id := range []string{"h1", "h2"} {
		p, err := s.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("get %s: %v", id, err)
		}
		if p.TimesPresented != 1 {
			t.Fatalf("%s times_presented: got %d, want 1", id, p.TimesPresented)
		}
	}
}

func TestMarkSolvedAndCount(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	if err := s.MarkSolved(ctx, "h1"); err != nil {
		t.Fatalf("mark solved: %v", err)
	}
	p, err := s.GetByID(ctx, "h1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.TimesSolved != 1 {
		t.Fatalf("times_solved: got %d, want 1", p.TimesSolved)
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 4 {
		t.Fatalf("count: got %d, want 4", n)
	}

	// Duplicate inserts are idempotent.
	if err := s.Insert(ctx, &domain.Puzzle{ID: "h1", Emojis: "x", Answer: "x"}); err != nil {
		t.Fatalf("duplicate insert: %v", err)
	}
	if n, _ := s.Count(ctx); n != 4 {
		t.Fatalf("count after duplicate: got %d, want 4", n)
	}
}

func TestGetByIDMissing(t *testing.T) {
	s := seedStore(t)
	p, err := s.GetByID(context.Background(), "nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p != nil {
		t.Fatalf("missing puzzle: got %+v", p)
	}
}
