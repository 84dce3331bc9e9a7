package presenter

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kapu/emoji-movie-bot-go/internal/domain"
	"github.com/kapu/emoji-movie-bot-go/internal/game"
	"github.com/kapu/emoji-movie-bot-go/internal/msgcat"
	"github.com/kapu/emoji-movie-bot-go/pkg/quizdto"
)

func newFormatter(t *testing.T) *Formatter {
	t.Helper()
	cat, err := msgcat.New("")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return NewFormatter(cat)
}

func TestRoundStart(t *testing.T) {
	f := newFormatter(t)
	out := f.RoundStart(&game.StartResult{
		Round: &domain.Round{
			Emojis:     "🚢💔🧊",
			Category:   domain.CategoryHollywood,
			Difficulty: domain.DifficultyEasy,
		},
		TimeLimit: 60 * time.Second,
	})
	for _, want := range []string{"🚢💔🧊", "easy", "hollywood", "1m"} {
		if !strings.Contains(out, want) {
			t.Fatalf("round start missing %q:\n%s", want, out)
		}
	}
}

func TestGuessWin(t *testing.T) {
	f := newFormatter(t)
	out := f.Guess(&game.GuessResult{
		Outcome: game.OutcomeWon,
		Victory: &game.VictorySummary{
			WinnerName: "alice",
			Answer:     "Titanic",
			Emojis:     "🚢💔🧊",
			Difficulty: domain.DifficultyEasy,
			Elapsed:    12 * time.Second,
			Points:     15,
			SpeedBonus: true,
		},
	})
	for _, want := range []string{"alice", "Titanic", "+15", "speed bonus"} {
		if !strings.Contains(out, want) {
			t.Fatalf("win message missing %q:\n%s", want, out)
		}
	}

	noBonus := f.Guess(&game.GuessResult{
		Outcome: game.OutcomeWon,
		Victory: &game.VictorySummary{
			WinnerName: "bob", Answer: "Titanic", Emojis: "🚢💔🧊",
			Difficulty: domain.DifficultyEasy, Elapsed: 45 * time.Second, Points: 10,
		},
	})
	if strings.Contains(noBonus, "speed bonus") {
		t.Fatalf("slow win must not mention the bonus:\n%s", noBonus)
	}
}

func TestGuessMissVariants(t *testing.T) {
	f := newFormatter(t)
	seen := map[string]bool{}
	for v := 0; v < 3; v++ {
		out := f.Guess(&game.GuessResult{Outcome: game.OutcomeMiss, MissVariant: v})
		if out == "" || out == "⚠️" {
			t.Fatalf("miss variant %d did not render: %q", v, out)
		}
		seen[out] = true
	}
	if len(seen) != 3 {
		t.Fatalf("miss variants not distinct: %v", seen)
	}
}

func TestRoundEndKeys(t *testing.T) {
	f := newFormatter(t)
	timeout := f.RoundEnd(&game.EndResult{Round: &domain.Round{
		Status: domain.RoundTimedOut, Answer: "Titanic", Emojis: "🚢💔🧊",
	}})
	if !strings.Contains(timeout, "Time's up") {
		t.Fatalf("timeout message: %s", timeout)
	}
	manual := f.RoundEnd(&game.EndResult{Round: &domain.Round{
		Status: domain.RoundEnded, Answer: "Titanic", Emojis: "🚢💔🧊",
	}})
	if !strings.Contains(manual, "Round ended") {
		t.Fatalf("manual end message: %s", manual)
	}
}

func TestLeaderboardMedals(t *testing.T) {
	f := newFormatter(t)
	out := f.Leaderboard([]quizdto.LeaderboardEntry{
		{Rank: 1, Name: "alice", Score: 80, Wins: 4},
		{Rank: 2, Name: "bob", Score: 50, Wins: 3},
		{Rank: 3, Name: "carol", Score: 20, Wins: 1},
		{Rank: 4, Name: "dave", Score: 10, Wins: 1},
	})
	for _, want := range []string{"🥇 alice", "🥈 bob", "🥉 carol", "4. dave"} {
		if !strings.Contains(out, want) {
			t.Fatalf("leaderboard missing %q:\n%s", want, out)
		}
	}

	if out := f.Leaderboard(nil); !strings.Contains(out, "Nobody on the board") {
		t.Fatalf("empty leaderboard: %s", out)
	}
}

func TestErrorMapping(t *testing.T) {
	f := newFormatter(t)
	cases := []struct {
		err  error
		want string
	}{
		{game.ErrRoundActive, "already running"},
		{game.ErrNoActiveRound, "No puzzle is running"},
		{game.ErrNoPuzzleAvailable, "No puzzle matches"},
		{game.ErrHintLimitReached, "Hint limit"},
		{game.ErrNoMoreHints, "every hint"},
		{errors.New("boom"), "Something went wrong"},
	}
	for _, tc := range cases {
		out := f.Error(tc.err)
		if !strings.Contains(out, tc.want) {
			t.Fatalf("Error(%v) = %q, want substring %q", tc.err, out, tc.want)
		}
	}
	if f.Error(nil) != "" {
		t.Fatal("nil error must render empty")
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{45 * time.Second, "45s"},
		{60 * time.Second, "1m"},
		{80 * time.Second, "1m 20s"},
		{62 * time.Minute, "1h 02m"},
	}
	for _, tc := range cases {
		if got := formatDuration(tc.d); got != tc.want {
			t.Fatalf("formatDuration(%s) = %q, want %q", tc.d, got, tc.want)
		}
	}
}
