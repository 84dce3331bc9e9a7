// Package presenter turns game results into chat text. All wording comes from
// the message catalog; this package only maps results onto template data.
package presenter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/emoji-movie-bot-go/internal/domain"
	"github.com/kapu/emoji-movie-bot-go/internal/game"
	"github.com/kapu/emoji-movie-bot-go/internal/msgcat"
	"github.com/kapu/emoji-movie-bot-go/internal/obslog"
	"github.com/kapu/emoji-movie-bot-go/internal/util"
	"github.com/kapu/emoji-movie-bot-go/pkg/quizdto"
)

var categoryEmoji = map[domain.Category]string{
	domain.CategoryHollywood: "🎥",
	domain.CategoryBollywood: "💃",
	domain.CategoryTollywood: "🌶️",
	domain.CategoryAnime:     "🗾",
	domain.CategoryClassic:   "🎞️",
}

var difficultyEmoji = map[domain.Difficulty]string{
	domain.DifficultyEasy:   "🟢",
	domain.DifficultyMedium: "🟡",
	domain.DifficultyHard:   "🔴",
}

var medals = []string{"🥇", "🥈", "🥉"}

type Formatter struct {
	cat *msgcat.Catalog
}

func NewFormatter(cat *msgcat.Catalog) *Formatter {
	return &Formatter{cat: cat}
}

func (f *Formatter) RoundStart(res *game.StartResult) string {
	return f.render("round.start", map[string]any{
		"Emojis":          res.Round.Emojis,
		"Category":        string(res.Round.Category),
		"CategoryEmoji":   categoryEmoji[res.Round.Category],
		"Difficulty":      string(res.Round.Difficulty),
		"DifficultyEmoji": difficultyEmoji[res.Round.Difficulty],
		"TimeLimit":       formatDuration(res.TimeLimit),
	})
}

func (f *Formatter) Guess(res *game.GuessResult) string {
	switch res.Outcome {
	case game.OutcomeWon:
		v := res.Victory
		return f.render("guess.win", map[string]any{
			"WinnerName":      v.WinnerName,
			"Answer":          v.Answer,
			"Emojis":          v.Emojis,
			"Difficulty":      string(v.Difficulty),
			"DifficultyEmoji": difficultyEmoji[v.Difficulty],
			"Elapsed":         formatDuration(v.Elapsed),
			"Points":          v.Points,
			"SpeedBonus":      v.SpeedBonus,
		})
	case game.OutcomeClose:
		return f.render("guess.close", nil)
	default:
		return f.render("guess.miss."+strconv.Itoa(res.MissVariant), nil)
	}
}

func (f *Formatter) Hint(res *game.HintResult) string {
	return f.render("hint.text", map[string]any{
		"Hint":     res.Hint,
		"Position": res.Position,
		"Total":    res.Total,
	})
}

func (f *Formatter) RoundEnd(res *game.EndResult) string {
	key := "round.ended"
	if res.Round.Status == domain.RoundTimedOut {
		key = "round.timeout"
	}
	return f.render(key, map[string]any{
		"Answer": res.Round.Answer,
		"Emojis": res.Round.Emojis,
	})
}

// Leaderboard renders the ranked rows collapsed behind a KakaoTalk
// "see more" header.
func (f *Formatter) Leaderboard(entries []quizdto.LeaderboardEntry) string {
	if len(entries) == 0 {
		return f.render("leaderboard.empty", nil)
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, f.render("leaderboard.row", map[string]any{
			"Medal": medal(e.Rank),
			"Name":  e.Name,
			"Score": e.Score,
			"Wins":  e.Wins,
		}))
	}
	header := f.render("leaderboard.header", nil)
	return util.ApplyKakaoSeeMorePadding(strings.Join(lines, "\n"), header)
}

func (f *Formatter) Stats(st *quizdto.PlayerStats) string {
	if st == nil {
		return f.render("stats.unknown", nil)
	}
	return f.render("stats.body", map[string]any{
		"Name":           st.Name,
		"Rank":           st.Rank,
		"Score":          st.Score,
		"GamesPlayed":    st.GamesPlayed,
		"GamesWon":       st.GamesWon,
		"WinRate":        strconv.FormatFloat(st.WinRate, 'f', -1, 64),
		"CorrectGuesses": st.CorrectGuesses,
		"HintsUsed":      st.HintsUsed,
	})
}

func (f *Formatter) Help() string {
	header := f.render("help.header", nil)
	body := util.StripLeadingHeader(f.render("help.body", nil), header)
	return util.ApplyKakaoSeeMorePadding(body, header)
}

func (f *Formatter) RateLimited() string { return f.render("errors.rate_limited", nil) }

func (f *Formatter) AdminOnly() string { return f.render("errors.admin_only", nil) }

// Error maps a game error onto its catalog message. Unknown errors collapse
// into the generic message so internals never leak into the chat.
func (f *Formatter) Error(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, game.ErrRoundActive):
		return f.render("round.already_active", nil)
	case errors.Is(err, game.ErrNoActiveRound):
		return f.render("round.not_active", nil)
	case errors.Is(err, game.ErrNoPuzzleAvailable):
		return f.render("round.none_available", nil)
	case errors.Is(err, game.ErrHintLimitReached):
		return f.render("hint.limit", nil)
	case errors.Is(err, game.ErrNoMoreHints):
		return f.render("hint.exhausted", nil)
	default:
		return f.render("errors.generic", nil)
	}
}

func (f *Formatter) render(key string, data any) string {
	text, err := f.cat.Render(key, data)
	if err != nil {
		obslog.L().Error("message_render_failed", zap.String("key", key), zap.Error(err))
		return "⚠️"
	}
	return text
}

func medal(rank int) string {
	if rank >= 1 && rank <= len(medals) {
		return medals[rank-1]
	}
	return fmt.Sprintf("%d.", rank)
}

// formatDuration prints durations the way people read them in chat: "45s",
// "1m 20s", "1h 02m".
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) - m*60
		if s == 0 {
			return fmt.Sprintf("%dm", m)
		}
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) - h*60
	return fmt.Sprintf("%dh %02dm", h, m)
}
