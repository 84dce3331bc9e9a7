package dispatch

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/emoji-movie-bot-go/internal/obslog"
)

// AdminOnly drops commands from anyone but the owner, replying with denied.
func AdminOnly(ownerID, denied string) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, cmd Command, reply Responder) error {
			if cmd.Msg.UserID != ownerID {
				return reply(ctx, cmd.Msg.ChatID, denied)
			}
			return next(ctx, cmd, reply)
		}
	}
}

// RateLimit allows at most max commands per user inside the window. Excess
// commands get the limited reply; only the first rejection in a window is
// answered so the bot does not spam back.
func RateLimit(max int, window time.Duration, limited string) Middleware {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	var mu sync.Mutex
	hits := make(map[string][]time.Time)
	warned := make(map[string]time.Time)

	return func(next Handler) Handler {
		return func(ctx context.Context, cmd Command, reply Responder) error {
			now := time.Now()
			userID := cmd.Msg.UserID

			mu.Lock()
			recent := hits[userID][:0]
			for _, t := range hits[userID] {
				if now.Sub(t) < window {
					recent = append(recent, t)
				}
			}
			if len(recent) >= max {
				hits[userID] = recent
				warn := now.Sub(warned[userID]) >= window
				if warn {
					warned[userID] = now
				}
				mu.Unlock()
				if warn {
					return reply(ctx, cmd.Msg.ChatID, limited)
				}
				return nil
			}
			hits[userID] = append(recent, now)
			mu.Unlock()

			return next(ctx, cmd, reply)
		}
	}
}

// LogUsage records every executed command with its latency.
func LogUsage() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, cmd Command, reply Responder) error {
			start := time.Now()
			err := next(ctx, cmd, reply)
			obslog.L().Info("command",
				zap.String("command", cmd.Name),
				zap.String("chat_id", cmd.Msg.ChatID),
				zap.String("user_id", cmd.Msg.UserID),
				zap.Int("args", len(cmd.Args)),
				zap.Duration("took", time.Since(start)),
				zap.Error(err),
			)
			return err
		}
	}
}
