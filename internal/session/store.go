// Package session is the durable record of puzzle rounds. Pure persistence:
// rounds, their append-only guess logs, the per-chat active-round pointer,
// and the per-chat recent-puzzle window live in Redis. Business rules stay in
// the game manager.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kapu/emoji-movie-bot-go/internal/domain"
)

const ttlRound = 7 * 24 * time.Hour

// RoundUpdate is a partial-field update. Nil fields are left untouched.
type RoundUpdate struct {
	Status         *domain.RoundStatus
	EndedAt        *time.Time
	WinnerID       *string
	WinnerName     *string
	HintsRevealed  *int
	AddParticipant string
}

type Store struct {
	rdb         *redis.Client
	recentLimit int
}

// NewStore wraps a Redis client. recentLimit bounds the per-chat
// recent-puzzle window; older entries fall off.
func NewStore(rdb *redis.Client, recentLimit int) *Store {
	if recentLimit <= 0 {
		recentLimit = 100
	}
	return &Store{rdb: rdb, recentLimit: recentLimit}
}

func (s *Store) keyRound(id string) string    { return "quiz:round:" + strings.TrimSpace(id) }
func (s *Store) keyGuesses(id string) string  { return s.keyRound(id) + ":guesses" }
func (s *Store) keyActive(chat string) string { return "quiz:active:" + strings.TrimSpace(chat) }
func (s *Store) keyRecent(chat string) string { return "quiz:recent:" + strings.TrimSpace(chat) }

// Create persists a new round and, when it is ACTIVE, points the chat's
// active-round key at it.
func (s *Store) Create(ctx context.Context, r *domain.Round) error {
	if r == nil || strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("round requires an id")
	}
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal round: %w", err)
	}
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, s.keyRound(r.ID), raw, ttlRound)
	if r.Status == domain.RoundActive {
		pipe.Set(ctx, s.keyActive(r.ChatID), r.ID, ttlRound)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("create round: %w", err)
	}
	return nil
}

// Update applies a partial update under WATCH so concurrent writers cannot
// clobber each other. A transition into a terminal status also drops the
// chat's active-round pointer in the same transaction.
func (s *Store) Update(ctx context.Context, roundID string, upd RoundUpdate) error {
	key := s.keyRound(roundID)
	err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return fmt.Errorf("round not found: %s", roundID)
		}
		if err != nil {
			return err
		}
		var r domain.Round
		if err := json.Unmarshal(raw, &r); err != nil {
			return err
		}

		if upd.Status != nil {
			r.Status = *upd.Status
		}
		if upd.EndedAt != nil {
			r.EndedAt = *upd.EndedAt
		}
		if upd.WinnerID != nil {
			r.WinnerID = *upd.WinnerID
		}
		if upd.WinnerName != nil {
			r.WinnerName = *upd.WinnerName
		}
		if upd.HintsRevealed != nil {
			r.HintsRevealed = *upd.HintsRevealed
		}
		if upd.AddParticipant != "" && !r.HasParticipant(upd.AddParticipant) {
			r.Participants = append(r.Participants, upd.AddParticipant)
		}

		newRaw, err := json.Marshal(&r)
		if err != nil {
			return err
		}
		pipe := tx.TxPipeline()
		pipe.Set(ctx, key, newRaw, ttlRound)
		if r.Status.Terminal() {
			pipe.Del(ctx, s.keyActive(r.ChatID))
		}
		_, pErr := pipe.Exec(ctx)
		return pErr
	}, key)
	if err != nil {
		return fmt.Errorf("update round %s: %w", roundID, err)
	}
	return nil
}

// AppendGuess records one guess in the round's log.
func (s *Store) AppendGuess(ctx context.Context, roundID string, g domain.Guess) error {
	raw, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("marshal guess: %w", err)
	}
	key := s.keyGuesses(roundID)
	pipe := s.rdb.TxPipeline()
	pipe.RPush(ctx, key, raw)
	pipe.Expire(ctx, key, ttlRound)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append guess: %w", err)
	}
	return nil
}

// Guesses returns the round's guess log in arrival order.
func (s *Store) Guesses(ctx context.Context, roundID string) ([]domain.Guess, error) {
	raws, err := s.rdb.LRange(ctx, s.keyGuesses(roundID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load guesses: %w", err)
	}
	out := make([]domain.Guess, 0, len(raws))
	for _, raw := range raws {
		var g domain.Guess
		if err := json.Unmarshal([]byte(raw), &g); err != nil {
			return nil, fmt.Errorf("decode guess: %w", err)
		}
		out = append(out, g)
	}
	return out, nil
}

// GetByID loads a round, or nil when it does not exist.
func (s *Store) GetByID(ctx context.Context, roundID string) (*domain.Round, error) {
	raw, err := s.rdb.Get(ctx, s.keyRound(roundID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load round: %w", err)
	}
	var r domain.Round
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode round: %w", err)
	}
	return &r, nil
}

// FindActive returns the chat's ACTIVE round, or nil when there is none.
func (s *Store) FindActive(ctx context.Context, chatID string) (*domain.Round, error) {
	id, err := s.rdb.Get(ctx, s.keyActive(chatID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load active pointer: %w", err)
	}
	r, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil || r.Status != domain.RoundActive {
		return nil, nil
	}
	return r, nil
}

// PushRecent prepends a puzzle id to the chat's anti-repetition window and
// trims the window to its bound, dropping the oldest entries.
func (s *Store) PushRecent(ctx context.Context, chatID, puzzleID string) error {
	key := s.keyRecent(chatID)
	pipe := s.rdb.TxPipeline()
	pipe.LPush(ctx, key, puzzleID)
	pipe.LTrim(ctx, key, 0, int64(s.recentLimit-1))
	pipe.Expire(ctx, key, ttlRound)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("push recent puzzle: %w", err)
	}
	return nil
}

// Recent returns the chat's recent-puzzle window, newest first.
func (s *Store) Recent(ctx context.Context, chatID string) ([]string, error) {
	ids, err := s.rdb.LRange(ctx, s.keyRecent(chatID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load recent puzzles: %w", err)
	}
	return ids, nil
}
