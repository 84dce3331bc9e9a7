// Package game owns the round lifecycle: it starts rounds, arbitrates
// guesses, dispenses hints, scores wins, and retires rounds on timeout. The
// in-memory active-round index together with the per-chat locks is the
// serialization point for all transitions of a chat's round.
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kapu/emoji-movie-bot-go/internal/domain"
	"github.com/kapu/emoji-movie-bot-go/internal/match"
	"github.com/kapu/emoji-movie-bot-go/internal/obslog"
	"github.com/kapu/emoji-movie-bot-go/internal/player"
	"github.com/kapu/emoji-movie-bot-go/internal/puzzle"
	"github.com/kapu/emoji-movie-bot-go/internal/session"
)

// missVariants is the number of interchangeable miss-response templates the
// presenter offers.
const missVariants = 3

// persistTimeout bounds store calls made from timer callbacks, which have no
// caller-supplied context.
const persistTimeout = 10 * time.Second

// Config carries the tunable game rules. Zero fields are filled from the
// defaults in withDefaults.
type Config struct {
	RoundTimeout         time.Duration
	MaxHints             int
	BasePoints           int
	WinThreshold         float64
	WarmThreshold        float64
	SpeedBonusWindow     time.Duration
	SpeedBonusMultiplier float64
	EasyMultiplier       float64
	MediumMultiplier     float64
	HardMultiplier       float64
}

func (c Config) withDefaults() Config {
	if c.RoundTimeout <= 0 {
		c.RoundTimeout = 60 * time.Second
	}
	if c.MaxHints <= 0 {
		c.MaxHints = 3
	}
	if c.BasePoints <= 0 {
		c.BasePoints = 10
	}
	if c.WinThreshold <= 0 {
		c.WinThreshold = 0.8
	}
	if c.WarmThreshold <= 0 {
		c.WarmThreshold = 0.5
	}
	if c.SpeedBonusWindow <= 0 {
		c.SpeedBonusWindow = 30 * time.Second
	}
	if c.SpeedBonusMultiplier <= 0 {
		c.SpeedBonusMultiplier = 1.5
	}
	if c.EasyMultiplier <= 0 {
		c.EasyMultiplier = 1.0
	}
	if c.MediumMultiplier <= 0 {
		c.MediumMultiplier = 1.5
	}
	if c.HardMultiplier <= 0 {
		c.HardMultiplier = 2.0
	}
	return c
}

// Manager owns the active-round index and the timeout timers. At most one
// ACTIVE round exists per chat.
type Manager struct {
	cfg     Config
	rounds  *session.Store
	puzzles puzzle.Store
	players player.Repository

	mu     sync.Mutex
	active map[string]*domain.Round
	timers map[string]*time.Timer
	locks  map[string]*sync.Mutex
}

func NewManager(cfg Config, rounds *session.Store, puzzles puzzle.Store, players player.Repository) *Manager {
	return &Manager{
		cfg:     cfg.withDefaults(),
		rounds:  rounds,
		puzzles: puzzles,
		players: players,
		active:  make(map[string]*domain.Round),
		timers:  make(map[string]*time.Timer),
		locks:   make(map[string]*sync.Mutex),
	}
}

// Close cancels all pending timers. Rounds stay ACTIVE in the store and are
// re-adopted on the next operation after restart.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for chatID, t := range m.timers {
		t.Stop()
		delete(m.timers, chatID)
	}
}

// StartRound draws a puzzle, creates the round, registers it in the active
// index and arms the timeout timer.
func (m *Manager) StartRound(ctx context.Context, chatID string, category domain.Category, difficulty domain.Difficulty) (*StartResult, error) {
	if strings.TrimSpace(chatID) == "" {
		return nil, ErrInvalidInput
	}
	lock := m.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	if r := m.activeLocked(ctx, chatID); r != nil {
		return nil, ErrRoundActive
	}

	recent, err := m.rounds.Recent(ctx, chatID)
	if err != nil {
		// The window is an anti-repetition nicety; a failed read must not
		// block starting a round.
		obslog.L().Warn("recent_window_read_failed", zap.String("chat_id", chatID), zap.Error(err))
		recent = nil
	}

	p, err := m.puzzles.Draw(ctx, puzzle.Filter{
		Category:   category,
		Difficulty: difficulty,
		ExcludeIDs: recent,
	})
	if err != nil {
		if errors.Is(err, puzzle.ErrNoPuzzle) {
			return nil, ErrNoPuzzleAvailable
		}
		return nil, storageErr(err)
	}

	r := &domain.Round{
		ID:         uuid.NewString(),
		ChatID:     chatID,
		PuzzleID:   p.ID,
		Emojis:     p.Emojis,
		Answer:     p.Answer,
		Category:   p.Category,
		Difficulty: p.Difficulty,
		Status:     domain.RoundActive,
		StartedAt:  time.Now(),
	}
	if err := m.rounds.Create(ctx, r); err != nil {
		return nil, storageErr(err)
	}
	if err := m.rounds.PushRecent(ctx, chatID, p.ID); err != nil {
		obslog.L().Warn("recent_window_push_failed", zap.String("chat_id", chatID), zap.Error(err))
	}

	m.register(r)
	m.armTimer(chatID, r.ID, m.cfg.RoundTimeout)

	obslog.L().Info("round_start",
		zap.String("round_id", r.ID),
		zap.String("chat_id", chatID),
		zap.String("puzzle_id", p.ID),
		zap.String("category", string(p.Category)),
		zap.String("difficulty", string(p.Difficulty)),
	)
	return &StartResult{Round: cloneRound(r), TimeLimit: m.cfg.RoundTimeout}, nil
}

// SubmitGuess records the guess and arbitrates it against the round's answer.
func (m *Manager) SubmitGuess(ctx context.Context, chatID, userID, userName, text string) (*GuessResult, error) {
	if strings.TrimSpace(text) == "" || strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}
	lock := m.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	r := m.activeLocked(ctx, chatID)
	if r == nil {
		return nil, ErrNoActiveRound
	}

	if _, err := m.players.Ensure(ctx, player.Identity{UserID: userID, Username: userName}); err != nil {
		obslog.L().Warn("player_ensure_failed", zap.String("user_id", userID), zap.Error(err))
	}

	if !r.HasParticipant(userID) {
		if err := m.rounds.Update(ctx, r.ID, session.RoundUpdate{AddParticipant: userID}); err != nil {
			obslog.L().Warn("participant_persist_failed", zap.String("round_id", r.ID), zap.Error(err))
		}
		r.Participants = append(r.Participants, userID)
	}
	if err := m.rounds.AppendGuess(ctx, r.ID, domain.Guess{UserID: userID, Text: text, At: time.Now()}); err != nil {
		obslog.L().Warn("guess_log_failed", zap.String("round_id", r.ID), zap.Error(err))
	}

	sim := match.Similarity(text, r.Answer)
	if sim >= m.cfg.WinThreshold {
		return m.winLocked(ctx, r, userID, userName, sim)
	}
	if sim >= m.cfg.WarmThreshold {
		return &GuessResult{Outcome: OutcomeClose, Similarity: sim}, nil
	}
	return &GuessResult{Outcome: OutcomeMiss, Similarity: sim, MissVariant: rand.Intn(missVariants)}, nil
}

// winLocked finalizes a won round. Persist first, then flip the in-memory
// index; a failed write leaves the round ACTIVE for retry.
func (m *Manager) winLocked(ctx context.Context, r *domain.Round, userID, userName string, sim float64) (*GuessResult, error) {
	now := time.Now()
	elapsed := now.Sub(r.StartedAt)
	points, speedBonus := m.cfg.scorePoints(r.Difficulty, elapsed)

	status := domain.RoundWon
	if err := m.rounds.Update(ctx, r.ID, session.RoundUpdate{
		Status:     &status,
		EndedAt:    &now,
		WinnerID:   &userID,
		WinnerName: &userName,
	}); err != nil {
		return nil, storageErr(err)
	}

	m.unregister(r.ChatID, r.ID)

	r.Status = domain.RoundWon
	r.EndedAt = now
	r.WinnerID = userID
	r.WinnerName = userName

	// Winner credit: the only games_played increment this player gets for the
	// round. Counter arithmetic happens at the storage layer.
	if err := m.players.ApplyDelta(ctx, userID, domain.StatsDelta{
		Score:          points,
		GamesPlayed:    1,
		GamesWon:       1,
		CorrectGuesses: 1,
	}); err != nil {
		obslog.L().Error("winner_credit_failed", zap.String("round_id", r.ID), zap.String("user_id", userID), zap.Error(err))
	}
	if err := m.puzzles.MarkSolved(ctx, r.PuzzleID); err != nil {
		obslog.L().Warn("puzzle_solved_mark_failed", zap.String("puzzle_id", r.PuzzleID), zap.Error(err))
	}

	obslog.L().Info("round_won",
		zap.String("round_id", r.ID),
		zap.String("chat_id", r.ChatID),
		zap.String("winner_id", userID),
		zap.Int("points", points),
		zap.Bool("speed_bonus", speedBonus),
		zap.Duration("elapsed", elapsed),
	)
	return &GuessResult{
		Outcome:    OutcomeWon,
		Similarity: sim,
		Victory: &VictorySummary{
			WinnerID:   userID,
			WinnerName: userName,
			Answer:     r.Answer,
			Emojis:     r.Emojis,
			Category:   r.Category,
			Difficulty: r.Difficulty,
			Elapsed:    elapsed,
			Points:     points,
			SpeedBonus: speedBonus,
		},
	}, nil
}

// RequestHint reveals the next hint for the chat's active round and credits
// the requesting user's hints_used counter.
func (m *Manager) RequestHint(ctx context.Context, chatID, userID string) (*HintResult, error) {
	lock := m.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	r := m.activeLocked(ctx, chatID)
	if r == nil {
		return nil, ErrNoActiveRound
	}
	if r.HintsRevealed >= m.cfg.MaxHints {
		return nil, ErrHintLimitReached
	}

	p, err := m.puzzles.GetByID(ctx, r.PuzzleID)
	if err != nil {
		return nil, storageErr(err)
	}
	// The configured max can exceed what the puzzle actually has.
	if p == nil || r.HintsRevealed >= len(p.Hints) {
		return nil, ErrNoMoreHints
	}

	hint := p.Hints[r.HintsRevealed]
	revealed := r.HintsRevealed + 1
	if err := m.rounds.Update(ctx, r.ID, session.RoundUpdate{HintsRevealed: &revealed}); err != nil {
		return nil, storageErr(err)
	}
	r.HintsRevealed = revealed

	if strings.TrimSpace(userID) != "" {
		if _, err := m.players.Ensure(ctx, player.Identity{UserID: userID}); err == nil {
			if err := m.players.ApplyDelta(ctx, userID, domain.StatsDelta{HintsUsed: 1}); err != nil {
				obslog.L().Warn("hint_credit_failed", zap.String("user_id", userID), zap.Error(err))
			}
		}
	}

	obslog.L().Info("hint_revealed",
		zap.String("round_id", r.ID),
		zap.String("chat_id", chatID),
		zap.Int("position", revealed),
		zap.Int("total", len(p.Hints)),
	)
	return &HintResult{Hint: hint, Position: revealed, Total: len(p.Hints)}, nil
}

// EndRound finalizes the chat's active round without a winner.
func (m *Manager) EndRound(ctx context.Context, chatID string, reason domain.EndReason) (*EndResult, error) {
	lock := m.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	r := m.activeLocked(ctx, chatID)
	if r == nil {
		return nil, ErrNoActiveRound
	}
	return m.endLocked(ctx, r, reason)
}

func (m *Manager) endLocked(ctx context.Context, r *domain.Round, reason domain.EndReason) (*EndResult, error) {
	status := domain.RoundEnded
	if reason == domain.EndTimeout {
		status = domain.RoundTimedOut
	}
	now := time.Now()
	if err := m.rounds.Update(ctx, r.ID, session.RoundUpdate{Status: &status, EndedAt: &now}); err != nil {
		return nil, storageErr(err)
	}

	m.unregister(r.ChatID, r.ID)
	r.Status = status
	r.EndedAt = now

	// Rounds ended this way have no winner, so every participant gets exactly
	// one games_played credit. The winner of a won round was already credited
	// in the win path and never reaches here.
	for _, userID := range r.Participants {
		if err := m.players.ApplyDelta(ctx, userID, domain.StatsDelta{GamesPlayed: 1}); err != nil {
			obslog.L().Warn("participant_credit_failed", zap.String("round_id", r.ID), zap.String("user_id", userID), zap.Error(err))
		}
	}

	obslog.L().Info("round_end",
		zap.String("round_id", r.ID),
		zap.String("chat_id", r.ChatID),
		zap.String("reason", string(reason)),
		zap.Int("participants", len(r.Participants)),
	)
	return &EndResult{Round: cloneRound(r)}, nil
}

// expire is the timeout timer callback. A stale fire (the round already
// transitioned, or a new round took its place) is a no-op.
func (m *Manager) expire(chatID, roundID string) {
	lock := m.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	m.mu.Lock()
	r := m.active[chatID]
	m.mu.Unlock()
	if r == nil || r.ID != roundID || r.Status != domain.RoundActive {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if _, err := m.endLocked(ctx, r, domain.EndTimeout); err != nil {
		obslog.L().Error("round_timeout_failed", zap.String("round_id", roundID), zap.Error(err))
	}
}

// activeLocked returns the chat's ACTIVE round. Caller holds the chat lock.
// After a restart the in-memory index is empty, so a round still ACTIVE in
// the store is adopted back and its timer re-armed with the remaining time.
func (m *Manager) activeLocked(ctx context.Context, chatID string) *domain.Round {
	m.mu.Lock()
	r := m.active[chatID]
	m.mu.Unlock()
	if r != nil {
		return r
	}

	stored, err := m.rounds.FindActive(ctx, chatID)
	if err != nil || stored == nil {
		return nil
	}
	remaining := m.cfg.RoundTimeout - time.Since(stored.StartedAt)
	if remaining < time.Second {
		remaining = time.Second
	}
	m.register(stored)
	m.armTimer(chatID, stored.ID, remaining)
	obslog.L().Info("round_adopted", zap.String("round_id", stored.ID), zap.String("chat_id", chatID))
	return stored
}

func (m *Manager) chatLock(chatID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[chatID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[chatID] = l
	}
	return l
}

func (m *Manager) register(r *domain.Round) {
	m.mu.Lock()
	m.active[r.ChatID] = r
	m.mu.Unlock()
}

// unregister clears the active index entry and cancels the timer. Stopping an
// already-fired timer is safe; the stale callback checks state and no-ops.
func (m *Manager) unregister(chatID, roundID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r := m.active[chatID]; r != nil && r.ID == roundID {
		delete(m.active, chatID)
	}
	if t := m.timers[chatID]; t != nil {
		t.Stop()
		delete(m.timers, chatID)
	}
}

func (m *Manager) armTimer(chatID, roundID string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t := m.timers[chatID]; t != nil {
		t.Stop()
	}
	m.timers[chatID] = time.AfterFunc(d, func() { m.expire(chatID, roundID) })
}

func cloneRound(r *domain.Round) *domain.Round {
	cp := *r
	cp.Participants = append([]string(nil), r.Participants...)
	return &cp
}

func storageErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStorage, err)
}
