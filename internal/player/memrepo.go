package player

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kapu/emoji-movie-bot-go/internal/domain"
)

// memrepo is an in-memory Repository for tests and DB-less development runs.
type memrepo struct {
	mu      sync.RWMutex
	players map[string]*domain.Player
}

func NewMemoryRepository() Repository {
	return &memrepo{players: make(map[string]*domain.Player)}
}

func (m *memrepo) Ensure(ctx context.Context, id Identity) (*domain.Player, error) {
	if strings.TrimSpace(id.UserID) == "" {
		return nil, fmt.Errorf("user id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[id.UserID]
	if !ok {
		now := time.Now()
		p = &domain.Player{
			UserID:       id.UserID,
			JoinedAt:     now,
			LastActiveAt: now,
		}
		m.players[id.UserID] = p
	}
	if id.Username != "" {
		p.Username = id.Username
	}
	if id.FirstName != "" {
		p.FirstName = id.FirstName
	}
	if id.LastName != "" {
		p.LastName = id.LastName
	}
	p.LastActiveAt = time.Now()
	cp := *p
	return &cp, nil
}

func (m *memrepo) ApplyDelta(ctx context.Context, userID string, d domain.StatsDelta) error {
	if d.IsZero() {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[userID]
	if !ok {
		return fmt.Errorf("player not found: %s", userID)
	}
	p.Score += d.Score
	p.GamesPlayed += d.GamesPlayed
	p.GamesWon += d.GamesWon
	p.CorrectGuesses += d.CorrectGuesses
	p.HintsUsed += d.HintsUsed
	p.LastActiveAt = time.Now()
	return nil
}

func (m *memrepo) Get(ctx context.Context, userID string) (*domain.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.players[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memrepo) Top(ctx context.Context, limit int) ([]*domain.Player, error) {
	if limit <= 0 {
		limit = 10
	}
	m.mu.RLock()
	items := make([]*domain.Player, 0, len(m.players))
	for _, p := range m.players {
		cp := *p
		items = append(items, &cp)
	}
	m.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		if items[i].GamesWon != items[j].GamesWon {
			return items[i].GamesWon > items[j].GamesWon
		}
		return items[i].UserID < items[j].UserID
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (m *memrepo) Rank(ctx context.Context, userID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.players[userID]
	if !ok {
		return 0, nil
	}
	higher := 0
	for _, other := range m.players {
		if other.Score > p.Score {
			higher++
		}
	}
	return higher + 1, nil
}
