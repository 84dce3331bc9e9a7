package puzzle

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/kapu/emoji-movie-bot-go/internal/domain"
)

// memstore is a mutex-guarded in-memory Store used for tests and DB-less
// development runs.
type memstore struct {
	mu      sync.RWMutex
	byID    map[string]*domain.Puzzle
	ordered []string // insertion order, keeps Draw deterministic to seed
}

func NewMemoryStore() Store {
	return &memstore{byID: make(map[string]*domain.Puzzle)}
}

func (m *memstore) Insert(ctx context.Context, p *domain.Puzzle) error {
	if p == nil || p.ID == "" {
		return fmt.Errorf("puzzle requires an id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byID[p.ID]; exists {
		return nil // corpus load is idempotent
	}
	cp := *p
	m.byID[p.ID] = &cp
	m.ordered = append(m.ordered, p.ID)
	return nil
}

func (m *memstore) Draw(ctx context.Context, f Filter) (*domain.Puzzle, error) {
	excluded := make(map[string]struct{}, len(f.ExcludeIDs))
	for _, id := range f.ExcludeIDs {
		excluded[id] = struct{}{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Collect the minimum-usage tie set among candidates.
	minUsage := -1
	var ties []*domain.Puzzle
	for _, id := range m.ordered {
		p := m.byID[id]
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Difficulty != "" && p.Difficulty != f.Difficulty {
			continue
		}
		if _, skip := excluded[p.ID]; skip {
			continue
		}
		switch {
		case minUsage < 0 || p.TimesPresented < minUsage:
			minUsage = p.TimesPresented
			ties = ties[:0]
			ties = append(ties, p)
		case p.TimesPresented == minUsage:
			ties = append(ties, p)
		}
	}
	if len(ties) == 0 {
		return nil, ErrNoPuzzle
	}

	picked := ties[rand.Intn(len(ties))]
	picked.TimesPresented++
	cp := *picked
	return &cp, nil
}

func (m *memstore) GetByID(ctx context.Context, id string) (*domain.Puzzle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memstore) MarkSolved(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.byID[id]; ok {
		p.TimesSolved++
	}
	return nil
}

func (m *memstore) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID), nil
}
