package store

import (
	"context"
	"sync"

	"github.com/castlebot/chess-escrow/internal/domain"
)

// memstore is an in-memory Store used when no Redis is configured and by
// tests. Records are copied on the way in and out so callers never share
// mutable state with the store.
type memstore struct {
	mu     sync.RWMutex
	nextID uint64
	games  map[uint64]*domain.Game
	order  []uint64
}

func NewMemory() Store {
	return &memstore{games: make(map[uint64]*domain.Game)}
}

func (m *memstore) Create(ctx context.Context, g *domain.Game) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	copy := *g
	copy.ID = id
	m.games[id] = &copy
	m.order = append(m.order, id)
	g.ID = id
	return id, nil
}

func (m *memstore) Get(ctx context.Context, id uint64) (*domain.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	copy := *g
	return &copy, nil
}

func (m *memstore) Put(ctx context.Context, g *domain.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[g.ID]; !ok {
		return ErrNotFound
	}
	copy := *g
	m.games[g.ID] = &copy
	return nil
}

func (m *memstore) List(ctx context.Context) ([]*domain.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Game, 0, len(m.order))
	for _, id := range m.order {
		copy := *m.games[id]
		out = append(out, &copy)
	}
	return out, nil
}

func (m *memstore) Close() error { return nil }
