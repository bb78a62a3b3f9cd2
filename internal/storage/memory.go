// internal/storage/memory.go
// In-memory GameStore used by tests and by handler code that needs a store
// without a database. It applies the same optimistic-concurrency rules as the
// Postgres implementation so tests exercise realistic conflict behavior.
package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/Bvictor-coder/skins-game/internal/game"
)

// MemoryGameStore keeps game documents in a map guarded by a mutex. Documents
// are deep-copied on the way in and out so callers can't mutate stored state
// behind the store's back.
type MemoryGameStore struct {
	mu    sync.RWMutex
	games map[string]*game.Game
}

func NewMemoryGameStore() *MemoryGameStore {
	return &MemoryGameStore{games: make(map[string]*game.Game)}
}

func (s *MemoryGameStore) Create(_ context.Context, g *game.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g.Version = 0
	s.games[g.ID] = g.Clone()
	return nil
}

func (s *MemoryGameStore) Get(_ context.Context, id string) (*game.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	return g.Clone(), nil
}

func (s *MemoryGameStore) List(_ context.Context, status game.Status) ([]*game.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*game.Game, 0, len(s.games))
	for _, g := range s.games {
		if status != "" && g.Status != status {
			continue
		}
		out = append(out, g.Clone())
	}
	// Map iteration order is random; sort by id for a stable listing.
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryGameStore) Save(_ context.Context, g *game.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.games[g.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.Version != g.Version {
		return ErrVersionConflict
	}
	next := g.Clone()
	next.Version = g.Version + 1
	s.games[g.ID] = next
	g.Version = next.Version
	return nil
}

func (s *MemoryGameStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return ErrNotFound
	}
	delete(s.games, id)
	return nil
}
