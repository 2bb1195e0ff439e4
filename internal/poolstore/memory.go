package poolstore

import (
	"context"
	"sync"

	"github.com/solanaforge/amm-engine/internal/pool"
)

// MemoryStore is a map-backed pool.Store for tests and standalone mode.
type MemoryStore struct {
	mu    sync.RWMutex
	pools map[string]pool.Pool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{pools: make(map[string]pool.Pool)}
}

func (s *MemoryStore) Upsert(ctx context.Context, p *pool.Pool) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pools[p.ID()] = *p
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*pool.Pool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.pools[id]
	if !ok {
		return nil, pool.ErrNotFound
	}
	out := p
	return &out, nil
}

func (s *MemoryStore) List(ctx context.Context) ([]*pool.Pool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*pool.Pool, 0, len(s.pools))
	for _, p := range s.pools {
		cp := p
		out = append(out, &cp)
	}
	return out, nil
}

func (s *MemoryStore) SetLocked(ctx context.Context, id string, locked bool) (*pool.Pool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pools[id]
	if !ok {
		return nil, pool.ErrNotFound
	}
	p.Locked = locked
	s.pools[id] = p
	out := p
	return &out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pools, id)
	return nil
}
