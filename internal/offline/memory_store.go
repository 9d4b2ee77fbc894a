package offline

import (
	"context"
	"sync"

	appErrors "github.com/noah-isme/mustang-stride-api/pkg/errors"
)

// MemoryStore is an in-process EntryStore for tests and redis-less
// development.
type MemoryStore struct {
	mu          sync.RWMutex
	generations map[string]map[string]*Entry
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{generations: make(map[string]map[string]*Entry)}
}

func (s *MemoryStore) Get(_ context.Context, generation, key string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if entry, ok := s.generations[generation][key]; ok {
		return entry, nil
	}
	return nil, appErrors.ErrCacheMiss
}

func (s *MemoryStore) Match(_ context.Context, key string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, entries := range s.generations {
		if entry, ok := entries[key]; ok {
			return entry, nil
		}
	}
	return nil, appErrors.ErrCacheMiss
}

func (s *MemoryStore) Put(_ context.Context, generation, key string, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generations[generation] == nil {
		s.generations[generation] = make(map[string]*Entry)
	}
	s.generations[generation][key] = entry
	return nil
}

func (s *MemoryStore) Sweep(_ context.Context, keep string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for generation := range s.generations {
		if generation != keep {
			delete(s.generations, generation)
		}
	}
	return nil
}

// Generations returns the stored generation names, for assertions.
func (s *MemoryStore) Generations() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.generations))
	for name := range s.generations {
		names = append(names, name)
	}
	return names
}
