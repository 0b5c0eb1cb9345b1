package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jrsteele09/arcash/kvstore"
)

var _ kvstore.Store = (*Store)(nil)

// Store is a thread-safe in-memory implementation of kvstore.Store
type Store struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// New creates an empty in-memory store
func New() *Store {
	return &Store{
		entries: make(map[string][]byte),
	}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, kvstore.ErrEmptyKey
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	// Return a copy to prevent external modifications
	return append([]byte(nil), value...), true, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	if key == "" {
		return kvstore.ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = append([]byte(nil), value...)
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	if key == "" {
		return kvstore.ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

func (s *Store) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0)
	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) DeletePrefix(_ context.Context, prefix string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed, nil
}
