package memory

import (
	"context"
	"sync"
)

// Store is an in-process key/value store. It is the default backend and the
// fake used in tests.
type Store struct {
	mu    sync.Mutex
	items map[string][]byte
	// FailPut, when set, is returned by every Put.
	FailPut error
}

func New() *Store {
	return &Store{items: make(map[string][]byte)}
}

// Get returns a copy of the blob stored under key.
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Put stores a copy of value under key.
func (s *Store) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailPut != nil {
		return s.FailPut
	}
	s.items[key] = append([]byte(nil), value...)
	return nil
}

// Len reports how many keys hold data.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
