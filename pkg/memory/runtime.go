package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
)

// Ensure RuntimeStore implements Store
var _ Store = (*RuntimeStore)(nil)

// RuntimeStore keeps settings in process memory. Values go through JSON so
// callers never share state with the store.
type RuntimeStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewRuntimeStore creates an empty RuntimeStore
func NewRuntimeStore() *RuntimeStore {
	return &RuntimeStore{values: make(map[string][]byte)}
}

func (s *RuntimeStore) Put(_ context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.values[key] = data
	s.mu.Unlock()
	return nil
}

func (s *RuntimeStore) Get(_ context.Context, key string, dest interface{}) error {
	s.mu.RLock()
	data, ok := s.values[key]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(data, dest)
}

// Keys returns the stored keys in sorted order
func (s *RuntimeStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
