package memory

import (
	"context"
	"fmt"
	"sync"

	"finproject/internal/kv"
)

// Store keeps values in process memory. A positive quota caps the total number
// of stored bytes the way browser local storage does.
type Store struct {
	mu    sync.Mutex
	quota int
	items map[string][]byte
}

func New() *Store {
	return NewWithQuota(0)
}

// NewWithQuota returns a store that rejects writes pushing the total size of
// keys and values above quota bytes. Zero or negative means unlimited.
func NewWithQuota(quota int) *Store {
	return &Store{quota: quota, items: map[string][]byte{}}
}

// Get returns a copy of the value stored under key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	if !ok {
		return nil, kv.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value under key.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quota > 0 {
		size := len(key) + len(value)
		for k, v := range s.items {
			if k != key {
				size += len(k) + len(v)
			}
		}
		if size > s.quota {
			return fmt.Errorf("set %q (%d bytes over %d): %w", key, size, s.quota, kv.ErrQuotaExceeded)
		}
	}
	s.items[key] = append([]byte(nil), value...)
	return nil
}
